package order

import (
	"context"
	"errors"
	"sync"

	"github.com/ashureev/orderbot/internal/domain"
)

var errWriteFailed = errors.New("write failed")

type lineItemRow struct {
	orderID  int64
	name     string
	quantity int
}

// fakeRepo records every call and can be told to fail specific writes.
type fakeRepo struct {
	mu sync.Mutex

	nextID   int64
	prices   map[string]domain.Cents
	items    []lineItemRow
	tracking map[int64]domain.OrderStatus
	calls    []string

	failAllocate  error
	failItem      string // item name whose insert fails
	failTracking  error
	failTotal     error
	failStatus    error
	failDeleteLIs error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		nextID:   41,
		prices:   map[string]domain.Cents{"pizza": 800, "coke": 150, "fries": 300},
		tracking: make(map[int64]domain.OrderStatus),
	}
}

func (f *fakeRepo) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeRepo) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeRepo) AllocateNextOrderID(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("allocate")
	if f.failAllocate != nil {
		return 0, f.failAllocate
	}
	f.nextID++
	return f.nextID, nil
}

func (f *fakeRepo) InsertLineItem(_ context.Context, name string, quantity int, orderID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("insert_item:" + name)
	if name == f.failItem {
		return errWriteFailed
	}
	f.items = append(f.items, lineItemRow{orderID: orderID, name: name, quantity: quantity})
	return nil
}

func (f *fakeRepo) InsertTrackingRecord(_ context.Context, orderID int64, status domain.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("insert_tracking")
	if f.failTracking != nil {
		return f.failTracking
	}
	f.tracking[orderID] = status
	return nil
}

func (f *fakeRepo) GetTotalPrice(_ context.Context, orderID int64) (domain.Cents, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("total")
	if f.failTotal != nil {
		return 0, f.failTotal
	}
	var total domain.Cents
	for _, row := range f.items {
		if row.orderID == orderID {
			total += f.prices[row.name] * domain.Cents(row.quantity)
		}
	}
	return total, nil
}

func (f *fakeRepo) GetStatus(_ context.Context, orderID int64) (domain.OrderStatus, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("status")
	if f.failStatus != nil {
		return "", false, f.failStatus
	}
	status, ok := f.tracking[orderID]
	return status, ok, nil
}

func (f *fakeRepo) DeleteLineItems(_ context.Context, orderID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete_items")
	if f.failDeleteLIs != nil {
		return 0, f.failDeleteLIs
	}
	kept := f.items[:0]
	var n int64
	for _, row := range f.items {
		if row.orderID == orderID {
			n++
			continue
		}
		kept = append(kept, row)
	}
	f.items = kept
	return n, nil
}

func (f *fakeRepo) itemsFor(orderID int64) []lineItemRow {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []lineItemRow
	for _, row := range f.items {
		if row.orderID == orderID {
			out = append(out, row)
		}
	}
	return out
}
