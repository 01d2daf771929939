package order

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ashureev/orderbot/internal/domain"
)

// StatusReader looks up the tracking status of committed orders.
type StatusReader interface {
	GetStatus(ctx context.Context, orderID int64) (domain.OrderStatus, bool, error)
}

// TrackResult is the outcome of a tracking lookup.
type TrackResult struct {
	OrderID int64
	Status  domain.OrderStatus
	Found   bool
}

// Tracker answers order status queries.
type Tracker struct {
	repo StatusReader
}

// NewTracker creates a Tracker.
func NewTracker(repo StatusReader) *Tracker {
	return &Tracker{repo: repo}
}

// ParseOrderID normalizes a raw order reference to an integer ID.
func ParseOrderID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOrderID, raw)
	}
	return id, nil
}

// Track resolves the status of the order referenced by raw. An unparseable
// reference fails with ErrInvalidOrderID before any lookup.
func (t *Tracker) Track(ctx context.Context, raw string) (TrackResult, error) {
	id, err := ParseOrderID(raw)
	if err != nil {
		return TrackResult{}, err
	}

	status, found, err := t.repo.GetStatus(ctx, id)
	if err != nil {
		return TrackResult{OrderID: id}, fmt.Errorf("get status of order %d: %w", id, err)
	}
	return TrackResult{OrderID: id, Status: status, Found: found}, nil
}
