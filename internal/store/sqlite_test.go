package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ashureev/orderbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	require.NoError(t, s.UpsertMenuItem(ctx, domain.MenuItem{Name: "pizza", Price: 800}))
	require.NoError(t, s.UpsertMenuItem(ctx, domain.MenuItem{Name: "coke", Price: 150}))
	return s
}

func TestAllocateNextOrderIDIsMonotonic(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.AllocateNextOrderID(ctx)
	require.NoError(t, err)
	second, err := s.AllocateNextOrderID(ctx)
	require.NoError(t, err)

	assert.Greater(t, second, first)
}

func TestInsertLineItemsAndTotal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.AllocateNextOrderID(ctx)
	require.NoError(t, err)

	require.NoError(t, s.InsertLineItem(ctx, "pizza", 2, id))
	require.NoError(t, s.InsertLineItem(ctx, "coke", 1, id))

	total, err := s.GetTotalPrice(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.Cents(1750), total)
}

func TestInsertLineItemUnknownItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.InsertLineItem(ctx, "caviar", 1, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestTrackingRecordLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, found, err := s.GetStatus(ctx, 42)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.InsertTrackingRecord(ctx, 42, domain.StatusInProgress))
	status, found, err := s.GetStatus(ctx, 42)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, domain.StatusInProgress, status)

	require.NoError(t, s.UpdateTrackingStatus(ctx, 42, "delivered"))
	status, _, err = s.GetStatus(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatus("delivered"), status)

	assert.Error(t, s.UpdateTrackingStatus(ctx, 43, "delivered"))
	assert.Error(t, s.InsertTrackingRecord(ctx, 42, domain.StatusInProgress), "tracking record is written once")
}

func TestDeleteLineItems(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertLineItem(ctx, "pizza", 1, 7))
	require.NoError(t, s.InsertLineItem(ctx, "coke", 3, 7))

	n, err := s.DeleteLineItems(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	total, err := s.GetTotalPrice(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.Cents(0), total)
}

func TestListMenu(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertMenuItem(ctx, domain.MenuItem{Name: "pizza", Price: 900}))
	menu, err := s.ListMenu(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.MenuItem{
		{Name: "coke", Price: 150},
		{Name: "pizza", Price: 900},
	}, menu)
}

func TestLoadMenuFile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "menu.yaml")
	doc := "items:\n  - name: samosa\n    price: 5\n  - name: mango lassi\n    price: 4.75\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	n, err := LoadMenuFile(ctx, s, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	id, err := s.AllocateNextOrderID(ctx)
	require.NoError(t, err)
	require.NoError(t, s.InsertLineItem(ctx, "mango lassi", 2, id))
	total, err := s.GetTotalPrice(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.Cents(950), total)
}

func TestParseMenuRejectsBadEntries(t *testing.T) {
	_, err := ParseMenu([]byte("items:\n  - name: ''\n    price: 1\n"))
	assert.Error(t, err)

	_, err = ParseMenu([]byte("items:\n  - name: tea\n    price: -1\n"))
	assert.Error(t, err)

	_, err = ParseMenu([]byte("items:\n  - name: tea\n    price: 1\n  - name: tea\n    price: 2\n"))
	assert.Error(t, err)

	_, err = ParseMenu([]byte("items: [unclosed"))
	assert.Error(t, err)
}
