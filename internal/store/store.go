// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"errors"

	"github.com/ashureev/orderbot/internal/domain"
)

// ErrUnknownItem is returned when a line item names something not on the menu.
var ErrUnknownItem = errors.New("item not on menu")

// Repository defines the persistence contract for committed orders.
//
// Writes are independent statements: there is no transaction spanning
// AllocateNextOrderID, InsertLineItem and InsertTrackingRecord.
type Repository interface {
	// AllocateNextOrderID reserves a new, monotonically increasing order ID.
	AllocateNextOrderID(ctx context.Context) (int64, error)

	// InsertLineItem records one item of an order, priced from the menu.
	// Returns ErrUnknownItem (wrapped) if the item is not on the menu.
	InsertLineItem(ctx context.Context, name string, quantity int, orderID int64) error

	// InsertTrackingRecord writes the initial tracking status of an order.
	InsertTrackingRecord(ctx context.Context, orderID int64, status domain.OrderStatus) error

	// UpdateTrackingStatus changes the status of an existing tracking record.
	UpdateTrackingStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error

	// GetTotalPrice sums the persisted line items of an order.
	GetTotalPrice(ctx context.Context, orderID int64) (domain.Cents, error)

	// GetStatus returns the tracking status of an order. The bool is false
	// when no tracking record exists.
	GetStatus(ctx context.Context, orderID int64) (domain.OrderStatus, bool, error)

	// DeleteLineItems removes every line item written for an order.
	DeleteLineItems(ctx context.Context, orderID int64) (int64, error)

	// UpsertMenuItem creates or reprices a menu entry.
	UpsertMenuItem(ctx context.Context, item domain.MenuItem) error

	// ListMenu returns the menu sorted by name.
	ListMenu(ctx context.Context) ([]domain.MenuItem, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
