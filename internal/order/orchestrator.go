package order

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ashureev/orderbot/internal/domain"
	"github.com/ashureev/orderbot/internal/session"
)

// Persister is the subset of store.Repository a commit writes through.
type Persister interface {
	AllocateNextOrderID(ctx context.Context) (int64, error)
	InsertLineItem(ctx context.Context, name string, quantity int, orderID int64) error
	InsertTrackingRecord(ctx context.Context, orderID int64, status domain.OrderStatus) error
	GetTotalPrice(ctx context.Context, orderID int64) (domain.Cents, error)
	DeleteLineItems(ctx context.Context, orderID int64) (int64, error)
}

// CommitResult describes a successfully committed order.
type CommitResult struct {
	OrderID    int64
	Items      []domain.LineItem
	Total      domain.Cents
	TotalKnown bool
}

// Orchestrator turns a session's in-progress order into persisted records.
type Orchestrator struct {
	sessions   *session.Store
	repo       Persister
	compensate bool
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithCompensation makes a failed commit delete the line items it already
// wrote for the allocated order ID.
func WithCompensation(enabled bool) OrchestratorOption {
	return func(o *Orchestrator) { o.compensate = enabled }
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(sessions *session.Store, repo Persister, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{sessions: sessions, repo: repo}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Commit persists the session's order: allocate an order ID, write each
// line item, then write the tracking record with status "in progress".
//
// The first failed write aborts the commit with ErrPersistenceFailure.
// Line items written before the failure stay in the store unless
// compensation is enabled, so an order ID without a tracking record must
// not be taken as a completed order. The in-progress order is removed from
// the session whether the commit succeeds or fails; it is never retried.
func (o *Orchestrator) Commit(ctx context.Context, sessionID string) (CommitResult, error) {
	unlock := o.sessions.Lock(sessionID)
	defer unlock()

	current, ok := o.sessions.Get(sessionID)
	if !ok {
		return CommitResult{}, ErrNoActiveOrder
	}
	defer o.sessions.Delete(sessionID)

	orderID, err := o.repo.AllocateNextOrderID(ctx)
	if err != nil {
		return CommitResult{}, fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}

	items := current.Items()
	for _, item := range items {
		if err := o.repo.InsertLineItem(ctx, item.Name, item.Quantity, orderID); err != nil {
			o.rollback(ctx, orderID)
			return CommitResult{}, fmt.Errorf("%w: order %d: %w", ErrPersistenceFailure, orderID, err)
		}
	}

	if err := o.repo.InsertTrackingRecord(ctx, orderID, domain.StatusInProgress); err != nil {
		o.rollback(ctx, orderID)
		return CommitResult{}, fmt.Errorf("%w: order %d: %w", ErrPersistenceFailure, orderID, err)
	}

	res := CommitResult{OrderID: orderID, Items: items}
	total, err := o.repo.GetTotalPrice(ctx, orderID)
	if err != nil {
		// The order is already durable; only the price is missing from the reply.
		slog.Warn("Failed to resolve order total", "order_id", orderID, "error", err)
		return res, nil
	}
	res.Total = total
	res.TotalKnown = true
	return res, nil
}

func (o *Orchestrator) rollback(ctx context.Context, orderID int64) {
	if !o.compensate {
		slog.Warn("Commit failed, partial line items left in place", "order_id", orderID)
		return
	}
	n, err := o.repo.DeleteLineItems(ctx, orderID)
	if err != nil {
		slog.Error("Compensating delete failed", "order_id", orderID, "error", err)
		return
	}
	slog.Info("Compensating delete removed partial line items", "order_id", orderID, "deleted", n)
}
