package intent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ashureev/orderbot/internal/metrics"
	"github.com/ashureev/orderbot/internal/order"
)

// OrderService is the order lifecycle the dispatcher drives.
type OrderService interface {
	StartOrder(ctx context.Context, sessionID string) string
	AddItems(ctx context.Context, sessionID string, items []string, quantities []int) string
	RemoveItems(ctx context.Context, sessionID string, items []string) string
	CommitOrder(ctx context.Context, sessionID string) string
	TrackOrder(ctx context.Context, orderRef string) string
}

// Dispatcher routes parsed events to the order service.
type Dispatcher struct {
	orders  OrderService
	metrics *metrics.Metrics
}

// NewDispatcher creates a Dispatcher. m may be nil.
func NewDispatcher(orders OrderService, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{orders: orders, metrics: m}
}

// Handle parses r and returns the reply text for it.
func (d *Dispatcher) Handle(ctx context.Context, r *Request) string {
	sessionID := r.SessionID()
	ev, err := Parse(r)
	if err != nil {
		d.metrics.ObserveIntent(ev.Kind())
		slog.Info("Rejected intent parameters",
			"session_id", sessionID,
			"intent", r.QueryResult.Intent.DisplayName,
			"error", err)
		return order.MsgParameterMismatch
	}
	return d.Dispatch(ctx, sessionID, ev)
}

// Dispatch runs ev for the session and returns the reply text.
func (d *Dispatcher) Dispatch(ctx context.Context, sessionID string, ev Event) string {
	d.metrics.ObserveIntent(ev.Kind())
	slog.Debug("Dispatching intent", "session_id", sessionID, "kind", ev.Kind())

	switch e := ev.(type) {
	case StartOrder:
		return d.orders.StartOrder(ctx, sessionID)
	case AddItems:
		return d.orders.AddItems(ctx, sessionID, e.Items, e.Quantities)
	case RemoveItems:
		return d.orders.RemoveItems(ctx, sessionID, e.Items)
	case CompleteOrder:
		return d.orders.CommitOrder(ctx, sessionID)
	case TrackOrder:
		return d.orders.TrackOrder(ctx, e.OrderRef)
	case Unknown:
		slog.Warn("Unhandled intent", "session_id", sessionID, "intent", e.Name)
		return fmt.Sprintf("Sorry, I don't know how to handle the intent '%s'.", e.Name)
	default:
		panic(fmt.Sprintf("intent: unhandled event type %T", ev))
	}
}
