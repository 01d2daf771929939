package order

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ashureev/orderbot/internal/metrics"
)

// Service is the entry point for each order lifecycle event. It returns
// plain user-facing text; errors are logged and rendered, never returned.
type Service struct {
	aggregator   *Aggregator
	orchestrator *Orchestrator
	tracker      *Tracker
	metrics      *metrics.Metrics
}

// NewService wires the order components. m may be nil.
func NewService(aggregator *Aggregator, orchestrator *Orchestrator, tracker *Tracker, m *metrics.Metrics) *Service {
	return &Service{
		aggregator:   aggregator,
		orchestrator: orchestrator,
		tracker:      tracker,
		metrics:      m,
	}
}

// StartOrder opens an empty order for the session.
func (s *Service) StartOrder(_ context.Context, sessionID string) string {
	s.aggregator.StartOrder(sessionID)
	slog.Info("Order started", "session_id", sessionID)
	return MsgStartOrder
}

// AddItems merges items into the session's order.
func (s *Service) AddItems(_ context.Context, sessionID string, items []string, quantities []int) string {
	current, err := s.aggregator.AddItems(sessionID, items, quantities)
	if err != nil {
		slog.Info("Add items rejected", "session_id", sessionID, "items", len(items), "quantities", len(quantities), "error", err)
		return MsgParameterMismatch
	}
	return msgOrderSoFar(current.String())
}

// RemoveItems drops items from the session's order.
func (s *Service) RemoveItems(_ context.Context, sessionID string, items []string) string {
	res, err := s.aggregator.RemoveItems(sessionID, items)
	if errors.Is(err, ErrNoActiveOrder) {
		return MsgRemoveNoOrder
	}
	return msgRemoved(res)
}

// CommitOrder persists the session's order.
func (s *Service) CommitOrder(ctx context.Context, sessionID string) string {
	start := time.Now()
	res, err := s.orchestrator.Commit(ctx, sessionID)
	switch {
	case errors.Is(err, ErrNoActiveOrder):
		s.metrics.ObserveCommit(metrics.CommitNoOrder, time.Since(start))
		return MsgCommitNoOrder
	case err != nil:
		s.metrics.ObserveCommit(metrics.CommitFailure, time.Since(start))
		slog.Error("Order commit failed", "session_id", sessionID, "error", err)
		return MsgCommitFailed
	}

	s.metrics.ObserveCommit(metrics.CommitSuccess, time.Since(start))
	slog.Info("Order committed", "session_id", sessionID, "order_id", res.OrderID, "items", len(res.Items), "total", res.Total.String())
	return msgOrderPlaced(res)
}

// TrackOrder reports the status of the referenced order.
func (s *Service) TrackOrder(ctx context.Context, orderRef string) string {
	res, err := s.tracker.Track(ctx, orderRef)
	switch {
	case errors.Is(err, ErrInvalidOrderID):
		return MsgInvalidOrderID
	case err != nil:
		slog.Error("Order tracking failed", "order_id", res.OrderID, "error", err)
		return MsgTrackFailed
	}
	return msgTracked(res)
}
