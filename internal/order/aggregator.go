// Package order accumulates per-session orders and commits them to storage.
package order

import (
	"github.com/ashureev/orderbot/internal/domain"
	"github.com/ashureev/orderbot/internal/session"
)

// Aggregator merges and removes line items of a session's in-progress order.
// Every call holds the session lock for its full read-modify-write.
type Aggregator struct {
	sessions *session.Store
}

// NewAggregator creates an Aggregator over sessions.
func NewAggregator(sessions *session.Store) *Aggregator {
	return &Aggregator{sessions: sessions}
}

// StartOrder replaces any order held by the session with an empty one.
// An unfinished previous order is dropped silently.
func (a *Aggregator) StartOrder(sessionID string) {
	unlock := a.sessions.Lock(sessionID)
	defer unlock()

	a.sessions.Put(sessionID, domain.InProgressOrder{})
}

// AddItems pairs items with quantities positionally and merges them into
// the session's order, creating it if needed. For any item name the last
// quantity written wins, within the call and across calls. It returns the
// resulting order.
func (a *Aggregator) AddItems(sessionID string, items []string, quantities []int) (domain.InProgressOrder, error) {
	if len(items) != len(quantities) {
		return nil, ErrParameterMismatch
	}
	for _, q := range quantities {
		if q < 0 {
			return nil, ErrParameterMismatch
		}
	}

	unlock := a.sessions.Lock(sessionID)
	defer unlock()

	current, ok := a.sessions.Get(sessionID)
	if !ok {
		current = domain.InProgressOrder{}
	}
	for i, name := range items {
		current[name] = quantities[i]
	}
	a.sessions.Put(sessionID, current)
	return current, nil
}

// RemoveResult reports the outcome of RemoveItems.
type RemoveResult struct {
	Removed   []string
	NotFound  []string
	Remaining domain.InProgressOrder
}

// RemoveItems deletes the named items from the session's order. Names that
// are not in the order are reported in NotFound; that is not an error.
func (a *Aggregator) RemoveItems(sessionID string, items []string) (RemoveResult, error) {
	unlock := a.sessions.Lock(sessionID)
	defer unlock()

	current, ok := a.sessions.Get(sessionID)
	if !ok {
		return RemoveResult{}, ErrNoActiveOrder
	}

	var res RemoveResult
	for _, name := range items {
		if _, present := current[name]; present {
			delete(current, name)
			res.Removed = append(res.Removed, name)
		} else {
			res.NotFound = append(res.NotFound, name)
		}
	}
	a.sessions.Put(sessionID, current)
	res.Remaining = current
	return res, nil
}
