// Package session holds in-progress orders keyed by conversation session ID.
package session

import (
	"sync"
	"time"

	"github.com/ashureev/orderbot/internal/domain"
)

type entry struct {
	order   domain.InProgressOrder
	touched time.Time
}

// keyLock is a per-session mutex shared by every caller currently waiting on
// or holding that session.
type keyLock struct {
	mu   sync.Mutex
	refs int
}

// Store holds at most one in-progress order per session ID. Nothing is
// persisted: entries live until deleted, swept, or the process exits.
//
// Get, Put and Delete are individually safe for concurrent use. Callers that
// read-modify-write an order must hold Lock for that session around the
// whole sequence.
type Store struct {
	mu     sync.RWMutex
	orders map[string]*entry

	locksMu sync.Mutex
	locks   map[string]*keyLock

	now func() time.Time
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		orders: make(map[string]*entry),
		locks:  make(map[string]*keyLock),
		now:    time.Now,
	}
}

// Lock acquires the mutual-exclusion scope for sessionID and returns the
// function that releases it. Different session IDs never block each other.
func (s *Store) Lock(sessionID string) (unlock func()) {
	s.locksMu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &keyLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()

			s.locksMu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(s.locks, sessionID)
			}
			s.locksMu.Unlock()
		})
	}
}

// Get returns a copy of the session's order.
func (s *Store) Get(sessionID string) (domain.InProgressOrder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.orders[sessionID]
	if !ok {
		return nil, false
	}
	return e.order.Clone(), true
}

// Put stores a copy of order for the session, replacing any previous one.
func (s *Store) Put(sessionID string, order domain.InProgressOrder) {
	if order == nil {
		order = domain.InProgressOrder{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[sessionID] = &entry{order: order.Clone(), touched: s.now()}
}

// Delete removes the session's order. Deleting an absent session is a no-op.
func (s *Store) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.orders, sessionID)
}

// Len returns the number of sessions with an in-progress order.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

// Sweep removes orders not written for longer than idle and returns the
// affected session IDs. Each removal happens under that session's lock so
// it never interleaves with an in-flight operation.
func (s *Store) Sweep(idle time.Duration) []string {
	cutoff := s.now().Add(-idle)

	s.mu.RLock()
	var candidates []string
	for id, e := range s.orders {
		if e.touched.Before(cutoff) {
			candidates = append(candidates, id)
		}
	}
	s.mu.RUnlock()

	var removed []string
	for _, id := range candidates {
		unlock := s.Lock(id)
		s.mu.Lock()
		if e, ok := s.orders[id]; ok && e.touched.Before(cutoff) {
			delete(s.orders, id)
			removed = append(removed, id)
		}
		s.mu.Unlock()
		unlock()
	}
	return removed
}
