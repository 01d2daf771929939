// Package intent turns webhook intent payloads into typed order events and
// dispatches them.
package intent

// Event is one of the supported lifecycle events. The set is closed: only
// the types in this file implement it.
type Event interface {
	// Kind is a stable label for logs and metrics.
	Kind() string
	isEvent()
}

// StartOrder opens a fresh order for the session.
type StartOrder struct{}

// AddItems merges items into the session's order. Items and Quantities are
// paired by position; their lengths are checked by the order service.
type AddItems struct {
	Items      []string
	Quantities []int
}

// RemoveItems drops items from the session's order.
type RemoveItems struct {
	Items []string
}

// CompleteOrder commits the session's order.
type CompleteOrder struct{}

// TrackOrder asks for the status of a committed order. OrderRef is the raw
// reference, already collapsed from either upstream parameter shape.
type TrackOrder struct {
	OrderRef string
}

// Unknown is an intent name with no handler.
type Unknown struct {
	Name string
}

func (StartOrder) Kind() string    { return "start_order" }
func (AddItems) Kind() string      { return "add_items" }
func (RemoveItems) Kind() string   { return "remove_items" }
func (CompleteOrder) Kind() string { return "complete_order" }
func (TrackOrder) Kind() string    { return "track_order" }
func (Unknown) Kind() string       { return "unknown" }

func (StartOrder) isEvent()    {}
func (AddItems) isEvent()      {}
func (RemoveItems) isEvent()   {}
func (CompleteOrder) isEvent() {}
func (TrackOrder) isEvent()    {}
func (Unknown) isEvent()       {}
