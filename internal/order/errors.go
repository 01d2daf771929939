package order

import "errors"

var (
	// ErrParameterMismatch means the item and quantity lists differ in length
	// or a quantity was not a non-negative integer.
	ErrParameterMismatch = errors.New("item and quantity parameters do not match")

	// ErrNoActiveOrder means the session has no in-progress order.
	ErrNoActiveOrder = errors.New("no active order for session")

	// ErrInvalidOrderID means a tracking request carried no usable order ID.
	ErrInvalidOrderID = errors.New("invalid order id")

	// ErrPersistenceFailure wraps any failed write during commit.
	ErrPersistenceFailure = errors.New("persistence failure")
)
