package promiscuity

import "errors"

// Sentinel errors returned by the searches.
var (
	// ErrInvalidHopCount is returned when k <= 0.
	ErrInvalidHopCount = errors.New("promiscuity: hop count must be positive")

	// ErrInvalidResultCount is returned by TopPaths when n <= 0.
	ErrInvalidResultCount = errors.New("promiscuity: result count must be positive")

	// ErrBudgetExceeded is returned when a search pops more entries than
	// WithMaxDequeues allows.
	ErrBudgetExceeded = errors.New("promiscuity: search budget exceeded")

	// ErrNotAdjacent is returned by Graph.EdgeBetween when no edge connects the nodes.
	ErrNotAdjacent = errors.New("promiscuity: nodes are not adjacent")
)
