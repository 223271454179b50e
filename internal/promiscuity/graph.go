package promiscuity

import "context"

// Graph is the read-only view a search consults.
//
// N is an opaque node handle compared only for equality. E is the edge handle
// returned when a path is materialised. Implementations must be stable for the
// duration of a search: the same node must report the same degree and neighbours
// on every call.
type Graph[N comparable, E any] interface {
	// Degree returns the number of edges incident to n.
	Degree(ctx context.Context, n N) (int, error)

	// Neighbors returns the far endpoint of every edge incident to n, ignoring
	// direction. A node reachable over parallel edges may appear more than once.
	Neighbors(ctx context.Context, n N) ([]N, error)

	// Adjacent reports whether an edge connects a and b directly.
	Adjacent(ctx context.Context, a, b N) (bool, error)

	// EdgeBetween returns an edge connecting a and b, or ErrNotAdjacent.
	EdgeBetween(ctx context.Context, a, b N) (E, error)
}
