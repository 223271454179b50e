package promiscuity

import (
	"context"
	"fmt"
)

// Algorithm names one of the score searches.
type Algorithm string

const (
	AlgorithmBestFirst  Algorithm = "best_first"
	AlgorithmDepthFirst Algorithm = "depth_first"
	AlgorithmExhaustive Algorithm = "exhaustive"
)

// Algorithms lists every score search in a stable order.
var Algorithms = []Algorithm{AlgorithmBestFirst, AlgorithmDepthFirst, AlgorithmExhaustive}

// ParseAlgorithm accepts the canonical names plus the short forms used on the
// command line.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch s {
	case "best_first", "best-first", "bestfirst", "score":
		return AlgorithmBestFirst, nil
	case "depth_first", "depth-first", "dfs", "dfs-score":
		return AlgorithmDepthFirst, nil
	case "exhaustive", "naive", "naive-score":
		return AlgorithmExhaustive, nil
	default:
		return "", fmt.Errorf("unknown algorithm %q", s)
	}
}

// Search runs the score search a names.
func Search[N comparable, E any](ctx context.Context, a Algorithm, g Graph[N, E], source, tail N, k int, opts ...Option) (Score, error) {
	switch a {
	case AlgorithmBestFirst:
		return BestFirst(ctx, g, source, tail, k, opts...)
	case AlgorithmDepthFirst:
		return DepthFirst(ctx, g, source, tail, k, opts...)
	case AlgorithmExhaustive:
		return Exhaustive(ctx, g, source, tail, k, opts...)
	default:
		return Score{}, fmt.Errorf("unknown algorithm %q", a)
	}
}
