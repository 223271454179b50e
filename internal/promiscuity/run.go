package promiscuity

import (
	"context"
	"fmt"
	"math"
)

// noScore marks "nothing found yet". Real scores are degrees, far below it.
const noScore = math.MaxInt

// Stats describes the work a single search did.
type Stats struct {
	// Dequeued counts frontier pops, plus child visits for DepthFirst.
	Dequeued int `json:"dequeued"`
	// Expanded counts neighbour lookups.
	Expanded int `json:"expanded"`
}

// Score is the outcome of a score search. Found is false when no walk of the
// requested length reaches the tail; Value is meaningless in that case.
type Score struct {
	Value int
	Found bool
	Stats Stats
}

// run holds the per-call state shared by every search.
type run[N comparable, E any] struct {
	ctx   context.Context
	g     Graph[N, E]
	opts  options
	stats Stats
}

func newRun[N comparable, E any](ctx context.Context, g Graph[N, E], opts []Option) *run[N, E] {
	return &run[N, E]{ctx: ctx, g: g, opts: buildOptions(opts)}
}

// tick accounts for one dequeue. It is the cancellation checkpoint.
func (r *run[N, E]) tick() error {
	if err := r.ctx.Err(); err != nil {
		return err
	}

	if r.opts.maxDequeues > 0 && r.stats.Dequeued >= r.opts.maxDequeues {
		return fmt.Errorf("%w: %d dequeues", ErrBudgetExceeded, r.stats.Dequeued)
	}

	r.stats.Dequeued++

	return nil
}

// children returns one entry per distinct neighbour of n, in the order the
// graph reported them, each carrying a fresh degree snapshot.
func (r *run[N, E]) children(n N, pathScore, depth int) ([]Entry[N], error) {
	nbrs, err := r.g.Neighbors(r.ctx, n)
	if err != nil {
		return nil, fmt.Errorf("listing neighbors of %v: %w", n, err)
	}

	r.stats.Expanded++

	seen := make(map[N]struct{}, len(nbrs))
	out := make([]Entry[N], 0, len(nbrs))

	for _, w := range nbrs {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}

		d, err := r.g.Degree(r.ctx, w)
		if err != nil {
			return nil, fmt.Errorf("reading degree of %v: %w", w, err)
		}

		out = append(out, Entry[N]{Degree: d, PathScore: pathScore, Depth: depth, Node: w})
	}

	return out, nil
}

func (r *run[N, E]) reachesTail(n, tail N) (bool, error) {
	ok, err := r.g.Adjacent(r.ctx, n, tail)
	if err != nil {
		return false, fmt.Errorf("checking adjacency of %v to tail: %w", n, err)
	}

	return ok, nil
}

func (r *run[N, E]) result(best int) Score {
	if best == noScore {
		return Score{Stats: r.stats}
	}

	return Score{Value: best, Found: true, Stats: r.stats}
}

func validateHops(k int) error {
	if k <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidHopCount, k)
	}

	return nil
}
