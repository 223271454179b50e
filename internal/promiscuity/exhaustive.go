package promiscuity

import "context"

// compactAfter is how many consumed queue slots Exhaustive tolerates before
// shifting the live tail of the queue down.
const compactAfter = 4096

// Exhaustive enumerates every walk of exactly k+1 edges from source breadth
// first and returns the minimum score over those whose last intermediate is
// adjacent to tail. It never prunes and visits O(b^k) entries, so it exists to
// check BestFirst and DepthFirst, not to serve large graphs.
//
// Each step expands the node that was just dequeued.
func Exhaustive[N comparable, E any](ctx context.Context, g Graph[N, E], source, tail N, k int, opts ...Option) (Score, error) {
	if err := validateHops(k); err != nil {
		return Score{}, err
	}

	r := newRun(ctx, g, opts)

	queue, err := r.children(source, 0, 1)
	if err != nil {
		return Score{Stats: r.stats}, err
	}

	best := noScore
	head := 0

	for head < len(queue) {
		if err := r.tick(); err != nil {
			return Score{Stats: r.stats}, err
		}

		e := queue[head]
		head++

		if head >= compactAfter && head*2 >= len(queue) {
			queue = queue[:copy(queue, queue[head:])]
			head = 0
		}

		score := max(e.Degree, e.PathScore)

		if e.Depth == k {
			ok, err := r.reachesTail(e.Node, tail)
			if err != nil {
				return Score{Stats: r.stats}, err
			}

			if ok && score < best {
				best = score
			}

			continue
		}

		kids, err := r.children(e.Node, score, e.Depth+1)
		if err != nil {
			return Score{Stats: r.stats}, err
		}

		queue = append(queue, kids...)
	}

	return r.result(best), nil
}
