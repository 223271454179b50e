package promiscuity

import (
	"context"
	"slices"
)

// DepthFirst solves the same problem as BestFirst by descending one branch at a
// time. Memory is bounded by k levels of sibling lists instead of a global
// frontier.
//
// Each level visits its children in ascending degree and threads an upper bound
// (the smaller of the inherited bound and the best result found among earlier
// siblings) into the recursion. A child whose degree already meets the bound
// ends the level, because the list is sorted and no later sibling can improve.
func DepthFirst[N comparable, E any](ctx context.Context, g Graph[N, E], source, tail N, k int, opts ...Option) (Score, error) {
	if err := validateHops(k); err != nil {
		return Score{}, err
	}

	r := newRun(ctx, g, opts)

	seeds, err := r.children(source, 0, 1)
	if err != nil {
		return Score{Stats: r.stats}, err
	}

	f := newFrontier(entryDegree[N])
	for _, e := range seeds {
		f.push(e)
	}

	best := noScore

	for f.Len() > 0 {
		if err := r.tick(); err != nil {
			return Score{Stats: r.stats}, err
		}

		e := f.pop()
		if e.Degree >= best {
			break
		}

		got, ok, err := r.descend(e, tail, k, best)
		if err != nil {
			return Score{Stats: r.stats}, err
		}

		if ok && got < best {
			best = got
		}
	}

	return r.result(best), nil
}

// descend returns the best score of any completion below e whose score stays
// under bound. ok is false when no such completion exists.
func (r *run[N, E]) descend(e Entry[N], tail N, k, bound int) (int, bool, error) {
	if e.Depth == k {
		reached, err := r.reachesTail(e.Node, tail)
		if err != nil || !reached {
			return 0, false, err
		}

		return e.Degree, true, nil
	}

	kids, err := r.children(e.Node, 0, e.Depth+1)
	if err != nil {
		return 0, false, err
	}

	slices.SortStableFunc(kids, Entry[N].Compare)

	local := noScore

	for _, kid := range kids {
		limit := min(bound, local)
		if kid.Degree >= limit {
			break
		}

		if err := r.tick(); err != nil {
			return 0, false, err
		}

		got, ok, err := r.descend(kid, tail, k, limit)
		if err != nil {
			return 0, false, err
		}

		if ok && got < local {
			local = got
		}
	}

	if local == noScore {
		return 0, false, nil
	}

	return max(local, e.Degree), true, nil
}
