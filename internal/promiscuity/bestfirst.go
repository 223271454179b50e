package promiscuity

import "context"

// BestFirst returns the minimum promiscuity score over all walks of exactly k+1
// edges from source to tail.
//
// The frontier is seeded with the neighbours of source at depth 1 and a path
// score of 0, so the source's own degree never counts. Entries pop in degree
// order. A popped entry folds its degree into the running score; at depth k it
// completes if adjacent to tail, otherwise its neighbours are pushed one level
// deeper. The search stops when the popped degree is at least the best complete
// score, since no walk through that entry or anything behind it can do better.
func BestFirst[N comparable, E any](ctx context.Context, g Graph[N, E], source, tail N, k int, opts ...Option) (Score, error) {
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

		// Every completion below e scores at least score.
		if score >= best {
			continue
		}

		kids, err := r.children(e.Node, score, e.Depth+1)
		if err != nil {
			return Score{Stats: r.stats}, err
		}

		for _, kid := range kids {
			f.push(kid)
		}
	}

	return r.result(best), nil
}
