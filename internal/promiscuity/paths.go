package promiscuity

import (
	"context"
	"fmt"
	"sort"
)

// Path is one ranked walk from source to tail. Nodes holds k+2 nodes starting
// at the source; Edges holds the k+1 edges joining consecutive nodes.
type Path[N comparable, E any] struct {
	Score int
	Nodes []N
	Edges []E
}

type ranked struct {
	score int
	leaf  int
}

// ranking keeps at most n completions in ascending score order.
type ranking struct {
	n     int
	items []ranked
}

func newRanking(n int) *ranking {
	return &ranking{n: n, items: make([]ranked, 0, min(n, 64))}
}

// bound is the score a new completion must beat to be kept.
func (r *ranking) bound() int {
	if len(r.items) < r.n {
		return noScore
	}

	return r.items[r.n-1].score
}

// offer inserts a completion after any existing ones of equal score and drops
// the worst entry once the list exceeds n.
func (r *ranking) offer(score, leaf int) {
	if len(r.items) == r.n && score >= r.bound() {
		return
	}

	at := sort.Search(len(r.items), func(i int) bool { return r.items[i].score > score })

	r.items = append(r.items, ranked{})
	copy(r.items[at+1:], r.items[at:])
	r.items[at] = ranked{score: score, leaf: leaf}

	if len(r.items) > r.n {
		r.items = r.items[:r.n]
	}
}

// TopPaths returns up to n walks of exactly k+1 edges from source to tail in
// ascending score order. It runs the BestFirst search but keeps the n best
// completions, pruning against the n-th score once the list is full, and
// remembers each entry's parent so walks can be rebuilt at the end.
func TopPaths[N comparable, E any](ctx context.Context, g Graph[N, E], source, tail N, k, n int, opts ...Option) ([]Path[N, E], Stats, error) {
	if err := validateHops(k); err != nil {
		return nil, Stats{}, err
	}

	if n <= 0 {
		return nil, Stats{}, fmt.Errorf("%w: got %d", ErrInvalidResultCount, n)
	}

	r := newRun(ctx, g, opts)
	arena := &lineage[N]{}
	root := arena.add(PathEntry[N]{Entry: Entry[N]{Node: source}, Parent: -1})

	f := newFrontier(func(i int) int { return arena.at(i).Degree })

	seeds, err := r.children(source, 0, 1)
	if err != nil {
		return nil, r.stats, err
	}

	for _, e := range seeds {
		f.push(arena.add(PathEntry[N]{Entry: e, Parent: root}))
	}

	top := newRanking(n)

	for f.Len() > 0 {
		if err := r.tick(); err != nil {
			return nil, r.stats, err
		}

		idx := f.pop()
		e := arena.at(idx)

		if e.Degree >= top.bound() {
			break
		}

		score := max(e.Degree, e.PathScore)

		if e.Depth == k {
			ok, err := r.reachesTail(e.Node, tail)
			if err != nil {
				return nil, r.stats, err
			}

			if ok {
				top.offer(score, idx)
			}

			continue
		}

		if score >= top.bound() {
			continue
		}

		kids, err := r.children(e.Node, score, e.Depth+1)
		if err != nil {
			return nil, r.stats, err
		}

		for _, kid := range kids {
			f.push(arena.add(PathEntry[N]{Entry: kid, Parent: idx}))
		}
	}

	paths := make([]Path[N, E], 0, len(top.items))

	for _, it := range top.items {
		p, err := materialize(ctx, g, arena, it, tail)
		if err != nil {
			return nil, r.stats, err
		}

		paths = append(paths, p)
	}

	return paths, r.stats, nil
}

func materialize[N comparable, E any](ctx context.Context, g Graph[N, E], arena *lineage[N], it ranked, tail N) (Path[N, E], error) {
	nodes := append(arena.trail(it.leaf), tail)
	edges := make([]E, 0, len(nodes)-1)

	for i := 1; i < len(nodes); i++ {
		edge, err := g.EdgeBetween(ctx, nodes[i-1], nodes[i])
		if err != nil {
			return Path[N, E]{}, fmt.Errorf("resolving edge %v-%v: %w", nodes[i-1], nodes[i], err)
		}

		edges = append(edges, edge)
	}

	return Path[N, E]{Score: it.score, Nodes: nodes, Edges: edges}, nil
}
