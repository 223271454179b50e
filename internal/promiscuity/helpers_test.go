package promiscuity

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

var errBoom = errors.New("boom")

// adjGraph is an undirected multigraph over string IDs for tests. A self-loop
// is listed once in its node's adjacency.
type adjGraph struct {
	adj    map[string][]string
	failOn string
}

func newAdjGraph() *adjGraph {
	return &adjGraph{adj: make(map[string][]string)}
}

func (g *adjGraph) link(a, b string) {
	g.adj[a] = append(g.adj[a], b)
	if a != b {
		g.adj[b] = append(g.adj[b], a)
	}
}

func (g *adjGraph) unlink(a, b string) {
	drop := func(from, to string) {
		if i := slices.Index(g.adj[from], to); i >= 0 {
			g.adj[from] = slices.Delete(g.adj[from], i, i+1)
		}
	}

	drop(a, b)
	if a != b {
		drop(b, a)
	}
}

func (g *adjGraph) Degree(_ context.Context, n string) (int, error) {
	if n == g.failOn {
		return 0, errBoom
	}

	return len(g.adj[n]), nil
}

func (g *adjGraph) Neighbors(_ context.Context, n string) ([]string, error) {
	if n == g.failOn {
		return nil, errBoom
	}

	return slices.Clone(g.adj[n]), nil
}

func (g *adjGraph) Adjacent(_ context.Context, a, b string) (bool, error) {
	return slices.Contains(g.adj[a], b), nil
}

func (g *adjGraph) EdgeBetween(_ context.Context, a, b string) ([2]string, error) {
	if !slices.Contains(g.adj[a], b) {
		return [2]string{}, ErrNotAdjacent
	}

	return [2]string{a, b}, nil
}

// bridgeGraph joins source and tail through three intermediates whose degrees
// are 3, 5 and 10.
func bridgeGraph() *adjGraph {
	g := newAdjGraph()

	for _, d := range []int{3, 5, 10} {
		mid := fmt.Sprintf("degree%d", d)
		g.link("source", mid)
		g.link(mid, "tail")

		for i := range d - 2 {
			g.link(mid, fmt.Sprintf("%s-leaf%d", mid, i))
		}
	}

	return g
}

// intermediateGraph reroutes every bridge of bridgeGraph through a single
// node adjacent to the tail, so walks take two intermediates.
func intermediateGraph() *adjGraph {
	g := bridgeGraph()

	for _, mid := range []string{"degree3", "degree5", "degree10"} {
		g.unlink(mid, "tail")
		g.link(mid, "intermediate")
	}

	g.link("intermediate", "tail")

	return g
}

// bruteScores lists the score of every walk of k intermediates from source to
// tail, ascending. Repeated neighbours are visited once.
func bruteScores(g *adjGraph, source, tail string, k int) []int {
	var out []int

	var walk func(n string, depth, score int)
	walk = func(n string, depth, score int) {
		seen := map[string]bool{}

		for _, w := range g.adj[n] {
			if seen[w] {
				continue
			}
			seen[w] = true

			s := max(score, len(g.adj[w]))
			if depth == k {
				if slices.Contains(g.adj[w], tail) {
					out = append(out, s)
				}
				continue
			}

			walk(w, depth+1, s)
		}
	}

	walk(source, 1, 0)
	slices.Sort(out)

	return out
}
