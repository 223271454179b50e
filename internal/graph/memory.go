// Package graph provides an in-memory undirected multigraph that the
// promiscuity searches can run against without a database.
package graph

import (
	"context"
	"slices"
	"sync"

	"github.com/persistorai/promiscuity/internal/promiscuity"
)

// Edge is one connection between two nodes. Direction is kept for display
// only.
type Edge struct {
	Source   string `json:"source" yaml:"source"`
	Target   string `json:"target" yaml:"target"`
	Relation string `json:"relation,omitempty" yaml:"relation,omitempty"`
}

// other returns the endpoint of e that is not n.
func (e Edge) other(n string) string {
	if e.Source == n {
		return e.Target
	}

	return e.Source
}

// Memory is safe for concurrent searches. Mutating it while a search runs is
// allowed but the search may observe either state.
type Memory struct {
	mu  sync.RWMutex
	adj map[string][]Edge
	n   int
}

var _ promiscuity.Graph[string, Edge] = (*Memory)(nil)

// NewMemory returns an empty graph.
func NewMemory() *Memory {
	return &Memory{adj: make(map[string][]Edge)}
}

// AddNode registers an isolated node. Adding an existing node is a no-op.
func (m *Memory) AddNode(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.adj[id]; !ok {
		m.adj[id] = nil
	}
}

// AddEdge connects source and target, creating either node as needed.
// A self-loop adds one incident edge to its node.
func (m *Memory) AddEdge(source, target, relation string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := Edge{Source: source, Target: target, Relation: relation}
	m.adj[source] = append(m.adj[source], e)

	if source != target {
		m.adj[target] = append(m.adj[target], e)
	}

	m.n++
}

// RemoveEdge deletes the first edge matching all three fields and reports
// whether one was found.
func (m *Memory) RemoveEdge(source, target, relation string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := Edge{Source: source, Target: target, Relation: relation}

	i := slices.Index(m.adj[source], e)
	if i < 0 {
		return false
	}

	m.adj[source] = slices.Delete(m.adj[source], i, i+1)

	if source != target {
		if j := slices.Index(m.adj[target], e); j >= 0 {
			m.adj[target] = slices.Delete(m.adj[target], j, j+1)
		}
	}

	m.n--

	return true
}

// Has reports whether id is a node of the graph.
func (m *Memory) Has(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.adj[id]

	return ok
}

// NodeCount returns the number of nodes.
func (m *Memory) NodeCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.adj)
}

// EdgeCount returns the number of edges.
func (m *Memory) EdgeCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.n
}

// Degree returns the number of edges incident to n, or 0 for an unknown node.
func (m *Memory) Degree(_ context.Context, n string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.adj[n]), nil
}

// Neighbors returns the far endpoint of every edge incident to n.
func (m *Memory) Neighbors(_ context.Context, n string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.adj[n]))
	for _, e := range m.adj[n] {
		out = append(out, e.other(n))
	}

	return out, nil
}

// Adjacent reports whether any edge joins a and b.
func (m *Memory) Adjacent(_ context.Context, a, b string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.between(a, b)

	return ok, nil
}

// EdgeBetween returns the first edge joining a and b.
func (m *Memory) EdgeBetween(_ context.Context, a, b string) (Edge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.between(a, b)
	if !ok {
		return Edge{}, promiscuity.ErrNotAdjacent
	}

	return e, nil
}

// between scans the shorter of the two adjacency lists.
func (m *Memory) between(a, b string) (Edge, bool) {
	from, to := a, b
	if len(m.adj[b]) < len(m.adj[a]) {
		from, to = b, a
	}

	for _, e := range m.adj[from] {
		if e.other(from) == to {
			return e, true
		}
	}

	return Edge{}, false
}
