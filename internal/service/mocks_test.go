package service

import (
	"context"
	"sync"

	"github.com/persistorai/promiscuity/internal/domain"
	"github.com/persistorai/promiscuity/internal/graph"
	"github.com/persistorai/promiscuity/internal/models"
)

// mockNodeStore records calls and returns configured responses.
type mockNodeStore struct {
	mu    sync.Mutex
	calls []string

	listNodes  func(ctx context.Context, tenantID string, f models.NodeFilter) ([]models.Node, bool, error)
	getNode    func(ctx context.Context, tenantID, nodeID string) (*models.Node, error)
	createNode func(ctx context.Context, tenantID string, req models.CreateNodeRequest) (*models.Node, error)
	deleteNode func(ctx context.Context, tenantID, nodeID string) error
}

func (m *mockNodeStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockNodeStore) ListNodes(ctx context.Context, tenantID string, f models.NodeFilter) ([]models.Node, bool, error) {
	m.record("ListNodes")
	return m.listNodes(ctx, tenantID, f)
}

func (m *mockNodeStore) GetNode(ctx context.Context, tenantID, nodeID string) (*models.Node, error) {
	m.record("GetNode")
	return m.getNode(ctx, tenantID, nodeID)
}

func (m *mockNodeStore) CreateNode(ctx context.Context, tenantID string, req models.CreateNodeRequest) (*models.Node, error) {
	m.record("CreateNode")
	return m.createNode(ctx, tenantID, req)
}

func (m *mockNodeStore) DeleteNode(ctx context.Context, tenantID, nodeID string) error {
	m.record("DeleteNode")
	return m.deleteNode(ctx, tenantID, nodeID)
}

// mockEdgeStore records calls and returns configured responses.
type mockEdgeStore struct {
	mu    sync.Mutex
	calls []string

	listEdges  func(ctx context.Context, tenantID string, f models.EdgeFilter) ([]models.Edge, bool, error)
	createEdge func(ctx context.Context, tenantID string, req models.CreateEdgeRequest) (*models.Edge, error)
	deleteEdge func(ctx context.Context, tenantID, source, target, relation string) error
}

func (m *mockEdgeStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockEdgeStore) ListEdges(ctx context.Context, tenantID string, f models.EdgeFilter) ([]models.Edge, bool, error) {
	m.record("ListEdges")
	return m.listEdges(ctx, tenantID, f)
}

func (m *mockEdgeStore) CreateEdge(ctx context.Context, tenantID string, req models.CreateEdgeRequest) (*models.Edge, error) {
	m.record("CreateEdge")
	return m.createEdge(ctx, tenantID, req)
}

func (m *mockEdgeStore) DeleteEdge(ctx context.Context, tenantID, source, target, relation string) error {
	m.record("DeleteEdge")
	return m.deleteEdge(ctx, tenantID, source, target, relation)
}

// mockInvalidator records invalidated tenants.
type mockInvalidator struct {
	mu      sync.Mutex
	tenants []string
}

func (m *mockInvalidator) InvalidateTenant(tenantID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenants = append(m.tenants, tenantID)
}

func (m *mockInvalidator) got() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.tenants...)
}

// memorySearcher serves every tenant from one in-memory graph.
type memorySearcher struct {
	g *graph.Memory

	mu       sync.Mutex
	searches int

	// before runs ahead of fn inside Search when set.
	before func(ctx context.Context) error
}

func newMemorySearcher(edges ...[2]string) *memorySearcher {
	g := graph.NewMemory()
	for _, e := range edges {
		g.AddEdge(e[0], e[1], "LINK")
	}

	return &memorySearcher{g: g}
}

func (m *memorySearcher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searches
}

func (m *memorySearcher) Search(ctx context.Context, tenantID string, fn func(domain.SearchGraph) error) error {
	m.mu.Lock()
	m.searches++
	m.mu.Unlock()

	if m.before != nil {
		if err := m.before(ctx); err != nil {
			return err
		}
	}

	return fn(&memoryView{g: m.g, tenant: tenantID})
}

// memoryView adapts graph.Memory to domain.SearchGraph.
type memoryView struct {
	g      *graph.Memory
	tenant string
}

func (v *memoryView) Degree(ctx context.Context, n string) (int, error) {
	return v.g.Degree(ctx, n)
}

func (v *memoryView) Neighbors(ctx context.Context, n string) ([]string, error) {
	return v.g.Neighbors(ctx, n)
}

func (v *memoryView) Adjacent(ctx context.Context, a, b string) (bool, error) {
	return v.g.Adjacent(ctx, a, b)
}

func (v *memoryView) EdgeBetween(ctx context.Context, a, b string) (models.Edge, error) {
	e, err := v.g.EdgeBetween(ctx, a, b)
	if err != nil {
		return models.Edge{}, err
	}

	return models.Edge{Source: e.Source, Target: e.Target, Relation: e.Relation}, nil
}

func (v *memoryView) RequireNodes(_ context.Context, ids ...string) error {
	for _, id := range ids {
		if !v.g.Has(id) {
			return models.ErrNodeNotFound
		}
	}

	return nil
}
