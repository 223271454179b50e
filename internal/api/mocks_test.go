package api_test

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/persistorai/promiscuity/internal/models"
	"github.com/persistorai/promiscuity/internal/promiscuity"
)

// mockNodeService implements api.NodeService for testing.
type mockNodeService struct {
	listFn   func(ctx context.Context, tenantID string, f models.NodeFilter) ([]models.Node, bool, error)
	getFn    func(ctx context.Context, tenantID, nodeID string) (*models.Node, error)
	createFn func(ctx context.Context, tenantID string, req models.CreateNodeRequest) (*models.Node, error)
	deleteFn func(ctx context.Context, tenantID, nodeID string) error
}

func (m *mockNodeService) ListNodes(ctx context.Context, tenantID string, f models.NodeFilter) ([]models.Node, bool, error) {
	return m.listFn(ctx, tenantID, f)
}

func (m *mockNodeService) GetNode(ctx context.Context, tenantID, nodeID string) (*models.Node, error) {
	return m.getFn(ctx, tenantID, nodeID)
}

func (m *mockNodeService) CreateNode(ctx context.Context, tenantID string, req models.CreateNodeRequest) (*models.Node, error) {
	return m.createFn(ctx, tenantID, req)
}

func (m *mockNodeService) DeleteNode(ctx context.Context, tenantID, nodeID string) error {
	return m.deleteFn(ctx, tenantID, nodeID)
}

// mockEdgeService implements api.EdgeService for testing.
type mockEdgeService struct {
	listFn   func(ctx context.Context, tenantID string, f models.EdgeFilter) ([]models.Edge, bool, error)
	createFn func(ctx context.Context, tenantID string, req models.CreateEdgeRequest) (*models.Edge, error)
	deleteFn func(ctx context.Context, tenantID, source, target, relation string) error
}

func (m *mockEdgeService) ListEdges(ctx context.Context, tenantID string, f models.EdgeFilter) ([]models.Edge, bool, error) {
	return m.listFn(ctx, tenantID, f)
}

func (m *mockEdgeService) CreateEdge(ctx context.Context, tenantID string, req models.CreateEdgeRequest) (*models.Edge, error) {
	return m.createFn(ctx, tenantID, req)
}

func (m *mockEdgeService) DeleteEdge(ctx context.Context, tenantID, source, target, relation string) error {
	return m.deleteFn(ctx, tenantID, source, target, relation)
}

// mockPromiscuityService implements api.PromiscuityService for testing.
type mockPromiscuityService struct {
	scoreFn func(ctx context.Context, tenantID string, alg promiscuity.Algorithm, q models.PromiscuityQuery) (*models.ScoreResponse, error)
	pathsFn func(ctx context.Context, tenantID string, q models.PromiscuityQuery) (*models.PathsResponse, error)
}

func (m *mockPromiscuityService) Score(ctx context.Context, tenantID string, alg promiscuity.Algorithm, q models.PromiscuityQuery) (*models.ScoreResponse, error) {
	return m.scoreFn(ctx, tenantID, alg, q)
}

func (m *mockPromiscuityService) Paths(ctx context.Context, tenantID string, q models.PromiscuityQuery) (*models.PathsResponse, error) {
	return m.pathsFn(ctx, tenantID, q)
}

// mockPinger implements api.Pinger. tables reports whether the graph tables exist.
type mockPinger struct {
	healthErr error
	tables    bool
}

func (m *mockPinger) HealthCheck(context.Context) error { return m.healthErr }

func (m *mockPinger) QueryRow(context.Context, string, ...any) pgx.Row {
	return schemaRow{ok: m.tables}
}

type schemaRow struct{ ok bool }

func (r schemaRow) Scan(dest ...any) error {
	if len(dest) != 2 {
		return errors.New("unexpected scan arity")
	}

	for _, d := range dest {
		*(d.(*bool)) = r.ok
	}

	return nil
}

// mockTenantLookup resolves a fixed key to testTenantID.
type mockTenantLookup struct{}

func (mockTenantLookup) GetTenantByAPIKey(_ context.Context, key string) (string, error) {
	if key == "test-key" {
		return testTenantID, nil
	}
	return "", errors.New("invalid key")
}
