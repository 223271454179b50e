package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/persistorai/promiscuity/internal/models"
	"github.com/persistorai/promiscuity/internal/store"
)

func createTestNode(t *testing.T, ns *store.NodeStore, tenantID, id string) *models.Node {
	t.Helper()

	req := models.CreateNodeRequest{ID: id, Type: "protein", Label: id}
	if err := req.Validate(); err != nil {
		t.Fatalf("validating %s: %v", id, err)
	}

	n, err := ns.CreateNode(context.Background(), tenantID, req)
	if err != nil {
		t.Fatalf("createTestNode(%s): %v", id, err)
	}

	return n
}

func TestCreateNode(t *testing.T) {
	base, tenantID := setupTestBase(t)
	ns := store.NewNodeStore(base)
	ctx := context.Background()

	req := models.CreateNodeRequest{
		Type:       "protein",
		Label:      "TP53",
		Properties: map[string]any{"mass": float64(43.7)},
	}
	_ = req.Validate()

	node, err := ns.CreateNode(ctx, tenantID, req)
	if err != nil {
		t.Fatalf("CreateNode: %v", err)
	}

	if node.ID == "" || node.Label != "TP53" || node.Degree != 0 {
		t.Errorf("node = %+v", node)
	}
	if node.Properties["mass"] != float64(43.7) {
		t.Errorf("Properties[mass] = %v, want 43.7", node.Properties["mass"])
	}

	_, err = ns.CreateNode(ctx, tenantID, models.CreateNodeRequest{ID: node.ID, Type: "protein", Label: "dup"})
	if !errors.Is(err, models.ErrDuplicateKey) {
		t.Errorf("duplicate CreateNode: got %v, want ErrDuplicateKey", err)
	}
}

func TestGetNode_ReportsDegree(t *testing.T) {
	base, tenantID := setupTestBase(t)
	ns := store.NewNodeStore(base)
	es := store.NewEdgeStore(base)
	ctx := context.Background()

	hub := createTestNode(t, ns, tenantID, "hub")
	for _, id := range []string{"a", "b"} {
		createTestNode(t, ns, tenantID, id)
		if _, err := es.CreateEdge(ctx, tenantID, models.CreateEdgeRequest{Source: id, Target: hub.ID, Relation: "binds"}); err != nil {
			t.Fatalf("CreateEdge: %v", err)
		}
	}

	if _, err := es.CreateEdge(ctx, tenantID, models.CreateEdgeRequest{Source: hub.ID, Target: hub.ID, Relation: "self"}); err != nil {
		t.Fatalf("CreateEdge self-loop: %v", err)
	}

	got, err := ns.GetNode(ctx, tenantID, hub.ID)
	if err != nil {
		t.Fatalf("GetNode: %v", err)
	}

	if got.Degree != 3 {
		t.Errorf("Degree = %d, want 3", got.Degree)
	}

	if _, err := ns.GetNode(ctx, tenantID, "missing"); !errors.Is(err, models.ErrNodeNotFound) {
		t.Errorf("GetNode missing: got %v, want ErrNodeNotFound", err)
	}
}

func TestListNodes(t *testing.T) {
	base, tenantID := setupTestBase(t)
	ns := store.NewNodeStore(base)
	ctx := context.Background()

	for _, id := range []string{"n1", "n2", "n3"} {
		createTestNode(t, ns, tenantID, id)
	}

	nodes, hasMore, err := ns.ListNodes(ctx, tenantID, models.NodeFilter{Limit: 2})
	if err != nil {
		t.Fatalf("ListNodes: %v", err)
	}
	if len(nodes) != 2 || !hasMore || nodes[0].ID != "n1" {
		t.Errorf("page 1 = %v hasMore=%v", nodes, hasMore)
	}

	nodes, hasMore, err = ns.ListNodes(ctx, tenantID, models.NodeFilter{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("ListNodes: %v", err)
	}
	if len(nodes) != 1 || hasMore {
		t.Errorf("page 2 = %v hasMore=%v", nodes, hasMore)
	}

	nodes, _, err = ns.ListNodes(ctx, tenantID, models.NodeFilter{Type: "gene"})
	if err != nil {
		t.Fatalf("ListNodes: %v", err)
	}
	if len(nodes) != 0 {
		t.Errorf("type filter returned %d nodes", len(nodes))
	}
}

func TestDeleteNode_CascadesEdges(t *testing.T) {
	base, tenantID := setupTestBase(t)
	ns := store.NewNodeStore(base)
	es := store.NewEdgeStore(base)
	ctx := context.Background()

	createTestNode(t, ns, tenantID, "x")
	createTestNode(t, ns, tenantID, "y")

	if _, err := es.CreateEdge(ctx, tenantID, models.CreateEdgeRequest{Source: "x", Target: "y", Relation: "binds"}); err != nil {
		t.Fatalf("CreateEdge: %v", err)
	}

	if err := ns.DeleteNode(ctx, tenantID, "x"); err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}

	y, err := ns.GetNode(ctx, tenantID, "y")
	if err != nil {
		t.Fatalf("GetNode: %v", err)
	}
	if y.Degree != 0 {
		t.Errorf("y degree = %d after deleting x, want 0", y.Degree)
	}

	if err := ns.DeleteNode(ctx, tenantID, "x"); !errors.Is(err, models.ErrNodeNotFound) {
		t.Errorf("second DeleteNode: got %v, want ErrNodeNotFound", err)
	}
}
