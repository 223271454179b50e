package store_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/persistorai/promiscuity/internal/domain"
	"github.com/persistorai/promiscuity/internal/models"
	"github.com/persistorai/promiscuity/internal/promiscuity"
	"github.com/persistorai/promiscuity/internal/store"
)

// seedBridges stores source and tail joined through intermediates of degree
// 3, 5 and 10.
func seedBridges(t *testing.T, base store.Base, tenantID string) {
	t.Helper()

	ns := store.NewNodeStore(base)
	es := store.NewEdgeStore(base)
	ctx := context.Background()

	link := func(a, b string) {
		t.Helper()
		if _, err := es.CreateEdge(ctx, tenantID, models.CreateEdgeRequest{Source: a, Target: b, Relation: "links"}); err != nil {
			t.Fatalf("CreateEdge %s-%s: %v", a, b, err)
		}
	}

	createTestNode(t, ns, tenantID, "source")
	createTestNode(t, ns, tenantID, "tail")

	for _, d := range []int{3, 5, 10} {
		mid := fmt.Sprintf("degree%d", d)
		createTestNode(t, ns, tenantID, mid)
		link("source", mid)
		link(mid, "tail")

		for i := range d - 2 {
			leaf := fmt.Sprintf("%s-leaf%d", mid, i)
			createTestNode(t, ns, tenantID, leaf)
			link(mid, leaf)
		}
	}
}

func TestGraphStore_SearchScores(t *testing.T) {
	base, tenantID := setupTestBase(t)
	seedBridges(t, base, tenantID)

	gs := store.NewGraphStore(base)
	ctx := context.Background()

	var score promiscuity.Score
	err := gs.Search(ctx, tenantID, func(v domain.SearchGraph) error {
		if err := v.RequireNodes(ctx, "source", "tail"); err != nil {
			return err
		}

		var err error
		score, err = promiscuity.BestFirst[string, models.Edge](ctx, v, "source", "tail", 1)

		return err
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if !score.Found || score.Value != 3 {
		t.Errorf("score = %+v, want 3", score)
	}

	if err := store.NewEdgeStore(base).DeleteEdge(ctx, tenantID, "degree3", "tail", "links"); err != nil {
		t.Fatalf("DeleteEdge: %v", err)
	}

	err = gs.Search(ctx, tenantID, func(v domain.SearchGraph) error {
		var err error
		score, err = promiscuity.DepthFirst[string, models.Edge](ctx, v, "source", "tail", 1)

		return err
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if !score.Found || score.Value != 5 {
		t.Errorf("after delete score = %+v, want 5", score)
	}
}

func TestGraphStore_SearchPaths(t *testing.T) {
	base, tenantID := setupTestBase(t)
	seedBridges(t, base, tenantID)

	gs := store.NewGraphStore(base)
	ctx := context.Background()

	var paths []promiscuity.Path[string, models.Edge]
	err := gs.Search(ctx, tenantID, func(v domain.SearchGraph) error {
		var err error
		paths, _, err = promiscuity.TopPaths[string, models.Edge](ctx, v, "source", "tail", 1, 1000)

		return err
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(paths) != 3 {
		t.Fatalf("got %d paths, want 3", len(paths))
	}

	for i, want := range []int{3, 5, 10} {
		if paths[i].Score != want {
			t.Errorf("path %d score = %d, want %d", i, paths[i].Score, want)
		}
		if len(paths[i].Edges) != 2 || paths[i].Edges[0].Relation != "links" {
			t.Errorf("path %d edges = %+v", i, paths[i].Edges)
		}
	}
}

func TestGraphView_RequireNodes(t *testing.T) {
	base, tenantID := setupTestBase(t)
	createTestNode(t, store.NewNodeStore(base), tenantID, "present")

	ctx := context.Background()

	err := store.NewGraphStore(base).Search(ctx, tenantID, func(v domain.SearchGraph) error {
		return v.RequireNodes(ctx, "present", "absent")
	})
	if !errors.Is(err, models.ErrNodeNotFound) {
		t.Errorf("err = %v, want ErrNodeNotFound", err)
	}
}
