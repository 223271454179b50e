package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/promiscuity/internal/models"
	"github.com/persistorai/promiscuity/internal/promiscuity"
)

// bridgeEdges links S and T through bridges of degree 3, 5 and 10.
func bridgeEdges() [][2]string {
	var edges [][2]string

	for _, d := range []int{3, 5, 10} {
		b := fmt.Sprintf("b%d", d)
		edges = append(edges, [2]string{"S", b}, [2]string{b, "T"})

		for i := range d - 2 {
			edges = append(edges, [2]string{b, fmt.Sprintf("%s-leaf%d", b, i)})
		}
	}

	return edges
}

func newTestPromiscuityService(gs *memorySearcher, limits Limits) (*PromiscuityService, *ResultCache) {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	if limits.MaxHops == 0 {
		limits.MaxHops = 8
	}

	if limits.MaxPaths == 0 {
		limits.MaxPaths = 100
	}

	cache := NewResultCache(64, time.Minute)

	return NewPromiscuityService(gs, cache, limits, log), cache
}

func scoreQuery(k int) models.PromiscuityQuery {
	return models.PromiscuityQuery{Source: "S", Tail: "T", Hops: k}
}

func TestPromiscuityService_Score(t *testing.T) {
	tests := []struct {
		name string
		alg  promiscuity.Algorithm
		k    int
		want []models.ScoreResult
	}{
		{name: "best first", alg: promiscuity.AlgorithmBestFirst, k: 1, want: []models.ScoreResult{{Score: 3, Found: true}}},
		{name: "depth first", alg: promiscuity.AlgorithmDepthFirst, k: 1, want: []models.ScoreResult{{Score: 3, Found: true}}},
		{name: "exhaustive", alg: promiscuity.AlgorithmExhaustive, k: 1, want: []models.ScoreResult{{Score: 3, Found: true}}},
		{name: "best first no path", alg: promiscuity.AlgorithmBestFirst, k: 2, want: []models.ScoreResult{}},
		{name: "depth first no path", alg: promiscuity.AlgorithmDepthFirst, k: 2, want: []models.ScoreResult{}},
		{name: "exhaustive no path", alg: promiscuity.AlgorithmExhaustive, k: 2, want: []models.ScoreResult{{Score: -1, Found: false}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newTestPromiscuityService(newMemorySearcher(bridgeEdges()...), Limits{})

			resp, err := svc.Score(context.Background(), "tenant1", tc.alg, scoreQuery(tc.k))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !slices.Equal(resp.Results, tc.want) {
				t.Errorf("results = %+v, want %+v", resp.Results, tc.want)
			}

			if resp.Stats.Algorithm != string(tc.alg) {
				t.Errorf("algorithm = %q, want %q", resp.Stats.Algorithm, tc.alg)
			}

			if resp.Stats.Cached {
				t.Error("first search reported as cached")
			}
		})
	}
}

func TestPromiscuityService_ScoreCached(t *testing.T) {
	gs := newMemorySearcher(bridgeEdges()...)
	svc, cache := newTestPromiscuityService(gs, Limits{})
	ctx := context.Background()

	first, err := svc.Score(ctx, "tenant1", promiscuity.AlgorithmBestFirst, scoreQuery(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := svc.Score(ctx, "tenant1", promiscuity.AlgorithmBestFirst, scoreQuery(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gs.count() != 1 {
		t.Errorf("searches = %d, want 1", gs.count())
	}

	if !second.Stats.Cached || first.Stats.Cached {
		t.Errorf("cached flags = %v, %v; want false, true", first.Stats.Cached, second.Stats.Cached)
	}

	if !slices.Equal(first.Results, second.Results) {
		t.Errorf("cached results differ: %+v vs %+v", first.Results, second.Results)
	}

	// Another algorithm and another tenant are distinct keys.
	if _, err := svc.Score(ctx, "tenant1", promiscuity.AlgorithmDepthFirst, scoreQuery(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Score(ctx, "tenant2", promiscuity.AlgorithmBestFirst, scoreQuery(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gs.count() != 3 {
		t.Errorf("searches = %d, want 3", gs.count())
	}

	cache.InvalidateTenant("tenant1")

	again, err := svc.Score(ctx, "tenant1", promiscuity.AlgorithmBestFirst, scoreQuery(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if again.Stats.Cached {
		t.Error("search after invalidation reported as cached")
	}

	if gs.count() != 4 {
		t.Errorf("searches = %d, want 4", gs.count())
	}
}

func TestPromiscuityService_SeesWritesAfterInvalidation(t *testing.T) {
	gs := newMemorySearcher(bridgeEdges()...)
	svc, cache := newTestPromiscuityService(gs, Limits{})
	ctx := context.Background()

	if _, err := svc.Score(ctx, "tenant1", promiscuity.AlgorithmBestFirst, scoreQuery(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gs.g.RemoveEdge("b3", "T", "LINK")
	cache.InvalidateTenant("tenant1")

	resp, err := svc.Score(ctx, "tenant1", promiscuity.AlgorithmBestFirst, scoreQuery(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []models.ScoreResult{{Score: 5, Found: true}}
	if !slices.Equal(resp.Results, want) {
		t.Errorf("results = %+v, want %+v", resp.Results, want)
	}
}

func TestPromiscuityService_ScoreErrors(t *testing.T) {
	tests := []struct {
		name    string
		q       models.PromiscuityQuery
		limits  Limits
		before  func(ctx context.Context) error
		wantErr error
	}{
		{name: "zero hops", q: scoreQuery(0), wantErr: models.ErrInvalidQuery},
		{name: "hops above limit", q: scoreQuery(9), wantErr: models.ErrInvalidQuery},
		{name: "missing source", q: models.PromiscuityQuery{Tail: "T", Hops: 1}, wantErr: models.ErrInvalidQuery},
		{name: "unknown source", q: models.PromiscuityQuery{Source: "nope", Tail: "T", Hops: 1}, wantErr: models.ErrNodeNotFound},
		{name: "unknown tail", q: models.PromiscuityQuery{Source: "S", Tail: "nope", Hops: 1}, wantErr: models.ErrNodeNotFound},
		{name: "budget", q: scoreQuery(1), limits: Limits{MaxDequeues: 1}, wantErr: promiscuity.ErrBudgetExceeded},
		{
			name:   "timeout",
			q:      scoreQuery(1),
			limits: Limits{Timeout: 10 * time.Millisecond},
			before: func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
			wantErr: models.ErrSearchTimeout,
		},
		{
			name:    "store failure",
			q:       scoreQuery(1),
			before:  func(context.Context) error { return errors.New("db down") },
			wantErr: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gs := newMemorySearcher(bridgeEdges()...)
			gs.before = tc.before
			svc, cache := newTestPromiscuityService(gs, tc.limits)

			_, err := svc.Score(context.Background(), "tenant1", promiscuity.AlgorithmBestFirst, tc.q)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("error = %v, want %v", err, tc.wantErr)
			}

			if cache.Len() != 0 {
				t.Errorf("cache holds %d results after a failure", cache.Len())
			}
		})
	}
}

func TestPromiscuityService_Paths(t *testing.T) {
	gs := newMemorySearcher(bridgeEdges()...)
	svc, _ := newTestPromiscuityService(gs, Limits{})

	q := scoreQuery(1)
	q.Paths = 10

	resp, err := svc.Paths(context.Background(), "tenant1", q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Results) != 3 {
		t.Fatalf("got %d paths, want 3", len(resp.Results))
	}

	for i, want := range []int{3, 5, 10} {
		p := resp.Results[i]
		if p.Score != want {
			t.Errorf("path %d score = %d, want %d", i, p.Score, want)
		}

		wantNodes := []string{"S", fmt.Sprintf("b%d", want), "T"}
		if !slices.Equal(p.Path.Nodes, wantNodes) {
			t.Errorf("path %d nodes = %v, want %v", i, p.Path.Nodes, wantNodes)
		}

		if len(p.Path.Edges) != 2 {
			t.Errorf("path %d has %d edges, want 2", i, len(p.Path.Edges))
		}
	}

	if resp.Stats.Algorithm != opPaths {
		t.Errorf("algorithm = %q, want %q", resp.Stats.Algorithm, opPaths)
	}

	q.Paths = 1

	one, err := svc.Paths(context.Background(), "tenant1", q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(one.Results) != 1 || one.Results[0].Score != 3 {
		t.Errorf("n=1 results = %+v, want one path scoring 3", one.Results)
	}

	if gs.count() != 2 {
		t.Errorf("searches = %d, want 2 (n is part of the cache key)", gs.count())
	}
}

func TestPromiscuityService_PathsValidation(t *testing.T) {
	svc, _ := newTestPromiscuityService(newMemorySearcher(bridgeEdges()...), Limits{MaxPaths: 5})

	for _, n := range []int{0, -1, 6} {
		q := scoreQuery(1)
		q.Paths = n

		if _, err := svc.Paths(context.Background(), "tenant1", q); !errors.Is(err, models.ErrInvalidQuery) {
			t.Errorf("n=%d: error = %v, want ErrInvalidQuery", n, err)
		}
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{fmt.Errorf("x: %w", models.ErrSearchTimeout), "timeout"},
		{fmt.Errorf("x: %w", promiscuity.ErrBudgetExceeded), "budget_exceeded"},
		{models.ErrNodeNotFound, "not_found"},
		{errors.New("boom"), "error"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := outcome(tc.err); got != tc.want {
				t.Errorf("outcome(%v) = %q, want %q", tc.err, got, tc.want)
			}
		})
	}
}
