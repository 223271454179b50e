package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/promiscuity/internal/domain"
	"github.com/persistorai/promiscuity/internal/metrics"
	"github.com/persistorai/promiscuity/internal/models"
	"github.com/persistorai/promiscuity/internal/promiscuity"
)

// Compile-time check: *PromiscuityService must satisfy domain.PromiscuityService.
var _ domain.PromiscuityService = (*PromiscuityService)(nil)

// opPaths is the cache and metrics label of top-N path searches.
const opPaths = "top_paths"

// Limits bounds what a single search may ask for and consume.
type Limits struct {
	MaxHops     int
	MaxPaths    int
	Timeout     time.Duration
	MaxDequeues int
}

// PromiscuityService validates queries, runs searches against a snapshot of
// the tenant's graph and caches the results.
type PromiscuityService struct {
	graphs domain.GraphSearcher
	cache  *ResultCache
	limits Limits
	log    *logrus.Logger
}

// NewPromiscuityService creates a PromiscuityService. cache may be shared with
// the NOTIFY bridge and the node and edge services.
func NewPromiscuityService(graphs domain.GraphSearcher, cache *ResultCache, limits Limits, log *logrus.Logger) *PromiscuityService {
	return &PromiscuityService{graphs: graphs, cache: cache, limits: limits, log: log}
}

// Score runs one of the score searches. The exhaustive search always yields
// exactly one record, with score -1 when no walk exists; the others yield
// zero or one.
func (s *PromiscuityService) Score(
	ctx context.Context, tenantID string, alg promiscuity.Algorithm, q models.PromiscuityQuery,
) (*models.ScoreResponse, error) {
	if err := q.Validate(s.limits.MaxHops, 0); err != nil {
		return nil, err
	}

	key := s.key(tenantID, string(alg), q)
	key.n = 0

	fields := s.fields(tenantID, string(alg), q)
	s.log.WithFields(fields).Debug("promiscuity.score")

	v, cached, err := s.cache.do(ctx, key, func(ctx context.Context) (any, error) {
		return s.runScore(ctx, tenantID, alg, q)
	})
	if err != nil {
		return nil, err
	}

	resp := *v.(*models.ScoreResponse)
	resp.Stats.Cached = cached

	s.log.WithFields(fields).WithFields(logrus.Fields{
		"found":    len(resp.Results) > 0 && resp.Results[0].Found,
		"dequeued": resp.Stats.Dequeued,
		"duration": resp.Stats.DurationMS,
		"cached":   cached,
	}).Info("promiscuity search complete")

	return &resp, nil
}

// Paths returns up to q.Paths walks in ascending score order.
func (s *PromiscuityService) Paths(ctx context.Context, tenantID string, q models.PromiscuityQuery) (*models.PathsResponse, error) {
	if err := q.Validate(s.limits.MaxHops, s.limits.MaxPaths); err != nil {
		return nil, err
	}

	fields := s.fields(tenantID, opPaths, q)
	s.log.WithFields(fields).Debug("promiscuity.paths")

	v, cached, err := s.cache.do(ctx, s.key(tenantID, opPaths, q), func(ctx context.Context) (any, error) {
		return s.runPaths(ctx, tenantID, q)
	})
	if err != nil {
		return nil, err
	}

	resp := *v.(*models.PathsResponse)
	resp.Stats.Cached = cached

	s.log.WithFields(fields).WithFields(logrus.Fields{
		"found":    len(resp.Results),
		"dequeued": resp.Stats.Dequeued,
		"duration": resp.Stats.DurationMS,
		"cached":   cached,
	}).Info("promiscuity search complete")

	return &resp, nil
}

func (s *PromiscuityService) runScore(
	ctx context.Context, tenantID string, alg promiscuity.Algorithm, q models.PromiscuityQuery,
) (*models.ScoreResponse, error) {
	var score promiscuity.Score

	elapsed, err := s.search(ctx, tenantID, string(alg), q, func(ctx context.Context, g domain.SearchGraph) (promiscuity.Stats, error) {
		var err error
		score, err = promiscuity.Search(ctx, alg, g, q.Source, q.Tail, q.Hops, s.options()...)

		return score.Stats, err
	})
	if err != nil {
		return nil, err
	}

	resp := &models.ScoreResponse{
		Results: []models.ScoreResult{},
		Stats:   searchStats(string(alg), score.Stats, elapsed),
	}

	switch {
	case score.Found:
		resp.Results = append(resp.Results, models.ScoreResult{Score: score.Value, Found: true})
	case alg == promiscuity.AlgorithmExhaustive:
		resp.Results = append(resp.Results, models.ScoreResult{Score: -1})
	}

	return resp, nil
}

func (s *PromiscuityService) runPaths(ctx context.Context, tenantID string, q models.PromiscuityQuery) (*models.PathsResponse, error) {
	var paths []promiscuity.Path[string, models.Edge]

	var stats promiscuity.Stats

	elapsed, err := s.search(ctx, tenantID, opPaths, q, func(ctx context.Context, g domain.SearchGraph) (promiscuity.Stats, error) {
		var err error
		paths, stats, err = promiscuity.TopPaths(ctx, g, q.Source, q.Tail, q.Hops, q.Paths, s.options()...)

		return stats, err
	})
	if err != nil {
		return nil, err
	}

	resp := &models.PathsResponse{
		Results: make([]models.PathResult, 0, len(paths)),
		Stats:   searchStats(opPaths, stats, elapsed),
	}

	for _, p := range paths {
		resp.Results = append(resp.Results, models.PathResult{
			Score: p.Score,
			Path:  models.PathRecord{Nodes: p.Nodes, Edges: p.Edges},
		})
	}

	return resp, nil
}

// search opens a snapshot, checks both endpoints exist and runs fn under the
// search timeout, recording metrics for the attempt.
func (s *PromiscuityService) search(
	ctx context.Context,
	tenantID, op string,
	q models.PromiscuityQuery,
	fn func(context.Context, domain.SearchGraph) (promiscuity.Stats, error),
) (time.Duration, error) {
	if s.limits.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.limits.Timeout)
		defer cancel()
	}

	start := time.Now()

	var stats promiscuity.Stats

	err := s.graphs.Search(ctx, tenantID, func(g domain.SearchGraph) error {
		if err := g.RequireNodes(ctx, q.Source, q.Tail); err != nil {
			return err
		}

		var err error
		stats, err = fn(ctx, g)

		return err
	})

	elapsed := time.Since(start)

	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w after %s: %w", models.ErrSearchTimeout, elapsed.Round(time.Millisecond), err)
	}

	metrics.SearchDuration.WithLabelValues(op, outcome(err)).Observe(elapsed.Seconds())
	metrics.SearchDequeues.WithLabelValues(op).Observe(float64(stats.Dequeued))

	if err != nil {
		s.log.WithError(err).WithFields(s.fields(tenantID, op, q)).Debug("promiscuity search failed")

		return elapsed, err
	}

	return elapsed, nil
}

func (s *PromiscuityService) options() []promiscuity.Option {
	if s.limits.MaxDequeues <= 0 {
		return nil
	}

	return []promiscuity.Option{promiscuity.WithMaxDequeues(s.limits.MaxDequeues)}
}

func (s *PromiscuityService) key(tenantID, op string, q models.PromiscuityQuery) resultKey {
	return resultKey{
		tenant: tenantID,
		gen:    s.cache.generation(tenantID),
		op:     op,
		source: q.Source,
		tail:   q.Tail,
		k:      q.Hops,
		n:      q.Paths,
	}
}

func (s *PromiscuityService) fields(tenantID, op string, q models.PromiscuityQuery) logrus.Fields {
	f := logrus.Fields{
		"tenant_id": tenantID,
		"algorithm": op,
		"source":    q.Source,
		"tail":      q.Tail,
		"k":         q.Hops,
	}

	if op == opPaths {
		f["n"] = q.Paths
	}

	return f
}

func searchStats(op string, st promiscuity.Stats, elapsed time.Duration) models.SearchStats {
	return models.SearchStats{
		Algorithm:  op,
		Dequeued:   st.Dequeued,
		Expanded:   st.Expanded,
		DurationMS: float64(elapsed.Microseconds()) / 1000,
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, models.ErrSearchTimeout):
		return "timeout"
	case errors.Is(err, promiscuity.ErrBudgetExceeded):
		return "budget_exceeded"
	case errors.Is(err, models.ErrNodeNotFound):
		return "not_found"
	default:
		return "error"
	}
}
