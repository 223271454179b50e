package store

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"

	"github.com/persistorai/promiscuity/internal/domain"
	"github.com/persistorai/promiscuity/internal/models"
	"github.com/persistorai/promiscuity/internal/promiscuity"
)

// GraphStore opens consistent read views of a tenant's graph for searches.
type GraphStore struct {
	Base
}

// NewGraphStore creates a new GraphStore.
func NewGraphStore(base Base) *GraphStore {
	return &GraphStore{Base: base}
}

// Search runs fn against a snapshot of the tenant's graph. The view is only
// valid inside fn and must not be shared between goroutines. ctx bounds the
// whole search; the per-query default timeout does not apply here.
func (s *GraphStore) Search(ctx context.Context, tenantID string, fn func(domain.SearchGraph) error) error {
	tx, err := s.beginSnapshotTx(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("opening search snapshot: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only transaction.

	if err := fn(newGraphView(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("closing search snapshot: %w", err)
	}

	return nil
}

// querier is the subset of pgx.Tx a GraphView reads through.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GraphView answers degree and adjacency questions from one transaction.
// Results are memoised for the life of the view, which is sound because the
// snapshot cannot change underneath it.
type GraphView struct {
	q         querier
	degrees   map[string]int
	neighbors map[string][]string
	adjacent  map[[2]string]bool
	queries   int
}

var _ domain.SearchGraph = (*GraphView)(nil)

func newGraphView(q querier) *GraphView {
	return &GraphView{
		q:         q,
		degrees:   make(map[string]int),
		neighbors: make(map[string][]string),
		adjacent:  make(map[[2]string]bool),
	}
}

// Queries returns how many statements the view has issued.
func (v *GraphView) Queries() int { return v.queries }

const degreeSQL = `SELECT count(*) FROM kg_edges
	WHERE tenant_id = current_setting('app.tenant_id')::uuid AND (source = $1 OR target = $1)`

// neighborSQL lists the far endpoint of every edge incident to $1 with that
// endpoint's degree, so expanding a node costs one round trip.
const neighborSQL = `WITH incident AS (
		SELECT CASE WHEN source = $1 THEN target ELSE source END AS other, relation
		FROM kg_edges
		WHERE tenant_id = current_setting('app.tenant_id')::uuid AND (source = $1 OR target = $1)
	)
	SELECT i.other, (SELECT count(*) FROM kg_edges e
		WHERE e.tenant_id = current_setting('app.tenant_id')::uuid AND (e.source = i.other OR e.target = i.other))
	FROM incident i
	ORDER BY i.other, i.relation`

const adjacentSQL = `SELECT EXISTS(SELECT 1 FROM kg_edges
	WHERE tenant_id = current_setting('app.tenant_id')::uuid
	AND ((source = $1 AND target = $2) OR (source = $2 AND target = $1)))`

const edgeBetweenSQL = `SELECT ` + edgeColumns + ` FROM kg_edges
	WHERE tenant_id = current_setting('app.tenant_id')::uuid
	AND ((source = $1 AND target = $2) OR (source = $2 AND target = $1))
	ORDER BY source = $1 DESC, relation
	LIMIT 1`

const nodesExistSQL = `SELECT id FROM kg_nodes
	WHERE tenant_id = current_setting('app.tenant_id')::uuid AND id = ANY($1)`

// Degree returns the number of edges incident to n.
func (v *GraphView) Degree(ctx context.Context, n string) (int, error) {
	if d, ok := v.degrees[n]; ok {
		return d, nil
	}

	v.queries++

	var d int
	if err := v.q.QueryRow(ctx, degreeSQL, n).Scan(&d); err != nil {
		return 0, fmt.Errorf("counting edges of %q: %w", n, err)
	}

	v.degrees[n] = d

	return d, nil
}

// Neighbors returns the far endpoint of every edge incident to n.
func (v *GraphView) Neighbors(ctx context.Context, n string) ([]string, error) {
	if nbrs, ok := v.neighbors[n]; ok {
		return nbrs, nil
	}

	v.queries++

	rows, err := v.q.Query(ctx, neighborSQL, n)
	if err != nil {
		return nil, fmt.Errorf("querying neighbors of %q: %w", n, err)
	}
	defer rows.Close()

	nbrs := make([]string, 0, 8)

	for rows.Next() {
		var other string
		var d int

		if err := rows.Scan(&other, &d); err != nil {
			return nil, fmt.Errorf("scanning neighbor row: %w", err)
		}

		nbrs = append(nbrs, other)
		v.degrees[other] = d
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating neighbor rows: %w", err)
	}

	v.neighbors[n] = nbrs
	v.degrees[n] = len(nbrs)

	return nbrs, nil
}

// Adjacent reports whether any edge joins a and b.
func (v *GraphView) Adjacent(ctx context.Context, a, b string) (bool, error) {
	if nbrs, ok := v.neighbors[a]; ok {
		return slices.Contains(nbrs, b), nil
	}

	if nbrs, ok := v.neighbors[b]; ok {
		return slices.Contains(nbrs, a), nil
	}

	key := [2]string{a, b}
	if b < a {
		key = [2]string{b, a}
	}

	if ok, seen := v.adjacent[key]; seen {
		return ok, nil
	}

	v.queries++

	var ok bool
	if err := v.q.QueryRow(ctx, adjacentSQL, a, b).Scan(&ok); err != nil {
		return false, fmt.Errorf("checking edge %q-%q: %w", a, b, err)
	}

	v.adjacent[key] = ok

	return ok, nil
}

// EdgeBetween returns an edge joining a and b, preferring one stored in the
// a to b direction.
func (v *GraphView) EdgeBetween(ctx context.Context, a, b string) (models.Edge, error) {
	v.queries++

	e, err := scanEdge(v.q.QueryRow(ctx, edgeBetweenSQL, a, b).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Edge{}, fmt.Errorf("%q-%q: %w", a, b, promiscuity.ErrNotAdjacent)
		}

		return models.Edge{}, fmt.Errorf("fetching edge %q-%q: %w", a, b, err)
	}

	return *e, nil
}

// RequireNodes returns models.ErrNodeNotFound naming the first id that is
// not a node of the snapshot.
func (v *GraphView) RequireNodes(ctx context.Context, ids ...string) error {
	v.queries++

	rows, err := v.q.Query(ctx, nodesExistSQL, ids)
	if err != nil {
		return fmt.Errorf("checking nodes: %w", err)
	}
	defer rows.Close()

	found := make(map[string]bool, len(ids))

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scanning node id: %w", err)
		}

		found[id] = true
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating node ids: %w", err)
	}

	for _, id := range ids {
		if !found[id] {
			return fmt.Errorf("node %q: %w", id, models.ErrNodeNotFound)
		}
	}

	return nil
}
