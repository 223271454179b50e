package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/persistorai/promiscuity/internal/models"
)

// EdgeStore provides edge CRUD operations.
type EdgeStore struct {
	Base
}

// NewEdgeStore creates a new EdgeStore.
func NewEdgeStore(base Base) *EdgeStore {
	return &EdgeStore{Base: base}
}

// CreateEdge inserts a new edge and returns the created record.
func (s *EdgeStore) CreateEdge(
	ctx context.Context,
	tenantID string,
	req models.CreateEdgeRequest,
) (*models.Edge, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	propsJSON, err := marshalProps(req.Properties)
	if err != nil {
		return nil, fmt.Errorf("preparing edge properties: %w", err)
	}

	tx, err := s.beginTx(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("creating edge: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	var sourceExists, targetExists bool
	err = tx.QueryRow(ctx,
		`SELECT
			EXISTS(SELECT 1 FROM kg_nodes WHERE tenant_id = $1 AND id = $2),
			EXISTS(SELECT 1 FROM kg_nodes WHERE tenant_id = $1 AND id = $3)`,
		tenantID, req.Source, req.Target).Scan(&sourceExists, &targetExists)
	if err != nil {
		return nil, fmt.Errorf("checking source/target nodes: %w", err)
	}

	if !sourceExists {
		return nil, fmt.Errorf("source node %q: %w", req.Source, models.ErrNodeNotFound)
	}

	if !targetExists {
		return nil, fmt.Errorf("target node %q: %w", req.Target, models.ErrNodeNotFound)
	}

	query := `INSERT INTO kg_edges (tenant_id, source, target, relation, properties)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + edgeColumns

	e, err := scanEdge(tx.QueryRow(ctx, query, tenantID, req.Source, req.Target, req.Relation, propsJSON).Scan)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrDuplicateKey
		}

		return nil, fmt.Errorf("scanning created edge: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing create edge: %w", err)
	}

	s.notify("kg_edges", "insert", tenantID)

	return e, nil
}

// ListEdges returns a page of edges, optionally restricted to one endpoint
// and one relation, and whether more exist.
func (s *EdgeStore) ListEdges(ctx context.Context, tenantID string, f models.EdgeFilter) ([]models.Edge, bool, error) {
	limit, offset := clampPage(f.Limit, f.Offset)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, tenantID)
	if err != nil {
		return nil, false, fmt.Errorf("listing edges: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only transaction.

	where := " WHERE tenant_id = current_setting('app.tenant_id')::uuid"
	args := make([]any, 0, 4)

	if f.Node != "" {
		args = append(args, f.Node)
		where += fmt.Sprintf(" AND (source = $%d OR target = $%d)", len(args), len(args))
	}

	if f.Relation != "" {
		args = append(args, f.Relation)
		where += fmt.Sprintf(" AND relation = $%d", len(args))
	}

	args = append(args, limit+1, offset)
	query := "SELECT " + edgeColumns + " FROM kg_edges" + where +
		fmt.Sprintf(" ORDER BY source, target, relation LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying edges: %w", err)
	}
	defer rows.Close()

	edges, err := collect(rows, scanEdge, "edge")
	if err != nil {
		return nil, false, err
	}

	hasMore := len(edges) > limit
	if hasMore {
		edges = edges[:limit]
	}

	return edges, hasMore, nil
}

// DeleteEdge removes an edge by its composite key.
func (s *EdgeStore) DeleteEdge(
	ctx context.Context,
	tenantID string,
	source, target, relation string,
) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("deleting edge: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	tag, err := tx.Exec(ctx,
		"DELETE FROM kg_edges WHERE tenant_id = $1 AND source = $2 AND target = $3 AND relation = $4",
		tenantID, source, target, relation,
	)
	if err != nil {
		return fmt.Errorf("executing edge delete: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrEdgeNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing delete edge: %w", err)
	}

	s.notify("kg_edges", "delete", tenantID)

	return nil
}
