package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/persistorai/promiscuity/internal/models"
)

// NodeStore handles node CRUD operations.
type NodeStore struct {
	Base
}

// NewNodeStore creates a new NodeStore.
func NewNodeStore(base Base) *NodeStore {
	return &NodeStore{Base: base}
}

// CreateNode inserts a new node and returns the created record.
func (s *NodeStore) CreateNode(
	ctx context.Context,
	tenantID string,
	req models.CreateNodeRequest,
) (*models.Node, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	propsJSON, err := marshalProps(req.Properties)
	if err != nil {
		return nil, fmt.Errorf("preparing node properties: %w", err)
	}

	tx, err := s.beginTx(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("creating node: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	query := `INSERT INTO kg_nodes (id, tenant_id, type, label, properties)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + insertedNodeColumns

	n, err := scanNode(tx.QueryRow(ctx, query, req.ID, tenantID, req.Type, req.Label, propsJSON).Scan)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrDuplicateKey
		}

		return nil, fmt.Errorf("scanning created node: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing create node: %w", err)
	}

	s.notify("kg_nodes", "insert", tenantID)

	return n, nil
}

// GetNode retrieves a single node by ID together with its current degree.
func (s *NodeStore) GetNode(ctx context.Context, tenantID, nodeID string) (*models.Node, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("getting node: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only transaction.

	query := `SELECT ` + nodeColumns + ` FROM kg_nodes n
		WHERE n.tenant_id = current_setting('app.tenant_id')::uuid AND n.id = $1`

	n, err := scanNode(tx.QueryRow(ctx, query, nodeID).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNodeNotFound
		}

		return nil, fmt.Errorf("scanning node: %w", err)
	}

	return n, nil
}

// ListNodes returns a page of nodes ordered by ID, and whether more exist.
func (s *NodeStore) ListNodes(ctx context.Context, tenantID string, f models.NodeFilter) ([]models.Node, bool, error) {
	limit, offset := clampPage(f.Limit, f.Offset)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, tenantID)
	if err != nil {
		return nil, false, fmt.Errorf("listing nodes: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only transaction.

	where := " WHERE n.tenant_id = current_setting('app.tenant_id')::uuid"
	args := make([]any, 0, 3)

	if f.Type != "" {
		args = append(args, f.Type)
		where += fmt.Sprintf(" AND n.type = $%d", len(args))
	}

	args = append(args, limit+1, offset)
	query := "SELECT " + nodeColumns + " FROM kg_nodes n" + where +
		fmt.Sprintf(" ORDER BY n.id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	nodes, err := collect(rows, scanNode, "node")
	if err != nil {
		return nil, false, err
	}

	hasMore := len(nodes) > limit
	if hasMore {
		nodes = nodes[:limit]
	}

	return nodes, hasMore, nil
}

// DeleteNode removes a node. Its edges go with it through the foreign key cascade.
func (s *NodeStore) DeleteNode(ctx context.Context, tenantID, nodeID string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("deleting node: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	tag, err := tx.Exec(ctx, "DELETE FROM kg_nodes WHERE tenant_id = current_setting('app.tenant_id')::uuid AND id = $1", nodeID)
	if err != nil {
		return fmt.Errorf("executing node delete: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrNodeNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing delete node: %w", err)
	}

	s.notify("kg_nodes", "delete", tenantID)

	return nil
}
