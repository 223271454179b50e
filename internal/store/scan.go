package store

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/persistorai/promiscuity/internal/models"
)

// degreeExpr counts the edges incident to the node aliased n. A self-loop is
// one row and so counts once.
const degreeExpr = `(SELECT count(*) FROM kg_edges e
	WHERE e.tenant_id = n.tenant_id AND (e.source = n.id OR e.target = n.id))`

// nodeColumns lists the columns selected for node queries against kg_nodes n.
const nodeColumns = `n.id, n.tenant_id, n.type, n.label, n.properties,
	n.created_at, n.updated_at, ` + degreeExpr

// insertedNodeColumns is nodeColumns for a RETURNING clause; a new node has no edges.
const insertedNodeColumns = `id, tenant_id, type, label, properties, created_at, updated_at, 0`

// edgeColumns lists the columns selected for edge queries.
const edgeColumns = `tenant_id, source, target, relation, properties, created_at`

func scanNode(scan func(dest ...any) error) (*models.Node, error) {
	var n models.Node
	var tenantID uuid.UUID
	var props []byte

	err := scan(
		&n.ID,
		&tenantID,
		&n.Type,
		&n.Label,
		&props,
		&n.CreatedAt,
		&n.UpdatedAt,
		&n.Degree,
	)
	if err != nil {
		return nil, err
	}

	n.TenantID = tenantID

	if err := json.Unmarshal(props, &n.Properties); err != nil {
		return nil, fmt.Errorf("unmarshalling node properties: %w", err)
	}

	return &n, nil
}

func scanEdge(scan func(dest ...any) error) (*models.Edge, error) {
	var e models.Edge
	var tenantID uuid.UUID
	var props []byte

	err := scan(
		&tenantID,
		&e.Source,
		&e.Target,
		&e.Relation,
		&props,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.TenantID = tenantID

	if err := json.Unmarshal(props, &e.Properties); err != nil {
		return nil, fmt.Errorf("unmarshalling edge properties: %w", err)
	}

	return &e, nil
}

// collect scans every row with scanFn.
func collect[T any](rows pgx.Rows, scanFn func(func(dest ...any) error) (*T, error), what string) ([]T, error) {
	out := make([]T, 0, 16)

	for rows.Next() {
		v, err := scanFn(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", what, err)
		}

		out = append(out, *v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", what, err)
	}

	return out, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}

	if limit > maxListLimit {
		limit = maxListLimit
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

func marshalProps(props map[string]any) ([]byte, error) {
	if props == nil {
		props = map[string]any{}
	}

	data, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("marshalling properties: %w", err)
	}

	return data, nil
}
