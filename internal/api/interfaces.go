package api

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/persistorai/promiscuity/internal/domain"
)

// NodeService defines node operations used by NodeHandler.
type NodeService = domain.NodeService

// EdgeService defines edge operations used by EdgeHandler.
type EdgeService = domain.EdgeService

// PromiscuityService defines the searches used by PromiscuityHandler.
type PromiscuityService = domain.PromiscuityService

// Pinger is the slice of the database pool the health endpoints need.
type Pinger interface {
	HealthCheck(ctx context.Context) error
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
