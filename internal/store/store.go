// Package store provides tenant-scoped data access for the graph service.
//
// Each store owns one concern (nodes, edges, search views) and embeds the
// shared Base. Every query runs inside a transaction that has set
// app.tenant_id, so row level security confines it to one tenant.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/promiscuity/internal/db"
	"github.com/persistorai/promiscuity/internal/dbpool"
)

const defaultQueryTimeout = 30 * time.Second

// maxListLimit caps limit values for list queries.
const maxListLimit = 1000

// Base contains shared dependencies for all stores.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// setTenant sets the tenant context for RLS policies within a transaction.
func setTenant(ctx context.Context, tx pgx.Tx, tenantID string) error {
	if _, err := uuid.Parse(tenantID); err != nil {
		return fmt.Errorf("invalid tenant ID format: %w", err)
	}

	if _, err := tx.Exec(ctx, "SELECT set_config('app.tenant_id', $1, true)", tenantID); err != nil {
		return fmt.Errorf("setting tenant context: %w", err)
	}

	return nil
}

func (b *Base) begin(ctx context.Context, tenantID string, opts pgx.TxOptions) (pgx.Tx, error) {
	tx, err := b.Pool.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	if err := setTenant(ctx, tx, tenantID); err != nil {
		tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on setup failure.

		return nil, err
	}

	return tx, nil
}

// beginTx starts a read-write transaction and sets the tenant context.
func (b *Base) beginTx(ctx context.Context, tenantID string) (pgx.Tx, error) {
	return b.begin(ctx, tenantID, pgx.TxOptions{})
}

// beginReadTx starts a read-only transaction and sets the tenant context.
func (b *Base) beginReadTx(ctx context.Context, tenantID string) (pgx.Tx, error) {
	return b.begin(ctx, tenantID, pgx.TxOptions{AccessMode: pgx.ReadOnly})
}

// beginSnapshotTx starts a read-only REPEATABLE READ transaction, so every
// statement in it sees the same graph.
func (b *Base) beginSnapshotTx(ctx context.Context, tenantID string) (pgx.Tx, error) {
	return b.begin(ctx, tenantID, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
}

// notify publishes a change on db.ChangeChannel after commit. Failures are
// logged only: the local cache has already been invalidated by the caller.
func (b *Base) notify(table, op, tenantID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload, _ := json.Marshal(db.ChangePayload{Table: table, Op: op, TenantID: tenantID}) //nolint:errcheck // plain struct, cannot fail.

	if _, err := b.Pool.Exec(ctx, "SELECT pg_notify($1, $2)", db.ChangeChannel, string(payload)); err != nil {
		b.Log.WithError(err).Warn("failed to send " + op + " " + table + " notification")
	}
}

// GetTenantByAPIKey looks up a tenant ID by API key hash.
func (b *Base) GetTenantByAPIKey(ctx context.Context, apiKey string) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	hash := sha256.Sum256([]byte(apiKey))
	apiKeyHash := hex.EncodeToString(hash[:])

	var tenantID string

	err := b.Pool.QueryRow(ctx, "SELECT id FROM tenants WHERE api_key_hash = $1", apiKeyHash).Scan(&tenantID)
	if err != nil {
		return "", fmt.Errorf("looking up tenant by API key: %w", err)
	}

	return tenantID, nil
}

// CreateTenant registers a tenant and returns its ID. Only the hash of apiKey
// is stored.
func (b *Base) CreateTenant(ctx context.Context, name, apiKey string) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	hash := sha256.Sum256([]byte(apiKey))

	var tenantID string

	err := b.Pool.QueryRow(ctx,
		"INSERT INTO tenants (name, api_key_hash) VALUES ($1, $2) RETURNING id",
		name, hex.EncodeToString(hash[:]),
	).Scan(&tenantID)
	if err != nil {
		return "", fmt.Errorf("creating tenant: %w", err)
	}

	return tenantID, nil
}
