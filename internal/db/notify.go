package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/promiscuity/internal/dbpool"
)

// ChangeChannel is the NOTIFY channel the stores publish graph writes on.
const ChangeChannel = "kg_changes"

const (
	initialBackoff    = 1 * time.Second
	maxBackoff        = 30 * time.Second
	backoffMultiplier = 2
)

// Invalidator drops whatever it has derived from a tenant's graph.
type Invalidator interface {
	InvalidateTenant(tenantID string)
}

// ChangePayload is the JSON body of a kg_changes notification.
type ChangePayload struct {
	Table    string `json:"table"`
	Op       string `json:"op"`
	TenantID string `json:"tenant_id"`
}

// NotifyBridge listens on ChangeChannel and invalidates cached search results
// for the tenant named in each notification. Writes from other server
// replicas reach this replica's cache this way.
type NotifyBridge struct {
	log  *logrus.Logger
	pool *dbpool.Pool
	inv  Invalidator
}

// NewNotifyBridge creates a NotifyBridge wired to the given pool and invalidator.
func NewNotifyBridge(log *logrus.Logger, pool *dbpool.Pool, inv Invalidator) *NotifyBridge {
	return &NotifyBridge{log: log, pool: pool, inv: inv}
}

// Start verifies connectivity and launches the listen loop in the background.
// The loop reconnects with backoff until ctx is cancelled.
func (b *NotifyBridge) Start(ctx context.Context) error {
	if err := b.pool.HealthCheck(ctx); err != nil {
		return fmt.Errorf("notify bridge: database not reachable: %w", err)
	}

	go b.listen(ctx)

	return nil
}

func (b *NotifyBridge) listen(ctx context.Context) {
	backoff := initialBackoff

	for {
		if ctx.Err() != nil {
			return
		}

		err := b.subscribe(ctx)
		if err == nil || ctx.Err() != nil {
			return
		}

		b.log.WithError(err).WithField("retry_in", backoff).
			Warn("notify bridge connection lost, reconnecting")

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff = nextBackoff(backoff)
	}
}

// subscribe holds one connection in LISTEN until it fails or ctx ends.
func (b *NotifyBridge) subscribe(ctx context.Context) error {
	conn, err := b.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{ChangeChannel}.Sanitize()); err != nil {
		return fmt.Errorf("executing LISTEN: %w", err)
	}

	b.log.WithField("channel", ChangeChannel).Info("notify bridge listening")

	for {
		// Wake periodically so a cancelled ctx is noticed on an idle channel.
		if err := conn.Conn().PgConn().Conn().SetReadDeadline(time.Now().Add(2 * time.Minute)); err != nil {
			return fmt.Errorf("setting read deadline: %w", err)
		}

		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}

			return fmt.Errorf("waiting for notification: %w", err)
		}

		b.handle(n)
	}
}

func (b *NotifyBridge) handle(n *pgconn.Notification) {
	p, err := ParseChangePayload(n.Payload)
	if err != nil {
		b.log.WithError(err).Warn("dropping notification")
		return
	}

	b.log.WithFields(logrus.Fields{
		"tenant_id": p.TenantID,
		"table":     p.Table,
		"op":        p.Op,
	}).Debug("graph change received")

	b.inv.InvalidateTenant(p.TenantID)
}

// ParseChangePayload decodes a notification body. A payload without a tenant
// is rejected because nothing could be invalidated for it.
func ParseChangePayload(raw string) (ChangePayload, error) {
	var p ChangePayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return ChangePayload{}, fmt.Errorf("decoding change payload: %w", err)
	}

	if p.TenantID == "" {
		return ChangePayload{}, errors.New("change payload has no tenant_id")
	}

	return p, nil
}

// nextBackoff doubles the current backoff with ±25% jitter, capped at maxBackoff.
func nextBackoff(current time.Duration) time.Duration {
	next := min(current*backoffMultiplier, maxBackoff)

	jitter := float64(next) * (0.75 + rand.Float64()*0.5) //nolint:gosec // jitter doesn't need crypto rand.

	return time.Duration(jitter)
}
