// Package api provides HTTP handlers for the promiscuity server.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	pool          Pinger
	log           *logrus.Logger
	version       string
	schemaVersion int
	startTime     time.Time
}

// NewHealthHandler creates a HealthHandler. pool may be nil.
func NewHealthHandler(pool Pinger, log *logrus.Logger, version string, schemaVersion int) *HealthHandler {
	return &HealthHandler{
		pool:          pool,
		log:           log,
		version:       version,
		schemaVersion: schemaVersion,
		startTime:     time.Now(),
	}
}

// readinessResponse is the JSON payload returned by the readiness endpoint.
type readinessResponse struct {
	Status        string            `json:"status"`
	SchemaVersion int               `json:"schema_version"`
	Checks        map[string]string `json:"checks"`
}

// healthResponse is the JSON payload returned by the health/liveness endpoint.
type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Liveness handles GET /api/v1/health. It always answers 200; the database
// state is informational.
func (h *HealthHandler) Liveness(c *gin.Context) {
	resp := healthResponse{
		Status:        "ok",
		Version:       h.version,
		Database:      "connected",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	if h.pool == nil {
		resp.Database = "not_configured"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.pool.HealthCheck(ctx); err != nil {
			resp.Database = "disconnected"
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Readiness handles GET /api/v1/ready: the database answers and the schema
// has been migrated.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := map[string]string{"database": "ok", "schema": "ok"}
	resp := readinessResponse{Status: "ready", SchemaVersion: h.schemaVersion, Checks: checks}

	if h.pool == nil {
		checks["database"] = "not_configured"
		checks["schema"] = "unknown"
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)

		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.pool.HealthCheck(ctx); err != nil {
		h.log.WithError(err).Error("readiness: database health check failed")
		checks["database"] = "error"
		checks["schema"] = "unknown"
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)

		return
	}

	if err := h.checkSchema(ctx); err != nil {
		h.log.WithError(err).Error("readiness: schema check failed")
		checks["schema"] = "error"
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// checkSchema verifies the graph tables exist.
func (h *HealthHandler) checkSchema(ctx context.Context) error {
	var nodes, edges bool

	err := h.pool.QueryRow(ctx,
		`SELECT to_regclass('public.kg_nodes') IS NOT NULL, to_regclass('public.kg_edges') IS NOT NULL`,
	).Scan(&nodes, &edges)
	if err != nil {
		return fmt.Errorf("schema check: %w", err)
	}

	if !nodes || !edges {
		return fmt.Errorf("schema check: graph tables missing")
	}

	return nil
}
