package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/promiscuity/internal/db"
	"github.com/persistorai/promiscuity/internal/domain"
	"github.com/persistorai/promiscuity/internal/models"
)

// EdgeStore is the data-access interface EdgeService depends on.
type EdgeStore = domain.EdgeService

// Compile-time check: *EdgeService must satisfy domain.EdgeService.
var _ domain.EdgeService = (*EdgeService)(nil)

// EdgeService wraps EdgeStore and drops cached search results of a tenant
// whenever its edges change.
type EdgeService struct {
	store EdgeStore
	inv   db.Invalidator
	log   *logrus.Logger
}

// NewEdgeService creates an EdgeService.
func NewEdgeService(store EdgeStore, inv db.Invalidator, log *logrus.Logger) *EdgeService {
	return &EdgeService{store: store, inv: inv, log: log}
}

// ListEdges returns a paginated list of edges (pass-through).
func (s *EdgeService) ListEdges(ctx context.Context, tenantID string, f models.EdgeFilter) ([]models.Edge, bool, error) {
	return s.store.ListEdges(ctx, tenantID, f)
}

// CreateEdge creates an edge.
func (s *EdgeService) CreateEdge(ctx context.Context, tenantID string, req models.CreateEdgeRequest) (*models.Edge, error) {
	edge, err := s.store.CreateEdge(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}

	s.inv.InvalidateTenant(tenantID)

	s.log.WithFields(logrus.Fields{
		"action":    "edge.create",
		"tenant_id": tenantID,
		"source":    edge.Source,
		"target":    edge.Target,
		"relation":  edge.Relation,
	}).Info("audit")

	return edge, nil
}

// DeleteEdge deletes an edge by its composite key.
func (s *EdgeService) DeleteEdge(ctx context.Context, tenantID, source, target, relation string) error {
	if err := s.store.DeleteEdge(ctx, tenantID, source, target, relation); err != nil {
		return err
	}

	s.inv.InvalidateTenant(tenantID)

	s.log.WithFields(logrus.Fields{
		"action":    "edge.delete",
		"tenant_id": tenantID,
		"source":    source,
		"target":    target,
		"relation":  relation,
	}).Info("audit")

	return nil
}
