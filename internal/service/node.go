// Package service provides business logic between API handlers and data stores.
package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/promiscuity/internal/db"
	"github.com/persistorai/promiscuity/internal/domain"
	"github.com/persistorai/promiscuity/internal/models"
)

// NodeStore is the data-access interface NodeService depends on.
// It reuses domain.NodeService since the method sets are identical.
type NodeStore = domain.NodeService

// Compile-time check: *NodeService must satisfy domain.NodeService.
var _ domain.NodeService = (*NodeService)(nil)

// NodeService wraps NodeStore and drops cached search results of a tenant
// whenever its nodes change.
type NodeService struct {
	store NodeStore
	inv   db.Invalidator
	log   *logrus.Logger
}

// NewNodeService creates a NodeService.
func NewNodeService(store NodeStore, inv db.Invalidator, log *logrus.Logger) *NodeService {
	return &NodeService{store: store, inv: inv, log: log}
}

// ListNodes returns a paginated list of nodes (pass-through).
func (s *NodeService) ListNodes(ctx context.Context, tenantID string, f models.NodeFilter) ([]models.Node, bool, error) {
	return s.store.ListNodes(ctx, tenantID, f)
}

// GetNode returns a single node by ID (pass-through).
func (s *NodeService) GetNode(ctx context.Context, tenantID, nodeID string) (*models.Node, error) {
	return s.store.GetNode(ctx, tenantID, nodeID)
}

// CreateNode creates a node.
func (s *NodeService) CreateNode(ctx context.Context, tenantID string, req models.CreateNodeRequest) (*models.Node, error) {
	node, err := s.store.CreateNode(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}

	s.inv.InvalidateTenant(tenantID)

	s.log.WithFields(logrus.Fields{"action": "node.create", "tenant_id": tenantID, "node_id": node.ID}).Info("audit")

	return node, nil
}

// DeleteNode deletes a node and, with it, every incident edge.
func (s *NodeService) DeleteNode(ctx context.Context, tenantID, nodeID string) error {
	if err := s.store.DeleteNode(ctx, tenantID, nodeID); err != nil {
		return err
	}

	s.inv.InvalidateTenant(tenantID)

	s.log.WithFields(logrus.Fields{"action": "node.delete", "tenant_id": tenantID, "node_id": nodeID}).Info("audit")

	return nil
}
