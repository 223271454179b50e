// Package domain defines the canonical service interfaces shared by the REST
// handlers, the services and the stores. Consumers should depend on these
// interfaces rather than re-declaring equivalent ones.
package domain

import (
	"context"

	"github.com/persistorai/promiscuity/internal/models"
	"github.com/persistorai/promiscuity/internal/promiscuity"
)

// NodeService defines all node operations.
type NodeService interface {
	ListNodes(ctx context.Context, tenantID string, f models.NodeFilter) ([]models.Node, bool, error)
	GetNode(ctx context.Context, tenantID, nodeID string) (*models.Node, error)
	CreateNode(ctx context.Context, tenantID string, req models.CreateNodeRequest) (*models.Node, error)
	DeleteNode(ctx context.Context, tenantID, nodeID string) error
}

// EdgeService defines all edge operations.
type EdgeService interface {
	ListEdges(ctx context.Context, tenantID string, f models.EdgeFilter) ([]models.Edge, bool, error)
	CreateEdge(ctx context.Context, tenantID string, req models.CreateEdgeRequest) (*models.Edge, error)
	DeleteEdge(ctx context.Context, tenantID string, source, target, relation string) error
}

// PromiscuityService defines the promiscuity searches.
type PromiscuityService interface {
	Score(ctx context.Context, tenantID string, alg promiscuity.Algorithm, q models.PromiscuityQuery) (*models.ScoreResponse, error)
	Paths(ctx context.Context, tenantID string, q models.PromiscuityQuery) (*models.PathsResponse, error)
}

// SearchGraph is a consistent read view of one tenant's graph.
type SearchGraph interface {
	promiscuity.Graph[string, models.Edge]
	// RequireNodes returns models.ErrNodeNotFound for the first missing id.
	RequireNodes(ctx context.Context, ids ...string) error
}

// GraphSearcher opens SearchGraph views. The view is valid only inside fn.
type GraphSearcher interface {
	Search(ctx context.Context, tenantID string, fn func(SearchGraph) error) error
}
