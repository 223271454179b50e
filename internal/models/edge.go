package models

import (
	"time"

	"github.com/google/uuid"
)

// Edge connects two nodes. Searches treat it as undirected; Source and Target
// only record the direction it was created in. A pair of nodes may carry
// several edges with distinct relations, and Source may equal Target.
type Edge struct {
	TenantID   uuid.UUID      `json:"-"`
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Relation   string         `json:"relation"`
	Properties map[string]any `json:"properties"`
	CreatedAt  time.Time      `json:"created_at"`
}

// CreateEdgeRequest is the payload for creating a new edge.
type CreateEdgeRequest struct {
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Relation   string         `json:"relation"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Validate checks that required fields are present and within limits on CreateEdgeRequest.
func (r *CreateEdgeRequest) Validate() error {
	if r.Source == "" {
		return ErrMissingSource
	}

	if len(r.Source) > maxIDLen {
		return ErrFieldTooLong("source", maxIDLen)
	}

	if r.Target == "" {
		return ErrMissingTarget
	}

	if len(r.Target) > maxIDLen {
		return ErrFieldTooLong("target", maxIDLen)
	}

	if r.Relation == "" {
		return ErrMissingRelation
	}

	if len(r.Relation) > maxIDLen {
		return ErrFieldTooLong("relation", maxIDLen)
	}

	return validateProperties(r.Properties)
}

// EdgeFilter narrows an edge listing. Node matches either endpoint.
type EdgeFilter struct {
	Node     string
	Relation string
	Limit    int
	Offset   int
}
