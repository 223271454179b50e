// Package models defines data types for the promiscuity graph service.
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Node represents a vertex in a tenant's graph.
type Node struct {
	ID         string         `json:"id"`
	TenantID   uuid.UUID      `json:"-"`
	Type       string         `json:"type"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties"`
	Degree     int            `json:"degree"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// CreateNodeRequest is the payload for creating a new node.
type CreateNodeRequest struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Validate checks that required fields are present and within limits on CreateNodeRequest.
// If ID is empty, a UUID is auto-generated.
func (r *CreateNodeRequest) Validate() error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	if len(r.ID) > maxIDLen {
		return ErrFieldTooLong("id", maxIDLen)
	}

	if r.Type == "" {
		return ErrMissingType
	}

	if len(r.Type) > 100 {
		return ErrFieldTooLong("type", 100)
	}

	if r.Label == "" {
		return ErrMissingLabel
	}

	if len(r.Label) > 10000 {
		return ErrFieldTooLong("label", 10000)
	}

	return validateProperties(r.Properties)
}

// NodeFilter narrows a node listing.
type NodeFilter struct {
	Type   string
	Limit  int
	Offset int
}

const (
	maxIDLen         = 255
	maxPropertyBytes = 65536
)

func validateProperties(props map[string]any) error {
	if props == nil {
		return nil
	}

	data, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("invalid properties: %w", err)
	}

	if len(data) > maxPropertyBytes {
		return ErrFieldTooLong("properties", maxPropertyBytes)
	}

	return nil
}
