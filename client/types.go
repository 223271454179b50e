package client

import "time"

// Node is a vertex of the tenant's graph.
type Node struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties,omitempty"`
	Degree     int            `json:"degree"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// CreateNodeRequest is the payload for creating a node. An empty ID is
// assigned by the server.
type CreateNodeRequest struct {
	ID         string         `json:"id,omitempty"`
	Type       string         `json:"type"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties,omitempty"`
}

// NodeListOptions filters and pages a node listing.
type NodeListOptions struct {
	Type   string
	Limit  int
	Offset int
}

// Edge connects two nodes. Searches ignore its direction.
type Edge struct {
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Relation   string         `json:"relation"`
	Properties map[string]any `json:"properties,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// CreateEdgeRequest is the payload for creating an edge.
type CreateEdgeRequest struct {
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Relation   string         `json:"relation"`
	Properties map[string]any `json:"properties,omitempty"`
}

// EdgeListOptions filters and pages an edge listing. Node matches either endpoint.
type EdgeListOptions struct {
	Node     string
	Relation string
	Limit    int
	Offset   int
}

// SearchStats reports the work behind a search result.
type SearchStats struct {
	Algorithm  string  `json:"algorithm"`
	Dequeued   int     `json:"dequeued"`
	Expanded   int     `json:"expanded"`
	DurationMS float64 `json:"duration_ms"`
	Cached     bool    `json:"cached"`
}

// ScoreResult is one score record. Found is false only for the naive
// search's "no path" record.
type ScoreResult struct {
	Score int  `json:"promiscuity_score"`
	Found bool `json:"found"`
}

// ScoreResponse is the body of the score endpoints.
type ScoreResponse struct {
	Results []ScoreResult `json:"results"`
	Stats   SearchStats   `json:"stats"`
}

// PathRecord is one walk from source to tail.
type PathRecord struct {
	Nodes []string `json:"nodes"`
	Edges []Edge   `json:"edges"`
}

// PathResult is one ranked walk.
type PathResult struct {
	Score int        `json:"promiscuity_score"`
	Path  PathRecord `json:"promiscuity_path"`
}

// PathsResponse is the body of the paths endpoint.
type PathsResponse struct {
	Results []PathResult `json:"results"`
	Stats   SearchStats  `json:"stats"`
}

// HealthResponse is returned by the liveness endpoint.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// ReadyResponse is returned by the readiness endpoint.
type ReadyResponse struct {
	Status        string            `json:"status"`
	SchemaVersion int               `json:"schema_version"`
	Checks        map[string]string `json:"checks"`
}
