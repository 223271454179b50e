package models

import "fmt"

// PromiscuityQuery names the endpoints and shape of a search. Paths is only
// read by top-N path queries.
type PromiscuityQuery struct {
	Source string `form:"source" json:"source"`
	Tail   string `form:"tail" json:"tail"`
	Hops   int    `form:"k" json:"k"`
	Paths  int    `form:"n" json:"n,omitempty"`
}

// Validate checks the query against the server's limits. maxPaths of 0 skips
// the Paths check.
func (q *PromiscuityQuery) Validate(maxHops, maxPaths int) error {
	if q.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, ErrMissingSource)
	}

	if q.Tail == "" {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, ErrMissingTail)
	}

	if len(q.Source) > maxIDLen || len(q.Tail) > maxIDLen {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, ErrFieldTooLong("node id", maxIDLen))
	}

	if q.Hops < 1 || q.Hops > maxHops {
		return fmt.Errorf("%w: k must be between 1 and %d", ErrInvalidQuery, maxHops)
	}

	if maxPaths > 0 && (q.Paths < 1 || q.Paths > maxPaths) {
		return fmt.Errorf("%w: n must be between 1 and %d", ErrInvalidQuery, maxPaths)
	}

	return nil
}

// SearchStats reports the work behind a result.
type SearchStats struct {
	Algorithm  string  `json:"algorithm"`
	Dequeued   int     `json:"dequeued"`
	Expanded   int     `json:"expanded"`
	DurationMS float64 `json:"duration_ms"`
	Cached     bool    `json:"cached"`
}

// ScoreResult is one score record. Found is false only for the exhaustive
// search's "no path" record, whose score is -1.
type ScoreResult struct {
	Score int  `json:"promiscuity_score"`
	Found bool `json:"found"`
}

// ScoreResponse holds zero or one score records.
type ScoreResponse struct {
	Results []ScoreResult `json:"results"`
	Stats   SearchStats   `json:"stats"`
}

// PathRecord is a walk from source to tail.
type PathRecord struct {
	Nodes []string `json:"nodes"`
	Edges []Edge   `json:"edges"`
}

// PathResult is one ranked walk.
type PathResult struct {
	Score int        `json:"promiscuity_score"`
	Path  PathRecord `json:"promiscuity_path"`
}

// PathsResponse holds up to n walks in ascending score order.
type PathsResponse struct {
	Results []PathResult `json:"results"`
	Stats   SearchStats  `json:"stats"`
}
