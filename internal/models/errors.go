package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation.
var (
	ErrMissingType     = errors.New("type is required")
	ErrMissingLabel    = errors.New("label is required")
	ErrMissingSource   = errors.New("source is required")
	ErrMissingTarget   = errors.New("target is required")
	ErrMissingTail     = errors.New("tail is required")
	ErrMissingRelation = errors.New("relation is required")
)

// ErrInvalidQuery wraps every promiscuity query validation failure.
var ErrInvalidQuery = errors.New("invalid query")

// Sentinel errors for entity lookups.
var (
	ErrNodeNotFound = errors.New("node not found")
	ErrEdgeNotFound = errors.New("edge not found")
)

// ErrDuplicateKey indicates a unique constraint violation (maps to HTTP 409 Conflict).
var ErrDuplicateKey = errors.New("duplicate key")

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%s exceeds maximum length of %d", field, maxLen)
}

// ErrSearchTimeout is returned when a search outlives the server's search timeout.
var ErrSearchTimeout = errors.New("search timed out")
