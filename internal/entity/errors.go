package entity

import "errors"

// Domain errors
var (
	// Request errors
	ErrMalformedRequest = errors.New("malformed request")

	// Pipeline stage errors
	ErrEmbedding  = errors.New("embedding error")
	ErrRetrieval  = errors.New("retrieval error")
	ErrGeneration = errors.New("generation error")

	// Validation errors
	ErrMissingField  = errors.New("required field is missing")
	ErrInvalidFormat = errors.New("invalid format")
	ErrInvalidRole   = errors.New("invalid role")
)
