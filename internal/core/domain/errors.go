package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingCredential indicates a required secret (API key, OAuth
	// client file) is not available.
	ErrMissingCredential = errors.New("missing credential")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrOCRUnavailable indicates no OCR engine is configured.
	ErrOCRUnavailable = errors.New("OCR engine unavailable")

	// ErrPipelineLocked indicates another pipeline run holds the store lock.
	ErrPipelineLocked = errors.New("pipeline already running")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrAuthRequired indicates an operation needs authentication that is
	// not configured.
	ErrAuthRequired = errors.New("authentication required")
)
