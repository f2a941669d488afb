package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrGatewayUnavailable indicates the model gateway is not configured.
	// Extraction cannot run without one.
	ErrGatewayUnavailable = errors.New("model gateway unavailable")

	// ErrRateLimited indicates the model provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
