package service

import "errors"

// Centralized service layer errors. Handlers map these to responses.

// ===== Identity Errors =====
var (
	ErrUnauthenticated = errors.New("authentication required")
)

// ===== Idea Errors =====
var (
	ErrIdeaNotFound  = errors.New("idea not found")
	ErrInvalidIdeaID = errors.New("invalid idea id")
	ErrNotIdeaAuthor = errors.New("not authorized to delete this idea")
)

// ===== Availability Errors =====
var (
	// ErrServiceUnavailable wraps storage or directory failures caused by
	// timeouts, lost connections or exhausted conflict retries.
	ErrServiceUnavailable = errors.New("service unavailable")
)
