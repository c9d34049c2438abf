package model

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode represents API error codes
type ErrorCode int

const (
	// Authentication errors (1xxx)
	ErrCodeUnauthorized ErrorCode = 1001
	ErrCodeTokenExpired ErrorCode = 1002

	// Authorization errors (2xxx)
	ErrCodeForbidden ErrorCode = 2001

	// Resource errors (3xxx)
	ErrCodeNotFound   ErrorCode = 3001
	ErrCodeInProgress ErrorCode = 3004

	// Validation errors (4xxx)
	ErrCodeValidation   ErrorCode = 4001
	ErrCodeInvalidInput ErrorCode = 4002
	ErrCodeInvalidID    ErrorCode = 4004

	// Internal errors (5xxx)
	ErrCodeInternal    ErrorCode = 5001
	ErrCodeUnavailable ErrorCode = 5003
)

// APIError is the error response for every endpoint. Status and Code are
// used for the response line and logs; only Message reaches the client.
type APIError struct {
	Status  int       `json:"-"`
	Code    ErrorCode `json:"-"`
	Message string    `json:"message"`
}

// FieldError represents a validation error on a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("[%d] %d: %s", e.Status, e.Code, e.Message)
}

// WriteJSON writes the error as a JSON response
func (e *APIError) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(e)
}

func NewUnauthorizedError(message string) *APIError {
	if message == "" {
		message = "Authentication required"
	}
	return &APIError{Status: http.StatusUnauthorized, Code: ErrCodeUnauthorized, Message: message}
}

func NewTokenExpiredError() *APIError {
	return &APIError{Status: http.StatusUnauthorized, Code: ErrCodeTokenExpired, Message: "Token has expired"}
}

func NewForbiddenError(message string) *APIError {
	return &APIError{Status: http.StatusForbidden, Code: ErrCodeForbidden, Message: message}
}

func NewNotFoundError(resource string) *APIError {
	return &APIError{Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// NewValidationError joins the field messages with a comma.
func NewValidationError(errors []FieldError) *APIError {
	msgs := make([]string, 0, len(errors))
	for _, fe := range errors {
		msgs = append(msgs, fe.Message)
	}
	message := strings.Join(msgs, ", ")
	if message == "" {
		message = "Validation failed"
	}
	return &APIError{Status: http.StatusBadRequest, Code: ErrCodeValidation, Message: message}
}

func NewBadRequestError(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: ErrCodeInvalidInput, Message: message}
}

func NewInvalidIDError(resource string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: ErrCodeInvalidID, Message: fmt.Sprintf("Invalid %s ID", resource)}
}

// NewInProgressError reports a duplicate of a request that has not finished.
func NewInProgressError() *APIError {
	return &APIError{Status: http.StatusConflict, Code: ErrCodeInProgress, Message: "Request with this idempotency key is already in progress"}
}

func NewServiceUnavailableError() *APIError {
	return &APIError{Status: http.StatusServiceUnavailable, Code: ErrCodeUnavailable, Message: "Service temporarily unavailable"}
}

func NewInternalError(message string) *APIError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return &APIError{Status: http.StatusInternalServerError, Code: ErrCodeInternal, Message: message}
}
