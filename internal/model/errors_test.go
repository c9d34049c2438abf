package model

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// ============================================================================
// Error() Interface Tests
// ============================================================================

func TestAPIError_Error_ReturnsFormattedMessage(t *testing.T) {
	t.Parallel()

	e := NewNotFoundError("Idea")
	errMsg := e.Error()

	if !strings.Contains(errMsg, "404") {
		t.Errorf("error message should contain status code, got: %s", errMsg)
	}
	if !strings.Contains(errMsg, "Idea not found") {
		t.Errorf("error message should contain message, got: %s", errMsg)
	}
}

// ============================================================================
// WriteJSON Tests
// ============================================================================

func TestAPIError_WriteJSON_OnlyMessageInBody(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	NewForbiddenError("Not authorized to delete this idea").WriteJSON(rec)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(body) != 1 {
		t.Errorf("expected only message field, got %v", body)
	}
	if body["message"] != "Not authorized to delete this idea" {
		t.Errorf("unexpected message: %v", body["message"])
	}
}

// ============================================================================
// Constructor Tests
// ============================================================================

func TestNewValidationError_JoinsMessagesWithComma(t *testing.T) {
	t.Parallel()

	e := NewValidationError([]FieldError{
		{Field: "title", Message: "Title is required"},
		{Field: "description", Message: "Description is required"},
	})

	if e.Status != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", e.Status)
	}
	if e.Message != "Title is required, Description is required" {
		t.Errorf("unexpected message: %q", e.Message)
	}
}

func TestNewValidationError_Empty(t *testing.T) {
	t.Parallel()

	e := NewValidationError(nil)
	if e.Message == "" {
		t.Error("expected a fallback message")
	}
}

func TestErrorConstructors_Statuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    *APIError
		status int
		code   ErrorCode
	}{
		{"unauthorized", NewUnauthorizedError(""), http.StatusUnauthorized, ErrCodeUnauthorized},
		{"token expired", NewTokenExpiredError(), http.StatusUnauthorized, ErrCodeTokenExpired},
		{"forbidden", NewForbiddenError("no"), http.StatusForbidden, ErrCodeForbidden},
		{"not found", NewNotFoundError("Idea"), http.StatusNotFound, ErrCodeNotFound},
		{"invalid id", NewInvalidIDError("idea"), http.StatusBadRequest, ErrCodeInvalidID},
		{"bad request", NewBadRequestError("bad"), http.StatusBadRequest, ErrCodeInvalidInput},
		{"in progress", NewInProgressError(), http.StatusConflict, ErrCodeInProgress},
		{"unavailable", NewServiceUnavailableError(), http.StatusServiceUnavailable, ErrCodeUnavailable},
		{"internal", NewInternalError(""), http.StatusInternalServerError, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Status != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, tt.err.Status)
			}
			if tt.err.Code != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, tt.err.Code)
			}
			if tt.err.Message == "" {
				t.Error("expected non-empty message")
			}
		})
	}
}

func TestNewInvalidIDError_Message(t *testing.T) {
	t.Parallel()

	if msg := NewInvalidIDError("idea").Message; msg != "Invalid idea ID" {
		t.Errorf("unexpected message: %q", msg)
	}
}
