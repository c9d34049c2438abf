package handler

import (
	"errors"
	"log/slog"

	"github.com/forgo/ideaboard/api/internal/model"
	"github.com/forgo/ideaboard/api/internal/service"
)

// MapServiceError converts a service error to an API error. Errors with
// no specific mapping become a 500 carrying fallback, and are logged since
// their detail never reaches the client.
func MapServiceError(err error, fallback string) *model.APIError {
	if err == nil {
		return nil
	}

	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	// ===== 400 =====
	case errors.Is(err, service.ErrInvalidIdeaID):
		return model.NewInvalidIDError("idea")

	// ===== 401 =====
	case errors.Is(err, service.ErrUnauthenticated):
		return model.NewUnauthorizedError("")

	// ===== 403 =====
	case errors.Is(err, service.ErrNotIdeaAuthor):
		return model.NewForbiddenError("Not authorized to delete this idea")

	// ===== 404 =====
	case errors.Is(err, service.ErrIdeaNotFound):
		return model.NewNotFoundError("Idea")

	// ===== 503 =====
	case errors.Is(err, service.ErrServiceUnavailable):
		slog.Warn("service unavailable", slog.String("error", err.Error()))
		return model.NewServiceUnavailableError()
	}

	slog.Error("unhandled service error",
		slog.String("message", fallback),
		slog.String("error", err.Error()),
	)
	return model.NewInternalError(fallback)
}
