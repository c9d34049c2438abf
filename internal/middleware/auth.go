package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/forgo/ideaboard/api/internal/model"
	"github.com/forgo/ideaboard/api/pkg/jwt"
)

// TokenValidator defines the interface for token validation
type TokenValidator interface {
	Validate(token string) (*jwt.Claims, error)
}

const (
	// DisplayNameKey is the context key for the caller's display name
	DisplayNameKey contextKey = "displayName"
)

// Auth returns a middleware that rejects requests without a valid bearer
// token and stores the caller's identity in the request context.
func Auth(validator TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				model.NewUnauthorizedError("").WriteJSON(w)
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					model.NewTokenExpiredError().WriteJSON(w)
					return
				}
				model.NewUnauthorizedError("Invalid token").WriteJSON(w)
				return
			}
			if !model.IsUserID(claims.UserID) {
				model.NewUnauthorizedError("Invalid token").WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func withClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	return context.WithValue(ctx, DisplayNameKey, claims.Name)
}

// GetUserID extracts the user ID from context
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

// GetDisplayName extracts the caller's display name from context
func GetDisplayName(ctx context.Context) string {
	if name, ok := ctx.Value(DisplayNameKey).(string); ok {
		return name
	}
	return ""
}
