package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/forgo/ideaboard/api/internal/middleware"
	"github.com/forgo/ideaboard/api/internal/model"
)

// IdeaService defines the idea operations the handler needs
type IdeaService interface {
	List(ctx context.Context, params model.ListIdeasParams) ([]*model.Idea, error)
	Get(ctx context.Context, id string) (*model.Idea, error)
	Create(ctx context.Context, userID string, req *model.CreateIdeaRequest) (*model.Idea, error)
	ToggleLike(ctx context.Context, userID, id string) (*model.Idea, error)
	Delete(ctx context.Context, userID, id string) error
	ListMine(ctx context.Context, userID string) ([]*model.Idea, error)
}

// IdeaHandler handles idea endpoints
type IdeaHandler struct {
	ideaService IdeaService
}

// NewIdeaHandler creates a new idea handler
func NewIdeaHandler(ideaService IdeaService) *IdeaHandler {
	return &IdeaHandler{ideaService: ideaService}
}

// RegisterRoutes registers the idea routes. auth wraps the routes that
// require a signed-in caller; idem is applied to the POST routes after
// auth so idempotency keys are scoped per user.
//
// On POST /ideas/{id}/like an Idempotency-Key names one toggle: resending
// the same key replays that toggle's result for the store TTL instead of
// flipping again. Each deliberate toggle needs a fresh key or none.
func (h *IdeaHandler) RegisterRoutes(mux *http.ServeMux, auth, idem middleware.Middleware) {
	protected := func(fn http.HandlerFunc) http.Handler {
		return auth(fn)
	}
	protectedPost := func(fn http.HandlerFunc) http.Handler {
		return auth(idem(fn))
	}

	mux.HandleFunc("GET /ideas", h.List)
	mux.Handle("POST /ideas", protectedPost(h.Create))
	mux.Handle("GET /ideas/user/me", protected(h.ListMine))
	mux.HandleFunc("GET /ideas/{id}", h.Get)
	mux.Handle("POST /ideas/{id}/like", protectedPost(h.ToggleLike))
	mux.Handle("DELETE /ideas/{id}", protected(h.Delete))
}

// List handles GET /ideas - one page of ideas
func (h *IdeaHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// Out-of-range and unparseable values are clamped by the service.
	params := model.ListIdeasParams{
		Page:     queryInt(q.Get("page")),
		PageSize: queryInt(q.Get("limit")),
		Sort:     model.ParseIdeaSort(q.Get("sort")),
	}

	ideas, err := h.ideaService.List(r.Context(), params)
	if err != nil {
		WriteError(w, MapServiceError(err, "Error fetching ideas"))
		return
	}
	if ideas == nil {
		ideas = []*model.Idea{}
	}

	WriteJSON(w, http.StatusOK, ideas)
}

// Create handles POST /ideas - submit a new idea
func (h *IdeaHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError(""))
		return
	}

	var req model.CreateIdeaRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("Invalid request body"))
		return
	}

	idea, err := h.ideaService.Create(r.Context(), userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err, "Error creating idea"))
		return
	}
	// A caller the directory has not seen yet still gets their token name.
	if idea.Author != nil && idea.Author.Name == "" {
		idea.Author.Name = middleware.GetDisplayName(r.Context())
	}

	WriteJSON(w, http.StatusCreated, idea)
}

// Get handles GET /ideas/{id} - a single idea with its likers
func (h *IdeaHandler) Get(w http.ResponseWriter, r *http.Request) {
	idea, err := h.ideaService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteError(w, MapServiceError(err, "Error fetching idea"))
		return
	}

	WriteJSON(w, http.StatusOK, idea)
}

// ToggleLike handles POST /ideas/{id}/like - like or unlike
func (h *IdeaHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError(""))
		return
	}

	idea, err := h.ideaService.ToggleLike(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		WriteError(w, MapServiceError(err, "Error updating like"))
		return
	}

	WriteJSON(w, http.StatusOK, idea)
}

// Delete handles DELETE /ideas/{id} - author-only removal
func (h *IdeaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError(""))
		return
	}

	if err := h.ideaService.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		WriteError(w, MapServiceError(err, "Error deleting idea"))
		return
	}

	WriteMessage(w, http.StatusOK, "Idea deleted successfully")
}

// ListMine handles GET /ideas/user/me - the caller's ideas, newest first
func (h *IdeaHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError(""))
		return
	}

	ideas, err := h.ideaService.ListMine(r.Context(), userID)
	if err != nil {
		WriteError(w, MapServiceError(err, "Error fetching user ideas"))
		return
	}
	if ideas == nil {
		ideas = []*model.Idea{}
	}

	WriteJSON(w, http.StatusOK, ideas)
}

// queryInt parses a query value, returning 0 when absent or malformed.
func queryInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
