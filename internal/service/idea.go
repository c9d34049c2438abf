package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/forgo/ideaboard/api/internal/database"
	"github.com/forgo/ideaboard/api/internal/model"
)

// IdeaRepository defines the interface for idea storage
type IdeaRepository interface {
	Create(ctx context.Context, idea *model.NewIdea) (*model.Idea, error)
	GetByID(ctx context.Context, id string) (*model.Idea, error)
	List(ctx context.Context, params model.ListIdeasParams) ([]*model.Idea, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*model.Idea, error)
	// ToggleLike must flip membership and recompute the count atomically.
	ToggleLike(ctx context.Context, ideaID, userID string) (*model.Idea, error)
	DeleteByAuthor(ctx context.Context, ideaID, authorID string) (bool, error)
}

// UserDirectory resolves user ids to display names. Unknown ids are
// absent from the result.
type UserDirectory interface {
	LookupNames(ctx context.Context, ids []string) (map[string]string, error)
}

// EventPublisher announces idea lifecycle changes to other services.
type EventPublisher interface {
	PublishIdeaCreated(ctx context.Context, idea *model.Idea) error
	PublishIdeaDeleted(ctx context.Context, ideaID, authorID string) error
}

// IdeaService handles idea business logic
type IdeaService struct {
	repo             IdeaRepository
	users            UserDirectory
	events           EventPublisher
	defaultPageSize  int
	maxPageSize      int
	operationTimeout time.Duration
	toggleRetries    int
}

// IdeaServiceConfig holds configuration for the idea service. Zero limits
// fall back to the model defaults.
type IdeaServiceConfig struct {
	IdeaRepo         IdeaRepository
	Users            UserDirectory
	Events           EventPublisher
	DefaultPageSize  int
	MaxPageSize      int
	OperationTimeout time.Duration
	ToggleRetries    int
}

// NewIdeaService creates a new idea service
func NewIdeaService(cfg IdeaServiceConfig) *IdeaService {
	s := &IdeaService{
		repo:             cfg.IdeaRepo,
		users:            cfg.Users,
		events:           cfg.Events,
		defaultPageSize:  cfg.DefaultPageSize,
		maxPageSize:      cfg.MaxPageSize,
		operationTimeout: cfg.OperationTimeout,
		toggleRetries:    cfg.ToggleRetries,
	}
	if s.defaultPageSize <= 0 {
		s.defaultPageSize = model.DefaultPageSize
	}
	if s.maxPageSize < s.defaultPageSize {
		s.maxPageSize = model.MaxPageSize
	}
	if s.operationTimeout <= 0 {
		s.operationTimeout = 5 * time.Second
	}
	if s.toggleRetries < 0 {
		s.toggleRetries = 0
	}
	return s
}

// List returns one page of ideas with author names resolved. Out-of-range
// paging values are clamped, never rejected.
func (s *IdeaService) List(ctx context.Context, params model.ListIdeasParams) ([]*model.Idea, error) {
	params = params.Normalize(s.defaultPageSize, s.maxPageSize)

	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	ideas, err := s.repo.List(opCtx, params)
	if err != nil {
		return nil, s.storageError("list ideas", err)
	}

	if err := s.resolveNames(ctx, ideas, false); err != nil {
		return nil, err
	}
	return ideas, nil
}

// Get returns a single idea with author and likers resolved.
func (s *IdeaService) Get(ctx context.Context, rawID string) (*model.Idea, error) {
	id, err := parseIdeaID(rawID)
	if err != nil {
		return nil, err
	}

	idea, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.resolveNames(ctx, []*model.Idea{idea}, true); err != nil {
		return nil, err
	}
	return idea, nil
}

// Create stores a new idea authored by userID.
func (s *IdeaService) Create(ctx context.Context, userID string, req *model.CreateIdeaRequest) (*model.Idea, error) {
	if !isUserID(userID) {
		return nil, ErrUnauthenticated
	}

	req.Normalize()
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	idea, err := s.repo.Create(opCtx, &model.NewIdea{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		AuthorID:    userID,
	})
	if err != nil {
		return nil, s.storageError("create idea", err)
	}

	if err := s.resolveNames(ctx, []*model.Idea{idea}, false); err != nil {
		return nil, err
	}

	if s.events != nil {
		if err := s.events.PublishIdeaCreated(ctx, idea); err != nil {
			slog.Warn("failed to publish idea created event",
				slog.String("idea_id", idea.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return idea, nil
}

// ToggleLike adds userID to the idea's like set, or removes it if already
// present. Write conflicts with concurrent togglers are retried a bounded
// number of times.
func (s *IdeaService) ToggleLike(ctx context.Context, userID, rawID string) (*model.Idea, error) {
	if !isUserID(userID) {
		return nil, ErrUnauthenticated
	}
	id, err := parseIdeaID(rawID)
	if err != nil {
		return nil, err
	}

	var idea *model.Idea
	for attempt := 0; ; attempt++ {
		opCtx, cancel := s.withTimeout(ctx)
		idea, err = s.repo.ToggleLike(opCtx, id, userID)
		cancel()

		if err == nil || !errors.Is(err, database.ErrConflict) || attempt >= s.toggleRetries {
			break
		}
		slog.Debug("retrying like toggle after write conflict",
			slog.String("idea_id", id),
			slog.Int("attempt", attempt+1),
		)
	}
	if err != nil {
		if errors.Is(err, database.ErrConflict) {
			return nil, fmt.Errorf("toggle like: %w: %w", ErrServiceUnavailable, err)
		}
		return nil, s.storageError("toggle like", err)
	}
	if idea == nil {
		return nil, ErrIdeaNotFound
	}

	if err := s.resolveNames(ctx, []*model.Idea{idea}, false); err != nil {
		return nil, err
	}
	return idea, nil
}

// Delete permanently removes an idea. Only its author may delete it.
// Ownership is checked by the conditional delete, which compares record
// ids rather than their text form. When nothing was deleted the idea is
// read back to report NotFound or Forbidden.
func (s *IdeaService) Delete(ctx context.Context, userID, rawID string) error {
	if !isUserID(userID) {
		return ErrUnauthenticated
	}
	id, err := parseIdeaID(rawID)
	if err != nil {
		return err
	}

	opCtx, cancel := s.withTimeout(ctx)
	deleted, err := s.repo.DeleteByAuthor(opCtx, id, userID)
	cancel()
	if err != nil {
		return s.storageError("delete idea", err)
	}
	if !deleted {
		if _, err := s.load(ctx, id); err != nil {
			return err
		}
		return ErrNotIdeaAuthor
	}

	if s.events != nil {
		if err := s.events.PublishIdeaDeleted(ctx, id, userID); err != nil {
			slog.Warn("failed to publish idea deleted event",
				slog.String("idea_id", id),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

// ListMine returns every idea authored by userID, newest first.
func (s *IdeaService) ListMine(ctx context.Context, userID string) ([]*model.Idea, error) {
	if !isUserID(userID) {
		return nil, ErrUnauthenticated
	}

	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	ideas, err := s.repo.ListByAuthor(opCtx, userID)
	if err != nil {
		return nil, s.storageError("list user ideas", err)
	}

	if err := s.resolveNames(ctx, ideas, false); err != nil {
		return nil, err
	}
	return ideas, nil
}

func (s *IdeaService) load(ctx context.Context, id string) (*model.Idea, error) {
	opCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	idea, err := s.repo.GetByID(opCtx, id)
	if err != nil {
		return nil, s.storageError("get idea", err)
	}
	if idea == nil {
		return nil, ErrIdeaNotFound
	}
	return idea, nil
}

// resolveNames fills Author (and Likers when withLikers is set) from the
// user directory in one lookup.
func (s *IdeaService) resolveNames(ctx context.Context, ideas []*model.Idea, withLikers bool) error {
	if len(ideas) == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, idea := range ideas {
		add(idea.AuthorID)
		if withLikers {
			for _, liker := range idea.LikedBy {
				add(liker)
			}
		}
	}

	names := map[string]string{}
	if s.users != nil {
		opCtx, cancel := s.withTimeout(ctx)
		defer cancel()

		found, err := s.users.LookupNames(opCtx, ids)
		if err != nil {
			return s.storageError("lookup user names", err)
		}
		names = found
	}

	for _, idea := range ideas {
		idea.Author = &model.UserSummary{ID: idea.AuthorID, Name: names[idea.AuthorID]}
		if withLikers {
			idea.Likers = make([]model.UserSummary, 0, len(idea.LikedBy))
			for _, liker := range idea.LikedBy {
				idea.Likers = append(idea.Likers, model.UserSummary{ID: liker, Name: names[liker]})
			}
		}
	}
	return nil
}

func (s *IdeaService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// storageError marks timeouts and lost connections as unavailability so
// callers can tell them apart from other failures.
func (s *IdeaService) storageError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, database.ErrConnection) {
		return fmt.Errorf("%s: %w: %w", op, ErrServiceUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// parseIdeaID accepts a bare UUID or one prefixed with "idea:" and returns
// the canonical lower-case form.
func parseIdeaID(raw string) (string, error) {
	key := strings.TrimPrefix(strings.TrimSpace(raw), "idea:")
	id, err := uuid.Parse(key)
	if err != nil {
		return "", ErrInvalidIdeaID
	}
	return id.String(), nil
}

func isUserID(id string) bool {
	return model.IsUserID(id)
}
