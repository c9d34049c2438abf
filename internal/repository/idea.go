package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/ideaboard/api/internal/database"
	"github.com/forgo/ideaboard/api/internal/model"
)

// IdeaRepository handles idea data access
type IdeaRepository struct {
	db database.Database
}

// NewIdeaRepository creates a new idea repository
func NewIdeaRepository(db database.Database) *IdeaRepository {
	return &IdeaRepository{db: db}
}

var ideaOrderBy = map[model.IdeaSort]string{
	model.SortNewest:    "created_at DESC",
	model.SortMostLiked: "like_count DESC, created_at DESC",
}

// Create inserts a new idea with an empty like set.
func (r *IdeaRepository) Create(ctx context.Context, idea *model.NewIdea) (*model.Idea, error) {
	query := `
		CREATE type::thing("idea", $id) CONTENT {
			title: $title,
			description: $description,
			author_id: type::record($author_id),
			liked_by: [],
			like_count: 0,
			created_at: time::now(),
			updated_at: time::now()
		}
	`
	vars := map[string]interface{}{
		"id":          idea.ID,
		"title":       idea.Title,
		"description": idea.Description,
		"author_id":   idea.AuthorID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to create idea: %w", err)
	}

	return r.parseIdea(result)
}

// GetByID retrieves an idea by its key. Returns nil if it does not exist.
func (r *IdeaRepository) GetByID(ctx context.Context, id string) (*model.Idea, error) {
	query := `SELECT * FROM type::thing("idea", $id)`
	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get idea: %w", err)
	}

	return r.parseIdea(result)
}

// List returns one page of ideas in the requested order.
func (r *IdeaRepository) List(ctx context.Context, params model.ListIdeasParams) ([]*model.Idea, error) {
	if params.Page < 1 || params.PageSize < 1 {
		params = params.Normalize(model.DefaultPageSize, model.MaxPageSize)
	}
	order, ok := ideaOrderBy[params.Sort]
	if !ok {
		order = ideaOrderBy[model.SortNewest]
	}

	query := `SELECT * FROM idea ORDER BY ` + order + ` LIMIT $limit START $offset`
	vars := map[string]interface{}{
		"limit":  params.PageSize,
		"offset": params.Offset(),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}

	return r.parseIdeas(statementRows(result, 0))
}

// ListByAuthor returns every idea created by authorID, newest first.
func (r *IdeaRepository) ListByAuthor(ctx context.Context, authorID string) ([]*model.Idea, error) {
	query := `
		SELECT * FROM idea
		WHERE author_id = type::record($author_id)
		ORDER BY created_at DESC
	`

	result, err := r.db.Query(ctx, query, map[string]interface{}{"author_id": authorID})
	if err != nil {
		return nil, fmt.Errorf("failed to list author ideas: %w", err)
	}

	return r.parseIdeas(statementRows(result, 0))
}

// ToggleLike flips userID's membership in the idea's like set and
// recomputes like_count in the same statement. Returns nil if the idea
// does not exist.
func (r *IdeaRepository) ToggleLike(ctx context.Context, ideaID, userID string) (*model.Idea, error) {
	query := `
		UPDATE type::thing("idea", $id) SET
			liked_by = IF liked_by CONTAINS type::record($user_id)
				THEN array::complement(liked_by, [type::record($user_id)])
				ELSE array::union(liked_by, [type::record($user_id)])
			END,
			like_count = array::len(liked_by),
			updated_at = time::now()
		WHERE author_id != NONE
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"id":      ideaID,
		"user_id": userID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to toggle like: %w", err)
	}

	return r.parseIdea(result)
}

// DeleteByAuthor removes the idea only if authorID still owns it.
// Reports whether a record was deleted.
func (r *IdeaRepository) DeleteByAuthor(ctx context.Context, ideaID, authorID string) (bool, error) {
	query := `
		DELETE type::thing("idea", $id)
		WHERE author_id = type::record($author_id)
		RETURN BEFORE
	`
	vars := map[string]interface{}{
		"id":        ideaID,
		"author_id": authorID,
	}

	if _, err := r.db.QueryOne(ctx, query, vars); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete idea: %w", err)
	}

	return true, nil
}

// ReconcileLikeCounts rewrites like_count on every idea where it has
// drifted from the size of liked_by, and returns how many were fixed.
func (r *IdeaRepository) ReconcileLikeCounts(ctx context.Context) (int, error) {
	query := `
		UPDATE idea SET like_count = array::len(liked_by)
		WHERE like_count != array::len(liked_by)
		RETURN VALUE id
	`

	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile like counts: %w", err)
	}

	return len(statementRows(result, 0)), nil
}

func (r *IdeaRepository) parseIdeas(rows []interface{}) ([]*model.Idea, error) {
	ideas := make([]*model.Idea, 0, len(rows))
	for _, row := range rows {
		idea, err := r.parseIdea(row)
		if err != nil {
			return nil, err
		}
		ideas = append(ideas, idea)
	}
	return ideas, nil
}

func (r *IdeaRepository) parseIdea(result interface{}) (*model.Idea, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: unexpected idea format %T", database.ErrQuery, result)
	}

	idea := &model.Idea{
		ID:          recordKey(data["id"], "idea"),
		Title:       getString(data, "title"),
		Description: getString(data, "description"),
		AuthorID:    convertSurrealID(data["author_id"]),
		LikedBy:     getRecordIDs(data, "liked_by"),
		CreatedAt:   getTime(data, "created_at"),
		UpdatedAt:   getTime(data, "updated_at"),
	}
	// Derived from the set so responses never disagree with liked_by.
	idea.LikeCount = len(idea.LikedBy)

	return idea, nil
}
