package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Field constraints
const (
	MinTitleLength       = 3
	MaxTitleLength       = 100
	MinDescriptionLength = 10
	MaxDescriptionLength = 500
)

// Listing defaults
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Idea is a user-submitted post that other users can like.
type Idea struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	AuthorID    string       `json:"author_id"`
	Author      *UserSummary `json:"author,omitempty"`
	LikedBy     []string     `json:"liked_by"`
	LikeCount   int          `json:"like_count"`
	// Likers is only populated on single-idea reads.
	Likers    []UserSummary `json:"likers,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// UserSummary provides minimal user info for display
type UserSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IdeaSort selects the listing order.
type IdeaSort string

const (
	SortNewest    IdeaSort = "newest"
	SortMostLiked IdeaSort = "mostLiked"
)

// ParseIdeaSort maps a sort query value onto a known order. Unknown
// values fall back to newest.
func ParseIdeaSort(s string) IdeaSort {
	switch strings.TrimSpace(s) {
	case "mostLiked", "most_liked", "-likesCount", "likesCount", "-like_count", "like_count":
		return SortMostLiked
	default:
		return SortNewest
	}
}

// ListIdeasParams is a normalized page request.
type ListIdeasParams struct {
	Page     int
	PageSize int
	Sort     IdeaSort
}

// Offset returns the number of ideas to skip.
func (p ListIdeasParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Normalize clamps out-of-range values instead of rejecting them.
func (p ListIdeasParams) Normalize(defaultSize, maxSize int) ListIdeasParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = defaultSize
	}
	if p.PageSize > maxSize {
		p.PageSize = maxSize
	}
	if p.Sort != SortMostLiked {
		p.Sort = SortNewest
	}
	return p
}

// CreateIdeaRequest is the body of POST /ideas. Any author field in the
// body is ignored; the author is always the caller.
type CreateIdeaRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Normalize trims surrounding whitespace from both fields.
func (r *CreateIdeaRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
}

// Validate checks field lengths after trimming.
func (r *CreateIdeaRequest) Validate() []FieldError {
	var errors []FieldError

	title := utf8.RuneCountInString(strings.TrimSpace(r.Title))
	switch {
	case title == 0:
		errors = append(errors, FieldError{Field: "title", Message: "Title is required"})
	case title < MinTitleLength:
		errors = append(errors, FieldError{Field: "title", Message: "Title must be at least 3 characters long"})
	case title > MaxTitleLength:
		errors = append(errors, FieldError{Field: "title", Message: "Title cannot exceed 100 characters"})
	}

	desc := utf8.RuneCountInString(strings.TrimSpace(r.Description))
	switch {
	case desc == 0:
		errors = append(errors, FieldError{Field: "description", Message: "Description is required"})
	case desc < MinDescriptionLength:
		errors = append(errors, FieldError{Field: "description", Message: "Description must be at least 10 characters long"})
	case desc > MaxDescriptionLength:
		errors = append(errors, FieldError{Field: "description", Message: "Description cannot exceed 500 characters"})
	}

	return errors
}

// NewIdea is what the repository persists on create.
type NewIdea struct {
	ID          string
	Title       string
	Description string
	AuthorID    string
}
