// Package events publishes idea lifecycle events to NATS. Likes are not
// published; only creation and deletion leave the service.
package events

import (
	"time"
)

// Subject suffixes appended to the configured prefix.
const (
	SuffixCreated = "created"
	SuffixDeleted = "deleted"
)

// IdeaCreatedEvent is published after an idea is stored.
type IdeaCreatedEvent struct {
	IdeaID    string    `json:"idea_id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// IdeaDeletedEvent is published after an author deletes an idea.
type IdeaDeletedEvent struct {
	IdeaID    string    `json:"idea_id"`
	AuthorID  string    `json:"author_id"`
	DeletedAt time.Time `json:"deleted_at"`
}
