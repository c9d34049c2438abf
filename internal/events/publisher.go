package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/forgo/ideaboard/api/internal/model"
)

// Config holds NATS connection settings
type Config struct {
	URL           string
	SubjectPrefix string
	MaxReconnects int
	ReconnectWait time.Duration
}

// conn is the part of *nats.Conn the publisher needs.
type conn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// Publisher sends idea events as JSON messages.
type Publisher struct {
	conn   conn
	prefix string
	now    func() time.Time
}

// Connect dials NATS and returns a publisher. Disconnects are logged and
// retried in the background by the client.
func Connect(cfg Config) (*Publisher, error) {
	if cfg.MaxReconnects == 0 {
		cfg.MaxReconnects = -1
	}
	if cfg.ReconnectWait <= 0 {
		cfg.ReconnectWait = 2 * time.Second
	}

	opts := []nats.Option{
		nats.Name("ideaboard-api"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("nats disconnected", slog.String("error", err.Error()))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	return newPublisher(nc, cfg.SubjectPrefix), nil
}

func newPublisher(c conn, prefix string) *Publisher {
	if prefix == "" {
		prefix = "idea"
	}
	return &Publisher{conn: c, prefix: prefix, now: time.Now}
}

// Subject returns the full subject for a suffix such as SuffixCreated.
func (p *Publisher) Subject(suffix string) string {
	return p.prefix + "." + suffix
}

// PublishIdeaCreated announces a new idea.
func (p *Publisher) PublishIdeaCreated(_ context.Context, idea *model.Idea) error {
	return p.publish(SuffixCreated, IdeaCreatedEvent{
		IdeaID:    idea.ID,
		AuthorID:  idea.AuthorID,
		Title:     idea.Title,
		CreatedAt: idea.CreatedAt,
	})
}

// PublishIdeaDeleted announces a deleted idea.
func (p *Publisher) PublishIdeaDeleted(_ context.Context, ideaID, authorID string) error {
	return p.publish(SuffixDeleted, IdeaDeletedEvent{
		IdeaID:    ideaID,
		AuthorID:  authorID,
		DeletedAt: p.now().UTC(),
	})
}

func (p *Publisher) publish(suffix string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	subject := p.Subject(suffix)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	slog.Debug("published event", slog.String("subject", subject))
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *Publisher) Close() error {
	return p.conn.Drain()
}
