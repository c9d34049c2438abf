package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/forgo/ideaboard/api/internal/model"
)

// SeedUserWriter stores demo users.
type SeedUserWriter interface {
	UpsertMany(ctx context.Context, users []model.NewUser) error
}

// Seeder populates a development database with demo users and ideas.
// Ideas and likes go through IdeaService so they obey the same rules as
// API traffic.
type Seeder struct {
	users SeedUserWriter
	ideas *IdeaService
}

// SeederConfig holds the seeder's collaborators
type SeederConfig struct {
	Users SeedUserWriter
	Ideas *IdeaService
}

// NewSeeder creates a new seeder
func NewSeeder(cfg SeederConfig) *Seeder {
	return &Seeder{users: cfg.Users, ideas: cfg.Ideas}
}

// SeedRequest controls how much demo data is created
type SeedRequest struct {
	Ideas    int
	Password string
}

// SeedResult summarizes a seeding run
type SeedResult struct {
	Users    []string      `json:"users"`
	Ideas    []string      `json:"ideas"`
	Likes    int           `json:"likes"`
	Duration time.Duration `json:"duration"`
}

var seedUserNames = []string{"Alice", "Bob", "Carol", "Dave", "Erin"}

var seedIdeas = []model.CreateIdeaRequest{
	{Title: "Quiet hours", Description: "Reserve two hours every afternoon with no meetings."},
	{Title: "Shared lunch table", Description: "Set up a long table so teams can eat together on Fridays."},
	{Title: "Bike storage", Description: "Add a covered rack next to the entrance for commuters."},
	{Title: "Book swap shelf", Description: "Leave a book, take a book. Start with the break room."},
	{Title: "Demo days", Description: "Monthly session where every team shows something they shipped."},
	{Title: "Plant adoption", Description: "Each desk cluster adopts a plant and keeps it alive."},
}

// Seed creates the demo users, then req.Ideas ideas spread across them,
// then a deterministic pattern of likes.
func (s *Seeder) Seed(ctx context.Context, req SeedRequest) (*SeedResult, error) {
	start := time.Now()

	if req.Ideas <= 0 || req.Ideas > 1000 {
		return nil, fmt.Errorf("ideas must be between 1 and 1000")
	}
	if req.Password == "" {
		req.Password = "password123"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	users := make([]model.NewUser, 0, len(seedUserNames))
	for _, name := range seedUserNames {
		key := strings.ToLower(name)
		users = append(users, model.NewUser{
			ID:           "user:" + key,
			Name:         name,
			Email:        key + "@ideaboard.local",
			PasswordHash: string(hash),
		})
	}
	if err := s.users.UpsertMany(ctx, users); err != nil {
		return nil, err
	}

	result := &SeedResult{}
	for _, u := range users {
		result.Users = append(result.Users, u.ID)
	}

	for i := 0; i < req.Ideas; i++ {
		tmpl := seedIdeas[i%len(seedIdeas)]
		author := users[i%len(users)]
		idea, err := s.ideas.Create(ctx, author.ID, &model.CreateIdeaRequest{
			Title:       tmpl.Title,
			Description: tmpl.Description,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to seed idea %d: %w", i, err)
		}
		result.Ideas = append(result.Ideas, idea.ID)

		for j, liker := range users {
			if liker.ID == author.ID || (i+j)%3 != 0 {
				continue
			}
			if _, err := s.ideas.ToggleLike(ctx, liker.ID, idea.ID); err != nil {
				return nil, fmt.Errorf("failed to seed like: %w", err)
			}
			result.Likes++
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}
