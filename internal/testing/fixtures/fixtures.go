// Package fixtures creates users and ideas directly in a test database.
//
//	f := fixtures.New(tdb.DB)
//	alice := f.CreateUser(t)
//	idea := f.CreateIdea(t, alice.ID)
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/forgo/ideaboard/api/internal/database"
	"github.com/forgo/ideaboard/api/internal/model"
	"github.com/forgo/ideaboard/api/internal/repository"
)

// Factory creates test entities in the database
type Factory struct {
	db    database.Database
	users *repository.UserRepository
	ideas *repository.IdeaRepository
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{
		db:    db,
		users: repository.NewUserRepository(db),
		ideas: repository.NewIdeaRepository(db),
	}
}

func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

// UserOpts customizes user creation
type UserOpts struct {
	Name     string
	Password string
}

// CreateUser inserts a user with a random id and email.
func (f *Factory) CreateUser(t *testing.T, opts ...UserOpts) model.NewUser {
	t.Helper()

	o := UserOpts{Name: "Test User", Password: "password123"}
	if len(opts) > 0 {
		if opts[0].Name != "" {
			o.Name = opts[0].Name
		}
		if opts[0].Password != "" {
			o.Password = opts[0].Password
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: hash password: %v", err)
	}

	key := randomID()
	user := model.NewUser{
		ID:           "user:" + key,
		Name:         o.Name,
		Email:        key + "@test.local",
		PasswordHash: string(hash),
	}
	if err := f.users.UpsertMany(ctx(t), []model.NewUser{user}); err != nil {
		t.Fatalf("fixtures: create user: %v", err)
	}
	return user
}

// IdeaOpts customizes idea creation
type IdeaOpts struct {
	Title       string
	Description string
}

// CreateIdea inserts an idea authored by authorID.
func (f *Factory) CreateIdea(t *testing.T, authorID string, opts ...IdeaOpts) *model.Idea {
	t.Helper()

	o := IdeaOpts{Title: "Test idea", Description: "A test idea description"}
	if len(opts) > 0 {
		if opts[0].Title != "" {
			o.Title = opts[0].Title
		}
		if opts[0].Description != "" {
			o.Description = opts[0].Description
		}
	}

	idea, err := f.ideas.Create(ctx(t), &model.NewIdea{
		ID:          uuid.NewString(),
		Title:       o.Title,
		Description: o.Description,
		AuthorID:    authorID,
	})
	if err != nil {
		t.Fatalf("fixtures: create idea: %v", err)
	}
	return idea
}
