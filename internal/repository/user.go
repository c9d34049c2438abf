package repository

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/forgo/ideaboard/api/internal/database"
	"github.com/forgo/ideaboard/api/internal/model"
)

// UserRepository backs display-name lookups for authors and likers.
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// LookupNames returns the display name for each id that exists. Ids that
// are not well-formed record ids are skipped.
func (r *UserRepository) LookupNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	records := make([]models.RecordID, 0, len(ids))
	for _, id := range ids {
		rid, err := parseRecordID(id)
		if err != nil {
			continue
		}
		records = append(records, rid)
	}
	if len(records) == 0 {
		return names, nil
	}

	result, err := r.db.Query(ctx, `SELECT id, name FROM user WHERE id IN $ids`, map[string]interface{}{
		"ids": records,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user names: %w", err)
	}

	for _, row := range statementRows(result, 0) {
		data, ok := row.(map[string]interface{})
		if !ok {
			continue
		}
		names[convertSurrealID(data["id"])] = getString(data, "name")
	}
	return names, nil
}

// UpsertMany creates or replaces users in a single transaction.
func (r *UserRepository) UpsertMany(ctx context.Context, users []model.NewUser) error {
	batch := database.NewBatch()
	for _, u := range users {
		batch.Add(`
			UPSERT type::record($id) CONTENT {
				name: $name,
				email: $email,
				password_hash: $password_hash,
				created_at: time::now()
			}
		`, map[string]interface{}{
			"id":            u.ID,
			"name":          u.Name,
			"email":         u.Email,
			"password_hash": u.PasswordHash,
		})
	}

	if err := batch.Execute(ctx, r.db); err != nil {
		return fmt.Errorf("failed to upsert users: %w", err)
	}
	return nil
}
