// Package repository implements SurrealDB data access for ideas and users.
//
// Repositories take a database.Database and translate between SurrealQL
// rows (map[string]interface{}) and model types. Conventions:
//
//   - parameterized queries only ($variable syntax)
//   - idea records are idea:<uuid>, addressed with type::thing("idea", $id)
//   - user references are record links, addressed with type::record($id)
//   - time::now() for timestamps
//
// Lookups that find nothing return (nil, nil); callers decide whether that
// is an error. Like-set changes are single UPDATE statements so concurrent
// toggles on the same idea never overwrite each other.
//
//	repo := NewIdeaRepository(db)
//	idea, err := repo.ToggleLike(ctx, ideaID, "user:alice")
package repository
