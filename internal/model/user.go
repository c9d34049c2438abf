package model

import "strings"

// NewUser is a local user record created by the seeder.
type NewUser struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
}

// UserTable is the record table every caller identity must belong to.
const UserTable = "user"

// IsUserID reports whether id is a record id in the user table
// ("user:<key>" with a non-empty key).
func IsUserID(id string) bool {
	table, key, ok := strings.Cut(id, ":")
	return ok && table == UserTable && key != ""
}
