// Package database wraps the SurrealDB client behind a small query
// interface used by the repositories.
//
// Results from Query keep SurrealDB's per-statement envelope:
//
//	[]interface{}{map[string]interface{}{"status": "OK", "result": [...]}}
//
// QueryOne unwraps the first statement and returns its first record, or
// ErrNotFound when the statement produced no rows.
//
// Failures are reported through the sentinel errors below; callers
// should test them with errors.Is.
package database

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a unique index violation.
	ErrDuplicate = errors.New("duplicate record")

	// ErrConnection indicates the database could not be reached or did not
	// answer before the caller's deadline.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a statement failed to execute.
	ErrQuery = errors.New("query error")

	// ErrConflict indicates a write lost a transaction conflict with a
	// concurrent writer and may be retried.
	ErrConflict = errors.New("transaction conflict")
)

// Database defines the operations repositories need from the store.
type Database interface {
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes one or more statements and returns one envelope per
	// statement.
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne executes a query and returns the first record of the first
	// statement.
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs statements and discards their results.
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Config holds database connection settings.
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}
