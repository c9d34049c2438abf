package database

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Batch collects statements that must commit together. Variables are
// renamed per statement so two statements may both use $id:
//
//	b := NewBatch()
//	b.Add("CREATE $id CONTENT $data", vars1)
//	b.Add("CREATE $id CONTENT $data", vars2)
//	err := b.Execute(ctx, db)
//
// Statements accumulate in memory and run in a single
// BEGIN/COMMIT block when Execute is called.
type Batch struct {
	statements []string
	vars       map[string]interface{}
}

// NewBatch creates an empty batch.
func NewBatch() *Batch {
	return &Batch{
		vars: make(map[string]interface{}),
	}
}

// Add appends a statement and its variables to the batch.
func (b *Batch) Add(query string, vars map[string]interface{}) *Batch {
	n := len(b.statements) + 1
	for name, value := range vars {
		renamed := fmt.Sprintf("b%d_%s", n, name)
		query = varPattern(name).ReplaceAllString(query, "$$"+renamed)
		b.vars[renamed] = value
	}
	b.statements = append(b.statements, strings.TrimSuffix(strings.TrimSpace(query), ";"))
	return b
}

// Len returns the number of statements in the batch.
func (b *Batch) Len() int {
	return len(b.statements)
}

// Build returns the transaction text and merged variables.
func (b *Batch) Build() (string, map[string]interface{}) {
	if len(b.statements) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("BEGIN TRANSACTION;\n")
	for _, stmt := range b.statements {
		sb.WriteString(stmt)
		sb.WriteString(";\n")
	}
	sb.WriteString("COMMIT TRANSACTION;")
	return sb.String(), b.vars
}

// Execute runs every statement as one transaction.
func (b *Batch) Execute(ctx context.Context, db Database) error {
	query, vars := b.Build()
	if query == "" {
		return nil
	}
	return db.Execute(ctx, query, vars)
}

// varPattern matches $name but not $name_suffix or $namesuffix.
func varPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`\$` + regexp.QuoteMeta(name) + `\b`)
}
