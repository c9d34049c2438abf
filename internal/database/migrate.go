package database

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
)

// Migrate applies every *.surql file in fsys in lexical order. Migration
// files must be idempotent since they run on every start.
func Migrate(ctx context.Context, db Database, fsys fs.FS) error {
	names, err := fs.Glob(fsys, "*.surql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if strings.TrimSpace(string(content)) == "" {
			continue
		}
		if err := db.Execute(ctx, string(content), nil); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		slog.Debug("applied migration", slog.String("file", name))
	}
	return nil
}
