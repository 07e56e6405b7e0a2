package database

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schema string

// Migrate creates any missing tables. The schema sticks to SQL that MySQL,
// Postgres and SQLite all accept, and is applied one statement at a time
// because the MySQL driver rejects multi-statement execs by default.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range statements(schema) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("database: schema statement %d: %w", i+1, err)
		}
	}
	return nil
}

func statements(src string) []string {
	var out []string
	for _, part := range strings.Split(src, ";") {
		var lines []string
		for _, line := range strings.Split(part, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "--") {
				continue
			}
			lines = append(lines, line)
		}
		if stmt := strings.TrimSpace(strings.Join(lines, "\n")); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
