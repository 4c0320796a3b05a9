package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements are executed one at a time because pgx's extended
// protocol rejects multi-statement strings. Each statement is idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS expenses (
		id BIGSERIAL PRIMARY KEY,
		amount NUMERIC(12, 2) NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL,
		date TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_category ON expenses (category)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses (date)`,
}

// EnsureSchema creates the expenses table and its indexes if they do not
// exist yet, so a fresh database is usable without an external migration
// step.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
