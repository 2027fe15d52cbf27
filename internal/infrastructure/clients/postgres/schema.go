package postgres

import (
	"context"
	"fmt"
)

// Bootstrap statements are idempotent; reference data (procedures, equipment)
// is managed by the administrative dashboards, which live outside this service.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS procedures (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		manual_url TEXT NOT NULL DEFAULT '',
		manual_type TEXT NOT NULL DEFAULT '',
		required_for_roles TEXT[] NOT NULL DEFAULT '{}',
		frequency TEXT NOT NULL DEFAULT 'once',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS equipment (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		specifications JSONB NOT NULL DEFAULT '{}',
		manual_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS generated_quizzes (
		id TEXT PRIMARY KEY,
		equipment_id TEXT,
		procedure_id TEXT,
		questions JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_generated_quizzes_equipment ON generated_quizzes (equipment_id)`,
	`CREATE INDEX IF NOT EXISTS idx_generated_quizzes_procedure ON generated_quizzes (procedure_id)`,
	`CREATE TABLE IF NOT EXISTS assessment_attempts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_assessment_attempts_user ON assessment_attempts (user_id)`,
}

// EnsureSchema creates the tables this service owns if they do not exist yet
func (c *Client) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
