package internal

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/chapters/migrations"
	"github.com/pressly/goose/v3"
)

// RunMigrations executes all pending schema migrations for the sqlite store
func RunMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations.MigrationsFS)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
