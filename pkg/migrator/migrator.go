// Package migrator applies embedded goose migrations at startup, so a fresh
// database is ready before the server begins serving.
package migrator

import (
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies every pending migration found in fsys (an embedded
// directory of goose SQL files) against the database at dbURL.
func RunMigrations(dbURL string, fsys fs.FS) error {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("migrator: open db: %w", err)
	}
	defer db.Close() //nolint:errcheck

	goose.SetBaseFS(fsys)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrator: set dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("migrator: up: %w", err)
	}
	return nil
}
