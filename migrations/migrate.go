// Package migrations embeds the SQL schema for every supported backend and
// applies it with goose.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var embedMigrations embed.FS

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

// gooseDialects maps a store dialect to the goose dialect name and the
// directory holding its migration set.
var gooseDialects = map[string]struct {
	dialect string
	dir     string
}{
	"postgres": {dialect: "pgx", dir: "postgres"},
	"sqlite3":  {dialect: "sqlite3", dir: "sqlite"},
}

// Migrate applies all pending migrations for dialect ("postgres" or
// "sqlite3") to db.
func Migrate(db *sql.DB, dialect string) error {
	if db == nil {
		return errors.New("migration error: db is nil")
	}

	set, ok := gooseDialects[dialect]
	if !ok {
		return fmt.Errorf("migration error: unsupported dialect %q", dialect)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(set.dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, set.dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
