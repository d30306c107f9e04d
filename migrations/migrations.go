// Package migrations embeds the placement dataset schema and applies it with
// goose.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

// FS contains the embedded SQL migration files.
//
//go:embed *.sql
var FS embed.FS

// ErrUnknownCommand is returned by Apply for a command it does not know.
var ErrUnknownCommand = errors.New("unknown migration command")

// Commands lists the commands Apply accepts, with a short description each.
var Commands = [][2]string{
	{"up", "Migrate to the latest version"},
	{"up-one", "Migrate one version up"},
	{"down", "Roll back one version"},
	{"status", "Show migration status"},
	{"version", "Show current version"},
	{"reset", "Roll back all migrations"},
}

// Run applies all pending migrations to the given database.
func Run(db *sql.DB) error {
	return Apply(db, "up")
}

// Apply runs one goose command against db.
func Apply(db *sql.DB, command string) error {
	goose.SetBaseFS(FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	var err error
	switch command {
	case "up":
		err = goose.Up(db, ".")
	case "up-one":
		err = goose.UpByOne(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "status":
		err = goose.Status(db, ".")
	case "version":
		err = goose.Version(db, ".")
	case "reset":
		err = goose.Reset(db, ".")
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	return nil
}
