package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path"
	"strconv"

	"github.com/pressly/goose/v3"
)

// DefaultDir is where `migrate create` writes new files, relative to the repo root.
const DefaultDir = "pkg/migrate/migrations"

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var embedded embed.FS

// Dialect maps a gorm dialect name to the goose dialect and the embedded directory.
type Dialect struct {
	Goose string
	Dir   string
}

// DialectFor resolves "postgres" or "sqlite" into a migration Dialect.
func DialectFor(name string) (Dialect, error) {
	switch name {
	case "postgres":
		return Dialect{Goose: "postgres", Dir: "postgres"}, nil
	case "sqlite", "sqlite3":
		return Dialect{Goose: "sqlite3", Dir: "sqlite"}, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported migration dialect %q", name)
	}
}

func (d Dialect) embeddedDir() string {
	return path.Join("migrations", d.Dir)
}

func (d Dialect) prepare() error {
	goose.SetBaseFS(embedded)
	if err := goose.SetDialect(d.Goose); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}

// Run executes a goose command (up, down, status, version, redo, reset) against the embedded migrations.
func Run(ctx context.Context, db *sql.DB, dialect string, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	d, err := DialectFor(dialect)
	if err != nil {
		return err
	}
	if err := d.prepare(); err != nil {
		return err
	}

	// RunContext prints status output to stdout (goose internal)
	if err := goose.RunContext(ctx, command, db, d.embeddedDir(), args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// Up applies every pending migration for the dialect.
func Up(ctx context.Context, db *sql.DB, dialect string) error {
	return Run(ctx, db, dialect, "up")
}

// MigrateToVersion migrates up/down to the requested version by comparing current DB version.
func MigrateToVersion(ctx context.Context, db *sql.DB, dialect string, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}
	d, err := DialectFor(dialect)
	if err != nil {
		return err
	}
	if err := d.prepare(); err != nil {
		return err
	}

	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current == target:
		return nil
	case current < target:
		if err := goose.UpToContext(ctx, db, d.embeddedDir(), target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
		return nil
	default:
		if err := goose.DownToContext(ctx, db, d.embeddedDir(), target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
		return nil
	}
}
