// Package migrations creates the users and outbox schema. SQLite files are
// applied by an embedded runner; PostgreSQL goes through golang-migrate.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/felixgeelhaar/digibank/internal/shared/infrastructure/database"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// Up brings the schema behind conn to the latest version. url is only read
// for PostgreSQL, where golang-migrate opens its own connection.
func Up(ctx context.Context, conn database.Connection, url string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	switch conn.Driver() {
	case database.DriverSQLite:
		return upSQLite(ctx, conn, logger)
	case database.DriverPostgres:
		return upPostgres(url, logger)
	default:
		return fmt.Errorf("no migrations for driver %s", conn.Driver())
	}
}

func upSQLite(ctx context.Context, conn database.Connection, logger *slog.Logger) error {
	if _, err := conn.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name       TEXT PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	names, err := upFiles("sqlite")
	if err != nil {
		return err
	}

	for _, name := range names {
		var count int
		if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE name = ?`, name).Scan(&count); err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		script, err := files.ReadFile("sqlite/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if err := applySQLite(ctx, conn, name, string(script)); err != nil {
			return err
		}
		logger.Debug("migration applied", "name", name)
	}
	return nil
}

func applySQLite(ctx context.Context, conn database.Connection, name, script string) error {
	tx, err := conn.BeginTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, script); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("apply migration %s: %w", name, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)`,
		name, database.DriverSQLite.Time(time.Now())); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("record migration %s: %w", name, err)
	}
	return tx.Commit(ctx)
}

func upFiles(dir string) ([]string, error) {
	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return nil, fmt.Errorf("read %s migrations: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func upPostgres(url string, logger *slog.Logger) error {
	if url == "" {
		return errors.New("database URL is required for PostgreSQL migrations")
	}

	db, err := sql.Open("postgres", url)
	if err != nil {
		return fmt.Errorf("open postgres for migrations: %w", err)
	}
	defer db.Close()

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("init migrate driver: %w", err)
	}
	source, err := iofs.New(files, "postgres")
	if err != nil {
		return fmt.Errorf("load postgres migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}

	if version, dirty, err := m.Version(); err == nil {
		logger.Debug("postgres schema ready", "version", version, "dirty", dirty)
	}
	return nil
}
