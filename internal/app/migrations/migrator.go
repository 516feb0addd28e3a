// Package migrations applies the SQL files under migrations/ in filename
// order, tracking applied versions in a schema_migrations table.
package migrations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Migrator applies schema migrations against a connection pool.
type Migrator struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

func NewMigrator(db *pgxpool.Pool, lgr zerolog.Logger) *Migrator {
	return &Migrator{db: db, logger: lgr}
}

func (m *Migrator) ensureVersionTable(ctx context.Context) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := m.db.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

// appliedVersions loads every recorded version in one query.
func (m *Migrator) appliedVersions(ctx context.Context) (map[string]bool, error) {
	rows, err := m.db.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to load applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// applyFile runs one migration file and records its version inside the same
// transaction, so a failed apply leaves no trace.
func (m *Migrator) applyFile(ctx context.Context, path, version string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read migration file %s: %w", path, err)
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start migration transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("migration %s failed: %w", path, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", version, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", version, err)
	}

	m.logger.Info().Str("file", filepath.Base(path)).Msg("Migration applied")
	return nil
}

// MigrateFromDirectory applies every pending .sql file in dirPath, ordered by
// filename. The version is the filename prefix before the first underscore
// ("001_init.sql" records version "001").
func (m *Migrator) MigrateFromDirectory(ctx context.Context, dirPath string) error {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migration directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if err := m.ensureVersionTable(ctx); err != nil {
		return err
	}
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, name := range files {
		version := strings.SplitN(name, "_", 2)[0]
		if applied[version] {
			m.logger.Debug().Str("file", name).Msg("Migration already applied, skipping")
			continue
		}
		if err := m.applyFile(ctx, filepath.Join(dirPath, name), version); err != nil {
			return err
		}
	}
	return nil
}
