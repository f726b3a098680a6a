// Package migrations applies the embedded pathogen schema to PostgreSQL.
package migrations

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"goqmra/internal"
)

//go:embed sql/*.sql
var files embed.FS

// Migrator handles database schema migrations
type Migrator struct {
	db     *sql.DB
	source fs.FS
	logger *internal.Logger
}

// NewMigrator creates a migrator over the embedded schema files.
func NewMigrator(db *sql.DB, logger *internal.Logger) *Migrator {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Migrator{db: db, source: files, logger: logger}
}

// MigrationFile represents a migration file
type MigrationFile struct {
	Version  string
	Name     string
	Path     string
	Checksum string
}

// MigrationStatus reports whether one file has been applied.
type MigrationStatus struct {
	MigrationFile
	Applied bool
}

const createMigrationsTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		checksum TEXT NOT NULL,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

// Up executes all pending migrations and returns the versions it applied.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	if _, err := m.db.ExecContext(ctx, createMigrationsTable); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.getAppliedMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	migrations, err := findMigrationFiles(m.source)
	if err != nil {
		return nil, fmt.Errorf("failed to find migration files: %w", err)
	}

	var done []string
	for _, file := range migrations {
		if checksum, ok := applied[file.Version]; ok {
			if checksum != file.Checksum {
				return done, fmt.Errorf("migration %s changed after it was applied", file.Version)
			}
			continue
		}

		if err := m.applyMigration(ctx, file); err != nil {
			return done, fmt.Errorf("failed to apply migration %s: %w", file.Version, err)
		}
		m.logger.Info("Applied migration: %s (%s)", file.Version, file.Name)
		done = append(done, file.Version)
	}

	return done, nil
}

// Status lists every migration file and whether it has been applied.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	if _, err := m.db.ExecContext(ctx, createMigrationsTable); err != nil {
		return nil, fmt.Errorf("failed to ensure migrations table: %w", err)
	}

	applied, err := m.getAppliedMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	migrations, err := findMigrationFiles(m.source)
	if err != nil {
		return nil, fmt.Errorf("failed to find migration files: %w", err)
	}

	statuses := make([]MigrationStatus, len(migrations))
	for i, file := range migrations {
		_, ok := applied[file.Version]
		statuses[i] = MigrationStatus{MigrationFile: file, Applied: ok}
	}
	return statuses, nil
}

// getAppliedMigrations returns the checksum of every applied version
func (m *Migrator) getAppliedMigrations(ctx context.Context) (map[string]string, error) {
	rows, err := m.db.QueryContext(ctx, "SELECT version, checksum FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]string)
	for rows.Next() {
		var version, checksum string
		if err := rows.Scan(&version, &checksum); err != nil {
			return nil, err
		}
		applied[version] = checksum
	}

	return applied, rows.Err()
}

// calculateChecksum computes SHA256 checksum of migration content
func calculateChecksum(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// findMigrationFiles discovers NNN_name.sql files, sorted by version.
func findMigrationFiles(source fs.FS) ([]MigrationFile, error) {
	var migrations []MigrationFile

	err := fs.WalkDir(source, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".sql") {
			return nil
		}

		base := path.Base(p)
		parts := strings.SplitN(strings.TrimSuffix(base, ".sql"), "_", 2)
		if len(parts) < 2 {
			return nil // skip invalid filenames
		}

		data, err := fs.ReadFile(source, p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}

		migrations = append(migrations, MigrationFile{
			Version:  parts[0],
			Name:     parts[1],
			Path:     p,
			Checksum: calculateChecksum(data),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// applyMigration executes a single migration file in its own transaction
func (m *Migrator) applyMigration(ctx context.Context, file MigrationFile) error {
	data, err := fs.ReadFile(m.source, file.Path)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("failed to execute migration SQL: %w", err)
	}

	_, err = tx.ExecContext(ctx, "INSERT INTO schema_migrations (version, checksum) VALUES ($1, $2)", file.Version, file.Checksum)
	if err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	return tx.Commit()
}
