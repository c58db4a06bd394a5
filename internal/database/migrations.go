// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package database

import (
	"context"
	"fmt"
	"time"
)

// Migration is a versioned database migration. Migrations are append-only:
// never modify or remove one once databases with data exist.
type Migration struct {
	Version     int
	Name        string
	Description string
	SQL         string
	AppliedAt   time.Time
}

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// getMigrations returns all versioned migrations in order. The base schema
// lives in schema.go; this list carries incremental changes only.
func getMigrations() []Migration {
	return []Migration{
		// Incremental migrations will be added here, e.g.:
		// {Version: 1, Name: "add_location", Description: "Add job location column",
		//  SQL: `ALTER TABLE jobs ADD COLUMN IF NOT EXISTS location TEXT;`},
	}
}

func (db *DB) runMigrations(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, schemaMigrationsTable); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	applied, err := db.appliedMigrations(ctx)
	if err != nil {
		return err
	}

	for _, m := range getMigrations() {
		if _, ok := applied[m.Version]; ok {
			continue
		}
		if _, err := db.conn.ExecContext(ctx, m.SQL); err != nil {
			return fmt.Errorf("apply migration %d (%s): %w", m.Version, m.Name, err)
		}
		if _, err := db.conn.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name, description) VALUES (?, ?, ?)`,
			m.Version, m.Name, m.Description); err != nil {
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// appliedMigrations returns a map of version -> Migration for all applied
// migrations.
func (db *DB) appliedMigrations(ctx context.Context) (map[int]Migration, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT version, name, description, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]Migration)
	for rows.Next() {
		var m Migration
		if err := rows.Scan(&m.Version, &m.Name, &m.Description, &m.AppliedAt); err != nil {
			return nil, fmt.Errorf("scan migration row: %w", err)
		}
		applied[m.Version] = m
	}
	return applied, rows.Err()
}
