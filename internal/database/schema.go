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

// schemaTimeout bounds schema creation and migration work at startup.
const schemaTimeout = 30 * time.Second

func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), schemaTimeout)
}

// getTableCreationQueries returns the CREATE TABLE statements in dependency
// order.
func getTableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id BIGINT PRIMARY KEY,
			title TEXT NOT NULL,
			company TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			posted_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE SEQUENCE IF NOT EXISTS interactions_id_seq START 1`,
		`CREATE TABLE IF NOT EXISTS interactions (
			id BIGINT PRIMARY KEY DEFAULT nextval('interactions_id_seq'),
			resume_id BIGINT NOT NULL,
			job_id BIGINT NOT NULL,
			interaction_type TEXT NOT NULL,
			occurred_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
}

// getIndexQueries returns the CREATE INDEX statements.
func getIndexQueries() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_jobs_company ON jobs(company)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_posted_at ON jobs(posted_at)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_resume ON interactions(resume_id)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_job ON interactions(job_id)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_resume_job ON interactions(resume_id, job_id)`,
	}
}

func (db *DB) createTables(ctx context.Context) error {
	for _, q := range getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("exec schema statement: %w", err)
		}
	}
	return nil
}

func (db *DB) createIndexes(ctx context.Context) error {
	for _, q := range getIndexQueries() {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("exec index statement: %w", err)
		}
	}
	return nil
}
