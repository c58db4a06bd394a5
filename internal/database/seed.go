// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package database

import (
	"fmt"
	"time"

	"github.com/tomtom215/vocatio/internal/logging"
)

// seedSampleData loads a small fixture catalog on an empty database, for
// demos and local development. It is a no-op when jobs already exist.
func (db *DB) seedSampleData() error {
	ctx, cancel := schemaContext()
	defer cancel()

	n, err := db.CountJobs(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logging.Debug().Int("jobs", n).Msg("Skipping sample data seed, catalog not empty")
		return nil
	}

	now := time.Now().UTC()
	samples := []struct {
		id       int64
		title    string
		company  string
		desc     string
		daysBack int
	}{
		{1, "Backend Engineer", "Acme", "Build and operate Go services.", 3},
		{2, "Data Engineer", "Globex", "Batch and streaming pipelines.", 10},
		{3, "ML Engineer", "Initech", "Train and deploy ranking models.", 25},
		{4, "Site Reliability Engineer", "Umbrella", "Keep the lights on.", 45},
		{5, "Frontend Engineer", "Hooli", "Ship the hiring dashboard.", 70},
	}

	for _, s := range samples {
		posted := now.AddDate(0, 0, -s.daysBack)
		_, err := db.conn.ExecContext(ctx, `
			INSERT INTO jobs (id, title, company, description, posted_at)
			VALUES (?, ?, ?, ?, ?)`,
			s.id, s.title, s.company, s.desc, posted)
		if err != nil {
			return fmt.Errorf("seed job %d: %w", s.id, err)
		}
	}

	logging.Info().Int("jobs", len(samples)).Msg("Seeded sample job catalog")
	return nil
}
