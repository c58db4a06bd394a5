// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/vocatio/internal/database/query"
	"github.com/tomtom215/vocatio/internal/models"
	"github.com/tomtom215/vocatio/internal/recommend"
)

// ListJobsOptions filters and paginates the job listing.
type ListJobsOptions struct {
	Companies   []string
	PostedSince *time.Time
	PostedUntil *time.Time
	Limit       int
	Offset      int
}

// UpsertJob creates or replaces a job posting. It reports whether a new row
// was created (as opposed to an existing one updated).
func (db *DB) UpsertJob(ctx context.Context, req *models.JobUpsertRequest) (*models.Job, bool, error) {
	var exists bool
	err := db.conn.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM jobs WHERE id = ?)`, req.ID).Scan(&exists)
	if err != nil {
		return nil, false, fmt.Errorf("check job existence: %w", err)
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO jobs (id, title, company, description, posted_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			company = excluded.company,
			description = excluded.description,
			posted_at = excluded.posted_at,
			updated_at = now()`,
		req.ID, req.Title, req.Company, req.Description, req.PostedAt)
	if err != nil {
		return nil, false, fmt.Errorf("upsert job %d: %w", req.ID, err)
	}

	job, err := db.GetJob(ctx, req.ID)
	if err != nil {
		return nil, false, err
	}
	return job, !exists, nil
}

// GetJob returns a job posting by id, or ErrNotFound.
func (db *DB) GetJob(ctx context.Context, id int64) (*models.Job, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, title, company, description, posted_at, created_at, updated_at
		FROM jobs WHERE id = ?`, id)

	var job models.Job
	var postedAt sql.NullTime
	err := row.Scan(&job.ID, &job.Title, &job.Company, &job.Description,
		&postedAt, &job.CreatedAt, &job.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job %d: %w", id, err)
	}
	if postedAt.Valid {
		t := postedAt.Time
		job.PostedAt = &t
	}
	return &job, nil
}

// ListJobs returns a filtered page of job postings, newest first, together
// with the total count for the filter.
func (db *DB) ListJobs(ctx context.Context, opts ListJobsOptions) ([]models.Job, int, error) {
	where, args := buildJobsWhere(opts)

	var total int
	countQuery := "SELECT COUNT(*) FROM jobs WHERE " + where
	if err := db.conn.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	listQuery := fmt.Sprintf(`
		SELECT id, title, company, description, posted_at, created_at, updated_at
		FROM jobs WHERE %s
		ORDER BY posted_at DESC NULLS LAST, id ASC
		LIMIT ? OFFSET ?`, where)
	listArgs := append(append([]interface{}{}, args...), limit, opts.Offset)

	rows, err := db.conn.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]models.Job, 0, limit)
	for rows.Next() {
		var job models.Job
		var postedAt sql.NullTime
		if err := rows.Scan(&job.ID, &job.Title, &job.Company, &job.Description,
			&postedAt, &job.CreatedAt, &job.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan job row: %w", err)
		}
		if postedAt.Valid {
			t := postedAt.Time
			job.PostedAt = &t
		}
		jobs = append(jobs, job)
	}
	return jobs, total, rows.Err()
}

// CountJobs returns the catalog size.
func (db *DB) CountJobs(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return n, nil
}

// Metadata returns title, company, and posting date for the given jobs.
// Unknown ids are absent from the result. Implements recommend.JobCatalog.
func (db *DB) Metadata(ctx context.Context, jobIDs []int64) (map[int64]recommend.JobMeta, error) {
	out := make(map[int64]recommend.JobMeta, len(jobIDs))
	if len(jobIDs) == 0 {
		return out, nil
	}

	placeholders := make([]string, len(jobIDs))
	args := make([]interface{}, len(jobIDs))
	for i, id := range jobIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	q := fmt.Sprintf(`SELECT id, title, company, posted_at FROM jobs WHERE id IN (%s)`,
		strings.Join(placeholders, ", "))
	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query job metadata: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var meta recommend.JobMeta
		var postedAt sql.NullTime
		if err := rows.Scan(&id, &meta.Title, &meta.Company, &postedAt); err != nil {
			return nil, fmt.Errorf("scan metadata row: %w", err)
		}
		if postedAt.Valid {
			t := postedAt.Time
			meta.PostedAt = &t
		}
		out[id] = meta
	}
	return out, rows.Err()
}

func buildJobsWhere(opts ListJobsOptions) (string, []interface{}) {
	wb := query.NewWhereBuilder()
	wb.AddCompanies(opts.Companies)
	wb.AddPostedRange(opts.PostedSince, opts.PostedUntil)
	return wb.Build()
}
