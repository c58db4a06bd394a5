// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/vocatio/internal/models"
	"github.com/tomtom215/vocatio/internal/recommend/cf"
)

// InsertInteraction records a user action on a job posting. A missing
// OccurredAt defaults to the current time. The referenced job must exist.
func (db *DB) InsertInteraction(ctx context.Context, req *models.InteractionRequest) (*models.Interaction, error) {
	var jobExists bool
	err := db.conn.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM jobs WHERE id = ?)`, req.JobID).Scan(&jobExists)
	if err != nil {
		return nil, fmt.Errorf("check job existence: %w", err)
	}
	if !jobExists {
		return nil, fmt.Errorf("job %d: %w", req.JobID, ErrNotFound)
	}

	occurredAt := time.Now().UTC()
	if req.OccurredAt != nil {
		occurredAt = req.OccurredAt.UTC()
	}

	stmt, err := db.prepared(ctx, `
		INSERT INTO interactions (resume_id, job_id, interaction_type, occurred_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`)
	if err != nil {
		return nil, err
	}

	var id int64
	if err := stmt.QueryRowContext(ctx, req.ResumeID, req.JobID, req.Type, occurredAt).Scan(&id); err != nil {
		return nil, fmt.Errorf("insert interaction: %w", err)
	}

	return &models.Interaction{
		ID:         id,
		ResumeID:   req.ResumeID,
		JobID:      req.JobID,
		Type:       req.Type,
		OccurredAt: occurredAt,
	}, nil
}

// AllInteractions returns every recorded interaction, for CF model builds.
// Implements recommend.InteractionLog.
func (db *DB) AllInteractions(ctx context.Context) ([]cf.Interaction, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT resume_id, job_id, interaction_type, occurred_at
		FROM interactions
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	var out []cf.Interaction
	for rows.Next() {
		var in cf.Interaction
		if err := rows.Scan(&in.ResumeID, &in.JobID, &in.Type, &in.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan interaction row: %w", err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// ViewHistory returns, per job, the most recent time the resume viewed or
// clicked it. Saves, likes, and applies do not count as views. Implements
// recommend.InteractionLog.
func (db *DB) ViewHistory(ctx context.Context, resumeID int64) (map[int64]time.Time, error) {
	stmt, err := db.prepared(ctx, `
		SELECT job_id, MAX(occurred_at)
		FROM interactions
		WHERE resume_id = ? AND interaction_type IN ('view', 'click')
		GROUP BY job_id`)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, resumeID)
	if err != nil {
		return nil, fmt.Errorf("query view history: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]time.Time)
	for rows.Next() {
		var jobID int64
		var last time.Time
		if err := rows.Scan(&jobID, &last); err != nil {
			return nil, fmt.Errorf("scan view history row: %w", err)
		}
		out[jobID] = last
	}
	return out, rows.Err()
}

// InteractionsForResume returns a resume's interactions, newest first.
func (db *DB) InteractionsForResume(ctx context.Context, resumeID int64, limit int) ([]models.Interaction, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, resume_id, job_id, interaction_type, occurred_at
		FROM interactions
		WHERE resume_id = ?
		ORDER BY occurred_at DESC, id DESC
		LIMIT ?`, resumeID, limit)
	if err != nil {
		return nil, fmt.Errorf("query resume interactions: %w", err)
	}
	defer rows.Close()

	var out []models.Interaction
	for rows.Next() {
		var in models.Interaction
		if err := rows.Scan(&in.ID, &in.ResumeID, &in.JobID, &in.Type, &in.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan interaction row: %w", err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// CountInteractions returns the interaction log size.
func (db *DB) CountInteractions(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM interactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count interactions: %w", err)
	}
	return n, nil
}
