// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package rerank

import "time"

// Novelty signal constants. User staleness saturates at 30 days; posting
// recency is flat for the first 30 days, then decays linearly over 180 days
// to a floor of 0.5. Postings without a date get a fixed middle-ground
// factor.
const (
	viewStalenessDays  = 30.0
	recencyGraceDays   = 30.0
	recencyDecayDays   = 180.0
	recencyFloor       = 0.5
	unknownPostedAt    = 0.7
	userNoveltyBlend   = 0.6
	recencyFactorBlend = 0.4
)

// userNovelty scores how stale the user's last view of the job is: 1.0 when
// never viewed, otherwise days-since-last-view capped at 30 days, scaled to
// [0,1]. Days are whole days.
func userNovelty(lastViewed time.Time, now time.Time, viewed bool) float64 {
	if !viewed {
		return 1.0
	}
	days := wholeDays(lastViewed, now)
	if days < 0 {
		days = 0
	}
	n := float64(days) / viewStalenessDays
	if n > 1.0 {
		return 1.0
	}
	return n
}

// recencyFactor scores posting freshness: 1.0 within the 30-day grace
// window, then linear decay to the 0.5 floor. A nil posting date yields the
// fixed unknown factor.
func recencyFactor(postedAt *time.Time, now time.Time) float64 {
	if postedAt == nil {
		return unknownPostedAt
	}
	days := wholeDays(*postedAt, now)
	if days <= int(recencyGraceDays) {
		return 1.0
	}
	f := 1.0 - (float64(days)-recencyGraceDays)/recencyDecayDays
	if f < recencyFloor {
		return recencyFloor
	}
	return f
}

// noveltyScore blends the per-user and global signals.
func noveltyScore(user, recency float64) float64 {
	return user*userNoveltyBlend + recency*recencyFactorBlend
}

// wholeDays returns the number of complete days between from and to.
func wholeDays(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
