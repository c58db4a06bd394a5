// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/vocatio/internal/metrics"
)

// PrometheusMetrics records request count, duration, and in-flight gauge for
// every request passing through it.
func PrometheusMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		start := time.Now()
		wrapper := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		metrics.RecordAPIRequest(
			r.Method,
			r.URL.Path,
			strconv.Itoa(wrapper.statusCode),
			time.Since(start),
		)
	})
}

// statusRecorder captures the response status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
