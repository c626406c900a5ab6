// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package metrics registers the Prometheus collectors instrumenting
// crawl, build, and query. Since the core never runs an HTTP server,
// nothing here serves /metrics; manidxtool dumps the registry to stdout
// or a file via prometheus/expfmt instead.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CrawlDocumentsTotal counts documents the crawler successfully parsed
	// and wrote to the temp file, labeled by outcome.
	CrawlDocumentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "manidx",
		Subsystem: "crawl",
		Name:      "documents_total",
		Help:      "Total documents processed by the crawler, by outcome",
	}, []string{"outcome"}) // outcome: indexed, skipped

	// BuildDurationSeconds measures wall-clock time for Pass 2 (scoring and
	// inverted-index construction).
	BuildDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "manidx",
		Subsystem: "build",
		Name:      "duration_seconds",
		Help:      "Pass 2 build duration in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	}, []string{})

	// QueryDurationSeconds measures end-to-end Search latency.
	QueryDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "manidx",
		Subsystem: "query",
		Name:      "duration_seconds",
		Help:      "Query pipeline latency in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{})

	// QueryResultsTotal counts results returned per query, bucketed by
	// whether the query produced zero results or at least one.
	QueryResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "manidx",
		Subsystem: "query",
		Name:      "results_total",
		Help:      "Total queries served, by whether any result was returned",
	}, []string{"had_results"}) // had_results: true, false
)
