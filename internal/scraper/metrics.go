package scraper

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brand_fetch_attempts_total",
			Help: "Total outbound fetch attempts, labeled by outcome.",
		},
		[]string{"outcome"},
	)

	fetchRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brand_fetch_retries_total",
			Help: "Total fetch attempts that were retried after a transient failure.",
		},
	)

	scrapesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brand_scrapes_total",
			Help: "Total pipeline invocations, labeled by result class.",
		},
		[]string{"result"},
	)

	scrapeDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "brand_scrape_duration_seconds",
			Help:    "Histogram of full pipeline durations.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)
)
