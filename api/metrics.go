// metrics.go - Prometheus instrumentation for the broker-tools API.
package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	settlementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "laytime_settlements_total",
		Help: "Settlements computed, by outcome.",
	}, []string{"outcome"})

	ledgerRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "laytime_ledger_rejections_total",
		Help: "SOF edits rejected for gaps, overlaps or malformed events.",
	})

	extractionCandidates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "laytime_extraction_candidates_total",
		Help: "Candidate events proposed by the extraction service.",
	})
)
