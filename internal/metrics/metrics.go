// Package metrics exposes Prometheus instrumentation for the pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "scorefree"

// Metrics holds the pipeline's Prometheus collectors.
type Metrics struct {
	VideosFound     *prometheus.CounterVec
	VideosStored    *prometheus.CounterVec
	CatalogErrors   *prometheus.CounterVec
	Classifications *prometheus.CounterVec
	IngestDuration  prometheus.Histogram
}

// New registers the pipeline collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		VideosFound: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "videos_found_total",
			Help:      "Candidate videos returned by catalog searches, before dedup.",
		}, []string{"category"}),
		VideosStored: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "videos_stored_total",
			Help:      "Videos newly stored after dedup.",
		}, []string{"category"}),
		CatalogErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_errors_total",
			Help:      "Per-category catalog fetch failures.",
		}, []string{"category"}),
		Classifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Classification verdicts by outcome.",
		}, []string{"verdict"}),
		IngestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_duration_seconds",
			Help:      "Duration of full ingestion passes.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Verdict labels for the classifications counter.
const (
	VerdictScoreFree = "score_free"
	VerdictSpoiler   = "spoiler"
)

// ObserveClassification records one verdict.
func (m *Metrics) ObserveClassification(isScoreFree bool) {
	if m == nil {
		return
	}
	verdict := VerdictSpoiler
	if isScoreFree {
		verdict = VerdictScoreFree
	}
	m.Classifications.WithLabelValues(verdict).Inc()
}
