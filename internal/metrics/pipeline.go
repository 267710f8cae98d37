package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Ingestion, retrieval and chat metrics.
var (
	IngestURLsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_urls_total",
			Help:      "URLs processed by the ingestion pipeline",
		},
		[]string{"status"}, // "ok" / "failed"
	)

	IngestChunksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_chunks_total",
			Help:      "Chunks embedded and stored",
		},
	)

	IngestURLDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_url_duration_seconds",
			Help:      "Time to extract, split, embed and store one URL",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	ExtractDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extract_duration_seconds",
			Help:      "Headless browser page extraction duration",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"status"},
	)

	RetrievalTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_total",
			Help:      "Context assemblies by outcome",
		},
		[]string{"result"}, // "ok" / "empty" / "degraded"
	)

	ChatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Chat completions by outcome",
		},
		[]string{"status"},
	)
)

var pipelineOnce sync.Once

// RegisterPipelineMetrics registers ingestion, retrieval and chat metrics.
func RegisterPipelineMetrics() {
	pipelineOnce.Do(func() {
		prometheus.MustRegister(
			IngestURLsTotal,
			IngestChunksTotal,
			IngestURLDuration,
			ExtractDuration,
			RetrievalTotal,
			ChatRequestsTotal,
		)
	})
}
