// Package metrics defines the Prometheus instruments for the trend pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DocumentsIngested counts documents processed by the trend ingestor.
	DocumentsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_documents_ingested_total",
			Help: "Total number of documents processed by the trend ingestor",
		},
	)

	// TokensSuppressed counts tokens dropped from trend counting by reason.
	TokensSuppressed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulse_tokens_suppressed_total",
			Help: "Total number of tokens excluded from trend counting",
		},
		[]string{"reason"},
	)

	// StreamMessagesConsumed counts intake stream records processed.
	StreamMessagesConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_stream_messages_consumed_total",
			Help: "Total number of intake stream messages consumed",
		},
	)

	// StreamMessagesFailed counts intake stream records that failed processing.
	StreamMessagesFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_stream_messages_failed_total",
			Help: "Total number of intake stream messages that failed processing",
		},
	)

	// SchedulerRuns counts detection passes started under a held lease.
	SchedulerRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_scheduler_runs_total",
			Help: "Total number of leased detection passes",
		},
	)

	// SchedulerLeaseSkips counts ticks skipped because the lease was held elsewhere.
	SchedulerLeaseSkips = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_scheduler_lease_skips_total",
			Help: "Total number of detection ticks skipped due to lease contention",
		},
	)

	// SchedulerDuration observes the wall time of a detection pass.
	SchedulerDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pulse_scheduler_run_duration_seconds",
			Help:    "Detection pass duration in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	// AnomaliesEmitted counts first-time emissions. An emission is a newly
	// persisted event; duplicates for an already-stored window do not count,
	// and the best-effort publish does not gate it.
	AnomaliesEmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_anomalies_emitted_total",
			Help: "Total number of anomaly events persisted (first emission per detection window)",
		},
	)

	// AnomaliesSuppressed counts per-keyword detector skips by reason.
	AnomaliesSuppressed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulse_anomalies_suppressed_total",
			Help: "Total number of anomaly candidates suppressed",
		},
		[]string{"reason"},
	)

	// HistorySamplesRecorded counts samples appended to keyword history buffers.
	HistorySamplesRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_history_samples_recorded_total",
			Help: "Total number of history samples recorded",
		},
	)
)
