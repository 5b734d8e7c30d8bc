// Package metrics holds the Prometheus collectors for the transcription
// pipeline. They register on the default registry served at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StageDuration observes wall time per pipeline stage.
	// Labels: stage (transcribing/aligning/processing)
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "omniscribe_stage_duration_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"stage"},
	)

	// JobsTotal counts finished jobs. Labels: status (done/failed)
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omniscribe_jobs_total",
			Help: "Total number of transcription jobs by terminal status",
		},
		[]string{"status"},
	)

	// JobErrorsTotal counts stage failures, fatal or not.
	// Labels: kind (input_too_large/primary_service/alignment_service/persistence)
	JobErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omniscribe_job_errors_total",
			Help: "Total number of pipeline errors by kind",
		},
		[]string{"kind"},
	)

	PrimaryInflight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "omniscribe_primary_inflight",
			Help: "Primary transcription calls currently in flight",
		},
	)
)

func RecordStage(stage string, elapsed time.Duration) {
	StageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

func RecordJob(success bool) {
	status := "done"
	if !success {
		status = "failed"
	}
	JobsTotal.WithLabelValues(status).Inc()
}

func RecordError(kind string) {
	JobErrorsTotal.WithLabelValues(kind).Inc()
}

// TrackPrimary marks one primary call in flight; call the returned func
// when it returns.
func TrackPrimary() func() {
	PrimaryInflight.Inc()
	return PrimaryInflight.Dec
}
