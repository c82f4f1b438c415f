package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics records per-phase outcomes of store sync runs.
type SyncMetrics struct {
	duration  *prometheus.HistogramVec
	processed *prometheus.CounterVec
	warnings  *prometheus.CounterVec
}

// NewSyncMetrics registers the sync metrics on the provided registerer.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sync_phase_duration_seconds",
		Help:    "Duration of sync phases in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})
	processed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_records_processed_total",
		Help: "Remote records processed per sync phase.",
	}, []string{"phase"})
	warnings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_warnings_total",
		Help: "Per-record warnings recorded per sync phase.",
	}, []string{"phase"})
	reg.MustRegister(duration, processed, warnings)
	return &SyncMetrics{
		duration:  duration,
		processed: processed,
		warnings:  warnings,
	}
}

// ObservePhase records one finished phase.
func (s *SyncMetrics) ObservePhase(phase string, duration time.Duration, processed, warnings int) {
	if s == nil || s.duration == nil {
		return
	}
	label := normalizeLabel(phase)
	s.duration.WithLabelValues(label).Observe(duration.Seconds())
	s.processed.WithLabelValues(label).Add(float64(processed))
	s.warnings.WithLabelValues(label).Add(float64(warnings))
}
