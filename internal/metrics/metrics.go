// Package metrics exposes Prometheus counters for conversions, snapshot
// mappings and qualification runs.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Mapping directions
const (
	ToSnapshot = "to_snapshot"
	ToModel    = "to_model"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	ConversionSteps   *prometheus.CounterVec
	SnapshotMappings  *prometheus.CounterVec
	QualificationRuns *prometheus.CounterVec
	RunDuration       prometheus.Histogram
}

// New registers the collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ConversionSteps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pksnap_conversion_steps_total",
			Help: "Project version conversion steps applied",
		}, []string{"from", "to"}),
		SnapshotMappings: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pksnap_snapshot_mappings_total",
			Help: "Building blocks mapped to or from snapshots",
		}, []string{"kind", "direction"}),
		QualificationRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pksnap_qualification_runs_total",
			Help: "Qualification batch runs by outcome",
		}, []string{"outcome"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pksnap_qualification_run_duration_seconds",
			Help:    "Duration of qualification batch runs",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
	}
}

// ObserveConversion counts one converter step
func (m *Metrics) ObserveConversion(from, to int) {
	if m == nil {
		return
	}
	m.ConversionSteps.WithLabelValues(strconv.Itoa(from), strconv.Itoa(to)).Inc()
}

// ObserveMapping counts one building block mapping
func (m *Metrics) ObserveMapping(kind, direction string) {
	if m == nil {
		return
	}
	m.SnapshotMappings.WithLabelValues(kind, direction).Inc()
}

// ObserveRun counts a qualification run and records its duration
func (m *Metrics) ObserveRun(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.QualificationRuns.WithLabelValues(outcome).Inc()
	m.RunDuration.Observe(elapsed.Seconds())
}

// WriteTextfile writes all metrics of g in the node exporter textfile format
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
