package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveConversion(510, 521)
	m.ObserveConversion(510, 521)
	m.ObserveMapping("Individual", ToModel)
	m.ObserveRun("success", 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ConversionSteps.WithLabelValues("510", "521")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotMappings.WithLabelValues("Individual", ToModel)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QualificationRuns.WithLabelValues("success")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveConversion(1, 2)
		m.ObserveMapping("Compound", ToSnapshot)
		m.ObserveRun("failure", time.Second)
	})
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveMapping("Event", ToSnapshot)

	path := filepath.Join(t.TempDir(), "pksnap.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `pksnap_snapshot_mappings_total{direction="to_snapshot",kind="Event"} 1`)
}
