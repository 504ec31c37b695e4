package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Tell()
	m.Tell()
	m.Query()
	m.Solution()
	m.Unification()
	m.Fatal("ask")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Tells))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Queries))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Solutions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Unifications))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FatalErrors.WithLabelValues("ask")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "horn_tells_total")
	assert.Contains(t, names, "horn_fatal_errors_total")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Tell()
		m.Query()
		m.Solution()
		m.Unification()
		m.Fatal("tell")
	})
}
