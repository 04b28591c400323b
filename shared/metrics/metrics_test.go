package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDatasetMetrics("dataseed", reg)

	m.ObserveRegeneration(OutcomeSuccess, 20*time.Millisecond)
	m.ObserveRegeneration(OutcomeSuccess, 30*time.Millisecond)
	m.ObserveRegeneration(OutcomeFailure, time.Millisecond)
	m.CountTransaction("transfer")
	m.SetDatasetRows(10, 10, 100)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.regenerations.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.regenerations.WithLabelValues(OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.simulatedTxns.WithLabelValues("transfer")))
	assert.Equal(t, 100.0, testutil.ToFloat64(m.datasetRows.WithLabelValues("transactions")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 4)
}

func TestDatasetMetricsWithoutRegistry(t *testing.T) {
	m := NewDatasetMetrics("dataseed", nil)
	assert.NotPanics(t, func() { m.ObserveRegeneration(OutcomeSuccess, time.Second) })
}
