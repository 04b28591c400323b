// Package metrics exposes Prometheus collectors for dataset regeneration.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for regeneration runs.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// DatasetMetrics collects regeneration and simulation metrics.
type DatasetMetrics struct {
	regenerations        *prometheus.CounterVec
	regenerationDuration *prometheus.HistogramVec
	simulatedTxns        *prometheus.CounterVec
	datasetRows          *prometheus.GaugeVec
}

// NewDatasetMetrics creates the collectors and registers them with reg.
// A nil reg leaves the collectors unregistered, which is what tests want.
func NewDatasetMetrics(namespace string, reg prometheus.Registerer) *DatasetMetrics {
	m := &DatasetMetrics{
		regenerations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "regenerations_total",
				Help:      "Total number of dataset regeneration runs by outcome",
			},
			[]string{"outcome"},
		),
		regenerationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "regeneration_duration_seconds",
				Help:      "Dataset regeneration latency including persistence",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
			},
			[]string{"outcome"},
		),
		simulatedTxns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "simulated_transactions_total",
				Help:      "Total number of simulated transactions by kind",
			},
			[]string{"kind"},
		),
		datasetRows: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dataset_rows",
				Help:      "Number of rows in the current dataset per entity",
			},
			[]string{"entity"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.regenerations, m.regenerationDuration, m.simulatedTxns, m.datasetRows)
	}
	return m
}

// ObserveRegeneration records one regeneration run.
func (m *DatasetMetrics) ObserveRegeneration(outcome string, d time.Duration) {
	m.regenerations.WithLabelValues(outcome).Inc()
	m.regenerationDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// CountTransaction records one simulated transaction of the given kind.
func (m *DatasetMetrics) CountTransaction(kind string) {
	m.simulatedTxns.WithLabelValues(kind).Inc()
}

// SetDatasetRows publishes the size of the dataset currently in the store.
func (m *DatasetMetrics) SetDatasetRows(profiles, accounts, transactions int) {
	m.datasetRows.WithLabelValues("profiles").Set(float64(profiles))
	m.datasetRows.WithLabelValues("accounts").Set(float64(accounts))
	m.datasetRows.WithLabelValues("transactions").Set(float64(transactions))
}
