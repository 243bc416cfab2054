package infrastructure

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	// FilesProcessed counts input files per mode and outcome.
	FilesProcessed *prometheus.CounterVec
	// RowsRemoved counts rows dropped by dedup/subtraction per mode.
	RowsRemoved *prometheus.CounterVec
}

// NewMetrics creates and registers the application collectors on a private
// registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry: registry,
		FilesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leads",
			Name:      "files_processed_total",
			Help:      "Input files processed, by mode and outcome.",
		}, []string{"mode", "status"}),
		RowsRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leads",
			Name:      "rows_removed_total",
			Help:      "Rows removed by deduplication or reference subtraction, by mode.",
		}, []string{"mode"}),
	}
	registry.MustRegister(m.FilesProcessed, m.RowsRemoved)
	return m
}

// Handler exposes the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
