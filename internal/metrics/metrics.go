// Package metrics exposes Prometheus counters for the export worker.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ledger"

// Export outcome labels
const (
	ResultExported  = "exported"
	ResultDuplicate = "duplicate"
	ResultDropped   = "dropped"
	ResultFailed    = "failed"
)

// ExportMetrics counts export worker activity
type ExportMetrics struct {
	registry     *prometheus.Registry
	messages     *prometheus.CounterVec
	fullExports  prometheus.Counter
	exportedRows prometheus.Counter
}

// NewExportMetrics registers the worker counters on a dedicated registry.
func NewExportMetrics() *ExportMetrics {
	m := &ExportMetrics{
		registry: prometheus.NewRegistry(),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "messages_total",
			Help:      "expense.added messages handled, by result.",
		}, []string{"result"}),
		fullExports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "full_exports_total",
			Help:      "Completed full ledger exports.",
		}),
		exportedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "exported_rows_total",
			Help:      "Rows written to the spreadsheet.",
		}),
	}
	m.registry.MustRegister(m.messages, m.fullExports, m.exportedRows)
	return m
}

// ObserveMessage records one handled message.
func (m *ExportMetrics) ObserveMessage(result string) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(result).Inc()
	if result == ResultExported {
		m.exportedRows.Inc()
	}
}

// ObserveFullExport records a full export of rows records.
func (m *ExportMetrics) ObserveFullExport(rows int) {
	if m == nil {
		return
	}
	m.fullExports.Inc()
	m.exportedRows.Add(float64(rows))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *ExportMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *ExportMetrics) Registry() *prometheus.Registry {
	return m.registry
}
