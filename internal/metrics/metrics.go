// Package metrics owns the Prometheus collectors exposed at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "backoffice"

// Result label values.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	InvoicesSubmitted *prometheus.CounterVec
	DraftOperations   *prometheus.CounterVec
	SearchQueries     *prometheus.CounterVec
}

// New registers every collector on a private registry so tests can build as
// many instances as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		InvoicesSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_submitted_total",
			Help:      "Invoice submissions by result.",
		}, []string{"result"}),
		DraftOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draft_operations_total",
			Help:      "Draft invoice mutations by operation and result.",
		}, []string{"op", "result"}),
		SearchQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_queries_total",
			Help:      "Record search queries by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.InvoicesSubmitted,
		m.DraftOperations,
		m.SearchQueries,
	)
	return m
}

// DraftOp counts one draft mutation. applied false means the composer
// rejected it locally.
func (m *Metrics) DraftOp(op string, applied bool) {
	result := ResultOK
	if !applied {
		result = ResultRejected
	}
	m.DraftOperations.WithLabelValues(op, result).Inc()
}

func (m *Metrics) Submission(err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.InvoicesSubmitted.WithLabelValues(result).Inc()
}

func (m *Metrics) Search(kind string) {
	m.SearchQueries.WithLabelValues(kind).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
