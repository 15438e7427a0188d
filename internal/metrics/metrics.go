// Package metrics defines the Prometheus collectors for the trip API.
// Audit append failures are surfaced here and nowhere else: a failed
// audit write never reaches the HTTP caller.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all collectors. Construct once in main with New and pass
// the value down; handlers and services never register collectors
// themselves.
type Metrics struct {
	AuditAppendFailures prometheus.Counter
	StoreUnavailable    prometheus.Counter
	HTTPRequestsTotal   *prometheus.CounterVec
}

// New registers the collectors on the default Prometheus registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the collectors on the given registry. Tests pass a
// fresh prometheus.NewRegistry so repeated construction never panics on
// duplicate registration.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AuditAppendFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "planora_audit_append_failures_total",
			Help: "Total number of audit log appends that failed after a committed mutation",
		}),
		StoreUnavailable: factory.NewCounter(prometheus.CounterOpts{
			Name: "planora_store_unavailable_total",
			Help: "Total number of operations aborted because the backing store was unreachable or timed out",
		}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "planora_http_requests_total",
			Help: "Total number of HTTP requests by method, route pattern, and status code",
		}, []string{"method", "route", "status"}),
	}
}

// IncAuditAppendFailures records one failed best-effort audit append.
func (m *Metrics) IncAuditAppendFailures() {
	if m != nil {
		m.AuditAppendFailures.Inc()
	}
}

// IncStoreUnavailable records one operation aborted on store outage.
func (m *Metrics) IncStoreUnavailable() {
	if m != nil {
		m.StoreUnavailable.Inc()
	}
}
