// Package metrics exposes Prometheus instruments for the ledger and the HTTP
// surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ledger scopes.
const (
	ScopeUser  = "user"
	ScopeGroup = "group"
)

// Metrics holds the registry and every instrument. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ledgerWrites  *prometheus.CounterVec
	ledgerAmount  *prometheus.CounterVec
	budgetChanges *prometheus.CounterVec
	memberJoins   *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// New builds a Metrics on its own registry, with Go runtime and process
// collectors included.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		ledgerWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spendbook",
			Name:      "ledger_writes_total",
			Help:      "Ledger record operations by scope and outcome.",
		}, []string{"scope", "outcome"}),
		ledgerAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spendbook",
			Name:      "ledger_amount_total",
			Help:      "Sum of amounts recorded, by scope.",
		}, []string{"scope"}),
		budgetChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spendbook",
			Name:      "budget_updates_total",
			Help:      "Budget updates by direction.",
		}, []string{"direction"}),
		memberJoins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spendbook",
			Name:      "group_member_joins_total",
			Help:      "Group joins by outcome.",
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spendbook",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "spendbook",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ledgerWrites,
		m.ledgerAmount,
		m.budgetChanges,
		m.memberJoins,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// LedgerWrite counts one record operation. amount is the delta as a float;
// it feeds a counter only and is never used for bookkeeping.
func (m *Metrics) LedgerWrite(scope, outcome string, amount float64) {
	if m == nil {
		return
	}
	m.ledgerWrites.WithLabelValues(scope, outcome).Inc()
	if amount > 0 {
		m.ledgerAmount.WithLabelValues(scope).Add(amount)
	}
}

// BudgetUpdate counts a budget update by direction.
func (m *Metrics) BudgetUpdate(direction string) {
	if m == nil {
		return
	}
	m.budgetChanges.WithLabelValues(direction).Inc()
}

// MemberJoin counts a group join by outcome.
func (m *Metrics) MemberJoin(outcome string) {
	if m == nil {
		return
	}
	m.memberJoins.WithLabelValues(outcome).Inc()
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
