// Package metrics holds the Prometheus collectors shared across layers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GateOutcomes counts gate results by kind and outcome
	// (payment_required, settled, rejected, replayed, ledger_failed, invalid).
	GateOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "acg_gate_outcomes_total",
		Help: "Resource gate outcomes by kind and outcome",
	}, []string{"kind", "outcome"})

	// SettlementDuration measures verify+settle round trips against the facilitator.
	SettlementDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "acg_settlement_duration_seconds",
		Help:    "Facilitator verify and settle latency",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"result"})

	// SettledAmount sums settled atomic units by asset.
	SettledAmount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "acg_settled_amount_atomic_total",
		Help: "Settled amount in atomic units of the asset",
	}, []string{"asset"})

	// ReconcilerIntents counts intents processed by the reconciler.
	ReconcilerIntents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "acg_reconciler_intents_total",
		Help: "Ledger intents processed by the reconciler, by result",
	}, []string{"result"})

	// PendingIntents tracks the ledger intent backlog.
	PendingIntents = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "acg_ledger_intents_pending",
		Help: "Ledger intents waiting to be applied",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "acg_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "acg_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)
