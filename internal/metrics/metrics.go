// Package metrics exposes Prometheus instrumentation and the HTTP
// endpoint that serves it.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lifecycle_bot"

var (
	// SignalsReceived counts trading signals accepted into the queue.
	SignalsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signals_received_total",
		Help:      "Trading signals received, by side.",
	}, []string{"side"})

	// SignalsRejected counts signals dropped before a lifecycle was created.
	SignalsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signals_rejected_total",
		Help:      "Trading signals rejected before lifecycle creation, by reason.",
	}, []string{"reason"})

	// OrdersSubmitted counts orders placed at the venue.
	OrdersSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_submitted_total",
		Help:      "Orders submitted to the broker, by symbol, side and stage.",
	}, []string{"symbol", "side", "stage"})

	// TradesClosed counts completed round trips.
	TradesClosed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trades_closed_total",
		Help:      "Completed trades, by symbol, side, exit reason and outcome.",
	}, []string{"symbol", "side", "reason", "outcome"})

	// LifecyclesActive gauges the number of non-terminal lifecycles.
	LifecyclesActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "lifecycles_active",
		Help:      "Lifecycle instances currently scheduled.",
	})

	// SlotsAvailable gauges free position slots.
	SlotsAvailable = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "position_slots_available",
		Help:      "Free slots in the shared position pool.",
	})

	// ExitRearms counts exit pairs cancelled by the venue and re-armed.
	ExitRearms = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exit_rearms_total",
		Help:      "Exit order sets cancelled without a fill and re-armed, by symbol.",
	}, []string{"symbol"})

	// PhantomCloses counts positions that vanished from the broker snapshot.
	PhantomCloses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "phantom_closes_total",
		Help:      "Positions closed at the broker outside the manager's control, by symbol.",
	}, []string{"symbol"})

	// GrossPL gauges cumulative realized gross profit.
	GrossPL = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "gross_pl",
		Help:      "Cumulative realized gross profit and loss.",
	})

	// TickDuration observes scheduler tick latency.
	TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "tick_duration_seconds",
		Help:      "Time spent stepping all lifecycles in one scheduler tick.",
		Buckets:   prometheus.DefBuckets,
	})

	// PersistenceErrors counts failed audit writes.
	PersistenceErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "persistence_errors_total",
		Help:      "Lifecycle events that could not be written to the store.",
	})

	// Info carries the trading mode as a label for dashboard filtering.
	Info = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "info",
		Help:      "Static instance information.",
	}, []string{"mode"})

	// HeartbeatTimestamp records the last completed tick as a unix timestamp.
	HeartbeatTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "heartbeat_timestamp_seconds",
		Help:      "Unix timestamp of the last completed scheduler tick.",
	})
)
