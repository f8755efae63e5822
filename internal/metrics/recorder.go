package metrics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recorder provides methods for recording metrics. The trading-mode
// label distinguishes paper from live series on shared dashboards.
type Recorder struct {
	mode string
}

// NewRecorder creates a new metrics recorder.
func NewRecorder(mode string) *Recorder {
	Info.WithLabelValues(mode).Set(1)
	return &Recorder{mode: mode}
}

// RecordSignal records a received signal.
func (r *Recorder) RecordSignal(side string) {
	SignalsReceived.WithLabelValues(side).Inc()
}

// RecordSignalRejected records a signal dropped before admission.
func (r *Recorder) RecordSignalRejected(reason string) {
	SignalsRejected.WithLabelValues(reason).Inc()
}

// RecordOrder records an order submission at a lifecycle stage.
func (r *Recorder) RecordOrder(symbol, side, stage string) {
	OrdersSubmitted.WithLabelValues(symbol, side, stage).Inc()
}

// RecordTradeClosed records a completed round trip.
func (r *Recorder) RecordTradeClosed(symbol, side, reason string, grossPL decimal.Decimal) {
	outcome := "loss"
	if grossPL.IsPositive() {
		outcome = "win"
	}
	TradesClosed.WithLabelValues(symbol, side, reason, outcome).Inc()
	GrossPL.Add(grossPL.InexactFloat64())
}

// RecordActiveLifecycles records the current scheduler population.
func (r *Recorder) RecordActiveLifecycles(n int) {
	LifecyclesActive.Set(float64(n))
}

// RecordSlotsAvailable records free position slots.
func (r *Recorder) RecordSlotsAvailable(n int) {
	SlotsAvailable.Set(float64(n))
}

// RecordRearm records an exit set re-arm.
func (r *Recorder) RecordRearm(symbol string) {
	ExitRearms.WithLabelValues(symbol).Inc()
}

// RecordPhantomClose records a position missing from the broker snapshot.
func (r *Recorder) RecordPhantomClose(symbol string) {
	PhantomCloses.WithLabelValues(symbol).Inc()
}

// RecordTick records one scheduler pass.
func (r *Recorder) RecordTick(duration time.Duration) {
	TickDuration.Observe(duration.Seconds())
	HeartbeatTimestamp.Set(float64(time.Now().Unix()))
}

// RecordPersistenceError records a failed audit write.
func (r *Recorder) RecordPersistenceError() {
	PersistenceErrors.Inc()
}

// Mode returns the trading-mode label.
func (r *Recorder) Mode() string {
	return r.mode
}
