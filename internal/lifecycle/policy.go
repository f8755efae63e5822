package lifecycle

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tathienbao/lifecycle-bot/internal/broker"
	"github.com/tathienbao/lifecycle-bot/internal/risk"
	"github.com/tathienbao/lifecycle-bot/internal/types"
)

// EntryGate decides whether a lifecycle may commit capital. The gate
// is consulted once per lifecycle, before the slot is taken; a Defer
// verdict re-checks on a later tick, a Reject terminates the instance.
type EntryGate interface {
	Check(symbol string, side types.Side, refPrice decimal.Decimal) (risk.Verdict, string)
}

// AdmitAll is the gate for signal sources that validate liquidity
// themselves.
type AdmitAll struct{}

func (AdmitAll) Check(string, types.Side, decimal.Decimal) (risk.Verdict, string) {
	return risk.VerdictAdmit, ""
}

// DepthGate admits entries only when the resting order book favors the
// intended side.
type DepthGate struct {
	Client broker.Client
	Book   risk.BookCheck
}

func (g *DepthGate) Check(symbol string, side types.Side, refPrice decimal.Decimal) (risk.Verdict, string) {
	return g.Book.Evaluate(g.Client.MarketDepth(symbol), side, refPrice)
}

// ExitView is the position summary handed to an ExitTrigger.
type ExitView struct {
	Symbol      string
	Side        types.Side
	Quantity    int64
	EntryPrice  decimal.Decimal
	StopPrice   decimal.Decimal
	TargetPrice decimal.Decimal
	EntryTime   time.Time
}

// ExitTrigger decides when an open position should be closed. The
// lifecycle is agnostic to which rule fired; it only needs a yes/no
// and a reason label for the audit trail.
type ExitTrigger interface {
	ShouldExit(view ExitView) (bool, string)
}

// TriggerFunc adapts a function to the ExitTrigger interface.
type TriggerFunc func(view ExitView) (bool, string)

func (f TriggerFunc) ShouldExit(view ExitView) (bool, string) {
	return f(view)
}

// ArmImmediately fires as soon as the position opens. Used with the
// OCA exit style, where the protective stop and target orders rest at
// the venue and the market decides which one fills.
type ArmImmediately struct{}

func (ArmImmediately) ShouldExit(ExitView) (bool, string) {
	return true, "protective orders armed"
}

// BandTrigger fires when the quoted price moves outside the position's
// stop/target band. Used with the single-order exit style, where the
// manager watches the market itself instead of resting orders.
type BandTrigger struct {
	// Quote returns the last known price for a symbol, or false if no
	// quote has arrived yet.
	Quote func(symbol string) (decimal.Decimal, bool)
}

func (t *BandTrigger) ShouldExit(view ExitView) (bool, string) {
	px, ok := t.Quote(view.Symbol)
	if !ok {
		return false, ""
	}
	switch view.Side {
	case types.SideBuy:
		if px.LessThanOrEqual(view.StopPrice) {
			return true, "stop band breached"
		}
		if px.GreaterThanOrEqual(view.TargetPrice) {
			return true, "target band reached"
		}
	case types.SideSell:
		if px.GreaterThanOrEqual(view.StopPrice) {
			return true, "stop band breached"
		}
		if px.LessThanOrEqual(view.TargetPrice) {
			return true, "target band reached"
		}
	}
	return false, ""
}
