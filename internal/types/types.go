// Package types defines shared types used across the trading system.
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side represents the direction of an order or a position.
type Side int

const (
	SideNone Side = iota
	SideBuy
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return "NONE"
	}
}

// Opposite returns the opposing side. Used to derive the exit
// instruction from the entry side.
func (s Side) Opposite() Side {
	switch s {
	case SideBuy:
		return SideSell
	case SideSell:
		return SideBuy
	default:
		return SideNone
	}
}

// ParseSide parses "BUY" or "SELL".
func ParseSide(s string) (Side, bool) {
	switch s {
	case "BUY", "buy":
		return SideBuy, true
	case "SELL", "sell":
		return SideSell, true
	default:
		return SideNone, false
	}
}

// OrderStatus represents the broker-reported state of an order.
type OrderStatus int

const (
	OrderStatusNone OrderStatus = iota
	OrderStatusOpen
	OrderStatusFilled
	OrderStatusCancelled
	OrderStatusInactive
)

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusOpen:
		return "OPEN"
	case OrderStatusFilled:
		return "FILLED"
	case OrderStatusCancelled:
		return "CANCELLED"
	case OrderStatusInactive:
		return "INACTIVE"
	default:
		return "NONE"
	}
}

// IsCancelled returns true for the broker-side rejection statuses.
// Inactive is how the venue reports an order it refused to work.
func (s OrderStatus) IsCancelled() bool {
	return s == OrderStatusCancelled || s == OrderStatusInactive
}

// IsTerminal returns true if the order can no longer fill.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusFilled || s.IsCancelled()
}

// PositionStatus tracks the manager's view of the instrument position.
type PositionStatus int

const (
	PositionNone PositionStatus = iota
	PositionOpen
	PositionClosed
)

func (s PositionStatus) String() string {
	switch s {
	case PositionOpen:
		return "OPEN"
	case PositionClosed:
		return "CLOSED"
	default:
		return "NONE"
	}
}

// ExitReason labels which exit path closed a trade, for the audit trail.
type ExitReason string

const (
	ExitReasonNone   ExitReason = ""
	ExitReasonStop   ExitReason = "STOP"
	ExitReasonTarget ExitReason = "TARGET"
	ExitReasonMarket ExitReason = "MARKET"
	// ExitReasonForced marks a phantom close: the broker no longer
	// reported the position, so the record was closed without an exit order.
	ExitReasonForced ExitReason = "FORCED_CLOSE"
)

// Instrument identifies a tradable contract at the venue.
type Instrument struct {
	Symbol          string
	SecType         string
	Exchange        string
	PrimaryExchange string
	Currency        string
}

// Stock returns a US equity instrument routed through smart routing.
func Stock(symbol string) Instrument {
	return Instrument{
		Symbol:          symbol,
		SecType:         "STK",
		Exchange:        "SMART",
		PrimaryExchange: "ISLAND",
		Currency:        "USD",
	}
}

// Signal is a trading signal from an external source. The lifecycle
// manager consumes it as an already-computed decision: which side to
// trade and at what reference price.
type Signal struct {
	Symbol   string
	Side     Side
	RefPrice decimal.Decimal
	Reason   string
	Time     time.Time
}

// DepthSide distinguishes resting bids from resting asks.
type DepthSide int

const (
	DepthAsk DepthSide = iota
	DepthBid
)

// DepthLevel is one resting order-book level.
type DepthLevel struct {
	Side  DepthSide
	Price decimal.Decimal
	Size  int64
}

// TradeRecord is the full persisted state of one entry+exit round
// trip, keyed by (TradeID, Symbol). Every lifecycle event carries one
// so the store can upsert a durable audit trail and rebuild open
// lifecycles after a crash.
type TradeRecord struct {
	TradeID     string
	Symbol      string
	TradingMode string

	Side        Side
	Instruction Side
	Quantity    int64

	EntryOrderID     int64
	EntryOrderPrice  decimal.Decimal
	EntryOrderTime   time.Time
	EntryOrderStatus OrderStatus
	EntryFillPrice   decimal.Decimal
	EntryFillTime    time.Time

	StopLossPrice decimal.Decimal
	TargetPrice   decimal.Decimal

	// Mutually cancelling exit pair. For a single-order exit only the
	// ExitOrder* fields are set.
	StopOrderID       int64
	StopOrderPrice    decimal.Decimal
	StopOrderTime     time.Time
	StopOrderStatus   OrderStatus
	TargetOrderID     int64
	TargetOrderPrice  decimal.Decimal
	TargetOrderTime   time.Time
	TargetOrderStatus OrderStatus
	ExitOrderID       int64
	ExitOrderStatus   OrderStatus

	ExitPrice      decimal.Decimal
	ExitTime       time.Time
	ExitReason     ExitReason
	PositionStatus PositionStatus
	GrossPL        decimal.Decimal
}
