// Package broker defines the narrow client interface through which the
// trading system observes and acts on the execution venue. The venue's
// state arrives asynchronously and is exposed only as point-in-time
// snapshots; callers read whatever is currently known and must tolerate
// facts that have not arrived yet.
package broker

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tathienbao/lifecycle-bot/internal/types"
)

// Common broker errors.
var (
	ErrNotConnected  = errors.New("broker not connected")
	ErrUnknownOrder  = errors.New("unknown order id")
	ErrUnknownSymbol = errors.New("no market data for symbol")
)

// OrderType represents the type of order.
type OrderType string

const (
	OrderTypeMarket OrderType = "MKT"
	OrderTypeLimit  OrderType = "LMT"
	OrderTypeStop   OrderType = "STP"
)

// Order describes a single order to submit. Order ids are allocated by
// the caller from NextOrderID; the venue never assigns them.
type Order struct {
	Side       types.Side
	Quantity   int64
	Type       OrderType
	LimitPrice decimal.Decimal
	StopPrice  decimal.Decimal
	// OCAGroup links this order into a one-cancels-all group. The
	// group must be registered with CancelGroup before placement.
	OCAGroup string
}

// OpenOrder is one entry of the order-status snapshot. The snapshot
// accumulates status updates, so terminal statuses (cancelled,
// inactive) remain visible after the order leaves the venue's book.
type OpenOrder struct {
	OrderID int64
	Status  types.OrderStatus
}

// Execution is one fill record from the executions snapshot.
type Execution struct {
	OrderID  int64
	Symbol   string
	AvgPrice decimal.Decimal
	Time     time.Time
}

// Position is one entry of the positions snapshot. Quantity is signed:
// negative for short positions.
type Position struct {
	Symbol   string
	Quantity int64
	AvgCost  decimal.Decimal
}

// Client is the read-mostly view of the execution venue. Snapshot
// methods never block on the wire; they return the latest state the
// background feed has delivered. PlaceOrder is fire-and-forget: the
// fill (or cancellation) is observed later through the snapshots.
type Client interface {
	// PlaceOrder submits an order under a caller-allocated id.
	PlaceOrder(ctx context.Context, orderID int64, instrument types.Instrument, order Order) error

	// CancelGroup registers a one-cancels-all group: when any member
	// fills, the venue cancels the rest.
	CancelGroup(tag string, orderIDs []int64)

	// OpenOrders returns the accumulated order-status snapshot.
	OpenOrders() []OpenOrder

	// Executions returns the fill snapshot.
	Executions() []Execution

	// Positions returns the authoritative position snapshot.
	Positions() []Position

	// AccountBalance returns the available cash balance.
	AccountBalance() decimal.Decimal

	// MarketDepth returns the resting order-book levels for a symbol,
	// or nil if no depth has been delivered yet.
	MarketDepth(symbol string) []types.DepthLevel

	// NextOrderID allocates the next order id from the shared
	// monotonically increasing counter. Ids are never reused.
	NextOrderID() int64
}
