// Package paper provides a simulated execution venue for paper trading
// and tests. It implements the broker.Client snapshot interface: orders
// rest until a mark-price update crosses them, fills append execution
// records, and one-cancels-all groups cancel their siblings on fill.
package paper

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tathienbao/lifecycle-bot/internal/broker"
	"github.com/tathienbao/lifecycle-bot/internal/types"
)

// Config holds paper venue configuration.
type Config struct {
	InitialCash decimal.Decimal
}

// DefaultConfig returns default paper venue config.
func DefaultConfig() Config {
	return Config{
		InitialCash: decimal.NewFromInt(100000),
	}
}

type restingOrder struct {
	id         int64
	instrument types.Instrument
	order      broker.Order
	status     types.OrderStatus
	placedAt   time.Time
}

type position struct {
	quantity int64
	avgCost  decimal.Decimal
}

// Venue is an in-memory execution venue.
type Venue struct {
	cfg    Config
	logger *slog.Logger

	nextOrderID atomic.Int64

	mu         sync.RWMutex
	cash       decimal.Decimal
	orders     map[int64]*restingOrder
	executions []broker.Execution
	positions  map[string]*position
	prices     map[string]decimal.Decimal
	depth      map[string][]types.DepthLevel
	ocaGroups  map[string][]int64
	orderOCA   map[int64]string
}

// NewVenue creates a new paper venue.
func NewVenue(cfg Config, logger *slog.Logger) *Venue {
	if logger == nil {
		logger = slog.Default()
	}

	v := &Venue{
		cfg:       cfg,
		logger:    logger,
		cash:      cfg.InitialCash,
		orders:    make(map[int64]*restingOrder),
		positions: make(map[string]*position),
		prices:    make(map[string]decimal.Decimal),
		depth:     make(map[string][]types.DepthLevel),
		ocaGroups: make(map[string][]int64),
		orderOCA:  make(map[int64]string),
	}
	v.nextOrderID.Store(1)
	return v
}

// NextOrderID allocates the next order id.
func (v *Venue) NextOrderID() int64 {
	return v.nextOrderID.Add(1)
}

// PlaceOrder accepts an order and immediately attempts to match it
// against the current mark price. Market orders without a mark price
// rest until the first price update.
func (v *Venue) PlaceOrder(ctx context.Context, orderID int64, instrument types.Instrument, order broker.Order) error {
	if order.Quantity < 1 {
		return types.ErrInvalidQuantity
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	ro := &restingOrder{
		id:         orderID,
		instrument: instrument,
		order:      order,
		status:     types.OrderStatusOpen,
		placedAt:   time.Now(),
	}
	v.orders[orderID] = ro
	if order.OCAGroup != "" {
		v.orderOCA[orderID] = order.OCAGroup
	}

	v.logger.Debug("paper order placed",
		"order_id", orderID,
		"symbol", instrument.Symbol,
		"side", order.Side,
		"type", order.Type,
		"qty", order.Quantity,
	)

	if px, ok := v.prices[instrument.Symbol]; ok {
		v.matchLocked(ro, px)
	}
	return nil
}

// CancelGroup registers a one-cancels-all group.
func (v *Venue) CancelGroup(tag string, orderIDs []int64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.ocaGroups[tag] = append([]int64(nil), orderIDs...)
	for _, id := range orderIDs {
		v.orderOCA[id] = tag
	}
}

// CancelOrder cancels a resting order, simulating a broker-side or
// out-of-band cancellation.
func (v *Venue) CancelOrder(orderID int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	ro, ok := v.orders[orderID]
	if !ok {
		return broker.ErrUnknownOrder
	}
	if ro.status == types.OrderStatusOpen {
		ro.status = types.OrderStatusCancelled
	}
	return nil
}

// MarkPrice updates a symbol's mark price and matches resting orders
// against it.
func (v *Venue) MarkPrice(symbol string, price decimal.Decimal) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.prices[symbol] = price
	for _, ro := range v.orders {
		if ro.instrument.Symbol == symbol && ro.status == types.OrderStatusOpen {
			v.matchLocked(ro, price)
		}
	}
}

// SetDepth installs an order-book depth snapshot for a symbol.
func (v *Venue) SetDepth(symbol string, levels []types.DepthLevel) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.depth[symbol] = append([]types.DepthLevel(nil), levels...)
}

// SetPosition overrides the position snapshot for a symbol. Quantity
// zero removes the entry, simulating an out-of-band liquidation.
func (v *Venue) SetPosition(symbol string, quantity int64, avgCost decimal.Decimal) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if quantity == 0 {
		delete(v.positions, symbol)
		return
	}
	v.positions[symbol] = &position{quantity: quantity, avgCost: avgCost}
}

// matchLocked fills the order if price crosses it. Must hold v.mu.
func (v *Venue) matchLocked(ro *restingOrder, price decimal.Decimal) {
	var fillPrice decimal.Decimal

	switch ro.order.Type {
	case broker.OrderTypeMarket:
		fillPrice = price
	case broker.OrderTypeLimit:
		if ro.order.Side == types.SideBuy && price.LessThanOrEqual(ro.order.LimitPrice) {
			fillPrice = ro.order.LimitPrice
		} else if ro.order.Side == types.SideSell && price.GreaterThanOrEqual(ro.order.LimitPrice) {
			fillPrice = ro.order.LimitPrice
		} else {
			return
		}
	case broker.OrderTypeStop:
		if ro.order.Side == types.SideBuy && price.GreaterThanOrEqual(ro.order.StopPrice) {
			fillPrice = ro.order.StopPrice
		} else if ro.order.Side == types.SideSell && price.LessThanOrEqual(ro.order.StopPrice) {
			fillPrice = ro.order.StopPrice
		} else {
			return
		}
	default:
		return
	}

	ro.status = types.OrderStatusFilled
	v.executions = append(v.executions, broker.Execution{
		OrderID:  ro.id,
		Symbol:   ro.instrument.Symbol,
		AvgPrice: fillPrice,
		Time:     time.Now(),
	})
	v.applyFillLocked(ro, fillPrice)
	v.cancelSiblingsLocked(ro.id)

	v.logger.Debug("paper order filled",
		"order_id", ro.id,
		"symbol", ro.instrument.Symbol,
		"side", ro.order.Side,
		"price", fillPrice,
	)
}

// applyFillLocked updates positions and cash for a fill. Must hold v.mu.
func (v *Venue) applyFillLocked(ro *restingOrder, price decimal.Decimal) {
	symbol := ro.instrument.Symbol
	signed := ro.order.Quantity
	if ro.order.Side == types.SideSell {
		signed = -signed
	}

	pos, ok := v.positions[symbol]
	if !ok {
		pos = &position{}
		v.positions[symbol] = pos
	}

	// Average cost only moves when the fill extends the position.
	if pos.quantity == 0 || (pos.quantity > 0) == (signed > 0) {
		oldQty := decimal.NewFromInt(abs(pos.quantity))
		addQty := decimal.NewFromInt(abs(signed))
		total := oldQty.Add(addQty)
		pos.avgCost = pos.avgCost.Mul(oldQty).Add(price.Mul(addQty)).Div(total)
	}
	pos.quantity += signed
	if pos.quantity == 0 {
		delete(v.positions, symbol)
	}

	notional := price.Mul(decimal.NewFromInt(ro.order.Quantity))
	if ro.order.Side == types.SideBuy {
		v.cash = v.cash.Sub(notional)
	} else {
		v.cash = v.cash.Add(notional)
	}
}

// cancelSiblingsLocked cancels remaining members of the filled order's
// OCA group. Must hold v.mu.
func (v *Venue) cancelSiblingsLocked(filledID int64) {
	tag, ok := v.orderOCA[filledID]
	if !ok {
		return
	}
	for _, id := range v.ocaGroups[tag] {
		if id == filledID {
			continue
		}
		if sib, ok := v.orders[id]; ok && sib.status == types.OrderStatusOpen {
			sib.status = types.OrderStatusCancelled
		}
	}
}

// OpenOrders returns the order-status snapshot, terminal statuses
// included.
func (v *Venue) OpenOrders() []broker.OpenOrder {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]broker.OpenOrder, 0, len(v.orders))
	for _, ro := range v.orders {
		out = append(out, broker.OpenOrder{OrderID: ro.id, Status: ro.status})
	}
	return out
}

// Executions returns the fill snapshot.
func (v *Venue) Executions() []broker.Execution {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]broker.Execution(nil), v.executions...)
}

// Positions returns the position snapshot.
func (v *Venue) Positions() []broker.Position {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]broker.Position, 0, len(v.positions))
	for sym, pos := range v.positions {
		out = append(out, broker.Position{Symbol: sym, Quantity: pos.quantity, AvgCost: pos.avgCost})
	}
	return out
}

// AccountBalance returns the available cash.
func (v *Venue) AccountBalance() decimal.Decimal {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cash
}

// MarketDepth returns the installed depth snapshot for a symbol.
func (v *Venue) MarketDepth(symbol string) []types.DepthLevel {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]types.DepthLevel(nil), v.depth[symbol]...)
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// Ensure Venue implements broker.Client
var _ broker.Client = (*Venue)(nil)
