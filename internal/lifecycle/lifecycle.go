// Package lifecycle implements the per-instrument trade lifecycle
// state machine: admission, entry, entry confirmation, exit
// submission, exit confirmation, and terminal close. A lifecycle is
// stepped once per scheduler tick, never blocks on the broker, and
// reconciles its intended state against whatever snapshot the broker
// feed has delivered so far.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tathienbao/lifecycle-bot/internal/broker"
	"github.com/tathienbao/lifecycle-bot/internal/risk"
	"github.com/tathienbao/lifecycle-bot/internal/types"
)

// State is the lifecycle's single discriminator. Per-state payload
// lives in the entry/exit field groups below.
type State int

const (
	StateAwaitingEntry State = iota
	StateEntrySubmitted
	StatePositionOpen
	StateExitSubmitted
	StateClosed
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateAwaitingEntry:
		return "AWAITING_ENTRY"
	case StateEntrySubmitted:
		return "ENTRY_SUBMITTED"
	case StatePositionOpen:
		return "POSITION_OPEN"
	case StateExitSubmitted:
		return "EXIT_SUBMITTED"
	case StateClosed:
		return "TRADE_CLOSED"
	case StateTerminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

// Terminal returns true once the lifecycle can be retired.
func (s State) Terminal() bool {
	return s == StateClosed || s == StateTerminated
}

// ExitStyle selects how a position is closed.
type ExitStyle int

const (
	// ExitOCAPair places a protective stop and a target limit sharing
	// a cancel group; whichever level the market reaches first fills.
	ExitOCAPair ExitStyle = iota
	// ExitSingleOrder places one opposite-side market order when the
	// exit trigger fires.
	ExitSingleOrder
)

// Config holds per-lifecycle trading parameters.
type Config struct {
	TradingMode    string
	Budget         decimal.Decimal
	StopLossPct    decimal.Decimal
	TargetPct      decimal.Decimal
	EntryOrderType broker.OrderType
	ExitStyle      ExitStyle
	// MaxExitRearms bounds the retry loop for exit pairs the venue
	// cancels without filling. Once exceeded the lifecycle escalates
	// to a single market-order exit. Zero means unbounded.
	MaxExitRearms int
	ShortAllowed  bool
}

// Deps are the lifecycle's collaborators.
type Deps struct {
	Client  broker.Client
	Slots   *risk.SlotPool
	Gate    EntryGate
	Trigger ExitTrigger
	Logger  *slog.Logger
}

// Lifecycle owns one instrument's position life cycle. It is mutated
// exclusively by its own Step; the scheduler guarantees Step is never
// invoked concurrently with itself, so no internal locking is needed.
type Lifecycle struct {
	cfg     Config
	client  broker.Client
	slots   *risk.SlotPool
	gate    EntryGate
	trigger ExitTrigger
	logger  *slog.Logger

	instrument  types.Instrument
	symbol      string
	tradeID     string
	side        types.Side
	instruction types.Side
	refPrice    decimal.Decimal
	quantity    int64

	state      State
	slotHeld   bool
	gatePassed bool
	// positionCheckRequired forces one re-validation against the
	// broker's position list before an exit is submitted. Set on entry
	// confirmation and again on every re-arm.
	positionCheckRequired bool
	rearms                int
	escalated             bool

	entryOrderID     int64
	entryOrderPrice  decimal.Decimal
	entryOrderTime   time.Time
	entryOrderStatus types.OrderStatus
	entryFillPrice   decimal.Decimal
	entryFillTime    time.Time

	stopLossPrice decimal.Decimal
	targetPrice   decimal.Decimal

	stopOrderID       int64
	stopOrderPrice    decimal.Decimal
	stopOrderTime     time.Time
	stopOrderStatus   types.OrderStatus
	targetOrderID     int64
	targetOrderPrice  decimal.Decimal
	targetOrderTime   time.Time
	targetOrderStatus types.OrderStatus
	exitOrderID       int64
	exitOrderStatus   types.OrderStatus

	exitPrice      decimal.Decimal
	exitTime       time.Time
	exitReason     types.ExitReason
	positionStatus types.PositionStatus
	grossPL        decimal.Decimal

	pending []Event
}

// New creates a lifecycle for a fresh signal. The trade id is not
// allocated here; it is regenerated at the moment an entry order is
// actually placed.
func New(instrument types.Instrument, sig types.Signal, cfg Config, deps Deps) *Lifecycle {
	l := newLifecycle(instrument, cfg, deps)
	l.side = sig.Side
	l.instruction = sig.Side
	l.refPrice = sig.RefPrice
	l.state = StateAwaitingEntry

	l.logger.Debug("lifecycle created",
		"symbol", l.symbol,
		"side", l.side,
		"ref_price", l.refPrice,
		"budget", cfg.Budget,
	)
	return l
}

// Restore rebuilds a lifecycle from a persisted record, skipping
// admission. The persisted trade id is kept so the audit trail keeps
// correlating. A slot is claimed for the recovered position.
func Restore(rec types.TradeRecord, cfg Config, deps Deps) *Lifecycle {
	l := newLifecycle(types.Stock(rec.Symbol), cfg, deps)
	l.tradeID = rec.TradeID
	l.side = rec.Side
	l.instruction = rec.Instruction
	l.quantity = rec.Quantity
	l.refPrice = rec.EntryOrderPrice
	l.entryOrderID = rec.EntryOrderID
	l.entryOrderPrice = rec.EntryOrderPrice
	l.entryOrderTime = rec.EntryOrderTime
	l.entryOrderStatus = rec.EntryOrderStatus
	l.entryFillPrice = rec.EntryFillPrice
	l.entryFillTime = rec.EntryFillTime
	l.stopLossPrice = rec.StopLossPrice
	l.targetPrice = rec.TargetPrice
	l.stopOrderID = rec.StopOrderID
	l.stopOrderPrice = rec.StopOrderPrice
	l.stopOrderTime = rec.StopOrderTime
	l.stopOrderStatus = rec.StopOrderStatus
	l.targetOrderID = rec.TargetOrderID
	l.targetOrderPrice = rec.TargetOrderPrice
	l.targetOrderTime = rec.TargetOrderTime
	l.targetOrderStatus = rec.TargetOrderStatus
	l.exitOrderID = rec.ExitOrderID
	l.exitOrderStatus = rec.ExitOrderStatus
	l.positionStatus = rec.PositionStatus
	l.gatePassed = true

	switch {
	case rec.PositionStatus == types.PositionOpen && l.exitWorking():
		l.state = StateExitSubmitted
	case rec.PositionStatus == types.PositionOpen:
		l.state = StatePositionOpen
		l.positionCheckRequired = true
	case rec.EntryOrderStatus == types.OrderStatusOpen:
		l.state = StateEntrySubmitted
	default:
		l.state = StateTerminated
	}

	if !l.state.Terminal() {
		l.slotHeld = l.slots.TryAcquire()
		if !l.slotHeld {
			l.logger.Warn("no slot available for recovered lifecycle",
				"symbol", l.symbol,
				"trade_id", l.tradeID,
			)
		}
	}

	l.logger.Info("lifecycle restored",
		"symbol", l.symbol,
		"trade_id", l.tradeID,
		"state", l.state,
	)
	return l
}

func newLifecycle(instrument types.Instrument, cfg Config, deps Deps) *Lifecycle {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	gate := deps.Gate
	if gate == nil {
		gate = AdmitAll{}
	}
	trigger := deps.Trigger
	if trigger == nil {
		trigger = ArmImmediately{}
	}
	return &Lifecycle{
		cfg:        cfg,
		client:     deps.Client,
		slots:      deps.Slots,
		gate:       gate,
		trigger:    trigger,
		logger:     logger,
		instrument: instrument,
		symbol:     instrument.Symbol,
	}
}

// Step advances the lifecycle by at most one transition against the
// broker's current snapshots and returns the persistence events the
// transition produced. A step that cannot make progress this tick
// returns without effect; stepping a terminal lifecycle is a no-op.
func (l *Lifecycle) Step(ctx context.Context) []Event {
	if l.state.Terminal() {
		return nil
	}

	switch l.state {
	case StateAwaitingEntry:
		l.tryEntry(ctx)
	case StateEntrySubmitted:
		l.confirmEntry()
	case StatePositionOpen:
		l.maybeExit(ctx)
	case StateExitSubmitted:
		l.confirmExit()
	}

	events := l.pending
	l.pending = nil
	return events
}

// tryEntry runs the admission checks and submits the entry order.
// Quantity, funds and book-quality failures terminate the instance
// without taking a slot; an unavailable slot just defers.
func (l *Lifecycle) tryEntry(ctx context.Context) {
	if l.side == types.SideSell && !l.cfg.ShortAllowed {
		l.terminate(types.ErrShortNotAllowed.Error())
		return
	}

	price := l.refPrice.Round(2)
	qty, err := risk.PositionSize(l.cfg.Budget, price)
	if err != nil {
		l.terminate(fmt.Sprintf("position sizing: %v", err))
		return
	}

	cost := price.Mul(decimal.NewFromInt(qty))
	if cost.GreaterThan(l.client.AccountBalance()) {
		l.logger.Debug("not enough funds to take position",
			"symbol", l.symbol,
			"cost", cost,
			"available", l.client.AccountBalance(),
		)
		l.terminate(types.ErrInsufficientFunds.Error())
		return
	}

	if !l.gatePassed {
		verdict, reason := l.gate.Check(l.symbol, l.side, price)
		switch verdict {
		case risk.VerdictDefer:
			return
		case risk.VerdictReject:
			l.logger.Debug("entry admission rejected",
				"symbol", l.symbol,
				"side", l.side,
				"reason", reason,
			)
			l.terminate(fmt.Sprintf("%v: %s", types.ErrDepthRejected, reason))
			return
		}
		l.gatePassed = true
	}

	if !l.slots.TryAcquire() {
		// All position slots busy; retry on a later tick.
		return
	}
	l.slotHeld = true

	orderID := l.client.NextOrderID()
	order := broker.Order{
		Side:     l.instruction,
		Quantity: qty,
		Type:     l.cfg.EntryOrderType,
	}
	if order.Type == broker.OrderTypeLimit {
		order.LimitPrice = price
	}
	if err := l.client.PlaceOrder(ctx, orderID, l.instrument, order); err != nil {
		l.logger.Warn("entry order submission failed, will retry",
			"symbol", l.symbol,
			"err", err,
		)
		l.releaseSlot()
		return
	}

	l.quantity = qty
	l.entryOrderID = orderID
	l.entryOrderPrice = price
	l.entryOrderTime = time.Now()
	l.entryOrderStatus = types.OrderStatusOpen
	l.state = StateEntrySubmitted

	// A fresh trade id per entry attempt: recovered records keep their
	// original id, a new round trip gets its own.
	l.tradeID = uuid.New().String()

	l.logger.Info("entry order placed",
		"symbol", l.symbol,
		"side", l.instruction,
		"qty", qty,
		"price", price,
		"order_id", orderID,
		"trade_id", l.tradeID,
	)
	l.emit(EventEntrySubmitted)
}

// confirmEntry watches the execution snapshot for the entry fill, or
// the order snapshot for a broker-side cancellation.
func (l *Lifecycle) confirmEntry() {
	for _, exec := range l.client.Executions() {
		if exec.OrderID != l.entryOrderID || exec.Symbol != l.symbol {
			continue
		}
		l.entryFillPrice = exec.AvgPrice
		l.entryFillTime = exec.Time
		l.entryOrderStatus = types.OrderStatusFilled
		l.positionStatus = types.PositionOpen
		l.computeExitLevels()
		l.positionCheckRequired = true
		l.state = StatePositionOpen

		l.logger.Info("entry order filled",
			"symbol", l.symbol,
			"side", l.instruction,
			"qty", l.quantity,
			"price", l.entryFillPrice,
			"stop", l.stopLossPrice,
			"target", l.targetPrice,
		)
		l.emit(EventEntryConfirmed)
		return
	}

	for _, ord := range l.client.OpenOrders() {
		if ord.OrderID != l.entryOrderID || !ord.Status.IsCancelled() {
			continue
		}
		l.entryOrderStatus = ord.Status
		l.positionStatus = types.PositionNone
		l.releaseSlot()
		l.state = StateTerminated

		l.logger.Info("entry order cancelled by broker, closing instance",
			"symbol", l.symbol,
			"order_id", l.entryOrderID,
			"status", ord.Status,
		)
		l.emit(EventEntryConfirmed)
		return
	}
}

// computeExitLevels derives the stop and target prices from the fill
// price and the configured percentage bands.
func (l *Lifecycle) computeExitLevels() {
	hundred := decimal.NewFromInt(100)
	stop := l.cfg.StopLossPct.Div(hundred)
	target := l.cfg.TargetPct.Div(hundred)
	one := decimal.NewFromInt(1)

	if l.side == types.SideBuy {
		l.targetPrice = l.entryFillPrice.Mul(one.Add(target)).Round(2)
		l.stopLossPrice = l.entryFillPrice.Mul(one.Sub(stop)).Round(2)
	} else {
		l.targetPrice = l.entryFillPrice.Mul(one.Sub(target)).Round(2)
		l.stopLossPrice = l.entryFillPrice.Mul(one.Add(stop)).Round(2)
	}
}

// maybeExit evaluates the exit trigger and, after re-validating the
// position against the broker, submits the exit order(s).
func (l *Lifecycle) maybeExit(ctx context.Context) {
	fire, reason := l.trigger.ShouldExit(ExitView{
		Symbol:      l.symbol,
		Side:        l.side,
		Quantity:    l.quantity,
		EntryPrice:  l.entryFillPrice,
		StopPrice:   l.stopLossPrice,
		TargetPrice: l.targetPrice,
		EntryTime:   l.entryFillTime,
	})
	if !fire {
		return
	}

	if l.positionCheckRequired {
		if !l.positionHeld() {
			l.forceClose()
			return
		}
		l.positionCheckRequired = false
	}

	l.instruction = l.side.Opposite()
	if l.escalated || l.cfg.ExitStyle == ExitSingleOrder {
		l.submitSingleExit(ctx, reason)
	} else {
		l.submitExitPair(ctx)
	}
}

// positionHeld checks the broker's position snapshot for at least the
// expected quantity on the held side.
func (l *Lifecycle) positionHeld() bool {
	for _, pos := range l.client.Positions() {
		if pos.Symbol != l.symbol {
			continue
		}
		if l.side == types.SideBuy && pos.Quantity >= l.quantity {
			return true
		}
		if l.side == types.SideSell && pos.Quantity <= -l.quantity {
			return true
		}
	}
	return false
}

// forceClose handles a phantom close: the manager believes the
// position is open but the broker's snapshot no longer shows it. No
// exit order is submitted against the nonexistent position; the record
// is closed and the instance terminated.
func (l *Lifecycle) forceClose() {
	l.logger.Warn("position missing from broker snapshot, force-closing record",
		"symbol", l.symbol,
		"trade_id", l.tradeID,
		"qty", l.quantity,
	)

	l.positionStatus = types.PositionClosed
	l.exitReason = types.ExitReasonForced
	l.exitTime = time.Now()
	l.releaseSlot()
	l.state = StateTerminated
	l.emit(EventExitConfirmed)
}

// submitExitPair places the mutually cancelling target limit and
// protective stop, sharing one cancel-group tag.
func (l *Lifecycle) submitExitPair(ctx context.Context) {
	targetID := l.client.NextOrderID()
	stopID := l.client.NextOrderID()
	tag := fmt.Sprintf("OCA-%d", targetID)
	l.client.CancelGroup(tag, []int64{targetID, stopID})

	targetOrder := broker.Order{
		Side:       l.instruction,
		Quantity:   l.quantity,
		Type:       broker.OrderTypeLimit,
		LimitPrice: l.targetPrice,
		OCAGroup:   tag,
	}
	stopOrder := broker.Order{
		Side:      l.instruction,
		Quantity:  l.quantity,
		Type:      broker.OrderTypeStop,
		StopPrice: l.stopLossPrice,
		OCAGroup:  tag,
	}

	if err := l.client.PlaceOrder(ctx, targetID, l.instrument, targetOrder); err != nil {
		l.logger.Warn("target order submission failed, will retry",
			"symbol", l.symbol, "err", err)
		return
	}
	l.targetOrderID = targetID
	l.targetOrderPrice = l.targetPrice
	l.targetOrderTime = time.Now()
	l.targetOrderStatus = types.OrderStatusOpen

	if err := l.client.PlaceOrder(ctx, stopID, l.instrument, stopOrder); err != nil {
		// The target leg is already working; broker delivery is
		// assumed reliable, so log and carry on tracking both ids.
		l.logger.Error("stop order submission failed",
			"symbol", l.symbol, "err", err)
	}
	l.stopOrderID = stopID
	l.stopOrderPrice = l.stopLossPrice
	l.stopOrderTime = time.Now()
	l.stopOrderStatus = types.OrderStatusOpen
	l.state = StateExitSubmitted

	l.logger.Info("exit order pair placed",
		"symbol", l.symbol,
		"side", l.instruction,
		"qty", l.quantity,
		"target_id", targetID,
		"target_price", l.targetOrderPrice,
		"stop_id", stopID,
		"stop_price", l.stopOrderPrice,
		"oca", tag,
	)
	l.emit(EventExitSubmitted)
}

// submitSingleExit places one opposite-side market order.
func (l *Lifecycle) submitSingleExit(ctx context.Context, reason string) {
	orderID := l.client.NextOrderID()
	order := broker.Order{
		Side:     l.instruction,
		Quantity: l.quantity,
		Type:     broker.OrderTypeMarket,
	}
	if err := l.client.PlaceOrder(ctx, orderID, l.instrument, order); err != nil {
		l.logger.Warn("exit order submission failed, will retry",
			"symbol", l.symbol, "err", err)
		return
	}

	l.exitOrderID = orderID
	l.exitOrderStatus = types.OrderStatusOpen
	l.state = StateExitSubmitted

	l.logger.Info("exit order placed",
		"symbol", l.symbol,
		"side", l.instruction,
		"qty", l.quantity,
		"order_id", orderID,
		"reason", reason,
	)
	l.emit(EventExitSubmitted)
}

// confirmExit identifies which exit order filled, or detects that the
// venue cancelled every working exit order and re-arms.
func (l *Lifecycle) confirmExit() {
	for _, exec := range l.client.Executions() {
		if exec.Symbol != l.symbol {
			continue
		}
		switch exec.OrderID {
		case 0:
			continue
		case l.stopOrderID:
			l.exitReason = types.ExitReasonStop
			l.stopOrderStatus = types.OrderStatusFilled
			l.targetOrderStatus = types.OrderStatusCancelled
		case l.targetOrderID:
			l.exitReason = types.ExitReasonTarget
			l.targetOrderStatus = types.OrderStatusFilled
			l.stopOrderStatus = types.OrderStatusCancelled
		case l.exitOrderID:
			l.exitReason = types.ExitReasonMarket
			l.exitOrderStatus = types.OrderStatusFilled
		default:
			continue
		}

		l.exitPrice = exec.AvgPrice
		l.exitTime = exec.Time
		l.positionStatus = types.PositionClosed
		l.grossPL = l.computeGrossPL()
		l.releaseSlot()
		l.state = StateClosed

		l.logger.Info("exit order filled, trade completed",
			"symbol", l.symbol,
			"trade_id", l.tradeID,
			"exit_reason", l.exitReason,
			"price", l.exitPrice,
			"gross_pl", l.grossPL,
		)
		l.emit(EventExitConfirmed)
		return
	}

	if l.exitOrdersCancelled() {
		l.rearm()
	}
}

// exitOrdersCancelled reports whether every working exit order has
// been cancelled by the venue without a fill.
func (l *Lifecycle) exitOrdersCancelled() bool {
	cancelled := make(map[int64]bool)
	for _, ord := range l.client.OpenOrders() {
		if ord.Status.IsCancelled() {
			cancelled[ord.OrderID] = true
		}
	}

	if l.exitOrderID != 0 {
		return cancelled[l.exitOrderID]
	}
	return l.stopOrderID != 0 && cancelled[l.stopOrderID] &&
		l.targetOrderID != 0 && cancelled[l.targetOrderID]
}

// rearm resets the exit sub-state so a fresh exit can be submitted on
// a later tick. Past the configured bound, the next exit escalates to
// a single market order.
func (l *Lifecycle) rearm() {
	l.rearms++
	l.logger.Warn("exit orders cancelled without fill, re-arming",
		"symbol", l.symbol,
		"trade_id", l.tradeID,
		"rearms", l.rearms,
	)

	l.stopOrderID, l.targetOrderID, l.exitOrderID = 0, 0, 0
	l.stopOrderStatus = types.OrderStatusNone
	l.targetOrderStatus = types.OrderStatusNone
	l.exitOrderStatus = types.OrderStatusNone
	l.positionCheckRequired = true
	l.state = StatePositionOpen

	if l.cfg.MaxExitRearms > 0 && l.rearms >= l.cfg.MaxExitRearms && !l.escalated {
		l.escalated = true
		l.logger.Error("exit re-arm bound exceeded, escalating to market exit",
			"symbol", l.symbol,
			"trade_id", l.tradeID,
			"rearms", l.rearms,
		)
	}
}

// computeGrossPL returns the realized gross profit for the audit row.
func (l *Lifecycle) computeGrossPL() decimal.Decimal {
	qty := decimal.NewFromInt(l.quantity)
	if l.side == types.SideBuy {
		return l.exitPrice.Sub(l.entryFillPrice).Mul(qty)
	}
	return l.entryFillPrice.Sub(l.exitPrice).Mul(qty)
}

// terminate is the one-way transition for admission failures. No slot
// is held at any call site unless releaseSlot handles it.
func (l *Lifecycle) terminate(reason string) {
	l.releaseSlot()
	l.state = StateTerminated
	l.logger.Debug("lifecycle terminated",
		"symbol", l.symbol,
		"reason", reason,
	)
}

func (l *Lifecycle) releaseSlot() {
	if !l.slotHeld {
		return
	}
	l.slotHeld = false
	if err := l.slots.Release(); err != nil {
		l.logger.Error("slot release failed", "symbol", l.symbol, "err", err)
	}
}

func (l *Lifecycle) exitWorking() bool {
	return l.stopOrderStatus == types.OrderStatusOpen ||
		l.targetOrderStatus == types.OrderStatusOpen ||
		l.exitOrderStatus == types.OrderStatusOpen
}

func (l *Lifecycle) emit(kind EventKind) {
	l.pending = append(l.pending, Event{
		Kind:   kind,
		Record: l.Record(),
		At:     time.Now(),
	})
}

// Record snapshots the lifecycle's full persisted field set.
func (l *Lifecycle) Record() types.TradeRecord {
	return types.TradeRecord{
		TradeID:           l.tradeID,
		Symbol:            l.symbol,
		TradingMode:       l.cfg.TradingMode,
		Side:              l.side,
		Instruction:       l.instruction,
		Quantity:          l.quantity,
		EntryOrderID:      l.entryOrderID,
		EntryOrderPrice:   l.entryOrderPrice,
		EntryOrderTime:    l.entryOrderTime,
		EntryOrderStatus:  l.entryOrderStatus,
		EntryFillPrice:    l.entryFillPrice,
		EntryFillTime:     l.entryFillTime,
		StopLossPrice:     l.stopLossPrice,
		TargetPrice:       l.targetPrice,
		StopOrderID:       l.stopOrderID,
		StopOrderPrice:    l.stopOrderPrice,
		StopOrderTime:     l.stopOrderTime,
		StopOrderStatus:   l.stopOrderStatus,
		TargetOrderID:     l.targetOrderID,
		TargetOrderPrice:  l.targetOrderPrice,
		TargetOrderTime:   l.targetOrderTime,
		TargetOrderStatus: l.targetOrderStatus,
		ExitOrderID:       l.exitOrderID,
		ExitOrderStatus:   l.exitOrderStatus,
		ExitPrice:         l.exitPrice,
		ExitTime:          l.exitTime,
		ExitReason:        l.exitReason,
		PositionStatus:    l.positionStatus,
		GrossPL:           l.grossPL,
	}
}

// Symbol returns the lifecycle's instrument symbol.
func (l *Lifecycle) Symbol() string { return l.symbol }

// TradeID returns the current trade id. Empty until an entry order has
// been placed.
func (l *Lifecycle) TradeID() string { return l.tradeID }

// State returns the current lifecycle state.
func (l *Lifecycle) State() State { return l.state }

// Ended returns true once the lifecycle has reached a terminal state.
func (l *Lifecycle) Ended() bool { return l.state.Terminal() }

// Rearms returns how many times the exit has been re-armed.
func (l *Lifecycle) Rearms() int { return l.rearms }
