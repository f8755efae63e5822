// Package scheduler owns the set of live trade lifecycles. It drains
// the signal intake, steps every lifecycle once per tick with bounded
// parallelism, fans lifecycle events out to persistence, metrics and
// alerting, and retires lifecycles that have ended.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tathienbao/lifecycle-bot/internal/alerting"
	"github.com/tathienbao/lifecycle-bot/internal/broker"
	"github.com/tathienbao/lifecycle-bot/internal/lifecycle"
	"github.com/tathienbao/lifecycle-bot/internal/metrics"
	"github.com/tathienbao/lifecycle-bot/internal/persistence"
	"github.com/tathienbao/lifecycle-bot/internal/risk"
	"github.com/tathienbao/lifecycle-bot/internal/signal"
	"github.com/tathienbao/lifecycle-bot/internal/types"
)

// Config holds scheduler parameters.
type Config struct {
	TickInterval time.Duration
	// Workers bounds how many lifecycles are stepped concurrently.
	// Zero defaults to the slot pool capacity.
	Workers int
	// BudgetPct is the percentage of the account balance committed to
	// each new position.
	BudgetPct decimal.Decimal

	Lifecycle lifecycle.Config
}

// Deps are the scheduler's collaborators. Repo and Alerter may be nil.
type Deps struct {
	Client  broker.Client
	Slots   *risk.SlotPool
	Source  signal.Source
	Gate    lifecycle.EntryGate
	Trigger lifecycle.ExitTrigger
	Repo    persistence.Repository
	Metrics *metrics.Recorder
	Alerter alerting.Alerter
	Logger  *slog.Logger
}

// Scheduler drives all lifecycle instances. The lifecycle map is only
// touched from Run's goroutine; each lifecycle's Step runs on a worker
// goroutine but never concurrently with itself.
type Scheduler struct {
	cfg     Config
	client  broker.Client
	slots   *risk.SlotPool
	source  signal.Source
	gate    lifecycle.EntryGate
	trigger lifecycle.ExitTrigger
	repo    persistence.Repository
	rec     *metrics.Recorder
	alerter alerting.Alerter
	logger  *slog.Logger

	lifecycles map[string]*lifecycle.Lifecycle
	workers    int
}

// New creates a scheduler.
func New(cfg Config, deps Deps) *Scheduler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = deps.Slots.Capacity()
	}
	if workers < 1 {
		workers = 1
	}

	return &Scheduler{
		cfg:        cfg,
		client:     deps.Client,
		slots:      deps.Slots,
		source:     deps.Source,
		gate:       deps.Gate,
		trigger:    deps.Trigger,
		repo:       deps.Repo,
		rec:        deps.Metrics,
		alerter:    deps.Alerter,
		logger:     logger,
		lifecycles: make(map[string]*lifecycle.Lifecycle),
		workers:    workers,
	}
}

// Run ticks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started",
		"tick_interval", s.cfg.TickInterval,
		"workers", s.workers,
		"slots", s.slots.Capacity(),
	)

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped", "active", len(s.lifecycles))
			return ctx.Err()
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one scheduling pass: admit new signals, step every
// lifecycle, fan out events, retire the finished.
func (s *Scheduler) Tick(ctx context.Context) {
	start := time.Now()

	s.admitSignals(ctx)
	events := s.stepAll(ctx)
	s.dispatch(ctx, events)
	s.retire()

	if s.rec != nil {
		s.rec.RecordTick(time.Since(start))
		s.rec.RecordActiveLifecycles(len(s.lifecycles))
		s.rec.RecordSlotsAvailable(s.slots.Available())
	}
}

// admitSignals drains the intake and creates a lifecycle per signal.
// One live lifecycle per symbol; duplicates are dropped.
func (s *Scheduler) admitSignals(ctx context.Context) {
	for _, sig := range s.source.Poll(ctx) {
		if s.rec != nil {
			s.rec.RecordSignal(sig.Side.String())
		}

		if _, busy := s.lifecycles[sig.Symbol]; busy {
			s.logger.Debug("symbol already managed, dropping signal",
				"symbol", sig.Symbol,
			)
			if s.rec != nil {
				s.rec.RecordSignalRejected("duplicate_symbol")
			}
			continue
		}

		cfg := s.cfg.Lifecycle
		cfg.Budget = s.entryBudget()

		s.lifecycles[sig.Symbol] = lifecycle.New(types.Stock(sig.Symbol), sig, cfg, lifecycle.Deps{
			Client:  s.client,
			Slots:   s.slots,
			Gate:    s.gate,
			Trigger: s.trigger,
			Logger:  s.logger,
		})
	}
}

// entryBudget computes the cash committed to one position from the
// current balance.
func (s *Scheduler) entryBudget() decimal.Decimal {
	return s.client.AccountBalance().
		Mul(s.cfg.BudgetPct).
		Div(decimal.NewFromInt(100))
}

type stepResult struct {
	symbol string
	rearms int
	events []lifecycle.Event
}

// stepAll steps every lifecycle with at most `workers` running at
// once. Each lifecycle is stepped by exactly one goroutine per tick.
func (s *Scheduler) stepAll(ctx context.Context) []stepResult {
	if len(s.lifecycles) == 0 {
		return nil
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []stepResult
	)
	sem := make(chan struct{}, s.workers)

	for _, lc := range s.lifecycles {
		wg.Add(1)
		sem <- struct{}{}
		go func(lc *lifecycle.Lifecycle) {
			defer wg.Done()
			defer func() { <-sem }()

			before := lc.Rearms()
			events := lc.Step(ctx)

			mu.Lock()
			results = append(results, stepResult{
				symbol: lc.Symbol(),
				rearms: lc.Rearms() - before,
				events: events,
			})
			mu.Unlock()
		}(lc)
	}
	wg.Wait()

	return results
}

// dispatch applies step results to persistence, metrics and alerting.
// Runs serially so the store sees events in tick order.
func (s *Scheduler) dispatch(ctx context.Context, results []stepResult) {
	for _, res := range results {
		if res.rearms > 0 {
			s.onRearm(ctx, res.symbol)
		}
		for _, ev := range res.events {
			s.persist(ctx, ev)
			s.observe(ctx, ev)
		}
	}
}

func (s *Scheduler) persist(ctx context.Context, ev lifecycle.Event) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Apply(ctx, ev); err != nil {
		s.logger.Error("persist lifecycle event failed",
			"kind", ev.Kind,
			"trade_id", ev.Record.TradeID,
			"symbol", ev.Record.Symbol,
			"err", err,
		)
		if s.rec != nil {
			s.rec.RecordPersistenceError()
		}
	}
}

func (s *Scheduler) observe(ctx context.Context, ev lifecycle.Event) {
	rec := ev.Record
	switch ev.Kind {
	case lifecycle.EventEntrySubmitted:
		if s.rec != nil {
			s.rec.RecordOrder(rec.Symbol, rec.Instruction.String(), "entry")
		}
		s.alert(ctx, alerting.EventEntryPlaced, "entry order placed",
			"symbol", rec.Symbol,
			"side", rec.Instruction.String(),
			"qty", rec.Quantity,
			"price", rec.EntryOrderPrice,
		)

	case lifecycle.EventEntryConfirmed:
		if rec.PositionStatus == types.PositionOpen {
			s.alert(ctx, alerting.EventPositionOpened, "position opened",
				"symbol", rec.Symbol,
				"side", rec.Side.String(),
				"qty", rec.Quantity,
				"fill", rec.EntryFillPrice,
				"stop", rec.StopLossPrice,
				"target", rec.TargetPrice,
			)
		} else if s.rec != nil {
			s.rec.RecordSignalRejected("entry_cancelled")
		}

	case lifecycle.EventExitSubmitted:
		if s.rec != nil {
			s.rec.RecordOrder(rec.Symbol, rec.Instruction.String(), "exit")
		}

	case lifecycle.EventExitConfirmed:
		if rec.ExitReason == types.ExitReasonForced {
			if s.rec != nil {
				s.rec.RecordPhantomClose(rec.Symbol)
			}
			s.alert(ctx, alerting.EventPhantomClose, "position closed outside manager control",
				"symbol", rec.Symbol,
				"trade_id", rec.TradeID,
				"qty", rec.Quantity,
			)
			return
		}
		if s.rec != nil {
			s.rec.RecordTradeClosed(rec.Symbol, rec.Side.String(), string(rec.ExitReason), rec.GrossPL)
		}
		s.alert(ctx, alerting.EventTradeClosed, "trade closed",
			"symbol", rec.Symbol,
			"side", rec.Side.String(),
			"reason", string(rec.ExitReason),
			"exit", rec.ExitPrice,
			"gross_pl", rec.GrossPL,
		)
	}
}

func (s *Scheduler) onRearm(ctx context.Context, symbol string) {
	if s.rec != nil {
		s.rec.RecordRearm(symbol)
	}

	lc := s.lifecycles[symbol]
	event := alerting.EventExitRearmed
	message := "exit orders cancelled by venue, re-armed"
	if lc != nil && s.cfg.Lifecycle.MaxExitRearms > 0 && lc.Rearms() >= s.cfg.Lifecycle.MaxExitRearms {
		event = alerting.EventExitEscalated
		message = "exit retries exhausted, escalating to market order"
	}
	s.alert(ctx, event, message, "symbol", symbol)
}

func (s *Scheduler) alert(ctx context.Context, event alerting.AlertEvent, message string, fields ...any) {
	if s.alerter == nil {
		return
	}
	if err := s.alerter.Alert(ctx, alerting.EventSeverity(event), message, fields...); err != nil {
		s.logger.Error("alert failed", "event", string(event), "err", err)
	}
}

// retire removes ended lifecycles from the map.
func (s *Scheduler) retire() {
	for symbol, lc := range s.lifecycles {
		if lc.Ended() {
			s.logger.Debug("lifecycle retired",
				"symbol", symbol,
				"state", lc.State(),
			)
			delete(s.lifecycles, symbol)
		}
	}
}

// RecoverOpenTrades rebuilds lifecycles for trades the store still
// marks open. Called once before Run.
func (s *Scheduler) RecoverOpenTrades(ctx context.Context) (int, error) {
	if s.repo == nil {
		return 0, nil
	}

	records, err := s.repo.OpenTrades(ctx)
	if err != nil {
		return 0, err
	}

	for _, rec := range records {
		if _, busy := s.lifecycles[rec.Symbol]; busy {
			s.logger.Warn("duplicate open trade row skipped",
				"symbol", rec.Symbol,
				"trade_id", rec.TradeID,
			)
			continue
		}

		cfg := s.cfg.Lifecycle
		cfg.Budget = s.entryBudget()

		s.lifecycles[rec.Symbol] = lifecycle.Restore(rec, cfg, lifecycle.Deps{
			Client:  s.client,
			Slots:   s.slots,
			Gate:    s.gate,
			Trigger: s.trigger,
			Logger:  s.logger,
		})
	}

	if len(records) > 0 {
		s.alert(ctx, alerting.EventTradesRecovered, "open trades recovered",
			"count", len(records),
		)
	}

	return len(records), nil
}

// Active returns the number of live lifecycles.
func (s *Scheduler) Active() int {
	return len(s.lifecycles)
}

// Managing reports whether a symbol currently has a live lifecycle.
func (s *Scheduler) Managing(symbol string) bool {
	_, ok := s.lifecycles[symbol]
	return ok
}
