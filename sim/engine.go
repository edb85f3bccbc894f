// Package sim runs live trading simulations: an in-memory keyed store of
// Simulation state advanced on a fixed cadence by one goroutine per run.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cryptosim/journal"
	"cryptosim/market"
	"cryptosim/metrics"
	"cryptosim/pkg/id"
	"cryptosim/signal"
)

var (
	// ErrNotFound means the simulation id is unknown.
	ErrNotFound = errors.New("simulation not found")

	// ErrInvalidParameter rejects malformed start parameters before any
	// state is created.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// maxTickReturn bounds how much of the touched amount a single tick can
// realize, before the strategy's leverage multiplier.
const maxTickReturn = 0.01

// Config tunes the engine. Zero values fall back to defaults.
type Config struct {
	TickInterval  time.Duration // cadence of live ticks
	HistoryWindow int           // rolling prices kept per simulation
	TradeCap      int           // prune Trades above this length...
	TradeKeep     int           // ...down to the most recent TradeKeep
	FallbackPrice float64       // used when the source has no initial price
}

func (c Config) withDefaults() Config {
	if c.TickInterval <= 0 {
		c.TickInterval = 5 * time.Second
	}
	if c.HistoryWindow <= 0 {
		c.HistoryWindow = 50
	}
	if c.TradeCap <= 0 {
		c.TradeCap = 100
	}
	if c.TradeKeep <= 0 || c.TradeKeep > c.TradeCap {
		c.TradeKeep = c.TradeCap / 2
	}
	if c.FallbackPrice <= 0 {
		c.FallbackPrice = 50_000_000 // BTC/KRW ballpark
	}
	return c
}

// StartParams are the caller-supplied inputs of Start.
type StartParams struct {
	Strategy       string
	Symbol         string
	InitialBalance float64
	Duration       time.Duration
}

// Engine owns all simulations. A single mutex guards the store and every
// simulation's state; market data fetches happen outside the lock so a
// slow source never blocks other simulations' ticks.
type Engine struct {
	mu   sync.Mutex
	cfg  Config
	src  market.Source
	jrnl journal.Journal
	log  *slog.Logger
	sims map[string]*Simulation
	wg   sync.WaitGroup
}

// NewEngine creates an Engine. journal may be nil to disable journaling.
func NewEngine(src market.Source, jrnl journal.Journal, log *slog.Logger, cfg Config) *Engine {
	if jrnl == nil {
		jrnl = journal.Noop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		cfg:  cfg.withDefaults(),
		src:  src,
		jrnl: jrnl,
		log:  log,
		sims: make(map[string]*Simulation),
	}
}

// Start validates the parameters, creates a running simulation and spawns
// its tick goroutine. The returned id addresses all later operations.
func (e *Engine) Start(ctx context.Context, p StartParams) (string, error) {
	strategy, err := signal.ParseStrategy(p.Strategy)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	if p.Symbol == "" {
		return "", fmt.Errorf("%w: symbol is required", ErrInvalidParameter)
	}
	if p.InitialBalance <= 0 {
		return "", fmt.Errorf("%w: initial balance must be positive, got %v", ErrInvalidParameter, p.InitialBalance)
	}
	if p.Duration <= 0 {
		return "", fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidParameter, p.Duration)
	}

	price, err := e.src.CurrentPrice(ctx, p.Symbol)
	if err != nil || price <= 0 {
		// Live simulations tolerate an unavailable source.
		price = e.cfg.FallbackPrice
		e.log.Warn("initial price unavailable, using fallback",
			"symbol", p.Symbol, "fallback", price, "error", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s := &Simulation{
		ID:             id.New(),
		Strategy:       strategy,
		Symbol:         p.Symbol,
		InitialBalance: p.InitialBalance,
		CurrentBalance: p.InitialBalance,
		CurrentPrice:   price,
		Status:         StatusRunning,
		StartedAt:      time.Now().UTC(),
		Duration:       p.Duration,
		history:        []float64{price},
		cancel:         cancel,
	}

	e.mu.Lock()
	e.sims[s.ID] = s
	e.mu.Unlock()

	e.wg.Add(1)
	go e.run(runCtx, s.ID)

	e.log.Info("simulation started",
		"id", s.ID, "strategy", strategy, "symbol", p.Symbol,
		"balance", p.InitialBalance, "duration", p.Duration)
	return s.ID, nil
}

// run drives one simulation until it leaves the running state.
func (e *Engine) run(ctx context.Context, simID string) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if done := e.tick(ctx, simID); done {
				return
			}
		}
	}
}

// tick advances one simulation by one step. It returns true when the
// simulation reached a terminal state or disappeared and the goroutine
// should exit.
func (e *Engine) tick(ctx context.Context, simID string) (done bool) {
	defer func() {
		if r := recover(); r != nil {
			e.markError(simID, fmt.Sprintf("tick panic: %v", r))
			done = true
		}
	}()

	e.mu.Lock()
	s, ok := e.sims[simID]
	if !ok {
		e.mu.Unlock()
		return true
	}
	if s.Status != StatusRunning {
		e.mu.Unlock()
		return true
	}
	if s.Elapsed(time.Now()) >= s.Duration {
		e.completeLocked(s)
		e.mu.Unlock()
		return true
	}
	symbol := s.Symbol
	lastPrice := s.CurrentPrice
	e.mu.Unlock()

	// Best effort refresh outside the lock; keep the prior price on failure.
	price, err := e.src.CurrentPrice(ctx, symbol)
	if err != nil || price <= 0 {
		price = lastPrice
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok = e.sims[simID]
	if !ok || s.Status != StatusRunning {
		// Stopped while we were fetching; the at-most-one-more-tick race is
		// resolved in favor of the stop.
		return true
	}

	history := s.history
	s.CurrentPrice = price
	s.history = append(s.history, price)
	if len(s.history) > e.cfg.HistoryWindow {
		s.history = s.history[len(s.history)-e.cfg.HistoryWindow:]
	}

	d := signal.Decide(s.Strategy, history, price)
	if d.Action == signal.Hold {
		return false
	}

	params := signal.ParamsFor(s.Strategy)
	amount := s.CurrentBalance * params.TradeFraction
	profit := amount * d.Magnitude * maxTickReturn * params.Leverage
	if d.Action == signal.Sell {
		profit = -profit
	}

	s.CurrentBalance += profit
	s.TradeCount++
	trade := Trade{
		ID:       id.New(),
		Time:     time.Now().UTC(),
		Strategy: string(s.Strategy),
		Action:   d.Action.String(),
		Amount:   amount,
		Profit:   profit,
		Balance:  s.CurrentBalance,
	}
	s.Trades = append(s.Trades, trade)
	if len(s.Trades) > e.cfg.TradeCap {
		s.Trades = append([]Trade(nil), s.Trades[len(s.Trades)-e.cfg.TradeKeep:]...)
	}

	s.ProfitLoss = metrics.ProfitLoss(s.CurrentBalance, s.InitialBalance)
	s.ProfitRate = metrics.ProfitRate(s.CurrentBalance, s.InitialBalance)

	e.journalLocked(s, trade)
	return false
}

// journalLocked records the trade and a balance snapshot. Journal failures
// are logged, never fatal to the tick.
func (e *Engine) journalLocked(s *Simulation, t Trade) {
	if err := e.jrnl.RecordTrade(journal.TradeRecord{
		TradeID:      t.ID,
		SimulationID: s.ID,
		Symbol:       s.Symbol,
		Strategy:     t.Strategy,
		Action:       t.Action,
		Amount:       t.Amount,
		Profit:       t.Profit,
		Balance:      t.Balance,
		Time:         t.Time,
	}); err != nil {
		e.log.Warn("journal trade", "id", s.ID, "error", err)
	}
	if err := e.jrnl.RecordBalance(journal.BalanceSnapshot{
		SimulationID: s.ID,
		Time:         t.Time,
		Balance:      s.CurrentBalance,
		ProfitLoss:   s.ProfitLoss,
		ProfitRate:   s.ProfitRate,
		TradeCount:   s.TradeCount,
	}); err != nil {
		e.log.Warn("journal balance", "id", s.ID, "error", err)
	}
}

func (e *Engine) completeLocked(s *Simulation) {
	s.Status = StatusCompleted
	if s.cancel != nil {
		s.cancel()
	}
	e.log.Info("simulation completed", "id", s.ID, "profit_rate", s.ProfitRate, "trades", s.TradeCount)
}

// markError transitions a simulation to the error state and halts ticking.
func (e *Engine) markError(simID, msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sims[simID]
	if !ok || s.Status.Terminal() {
		return
	}
	s.Status = StatusError
	s.Error = msg
	if s.cancel != nil {
		s.cancel()
	}
	e.log.Error("simulation failed", "id", simID, "error", msg)
}

// Status returns a snapshot of one simulation. It also performs the lazy
// completed-transition check so a status read never reports an expired
// simulation as running.
func (e *Engine) Status(simID string) (Simulation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sims[simID]
	if !ok {
		return Simulation{}, fmt.Errorf("%w: %s", ErrNotFound, simID)
	}
	if s.Status == StatusRunning && s.Elapsed(time.Now()) >= s.Duration {
		e.completeLocked(s)
	}
	return s.snapshot(), nil
}

// Stop transitions a running simulation to stopped. Stopping an already
// terminal simulation is a no-op, not an error.
func (e *Engine) Stop(simID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sims[simID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, simID)
	}
	if s.Status.Terminal() {
		return nil
	}
	s.Status = StatusStopped
	if s.cancel != nil {
		s.cancel()
	}
	e.log.Info("simulation stopped", "id", simID, "trades", s.TradeCount)
	return nil
}

// Remove stops a simulation and deletes it from the store. The store has
// no automatic reaping; removal is always an explicit client action.
func (e *Engine) Remove(simID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sims[simID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, simID)
	}
	if !s.Status.Terminal() {
		s.Status = StatusStopped
		if s.cancel != nil {
			s.cancel()
		}
	}
	delete(e.sims, simID)
	return nil
}

// List returns snapshots of all simulations in unspecified order.
func (e *Engine) List() []Simulation {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now()
	out := make([]Simulation, 0, len(e.sims))
	for _, s := range e.sims {
		if s.Status == StatusRunning && s.Elapsed(now) >= s.Duration {
			e.completeLocked(s)
		}
		out = append(out, s.snapshot())
	}
	return out
}

// Close stops every running simulation and waits for the tick goroutines
// to exit. The engine must not be used afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	for _, s := range e.sims {
		if !s.Status.Terminal() {
			s.Status = StatusStopped
			if s.cancel != nil {
				s.cancel()
			}
		}
	}
	e.mu.Unlock()

	e.wg.Wait()
}
