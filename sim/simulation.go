package sim

import (
	"context"
	"time"

	"cryptosim/signal"
)

// Status is the lifecycle state of a simulation. Running transitions to
// exactly one of the terminal states and never leaves it.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusStopped   Status = "stopped"
	StatusError     Status = "error"
)

// Terminal reports whether no further ticks may mutate the simulation.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusStopped || s == StatusError
}

// Trade is one executed tick decision. Immutable once appended.
type Trade struct {
	ID       string    `json:"id"`
	Time     time.Time `json:"time"`
	Strategy string    `json:"strategy"`
	Action   string    `json:"action"`
	Amount   float64   `json:"amount"`
	Profit   float64   `json:"profit"`
	Balance  float64   `json:"balance"`
}

// Simulation is one in-memory strategy run. All mutation happens inside
// the engine tick under the engine lock; callers only ever see snapshots.
type Simulation struct {
	ID             string          `json:"id"`
	Strategy       signal.Strategy `json:"strategy"`
	Symbol         string          `json:"symbol"`
	InitialBalance float64         `json:"initial_balance"`
	CurrentBalance float64         `json:"current_balance"`
	CurrentPrice   float64         `json:"current_price"`
	Status         Status          `json:"status"`
	Error          string          `json:"error,omitempty"`
	StartedAt      time.Time       `json:"started_at"`
	Duration       time.Duration   `json:"-"`
	ProfitLoss     float64         `json:"profit_loss"`
	ProfitRate     float64         `json:"profit_rate"`

	// TradeCount is the true historical count; Trades holds only the most
	// recent window once pruning kicks in.
	TradeCount int     `json:"trade_count"`
	Trades     []Trade `json:"trades"`

	history []float64 // rolling price history feeding signal.Decide
	cancel  context.CancelFunc
}

// snapshot returns a copy safe to hand to callers after the engine lock is
// released. Trades are copied so later pruning cannot alias.
func (s *Simulation) snapshot() Simulation {
	cp := *s
	cp.Trades = append([]Trade(nil), s.Trades...)
	cp.history = nil
	cp.cancel = nil
	return cp
}

// Elapsed returns wall-clock time since the simulation started.
func (s *Simulation) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.StartedAt)
}

// Remaining returns the wall-clock time left before auto-completion.
func (s *Simulation) Remaining(now time.Time) time.Duration {
	if r := s.Duration - s.Elapsed(now); r > 0 {
		return r
	}
	return 0
}
