// Package journal persists executed simulation trades and balance
// snapshots. The simulation store itself is in-memory only; the journal is
// the durable record of what a run did.
package journal

import "time"

// TradeRecord is one executed simulation trade.
type TradeRecord struct {
	TradeID      string
	SimulationID string
	Symbol       string
	Strategy     string
	Action       string
	Amount       float64 // position size touched, in quote currency
	Profit       float64 // realized profit or loss of this tick
	Balance      float64 // balance after the trade
	Time         time.Time
}

// BalanceSnapshot captures simulation performance after a trade.
type BalanceSnapshot struct {
	SimulationID string
	Time         time.Time
	Balance      float64
	ProfitLoss   float64
	ProfitRate   float64
	TradeCount   int
}

// Journal records trades and balance snapshots. Implementations must be
// safe for concurrent use by multiple simulations.
type Journal interface {
	RecordTrade(TradeRecord) error
	RecordBalance(BalanceSnapshot) error
	Close() error
}

// Noop discards everything. Used when journaling is disabled.
type Noop struct{}

func (Noop) RecordTrade(TradeRecord) error       { return nil }
func (Noop) RecordBalance(BalanceSnapshot) error { return nil }
func (Noop) Close() error                        { return nil }
