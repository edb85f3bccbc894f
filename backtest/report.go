package backtest

import "time"

// DailyValue is one point of the backtest equity curve.
type DailyValue struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Report summarises one backtest run. It is returned to the caller and
// never persisted by the engine.
type Report struct {
	Strategy       string       `json:"strategy"`
	Symbol         string       `json:"symbol"`
	StartDate      time.Time    `json:"start_date"`
	EndDate        time.Time    `json:"end_date"`
	DurationDays   int          `json:"duration_days"`
	InitialBalance float64      `json:"initial_balance"`
	FinalBalance   float64      `json:"final_balance"`
	ProfitLoss     float64      `json:"profit_loss"`
	TotalReturn    float64      `json:"total_return"`
	TotalTrades    int          `json:"total_trades"`
	WinningTrades  int          `json:"winning_trades"`
	LosingTrades   int          `json:"losing_trades"`
	WinRate        float64      `json:"win_rate"`
	MaxDrawdown    float64      `json:"max_drawdown"`
	SharpeRatio    float64      `json:"sharpe_ratio"`
	Volatility     float64      `json:"volatility"`
	Daily          []DailyValue `json:"daily_performance,omitempty"`
}
