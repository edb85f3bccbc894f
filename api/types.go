package api

import (
	"time"

	"cryptosim/market"
	"cryptosim/sim"
)

// StartSimulationRequest is the body of POST /api/v1/simulation/start.
type StartSimulationRequest struct {
	Strategy       string  `json:"strategy"`
	Symbol         string  `json:"symbol"`
	InitialBalance float64 `json:"initial_balance"`
	DurationHours  int     `json:"duration_hours"`
}

// StartSimulationResponse acknowledges a started simulation.
type StartSimulationResponse struct {
	SimulationID string `json:"simulation_id"`
	Status       string `json:"status"`
}

// SimulationStatusResponse is a point-in-time view of one simulation.
type SimulationStatusResponse struct {
	SimulationID   string      `json:"simulation_id"`
	Status         string      `json:"status"`
	Strategy       string      `json:"strategy"`
	Symbol         string      `json:"symbol"`
	InitialBalance float64     `json:"initial_balance"`
	CurrentBalance float64     `json:"current_balance"`
	CurrentPrice   float64     `json:"current_price"`
	ProfitLoss     float64     `json:"profit_loss"`
	ProfitRate     float64     `json:"profit_rate"`
	TradeCount     int         `json:"trade_count"`
	StartedAt      time.Time   `json:"started_at"`
	ElapsedHours   float64     `json:"elapsed_hours"`
	RemainingHours float64     `json:"remaining_hours"`
	Error          string      `json:"error,omitempty"`
	RecentTrades   []sim.Trade `json:"recent_trades"`
}

// recentTradeWindow bounds how many trades a status response carries.
const recentTradeWindow = 5

func statusResponse(s sim.Simulation) SimulationStatusResponse {
	now := time.Now()
	trades := s.Trades
	if len(trades) > recentTradeWindow {
		trades = trades[len(trades)-recentTradeWindow:]
	}
	if trades == nil {
		trades = []sim.Trade{}
	}
	return SimulationStatusResponse{
		SimulationID:   s.ID,
		Status:         string(s.Status),
		Strategy:       string(s.Strategy),
		Symbol:         s.Symbol,
		InitialBalance: s.InitialBalance,
		CurrentBalance: s.CurrentBalance,
		CurrentPrice:   s.CurrentPrice,
		ProfitLoss:     s.ProfitLoss,
		ProfitRate:     s.ProfitRate,
		TradeCount:     s.TradeCount,
		StartedAt:      s.StartedAt,
		ElapsedHours:   s.Elapsed(now).Hours(),
		RemainingHours: s.Remaining(now).Hours(),
		Error:          s.Error,
		RecentTrades:   trades,
	}
}

// SimulationSummary is one row of the list endpoint.
type SimulationSummary struct {
	ID         string    `json:"id"`
	Strategy   string    `json:"strategy"`
	Symbol     string    `json:"symbol"`
	Status     string    `json:"status"`
	StartedAt  time.Time `json:"started_at"`
	ProfitRate float64   `json:"profit_rate"`
	TradeCount int       `json:"trade_count"`
}

// ListSimulationsResponse wraps the simulation summaries.
type ListSimulationsResponse struct {
	Simulations []SimulationSummary `json:"simulations"`
}

// BacktestRequest is the body of POST /api/v1/simulation/backtest.
// Dates are "2006-01-02" or RFC3339.
type BacktestRequest struct {
	Strategy       string  `json:"strategy"`
	Symbol         string  `json:"symbol"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	InitialBalance float64 `json:"initial_balance"`
}

// PriceResponse is the body of GET /api/v1/market/price/{symbol}.
type PriceResponse struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// CandlesResponse is the body of GET /api/v1/market/ohlcv/{symbol}.
type CandlesResponse struct {
	Symbol    string          `json:"symbol"`
	Timeframe string          `json:"timeframe"`
	Candles   []market.Candle `json:"data"`
}

// AnalyzeRequest is the body of POST /api/v1/analysis/analyze.
type AnalyzeRequest struct {
	Symbol string `json:"symbol"`
	Hours  int    `json:"hours"`
}

// HealthResponse is the body of GET /api/v1/monitoring/health.
type HealthResponse struct {
	Status        string            `json:"status"`
	Timestamp     time.Time         `json:"timestamp"`
	UptimeSeconds float64           `json:"uptime_seconds"`
	Checks        map[string]string `json:"checks"`
	Simulations   map[string]int    `json:"simulations"`
}
