// Package backtest replays historical candles through the shared signal
// path without wall-clock pacing. Given identical candles and parameters a
// run is fully deterministic.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cryptosim/market"
	"cryptosim/metrics"
	"cryptosim/signal"
)

// ErrInvalidParameter rejects malformed backtest parameters before any
// data is fetched.
var ErrInvalidParameter = errors.New("invalid parameter")

const (
	// Fixed trade sizing of the replay loop.
	buyFraction  = 0.30 // of available cash
	sellFraction = 0.50 // of held position

	// lookbackDays of candles fetched before the start date for signal
	// warm-up. No trades execute inside the padding.
	lookbackDays = 5
)

// Engine replays candle history from a market source.
type Engine struct {
	src market.Source
	log *slog.Logger
}

func NewEngine(src market.Source, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{src: src, log: log}
}

// Params are the inputs of Run.
type Params struct {
	Strategy       string
	Symbol         string
	Start          time.Time
	End            time.Time
	InitialBalance float64
}

func (p Params) validate() (signal.Strategy, error) {
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
	if !p.End.After(p.Start) {
		return "", fmt.Errorf("%w: end date must be after start date", ErrInvalidParameter)
	}
	return strategy, nil
}

// Run fetches daily candles for the requested range and replays them
// through signal.Decide. Unlike live ticks, missing historical data is
// fatal: a backtest's value is historical fidelity, so there is no
// fallback price and no fabricated report.
func (e *Engine) Run(ctx context.Context, p Params) (Report, error) {
	strategy, err := p.validate()
	if err != nil {
		return Report{}, err
	}

	candles, err := e.src.CandlesBetween(ctx, p.Symbol, "1d", p.Start.AddDate(0, 0, -lookbackDays), p.End)
	if err != nil {
		return Report{}, fmt.Errorf("fetch candles for %s: %w", p.Symbol, err)
	}
	if len(candles) == 0 {
		return Report{}, fmt.Errorf("fetch candles for %s: %w", p.Symbol, market.ErrUnavailable)
	}

	cash := p.InitialBalance
	position := 0.0
	var (
		closes     []float64
		daily      []DailyValue
		sellPrices []float64
		trades     int
	)

	for _, c := range candles {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}

		inRange := !c.Time.Before(p.Start)

		if inRange && len(closes) > 0 {
			d := signal.Decide(strategy, closes, c.Close)
			switch d.Action {
			case signal.Buy:
				if spend := cash * buyFraction; spend > 0 && c.Close > 0 {
					cash -= spend
					position += spend / c.Close
					trades++
				}
			case signal.Sell:
				if sold := position * sellFraction; sold > 0 {
					position -= sold
					cash += sold * c.Close
					trades++
					sellPrices = append(sellPrices, c.Close)
				}
			}
		}

		closes = append(closes, c.Close)

		if inRange {
			daily = append(daily, DailyValue{Date: c.Time, Value: cash + position*c.Close})
		}
	}

	lastClose := candles[len(candles)-1].Close
	final := cash + position*lastClose

	values := make([]float64, len(daily))
	for i := range daily {
		values[i] = daily[i].Value
	}

	wins, comparisons := sellImprovements(sellPrices)

	r := Report{
		Strategy:       string(strategy),
		Symbol:         p.Symbol,
		StartDate:      p.Start,
		EndDate:        p.End,
		DurationDays:   int(p.End.Sub(p.Start).Hours() / 24),
		InitialBalance: p.InitialBalance,
		FinalBalance:   final,
		ProfitLoss:     metrics.ProfitLoss(final, p.InitialBalance),
		TotalReturn:    metrics.ProfitRate(final, p.InitialBalance),
		TotalTrades:    trades,
		WinningTrades:  wins,
		LosingTrades:   comparisons - wins,
		MaxDrawdown:    metrics.MaxDrawdown(values),
		SharpeRatio:    metrics.Sharpe(values),
		Volatility:     metrics.Volatility(values),
		Daily:          daily,
	}
	if comparisons > 0 {
		r.WinRate = float64(wins) / float64(comparisons) * 100
	}

	e.log.Info("backtest finished",
		"strategy", strategy, "symbol", p.Symbol,
		"days", r.DurationDays, "trades", trades, "return_pct", r.TotalReturn)
	return r, nil
}

// sellImprovements counts sequential sell-to-sell price comparisons that
// improved. Fewer than 2 sells yield no comparisons.
func sellImprovements(sellPrices []float64) (wins, comparisons int) {
	for i := 1; i < len(sellPrices); i++ {
		comparisons++
		if sellPrices[i] > sellPrices[i-1] {
			wins++
		}
	}
	return wins, comparisons
}
