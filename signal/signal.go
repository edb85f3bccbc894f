// Package signal turns recent price history into buy/sell/hold decisions.
// One deterministic decision path serves both live simulations and
// backtests, so results are reproducible for identical inputs.
package signal

import (
	"fmt"
	"strings"
)

// Action is the trade direction of a decision.
type Action int

const (
	Hold Action = iota
	Buy
	Sell
)

func (a Action) String() string {
	switch a {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "hold"
	}
}

// Strategy identifies one of the fixed decision policies.
type Strategy string

const (
	Arbitrage       Strategy = "arbitrage"
	ShortTrading    Strategy = "short_trading"
	LeverageTrading Strategy = "leverage_trading"
	MemeTrading     Strategy = "meme_trading"
)

// Strategies lists all valid strategies.
var Strategies = []Strategy{Arbitrage, ShortTrading, LeverageTrading, MemeTrading}

// ParseStrategy validates a strategy tag.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case Arbitrage:
		return Arbitrage, nil
	case ShortTrading:
		return ShortTrading, nil
	case LeverageTrading:
		return LeverageTrading, nil
	case MemeTrading:
		return MemeTrading, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (supported: arbitrage, short_trading, leverage_trading, meme_trading)", s)
	}
}

// Decision is the outcome of evaluating a strategy against recent prices.
type Decision struct {
	Action     Action
	Magnitude  float64 // position fraction in [0,1]
	Confidence float64 // in [0,1]
	Reason     string
}

// Params holds the per-strategy sizing knobs used by the engines. The
// ordering of aggressiveness is arbitrage < short_trading < meme_trading;
// leverage_trading additionally multiplies realized profit and loss.
type Params struct {
	TradeFraction float64 // fraction of balance touched per trade
	Leverage      float64 // profit/loss multiplier
}

// ParamsFor returns the sizing parameters for a strategy.
func ParamsFor(s Strategy) Params {
	switch s {
	case Arbitrage:
		return Params{TradeFraction: 0.10, Leverage: 1}
	case ShortTrading:
		return Params{TradeFraction: 0.25, Leverage: 1}
	case LeverageTrading:
		return Params{TradeFraction: 0.30, Leverage: 3}
	case MemeTrading:
		return Params{TradeFraction: 0.35, Leverage: 1}
	default:
		return Params{TradeFraction: 0.10, Leverage: 1}
	}
}
