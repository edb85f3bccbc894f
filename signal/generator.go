package signal

import (
	"math"

	"cryptosim/indicators"
)

const (
	// minHistory is the number of prior prices required before any
	// strategy will act. With less data every strategy holds.
	minHistory = 5

	arbitrageThreshold = 0.02 // deviation from the 5-price mean
	momentumThreshold  = 0.01 // tick-over-tick move
	trendWindow        = 3    // strictly monotonic closes required
)

// Decide evaluates a strategy against the price history and the current
// price. history is ordered oldest first and excludes current. Decide
// never fails: degenerate input yields a Hold with confidence 0.5.
func Decide(strategy Strategy, history []float64, current float64) Decision {
	if len(history) < minHistory || current <= 0 {
		return holdDecision("insufficient history")
	}

	switch strategy {
	case Arbitrage:
		return decideArbitrage(history, current)
	case ShortTrading:
		return decideMomentum(history, current)
	case LeverageTrading:
		return decideTrend(history, current)
	case MemeTrading:
		return decideBreakout(history, current)
	default:
		return holdDecision("unknown strategy")
	}
}

func holdDecision(reason string) Decision {
	return Decision{Action: Hold, Confidence: 0.5, Reason: reason}
}

// decideArbitrage mean-reverts against the mean of the last 5 prices.
func decideArbitrage(history []float64, current float64) Decision {
	mean, _ := indicators.SMA(history, minHistory)
	if mean == 0 {
		return holdDecision("zero mean")
	}

	deviation := (current - mean) / mean
	if math.Abs(deviation) < arbitrageThreshold {
		return holdDecision("within mean band")
	}

	d := Decision{
		Magnitude:  clamp01(math.Abs(deviation) / (2 * arbitrageThreshold)),
		Confidence: clamp01(0.5 + math.Abs(deviation)),
	}
	if deviation < 0 {
		d.Action = Buy
		d.Reason = "price below mean"
	} else {
		d.Action = Sell
		d.Reason = "price above mean"
	}
	return d
}

// decideMomentum follows the last tick-over-tick move.
func decideMomentum(history []float64, current float64) Decision {
	prior := history[len(history)-1]
	if prior == 0 {
		return holdDecision("zero prior price")
	}

	change := (current - prior) / prior
	if math.Abs(change) < momentumThreshold {
		return holdDecision("move below threshold")
	}

	d := Decision{
		Magnitude:  clamp01(math.Abs(change) / (3 * momentumThreshold)),
		Confidence: clamp01(0.5 + math.Abs(change)*10),
	}
	if change > 0 {
		d.Action = Buy
		d.Reason = "upward momentum"
	} else {
		d.Action = Sell
		d.Reason = "downward momentum"
	}
	return d
}

// decideTrend trades only a strictly monotonic short window ending at the
// current price. The engines apply this strategy's leverage multiplier to
// the realized result.
func decideTrend(history []float64, current float64) Decision {
	window := append(append([]float64{}, history[len(history)-trendWindow:]...), current)

	increasing, decreasing := true, true
	for i := 1; i < len(window); i++ {
		if window[i] <= window[i-1] {
			increasing = false
		}
		if window[i] >= window[i-1] {
			decreasing = false
		}
	}

	switch {
	case increasing:
		return Decision{Action: Buy, Magnitude: 0.6, Confidence: 0.7, Reason: "strict uptrend"}
	case decreasing:
		return Decision{Action: Sell, Magnitude: 0.6, Confidence: 0.7, Reason: "strict downtrend"}
	default:
		return holdDecision("no clear trend")
	}
}

// decideBreakout trades volatility breakouts beyond the recent range
// widened by one standard deviation.
func decideBreakout(history []float64, current float64) Decision {
	sd := indicators.StdDev(history)
	if sd == 0 {
		return holdDecision("zero variance")
	}

	lo, hi := history[0], history[0]
	for _, p := range history[1:] {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}

	switch {
	case current > hi+sd:
		return Decision{
			Action:     Buy,
			Magnitude:  clamp01((current - hi) / (2 * sd)),
			Confidence: 0.6,
			Reason:     "breakout above range",
		}
	case current < lo-sd:
		return Decision{
			Action:     Sell,
			Magnitude:  clamp01((lo - current) / (2 * sd)),
			Confidence: 0.6,
			Reason:     "breakdown below range",
		}
	default:
		return holdDecision("within range")
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
