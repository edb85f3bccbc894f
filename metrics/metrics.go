// Package metrics provides the pure performance calculations shared by the
// simulation and backtest engines.
package metrics

import (
	"math"

	"cryptosim/indicators"
)

// tradingDaysPerYear annualizes daily return statistics.
const tradingDaysPerYear = 252

// ProfitLoss returns the absolute gain or loss against the initial balance.
func ProfitLoss(final, initial float64) float64 {
	return final - initial
}

// ProfitRate returns the gain or loss as a percentage of the initial
// balance. A zero initial balance yields 0 rather than dividing by zero.
func ProfitRate(final, initial float64) float64 {
	if initial == 0 {
		return 0
	}
	return ProfitLoss(final, initial) / initial * 100
}

// Returns computes period-over-period fractional returns of a value
// series. Periods starting from a zero value are skipped.
func Returns(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}
	out := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		if series[i-1] == 0 {
			continue
		}
		out = append(out, (series[i]-series[i-1])/series[i-1])
	}
	return out
}

// Volatility returns the standard deviation of period-over-period returns.
// Series shorter than 2 yield 0.
func Volatility(series []float64) float64 {
	return indicators.StdDev(Returns(series))
}

// Sharpe returns the annualized Sharpe ratio of a daily value series:
// mean daily return over its standard deviation, scaled by sqrt(252).
// Fewer than 2 return samples or zero variance yield 0.
func Sharpe(series []float64) float64 {
	returns := Returns(series)
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	sd := indicators.StdDev(returns)
	if sd == 0 {
		return 0
	}

	return mean / sd * math.Sqrt(tradingDaysPerYear)
}

// MaxDrawdown returns the largest peak-to-trough decline of a value
// series as a percentage of the peak. Non-decreasing or short series
// yield 0.
func MaxDrawdown(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}

	peak := series[0]
	maxDD := 0.0
	for _, v := range series[1:] {
		if v > peak {
			peak = v
			continue
		}
		if peak > 0 {
			dd := (peak - v) / peak * 100
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}
