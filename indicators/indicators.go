// Package indicators provides technical analysis computations over close
// price series. All functions are deterministic and side-effect free.
package indicators

import (
	"fmt"
	"math"
)

// SMA calculates the Simple Moving Average of the last period closes.
func SMA(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(closes) < period {
		return 0, fmt.Errorf("not enough closes: need %d, got %d", period, len(closes))
	}

	sum := 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(period), nil
}

// EMA calculates the Exponential Moving Average for the given period,
// seeded with the SMA of the first period closes.
func EMA(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(closes) < period {
		return 0, fmt.Errorf("not enough closes: need %d, got %d", period, len(closes))
	}

	multiplier := 2.0 / float64(period+1)

	sma := 0.0
	for i := 0; i < period; i++ {
		sma += closes[i]
	}
	ema := sma / float64(period)

	for i := period; i < len(closes); i++ {
		ema = (closes[i]-ema)*multiplier + ema
	}
	return ema, nil
}

// RSI calculates the Relative Strength Index over the last period moves.
// A series with no losses yields 100, no gains yields 0.
func RSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(closes) < period+1 {
		return 0, fmt.Errorf("not enough closes: need %d, got %d", period+1, len(closes))
	}

	var gains, losses float64
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}

	if losses == 0 {
		if gains == 0 {
			return 50, nil
		}
		return 100, nil
	}

	rs := gains / losses
	return 100 - 100/(1+rs), nil
}

// Bollinger returns the middle, upper and lower Bollinger Bands using an
// SMA middle band and k standard deviations.
func Bollinger(closes []float64, period int, k float64) (middle, upper, lower float64, err error) {
	middle, err = SMA(closes, period)
	if err != nil {
		return 0, 0, 0, err
	}

	window := closes[len(closes)-period:]
	sd := StdDev(window)
	return middle, middle + k*sd, middle - k*sd, nil
}

// StdDev returns the population standard deviation of the series. Series
// shorter than 2 yield 0.
func StdDev(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	variance := 0.0
	for _, v := range series {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(series))

	return math.Sqrt(variance)
}
