package market

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sync"
	"time"
)

// Compile-time interface check.
var _ Source = (*Synthetic)(nil)

// Default base prices for well-known pairs. Unknown symbols get a price
// derived from a hash of the symbol so the walk is still deterministic.
var basePrices = map[string]float64{
	"BTC/KRW":   50_000_000,
	"BTC/USDT":  60_000,
	"ETH/USDT":  3_000,
	"ETH/KRW":   4_000_000,
	"SOL/USDT":  150,
	"DOGE/USDT": 0.15,
}

// Synthetic generates market data from a seeded random walk. Two Synthetic
// sources created with the same seed produce the same prices in the same
// call order, which keeps tests and replays reproducible.
type Synthetic struct {
	mu   sync.Mutex
	rng  *rand.Rand
	last map[string]float64
}

// NewSynthetic creates a Synthetic source. The walk is deterministic for a
// given seed and call sequence.
func NewSynthetic(seed int64) *Synthetic {
	return &Synthetic{
		rng:  rand.New(rand.NewSource(seed)),
		last: make(map[string]float64),
	}
}

func basePrice(symbol string) float64 {
	if p, ok := basePrices[symbol]; ok {
		return p
	}
	h := fnv.New32a()
	h.Write([]byte(symbol))
	// Spread unknown symbols across [1, 10001).
	return 1 + float64(h.Sum32()%10_000)
}

// step advances the walk for symbol by one increment of at most maxPct and
// returns the new price. Caller must hold mu.
func (s *Synthetic) step(symbol string, maxPct float64) float64 {
	p, ok := s.last[symbol]
	if !ok {
		p = basePrice(symbol)
	}
	p *= 1 + (s.rng.Float64()*2-1)*maxPct
	s.last[symbol] = p
	return p
}

func (s *Synthetic) CurrentPrice(_ context.Context, symbol string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step(symbol, 0.005), nil
}

func (s *Synthetic) Candles(_ context.Context, symbol, timeframe string, limit int) ([]Candle, error) {
	d, err := timeframeDuration(timeframe)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: non-positive candle limit %d", ErrUnavailable, limit)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	end := time.Now().UTC().Truncate(d)
	return s.candlesLocked(symbol, end.Add(-time.Duration(limit-1)*d), d, limit), nil
}

func (s *Synthetic) CandlesBetween(_ context.Context, symbol, timeframe string, start, end time.Time) ([]Candle, error) {
	d, err := timeframeDuration(timeframe)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: empty range %s..%s", ErrUnavailable, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	n := int(end.Sub(start)/d) + 1

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.candlesLocked(symbol, start.Truncate(d), d, n), nil
}

// candlesLocked builds n candles starting at from, one per step d. The walk
// state for the symbol advances, so consecutive requests continue the same
// price path. Caller must hold mu.
func (s *Synthetic) candlesLocked(symbol string, from time.Time, d time.Duration, n int) []Candle {
	candles := make([]Candle, 0, n)
	for i := 0; i < n; i++ {
		open, ok := s.last[symbol]
		if !ok {
			open = basePrice(symbol)
			s.last[symbol] = open
		}
		closeP := s.step(symbol, 0.02)

		high := math.Max(open, closeP) * (1 + s.rng.Float64()*0.01)
		low := math.Min(open, closeP) * (1 - s.rng.Float64()*0.01)

		candles = append(candles, Candle{
			Time:   from.Add(time.Duration(i) * d),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closeP,
			Volume: 100 + s.rng.Float64()*1000,
		})
	}
	return candles
}

func (s *Synthetic) OrderBook(_ context.Context, symbol string) (OrderBook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mid := s.step(symbol, 0.001)
	ob := OrderBook{Symbol: symbol, Time: time.Now().UTC()}
	for i := 1; i <= 10; i++ {
		spread := mid * 0.0005 * float64(i)
		ob.Bids = append(ob.Bids, OrderBookLevel{Price: mid - spread, Amount: s.rng.Float64() * 5})
		ob.Asks = append(ob.Asks, OrderBookLevel{Price: mid + spread, Amount: s.rng.Float64() * 5})
	}
	return ob, nil
}

func (s *Synthetic) Stats24h(_ context.Context, symbol string) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last := s.step(symbol, 0.005)
	open := last * (1 + (s.rng.Float64()*2-1)*0.05)
	return Stats{
		Symbol:      symbol,
		Last:        last,
		Change:      last - open,
		ChangePct:   (last - open) / open * 100,
		High:        math.Max(open, last) * 1.02,
		Low:         math.Min(open, last) * 0.98,
		Volume:      1000 + s.rng.Float64()*10_000,
		QuoteVolume: (1000 + s.rng.Float64()*10_000) * last,
	}, nil
}

func timeframeDuration(timeframe string) (time.Duration, error) {
	switch timeframe {
	case "1m":
		return time.Minute, nil
	case "5m":
		return 5 * time.Minute, nil
	case "15m":
		return 15 * time.Minute, nil
	case "1h":
		return time.Hour, nil
	case "4h":
		return 4 * time.Hour, nil
	case "1d":
		return 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("%w: unknown timeframe %q", ErrUnavailable, timeframe)
	}
}
