package market

import (
	"context"
	"fmt"
	"time"
)

// Compile-time interface check.
var _ Source = (*Static)(nil)

// Static serves fixed data loaded up front, typically from CSV files or
// test fixtures. Missing symbols yield ErrUnavailable.
type Static struct {
	Prices map[string]float64
	Series map[string][]Candle
	Books  map[string]OrderBook
}

// NewStatic creates an empty Static source.
func NewStatic() *Static {
	return &Static{
		Prices: make(map[string]float64),
		Series: make(map[string][]Candle),
		Books:  make(map[string]OrderBook),
	}
}

// SetCandles installs a candle series for symbol and sets the current price
// to the last close.
func (s *Static) SetCandles(symbol string, candles []Candle) {
	s.Series[symbol] = candles
	if len(candles) > 0 {
		s.Prices[symbol] = candles[len(candles)-1].Close
	}
}

func (s *Static) CurrentPrice(_ context.Context, symbol string) (float64, error) {
	p, ok := s.Prices[symbol]
	if !ok {
		return 0, fmt.Errorf("%w: no price for %q", ErrUnavailable, symbol)
	}
	return p, nil
}

func (s *Static) Candles(_ context.Context, symbol, _ string, limit int) ([]Candle, error) {
	series, ok := s.Series[symbol]
	if !ok || len(series) == 0 {
		return nil, fmt.Errorf("%w: no candles for %q", ErrUnavailable, symbol)
	}
	if limit > 0 && len(series) > limit {
		series = series[len(series)-limit:]
	}
	return series, nil
}

func (s *Static) CandlesBetween(_ context.Context, symbol, _ string, start, end time.Time) ([]Candle, error) {
	series, ok := s.Series[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: no candles for %q", ErrUnavailable, symbol)
	}
	var out []Candle
	for _, c := range series {
		if c.Time.Before(start) || c.Time.After(end) {
			continue
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no candles for %q in %s..%s",
			ErrUnavailable, symbol, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return out, nil
}

func (s *Static) OrderBook(_ context.Context, symbol string) (OrderBook, error) {
	b, ok := s.Books[symbol]
	if !ok {
		return OrderBook{}, fmt.Errorf("%w: no order book for %q", ErrUnavailable, symbol)
	}
	return b, nil
}

func (s *Static) Stats24h(_ context.Context, symbol string) (Stats, error) {
	series, ok := s.Series[symbol]
	if !ok || len(series) == 0 {
		return Stats{}, fmt.Errorf("%w: no candles for %q", ErrUnavailable, symbol)
	}

	last := series[len(series)-1].Close
	first := series[0].Open
	st := Stats{Symbol: symbol, Last: last, Change: last - first}
	if first != 0 {
		st.ChangePct = st.Change / first * 100
	}
	for _, c := range series {
		if c.High > st.High {
			st.High = c.High
		}
		if st.Low == 0 || c.Low < st.Low {
			st.Low = c.Low
		}
		st.Volume += c.Volume
	}
	st.QuoteVolume = st.Volume * last
	return st, nil
}
