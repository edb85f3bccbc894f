// Package market defines the market data types consumed by the simulation
// and backtest engines, and the Source interface that supplies them.
package market

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable indicates the data source could not supply the requested
// data. Live ticks treat it as transient; backtests treat it as fatal.
var ErrUnavailable = errors.New("market data unavailable")

// Candle represents one OHLCV (Open, High, Low, Close, Volume) bucket.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// OrderBookLevel is one price level of an order book side.
type OrderBookLevel struct {
	Price  float64 `json:"price"`
	Amount float64 `json:"amount"`
}

// OrderBook is a snapshot of resting bids and asks, best price first.
type OrderBook struct {
	Symbol string           `json:"symbol"`
	Time   time.Time        `json:"time"`
	Bids   []OrderBookLevel `json:"bids"`
	Asks   []OrderBookLevel `json:"asks"`
}

// Stats summarises the last 24 hours of trading for a symbol.
type Stats struct {
	Symbol      string  `json:"symbol"`
	Last        float64 `json:"last"`
	Change      float64 `json:"change"`
	ChangePct   float64 `json:"change_pct"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	Volume      float64 `json:"volume"`
	QuoteVolume float64 `json:"quote_volume"`
}

// Source supplies market data to the engines. Implementations may be
// backed by an exchange, a dataset, or a synthetic price process. All
// methods return ErrUnavailable (possibly wrapped) when data cannot be
// supplied; callers decide whether that is fatal.
//
// A Source may be called concurrently from many simulations.
type Source interface {
	CurrentPrice(ctx context.Context, symbol string) (float64, error)
	Candles(ctx context.Context, symbol, timeframe string, limit int) ([]Candle, error)
	CandlesBetween(ctx context.Context, symbol, timeframe string, start, end time.Time) ([]Candle, error)
	OrderBook(ctx context.Context, symbol string) (OrderBook, error)
	Stats24h(ctx context.Context, symbol string) (Stats, error)
}

// Closes extracts the close prices of a candle slice, oldest first.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i := range candles {
		out[i] = candles[i].Close
	}
	return out
}
