package market

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticSameSeedSamePath(t *testing.T) {
	ctx := context.Background()
	a := NewSynthetic(42)
	b := NewSynthetic(42)

	for i := 0; i < 10; i++ {
		pa, err := a.CurrentPrice(ctx, "BTC/KRW")
		require.NoError(t, err)
		pb, err := b.CurrentPrice(ctx, "BTC/KRW")
		require.NoError(t, err)
		assert.Equal(t, pa, pb, "step %d", i)
	}
}

func TestSyntheticPricesStayPositive(t *testing.T) {
	ctx := context.Background()
	s := NewSynthetic(7)

	for i := 0; i < 1000; i++ {
		p, err := s.CurrentPrice(ctx, "ETH/USDT")
		require.NoError(t, err)
		assert.Greater(t, p, 0.0)
	}
}

func TestSyntheticUnknownSymbol(t *testing.T) {
	s := NewSynthetic(1)

	p, err := s.CurrentPrice(context.Background(), "OBSCURE/PAIR")
	require.NoError(t, err)
	assert.Greater(t, p, 0.0)
}

func TestSyntheticCandles(t *testing.T) {
	s := NewSynthetic(3)

	candles, err := s.Candles(context.Background(), "BTC/USDT", "1h", 24)
	require.NoError(t, err)
	require.Len(t, candles, 24)

	for i, c := range candles {
		assert.GreaterOrEqual(t, c.High, c.Open, "candle %d", i)
		assert.GreaterOrEqual(t, c.High, c.Close, "candle %d", i)
		assert.LessOrEqual(t, c.Low, c.Open, "candle %d", i)
		assert.LessOrEqual(t, c.Low, c.Close, "candle %d", i)
		if i > 0 {
			assert.Equal(t, time.Hour, c.Time.Sub(candles[i-1].Time), "candle %d spacing", i)
			// The walk is continuous: each candle opens at the previous close.
			assert.Equal(t, candles[i-1].Close, c.Open, "candle %d open", i)
		}
	}
}

func TestSyntheticCandlesBetween(t *testing.T) {
	s := NewSynthetic(3)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 9)

	candles, err := s.CandlesBetween(context.Background(), "BTC/KRW", "1d", start, end)
	require.NoError(t, err)
	assert.Len(t, candles, 10)
	assert.True(t, candles[0].Time.Equal(start))

	_, err = s.CandlesBetween(context.Background(), "BTC/KRW", "1d", end, start)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSyntheticBadTimeframe(t *testing.T) {
	s := NewSynthetic(1)
	_, err := s.Candles(context.Background(), "BTC/KRW", "3w", 10)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSyntheticOrderBookOrdering(t *testing.T) {
	s := NewSynthetic(5)

	ob, err := s.OrderBook(context.Background(), "BTC/KRW")
	require.NoError(t, err)
	require.Len(t, ob.Bids, 10)
	require.Len(t, ob.Asks, 10)

	for i := 1; i < len(ob.Bids); i++ {
		assert.Less(t, ob.Bids[i].Price, ob.Bids[i-1].Price, "bids must descend")
		assert.Greater(t, ob.Asks[i].Price, ob.Asks[i-1].Price, "asks must ascend")
	}
	assert.Less(t, ob.Bids[0].Price, ob.Asks[0].Price, "book must not be crossed")
}
