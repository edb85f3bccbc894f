package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptosim/analysis"
	"cryptosim/backtest"
	"cryptosim/market"
	"cryptosim/sim"
)

func newTestHandler(t *testing.T) (http.Handler, *market.Static) {
	t.Helper()

	src := market.NewStatic()
	src.Prices["BTC/KRW"] = 50_000_000
	src.SetCandles("BTC/KRW", dailyFixture(40))
	src.Books["BTC/KRW"] = market.OrderBook{
		Symbol: "BTC/KRW",
		Bids:   []market.OrderBookLevel{{Price: 49_990_000, Amount: 0.5}},
		Asks:   []market.OrderBookLevel{{Price: 50_010_000, Amount: 0.4}},
	}

	sims := sim.NewEngine(src, nil, nil, sim.Config{TickInterval: time.Hour})
	t.Cleanup(sims.Close)

	srv := NewServer(sims, backtest.NewEngine(src, nil), analysis.New(src, 1), src, nil)
	return srv.Handler(), src
}

// dailyFixture builds n oscillating daily candles ending today.
func dailyFixture(n int) []market.Candle {
	out := make([]market.Candle, n)
	start := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -n+1)
	p := 50_000_000.0
	for i := range out {
		if i%2 == 0 {
			p *= 1.02
		} else {
			p *= 0.98
		}
		out[i] = market.Candle{Time: start.AddDate(0, 0, i), Open: p, High: p * 1.01, Low: p * 0.99, Close: p, Volume: 12}
	}
	return out
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), "body: %s", w.Body.String())
	return v
}

func startTestSimulation(t *testing.T, h http.Handler) string {
	t.Helper()
	w := doJSON(t, h, http.MethodPost, "/api/v1/simulation/start", StartSimulationRequest{
		Strategy:       "arbitrage",
		Symbol:         "BTC/KRW",
		InitialBalance: 1_000_000,
		DurationHours:  24,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[StartSimulationResponse](t, w)
	require.NotEmpty(t, resp.SimulationID)
	return resp.SimulationID
}

func TestSimulationLifecycle(t *testing.T) {
	h, _ := newTestHandler(t)
	id := startTestSimulation(t, h)

	// Status of a fresh simulation.
	w := doJSON(t, h, http.MethodGet, "/api/v1/simulation/status/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	st := decode[SimulationStatusResponse](t, w)
	assert.Equal(t, id, st.SimulationID)
	assert.Equal(t, "running", st.Status)
	assert.Equal(t, 50_000_000.0, st.CurrentPrice)
	assert.Equal(t, 1_000_000.0, st.CurrentBalance)
	assert.NotNil(t, st.RecentTrades)
	assert.InDelta(t, 24, st.ElapsedHours+st.RemainingHours, 0.01)

	// It shows up in the listing.
	w = doJSON(t, h, http.MethodGet, "/api/v1/simulation/list", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[ListSimulationsResponse](t, w)
	require.Len(t, list.Simulations, 1)
	assert.Equal(t, id, list.Simulations[0].ID)

	// Stop, then stop again: both succeed.
	for i := 0; i < 2; i++ {
		w = doJSON(t, h, http.MethodDelete, "/api/v1/simulation/"+id, nil)
		require.Equal(t, http.StatusOK, w.Code, "stop attempt %d", i+1)
	}

	w = doJSON(t, h, http.MethodGet, "/api/v1/simulation/status/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "stopped", decode[SimulationStatusResponse](t, w).Status)

	// Purge removes it entirely.
	w = doJSON(t, h, http.MethodDelete, "/api/v1/simulation/"+id+"?purge=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, h, http.MethodGet, "/api/v1/simulation/status/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStartSimulationRejections(t *testing.T) {
	h, _ := newTestHandler(t)

	bad := []StartSimulationRequest{
		{Strategy: "hodl", Symbol: "BTC/KRW", InitialBalance: 1000, DurationHours: 24},
		{Strategy: "arbitrage", Symbol: "", InitialBalance: 1000, DurationHours: 24},
		{Strategy: "arbitrage", Symbol: "BTC/KRW", InitialBalance: 0, DurationHours: 24},
		{Strategy: "arbitrage", Symbol: "BTC/KRW", InitialBalance: 1000, DurationHours: 0},
	}
	for i, req := range bad {
		w := doJSON(t, h, http.MethodPost, "/api/v1/simulation/start", req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "case %d: %s", i, w.Body.String())
	}

	// Malformed JSON body.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulation/start", bytes.NewBufferString("{no"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownSimulationIs404(t *testing.T) {
	h, _ := newTestHandler(t)

	w := doJSON(t, h, http.MethodGet, "/api/v1/simulation/status/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, h, http.MethodDelete, "/api/v1/simulation/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBacktestEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -20)

	w := doJSON(t, h, http.MethodPost, "/api/v1/simulation/backtest", BacktestRequest{
		Strategy:       "short_trading",
		Symbol:         "BTC/KRW",
		StartDate:      start.Format("2006-01-02"),
		EndDate:        end.Format("2006-01-02"),
		InitialBalance: 1_000_000,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	r := decode[backtest.Report](t, w)
	assert.Equal(t, "short_trading", r.Strategy)
	assert.Equal(t, 1_000_000.0, r.InitialBalance)
	assert.NotEmpty(t, r.Daily)
}

func TestBacktestBadDates(t *testing.T) {
	h, _ := newTestHandler(t)

	w := doJSON(t, h, http.MethodPost, "/api/v1/simulation/backtest", BacktestRequest{
		Strategy:       "arbitrage",
		Symbol:         "BTC/KRW",
		StartDate:      "yesterday",
		EndDate:        "2024-02-01",
		InitialBalance: 1000,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBacktestUnavailableDataIs502(t *testing.T) {
	h, _ := newTestHandler(t)

	w := doJSON(t, h, http.MethodPost, "/api/v1/simulation/backtest", BacktestRequest{
		Strategy:       "arbitrage",
		Symbol:         "DOGE/KRW",
		StartDate:      "2024-01-01",
		EndDate:        "2024-02-01",
		InitialBalance: 1000,
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestMarketEndpoints(t *testing.T) {
	h, _ := newTestHandler(t)

	// Pair notation with a slash must route unescaped.
	w := doJSON(t, h, http.MethodGet, "/api/v1/market/price/BTC/KRW", nil)
	require.Equal(t, http.StatusOK, w.Code)
	price := decode[PriceResponse](t, w)
	assert.Equal(t, "BTC/KRW", price.Symbol)
	assert.Equal(t, 50_000_000.0, price.Price)

	w = doJSON(t, h, http.MethodGet, "/api/v1/market/ohlcv/BTC/KRW?limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	candles := decode[CandlesResponse](t, w)
	assert.Equal(t, "1h", candles.Timeframe)
	assert.Len(t, candles.Candles, 10)

	w = doJSON(t, h, http.MethodGet, "/api/v1/market/ohlcv/BTC/KRW?limit=5000", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/v1/market/orderbook/BTC/KRW", nil)
	require.Equal(t, http.StatusOK, w.Code)
	book := decode[market.OrderBook](t, w)
	assert.Len(t, book.Bids, 1)

	w = doJSON(t, h, http.MethodGet, "/api/v1/market/stats/BTC/KRW", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/v1/market/price/XRP/KRW", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalysisEndpoints(t *testing.T) {
	h, _ := newTestHandler(t)

	w := doJSON(t, h, http.MethodGet, "/api/v1/analysis/sentiment/BTC/KRW", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sent := decode[analysis.SentimentReport](t, w)
	assert.Equal(t, "BTC/KRW", sent.Symbol)

	w = doJSON(t, h, http.MethodGet, "/api/v1/analysis/prediction/BTC/KRW?hours=6", nil)
	require.Equal(t, http.StatusOK, w.Code)
	pred := decode[analysis.PredictionReport](t, w)
	assert.Len(t, pred.Predictions, 6)

	w = doJSON(t, h, http.MethodGet, "/api/v1/analysis/prediction/BTC/KRW?hours=999", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/v1/analysis/analyze", AnalyzeRequest{Symbol: "BTC/KRW", Hours: 40})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	an := decode[analysis.MarketAnalysis](t, w)
	assert.NotEmpty(t, an.Trend)

	w = doJSON(t, h, http.MethodPost, "/api/v1/analysis/analyze", AnalyzeRequest{Hours: 40})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	h, src := newTestHandler(t)

	w := doJSON(t, h, http.MethodGet, "/api/v1/monitoring/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	hr := decode[HealthResponse](t, w)
	assert.Equal(t, "healthy", hr.Status)
	assert.Equal(t, "healthy", hr.Checks["market_source"])

	// Losing the market source degrades, never fails, the health check.
	delete(src.Prices, "BTC/KRW")
	w = doJSON(t, h, http.MethodGet, "/api/v1/monitoring/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "degraded", decode[HealthResponse](t, w).Status)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/simulation/list", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
