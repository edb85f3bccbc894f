// Package api exposes the simulation, backtest, market data, analysis and
// monitoring endpoints over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"cryptosim/analysis"
	"cryptosim/backtest"
	"cryptosim/market"
	"cryptosim/sim"
)

// Server serves the HTTP API.
type Server struct {
	sims      *sim.Engine
	backtests *backtest.Engine
	analyzer  *analysis.Analyzer
	source    market.Source
	log       *slog.Logger
	started   time.Time
}

// NewServer wires the API onto the engines.
func NewServer(
	sims *sim.Engine,
	backtests *backtest.Engine,
	analyzer *analysis.Analyzer,
	source market.Source,
	log *slog.Logger,
) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		sims:      sims,
		backtests: backtests,
		analyzer:  analyzer,
		source:    source,
		log:       log,
		started:   time.Now(),
	}
}

// RegisterRoutes registers all API routes on the given mux. Symbol path
// segments use a trailing wildcard so pair notation like BTC/KRW works
// without escaping.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/simulation/start", s.handleStartSimulation)
	mux.HandleFunc("GET /api/v1/simulation/status/{id}", s.handleSimulationStatus)
	mux.HandleFunc("DELETE /api/v1/simulation/{id}", s.handleStopSimulation)
	mux.HandleFunc("GET /api/v1/simulation/list", s.handleListSimulations)
	mux.HandleFunc("POST /api/v1/simulation/backtest", s.handleBacktest)

	mux.HandleFunc("GET /api/v1/market/price/{symbol...}", s.handlePrice)
	mux.HandleFunc("GET /api/v1/market/ohlcv/{symbol...}", s.handleCandles)
	mux.HandleFunc("GET /api/v1/market/orderbook/{symbol...}", s.handleOrderBook)
	mux.HandleFunc("GET /api/v1/market/stats/{symbol...}", s.handleStats)

	mux.HandleFunc("GET /api/v1/analysis/sentiment/{symbol...}", s.handleSentiment)
	mux.HandleFunc("GET /api/v1/analysis/prediction/{symbol...}", s.handlePrediction)
	mux.HandleFunc("POST /api/v1/analysis/analyze", s.handleAnalyze)

	mux.HandleFunc("GET /api/v1/monitoring/health", s.handleHealth)
}

// Handler returns the complete handler with CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return corsMiddleware(s.logMiddleware(mux))
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// writeEngineError maps engine errors onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sim.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, sim.ErrInvalidParameter), errors.Is(err, backtest.ErrInvalidParameter):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, market.ErrUnavailable):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
