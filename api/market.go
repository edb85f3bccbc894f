package api

import (
	"net/http"
	"strconv"
	"time"
)

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")

	price, err := s.source.CurrentPrice(r.Context(), symbol)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, PriceResponse{Symbol: symbol, Price: price, Timestamp: time.Now().UTC()})
}

func (s *Server) handleCandles(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")

	timeframe := r.URL.Query().Get("timeframe")
	if timeframe == "" {
		timeframe = "1h"
	}
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 1000 {
			writeError(w, http.StatusBadRequest, "limit must be an integer in [1,1000]")
			return
		}
		limit = n
	}

	candles, err := s.source.Candles(r.Context(), symbol, timeframe, limit)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, CandlesResponse{Symbol: symbol, Timeframe: timeframe, Candles: candles})
}

func (s *Server) handleOrderBook(w http.ResponseWriter, r *http.Request) {
	book, err := s.source.OrderBook(r.Context(), r.PathValue("symbol"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, book)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.source.Stats24h(r.Context(), r.PathValue("symbol"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, stats)
}
