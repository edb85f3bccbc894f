package api

import (
	"net/http"
	"strconv"
)

func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.analyzer.Sentiment(r.PathValue("symbol")))
}

func (s *Server) handlePrediction(w http.ResponseWriter, r *http.Request) {
	hours := 24
	if v := r.URL.Query().Get("hours"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 168 {
			writeError(w, http.StatusBadRequest, "hours must be an integer in [1,168]")
			return
		}
		hours = n
	}

	report, err := s.analyzer.Predict(r.Context(), r.PathValue("symbol"), hours)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, report)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	report, err := s.analyzer.Analyze(r.Context(), req.Symbol, req.Hours)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, report)
}
