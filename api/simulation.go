package api

import (
	"net/http"
	"time"

	"cryptosim/backtest"
	"cryptosim/sim"
)

func (s *Server) handleStartSimulation(w http.ResponseWriter, r *http.Request) {
	var req StartSimulationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := s.sims.Start(r.Context(), sim.StartParams{
		Strategy:       req.Strategy,
		Symbol:         req.Symbol,
		InitialBalance: req.InitialBalance,
		Duration:       time.Duration(req.DurationHours) * time.Hour,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, StartSimulationResponse{SimulationID: id, Status: "started"})
}

func (s *Server) handleSimulationStatus(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.sims.Status(r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, statusResponse(snapshot))
}

func (s *Server) handleStopSimulation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var err error
	if r.URL.Query().Get("purge") == "1" {
		err = s.sims.Remove(id)
	} else {
		err = s.sims.Stop(id)
	}
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, map[string]string{"simulation_id": id, "status": "stopped"})
}

func (s *Server) handleListSimulations(w http.ResponseWriter, r *http.Request) {
	sims := s.sims.List()
	summaries := make([]SimulationSummary, 0, len(sims))
	for _, sm := range sims {
		summaries = append(summaries, SimulationSummary{
			ID:         sm.ID,
			Strategy:   string(sm.Strategy),
			Symbol:     sm.Symbol,
			Status:     string(sm.Status),
			StartedAt:  sm.StartedAt,
			ProfitRate: sm.ProfitRate,
			TradeCount: sm.TradeCount,
		})
	}
	writeJSON(w, ListSimulationsResponse{Simulations: summaries})
}

func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	var req BacktestRequest
	if !decodeBody(w, r, &req) {
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date: "+err.Error())
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date: "+err.Error())
		return
	}

	report, err := s.backtests.Run(r.Context(), backtest.Params{
		Strategy:       req.Strategy,
		Symbol:         req.Symbol,
		Start:          start,
		End:            end,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, report)
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
