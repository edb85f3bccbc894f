package api

import (
	"net/http"
	"time"

	"cryptosim/sim"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"api_server": "healthy"}

	if _, err := s.source.CurrentPrice(r.Context(), "BTC/KRW"); err != nil {
		checks["market_source"] = "unhealthy: " + err.Error()
	} else {
		checks["market_source"] = "healthy"
	}

	counts := make(map[string]int)
	for _, sm := range s.sims.List() {
		counts[string(sm.Status)]++
	}

	status := "healthy"
	for _, v := range checks {
		if v != "healthy" {
			status = "degraded"
			break
		}
	}
	if counts[string(sim.StatusError)] > 0 {
		status = "degraded"
	}

	writeJSON(w, HealthResponse{
		Status:        status,
		Timestamp:     time.Now().UTC(),
		UptimeSeconds: time.Since(s.started).Seconds(),
		Checks:        checks,
		Simulations:   counts,
	})
}
