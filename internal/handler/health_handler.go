package handler

import "net/http"

type healthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}

// Health responde 503 si alguna dependencia no contesta.
//
// @Summary Healthcheck
// @Tags health
// @Produce json
// @Success 200 {object} healthResponse
// @Failure 503 {object} healthResponse
// @Router /health [get]
func Health(monitor MonitorAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps, healthy := monitor.Dependencies(r.Context())
		if !healthy {
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", Dependencies: deps})
			return
		}
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Dependencies: deps})
	}
}
