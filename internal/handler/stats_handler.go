package handler

import "net/http"

type StatsHandler struct {
	analytics AnalyticsAPI
	monitor   MonitorAPI
}

func NewStatsHandler(a AnalyticsAPI, m MonitorAPI) *StatsHandler {
	return &StatsHandler{analytics: a, monitor: m}
}

// @Summary Totales del catálogo
// @Tags stats
// @Produce json
// @Success 200 {object} models.CatalogTotals
// @Router /stats [get]
func (h *StatsHandler) Totals(w http.ResponseWriter, r *http.Request) {
	out, err := h.analytics.Totals(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// @Summary Dashboard de analytics (ADMIN)
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.AdminAnalytics
// @Router /admin/analytics [get]
func (h *StatsHandler) AdminAnalytics(w http.ResponseWriter, r *http.Request) {
	out, err := h.analytics.Admin(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// @Summary Estado de dependencias y del host (ADMIN)
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.MonitoringStatus
// @Router /admin/monitoring [get]
func (h *StatsHandler) Monitoring(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.monitor.Status(r.Context()))
}
