package handler

import "net/http"

type InsightHandler struct {
	svc InsightAPI
}

func NewInsightHandler(s InsightAPI) *InsightHandler { return &InsightHandler{svc: s} }

// @Summary Heatmap de confianza de las reseñas de una película
// @Tags insights
// @Produce json
// @Param movie_id path int true "movie_id"
// @Success 200 {object} models.TrustReport
// @Router /trust-heatmap/{movie_id} [get]
func (h *InsightHandler) TrustHeatmap(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(w, r, "movie_id")
	if !ok {
		return
	}
	report, err := h.svc.Trust(r.Context(), movieID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// @Summary Explicación del algoritmo para una película
// @Description Con token se personaliza según las películas que le gustaron al usuario
// @Tags insights
// @Produce json
// @Param movie_id path int true "movie_id"
// @Success 200 {object} models.ExplanationReport
// @Failure 404 {object} errorResponse
// @Router /explain-algorithm/{movie_id} [get]
func (h *InsightHandler) ExplainAlgorithm(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(w, r, "movie_id")
	if !ok {
		return
	}
	report, err := h.svc.Explain(r.Context(), movieID, OptionalUserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
