package handler

import (
	"net/http"

	"dinoco-api/internal/models"
)

type DecisionTraceHandler struct {
	svc TraceAPI
}

func NewDecisionTraceHandler(s TraceAPI) *DecisionTraceHandler {
	return &DecisionTraceHandler{svc: s}
}

// @Summary Registrar cómo llegó el usuario a una película
// @Description Token opcional; sin token la traza queda anónima
// @Tags decision-traces
// @Accept json
// @Produce json
// @Param body body models.DecisionTraceRequest true "traza"
// @Success 201 {object} models.DecisionTraceCreated
// @Failure 400 {object} errorResponse
// @Router /decision-trace [post]
func (h *DecisionTraceHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req models.DecisionTraceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	out, err := h.svc.Record(r.Context(), OptionalUserID(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// @Summary Trazas y análisis de una película
// @Tags decision-traces
// @Produce json
// @Param movie_id path int true "movie_id"
// @Success 200 {object} models.MovieTraceReport
// @Router /decision-trace/{movie_id} [get]
func (h *DecisionTraceHandler) ForMovie(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(w, r, "movie_id")
	if !ok {
		return
	}
	report, err := h.svc.ForMovie(r.Context(), movieID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// @Summary Mis trazas de decisión
// @Tags decision-traces
// @Security BearerAuth
// @Produce json
// @Param limit query int false "cantidad (default: 20)"
// @Success 200 {object} models.UserTraceReport
// @Router /user/decision-traces [get]
func (h *DecisionTraceHandler) Mine(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.ForUser(r.Context(), UserIDFromContext(r.Context()), queryInt(r, "limit"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
