package handler

import (
	"net/http"

	"dinoco-api/internal/models"
)

type ReviewHandler struct {
	svc ReviewAPI
}

func NewReviewHandler(s ReviewAPI) *ReviewHandler { return &ReviewHandler{svc: s} }

// @Summary Crear/actualizar reseña
// @Description Una reseña por usuario y película; 201 si es nueva, 200 si se actualizó
// @Tags reviews
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.ReviewRequest true "reseña"
// @Success 201 {object} models.ReviewResult
// @Success 200 {object} models.ReviewResult
// @Failure 404 {object} errorResponse
// @Router /reviews [post]
func (h *ReviewHandler) PostReview(w http.ResponseWriter, r *http.Request) {
	var req models.ReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.svc.AddOrUpdate(r.Context(), UserIDFromContext(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, res)
}

// @Summary Reseñas de una película
// @Tags reviews
// @Produce json
// @Param id path int true "movie_id"
// @Success 200 {array} models.ReviewWithAuthor
// @Router /reviews/movie/{id} [get]
func (h *ReviewHandler) ListByMovie(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	list, err := h.svc.ListByMovie(r.Context(), movieID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []models.ReviewWithAuthor{}
	}
	writeJSON(w, http.StatusOK, list)
}

// @Summary Reseña de un usuario para una película
// @Tags reviews
// @Produce json
// @Param id path int true "movie_id"
// @Param uid path int true "user_id"
// @Success 200 {object} models.Review
// @Failure 404 {object} errorResponse
// @Router /reviews/movie/{id}/user/{uid} [get]
func (h *ReviewHandler) GetUserReview(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "uid")
	if !ok {
		return
	}
	rev, err := h.svc.GetUserReview(r.Context(), movieID, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if rev == nil {
		writeMessage(w, http.StatusNotFound, "Review not found")
		return
	}
	writeJSON(w, http.StatusOK, rev)
}

// @Summary Estadísticas de rating de una película
// @Tags reviews
// @Produce json
// @Param id path int true "movie_id"
// @Success 200 {object} models.ReviewStats
// @Router /reviews/movie/{id}/stats [get]
func (h *ReviewHandler) MovieStats(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	st, err := h.svc.Stats(r.Context(), movieID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// @Summary Mis reseñas (con título de la película)
// @Tags reviews
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.ReviewWithMovie
// @Router /reviews/user [get]
func (h *ReviewHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListByUser(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []models.ReviewWithMovie{}
	}
	writeJSON(w, http.StatusOK, list)
}
