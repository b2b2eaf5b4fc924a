// internal/handler/movie_handler.go
package handler

import (
	"net/http"

	"dinoco-api/internal/models"
	"dinoco-api/internal/service"
)

type MovieHandler struct {
	svc MovieAPI
}

func NewMovieHandler(s MovieAPI) *MovieHandler { return &MovieHandler{svc: s} }

// @Summary Listar catálogo (más nuevas primero)
// @Tags movies
// @Produce json
// @Success 200 {array} models.Movie
// @Router /movies [get]
func (h *MovieHandler) List(w http.ResponseWriter, r *http.Request) {
	movies, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

// @Summary Get movie
// @Tags movies
// @Produce json
// @Param id path int true "movie_id"
// @Success 200 {object} models.Movie
// @Failure 404 {object} errorResponse
// @Router /movies/{id} [get]
func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	m, err := h.svc.GetMovie(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// @Summary Buscar películas (paginado)
// @Description Ranking difuso por título; si nada matchea devuelve sugerencias
// @Tags movies
// @Produce json
// @Param q query string false "búsqueda por título"
// @Param genre query string false "filtrar por género"
// @Param year_from query int false "año desde"
// @Param year_to query int false "año hasta"
// @Param limit query int false "límite"
// @Param offset query int false "offset"
// @Success 200 {object} models.MovieSearchResult
// @Router /movies/search [get]
func (h *MovieHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.svc.Search(r.Context(), service.SearchParams{
		Query:    q.Get("q"),
		Genre:    q.Get("genre"),
		YearFrom: queryInt(r, "year_from"),
		YearTo:   queryInt(r, "year_to"),
		Limit:    queryInt(r, "limit"),
		Offset:   queryInt(r, "offset"),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// @Summary Top películas (popularidad o rating)
// @Tags movies
// @Produce json
// @Param metric query string false "popular|rating (default: popular)"
// @Param limit query int false "límite (default: 20)"
// @Success 200 {array} models.Movie
// @Router /movies/top [get]
func (h *MovieHandler) Top(w http.ResponseWriter, r *http.Request) {
	movies, err := h.svc.Top(r.Context(), r.URL.Query().Get("metric"), queryInt(r, "limit"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

// ====== ADMIN: crear / actualizar / borrar películas ======

// @Summary Crear nueva película
// @Tags movies
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.MovieCreateRequest true "Datos de la película"
// @Success 201 {object} models.Movie
// @Failure 400 {object} errorResponse
// @Router /movies [post]
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req models.MovieCreateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	movie, err := h.svc.CreateMovie(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, movie)
}

// @Summary Actualizar película existente
// @Tags movies
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "movie_id"
// @Param body body models.MovieUpdateRequest true "Campos a actualizar"
// @Success 200 {object} models.Movie
// @Failure 404 {object} errorResponse
// @Router /movies/{id} [put]
func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.MovieUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	movie, err := h.svc.UpdateMovie(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

// @Summary Borrar película (y sus reseñas y traces)
// @Tags movies
// @Security BearerAuth
// @Produce json
// @Param id path int true "movie_id"
// @Success 200 {object} messageResponse
// @Failure 404 {object} errorResponse
// @Router /movies/{id} [delete]
func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteMovie(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Movie deleted successfully"})
}
