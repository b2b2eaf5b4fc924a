package handler

import (
	"net/http"
	"time"

	"dinoco-api/internal/logging"
	"dinoco-api/internal/models"
	"dinoco-api/internal/service"

	"github.com/gorilla/websocket"
)

type RecommendHandler struct {
	svc RecommendAPI
}

func NewRecommendHandler(s RecommendAPI) *RecommendHandler {
	return &RecommendHandler{svc: s}
}

// @Summary Mis recomendaciones
// @Description Motor por reglas (géneros preferidos, populares, tendencias)
// @Tags recommend
// @Security BearerAuth
// @Produce json
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {object} models.RecommendationResult
// @Router /recommendations [get]
func (h *RecommendHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Recommend(r.Context(), service.RecRequest{
		UserID:  UserIDFromContext(r.Context()),
		Refresh: r.URL.Query().Get("refresh") == "true",
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// @Summary Historial de recomendaciones
// @Tags recommend
// @Security BearerAuth
// @Produce json
// @Param limit query int false "cantidad (default: 10, máx 50)"
// @Success 200 {array} models.Recommendation
// @Router /recommendations/history [get]
func (h *RecommendHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.History(r.Context(), UserIDFromContext(r.Context()), queryInt(r, "limit"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Recommendation{}
	}
	writeJSON(w, http.StatusOK, list)
}

// upgrader global (no afecta a swagger); el CORS real lo resuelve el middleware
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary Recomendaciones en tiempo real (WebSocket)
// @Description Mensajes: start, un stage por etapa del motor, recommendations (o error)
// @Tags recommend
// @Security BearerAuth
// @Produce json
// @Param refresh query bool false "si true, ignora cache Redis"
// @Param token query string false "JWT si el cliente no puede mandar Authorization"
// @Success 101 {object} map[string]interface{}
// @Router /ws/recommendations [get]
func (h *RecommendHandler) GetRecommendationsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade ya respondió con el error HTTP
		logging.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	userID := UserIDFromContext(r.Context())
	send := func(msg map[string]any) bool {
		if err := conn.WriteJSON(msg); err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("websocket write failed")
			return false
		}
		return true
	}

	// Mensaje inicial
	if !send(map[string]any{
		"type": "start",
		"msg":  "Connection open, computing recommendations",
	}) {
		return
	}

	res, err := h.svc.Recommend(r.Context(), service.RecRequest{
		UserID:  userID,
		Refresh: r.URL.Query().Get("refresh") == "true",
	})
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Int("user_id", userID).Msg("websocket recommendations failed")
		send(map[string]any{
			"type":  "error",
			"error": "could not compute recommendations",
		})
		return
	}

	// Un mensaje por etapa del motor
	for i, st := range res.Stages {
		if !send(map[string]any{
			"type":     "stage",
			"step":     i + 1,
			"stage":    st.Stage,
			"selected": st.Selected,
		}) {
			return
		}
	}

	// Mensaje final con recomendaciones
	send(map[string]any{
		"type":         "recommendations",
		"user_id":      userID,
		"result":       res,
		"generated_at": time.Now().UTC(),
	})
}
