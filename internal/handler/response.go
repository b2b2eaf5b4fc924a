package handler

import (
	"errors"
	"net/http"
	"strconv"

	"dinoco-api/internal/logging"
	"dinoco-api/internal/service"
	"dinoco-api/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

type errorResponse struct {
	Message string                  `json:"message"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn().Err(err).Msg("write response")
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

// decodeAndValidate lee el body JSON y corre las reglas validate del struct.
// Si falla, ya respondió 400 y devuelve false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	if err := validation.ValidateStruct(dst); err != nil {
		var verr *validation.RequestValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Validation failed", Fields: verr.Fields})
			return false
		}
		writeMessage(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// writeServiceError traduce los errores de dominio a HTTP; el resto es 500 y se loguea.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		writeMessage(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrNoFieldsToUpdate):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrInvalidOTP):
		writeMessage(w, http.StatusUnauthorized, "Invalid or expired code")
	case errors.Is(err, service.ErrInvalidToken):
		writeMessage(w, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, service.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrMovieNotFound):
		writeMessage(w, http.StatusNotFound, "Movie not found")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// pathID lee un entero positivo de la ruta; responde 400 si no lo es.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		writeMessage(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(name))
	return v
}
