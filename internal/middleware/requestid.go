package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"dinoco-api/internal/logging"
)

const RequestIDHeader = "X-Request-ID"

// RequestID reutiliza el X-Request-ID del proxy o genera uno nuevo, lo
// devuelve en la respuesta y lo deja en el contexto para los logs.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.ContextWithRequestID(r.Context(), id)))
	})
}
