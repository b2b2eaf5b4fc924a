package handler

import (
	"context"
	"net/http"
	"strings"

	"dinoco-api/internal/service"

	"github.com/gorilla/websocket"
)

type ctxKey string

const (
	CtxUserID   ctxKey = "userId"
	CtxUserRole ctxKey = "role"
)

// TokenParser valida el bearer token. *service.TokenManager lo implementa.
type TokenParser interface {
	Parse(tokenStr string) (*service.Claims, error)
}

// bearerToken lee el header Authorization. Los navegadores no pueden mandar
// headers en el handshake WebSocket, así que ahí también vale ?token=.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer "), true
	}
	if websocket.IsWebSocketUpgrade(r) {
		if t := r.URL.Query().Get("token"); t != "" {
			return t, true
		}
	}
	return "", false
}

func withClaims(ctx context.Context, c *service.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxUserID, c.UserID)
	return context.WithValue(ctx, CtxUserRole, c.Role)
}

// JWTAuth devuelve un middleware que valida el token JWT y
// mete userId y role en el contexto.
func JWTAuth(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r)
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "Token required")
				return
			}
			claims, err := tokens.Parse(tokenStr)
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// OptionalJWT es como JWTAuth pero deja pasar requests anónimos.
// Un token inválido se ignora.
func OptionalJWT(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenStr, ok := bearerToken(r); ok {
				if claims, err := tokens.Parse(tokenStr); err == nil {
					r = r.WithContext(withClaims(r.Context(), claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RoleFromRequest es el roleOf que usa authz.Enforcer.Require.
func RoleFromRequest(r *http.Request) string {
	role, _ := r.Context().Value(CtxUserRole).(string)
	return role
}

// UserIDFromContext helper para sacar el userId del contexto.
func UserIDFromContext(ctx context.Context) int {
	if v := ctx.Value(CtxUserID); v != nil {
		if id, ok := v.(int); ok {
			return id
		}
	}
	return 0
}

// OptionalUserID devuelve nil si el request es anónimo.
func OptionalUserID(ctx context.Context) *int {
	id := UserIDFromContext(ctx)
	if id == 0 {
		return nil
	}
	return &id
}
