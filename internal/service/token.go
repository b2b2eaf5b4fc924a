package service

import (
	"fmt"
	"time"

	"dinoco-api/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims es lo que viaja en el JWT de sesión.
type Claims struct {
	UserID int
	Email  string
	Role   string
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

func (t *TokenManager) Issue(u *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   u.UserID,
		"email": u.Email,
		"role":  u.Role,
		"exp":   time.Now().Add(t.ttl).Unix(),
	})
	return token.SignedString(t.secret)
}

// Parse valida firma y expiración. Cualquier falla es ErrInvalidToken.
func (t *TokenManager) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return &Claims{UserID: int(sub), Email: email, Role: role}, nil
}
