package service

import (
	"errors"
	"testing"
	"time"

	"dinoco-api/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	tok, err := tm.Issue(&models.User{UserID: 7, Email: "a@b.c", Role: models.RoleAdmin})
	if err != nil {
		t.Fatal(err)
	}
	c, err := tm.Parse(tok)
	if err != nil {
		t.Fatal(err)
	}
	if c.UserID != 7 || c.Role != models.RoleAdmin || c.Email != "a@b.c" {
		t.Errorf("claims = %+v", c)
	}
}

func TestTokenRejected(t *testing.T) {
	u := &models.User{UserID: 1, Role: models.RoleUser}
	expired, _ := NewTokenManager("secret", -time.Minute).Issue(u)
	otherKey, _ := NewTokenManager("other", time.Hour).Issue(u)

	tm := NewTokenManager("secret", time.Hour)
	for name, tok := range map[string]string{
		"expired":   expired,
		"wrong key": otherKey,
		"garbage":   "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := tm.Parse(tok); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}
