package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"dinoco-api/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func newTestAuth(devMode bool, mailErr error) (*AuthService, *fakeUsers, *fakeMailer) {
	users := newFakeUsers()
	mail := &fakeMailer{err: mailErr}
	svc := NewAuthService(users, &fakeOTPs{}, mail, NewTokenManager("test-secret", time.Hour), AuthOptions{
		OTPTTL:  10 * time.Minute,
		DevMode: devMode,
	})
	svc.hashCost = bcrypt.MinCost
	return svc, users, mail
}

func registerAna(t *testing.T, svc *AuthService) *models.User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterUserData{
		Name:     "Ana",
		Email:    " Ana@Example.com ",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return u
}

func TestRegister(t *testing.T) {
	svc, _, _ := newTestAuth(false, nil)
	u := registerAna(t, svc)

	if u.Email != "ana@example.com" {
		t.Errorf("email = %q, want normalized", u.Email)
	}
	if u.Role != models.RoleUser {
		t.Errorf("role = %q, want user", u.Role)
	}
	if u.PasswordHash == "s3cret-pass" || u.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}

	_, err := svc.Register(context.Background(), RegisterUserData{Name: "Otra", Email: "ana@example.com", Password: "x"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate register err = %v, want ErrEmailTaken", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, mail := newTestAuth(false, nil)
	registerAna(t, svc)

	tests := []struct {
		name, email, password string
	}{
		{"wrong password", "ana@example.com", "nope"},
		{"unknown email", "bob@example.com", "s3cret-pass"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.email, tt.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
	if len(mail.codes) != 0 {
		t.Errorf("no OTP should be mailed, got %d", len(mail.codes))
	}
}

func TestLoginAndVerifyOTP(t *testing.T) {
	svc, _, mail := newTestAuth(false, nil)
	u := registerAna(t, svc)
	ctx := context.Background()

	ch, err := svc.Login(ctx, "ana@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !ch.OTPRequired || ch.Message != "OTP sent" || ch.DevOTP != "" {
		t.Fatalf("unexpected challenge %+v", ch)
	}
	if len(mail.codes) != 1 || len(mail.codes[0]) != otpDigits {
		t.Fatalf("mailed codes = %v", mail.codes)
	}

	res, err := svc.VerifyOTP(ctx, "ana@example.com", mail.codes[0])
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	claims, err := svc.tokens.Parse(res.Token)
	if err != nil {
		t.Fatalf("token does not parse: %v", err)
	}
	if claims.UserID != u.UserID || claims.Role != models.RoleUser || claims.Email != u.Email {
		t.Errorf("claims = %+v", claims)
	}

	// un OTP no sirve dos veces
	if _, err := svc.VerifyOTP(ctx, "ana@example.com", mail.codes[0]); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("reused OTP err = %v, want ErrInvalidOTP", err)
	}
}

func TestNewLoginInvalidatesPreviousOTP(t *testing.T) {
	svc, _, mail := newTestAuth(false, nil)
	registerAna(t, svc)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.Login(ctx, "ana@example.com", "s3cret-pass"); err != nil {
			t.Fatalf("Login: %v", err)
		}
	}
	if mail.codes[0] == mail.codes[1] {
		t.Skip("both random codes collided")
	}
	if _, err := svc.VerifyOTP(ctx, "ana@example.com", mail.codes[0]); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("old OTP err = %v, want ErrInvalidOTP", err)
	}
	if _, err := svc.VerifyOTP(ctx, "ana@example.com", mail.codes[1]); err != nil {
		t.Fatalf("latest OTP: %v", err)
	}
}

func TestVerifyOTPExpired(t *testing.T) {
	svc, _, mail := newTestAuth(false, nil)
	registerAna(t, svc)
	ctx := context.Background()

	if _, err := svc.Login(ctx, "ana@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	later := time.Now().UTC().Add(11 * time.Minute)
	svc.now = func() time.Time { return later }

	if _, err := svc.VerifyOTP(ctx, "ana@example.com", mail.codes[0]); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("expired OTP err = %v, want ErrInvalidOTP", err)
	}
}

func TestLoginDevOTPOnlyInDevelopment(t *testing.T) {
	mailDown := errors.New("smtp down")

	tests := []struct {
		name    string
		dev     bool
		mailErr error
		wantDev bool
	}{
		{"dev and mail failed", true, mailDown, true},
		{"dev and mail delivered", true, nil, false},
		{"prod and mail failed", false, mailDown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, mail := newTestAuth(tt.dev, tt.mailErr)
			registerAna(t, svc)

			ch, err := svc.Login(context.Background(), "ana@example.com", "s3cret-pass")
			if err != nil {
				t.Fatalf("Login: %v", err)
			}
			if got := ch.DevOTP != ""; got != tt.wantDev {
				t.Fatalf("dev_otp present = %v, want %v", got, tt.wantDev)
			}
			if tt.wantDev && ch.DevOTP != mail.codes[0] {
				t.Errorf("dev_otp = %q, want mailed code %q", ch.DevOTP, mail.codes[0])
			}
		})
	}
}

func TestUpdateUser(t *testing.T) {
	svc, _, _ := newTestAuth(false, nil)
	ctx := context.Background()
	ana := registerAna(t, svc)
	bob, err := svc.Register(ctx, RegisterUserData{Name: "Bob", Email: "bob@example.com", Password: "pw"})
	if err != nil {
		t.Fatal(err)
	}

	admin := models.RoleAdmin
	bad := "root"
	taken := "bob@example.com"

	tests := []struct {
		name    string
		id      int
		data    UpdateUserData
		wantErr error
	}{
		{"promote", ana.UserID, UpdateUserData{Role: &admin}, nil},
		{"invalid role", ana.UserID, UpdateUserData{Role: &bad}, ErrInvalidRole},
		{"email taken", ana.UserID, UpdateUserData{Email: &taken}, ErrEmailTaken},
		{"own email is fine", bob.UserID, UpdateUserData{Email: &taken}, nil},
		{"nothing to update", ana.UserID, UpdateUserData{}, ErrNoFieldsToUpdate},
		{"unknown user", 999, UpdateUserData{Role: &admin}, ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateUser(ctx, tt.id, tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	got, err := svc.GetUserByID(ctx, ana.UserID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Role != models.RoleAdmin {
		t.Errorf("role after promote = %q", got.Role)
	}
}

func TestEnsureAdmin(t *testing.T) {
	svc, _, _ := newTestAuth(false, nil)
	ctx := context.Background()
	registerAna(t, svc)

	outcome, err := svc.EnsureAdmin(ctx, "Admin", "admin@dinoco.local", "Admin@123456")
	if err != nil || outcome != AdminCreated {
		t.Fatalf("first run = %q, %v; want created", outcome, err)
	}
	outcome, err = svc.EnsureAdmin(ctx, "Admin", "admin@dinoco.local", "Admin@123456")
	if err != nil || outcome != AdminExists {
		t.Fatalf("second run = %q, %v; want exists", outcome, err)
	}
	outcome, err = svc.EnsureAdmin(ctx, "Admin", "ana@example.com", "whatever")
	if err != nil || outcome != AdminUpgraded {
		t.Fatalf("existing user = %q, %v; want upgraded", outcome, err)
	}
}
