package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"dinoco-api/internal/logging"
	"dinoco-api/internal/metrics"
	"dinoco-api/internal/models"
	"dinoco-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const otpDigits = 6

type AuthService struct {
	users    UserStore
	otps     OTPStore
	mail     OTPMailer
	tokens   *TokenManager
	otpTTL   time.Duration
	devMode  bool
	hashCost int
	now      func() time.Time
}

type AuthOptions struct {
	OTPTTL  time.Duration
	DevMode bool
}

type RegisterUserData struct {
	Name     string
	Email    string
	Password string
}

type UpdateUserData struct {
	Name     *string
	Email    *string
	Role     *string
	Password *string
}

func NewAuthService(users UserStore, otps OTPStore, mail OTPMailer, tokens *TokenManager, opts AuthOptions) *AuthService {
	if opts.OTPTTL <= 0 {
		opts.OTPTTL = 10 * time.Minute
	}
	return &AuthService{
		users:    users,
		otps:     otps,
		mail:     mail,
		tokens:   tokens,
		otpTTL:   opts.OTPTTL,
		devMode:  opts.DevMode,
		hashCost: bcrypt.DefaultCost,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ================== REGISTER ==================

// Register crea un usuario nuevo con rol "user".
func (s *AuthService) Register(ctx context.Context, data RegisterUserData) (*models.User, error) {
	return s.createUser(ctx, data, models.RoleUser)
}

func (s *AuthService) createUser(ctx context.Context, data RegisterUserData, role string) (*models.User, error) {
	email := normalizeEmail(data.Email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	nextID, err := s.users.GetNextUserID(ctx)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), s.hashCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	u := &models.User{
		UserID:       nextID,
		Name:         strings.TrimSpace(data.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Insert(ctx, u); err != nil {
		// carrera entre dos registros con el mismo email
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	logging.Ctx(ctx).Info().Int("user_id", u.UserID).Msg("user registered")
	return u, nil
}

// ================== LOGIN (2 pasos) ==================

// Login valida la contraseña y emite un OTP por email.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.LoginChallenge, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	code, err := s.issueOTP(ctx, u.UserID)
	if err != nil {
		return nil, err
	}

	out := &models.LoginChallenge{
		Message:     "OTP sent",
		OTPRequired: true,
		Email:       u.Email,
	}
	if err := s.mail.SendOTP(ctx, u.Email, code, s.otpTTL); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int("user_id", u.UserID).Msg("otp not delivered")
		if s.devMode {
			out.DevOTP = code
		}
	}
	return out, nil
}

// issueOTP invalida los códigos anteriores del usuario y guarda uno nuevo.
func (s *AuthService) issueOTP(ctx context.Context, userID int) (string, error) {
	code, err := randomCode(otpDigits)
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.hashCost)
	if err != nil {
		return "", err
	}

	if err := s.otps.ConsumeAllForUser(ctx, userID); err != nil {
		return "", fmt.Errorf("consume previous otps: %w", err)
	}
	now := s.now()
	otp := &models.LoginOTP{
		UserID:    userID,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(s.otpTTL),
		CreatedAt: now,
	}
	if err := s.otps.Insert(ctx, otp); err != nil {
		return "", fmt.Errorf("insert otp: %w", err)
	}
	metrics.RecordOTP(metrics.OTPIssued)
	return code, nil
}

// VerifyOTP consume el OTP vigente y devuelve la sesión.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*models.LoginResult, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}

	otp, err := s.otps.LatestActive(ctx, u.UserID, s.now())
	if err != nil {
		return nil, err
	}
	if otp == nil || bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(strings.TrimSpace(code))) != nil {
		metrics.RecordOTP(metrics.OTPRejected)
		return nil, ErrInvalidOTP
	}

	ok, err := s.otps.Consume(ctx, otp.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		// otro request lo usó primero
		metrics.RecordOTP(metrics.OTPRejected)
		return nil, ErrInvalidOTP
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	metrics.RecordOTP(metrics.OTPVerified)
	return &models.LoginResult{Message: "Login successful", User: u, Token: token}, nil
}

func randomCode(digits int) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n.Int64()), nil
}

// ================== ADMIN: usuarios ==================

// UpdateUser actualiza campos opcionales de un usuario.
func (s *AuthService) UpdateUser(ctx context.Context, userID int, data UpdateUserData) (*models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	update := bson.M{}

	if data.Name != nil {
		update["name"] = strings.TrimSpace(*data.Name)
	}

	if data.Email != nil {
		email := normalizeEmail(*data.Email)
		existing, err := s.users.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.UserID != userID {
			return nil, ErrEmailTaken
		}
		update["email"] = email
	}

	if data.Role != nil {
		if *data.Role != models.RoleUser && *data.Role != models.RoleAdmin {
			return nil, ErrInvalidRole
		}
		update["role"] = *data.Role
	}

	if data.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*data.Password), s.hashCost)
		if err != nil {
			return nil, err
		}
		update["passwordHash"] = string(hash)
	}

	if len(update) == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	update["updatedAt"] = s.now()

	if err := s.users.UpdateByID(ctx, userID, update); err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) ListUsers(ctx context.Context, role, q string, limit, offset int) ([]models.User, error) {
	return s.users.Search(ctx, role, q, limit, offset)
}

func (s *AuthService) GetUserByID(ctx context.Context, userID int) (*models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// Resultado de EnsureAdmin
const (
	AdminExists   = "exists"
	AdminUpgraded = "upgraded"
	AdminCreated  = "created"
)

// EnsureAdmin deja una cuenta admin con ese email: la crea, promueve a un
// usuario existente, o no hace nada si ya es admin.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (string, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", err
	}

	if u != nil {
		if u.Role == models.RoleAdmin {
			return AdminExists, nil
		}
		if err := s.users.UpdateByID(ctx, u.UserID, bson.M{
			"role":      models.RoleAdmin,
			"updatedAt": s.now(),
		}); err != nil {
			return "", err
		}
		return AdminUpgraded, nil
	}

	if _, err := s.createUser(ctx, RegisterUserData{Name: name, Email: email, Password: password}, models.RoleAdmin); err != nil {
		return "", err
	}
	return AdminCreated, nil
}
