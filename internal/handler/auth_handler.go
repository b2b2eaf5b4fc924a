package handler

import (
	"net/http"

	"dinoco-api/internal/models"
	"dinoco-api/internal/service"
)

type AuthHandler struct {
	svc AuthAPI
}

func NewAuthHandler(s AuthAPI) *AuthHandler {
	return &AuthHandler{svc: s}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// @Summary Register
// @Description Crea un usuario nuevo con rol user
// @Tags auth
// @Accept json
// @Produce json
// @Param body body registerRequest true "datos"
// @Success 201 {object} messageResponse
// @Failure 400 {object} errorResponse
// @Router /register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := h.svc.Register(r.Context(), service.RegisterUserData{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: "User registered successfully!"})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// @Summary Login (paso 1)
// @Description Valida credenciales y envía un OTP por email
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "credenciales"
// @Success 200 {object} models.LoginChallenge
// @Failure 401 {object} errorResponse
// @Router /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	out, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// @Summary Login (paso 2)
// @Description Verifica el OTP y devuelve el JWT de sesión
// @Tags auth
// @Accept json
// @Produce json
// @Param body body verifyOTPRequest true "email y código"
// @Success 200 {object} models.LoginResult
// @Failure 401 {object} errorResponse
// @Router /login/verify-otp [post]
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	out, err := h.svc.VerifyOTP(r.Context(), req.Email, req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ====== ADMIN: usuarios ======

type updateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Role     *string `json:"role" validate:"omitempty,oneof=user admin"`
	Password *string `json:"password" validate:"omitempty,min=6,max=128"`
}

// @Summary Actualizar usuario (ADMIN)
// @Description Todos los campos son opcionales
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "user_id"
// @Param body body updateUserRequest true "datos a actualizar"
// @Success 200 {object} models.User
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /users/{id} [put]
func (h *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	u, err := h.svc.UpdateUser(r.Context(), id, service.UpdateUserData{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// @Summary Listar usuarios (ADMIN)
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param role query string false "user|admin|all (default: all)"
// @Param q query string false "búsqueda por email o nombre"
// @Param limit query int false "límite (default: 20)"
// @Param offset query int false "offset (default: 0)"
// @Success 200 {array} models.User
// @Router /users [get]
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role == "" {
		role = "all"
	}
	limit := queryInt(r, "limit")
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := queryInt(r, "offset")
	if offset < 0 {
		offset = 0
	}

	users, err := h.svc.ListUsers(r.Context(), role, r.URL.Query().Get("q"), limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// @Summary Obtener usuario por id (ADMIN)
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path int true "user_id"
// @Success 200 {object} models.User
// @Failure 404 {object} errorResponse
// @Router /users/{id} [get]
func (h *AuthHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	u, err := h.svc.GetUserByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
