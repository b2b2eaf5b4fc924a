package service

import "errors"

// Errores de dominio; los handlers los traducen a códigos HTTP con errors.Is.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOTP         = errors.New("invalid or expired code")
	ErrInvalidRole        = errors.New("invalid role (must be user|admin)")
	ErrUserNotFound       = errors.New("user not found")
	ErrMovieNotFound      = errors.New("movie not found")
	ErrNoFieldsToUpdate   = errors.New("no fields to update")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
