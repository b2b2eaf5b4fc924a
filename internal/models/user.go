package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	UserID       int       `json:"user_id" bson:"userId"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	Role         string    `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updatedAt"`
}

// LoginOTP es el segundo factor del login. Solo se guarda el hash del código.
type LoginOTP struct {
	ID        primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	UserID    int                `json:"user_id" bson:"userId"`
	CodeHash  string             `json:"-" bson:"codeHash"`
	ExpiresAt time.Time          `json:"expires_at" bson:"expiresAt"`
	Consumed  bool               `json:"consumed" bson:"consumed"`
	CreatedAt time.Time          `json:"created_at" bson:"createdAt"`
}

// LoginChallenge es la respuesta del primer paso del login.
type LoginChallenge struct {
	Message     string `json:"message"`
	OTPRequired bool   `json:"otp_required"`
	Email       string `json:"email"`
	DevOTP      string `json:"dev_otp,omitempty"`
}

type LoginResult struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
	Token   string `json:"token"`
}
