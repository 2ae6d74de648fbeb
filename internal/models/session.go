package models

import (
	"github.com/golang-jwt/jwt/v5"
)

type Genre string

const (
	GenreHomme Genre = "HOMME"
	GenreFemme Genre = "FEMME"
)

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleClient Role = "CLIENT"
)

// AuthUser is the identity record owned by the auth service, distinct
// from the per-segment catalog user.
type AuthUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Genre    Genre  `json:"genre"`
}

// Session is the authenticated state held by the client: the user plus
// the bearer token pair. It only ever lives in local storage and memory.
type Session struct {
	User         AuthUser `json:"user"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Genre    Genre  `json:"genre" validate:"required,oneof=HOMME FEMME"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// AuthResult is the outcome of a login or register attempt. A rejected
// credential is Success=false with a message, not an error.
type AuthResult struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	User    *AuthUser `json:"user,omitempty"`
}

// AuthPayload is the data block of a successful auth-service response.
type AuthPayload struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	User         AuthUser `json:"user"`
}

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
