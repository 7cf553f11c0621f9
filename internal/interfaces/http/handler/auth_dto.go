package handler

import (
	"time"

	"github.com/clothstore/backend/internal/application/identity"
)

// LoginRequest represents the request body for admin login.
// Presence is checked by the auth service so both login routes answer alike.
type LoginRequest struct {
	Email    string `json:"email" binding:"max=200"`
	Password string `json:"password" binding:"max=128"`
}

// LoginResponse represents the response body for successful login
type LoginResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
	User      identity.UserInfo `json:"user"`
}

// VerifyResponse reports the principal behind a valid token
type VerifyResponse struct {
	Valid bool              `json:"valid"`
	User  identity.UserInfo `json:"user"`
}
