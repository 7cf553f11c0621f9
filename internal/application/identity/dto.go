package identity

import "time"

// LoginInput contains submitted credentials
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult contains the token issued after a successful login
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      UserInfo
}

// UserInfo describes the authenticated principal
type UserInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}
