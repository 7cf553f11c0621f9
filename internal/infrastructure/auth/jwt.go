package auth

import (
	"errors"
	"time"

	"github.com/clothstore/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RoleAdmin is the only role allowed past the access guard
const RoleAdmin = "admin"

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrTokenBlacklisted = errors.New("token has been revoked")
)

// Claims carries the authenticated principal
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// IsAdmin reports whether the principal holds the admin role
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// RemainingTTL returns the time until the token expires, never negative
func (c *Claims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if remaining := time.Until(c.ExpiresAt.Time); remaining > 0 {
		return remaining
	}
	return 0
}

// Principal identifies who a token is issued to
type Principal struct {
	Email string
	Name  string
	Role  string
}

// IssuedToken is a signed token and its expiry
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenVerifier validates bearer tokens
type TokenVerifier interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// TokenIssuer signs tokens for authenticated principals
type TokenIssuer interface {
	GenerateToken(p Principal) (*IssuedToken, error)
}

// JWTService signs and validates HS256 tokens with a pre-shared secret
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	now        func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	expiration := cfg.Expiration
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: expiration,
		issuer:     cfg.Issuer,
		now:        time.Now,
	}
}

// GenerateToken signs a token for p. Each token gets a unique ID so it can be revoked individually.
func (s *JWTService) GenerateToken(p Principal) (*IssuedToken, error) {
	now := s.now()
	expiresAt := now.Add(s.expiration)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   p.Email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: p.Email,
		Name:  p.Name,
		Role:  p.Role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &IssuedToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// ValidateToken parses and verifies a token
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer(s.issuer))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.Email == "" || claims.ID == "" {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// Expiration returns the configured token lifetime
func (s *JWTService) Expiration() time.Duration {
	return s.expiration
}

var (
	_ TokenVerifier = (*JWTService)(nil)
	_ TokenIssuer   = (*JWTService)(nil)
)
