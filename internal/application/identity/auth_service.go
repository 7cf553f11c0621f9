package identity

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/clothstore/backend/internal/domain/shared"
	"github.com/clothstore/backend/internal/infrastructure/auth"
	"github.com/clothstore/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	errMissingCredentials = shared.ErrValidation.WithMessage("Email and password are required.")
	errInvalidCredentials = shared.ErrUnauthorized.WithMessage("Invalid email or password.")
)

// AuthService authenticates the configured administrator and manages their tokens
type AuthService struct {
	admin     config.AdminConfig
	issuer    auth.TokenIssuer
	blacklist auth.TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	admin config.AdminConfig,
	issuer auth.TokenIssuer,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		admin:     admin,
		issuer:    issuer,
		blacklist: blacklist,
		logger:    logger,
	}
}

// Login checks the credentials and issues a token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if err := s.VerifyCredentials(ctx, input); err != nil {
		return nil, err
	}

	user := s.adminInfo()
	issued, err := s.issuer.GenerateToken(auth.Principal{Email: user.Email, Name: user.Name, Role: user.Role})
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info("Admin logged in", zap.String("email", user.Email))
	return &LoginResult{
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
		User:      user,
	}, nil
}

// VerifyCredentials checks an email/password pair against the configured admin without issuing a token
func (s *AuthService) VerifyCredentials(_ context.Context, input LoginInput) error {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return errMissingCredentials
	}

	emailMatches := subtle.ConstantTimeCompare(
		[]byte(strings.ToLower(email)),
		[]byte(strings.ToLower(s.admin.Email)),
	) == 1
	// The hash is always compared so a wrong email costs the same as a wrong password.
	passwordErr := bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(input.Password))
	if !emailMatches || passwordErr != nil {
		s.logger.Warn("Invalid login attempt", zap.String("email", email))
		return errInvalidCredentials
	}
	return nil
}

// Logout revokes the token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return shared.ErrUnauthorized
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		s.logger.Error("Failed to revoke token", zap.String("jti", claims.ID), zap.Error(err))
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logger.Info("Admin logged out", zap.String("email", claims.Email))
	return nil
}

// UserFromClaims maps verified claims to the user info returned by the API
func UserFromClaims(claims *auth.Claims) UserInfo {
	return UserInfo{Email: claims.Email, Name: claims.Name, Role: claims.Role}
}

func (s *AuthService) adminInfo() UserInfo {
	return UserInfo{Email: s.admin.Email, Name: s.admin.Name, Role: auth.RoleAdmin}
}
