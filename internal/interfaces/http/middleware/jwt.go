package middleware

import (
	"net/http"
	"strings"

	"github.com/clothstore/backend/internal/infrastructure/auth"
	"github.com/clothstore/backend/internal/infrastructure/logger"
	"github.com/clothstore/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// Guard messages returned to clients
const (
	MsgAccessTokenRequired = "Access token required"
	MsgInvalidToken        = "Invalid or expired token"
	MsgAdminRequired       = "Admin access required"
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// Verifier is required for token validation
	Verifier auth.TokenVerifier
	// TokenBlacklist is optional; revoked JTIs are rejected when set
	TokenBlacklist auth.TokenBlacklist
	Logger         *zap.Logger
}

// JWTAuth authenticates the bearer token and stores its claims in the context.
// It does not check the role; chain RequireAdmin for that.
func JWTAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, MsgAccessTokenRequired)
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
		if tokenString == "" {
			abortUnauthorized(c, MsgAccessTokenRequired)
			return
		}

		claims, err := cfg.Verifier.ValidateToken(tokenString)
		if err != nil {
			log.Debug("JWT validation failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
			)
			abortUnauthorized(c, MsgInvalidToken)
			return
		}

		if cfg.TokenBlacklist != nil {
			revoked, err := cfg.TokenBlacklist.IsRevoked(c.Request.Context(), claims.ID)
			switch {
			case err != nil:
				// fail open: a blacklist outage must not lock out every admin
				log.Error("Failed to check token blacklist",
					zap.String("jti", claims.ID),
					zap.Error(err),
				)
			case revoked:
				abortUnauthorized(c, MsgInvalidToken)
				return
			}
		}

		c.Set(JWTClaimsKey, claims)
		c.Request = c.Request.WithContext(logger.WithActor(c.Request.Context(), claims.Email))
		c.Next()
	}
}

// RequireAdmin rejects authenticated principals without the admin role.
// It must run after JWTAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abortUnauthorized(c, MsgAccessTokenRequired)
			return
		}
		if !claims.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, MsgAdminRequired, c.GetString(RequestIDContextKey)))
			return
		}
		c.Next()
	}
}

// AdminGuard is JWTAuth followed by RequireAdmin
func AdminGuard(cfg JWTMiddlewareConfig) []gin.HandlerFunc {
	return []gin.HandlerFunc{JWTAuth(cfg), RequireAdmin()}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, message, c.GetString(RequestIDContextKey)))
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}
