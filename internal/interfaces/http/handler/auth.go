package handler

import (
	"net/http"

	"github.com/clothstore/backend/internal/application/identity"
	"github.com/clothstore/backend/internal/interfaces/http/dto"
	"github.com/clothstore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login godoc
// @ID           login
// @Summary      Admin login
// @Description  Checks the admin credentials and issues a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} dto.Response{data=LoginResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      result.User,
	})
}

// AdminLogin godoc
// @ID           adminLogin
// @Summary      Admin credential check
// @Description  Checks the admin credentials without issuing a token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} dto.Response{data=dto.MessageResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/admin/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.authService.VerifyCredentials(c.Request.Context(), identity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.MessageResponse{Message: "Login successful"})
}

// Verify godoc
// @ID           verifyToken
// @Summary      Verify token
// @Description  Returns the principal behind the bearer token
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=VerifyResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/verify [get]
func (h *AuthHandler) Verify(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, middleware.MsgAccessTokenRequired)
		return
	}

	h.Success(c, VerifyResponse{Valid: true, User: identity.UserFromClaims(claims)})
}

// Logout godoc
// @ID           logout
// @Summary      Logout
// @Description  Revokes the bearer token for the rest of its lifetime
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=dto.MessageResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.GetJWTClaims(c)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.MessageResponse{Message: "Logged out successfully"})
}
