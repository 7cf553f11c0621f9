package handler

import (
	"errors"
	"net/http"

	"github.com/clothstore/backend/internal/domain/shared"
	"github.com/clothstore/backend/internal/infrastructure/logger"
	"github.com/clothstore/backend/internal/interfaces/http/dto"
	"github.com/clothstore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	return c.GetString(middleware.RequestIDContextKey)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessList sends a success response with the item count in meta
func (h *BaseHandler) SuccessList(c *gin.Context, data any, total int) {
	c.JSON(http.StatusOK, dto.NewListResponse(data, total))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// BindJSON binds the body and renders binding failures. It reports whether binding succeeded.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		if details := middleware.ValidationDetails(err); len(details) > 0 {
			middleware.HandleValidationError(c, err)
			return false
		}
		h.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}

// ParseUUIDParam reads a UUID path parameter. An unparseable value cannot name
// a stored record, so it is answered with notFoundMessage.
func (h *BaseHandler) ParseUUIDParam(c *gin.Context, name, notFoundMessage string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.NotFound(c, notFoundMessage)
		return uuid.Nil, false
	}
	return id, true
}

// HandleError renders domain errors with their code, status and details.
// Anything else is logged and reported as an internal error without leaking its text.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	requestID := getRequestID(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		statusCode := dto.GetHTTPStatus(domainErr.Code)
		if len(domainErr.Details) > 0 {
			c.JSON(statusCode, dto.NewValidationErrorResponse(domainErr.Message, requestID, domainErr.Details))
			return
		}
		if statusCode >= http.StatusInternalServerError {
			logger.FromGin(c).Error("Request failed", zap.String("code", domainErr.Code), zap.Error(err))
		}
		c.JSON(statusCode, dto.NewErrorResponse(domainErr.Code, domainErr.Message, requestID))
		return
	}

	_ = c.Error(err)
	logger.FromGin(c).Error("Unexpected error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.ErrCodeInternal,
		"An unexpected error occurred",
		requestID,
	))
}
