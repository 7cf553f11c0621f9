package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/clothstore/backend/internal/infrastructure/logger"
	"github.com/clothstore/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIVersion is reported by the health and info endpoints
const APIVersion = "1.0.0"

// Pinger reports whether the store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	db        Pinger
	name      string
	startTime time.Time
	now       func() time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db Pinger, name string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		name:      name,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// HealthResponse is the body of the health check
type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	Message   string `json:"message" example:"Orders API is healthy"`
	Timestamp string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
	Version   string `json:"version" example:"1.0.0"`
	Database  string `json:"database" example:"ok"`
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name" example:"clothstore-backend"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"goVersion" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// Health godoc
// @ID           health
// @Summary      Health check
// @Description  Pings the store; 503 when it is unreachable
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Message:   "Orders API is healthy",
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Version:   APIVersion,
		Database:  "ok",
	}

	if err := h.db.Ping(c.Request.Context()); err != nil {
		logger.FromGin(c).Warn("Health check failed", zap.Error(err))
		resp.Status = "unhealthy"
		resp.Message = "Orders API cannot reach the database"
		resp.Database = "error"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetSystemInfo godoc
// @ID           getSystemInfo
// @Summary      Get system information
// @Description  Returns basic system information including version and uptime
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.APIResponse[SystemInfoResponse]
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      h.name,
		Version:   APIVersion,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}
