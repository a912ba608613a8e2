package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/emlak/backend/internal/infrastructure/persistence"
	"github.com/emlak/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// DatabaseHealth is the part of the database the health check looks at
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Stats() (persistence.ConnectionStats, error)
}

// HealthCheck checks one optional dependency such as redis
type HealthCheck func(ctx context.Context) error

// SystemHandler serves liveness, readiness and build information
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	db        DatabaseHealth
	checks    map[string]HealthCheck
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(name, version string, db DatabaseHealth) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		db:        db,
		checks:    make(map[string]HealthCheck),
		startTime: time.Now(),
	}
}

// WithCheck adds a named dependency check to the health report
func (h *SystemHandler) WithCheck(name string, check HealthCheck) *SystemHandler {
	h.checks[name] = check
	return h
}

// SystemInfoResponse represents the system information response
// @name HandlerSystemInfoResponse
type SystemInfoResponse struct {
	Name      string `json:"name" example:"emlak-backend"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// HealthResponse reports the state of the service and its dependencies
type HealthResponse struct {
	Status       string                       `json:"status" example:"healthy"`
	Database     string                       `json:"database" example:"connected"`
	Dependencies map[string]string            `json:"dependencies,omitempty"`
	Pool         *persistence.ConnectionStats `json:"pool,omitempty"`
	Uptime       string                       `json:"uptime" example:"1h30m45s"`
}

// GetSystemInfo godoc
// @ID           getSystemInfo
// @Summary      Get system information
// @Description  Returns basic system information including version and uptime
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    h.uptime(),
	})
}

// Health godoc
// @ID           getHealth
// @Summary      Health check
// @Description  Pings the database and the configured dependencies. Answers 503 when the database is unreachable; other dependencies only degrade the status.
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "healthy", Database: "connected", Uptime: h.uptime()}
	status := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
		status = http.StatusServiceUnavailable
	} else if stats, err := h.db.Stats(); err == nil {
		resp.Pool = &stats
	}

	if len(h.checks) > 0 {
		resp.Dependencies = make(map[string]string, len(h.checks))
		for name, check := range h.checks {
			if err := check(ctx); err != nil {
				resp.Dependencies[name] = "unavailable"
				if resp.Status == "healthy" {
					resp.Status = "degraded"
				}
				continue
			}
			resp.Dependencies[name] = "ok"
		}
	}

	c.JSON(status, resp)
}

// Ping godoc
// @ID           pingSystem
// @Summary      Ping the API
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[MessageResponse]
// @Router       /system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(MessageResponse{Message: "pong"}))
}

func (h *SystemHandler) uptime() string {
	return time.Since(h.startTime).Round(time.Second).String()
}
