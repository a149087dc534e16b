package handler

import (
	"context"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopadmin/backend/internal/infrastructure/logger"
	"github.com/shopadmin/backend/internal/interfaces/http/dto"
	"github.com/shopadmin/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultCheckTimeout = 3 * time.Second

// HealthCheck probes one dependency for readiness
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	BaseHandler
	version   string
	checks    []HealthCheck
	timeout   time.Duration
	startTime time.Time
}

// NewHealthHandler creates a health handler running checks on readiness probes
func NewHealthHandler(version string, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{
		version:   version,
		checks:    checks,
		timeout:   defaultCheckTimeout,
		startTime: time.Now(),
	}
}

// HealthResponse is the service health summary
type HealthResponse struct {
	Status    string            `json:"status" example:"healthy"`
	Version   string            `json:"version,omitempty" example:"1.0.0"`
	GoVersion string            `json:"go_version,omitempty" example:"go1.25.5"`
	Uptime    string            `json:"uptime,omitempty" example:"1h30m45s"`
	Checks    map[string]string `json:"checks,omitempty"`
	Time      time.Time         `json:"time"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	h.Success(c, HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Time:      time.Now().UTC(),
	})
}

// Live handles GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	h.Success(c, HealthResponse{Status: "alive", Time: time.Now().UTC()})
}

// Ready handles GET /health/ready
// Probe every dependency. Any failing check answers 503.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	var mu sync.Mutex
	results := make(map[string]string, len(h.checks))
	healthy := true

	var g errgroup.Group
	for _, check := range h.checks {
		g.Go(func() error {
			err := check.Check(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				healthy = false
				results[check.Name] = "error"
				logger.GetGinLogger(c).Warn("Readiness check failed",
					zap.String("check", check.Name),
					zap.Error(err))
				return nil
			}
			results[check.Name] = "ok"
			return nil
		})
	}
	_ = g.Wait()

	report := HealthResponse{Status: "ready", Checks: results, Time: time.Now().UTC()}
	if !healthy {
		report.Status = "unavailable"
		c.JSON(http.StatusServiceUnavailable, dto.Response{
			Success: false,
			Data:    report,
			Error: dto.NewErrorResponseWithRequestID(
				dto.ErrCodeServiceUnavailable,
				"One or more dependencies are unavailable",
				middleware.GetRequestID(c),
			).Error,
		})
		return
	}
	h.Success(c, report)
}
