package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"napo-service/pkg/logger"

	"github.com/labstack/echo/v4"
)

// HealthCheck pings one dependency
type HealthCheck func(ctx context.Context) error

type checkResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type healthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]checkResult `json:"checks"`
}

// HealthHandler reports whether the service and its dependencies are reachable
type HealthHandler struct {
	env     string
	checks  map[string]HealthCheck
	timeout time.Duration
	log     logger.Logger
}

// NewHealthHandler creates a health handler running every check on each request
func NewHealthHandler(env string, checks map[string]HealthCheck, log logger.Logger) *HealthHandler {
	return &HealthHandler{env: env, checks: checks, timeout: 5 * time.Second, log: log}
}

// CheckHealth answers 200 when every check passes and 503 otherwise
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	response := healthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.env,
		Checks:      make(map[string]checkResult, len(names)),
	}
	for _, name := range names {
		start := time.Now()
		result := checkResult{Status: "healthy"}
		if err := h.checks[name](ctx); err != nil {
			result.Status = "unhealthy"
			result.Error = err.Error()
			response.Status = "unhealthy"
			h.log.Error("Health check failed", "check", name, "error", err)
		}
		result.ResponseTime = time.Since(start).String()
		response.Checks[name] = result
	}

	if response.Status != "healthy" {
		return c.JSON(http.StatusServiceUnavailable, response)
	}
	return c.JSON(http.StatusOK, response)
}
