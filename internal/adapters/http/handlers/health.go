package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/chat2purchase/shopassist/internal/ports"
)

// Version is reported by the health endpoints and set at build time
var Version = "dev"

// HealthCheckConfig holds configuration for health checks
type HealthCheckConfig struct {
	Timeout time.Duration // per dependency
}

func DefaultHealthCheckConfig() HealthCheckConfig {
	return HealthCheckConfig{
		Timeout: 5 * time.Second,
	}
}

// Dependency is a named liveness probe. Critical dependencies that fail make
// the service unhealthy; others only degrade it.
type Dependency struct {
	Name     string
	Pinger   ports.Pinger
	Critical bool
}

type HealthHandler struct {
	config HealthCheckConfig
	deps   []Dependency
}

func NewHealthHandler(deps ...Dependency) *HealthHandler {
	return &HealthHandler{
		config: DefaultHealthCheckConfig(),
		deps:   deps,
	}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type DetailedHealthResponse struct {
	Status   string                   `json:"status"`
	Version  string                   `json:"version"`
	Services map[string]ServiceHealth `json:"services"`
}

type ServiceHealth struct {
	Status    string  `json:"status"`
	LatencyMs *int64  `json:"latency_ms,omitempty"`
	Error     *string `json:"error,omitempty"`
}

// Handle provides a basic liveness endpoint
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, HealthResponse{Status: "ok", Message: "API is running"}, http.StatusOK)
}

// HandleDetailed pings every registered dependency
func (h *HealthHandler) HandleDetailed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response := DetailedHealthResponse{
		Version:  Version,
		Services: make(map[string]ServiceHealth, len(h.deps)),
	}

	for _, dep := range h.deps {
		response.Services[dep.Name] = h.check(ctx, dep.Pinger)
	}
	response.Status = h.calculateOverallStatus(response.Services)

	statusCode := http.StatusOK
	if response.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	respondJSON(w, response, statusCode)
}

func (h *HealthHandler) check(ctx context.Context, p ports.Pinger) ServiceHealth {
	start := time.Now()
	checkCtx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	err := p.Ping(checkCtx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		errMsg := err.Error()
		return ServiceHealth{
			Status:    "unhealthy",
			LatencyMs: &latency,
			Error:     &errMsg,
		}
	}

	return ServiceHealth{
		Status:    "healthy",
		LatencyMs: &latency,
	}
}

func (h *HealthHandler) calculateOverallStatus(services map[string]ServiceHealth) string {
	degraded := false
	for _, dep := range h.deps {
		if services[dep.Name].Status != "unhealthy" {
			continue
		}
		if dep.Critical {
			return "unhealthy"
		}
		degraded = true
	}

	if degraded {
		return "degraded"
	}
	return "healthy"
}
