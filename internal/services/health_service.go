package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"cleanse/internal/registry"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	registry  *registry.Registry
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Runtime   map[string]any `json:"runtime,omitempty"`
	Datasets  int            `json:"datasets"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, reg *registry.Registry, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		registry:  reg,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// Health returns the current health snapshot.
func (s *HealthService) Health(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   s.version,
		Runtime: map[string]any{
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": time.Since(s.startTime).Seconds(),
		},
		Datasets: len(s.registry.List()),
	}
}

// Ready reports whether the service can accept uploads.
func (s *HealthService) Ready(ctx context.Context) bool {
	return s.registry != nil
}
