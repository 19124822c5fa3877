package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"strykerscli/internal/pipeline"
	"strykerscli/pkg/contracts"
)

// Health status values
const (
	StatusOK          = "ok"
	StatusDegraded    = "degraded"
	StatusReady       = "ready"
	StatusUnavailable = "unavailable"
)

// DatasetProvider exposes the memoised dataset
type DatasetProvider interface {
	Dataset(ctx context.Context) (*pipeline.Dataset, error)
}

// ClientCounter reports websocket clients
type ClientCounter interface {
	ClientCount() int
	TotalConnections() int64
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	build     contracts.BuildInfo
	data      DatasetProvider
	clients   ClientCounter
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Build     *contracts.BuildInfo   `json:"build,omitempty"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewHealthService creates a health service. clients may be nil.
func NewHealthService(version string, data DatasetProvider, clients ClientCounter, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		build:     contracts.GetBuildInfo(),
		data:      data,
		clients:   clients,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// HealthCheck reports ready only when the transaction data can be served
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	build := hs.build
	status := HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now(),
		Version:   hs.version,
		Build:     &build,
		Services: map[string]interface{}{
			"data":      hs.checkDataHealth(ctx),
			"websocket": hs.checkWebSocketHealth(),
		},
		Runtime: map[string]interface{}{
			"uptime_seconds": time.Since(hs.startTime).Seconds(),
			"goroutines":     runtime.NumGoroutine(),
		},
	}

	for _, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != StatusReady {
			status.Status = StatusDegraded
			break
		}
	}

	hs.logger.DebugContext(ctx, "Health check completed", slog.String("status", status.Status))
	return status
}

func (hs *HealthService) checkDataHealth(ctx context.Context) ServiceHealth {
	if hs.data == nil {
		return ServiceHealth{Status: StatusUnavailable, Message: "no data source configured"}
	}

	ds, err := hs.data.Dataset(ctx)
	if err != nil {
		return ServiceHealth{Status: StatusUnavailable, Message: err.Error()}
	}
	return ServiceHealth{
		Status: StatusReady,
		Details: map[string]interface{}{
			"source":    ds.Source.Path,
			"rows":      ds.Stats.Input,
			"sales":     ds.Stats.Kept,
			"excluded":  ds.Stats.Excluded(),
			"policy":    ds.Policy,
			"loaded_at": ds.LoadedAt.Format(time.RFC3339),
		},
	}
}

func (hs *HealthService) checkWebSocketHealth() ServiceHealth {
	if hs.clients == nil {
		return ServiceHealth{Status: StatusReady, Message: "websocket disabled"}
	}
	return ServiceHealth{
		Status:  StatusReady,
		Details: map[string]interface{}{
			"clients":           hs.clients.ClientCount(),
			"total_connections": hs.clients.TotalConnections(),
		},
	}
}
