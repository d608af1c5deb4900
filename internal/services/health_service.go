package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/Prabalranjan/Power-BI-Data-Download/internal/infrastructure"
	"github.com/Prabalranjan/Power-BI-Data-Download/pkg/contracts"
)

// healthTimeFormat renders UTC time with microseconds and a trailing Z
const healthTimeFormat = "2006-01-02T15:04:05.000000Z"

// Pinger checks that the database is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthService provides health check functionality
type HealthService struct {
	db          Pinger
	pingTimeout time.Duration
	startTime   time.Time
	now         func() time.Time
	logger      *slog.Logger
}

// HealthStatus is the /health response
type HealthStatus struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// ReadinessStatus reports dependency health
type ReadinessStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Services  map[string]ServiceHealth `json:"services"`
}

// LivenessStatus reports process health
type LivenessStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service. db may be nil, in which case
// readiness reports the database as not configured.
func NewHealthService(db Pinger, pingTimeout time.Duration, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if pingTimeout <= 0 {
		pingTimeout = 2 * time.Second
	}
	return &HealthService{
		db:          db,
		pingTimeout: pingTimeout,
		startTime:   time.Now(),
		now:         time.Now,
		logger:      infrastructure.WithComponent(logger, "health_service"),
	}
}

// HealthCheck reports that the process is serving. It performs no I/O.
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status: "ok",
		Time:   hs.now().UTC().Format(healthTimeFormat),
	}
}

// ReadinessCheck pings the database
func (hs *HealthService) ReadinessCheck(ctx context.Context) ReadinessStatus {
	status := ReadinessStatus{
		Status:    "ready",
		Timestamp: hs.now().UTC(),
		Version:   contracts.Version,
		Services: map[string]ServiceHealth{
			"database": hs.checkDatabase(ctx),
		},
	}

	for _, svc := range status.Services {
		if svc.Status != "ready" {
			status.Status = "not_ready"
			break
		}
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) LivenessStatus {
	return LivenessStatus{
		Status:    "alive",
		Timestamp: hs.now().UTC(),
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns build information
func (hs *HealthService) Version() contracts.VersionInfo {
	return contracts.GetVersionInfo()
}

func (hs *HealthService) checkDatabase(ctx context.Context) ServiceHealth {
	if hs.db == nil {
		return ServiceHealth{Status: "not_ready", Message: "database not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, hs.pingTimeout)
	defer cancel()

	if err := hs.db.PingContext(ctx); err != nil {
		hs.logger.WarnContext(ctx, "Database readiness check failed", slog.String("error", err.Error()))
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Errorf("%w: %v", ErrDatabaseUnavailable, err).Error(),
		}
	}
	return ServiceHealth{Status: "ready"}
}
