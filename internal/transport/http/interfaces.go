package http

import (
	"context"

	"github.com/Prabalranjan/Power-BI-Data-Download/internal/services"
	"github.com/Prabalranjan/Power-BI-Data-Download/pkg/contracts"
)

// ExportServiceInterface is what the export handler needs from the service layer
type ExportServiceInterface interface {
	Export(ctx context.Context, req services.ExportRequest) (*services.ExportResult, error)
}

// HealthServiceInterface is what the health handler needs from the service layer
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.ReadinessStatus
	LivenessCheck(ctx context.Context) services.LivenessStatus
	Version() contracts.VersionInfo
}
