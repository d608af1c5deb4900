package services

import (
	"errors"

	apperrors "github.com/Prabalranjan/Power-BI-Data-Download/internal/errors"
)

// Export errors. Use errors.Is to classify a failure returned by
// ExportService.Export; the concrete error also carries the cause.
var (
	// ErrExportExecution matches any failure to connect, execute, scan or
	// finish the export query within its deadline.
	ErrExportExecution = &apperrors.AppError{Type: apperrors.ErrTypeExecution}

	// ErrExportRender matches failures while serializing fetched rows.
	ErrExportRender = &apperrors.AppError{Type: apperrors.ErrTypeRender}

	ErrDatabaseUnavailable = errors.New("database unavailable")
)
