package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/Prabalranjan/Power-BI-Data-Download/internal/errors"
	"github.com/Prabalranjan/Power-BI-Data-Download/internal/exporter"
	"github.com/Prabalranjan/Power-BI-Data-Download/internal/infrastructure"
	"github.com/Prabalranjan/Power-BI-Data-Download/internal/query"
	"github.com/Prabalranjan/Power-BI-Data-Download/pkg/contracts/domain"
)

// ExportRepository fetches export rows for a built query
type ExportRepository interface {
	FetchExport(ctx context.Context, q query.Query) ([]domain.ExportRow, error)
}

// QueryBuilder turns filters into a parameterized query
type QueryBuilder interface {
	Build(req query.FilterRequest) query.Query
}

// Renderer serializes rows in a format
type Renderer interface {
	Write(w io.Writer, rows []domain.ExportRow, f exporter.Format) error
}

// ExportRequest is one export invocation
type ExportRequest struct {
	Filters query.FilterRequest
	Format  exporter.Format
	// Filename is the attachment base name without extension. Empty uses
	// the service default.
	Filename string
}

// ExportResult is a fully rendered export
type ExportResult struct {
	Body        []byte
	Rows        int
	Format      exporter.Format
	ContentType string
	Filename    string
	Attachment  bool
}

// ExportService composes query building, execution and rendering.
// It holds no per-request state and is safe for concurrent use.
type ExportService struct {
	repo     ExportRepository
	renderer Renderer
	builder  QueryBuilder
	logger   *slog.Logger
	metrics  *infrastructure.ExportMetrics
	tracer   trace.Tracer

	defaultFilename string
}

// NewExportService creates an export service. A nil metrics records nothing.
func NewExportService(repo ExportRepository, renderer Renderer, builder QueryBuilder, logger *slog.Logger, metrics *infrastructure.ExportMetrics) *ExportService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if metrics == nil {
		metrics = infrastructure.NoopExportMetrics()
	}
	return &ExportService{
		repo:            repo,
		renderer:        renderer,
		builder:         builder,
		logger:          infrastructure.WithComponent(logger, "export_service"),
		metrics:         metrics,
		tracer:          otel.Tracer("services"),
		defaultFilename: "export",
	}
}

// WithDefaultFilename sets the attachment base name used when a request
// does not name one.
func (s *ExportService) WithDefaultFilename(name string) *ExportService {
	if name != "" {
		s.defaultFilename = name
	}
	return s
}

// Export builds the filtered query, runs it and renders the rows. The
// result is produced only when every step succeeds; a failure returns
// no body at all.
func (s *ExportService) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	start := time.Now()
	format := req.Format
	if format == "" {
		format = exporter.FormatCSV
	}

	ctx = infrastructure.EnsureTraceID(ctx)
	ctx, span := s.tracer.Start(ctx, "services.Export",
		trace.WithAttributes(
			attribute.String("export.format", string(format)),
			attribute.Int("export.active_filters", req.Filters.ActiveCount()),
		))
	defer span.End()

	logger := infrastructure.LoggerWithContext(ctx, s.logger)

	q := s.builder.Build(req.Filters)
	logger.DebugContext(ctx, "Export query built",
		slog.Int("args", len(q.Args)),
		slog.Int("active_filters", req.Filters.ActiveCount()))

	rows, err := s.repo.FetchExport(ctx, q)
	if err != nil {
		execErr := apperrors.NewExecutionError("fetch export rows", err)
		infrastructure.RecordError(ctx, execErr)
		s.metrics.RecordExport(ctx, string(format), 0, time.Since(start), execErr)
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Export query failed",
			slog.String("format", string(format)))
		return nil, execErr
	}

	var buf bytes.Buffer
	if err := s.renderer.Write(&buf, rows, format); err != nil {
		renderErr := apperrors.NewRenderError("render export", err).WithContext("rows", len(rows))
		infrastructure.RecordError(ctx, renderErr)
		s.metrics.RecordExport(ctx, string(format), 0, time.Since(start), renderErr)
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Export render failed",
			slog.String("format", string(format)))
		return nil, renderErr
	}

	base := req.Filename
	if base == "" {
		base = s.defaultFilename
	}

	duration := time.Since(start)
	s.metrics.RecordExport(ctx, string(format), len(rows), duration, nil)
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"export.rows":  len(rows),
		"export.bytes": buf.Len(),
	})

	logger.InfoContext(ctx, "Export completed",
		slog.String("format", string(format)),
		slog.Int("rows", len(rows)),
		slog.Int("bytes", buf.Len()),
		slog.Duration("duration", duration))

	return &ExportResult{
		Body:        buf.Bytes(),
		Rows:        len(rows),
		Format:      format,
		ContentType: format.ContentType(),
		Filename:    format.Filename(base),
		Attachment:  format.IsAttachment(),
	}, nil
}
