package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Prabalranjan/Power-BI-Data-Download/internal/infrastructure"
	"github.com/Prabalranjan/Power-BI-Data-Download/internal/query"
	"github.com/Prabalranjan/Power-BI-Data-Download/pkg/contracts/domain"
)

// ErrNoDatabase is returned when the repository has no database handle
var ErrNoDatabase = errors.New("database not configured")

// Querier is the subset of *sql.DB the repository needs
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Repository reads export rows from MySQL
type Repository struct {
	db      Querier
	timeout time.Duration
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewRepository creates a repository. A zero timeout leaves queries bounded
// only by the caller's context.
func NewRepository(db Querier, timeout time.Duration, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Repository{
		db:      db,
		timeout: timeout,
		logger:  infrastructure.WithComponent(logger, "export_repository"),
		tracer:  otel.Tracer("store"),
	}
}

// FetchExport executes q and scans every row. Rows are returned in the
// order the database produced them. On any failure no rows are returned.
func (r *Repository) FetchExport(ctx context.Context, q query.Query) ([]domain.ExportRow, error) {
	ctx, span := r.tracer.Start(ctx, "store.FetchExport",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "mysql"),
			attribute.Int("db.args_count", len(q.Args)),
		))
	defer span.End()

	if r.db == nil {
		span.RecordError(ErrNoDatabase)
		span.SetStatus(codes.Error, "no database")
		return nil, ErrNoDatabase
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, q.Text, q.Args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("query export rows: %w", err)
	}
	defer rows.Close()

	result := make([]domain.ExportRow, 0)
	for rows.Next() {
		row, err := scanExportRow(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "scan failed")
			return nil, fmt.Errorf("scan export row %d: %w", len(result), err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "row iteration failed")
		return nil, fmt.Errorf("iterate export rows: %w", err)
	}

	span.SetAttributes(attribute.Int("db.rows", len(result)))
	r.logger.DebugContext(ctx, "Export query completed",
		slog.Int("rows", len(result)),
		slog.Duration("duration", time.Since(start)))

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExportRow(s scanner) (domain.ExportRow, error) {
	var (
		district, block, cluster, udise, name, management, category sql.NullString
		totals                                                      [6]sql.NullInt64
	)

	err := s.Scan(
		&district, &block, &cluster, &udise, &name, &management, &category,
		&totals[0], &totals[1], &totals[2], &totals[3], &totals[4], &totals[5],
	)
	if err != nil {
		return domain.ExportRow{}, err
	}

	row := domain.ExportRow{
		District:                     nullString(district),
		Block:                        nullString(block),
		Cluster:                      nullString(cluster),
		UdiseID:                      nullString(udise),
		SchoolName:                   nullString(name),
		SchoolManagement:             nullString(management),
		TotalStudents:                totals[0].Int64,
		TotalStudentsPresent:         totals[1].Int64,
		TotalTeachingStaff:           totals[2].Int64,
		TotalNonTeachingStaff:        totals[3].Int64,
		TotalTeachingStaffPresent:    totals[4].Int64,
		TotalNonTeachingStaffPresent: totals[5].Int64,
	}
	if category.Valid {
		row.SchoolCategory = domain.ParseSchoolCategory(category.String)
	}
	return row, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
