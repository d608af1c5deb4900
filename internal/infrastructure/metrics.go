package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// ExportMetrics holds the service's request and export instruments.
type ExportMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	ExportRequestsTotal metric.Int64Counter
	ExportDuration      metric.Float64Histogram
	ExportRowsTotal     metric.Int64Counter
}

// NewExportMetrics creates the instruments on meter.
func NewExportMetrics(meter metric.Meter) (*ExportMetrics, error) {
	m := &ExportMetrics{}
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, fmt.Errorf("http_requests_total: %w", err)
	}

	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("http_request_duration_seconds: %w", err)
	}

	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	); err != nil {
		return nil, fmt.Errorf("http_active_requests: %w", err)
	}

	if m.ExportRequestsTotal, err = meter.Int64Counter(
		"export_requests_total",
		metric.WithDescription("Total number of export requests by format and status"),
	); err != nil {
		return nil, fmt.Errorf("export_requests_total: %w", err)
	}

	if m.ExportDuration, err = meter.Float64Histogram(
		"export_duration_seconds",
		metric.WithDescription("Time to query and render an export"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("export_duration_seconds: %w", err)
	}

	if m.ExportRowsTotal, err = meter.Int64Counter(
		"export_rows_total",
		metric.WithDescription("Total number of school rows exported"),
	); err != nil {
		return nil, fmt.Errorf("export_rows_total: %w", err)
	}

	return m, nil
}

// NoopExportMetrics returns instruments that record nothing.
func NoopExportMetrics() *ExportMetrics {
	m, _ := NewExportMetrics(noop.NewMeterProvider().Meter(MeterName))
	return m
}

// RecordExport records one export attempt.
func (m *ExportMetrics) RecordExport(ctx context.Context, format string, rows int, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("format", format),
		attribute.String("status", status),
	)

	m.ExportRequestsTotal.Add(ctx, 1, attrs)
	m.ExportDuration.Record(ctx, duration.Seconds(), attrs)
	if err == nil {
		m.ExportRowsTotal.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("format", format)))
	}
}

// RegisterRuntimeMetrics exposes goroutine, heap and connection pool gauges.
// stats may be nil when no database handle exists.
func RegisterRuntimeMetrics(meter metric.Meter, stats func() sql.DBStats) error {
	goroutines, err := meter.Int64ObservableGauge("system_goroutines",
		metric.WithDescription("Number of active goroutines"))
	if err != nil {
		return err
	}
	heap, err := meter.Int64ObservableGauge("system_memory_heap_bytes",
		metric.WithDescription("Heap bytes in use"), metric.WithUnit("By"))
	if err != nil {
		return err
	}
	open, err := meter.Int64ObservableGauge("db_pool_open_connections",
		metric.WithDescription("Open database connections"))
	if err != nil {
		return err
	}
	inUse, err := meter.Int64ObservableGauge("db_pool_in_use_connections",
		metric.WithDescription("Database connections currently in use"))
	if err != nil {
		return err
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		o.ObserveInt64(goroutines, int64(runtime.NumGoroutine()))
		o.ObserveInt64(heap, int64(ms.HeapInuse))
		if stats != nil {
			s := stats()
			o.ObserveInt64(open, int64(s.OpenConnections))
			o.ObserveInt64(inUse, int64(s.InUse))
		}
		return nil
	}, goroutines, heap, open, inUse)
	return err
}
