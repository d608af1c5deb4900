package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Prabalranjan/Power-BI-Data-Download/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOTelConfigFromTelemetry(t *testing.T) {
	cfg := OTelConfigFromTelemetry(config.TelemetryConfig{
		MetricsEnabled: true,
		TraceExporter:  "none",
		SampleRatio:    0.5,
	})

	assert.Equal(t, ServiceName, cfg.ServiceName)
	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.EnableMetrics)
	assert.False(t, cfg.EnableTracing)
	assert.Equal(t, 0.5, cfg.SampleRatio)
}

func TestInitializeOTel(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *OTelConfig
		wantErr     bool
		wantTracer  bool
		wantMetrics bool
	}{
		{
			name:        "metrics only",
			cfg:         &OTelConfig{ServiceName: "t", EnableMetrics: true, Registry: promclient.NewRegistry()},
			wantMetrics: true,
		},
		{
			name:       "stdout tracing",
			cfg:        &OTelConfig{ServiceName: "t", EnableTracing: true, TraceExporter: "stdout", SampleRatio: 1},
			wantTracer: true,
		},
		{
			name: "tracing with none exporter",
			cfg:  &OTelConfig{ServiceName: "t", EnableTracing: true, TraceExporter: "none"},
		},
		{
			name:    "unknown exporter",
			cfg:     &OTelConfig{ServiceName: "t", EnableTracing: true, TraceExporter: "jaeger"},
			wantErr: true,
		},
		{
			name:    "nil config",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providers, err := InitializeOTel(tt.cfg, discardLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { _ = providers.Shutdown(context.Background()) })

			assert.NotNil(t, providers.Tracer)
			assert.NotNil(t, providers.Meter)
			assert.Equal(t, tt.wantTracer, providers.TracerProvider != nil)
			assert.Equal(t, tt.wantMetrics, providers.MeterProvider != nil)
			assert.Equal(t, tt.wantMetrics, providers.PrometheusHTTP != nil)
		})
	}
}

func TestPrometheusEndpoint_ExportsExportMetrics(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:   "t",
		EnableMetrics: true,
		Registry:      promclient.NewRegistry(),
	}, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = providers.Shutdown(context.Background()) })

	m, err := NewExportMetrics(providers.Meter)
	require.NoError(t, err)
	require.NoError(t, RegisterRuntimeMetrics(providers.Meter, func() sql.DBStats {
		return sql.DBStats{OpenConnections: 3, InUse: 1}
	}))

	ctx := context.Background()
	m.RecordExport(ctx, "csv", 42, 150*time.Millisecond, nil)
	m.RecordExport(ctx, "json", 0, time.Second, errors.New("db down"))

	server := httptest.NewServer(providers.PrometheusHTTP)
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	text := string(body)
	assert.Contains(t, text, "export_requests_total")
	assert.Contains(t, text, "export_rows_total")
	assert.Contains(t, text, `status="failure"`)
	assert.Contains(t, text, "db_pool_open_connections")
	assert.Contains(t, text, "system_goroutines")
}

func TestNoopExportMetrics(t *testing.T) {
	m := NoopExportMetrics()
	require.NotNil(t, m)
	assert.NotPanics(t, func() {
		m.RecordExport(context.Background(), "xlsx", 1, time.Millisecond, nil)
	})

	var nilMetrics *ExportMetrics
	assert.NotPanics(t, func() {
		nilMetrics.RecordExport(context.Background(), "csv", 1, time.Millisecond, nil)
	})
}

func TestSpanHelpers(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "export")
	SetSpanAttributes(ctx, map[string]interface{}{
		"export.format": "csv",
		"export.rows":   7,
		"export.bom":    true,
		"export.ratio":  0.5,
		"export.other":  time.Second,
	})
	RecordError(ctx, errors.New("scan failed"))
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Len(t, spans[0].Attributes(), 5)
	assert.Len(t, spans[0].Events(), 1)

	assert.Empty(t, TraceIDFromContext(context.Background()))
	assert.NotPanics(t, func() { RecordError(context.Background(), errors.New("x")) })
}
