package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Prabalranjan/Power-BI-Data-Download/internal/errors"
	"github.com/Prabalranjan/Power-BI-Data-Download/internal/exporter"
	"github.com/Prabalranjan/Power-BI-Data-Download/internal/query"
	"github.com/Prabalranjan/Power-BI-Data-Download/internal/shared/testutil"
	"github.com/Prabalranjan/Power-BI-Data-Download/pkg/contracts/domain"
)

func newService(t *testing.T, repo ExportRepository, renderer Renderer) (*ExportService, *testutil.RecordingHandler) {
	t.Helper()
	builder, err := query.NewBuilder(query.DefaultTables())
	require.NoError(t, err)
	logger, logs := testutil.NewTestLogger(t)
	return NewExportService(repo, renderer, builder, logger, nil), logs
}

func TestExportService_Export(t *testing.T) {
	rows := testutil.SampleExportRows()

	tests := []struct {
		name       string
		format     exporter.Format
		filename   string
		wantType   string
		wantFile   string
		attachment bool
		checkBody  func(t *testing.T, body []byte)
	}{
		{
			name:       "csv default",
			format:     exporter.FormatCSV,
			wantType:   "text/csv",
			wantFile:   "export.csv",
			attachment: true,
			checkBody: func(t *testing.T, body []byte) {
				records, err := csv.NewReader(strings.NewReader(string(body))).ReadAll()
				require.NoError(t, err)
				require.Len(t, records, len(rows)+1)
				assert.Equal(t, domain.ExportColumns, records[0])
			},
		},
		{
			name:     "json records",
			format:   exporter.FormatJSON,
			wantType: "application/json",
			wantFile: "export.json",
			checkBody: func(t *testing.T, body []byte) {
				var got []map[string]interface{}
				require.NoError(t, json.Unmarshal(body, &got))
				assert.Len(t, got, len(rows))
			},
		},
		{
			name:       "empty format falls back to csv",
			wantType:   "text/csv",
			wantFile:   "attendance.csv",
			filename:   "attendance",
			attachment: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockExportRepository)
			repo.On("FetchExport", mock.Anything, mock.AnythingOfType("query.Query")).Return(rows, nil).Once()

			svc, logs := newService(t, repo, exporter.New(exporter.Options{}))

			result, err := svc.Export(context.Background(), ExportRequest{
				Filters:  query.FilterRequest{District: []string{"Cachar"}},
				Format:   tt.format,
				Filename: tt.filename,
			})
			require.NoError(t, err)

			assert.Equal(t, len(rows), result.Rows)
			assert.Equal(t, tt.wantType, result.ContentType)
			assert.Equal(t, tt.wantFile, result.Filename)
			assert.Equal(t, tt.attachment, result.Attachment)
			if tt.checkBody != nil {
				tt.checkBody(t, result.Body)
			}
			testutil.AssertLogged(t, logs, slog.LevelInfo, "Export completed")
			repo.AssertExpectations(t)
		})
	}
}

func TestExportService_PassesBuiltQuery(t *testing.T) {
	repo := new(MockExportRepository)
	repo.On("FetchExport", mock.Anything, mock.MatchedBy(func(q query.Query) bool {
		return len(q.Args) == 3 &&
			q.Args[0] == "Cachar" && q.Args[1] == "Kamrup" && q.Args[2] == 4 &&
			strings.Contains(q.Text, "d.district_name IN (?, ?)") &&
			strings.Contains(q.Text, "s.school_assam_category_id IN (?)")
	})).Return([]domain.ExportRow{}, nil).Once()

	svc, _ := newService(t, repo, exporter.New(exporter.Options{}))

	result, err := svc.Export(context.Background(), ExportRequest{
		Filters: query.NewFilterRequest(map[string]string{
			"district":    "Cachar, Kamrup",
			"school_type": "HSS,bogus",
		}),
		Format: exporter.FormatJSON,
	})
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(result.Body)))
	repo.AssertExpectations(t)
}

func TestExportService_ExecutionFailure(t *testing.T) {
	cause := errors.New("dial tcp 127.0.0.1:3306: connect: connection refused")

	repo := new(MockExportRepository)
	repo.On("FetchExport", mock.Anything, mock.Anything).Return(nil, cause).Once()
	renderer := new(MockRenderer)

	svc, logs := newService(t, repo, renderer)

	result, err := svc.Export(context.Background(), ExportRequest{Format: exporter.FormatCSV})
	require.Error(t, err)
	assert.Nil(t, result, "no partial output on failure")

	assert.ErrorIs(t, err, ErrExportExecution)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrExportRender)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, cause.Error(), appErr.CauseDetail())

	renderer.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything)
	testutil.AssertLogged(t, logs, slog.LevelError, "Export query failed")

	rec, ok := logs.Find("Export query failed")
	require.True(t, ok)
	assert.Equal(t, cause.Error(), rec.Attrs["error"])
	assert.Equal(t, "export_service", rec.Attrs["component"])
	assert.NotEmpty(t, rec.Attrs["trace_id"], "callers without a request ID still get a trace ID")
}

func TestExportService_DeadlineIsExecutionFailure(t *testing.T) {
	repo := new(MockExportRepository)
	repo.On("FetchExport", mock.Anything, mock.Anything).Return(nil, context.DeadlineExceeded).Once()

	svc, _ := newService(t, repo, exporter.New(exporter.Options{}))

	_, err := svc.Export(context.Background(), ExportRequest{Format: exporter.FormatJSON})
	assert.ErrorIs(t, err, ErrExportExecution)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExportService_RenderFailure(t *testing.T) {
	repo := new(MockExportRepository)
	repo.On("FetchExport", mock.Anything, mock.Anything).Return(testutil.SampleExportRows(), nil).Once()

	renderer := new(MockRenderer)
	renderer.On("Write", mock.Anything, mock.Anything, exporter.FormatXLSX).
		Run(func(args mock.Arguments) {
			_, _ = args.Get(0).(io.Writer).Write([]byte("partial"))
		}).
		Return(errors.New("zip: write failed")).Once()

	svc, _ := newService(t, repo, renderer)

	result, err := svc.Export(context.Background(), ExportRequest{Format: exporter.FormatXLSX})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrExportRender)
	assert.NotErrorIs(t, err, ErrExportExecution)
	renderer.AssertExpectations(t)
}

func TestExportService_WithDefaultFilename(t *testing.T) {
	repo := new(MockExportRepository)
	repo.On("FetchExport", mock.Anything, mock.Anything).Return([]domain.ExportRow{}, nil)

	svc, _ := newService(t, repo, exporter.New(exporter.Options{}))
	svc.WithDefaultFilename("school_totals").WithDefaultFilename("")

	result, err := svc.Export(context.Background(), ExportRequest{Format: exporter.FormatXLSX})
	require.NoError(t, err)
	assert.Equal(t, "school_totals.xlsx", result.Filename)
	assert.NotEmpty(t, result.Body)
}
