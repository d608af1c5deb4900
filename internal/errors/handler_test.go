package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
}

func TestErrorToProblem(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/export", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantDetail string
		wantExt    map[string]interface{}
	}{
		{
			name:       "execution error maps to database error",
			err:        NewExecutionError("fetch export rows", errors.New("dial tcp: connection refused")),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeDatabase,
			wantDetail: "dial tcp: connection refused",
			wantExt:    map[string]interface{}{"error": "database error", "error_code": "DATABASE_ERROR"},
		},
		{
			name:       "execution error wrapping a deadline stays a database error",
			err:        fmt.Errorf("export: %w", NewExecutionError("fetch export rows", context.DeadlineExceeded)),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeDatabase,
			wantDetail: context.DeadlineExceeded.Error(),
		},
		{
			name:       "bare context cancellation",
			err:        context.Canceled,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "render error",
			err:        NewRenderError("render xlsx", errors.New("disk full")),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeRender,
			wantDetail: "disk full",
		},
		{
			name:       "auth error uses invalid api key",
			err:        NewAuthError("key mismatch"),
			wantStatus: http.StatusUnauthorized,
			wantType:   TypeUnauthorized,
			wantDetail: "invalid API key",
			wantExt:    map[string]interface{}{"error": "invalid API key"},
		},
		{
			name:       "api error keeps its status",
			err:        ErrRateLimitExceeded,
			wantStatus: http.StatusTooManyRequests,
			wantType:   TypeRateLimit,
			wantExt:    map[string]interface{}{"retry_after": 60},
		},
		{
			name:       "unknown error is internal",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := h.ErrorToProblem(tt.err, req)

			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/export", problem.Instance)
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, problem.Detail)
			}
			for k, v := range tt.wantExt {
				assert.Equal(t, v, problem.Extensions[k], "extension %s", k)
			}
		})
	}
}

func TestHandleError_WritesProblemJSON(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/export?format=json", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-42"))
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, NewExecutionError("fetch export rows", errors.New("Unknown database 'core_db'")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "json")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "database error", body["error"])
	assert.Equal(t, "Unknown database 'core_db'", body["detail"])
	assert.Equal(t, "req-42", body["trace_id"])
	assert.EqualValues(t, 500, body["status"])
}

func TestHandleError_NilIsNoop(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler().HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, 0, rec.Body.Len())
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error_code":"NOT_FOUND"`)

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodPost, "/export", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "Method POST is not allowed")
}

func TestHandlePanic(t *testing.T) {
	h := NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), true)
	rec := httptest.NewRecorder()

	h.HandlePanic(rec, httptest.NewRequest(http.MethodGet, "/export", nil), "kaboom")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "kaboom")
}

func TestAppError(t *testing.T) {
	cause := errors.New("scan export row 3: converting NULL")
	err := NewExecutionError("fetch export rows", cause).WithContext("rows", 3)

	assert.Equal(t, "[EXECUTION] fetch export rows: scan export row 3: converting NULL", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", err), &AppError{Type: ErrTypeExecution})
	assert.NotErrorIs(t, err, &AppError{Type: ErrTypeRender})
	assert.Equal(t, 3, err.Context["rows"])

	assert.Equal(t, "[CONFIG] bad", NewConfigError("bad", nil).Error())
	assert.Equal(t, "no cause", NewRenderError("no cause", nil).CauseDetail())
}

func TestCauseDetailReturnsInnermostCause(t *testing.T) {
	driverErr := errors.New("Table 'core_db.schools' doesn't exist")

	tests := []struct {
		name  string
		cause error
	}{
		{name: "bare cause", cause: driverErr},
		{name: "wrapped once", cause: fmt.Errorf("query export rows: %w", driverErr)},
		{name: "wrapped twice", cause: fmt.Errorf("store: %w", fmt.Errorf("query export rows: %w", driverErr))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewExecutionError("fetch export rows", tt.cause)
			assert.Equal(t, driverErr.Error(), err.CauseDetail())

			problem := newTestHandler().ErrorToProblem(err, httptest.NewRequest(http.MethodGet, "/export", nil))
			assert.Equal(t, driverErr.Error(), problem.Detail)
		})
	}
}

func TestProblemDetailsMarshal(t *testing.T) {
	pd := NewProblemDetails(http.StatusUnauthorized, TypeUnauthorized, "Unauthorized", "", "").
		WithExtension("error", "invalid API key").
		WithExtension("status", 999)

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.EqualValues(t, 401, body["status"], "core fields win over extensions")
	assert.Equal(t, "invalid API key", body["error"])
	assert.NotContains(t, body, "detail")
	assert.NotContains(t, body, "instance")
}
