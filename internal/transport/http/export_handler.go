package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Prabalranjan/Power-BI-Data-Download/internal/config"
	apierrors "github.com/Prabalranjan/Power-BI-Data-Download/internal/errors"
	"github.com/Prabalranjan/Power-BI-Data-Download/internal/exporter"
	"github.com/Prabalranjan/Power-BI-Data-Download/internal/query"
	"github.com/Prabalranjan/Power-BI-Data-Download/internal/services"
)

// ExportHandler serves the filtered attendance export
type ExportHandler struct {
	service      ExportServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates a new export handler
func NewExportHandler(service ExportServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
	}
}

// Export handles GET /export
// @Summary      Export daily school attendance
// @Description  Returns one row per school with today's student and staff totals, filtered by the query parameters. Each filter accepts comma-separated values and may be repeated.
// @Tags         Export
// @Produce      text/csv
// @Produce      json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        district           query  string  false  "District names"
// @Param        block              query  string  false  "Block names"
// @Param        cluster            query  string  false  "Cluster names"
// @Param        school_management  query  string  false  "School management names"
// @Param        geography          query  string  false  "Accepted and ignored"
// @Param        school_type        query  string  false  "LP, UP, HS or HSS"
// @Param        format             query  string  false  "csv (default), json or xlsx"
// @Param        apikey             query  string  false  "API key, when required"
// @Success      200  {array}   domain.ExportRow
// @Failure      401  {object}  errors.ProblemDetails  "invalid API key"
// @Failure      500  {object}  errors.ProblemDetails  "database error"
// @Router       /export [get]
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	req := services.ExportRequest{
		Filters: query.FilterRequestFromValues(params),
		Format:  exporter.ParseFormat(params.Get("format")),
	}

	result, err := h.service.Export(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	header := w.Header()
	header.Set("Content-Type", result.ContentType)
	header.Set("Content-Length", strconv.Itoa(len(result.Body)))
	header.Set(config.HeaderExportRows, strconv.Itoa(result.Rows))
	if result.Attachment {
		header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", result.Filename))
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Body); err != nil {
		h.logger.WarnContext(r.Context(), "Export response write failed",
			slog.String("error", err.Error()),
			slog.Int("rows", result.Rows))
	}
}
