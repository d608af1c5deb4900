package exporter

import (
	"bytes"
	"io"

	"github.com/Prabalranjan/Power-BI-Data-Download/pkg/contracts/domain"
)

// Options configures an Exporter
type Options struct {
	// CSVBOM prefixes CSV output with a UTF-8 byte order mark
	CSVBOM bool
	// SheetName names the XLSX worksheet, DefaultSheetName when empty
	SheetName string
}

// Exporter serializes export rows. It never reorders rows and is safe for
// concurrent use.
type Exporter struct {
	opts Options
}

// New creates an exporter
func New(opts Options) *Exporter {
	return &Exporter{opts: opts}
}

// Write encodes rows to w in format f
func (e *Exporter) Write(w io.Writer, rows []domain.ExportRow, f Format) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, rows)
	case FormatXLSX:
		return writeXLSX(w, rows, e.opts.SheetName)
	default:
		return writeCSVRows(w, rows, e.opts.CSVBOM)
	}
}

// Render encodes rows in format f and returns the bytes
func (e *Exporter) Render(rows []domain.ExportRow, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Write(&buf, rows, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render encodes rows with default options
func Render(rows []domain.ExportRow, f Format) ([]byte, error) {
	return New(Options{}).Render(rows, f)
}
