package exporter

import (
	"strings"
)

// Format selects the output encoding of an export
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ParseFormat lower-cases and trims s. Anything that is not a known
// format falls back to CSV.
func ParseFormat(s string) Format {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatXLSX:
		return f
	default:
		return FormatCSV
	}
}

// ContentType returns the HTTP media type for the format
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

// Extension returns the file extension without the leading dot
func (f Format) Extension() string {
	switch f {
	case FormatJSON, FormatXLSX:
		return string(f)
	default:
		return string(FormatCSV)
	}
}

// IsAttachment reports whether responses in this format are served as a
// downloadable file.
func (f Format) IsAttachment() bool {
	return f != FormatJSON
}

// Filename joins base with the format extension
func (f Format) Filename(base string) string {
	if base == "" {
		base = "export"
	}
	return base + "." + f.Extension()
}
