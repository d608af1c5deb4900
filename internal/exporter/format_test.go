package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{" Json ", FormatJSON},
		{"csv", FormatCSV},
		{"xlsx", FormatXLSX},
		{"XLSX", FormatXLSX},
		{"", FormatCSV},
		{"xml", FormatCSV},
		{"parquet", FormatCSV},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFormat(tt.input))
		})
	}
}

func TestFormatTransportMetadata(t *testing.T) {
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
	assert.Equal(t, "application/json", FormatJSON.ContentType())
	assert.Contains(t, FormatXLSX.ContentType(), "spreadsheetml")

	assert.Equal(t, "export.csv", FormatCSV.Filename(""))
	assert.Equal(t, "attendance.xlsx", FormatXLSX.Filename("attendance"))

	assert.True(t, FormatCSV.IsAttachment())
	assert.True(t, FormatXLSX.IsAttachment())
	assert.False(t, FormatJSON.IsAttachment())
}
