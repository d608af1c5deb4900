package exporter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Prabalranjan/Power-BI-Data-Download/pkg/contracts/domain"
)

// writeJSON encodes rows as an array of objects in canonical field order.
// An empty result encodes as [].
func writeJSON(w io.Writer, rows []domain.ExportRow) error {
	if rows == nil {
		rows = []domain.ExportRow{}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write json: %w", err)
	}
	return nil
}
