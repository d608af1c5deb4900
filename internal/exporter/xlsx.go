package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Prabalranjan/Power-BI-Data-Download/pkg/contracts/domain"
)

// DefaultSheetName is the worksheet holding exported rows
const DefaultSheetName = "export"

// writeXLSX renders rows into a single-sheet workbook. Totals are numeric
// cells; null text cells are left empty.
func writeXLSX(w io.Writer, rows []domain.ExportRow, sheet string) error {
	if sheet == "" {
		sheet = DefaultSheetName
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open sheet writer: %w", err)
	}

	header := make([]interface{}, len(domain.ExportColumns))
	for i, col := range domain.ExportColumns {
		header[i] = col
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, xlsxCells(row)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func xlsxCells(row domain.ExportRow) []interface{} {
	cells := make([]interface{}, 0, len(domain.ExportColumns))
	text := []*string{row.District, row.Block, row.Cluster, row.UdiseID, row.SchoolName, row.SchoolManagement}
	for _, s := range text {
		if s == nil {
			cells = append(cells, nil)
			continue
		}
		cells = append(cells, *s)
	}
	if row.SchoolCategory != nil {
		cells = append(cells, string(*row.SchoolCategory))
	} else {
		cells = append(cells, nil)
	}
	for _, n := range row.Totals() {
		cells = append(cells, n)
	}
	return cells
}
