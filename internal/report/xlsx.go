package report

import (
	"github.com/xuri/excelize/v2"

	"github.com/elektronenhirn/oper/internal/history"
)

const xlsxSheetName = "oper-delta report"

// XLSXWriter writes the snapshot as an Excel workbook.
type XLSXWriter struct{}

// Write serializes the snapshot to an xlsx file at path.
func (w *XLSXWriter) Write(snap *history.Snapshot, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheetName); err != nil {
		return err
	}
	if err := setRow(f, 1, header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(xlsxSheetName, "A1", "E1", bold); err != nil {
		return err
	}
	for i := range snap.Commits {
		if err := setRow(f, i+2, row(&snap.Commits[i])); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func setRow(f *excelize.File, rowIdx int, values []string) error {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	axis, err := excelize.CoordinatesToCellName(1, rowIdx)
	if err != nil {
		return err
	}
	return f.SetSheetRow(xlsxSheetName, axis, &cells)
}
