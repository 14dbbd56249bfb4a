// internal/drive/xlsx_convert.go
package drive

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"
)

// convertXLSXToCSV writes the first sheet of an XLSX workbook to csvPath.
// Snapshot exports keep their data on sheet one with a header row, so the
// remaining sheets are ignored.
func convertXLSXToCSV(xlsxPath, csvPath string) error {
	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("failed to open xlsx %s: %w", xlsxPath, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("xlsx %s has no sheets", xlsxPath)
	}

	out, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create csv %s: %w", csvPath, err)
	}
	defer out.Close()

	if err := copySheetCSV(f, sheets[0], out); err != nil {
		return fmt.Errorf("failed to convert %s: %w", xlsxPath, err)
	}

	return nil
}

// copySheetCSV streams one sheet row by row so large workbooks never load
// fully into memory.
func copySheetCSV(f *excelize.File, sheet string, w io.Writer) error {
	rows, err := f.Rows(sheet)
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	cw := csv.NewWriter(w)
	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	if err := rows.Error(); err != nil {
		return fmt.Errorf("iterate rows: %w", err)
	}

	cw.Flush()
	return cw.Error()
}
