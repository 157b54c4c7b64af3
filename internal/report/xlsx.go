package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/library-loan-reports/internal/types"
)

// SheetName is the worksheet holding the fee table in XLSX reports.
const SheetName = "Late Fees"

// numFmtFixed2 is Excel's built-in "0.00" number format.
const numFmtFixed2 = 2

// writeXLSX writes the fee table to a single-sheet workbook. Amounts are
// stored as numbers formatted "0.00" so they stay summable in Excel; a total
// row follows the patrons.
func writeXLSX(w io.Writer, summary Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []any{types.ColumnPatronID, types.ColumnLateFees}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: numFmtFixed2})
	if err != nil {
		return fmt.Errorf("failed to create amount style: %w", err)
	}

	row := 2
	for _, entry := range summary.Entries {
		if err := setFeeRow(f, row, entry.PatronID, entry.LateFees); err != nil {
			return err
		}
		row++
	}

	if len(summary.Entries) > 0 && summary.Total != "" {
		if err := setFeeRow(f, row, "TOTAL", summary.Total); err != nil {
			return err
		}
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: numFmtFixed2})
		if err != nil {
			return fmt.Errorf("failed to create total style: %w", err)
		}
		if err := f.SetCellStyle(SheetName, cellName(1, row), cellName(2, row), bold); err != nil {
			return fmt.Errorf("failed to style total row: %w", err)
		}
	}

	if len(summary.Entries) > 0 {
		if err := f.SetCellStyle(SheetName, "B2", cellName(2, 1+len(summary.Entries)), style); err != nil {
			return fmt.Errorf("failed to style amounts: %w", err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "B", 16); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// setFeeRow writes a patron/amount pair on the given 1-indexed row. The amount
// is stored as a number when it parses as one.
func setFeeRow(f *excelize.File, row int, patron, amount string) error {
	values := []any{patron, amount}
	if n, err := strconv.ParseFloat(amount, 64); err == nil {
		values[1] = n
	}
	if err := f.SetSheetRow(SheetName, cellName(1, row), &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

// cellName converts 1-indexed column/row numbers to an A1 reference.
func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
