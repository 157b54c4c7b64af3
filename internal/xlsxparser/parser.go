// =============================================================================
// Library Loan Reports - XLSX Loan Parser
// =============================================================================
//
// This module reads loan records from XLSX workbooks, for libraries that keep
// their circulation export in a spreadsheet instead of a CSV file. The sheet
// layout mirrors the CSV input: a header row with patron_id, date_due and
// date_returned (any order, extra columns ignored) followed by one loan per
// row.
//
// CELL VALUES:
//   Cells are read raw. Text cells are used as-is. Numeric cells in the date
//   columns are Excel date serials and are converted to MM/DD/YYYY, so both
//   of these rows produce the same record:
//
//   | patron_id | date_due     | date_returned |
//   |-----------|--------------|---------------|
//   | P1        | "01/01/2020" | "01/05/2020"  |   (text cells)
//   | P1        | 43831        | 43835         |   (date cells)
//
// SHEET SELECTION:
//   The first sheet is read unless Settings.Sheet names another one.
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/library-loan-reports/internal/dateutil"
	"github.com/ginjaninja78/library-loan-reports/internal/types"
)

const op = "read loans"

// Settings controls how the workbook is read.
type Settings struct {
	// Sheet is the worksheet to read. Empty means the first sheet.
	Sheet string

	// TrimSpace trims leading and trailing whitespace from every cell.
	TrimSpace bool
}

// =============================================================================
// STREAMING PARSER
// =============================================================================

// Parser is a forward-only reader of loan records stored in a worksheet.
// It implements types.LoanSource.
type Parser struct {
	path     string
	file     *excelize.File
	rows     *excelize.Rows
	settings Settings
	date1904 bool

	index map[string]int

	current   types.LoanRecord
	rowNumber int
	err       error
}

var _ types.LoanSource = (*Parser)(nil)

// Open opens an XLSX workbook and validates the header row of its loan sheet.
//
// PARAMETERS:
//   - path: The path to the XLSX file.
//   - settings: Sheet selection and cell trimming.
//
// RETURNS:
//   - A Parser positioned before the first data row.
//   - An IOFailure error if the workbook cannot be opened or the sheet does
//     not exist, or a MissingColumn error if the header lacks a column.
func Open(path string, settings Settings) (*Parser, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &types.Error{Kind: types.KindIOFailure, Op: op, Path: path, Err: err}
	}
	return newParser(path, f, settings)
}

// NewReader reads loan records from a workbook held in r. name is used in
// error messages only.
func NewReader(name string, r io.Reader, settings Settings) (*Parser, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &types.Error{Kind: types.KindIOFailure, Op: op, Path: name, Err: err}
	}
	return newParser(name, f, settings)
}

func newParser(path string, f *excelize.File, settings Settings) (*Parser, error) {
	p := &Parser{
		path:     path,
		file:     f,
		settings: settings,
	}

	if err := p.openSheet(); err != nil {
		p.Close()
		return nil, err
	}

	return p, nil
}

// openSheet resolves the sheet, starts the row iterator and reads the header.
func (p *Parser) openSheet() error {
	sheet := p.settings.Sheet
	if sheet == "" {
		sheet = p.file.GetSheetName(0)
	}
	if sheet == "" {
		return &types.Error{Kind: types.KindIOFailure, Op: op, Path: p.path, Err: errors.New("workbook has no sheets")}
	}
	if idx, err := p.file.GetSheetIndex(sheet); err != nil || idx < 0 {
		return &types.Error{Kind: types.KindIOFailure, Op: op, Path: p.path, Err: fmt.Errorf("sheet %q not found", sheet)}
	}

	if props, err := p.file.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		p.date1904 = *props.Date1904
	}

	rows, err := p.file.Rows(sheet)
	if err != nil {
		return &types.Error{Kind: types.KindIOFailure, Op: op, Path: p.path, Err: fmt.Errorf("failed to read sheet %q: %w", sheet, err)}
	}
	p.rows = rows

	return p.readHeader()
}

// readHeader reads the first non-empty row and checks for required columns.
func (p *Parser) readHeader() error {
	for p.rows.Next() {
		p.rowNumber++
		header, err := p.rows.Columns()
		if err != nil {
			return &types.Error{Kind: types.KindIOFailure, Op: op, Path: p.path, Row: p.rowNumber, Err: err}
		}
		if isRowEmpty(header) {
			continue
		}

		index, missing := types.LocateColumns(header, types.RequiredLoanColumns)
		if len(missing) > 0 {
			return &types.Error{
				Kind:   types.KindMissingColumn,
				Op:     op,
				Path:   p.path,
				Row:    p.rowNumber,
				Column: strings.Join(missing, ","),
				Err:    fmt.Errorf("header has %d required column(s) missing", len(missing)),
			}
		}
		p.index = index
		return nil
	}

	if err := p.rows.Error(); err != nil {
		return &types.Error{Kind: types.KindIOFailure, Op: op, Path: p.path, Err: err}
	}
	return &types.Error{
		Kind:   types.KindMissingColumn,
		Op:     op,
		Path:   p.path,
		Column: strings.Join(types.RequiredLoanColumns, ","),
		Err:    errors.New("sheet has no header row"),
	}
}

// Next advances to the next non-empty row.
func (p *Parser) Next() bool {
	if p.err != nil || p.rows == nil {
		return false
	}

	for p.rows.Next() {
		p.rowNumber++
		row, err := p.rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			p.err = &types.Error{Kind: types.KindIOFailure, Op: op, Path: p.path, Row: p.rowNumber, Err: err}
			return false
		}
		if isRowEmpty(row) {
			continue
		}

		p.current = types.LoanRecord{
			PatronID:     p.cell(row, types.ColumnPatronID),
			DateDue:      p.dateCell(row, types.ColumnDateDue),
			DateReturned: p.dateCell(row, types.ColumnDateReturned),
			Row:          p.rowNumber,
		}
		return true
	}

	if err := p.rows.Error(); err != nil {
		p.err = &types.Error{Kind: types.KindIOFailure, Op: op, Path: p.path, Err: err}
	}
	return false
}

// cell returns the raw value of column in row, or "" when the row is short.
func (p *Parser) cell(row []string, column string) string {
	i := p.index[column]
	if i >= len(row) {
		return ""
	}
	value := row[i]
	if p.settings.TrimSpace {
		value = strings.TrimSpace(value)
	}
	return value
}

// dateCell returns a date column as MM/DD/YYYY text. Numeric cells are Excel
// date serials; anything else is returned unchanged for the fee engine to
// parse (and reject, if malformed).
func (p *Parser) dateCell(row []string, column string) string {
	value := p.cell(row, column)

	serial, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return value
	}
	t, err := excelize.ExcelDateToTime(serial, p.date1904)
	if err != nil {
		return value
	}
	return dateutil.DateOf(t).Format(dateutil.LoanLayout)
}

// Record returns the current record.
func (p *Parser) Record() types.LoanRecord {
	return p.current
}

// Err returns any error that occurred during parsing.
func (p *Parser) Err() error {
	return p.err
}

// Close releases the row iterator and the workbook. It is safe to call more
// than once.
func (p *Parser) Close() error {
	var errs []error
	if p.rows != nil {
		errs = append(errs, p.rows.Close())
		p.rows = nil
	}
	if p.file != nil {
		errs = append(errs, p.file.Close())
		p.file = nil
	}
	return errors.Join(errs...)
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
