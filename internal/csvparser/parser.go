// =============================================================================
// Library Loan Reports - CSV Loan Parser
// =============================================================================
//
// This module reads loan records from CSV files. It streams rows one at a
// time; the file is never loaded into memory as a whole and never re-read.
//
// FEATURES:
//   - Header row validated once, at open time (every required column must
//     be present; extra columns are ignored and may appear in any order)
//   - Configurable delimiter (comma by default)
//   - A leading UTF-8 byte-order mark is tolerated (Excel exports)
//   - Blank lines are skipped; a row of empty cells (",,") is a record
//   - Rows shorter than the header yield empty cells for the missing columns
//
// USAGE:
//   parser, err := csvparser.Open(path, csvparser.Settings{})
//   if err != nil {
//       return err
//   }
//   defer parser.Close()
//
//   for parser.Next() {
//       rec := parser.Record()
//       // ...
//   }
//   if err := parser.Err(); err != nil {
//       return err
//   }
//
// =============================================================================

package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ginjaninja78/library-loan-reports/internal/types"
)

const op = "read loans"

// utf8BOM is the byte-order mark some spreadsheet tools put at the start of
// a CSV export.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// =============================================================================
// SETTINGS
// =============================================================================

// Settings controls how the CSV file is read.
type Settings struct {
	// Delimiter is the field separator. Zero means ','.
	Delimiter rune

	// TrimSpace trims leading and trailing whitespace from every cell.
	TrimSpace bool
}

// =============================================================================
// STREAMING PARSER
// =============================================================================

// Parser is a forward-only reader of loan records. It implements
// types.LoanSource.
type Parser struct {
	path     string
	file     *os.File
	reader   *csv.Reader
	settings Settings

	// index maps each required column to its position in the header row.
	index map[string]int

	current   types.LoanRecord
	rowNumber int
	err       error
}

var _ types.LoanSource = (*Parser)(nil)

// Open opens a CSV loan file and validates its header row.
//
// PARAMETERS:
//   - path: The path to the CSV file.
//   - settings: Reader settings; the zero value reads comma-separated cells
//     verbatim.
//
// RETURNS:
//   - A Parser positioned before the first data row.
//   - An IOFailure error if the file cannot be opened or read (wrapping
//     fs.ErrNotExist when it does not exist), or a MissingColumn error if
//     the header lacks a required column.
func Open(path string, settings Settings) (*Parser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &types.Error{Kind: types.KindIOFailure, Op: op, Path: path, Err: err}
	}

	p, err := newParser(path, file, settings)
	if err != nil {
		file.Close()
		return nil, err
	}
	p.file = file

	return p, nil
}

// NewReader reads loan records from r. name is used in error messages only.
// The caller owns r; Close on the returned Parser is a no-op.
func NewReader(name string, r io.Reader, settings Settings) (*Parser, error) {
	return newParser(name, r, settings)
}

func newParser(path string, r io.Reader, settings Settings) (*Parser, error) {
	if settings.Delimiter == 0 {
		settings.Delimiter = ','
	}

	buffered := bufio.NewReader(r)
	if err := skipBOM(buffered); err != nil {
		return nil, &types.Error{Kind: types.KindIOFailure, Op: op, Path: path, Err: err}
	}

	reader := csv.NewReader(buffered)
	configureReader(reader, settings)

	p := &Parser{
		path:     path,
		reader:   reader,
		settings: settings,
	}

	if err := p.readHeader(); err != nil {
		return nil, err
	}

	return p, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings Settings) {
	reader.Comma = settings.Delimiter

	// Short rows are tolerated; missing cells read as empty strings and fail
	// date parsing with a precise row/column error instead.
	reader.FieldsPerRecord = -1

	// Quotes inside unquoted fields are kept as data rather than rejected.
	reader.LazyQuotes = true

	reader.ReuseRecord = true
}

// skipBOM drops a leading UTF-8 byte-order mark, if present.
func skipBOM(r *bufio.Reader) error {
	head, err := r.Peek(len(utf8BOM))
	if bytes.Equal(head, utf8BOM) {
		_, err = r.Discard(len(utf8BOM))
		return err
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// readHeader reads the header row and checks for the required columns.
func (p *Parser) readHeader() error {
	header, err := p.reader.Read()
	if errors.Is(err, io.EOF) {
		return &types.Error{
			Kind:   types.KindMissingColumn,
			Op:     op,
			Path:   p.path,
			Column: strings.Join(types.RequiredLoanColumns, ","),
			Err:    errors.New("file has no header row"),
		}
	}
	if err != nil {
		return p.readError(err, 1)
	}
	p.rowNumber, _ = p.reader.FieldPos(0)

	index, err := indexColumns(header, p.path)
	if err != nil {
		return err
	}
	p.index = index

	return nil
}

// indexColumns locates every required column in header.
func indexColumns(header []string, path string) (map[string]int, error) {
	index, missing := types.LocateColumns(header, types.RequiredLoanColumns)
	if len(missing) > 0 {
		return nil, &types.Error{
			Kind:   types.KindMissingColumn,
			Op:     op,
			Path:   path,
			Row:    1,
			Column: strings.Join(missing, ","),
			Err:    fmt.Errorf("header has %d required column(s) missing", len(missing)),
		}
	}
	return index, nil
}

// Next advances to the next row. Returns false when there are no more rows
// or a read error occurred; check Err afterwards.
func (p *Parser) Next() bool {
	if p.err != nil {
		return false
	}

	row, err := p.reader.Read()
	if errors.Is(err, io.EOF) {
		return false
	}
	if err != nil {
		p.err = p.readError(err, p.rowNumber+1)
		return false
	}

	// The csv reader skips blank lines itself, so line numbers and
	// record counts can diverge; use its own position for the row.
	line, _ := p.reader.FieldPos(0)
	p.rowNumber = line

	p.current = types.LoanRecord{
		PatronID:     p.cell(row, types.ColumnPatronID),
		DateDue:      p.cell(row, types.ColumnDateDue),
		DateReturned: p.cell(row, types.ColumnDateReturned),
		Row:          p.rowNumber,
	}
	return true
}

// readError classifies a read error: malformed CSV is a ParseFailure, anything
// else an IOFailure.
func (p *Parser) readError(err error, row int) error {
	kind := types.KindIOFailure
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		kind = types.KindParseFailure
		row = pe.StartLine
	}
	return &types.Error{Kind: kind, Op: op, Path: p.path, Row: row, Err: err}
}

// cell returns the value of column in row, or "" when the row is short.
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

// Record returns the current record.
func (p *Parser) Record() types.LoanRecord {
	return p.current
}

// Err returns any error that occurred during parsing.
func (p *Parser) Err() error {
	return p.err
}

// Close closes the underlying file. It is safe to call more than once.
func (p *Parser) Close() error {
	if p.file == nil {
		return nil
	}
	err := p.file.Close()
	p.file = nil
	return err
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// ParseDelimiter converts a configured delimiter name to a rune.
// Accepts a single character or one of "tab", "pipe", "semicolon", "comma".
// Empty means comma.
func ParseDelimiter(value string) (rune, error) {
	switch strings.ToLower(value) {
	case "", ",", "comma":
		return ',', nil
	case "\\t", "\t", "tab":
		return '\t', nil
	case "|", "pipe":
		return '|', nil
	case ";", "semicolon":
		return ';', nil
	}

	if utf8.RuneCountInString(value) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", value)
	}
	r, _ := utf8.DecodeRuneInString(value)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid delimiter %q", value)
	}
	return r, nil
}
