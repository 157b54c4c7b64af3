// =============================================================================
// Library Loan Reports - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - csvparser  (produces LoanRecords from CSV files)
//   - xlsxparser (produces LoanRecords from XLSX workbooks)
//   - fees       (consumes LoanRecords, produces FeeEntries)
//   - report     (writes FeeEntries to CSV / XLSX / Markdown)
//
// =============================================================================

package types

import "strings"

// =============================================================================
// COLUMN NAMES
// =============================================================================

// Column headers of the loan-record table.
const (
	ColumnPatronID     = "patron_id"
	ColumnDateDue      = "date_due"
	ColumnDateReturned = "date_returned"
)

// Column headers of the fee summary table.
const (
	ColumnLateFees = "late_fees"
)

// RequiredLoanColumns lists the headers every loan-record table must carry.
// Order matters for error messages only.
var RequiredLoanColumns = []string{
	ColumnPatronID,
	ColumnDateDue,
	ColumnDateReturned,
}

// FeeReportHeader is the header row of the fee summary table.
var FeeReportHeader = []string{
	ColumnPatronID,
	ColumnLateFees,
}

// =============================================================================
// LOAN RECORD
// =============================================================================

// LoanRecord is one row of the loan-record table.
// Dates are kept as the raw cell text; parsing happens in the fee engine so
// that parse failures can report the row and column they came from.
type LoanRecord struct {
	// PatronID is the opaque identifier of the borrowing patron.
	PatronID string

	// DateDue is the due date as written in the source (MM/DD/YYYY).
	DateDue string

	// DateReturned is the return date as written in the source (MM/DD/YYYY).
	DateReturned string

	// Row is the 1-indexed row number in the source file, header included.
	// Useful for error reporting.
	Row int
}

// =============================================================================
// LOAN SOURCE
// =============================================================================

// LoanSource is a forward-only iterator over loan records.
//
// USAGE:
//   for src.Next() {
//       rec := src.Record()
//       // ...
//   }
//   if err := src.Err(); err != nil {
//       return err
//   }
type LoanSource interface {
	// Next advances to the next record. Returns false at the end of input
	// or on the first error.
	Next() bool

	// Record returns the current record.
	Record() LoanRecord

	// Err returns the error that stopped iteration, if any.
	Err() error

	// Close releases the underlying file.
	Close() error
}

// =============================================================================
// FEE ENTRY
// =============================================================================

// FeeEntry is one row of the fee summary: a patron and the total late fee
// accumulated for them, already formatted to the report's precision.
type FeeEntry struct {
	// PatronID is the patron the fee belongs to.
	PatronID string

	// LateFees is the formatted total, e.g. "4.50".
	LateFees string

	// DaysLate is the total number of late days across the patron's loans.
	DaysLate int

	// Loans is the number of late loans that contributed to the total.
	Loans int
}

// LocateColumns finds each required column in header and returns its
// position, plus the required columns that are absent. Header cells are
// compared after trimming surrounding whitespace; the first occurrence of a
// duplicated header wins.
func LocateColumns(header, required []string) (index map[string]int, missing []string) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}

	index = make(map[string]int, len(required))
	for _, column := range required {
		i, ok := positions[column]
		if !ok {
			missing = append(missing, column)
			continue
		}
		index[column] = i
	}
	return index, missing
}
