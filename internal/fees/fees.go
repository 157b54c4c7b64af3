// =============================================================================
// Library Loan Reports - Fee Report Generator
// =============================================================================
//
// This module contains the late-fee aggregation. It reads loan records from a
// CSV (or XLSX) file, charges a flat daily rate for every day a loan was
// returned after its due date, totals the charges per patron and writes a
// summary table.
//
// PIPELINE:
//   1. Open the loan source and validate its header row
//   2. For each record, in input order:
//      a. Parse date_due and date_returned (MM/DD/YYYY, leading zeros optional)
//      b. days_late = date_returned - date_due, in whole days
//      c. If days_late > 0, add days_late * rate to the patron's total
//   3. Write patron_id,late_fees, one row per patron that owes a fee, in the
//      order patrons first incurred a fee, amounts with two decimal places
//
// GUARANTEES:
//   - The input file is closed on every exit path, parse failures included.
//   - Nothing is written until every input row has been aggregated; the
//     report is written to a temp file and renamed into place, so a failed
//     run never leaves a partial or truncated report behind.
//   - Each run owns its accumulator; a Generator holds no per-run state and
//     can be reused.
//
// =============================================================================

package fees

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/library-loan-reports/internal/csvparser"
	"github.com/ginjaninja78/library-loan-reports/internal/dateutil"
	"github.com/ginjaninja78/library-loan-reports/internal/report"
	"github.com/ginjaninja78/library-loan-reports/internal/types"
	"github.com/ginjaninja78/library-loan-reports/internal/xlsxparser"
)

const op = "fees report"

// DefaultDailyRate is the late fee charged per day.
var DefaultDailyRate = decimal.RequireFromString("0.25")

// DefaultPlaces is the number of decimal places in the report.
const DefaultPlaces int32 = 2

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result describes a completed run.
type Result struct {
	// RunID identifies the run in logs and in the Markdown/XLSX reports.
	RunID string

	// Input and Output are the paths that were read and written.
	Input  string
	Output string

	// RowsRead is the number of loan records aggregated.
	RowsRead int

	// LateRows is the number of records returned after their due date.
	LateRows int

	// Patrons is the number of patrons in the report.
	Patrons int

	// Total is the sum of all late fees, formatted like the report amounts.
	Total string

	// Entries are the report rows, in report order.
	Entries []types.FeeEntry

	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}

// =============================================================================
// GENERATOR
// =============================================================================

// Generator computes late-fee reports. Build one with New; the zero value is
// not usable.
type Generator struct {
	rate          decimal.Decimal
	places        int32
	dueDateLayout string
	csvSettings   csvparser.Settings
	sheet         string
	csvOnly       bool
	reportOptions report.Options
	logger        *slog.Logger
	now           func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithDailyRate sets the fee charged per day late. It must be positive; Run
// rejects any other rate.
func WithDailyRate(rate decimal.Decimal) Option {
	return func(g *Generator) { g.rate = rate }
}

// WithPlaces sets the number of decimal places of report amounts.
func WithPlaces(places int32) Option {
	return func(g *Generator) { g.places = places }
}

// WithDateLayout sets the Go time layout of date_due and date_returned.
func WithDateLayout(layout string) Option {
	return func(g *Generator) { g.dueDateLayout = layout }
}

// WithCSVSettings sets how CSV input is read.
func WithCSVSettings(settings csvparser.Settings) Option {
	return func(g *Generator) { g.csvSettings = settings }
}

// WithSheet selects the worksheet read from XLSX input.
func WithSheet(sheet string) Option {
	return func(g *Generator) { g.sheet = sheet }
}

// withCSVInput reads every input as CSV, whatever its extension.
func withCSVInput() Option {
	return func(g *Generator) { g.csvOnly = true }
}

// WithReportOptions sets how the report is written.
func WithReportOptions(options report.Options) Option {
	return func(g *Generator) { g.reportOptions = options }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithClock sets the time source used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// New returns a Generator with the default rate (0.25 per day), two decimal
// places and MM/DD/YYYY dates, modified by opts.
func New(opts ...Option) *Generator {
	g := &Generator{
		rate:          DefaultDailyRate,
		places:        DefaultPlaces,
		dueDateLayout: dateutil.LoanInputLayout,
		logger:        slog.New(slog.DiscardHandler),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FeesReport reads loan records from the CSV file infile, totals late fees
// per patron at 0.25 per day and writes the patron_id,late_fees CSV summary
// to outfile, creating or replacing it. File extensions are not consulted:
// input and output are always CSV.
func FeesReport(infile, outfile string) error {
	g := New(
		withCSVInput(),
		WithReportOptions(report.Options{Format: report.FormatCSV}),
	)
	_, err := g.Run(infile, outfile)
	return err
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the fee pipeline for infile and writes the report to outfile.
// Unless the report options name a format, it follows outfile's extension:
// .xlsx and .md select the workbook and Markdown renderings, anything else
// is CSV. A daily rate that is not positive fails with an
// InvalidArgumentType error before infile is opened.
func (g *Generator) Run(infile, outfile string) (*Result, error) {
	if !g.rate.IsPositive() {
		return nil, &types.Error{
			Kind:   types.KindInvalidArgumentType,
			Op:     op,
			Column: "daily_rate",
			Value:  g.rate.String(),
			Err:    errors.New("daily rate must be positive"),
		}
	}

	start := g.now()
	runID := uuid.NewString()
	logger := g.logger.With(slog.String("run_id", runID))

	logger.Info("Generating fee report",
		slog.String("input", infile),
		slog.String("output", outfile),
		slog.String("daily_rate", g.rate.String()))

	// =========================================================================
	// STEP 1-2: READ AND AGGREGATE
	// =========================================================================

	acc, stats, err := g.aggregate(infile, logger)
	if err != nil {
		logger.Debug("Aggregation failed", slog.Any("error", err))
		return nil, err
	}

	// =========================================================================
	// STEP 3: WRITE THE REPORT
	// =========================================================================

	entries := acc.Entries(g.places)
	total := acc.Total().StringFixed(g.places)

	summary := report.Summary{
		RunID:       runID,
		Source:      infile,
		GeneratedAt: g.now(),
		DailyRate:   g.rate.String(),
		Total:       total,
		RowsRead:    stats.rowsRead,
		LateRows:    stats.lateRows,
		Entries:     entries,
	}

	if err := report.WriteFile(outfile, summary, g.reportOptions); err != nil {
		return nil, &types.Error{Kind: types.KindIOFailure, Op: op, Path: outfile, Err: err}
	}

	result := &Result{
		RunID:    runID,
		Input:    infile,
		Output:   outfile,
		RowsRead: stats.rowsRead,
		LateRows: stats.lateRows,
		Patrons:  len(entries),
		Total:    total,
		Entries:  entries,
		Elapsed:  g.now().Sub(start),
	}

	logger.Info("Wrote fee report",
		slog.String("output", outfile),
		slog.Int("rows", result.RowsRead),
		slog.Int("late_rows", result.LateRows),
		slog.Int("patrons", result.Patrons),
		slog.String("total", result.Total))

	return result, nil
}

// aggregateStats counts what the aggregation pass saw.
type aggregateStats struct {
	rowsRead int
	lateRows int
}

// aggregate reads every record of infile into a fresh Accumulator.
func (g *Generator) aggregate(infile string, logger *slog.Logger) (*Accumulator, aggregateStats, error) {
	var stats aggregateStats

	src, err := g.openSource(infile)
	if err != nil {
		return nil, stats, err
	}
	defer src.Close()

	acc := NewAccumulator()
	for src.Next() {
		rec := src.Record()
		stats.rowsRead++

		daysLate, err := g.daysLate(infile, rec)
		if err != nil {
			return nil, stats, err
		}
		if daysLate <= 0 {
			continue
		}

		fee := g.rate.Mul(decimal.NewFromInt(int64(daysLate)))
		acc.Add(rec.PatronID, daysLate, fee)
		stats.lateRows++

		logger.Debug("Late return",
			slog.Int("row", rec.Row),
			slog.String("patron_id", rec.PatronID),
			slog.Int("days_late", daysLate),
			slog.String("fee", fee.String()))
	}
	if err := src.Err(); err != nil {
		return nil, stats, err
	}

	return acc, stats, nil
}

// openSource opens infile with the parser matching its extension.
func (g *Generator) openSource(infile string) (types.LoanSource, error) {
	if g.csvOnly {
		return csvparser.Open(infile, g.csvSettings)
	}

	switch strings.ToLower(filepath.Ext(infile)) {
	case ".xlsx", ".xlsm":
		return xlsxparser.Open(infile, xlsxparser.Settings{
			Sheet:     g.sheet,
			TrimSpace: g.csvSettings.TrimSpace,
		})
	default:
		return csvparser.Open(infile, g.csvSettings)
	}
}

// daysLate parses a record's dates and returns returned minus due in days.
func (g *Generator) daysLate(infile string, rec types.LoanRecord) (int, error) {
	due, err := g.parseDate(infile, rec, types.ColumnDateDue, rec.DateDue)
	if err != nil {
		return 0, err
	}
	returned, err := g.parseDate(infile, rec, types.ColumnDateReturned, rec.DateReturned)
	if err != nil {
		return 0, err
	}
	return returned.DaysSince(due), nil
}

func (g *Generator) parseDate(infile string, rec types.LoanRecord, column, value string) (dateutil.Date, error) {
	d, err := dateutil.ParseDate(g.dueDateLayout, value)
	if err != nil {
		return dateutil.Date{}, &types.Error{
			Kind:   types.KindParseFailure,
			Op:     op,
			Path:   infile,
			Row:    rec.Row,
			Column: column,
			Value:  value,
			Err:    fmt.Errorf("expected layout %s: %w", g.dueDateLayout, err),
		}
	}
	return d, nil
}
