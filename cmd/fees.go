// =============================================================================
// Library Loan Reports - Fees Command
// =============================================================================
//
// This file defines the 'fees' command, which runs the late-fee report.
//
// COMMAND USAGE:
//   loanreports fees <infile> [outfile] [flags]
//
// ARGUMENTS:
//   infile  : Loan records (.csv or .xlsx). A bare file name is used as is
//             when it exists in the working directory; otherwise it resolves
//             against --data-dir, then data_dir from the config, then ./data,
//             then the XDG data directory.
//   outfile : Report path. The extension picks the format (.csv, .xlsx, .md).
//             When omitted, a name is generated from report_name_format in
//             output_dir.
//
// FLAGS:
//   --data-dir : Directory bare input names resolve against
//   --format   : Report format (csv, xlsx, markdown), overriding the extension
//   --rate     : Daily late fee, overriding fees.daily_rate
//   --sheet    : Worksheet to read from XLSX input
//   --print    : Print the report after writing it
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/library-loan-reports/internal/fees"
	"github.com/ginjaninja78/library-loan-reports/internal/report"
	"github.com/ginjaninja78/library-loan-reports/pkg/utils"
)

// feesFlags holds the local flags of the fees command.
type feesFlags struct {
	dataDir string
	format  string
	rate    string
	sheet   string
	print   bool
}

// =============================================================================
// FEES COMMAND DEFINITION
// =============================================================================

func newFeesCmd(a *app) *cobra.Command {
	var flags feesFlags

	feesCmd := &cobra.Command{
		Use:   "fees <infile> [outfile]",
		Short: "Compute late fees per patron",
		Long: `The fees command reads loan records (patron_id, date_due, date_returned;
dates as MM/DD/YYYY) and writes one row per patron who returned something
late, with the total fee owed at the daily rate.

Columns may appear in any order and extra columns are ignored. Nothing is
written unless every row parses; an existing report is replaced only once
the new one is complete.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFees(cmd.OutOrStdout(), a, flags, args)
		},
	}

	feesCmd.Flags().StringVar(&flags.dataDir, "data-dir", "", "Directory bare input file names resolve against")
	feesCmd.Flags().StringVar(&flags.format, "format", "", "Report format: csv, xlsx or markdown (default from the outfile extension)")
	feesCmd.Flags().StringVar(&flags.rate, "rate", "", "Daily late fee (default from config, 0.25)")
	feesCmd.Flags().StringVar(&flags.sheet, "sheet", "", "Worksheet to read from XLSX input (default the first sheet)")
	feesCmd.Flags().BoolVar(&flags.print, "print", false, "Print the report after writing it")

	return feesCmd
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runFees resolves the paths, builds the generator from the configuration and
// flags, runs it and prints the summary.
func runFees(out io.Writer, a *app, flags feesFlags, args []string) error {
	cfg := a.cfg

	// =========================================================================
	// STEP 1: RESOLVE OPTIONS
	// =========================================================================

	format, err := report.ParseFormat(flags.format)
	if err != nil {
		return err
	}

	rate, err := cfg.DailyRate()
	if err != nil {
		return err
	}
	if flags.rate != "" {
		rate, err = decimal.NewFromString(flags.rate)
		if err != nil || !rate.IsPositive() {
			return fmt.Errorf("invalid --rate %q: must be a positive decimal", flags.rate)
		}
	}

	csvSettings, err := cfg.CSVParserSettings()
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 2: RESOLVE PATHS
	// =========================================================================

	infile := utils.DataFilePath(args[0], flags.dataDir, cfg.DataDir)

	var outfile string
	if len(args) > 1 {
		outfile = args[1]
	} else {
		ext := ".csv"
		switch format {
		case report.FormatXLSX:
			ext = ".xlsx"
		case report.FormatMarkdown:
			ext = ".md"
		}
		name := utils.GenerateReportFileName(cfg.ReportNameFormat, ext, time.Now(),
			map[string]string{"source": utils.SourceName(infile)})
		if err := utils.EnsureDir(cfg.OutputDir); err != nil {
			return err
		}
		outfile = filepath.Join(cfg.OutputDir, name)
	}
	if format == "" {
		format = report.FormatFromPath(outfile)
	}

	// =========================================================================
	// STEP 3: RUN
	// =========================================================================

	g := fees.New(
		fees.WithDailyRate(rate),
		fees.WithPlaces(cfg.Places()),
		fees.WithDateLayout(cfg.Fees.DueDateLayout),
		fees.WithCSVSettings(csvSettings),
		fees.WithSheet(flags.sheet),
		fees.WithReportOptions(report.Options{
			Format:    format,
			Delimiter: csvSettings.Delimiter,
			UseCRLF:   cfg.CSV.UseCRLF,
		}),
		fees.WithLogger(a.logger),
	)

	result, err := g.Run(infile, outfile)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 4: PRINT SUMMARY
	// =========================================================================

	fmt.Fprintln(out, "=== Late Fee Report ===")
	fmt.Fprintf(out, "Input:           %s\n", result.Input)
	fmt.Fprintf(out, "Output:          %s\n", result.Output)
	fmt.Fprintf(out, "Loans read:      %d\n", result.RowsRead)
	fmt.Fprintf(out, "Late returns:    %d\n", result.LateRows)
	fmt.Fprintf(out, "Patrons owing:   %d\n", result.Patrons)
	fmt.Fprintf(out, "Total fees:      %s\n", result.Total)
	fmt.Fprintf(out, "Time elapsed:    %s\n", result.Elapsed.Round(time.Millisecond))

	if flags.print {
		fmt.Fprintln(out)
		if err := printReport(out, format, result); err != nil {
			a.logger.Warn("Could not print report", slog.String("output", result.Output), slog.Any("error", err))
		}
	}

	return nil
}

// printReport echoes the written report. Workbooks are not text, so their
// table is printed as CSV instead.
func printReport(out io.Writer, format report.Format, result *fees.Result) error {
	if format == report.FormatXLSX {
		return report.Write(out, report.FormatCSV, report.Summary{Entries: result.Entries}, report.Options{})
	}

	f, err := os.Open(result.Output)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(out, f)
	return err
}
