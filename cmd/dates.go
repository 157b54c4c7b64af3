// =============================================================================
// Library Loan Reports - Dates Command
// =============================================================================
//
// COMMAND USAGE:
//   loanreports dates reformat <date>...             ("2024-03-01" -> "01 Mar 2024")
//   loanreports dates range --start <date> --days N  (N consecutive dates)
//   loanreports dates zip --start <date> <value>...  (one date per value)
//
// Input dates use dates.input_layout and printed dates use
// dates.display_layout from the configuration; range and zip take their
// start date as YYYY-MM-DD and print YYYY-MM-DD unless --display is given.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/library-loan-reports/internal/dateutil"
)

func newDatesCmd(a *app) *cobra.Command {
	datesCmd := &cobra.Command{
		Use:   "dates",
		Short: "Date reformatting and date ranges",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	datesCmd.AddCommand(
		newReformatCmd(a),
		newRangeCmd(a),
		newZipCmd(a),
	)

	return datesCmd
}

// newReformatCmd builds 'dates reformat'.
func newReformatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reformat <date>...",
		Short: "Reformat dates for display",
		Long: `Reformat each date from the input layout (default YYYY-MM-DD) to the display
layout (default "DD Mon YYYY"), one per line, in argument order. Nothing is
printed if any date is malformed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := dateutil.Reformat(args, a.cfg.Dates.InputLayout, a.cfg.Dates.DisplayLayout)
			if err != nil {
				return err
			}
			for _, s := range out {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}

// newRangeCmd builds 'dates range'.
func newRangeCmd(a *app) *cobra.Command {
	var (
		start   string
		days    int
		display bool
	)

	rangeCmd := &cobra.Command{
		Use:   "range --start <YYYY-MM-DD> --days N",
		Short: "Print N consecutive dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dates, err := dateutil.DateRange(start, days)
			if err != nil {
				return err
			}
			for _, d := range dates {
				fmt.Fprintln(cmd.OutOrStdout(), formatDate(a, d, display))
			}
			return nil
		},
	}

	rangeCmd.Flags().StringVar(&start, "start", "", "First date, YYYY-MM-DD")
	rangeCmd.Flags().IntVar(&days, "days", 0, "Number of dates to print")
	rangeCmd.Flags().BoolVar(&display, "display", false, "Print dates in the display layout")
	rangeCmd.MarkFlagRequired("start")
	rangeCmd.MarkFlagRequired("days")

	return rangeCmd
}

// newZipCmd builds 'dates zip'.
func newZipCmd(a *app) *cobra.Command {
	var (
		start   string
		display bool
	)

	zipCmd := &cobra.Command{
		Use:   "zip --start <YYYY-MM-DD> <value>...",
		Short: "Pair each value with consecutive dates",
		Long: `Print "<date>\t<value>" for each value, the first value dated --start and
each following value one day later.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := dateutil.AddDateRange(args, start)
			if err != nil {
				return err
			}
			for _, p := range pairs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", formatDate(a, p.Date, display), p.Value)
			}
			return nil
		},
	}

	zipCmd.Flags().StringVar(&start, "start", "", "Date of the first value, YYYY-MM-DD")
	zipCmd.Flags().BoolVar(&display, "display", false, "Print dates in the display layout")
	zipCmd.MarkFlagRequired("start")

	return zipCmd
}

func formatDate(a *app, d dateutil.Date, display bool) string {
	if display {
		return d.Format(a.cfg.Dates.DisplayLayout)
	}
	return d.String()
}
