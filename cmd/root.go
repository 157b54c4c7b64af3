// =============================================================================
// Library Loan Reports - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (loanreports)
//   ├── feesCmd    (loanreports fees)
//   ├── datesCmd   (loanreports dates)
//   │   ├── reformat
//   │   ├── range
//   │   └── zip
//   └── versionCmd (loanreports version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads the configuration file (--config, else ./config.yaml if present,
//      else built-in defaults)
//   2. Sets up structured logging on stderr (--verbose forces debug)
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/library-loan-reports/internal/config"
)

// defaultConfigFile is loaded when --config is not given and it exists.
const defaultConfigFile = "config.yaml"

// app is the state shared by all commands of one invocation.
type app struct {
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *slog.Logger
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "loanreports",
		Short: "Library loan reports - late fees and date helpers",
		Long: `loanreports computes late fees from a library's loan records and offers
the date helpers used to prepare them.

Key Features:
  - Late-fee summary per patron (0.25 per day late by default)
  - CSV or XLSX loan records; CSV, XLSX or Markdown reports
  - Date reformatting, date ranges and date-indexed series

Example Usage:
  loanreports fees loans.csv fees.csv       # Write the late-fee report
  loanreports fees loans.csv fees.md --print
  loanreports dates reformat 2024-03-01     # Prints "01 Mar 2024"
  loanreports dates range --start 2024-02-27 --days 4`,

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},

		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	rootCmd.PersistentFlags().StringVar(
		&a.cfgFile,
		"config",
		"",
		"Path to the configuration file (default ./config.yaml when present)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&a.verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	rootCmd.AddCommand(
		newFeesCmd(a),
		newDatesCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

// setup loads the configuration and builds the logger.
func (a *app) setup(stderr io.Writer) error {
	path := a.cfgFile
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if path != "" {
		a.logger.Debug("Loaded configuration", slog.String("path", path))
	}
	return nil
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI with os.Args. It is called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
