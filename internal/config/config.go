// =============================================================================
// Library Loan Reports - Configuration Module
// =============================================================================
//
// This module loads the application configuration from a single YAML file.
// Every setting has a default, so the file is optional and may set only the
// values that differ:
//
//   data_dir: ./data
//   output_dir: ./output
//   log_level: info
//   fees:
//     daily_rate: "0.25"
//     due_date_layout: "1/2/2006"
//     currency_places: 2
//   dates:
//     input_layout: "2006-1-2"
//     display_layout: "02 Jan 2006"
//   csv:
//     delimiter: ","
//     use_crlf: false
//   report_name_format: "fees_{date}_{uuid}"
//
// Date layouts use Go reference-time notation (Mon Jan 2 15:04:05 2006).
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/library-loan-reports/internal/csvparser"
	"github.com/ginjaninja78/library-loan-reports/internal/dateutil"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// DataDir is where logical data-file names (e.g. "loans.csv") resolve.
	// Empty falls back to ./data when it exists, then the XDG data home.
	DataDir string `yaml:"data_dir"`

	// OutputDir is where reports are written when no outfile path is given.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	Fees  FeeSettings  `yaml:"fees"`
	Dates DateSettings `yaml:"dates"`
	CSV   CSVSettings  `yaml:"csv"`

	// ReportNameFormat names generated reports when no outfile is given.
	// Placeholders: {uuid}, {date}, {time}, {timestamp}, {source}.
	// Default: "fees_{date}_{uuid}"
	ReportNameFormat string `yaml:"report_name_format"`
}

// FeeSettings controls the late-fee calculation.
type FeeSettings struct {
	// DailyRate is charged for each day a loan is late, as a decimal string
	// so that it is never rounded through a float.
	// Default: "0.25"
	DailyRate string `yaml:"daily_rate"`

	// DueDateLayout is the layout of date_due and date_returned.
	// Default: "1/2/2006" (MM/DD/YYYY, leading zeros optional)
	DueDateLayout string `yaml:"due_date_layout"`

	// CurrencyPlaces is the number of decimal places in report amounts.
	// Default: 2
	CurrencyPlaces *int32 `yaml:"currency_places"`
}

// DateSettings controls the dates command.
type DateSettings struct {
	// InputLayout is the layout of dates given on the command line.
	// Default: "2006-1-2" (YYYY-MM-DD, leading zeros optional)
	InputLayout string `yaml:"input_layout"`

	// DisplayLayout is the layout dates are printed in.
	// Default: "02 Jan 2006"
	DisplayLayout string `yaml:"display_layout"`
}

// CSVSettings controls CSV input and output.
type CSVSettings struct {
	// Delimiter is the field separator: a single character or one of
	// "comma", "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// UseCRLF ends report lines with \r\n.
	UseCRLF bool `yaml:"use_crlf"`

	// TrimSpace trims whitespace around input cells.
	TrimSpace bool `yaml:"trim_space"`
}

// =============================================================================
// LOADING
// =============================================================================

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// Load reads and validates the configuration file.
//
// PARAMETERS:
//   - path: The path to the YAML file. Empty means "no file": the defaults
//     are returned.
//
// RETURNS:
//   - The loaded configuration, with defaults filled in.
//   - An error if the file cannot be read or parsed, or fails validation.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Fees.DailyRate == "" {
		cfg.Fees.DailyRate = "0.25"
	}
	if cfg.Fees.DueDateLayout == "" {
		cfg.Fees.DueDateLayout = dateutil.LoanInputLayout
	}
	if cfg.Fees.CurrencyPlaces == nil {
		places := int32(2)
		cfg.Fees.CurrencyPlaces = &places
	}
	if cfg.Dates.InputLayout == "" {
		cfg.Dates.InputLayout = dateutil.ISOInputLayout
	}
	if cfg.Dates.DisplayLayout == "" {
		cfg.Dates.DisplayLayout = dateutil.DisplayLayout
	}
	if cfg.CSV.Delimiter == "" {
		cfg.CSV.Delimiter = ","
	}
	if cfg.ReportNameFormat == "" {
		cfg.ReportNameFormat = "fees_{date}_{uuid}"
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks every setting and returns the first problem found, wrapping
// one of the sentinel errors in errors.go.
func (c *Config) Validate() error {
	if _, err := c.DailyRate(); err != nil {
		return err
	}
	if c.Places() < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPlaces, c.Places())
	}

	layouts := map[string]string{
		"fees.due_date_layout": c.Fees.DueDateLayout,
		"dates.input_layout":   c.Dates.InputLayout,
		"dates.display_layout": c.Dates.DisplayLayout,
	}
	for _, key := range []string{"fees.due_date_layout", "dates.input_layout", "dates.display_layout"} {
		if err := checkLayout(layouts[key]); err != nil {
			return fmt.Errorf("%w: %s %q: %v", ErrInvalidLayout, key, layouts[key], err)
		}
	}

	if _, err := c.Delimiter(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if strings.TrimSpace(c.ReportNameFormat) == "" {
		return ErrInvalidNameFormat
	}

	return nil
}

// checkLayout formats a fixed date and parses it back, which catches layouts
// without a year, month or day component.
func checkLayout(layout string) error {
	if layout == "" {
		return errors.New("empty")
	}
	want := time.Date(2006, time.November, 23, 0, 0, 0, 0, time.UTC)
	got, err := time.Parse(layout, want.Format(layout))
	if err != nil {
		return err
	}
	if !got.Equal(want) {
		return errors.New("does not round-trip a date")
	}
	return nil
}

// =============================================================================
// TYPED ACCESSORS
// =============================================================================

// DailyRate returns fees.daily_rate as a decimal.
func (c *Config) DailyRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(c.Fees.DailyRate))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidDailyRate, c.Fees.DailyRate)
	}
	if !rate.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrInvalidDailyRate, rate)
	}
	return rate, nil
}

// Places returns fees.currency_places.
func (c *Config) Places() int32 {
	if c.Fees.CurrencyPlaces == nil {
		return 2
	}
	return *c.Fees.CurrencyPlaces
}

// Delimiter returns csv.delimiter as a rune.
func (c *Config) Delimiter() (rune, error) {
	r, err := csvparser.ParseDelimiter(c.CSV.Delimiter)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDelimiter, err)
	}
	return r, nil
}

// Level returns log_level as a slog level.
func (c *Config) Level() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
}

// CSVParserSettings returns the settings for reading CSV input.
func (c *Config) CSVParserSettings() (csvparser.Settings, error) {
	delim, err := c.Delimiter()
	if err != nil {
		return csvparser.Settings{}, err
	}
	return csvparser.Settings{Delimiter: delim, TrimSpace: c.CSV.TrimSpace}, nil
}
