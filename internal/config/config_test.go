package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "", cfg.DataDir)
	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "0.25", cfg.Fees.DailyRate)
	assert.Equal(t, "1/2/2006", cfg.Fees.DueDateLayout)
	assert.Equal(t, int32(2), cfg.Places())
	assert.Equal(t, "2006-1-2", cfg.Dates.InputLayout)
	assert.Equal(t, "02 Jan 2006", cfg.Dates.DisplayLayout)
	assert.Equal(t, ",", cfg.CSV.Delimiter)
	assert.False(t, cfg.CSV.UseCRLF)
	assert.Equal(t, "fees_{date}_{uuid}", cfg.ReportNameFormat)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
data_dir: /srv/library
log_level: debug
fees:
  daily_rate: "0.10"
  currency_places: 0
csv:
  delimiter: tab
  use_crlf: true
  trim_space: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/library", cfg.DataDir)
	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, int32(0), cfg.Places())
	assert.Equal(t, "1/2/2006", cfg.Fees.DueDateLayout)

	rate, err := cfg.DailyRate()
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.1")))

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	settings, err := cfg.CSVParserSettings()
	require.NoError(t, err)
	assert.Equal(t, '\t', settings.Delimiter)
	assert.True(t, settings.TrimSpace)
	assert.True(t, cfg.CSV.UseCRLF)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "fees: [unterminated\n"))
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"zero rate", "fees:\n  daily_rate: \"0\"\n", ErrInvalidDailyRate},
		{"negative rate", "fees:\n  daily_rate: \"-0.25\"\n", ErrInvalidDailyRate},
		{"non-numeric rate", "fees:\n  daily_rate: quarter\n", ErrInvalidDailyRate},
		{"negative places", "fees:\n  currency_places: -1\n", ErrInvalidPlaces},
		{"layout without day", "fees:\n  due_date_layout: \"01/2006\"\n", ErrInvalidLayout},
		{"display layout not a date", "dates:\n  display_layout: \"hello\"\n", ErrInvalidLayout},
		{"multi-char delimiter", "csv:\n  delimiter: \"::\"\n", ErrInvalidDelimiter},
		{"quote delimiter", "csv:\n  delimiter: '\"'\n", ErrInvalidDelimiter},
		{"unknown log level", "log_level: chatty\n", ErrInvalidLogLevel},
		{"blank name format", "report_name_format: \"  \"\n", ErrInvalidNameFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := Default()
			cfg.LogLevel = tt.level
			got, err := cfg.Level()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
