package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/library-loan-reports/internal/types"
)

const loans = "patron_id,date_due,date_returned\n" +
	"P1,01/01/2020,01/05/2020\n" +
	"P2,01/10/2020,01/01/2020\n" +
	"P3,01/01/2020,01/03/2020\n"

// execute runs the CLI in an empty working directory and returns stdout and
// stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFeesCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	in := writeFile(t, dir, "loans.csv", loans)
	out := filepath.Join(dir, "fees.csv")

	stdout, _, err := execute(t, "fees", in, out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "patron_id,late_fees\nP1,1.00\nP3,0.50\n", string(data))

	assert.Contains(t, stdout, "=== Late Fee Report ===")
	assert.Contains(t, stdout, "Loans read:      3")
	assert.Contains(t, stdout, "Late returns:    2")
	assert.Contains(t, stdout, "Patrons owing:   2")
	assert.Contains(t, stdout, "Total fees:      1.50")
}

func TestFeesCommandPrint(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	in := writeFile(t, dir, "loans.csv", loans)

	t.Run("csv", func(t *testing.T) {
		stdout, _, err := execute(t, "fees", in, filepath.Join(dir, "fees.csv"), "--print")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(stdout, "\npatron_id,late_fees\nP1,1.00\nP3,0.50\n"))
	})

	t.Run("xlsx", func(t *testing.T) {
		out := filepath.Join(dir, "fees.xlsx")
		stdout, _, err := execute(t, "fees", in, out, "--print")
		require.NoError(t, err)
		assert.FileExists(t, out)
		assert.True(t, strings.HasSuffix(stdout, "\npatron_id,late_fees\nP1,1.00\nP3,0.50\n"))
	})
}

func TestFeesCommandFlags(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	in := writeFile(t, dir, "loans.csv", loans)

	t.Run("rate", func(t *testing.T) {
		out := filepath.Join(dir, "rate.csv")
		_, _, err := execute(t, "fees", in, out, "--rate", "1")
		require.NoError(t, err)
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, "patron_id,late_fees\nP1,4.00\nP3,2.00\n", string(data))
	})

	t.Run("bad rate", func(t *testing.T) {
		_, _, err := execute(t, "fees", in, filepath.Join(dir, "x.csv"), "--rate", "-1")
		assert.ErrorContains(t, err, "invalid --rate")
	})

	t.Run("format overrides extension", func(t *testing.T) {
		out := filepath.Join(dir, "report.txt")
		_, _, err := execute(t, "fees", in, out, "--format", "markdown")
		require.NoError(t, err)
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(data), "# Late Fee Report")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := execute(t, "fees", in, filepath.Join(dir, "x.csv"), "--format", "pdf")
		assert.Error(t, err)
	})
}

func TestFeesCommandDataDir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	dataDir := filepath.Join(dir, "library")
	require.NoError(t, os.Mkdir(dataDir, 0755))
	writeFile(t, dataDir, "loans.csv", loans)
	out := filepath.Join(dir, "fees.csv")

	stdout, _, err := execute(t, "fees", "loans.csv", out, "--data-dir", dataDir)
	require.NoError(t, err)
	assert.Contains(t, stdout, filepath.Join(dataDir, "loans.csv"))
	assert.FileExists(t, out)
}

func TestFeesCommandBareNameInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, "loans.csv", loans)

	stdout, _, err := execute(t, "fees", "loans.csv", "fees.csv")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Input:           loans.csv\n")
	assert.FileExists(t, filepath.Join(dir, "fees.csv"))
}

func TestFeesCommandGeneratedName(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	in := writeFile(t, dir, "loans.csv", loans)
	cfg := writeFile(t, dir, "custom.yaml", "output_dir: reports\nreport_name_format: \"late_{source}\"\n")

	_, _, err := execute(t, "--config", cfg, "fees", in)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "reports", "late_loans.csv"))
}

func TestFeesCommandConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	in := writeFile(t, dir, "loans.csv", "patron_id;date_due;date_returned\nP1;2020-01-01;2020-01-05\n")
	writeFile(t, dir, "config.yaml", `
fees:
  daily_rate: "0.5"
  due_date_layout: "2006-01-02"
csv:
  delimiter: semicolon
`)
	out := filepath.Join(dir, "fees.csv")

	_, _, err := execute(t, "fees", in, out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "patron_id;late_fees\nP1;2.00\n", string(data))
}

func TestFeesCommandErrors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	t.Run("missing input", func(t *testing.T) {
		_, _, err := execute(t, "fees", filepath.Join(dir, "nope.csv"), filepath.Join(dir, "out.csv"))
		assert.ErrorIs(t, err, types.ErrIOFailure)
	})

	t.Run("bad date", func(t *testing.T) {
		in := writeFile(t, dir, "bad.csv", "patron_id,date_due,date_returned\nP1,13/45/2020,01/05/2020\n")
		out := filepath.Join(dir, "out.csv")
		_, _, err := execute(t, "fees", in, out)
		assert.ErrorIs(t, err, types.ErrParseFailure)
		assert.NoFileExists(t, out)
	})

	t.Run("no arguments", func(t *testing.T) {
		_, _, err := execute(t, "fees")
		assert.Error(t, err)
	})

	t.Run("bad config", func(t *testing.T) {
		cfg := writeFile(t, dir, "bad.yaml", "log_level: chatty\n")
		_, _, err := execute(t, "--config", cfg, "fees", "loans.csv")
		assert.ErrorContains(t, err, "failed to load config")
	})
}

func TestFeesCommandVerboseLogging(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	in := writeFile(t, dir, "loans.csv", loans)

	_, stderr, err := execute(t, "-v", "fees", in, filepath.Join(dir, "fees.csv"))
	require.NoError(t, err)
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "Late return")
}

func TestDatesReformat(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := execute(t, "dates", "reformat", "2024-03-01", "2020-02-29")
	require.NoError(t, err)
	assert.Equal(t, "01 Mar 2024\n29 Feb 2020\n", stdout)

	stdout, _, err = execute(t, "dates", "reformat", "2024-03-01", "2024-02-30")
	assert.ErrorIs(t, err, types.ErrParseFailure)
	assert.Empty(t, stdout)
}

func TestDatesRange(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := execute(t, "dates", "range", "--start", "2024-02-27", "--days", "4")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-27\n2024-02-28\n2024-02-29\n2024-03-01\n", stdout)

	stdout, _, err = execute(t, "dates", "range", "--start", "2024-02-27", "--days", "2", "--display")
	require.NoError(t, err)
	assert.Equal(t, "27 Feb 2024\n28 Feb 2024\n", stdout)

	stdout, _, err = execute(t, "dates", "range", "--start", "2024-02-27", "--days", "0")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	_, _, err = execute(t, "dates", "range", "--start", "27/02/2024", "--days", "3")
	assert.ErrorIs(t, err, types.ErrParseFailure)
}

func TestDatesZip(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := execute(t, "dates", "zip", "--start", "2023-12-31", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "2023-12-31\ta\n2024-01-01\tb\n", stdout)
}

func TestVersionCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Library Loan Reports")
	assert.Contains(t, stdout, "Version:    "+Version)
}
