// =============================================================================
// Library Loan Reports - Report Writer
// =============================================================================
//
// This module writes the late-fee summary produced by the fee engine. The
// summary is always the same table (patron_id, late_fees); the format only
// changes how it is rendered:
//
//   | Format   | Extension     | Rendering                                  |
//   |----------|---------------|--------------------------------------------|
//   | CSV      | .csv or other | header + one row per patron (the default)  |
//   | XLSX     | .xlsx         | "Late Fees" sheet, amounts as numbers      |
//   | Markdown | .md           | run details, fee table and grand total     |
//
// FILE HANDLING:
//   WriteFile renders into a temp file created next to the destination and
//   renames it over the destination once the rendering is complete and the
//   file is closed. A failed write leaves any previous report untouched and
//   never creates a partial one. A destination that already exists keeps its
//   permission bits, and a symlinked destination is replaced at the link's
//   target, so the link survives.
//
// =============================================================================

package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/library-loan-reports/internal/types"
)

// =============================================================================
// FORMATS
// =============================================================================

// Format is a report rendering.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatXLSX     Format = "xlsx"
	FormatMarkdown Format = "markdown"
)

// FormatFromPath picks the format matching path's extension. Unknown
// extensions are CSV.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX
	case ".md", ".markdown":
		return FormatMarkdown
	default:
		return FormatCSV
	}
}

// ParseFormat converts a format name to a Format. Empty means "by extension"
// and is returned as "".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return "", nil
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown report format %q", name)
	}
}

// =============================================================================
// OPTIONS AND SUMMARY
// =============================================================================

// Options controls report rendering.
type Options struct {
	// Format overrides the extension-based format when set.
	Format Format

	// Delimiter is the CSV field separator. Zero means ','.
	Delimiter rune

	// UseCRLF ends CSV lines with \r\n instead of \n.
	UseCRLF bool
}

// Summary is everything a report can show about a run.
type Summary struct {
	RunID       string
	Source      string
	GeneratedAt time.Time

	// DailyRate is the fee per day late, as a decimal string.
	DailyRate string

	// Total is the sum of all entries, formatted like the entries.
	Total string

	RowsRead int
	LateRows int

	// Entries are the report rows, in report order.
	Entries []types.FeeEntry
}

// =============================================================================
// WRITING
// =============================================================================

// Write renders summary to w in the given format.
func Write(w io.Writer, format Format, summary Summary, options Options) error {
	switch format {
	case FormatCSV, "":
		return writeCSV(w, summary, options)
	case FormatXLSX:
		return writeXLSX(w, summary)
	case FormatMarkdown:
		return writeMarkdown(w, summary)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// WriteFile renders summary to path, creating or replacing it.
//
// PARAMETERS:
//   - path: The destination file. Its directory must exist.
//   - summary: The report content.
//   - options: Rendering options; options.Format overrides the extension.
//
// RETURNS:
//   - An error if the temp file cannot be created, written or renamed.
func WriteFile(path string, summary Summary, options Options) (err error) {
	format := options.Format
	if format == "" {
		format = FormatFromPath(path)
	}

	target := path
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		target = resolved
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}

	dir, base := filepath.Split(target)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = Write(tmp, format, summary, options); err != nil {
		return fmt.Errorf("failed to render %s report: %w", format, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("failed to set report permissions: %w", err)
	}
	if err = os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to move report into place: %w", err)
	}

	return nil
}
