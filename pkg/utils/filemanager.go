// =============================================================================
// Library Loan Reports - File Manager Utility
// =============================================================================
//
// This module resolves where data files live and what generated reports are
// called. The fee engine itself only ever sees explicit paths; the CLI uses
// these helpers to turn a bare name like "loans.csv" into one.
//
// DATA FILE RESOLUTION (first match wins):
//   1. The name as given, if it is a path (absolute, or containing a
//      separator) or a file in the working directory
//   2. An explicit directory (command-line flag)
//   3. data_dir from the configuration file
//   4. ./data, if it exists
//   5. $XDG_DATA_HOME/library-loan-reports
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
)

// AppName is the directory name used under the XDG data home.
const AppName = "library-loan-reports"

// LocalDataDir is checked before the XDG data home.
const LocalDataDir = "data"

// =============================================================================
// DATA FILES
// =============================================================================

// DataDir returns the directory data files resolve against.
//
// PARAMETERS:
//   - dirs: Candidate directories in priority order (flag, then config).
//     Empty entries are skipped.
//
// RETURNS:
//   - The first non-empty candidate, else ./data when it is a directory,
//     else the XDG data directory for this application.
func DataDir(dirs ...string) string {
	for _, dir := range dirs {
		if dir != "" {
			return dir
		}
	}
	if info, err := os.Stat(LocalDataDir); err == nil && info.IsDir() {
		return LocalDataDir
	}
	return filepath.Join(xdg.DataHome, AppName)
}

// DataFilePath returns the path of the data file called name. A bare name
// that exists in the working directory is used as is; otherwise it resolves
// against DataDir(dirs...).
//
// EXAMPLE:
//
//	DataFilePath("loans.csv", "/srv/library")  // "/srv/library/loans.csv"
//	DataFilePath("./loans.csv", "/srv/library") // "./loans.csv"
func DataFilePath(name string, dirs ...string) string {
	if isPath(name) || FileExists(name) {
		return name
	}
	return filepath.Join(DataDir(dirs...), name)
}

// isPath reports whether name already says where it is.
func isPath(name string) bool {
	return filepath.IsAbs(name) || strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator)
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateReportFileName generates a unique report file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//     Placeholders:
//     {uuid}      - A random UUID
//     {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//     {date}      - Current date (YYYYMMDD)
//     {time}      - Current time (HHMMSS)
//     {source}    - Input file name without extension
//   - ext: The report extension, e.g. ".csv". Added unless format already
//     ends with it.
//   - params: Extra placeholder values, keyed without braces.
//
// RETURNS:
//   - The generated file name.
//
// EXAMPLE:
//
//	format: "fees_{source}_{date}"
//	params: {"source": "loans"}
//	output: "fees_loans_20240115.csv"
func GenerateReportFileName(format, ext string, now time.Time, params map[string]string) string {
	replacements := map[string]string{
		"{uuid}":      uuid.NewString(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	pairs := make([]string, 0, 2*len(replacements))
	for placeholder, value := range replacements {
		pairs = append(pairs, placeholder, value)
	}
	result := strings.NewReplacer(pairs...).Replace(format)

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}
	return result
}

// SourceName returns path's base name without its extension.
func SourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists checks if a regular file or directory exists at path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
