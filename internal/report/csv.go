package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ginjaninja78/library-loan-reports/internal/types"
)

// writeCSV writes the patron_id,late_fees table. Output is buffered and
// flushed once, after the last row.
func writeCSV(w io.Writer, summary Summary, options Options) error {
	buffered := bufio.NewWriter(w)

	writer := csv.NewWriter(buffered)
	if options.Delimiter != 0 {
		writer.Comma = options.Delimiter
	}
	writer.UseCRLF = options.UseCRLF

	if err := writer.Write(types.FeeReportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, entry := range summary.Entries {
		if err := writer.Write([]string{entry.PatronID, entry.LateFees}); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i+1, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush records: %w", err)
	}
	return buffered.Flush()
}
