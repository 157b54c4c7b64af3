package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/ginjaninja78/library-loan-reports/internal/types"
)

// writeMarkdown writes a human-readable report: run details, the fee table
// and the grand total.
func writeMarkdown(w io.Writer, summary Summary) error {
	md := markdown.NewMarkdown(w)

	md.H1("Late Fee Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source", "`" + summary.Source + "`"},
			{"Generated", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Run ID", "`" + summary.RunID + "`"},
			{"Daily Rate", summary.DailyRate},
			{"Loans Read", strconv.Itoa(summary.RowsRead)},
			{"Late Returns", strconv.Itoa(summary.LateRows)},
		},
	})
	md.PlainText("")

	md.H2("Fees by Patron")
	md.PlainText("")

	if len(summary.Entries) == 0 {
		md.PlainText("No late returns.")
		return md.Build()
	}

	rows := make([][]string, 0, len(summary.Entries))
	for _, entry := range summary.Entries {
		rows = append(rows, []string{
			entry.PatronID,
			strconv.Itoa(entry.Loans),
			strconv.Itoa(entry.DaysLate),
			entry.LateFees,
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{types.ColumnPatronID, "late_loans", "days_late", types.ColumnLateFees},
		Rows:   rows,
	})
	md.PlainText("")
	md.PlainTextf("**Total:** %s across %d patron(s)", summary.Total, len(summary.Entries))

	return md.Build()
}
