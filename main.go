// =============================================================================
// Library Loan Reports - Main Entry Point
// =============================================================================
//
// USAGE:
//   loanreports fees <infile> [outfile]   - Write the late-fee report
//   loanreports dates <subcommand>        - Date reformatting and ranges
//   loanreports version                   - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core logic: dates, loan parsers, fee engine, reports
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/library-loan-reports/cmd"
)

func main() {
	cmd.Execute()
}
