// Package cli renders orchestration outcomes for the command line:
// pattern summaries with success/failure counts and per-failure reasons,
// and a spinner shown while a pattern is running.
//
// Display* functions write formatted output to an io.Writer; Format*
// functions return a formatted string without performing I/O.
package cli

import (
	"fmt"
	"io"

	"github.com/agbru/jobflow/internal/format"
	"github.com/agbru/jobflow/internal/orchestration"
	"github.com/agbru/jobflow/internal/ui"
)

// DisplayWaitAll prints the outcome of a wait-all run: either the result
// count of the all-or-nothing join, or the single error that failed it.
//
// Parameters:
//   - succeeded: The number of results; meaningful only when err is nil.
//   - err: The first worker failure, or nil.
//   - out: The destination writer.
func DisplayWaitAll(succeeded int, err error, out io.Writer) {
	theme := ui.GetCurrentTheme()
	fmt.Fprintf(out, "\n%s\n", theme.Header.Render("--- wait-all ---"))
	if err != nil {
		fmt.Fprintf(out, "%s\n", theme.Error.Render(fmt.Sprintf("run failed: %v", err)))
		fmt.Fprintf(out, "%s\n", theme.Dim.Render("no partial results are reported for an all-or-nothing join"))
		return
	}
	fmt.Fprintf(out, "%s\n", theme.Success.Render(fmt.Sprintf("%d job(s) succeeded", succeeded)))
}

// DisplayReport prints the aggregate outcome of a settle-all pattern run:
// a success count, a failure count and one line per failure reason.
//
// Parameters:
//   - report: The report to render.
//   - out: The destination writer.
func DisplayReport(report orchestration.Report, out io.Writer) {
	theme := ui.GetCurrentTheme()
	fmt.Fprintf(out, "\n%s\n", theme.Header.Render(fmt.Sprintf("--- %s ---", report.Pattern)))
	fmt.Fprintf(out, "%s %s\n",
		theme.Success.Render(fmt.Sprintf("%d job(s) succeeded", report.SucceededCount())),
		theme.Dim.Render(fmt.Sprintf("(%s)", format.FormatExecutionDuration(report.Elapsed))))

	if report.FailedCount() == 0 {
		return
	}

	fmt.Fprintf(out, "%s\n", theme.Error.Render(fmt.Sprintf("%d job(s) failed:", report.FailedCount())))
	for _, reason := range report.Reasons() {
		fmt.Fprintf(out, "  - %s\n", theme.Dim.Render(reason))
	}

	if timedOut := report.TimedOutCount(); timedOut > 0 {
		fmt.Fprintf(out, "%s\n", theme.Warning.Render(fmt.Sprintf("%d of these timed out", timedOut)))
	}
	if canceled := report.CanceledCount(); canceled > 0 {
		fmt.Fprintf(out, "%s\n", theme.Warning.Render(fmt.Sprintf("%d of these were canceled", canceled)))
	}
}
