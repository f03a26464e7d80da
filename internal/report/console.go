package report

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/codeargus/argus/internal/core"
)

// Console prints one status line per analyzed pull request, plus a run
// footer. Colors degrade automatically when stdout is not a terminal.
type Console struct {
	out          io.Writer
	successColor *color.Color
	errorColor   *color.Color
	labelColor   *color.Color
}

func NewConsole(out io.Writer, useColors bool) *Console {
	success := color.New(color.FgGreen, color.Bold)
	errStatus := color.New(color.FgRed, color.Bold)
	label := color.New(color.FgRed)
	if !useColors {
		success.DisableColor()
		errStatus.DisableColor()
		label.DisableColor()
	}
	return &Console{
		out:          out,
		successColor: success,
		errorColor:   errStatus,
		labelColor:   label,
	}
}

// PRSummary prints the status line for one outcome, followed by any
// accumulated errors.
func (c *Console) PRSummary(outcome *core.AnalysisOutcome, reportPath string) {
	status := c.successColor.Sprint(core.StatusAnalyzed)
	if outcome.Status() == core.StatusError {
		status = c.errorColor.Sprint(core.StatusError)
	}
	fmt.Fprintf(c.out, "PR #%d: '%s' - %s. Report: %s\n",
		outcome.PullRequest.Number, outcome.PullRequest.Title, status, reportPath)

	for _, e := range outcome.Errors {
		fmt.Fprintf(c.out, "  %s %s\n", c.labelColor.Sprint("Error:"), e)
	}
}

// Footer prints the end-of-run message with the resolved report location.
func (c *Console) Footer(outputDir string) {
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		abs = outputDir
	}
	fmt.Fprintf(c.out, "\nCodeArgus analysis complete.\nReports generated in: %s\n", abs)
}
