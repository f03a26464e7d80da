// Package report renders analysis outcomes as Markdown files and prints
// per-PR status lines to the terminal.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codeargus/argus/internal/core"
)

const summaryFilename = "analysis_summary.md"

// shortSHALength matches the conventional abbreviated git commit length.
const shortSHALength = 7

// maxSummaryTitleLength bounds PR titles in the summary table.
const maxSummaryTitleLength = 50

// Writer generates the per-PR and summary Markdown reports.
type Writer struct {
	outputDir string
	logger    *slog.Logger
}

// NewWriter ensures the output directory exists. Failure here is fatal;
// failures writing individual reports later are not.
func NewWriter(outputDir string, logger *slog.Logger) (*Writer, error) {
	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return nil, fmt.Errorf("could not create report output directory %s: %w", outputDir, err)
	}
	logger.Info("reporting service initialized", "output_dir", outputDir)
	return &Writer{outputDir: outputDir, logger: logger}, nil
}

func (w *Writer) OutputDir() string { return w.outputDir }

// Filename returns the report file name for a pull request number.
func Filename(prNumber int) string {
	return fmt.Sprintf("pr_%d_analysis.md", prNumber)
}

// WritePRReport renders one outcome to its Markdown file and returns the
// written path.
func (w *Writer) WritePRReport(outcome *core.AnalysisOutcome) (string, error) {
	filename := Filename(outcome.PullRequest.Number)
	path := filepath.Join(w.outputDir, filename)
	w.logger.Debug("generating report", "pr", outcome.PullRequest.Number, "file", filename)

	var sb strings.Builder
	fmt.Fprintf(&sb, "# CodeArgus Analysis Report: PR #%d\n\n", outcome.PullRequest.Number)
	fmt.Fprintf(&sb, "**Title:** %s\n", orNA(outcome.PullRequest.Title))
	fmt.Fprintf(&sb, "**URL:** %s\n", orNA(outcome.PullRequest.URL))
	if outcome.Result != nil {
		fmt.Fprintf(&sb, "**Provider:** %s (%s)\n", outcome.Result.Provider, outcome.Result.Model)
	}
	if outcome.ProjectBranch != "" || outcome.ProjectSHA != "" {
		fmt.Fprintf(&sb, "**Project:** %s @ %s\n", orNA(outcome.ProjectBranch), shortSHA(outcome.ProjectSHA))
	}
	fmt.Fprintf(&sb, "**Analysis Timestamp:** %s\n\n", timestamp(outcome.AnalyzedAt))

	if len(outcome.Errors) > 0 {
		sb.WriteString("## Errors During Analysis\n\n")
		for _, e := range outcome.Errors {
			fmt.Fprintf(&sb, "- `%s`\n", e)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## AI Analysis\n\n")
	sb.WriteString(formatAIResponse(outcome.Result))
	sb.WriteString("\n")

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report file %s: %w", path, err)
	}
	return path, nil
}

// WriteSummary renders the cross-run summary table and returns the written
// path.
func (w *Writer) WriteSummary(outcomes []*core.AnalysisOutcome) (string, error) {
	path := filepath.Join(w.outputDir, summaryFilename)
	w.logger.Debug("generating summary report", "file", summaryFilename)

	withErrors := 0
	for _, o := range outcomes {
		if len(o.Errors) > 0 {
			withErrors++
		}
	}

	var sb strings.Builder
	sb.WriteString("# CodeArgus Analysis Summary\n\n")
	fmt.Fprintf(&sb, "**Analysis Timestamp:** %s\n", timestamp(time.Now()))
	fmt.Fprintf(&sb, "**Total Pull Requests Analyzed:** %d\n", len(outcomes))
	fmt.Fprintf(&sb, "**Pull Requests with Analysis Errors:** %d\n\n", withErrors)

	sb.WriteString("## Analyzed Pull Requests\n\n")
	if len(outcomes) == 0 {
		sb.WriteString("No pull requests were analyzed.\n")
	} else {
		sb.WriteString("| PR # | Title | Status | Report File |\n")
		sb.WriteString("|------|-------|--------|-------------|\n")
		for _, o := range outcomes {
			filename := Filename(o.PullRequest.Number)
			fmt.Fprintf(&sb, "| %d | %s | %s | [%s](./%s) |\n",
				o.PullRequest.Number, truncateTitle(o.PullRequest.Title), o.Status(), filename, filename)
		}
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write summary report file %s: %w", path, err)
	}
	return path, nil
}

// formatAIResponse renders the review result section of a report.
func formatAIResponse(result *core.ReviewResult) string {
	switch {
	case result == nil:
		return "No analysis data received."
	case !result.IsSuccess():
		return fmt.Sprintf("**Analysis Error:**\n```\n%s\n```", result.Err)
	default:
		return result.Response
	}
}

func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= maxSummaryTitleLength {
		return title
	}
	return string(runes[:maxSummaryTitleLength]) + "..."
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format(time.RFC3339)
}

func shortSHA(sha string) string {
	if len(sha) <= shortSHALength {
		return sha
	}
	return sha[:shortSHALength]
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
