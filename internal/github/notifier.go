package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/codeargus/argus/internal/core"
)

// maxCommentLength stays under GitHub's 65536-character comment limit with
// room for the truncation notice.
const maxCommentLength = 60000

// Notifier posts analysis outcomes back to the pull request they belong to.
type Notifier interface {
	AnalysisCompleted(ctx context.Context, outcome *core.AnalysisOutcome, reportPath string) error
}

type commentNotifier struct {
	client Client
	owner  string
	repo   string
}

// NewNotifier returns a Notifier that posts a summary comment on the
// analyzed pull request.
func NewNotifier(client Client, owner, repo string) Notifier {
	return &commentNotifier{client: client, owner: owner, repo: repo}
}

// AnalysisCompleted formats the outcome as a Markdown comment and posts it.
func (n *commentNotifier) AnalysisCompleted(ctx context.Context, outcome *core.AnalysisOutcome, reportPath string) error {
	body := formatOutcomeComment(outcome, reportPath)
	return n.client.CreateComment(ctx, n.owner, n.repo, outcome.PullRequest.Number, body)
}

func formatOutcomeComment(outcome *core.AnalysisOutcome, reportPath string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "### %s CodeArgus Analysis: %s\n\n", statusEmoji(outcome.Status()), outcome.Status())
	if outcome.Result != nil {
		fmt.Fprintf(&sb, "**Provider:** %s (%s)", outcome.Result.Provider, outcome.Result.Model)
		if outcome.CacheHit {
			sb.WriteString(" (served from cache)")
		}
		sb.WriteString("\n\n")
	}
	if reportPath != "" {
		fmt.Fprintf(&sb, "**Report:** `%s`\n\n", reportPath)
	}

	if len(outcome.Errors) > 0 {
		sb.WriteString("**Errors during analysis:**\n")
		for _, e := range outcome.Errors {
			fmt.Fprintf(&sb, "- `%s`\n", e)
		}
		sb.WriteString("\n")
	}

	switch {
	case outcome.Result == nil:
		sb.WriteString("No analysis data received.\n")
	case outcome.Result.IsSuccess():
		sb.WriteString("<details>\n<summary>AI Analysis</summary>\n\n")
		sb.WriteString(truncateComment(outcome.Result.Response))
		sb.WriteString("\n\n</details>\n")
	default:
		fmt.Fprintf(&sb, "**Analysis Error:**\n```\n%s\n```\n", outcome.Result.Err)
	}

	return sb.String()
}

func truncateComment(s string) string {
	if len(s) <= maxCommentLength {
		return s
	}
	return s[:maxCommentLength] + "\n\n*(analysis truncated; see the full report)*"
}

func statusEmoji(status core.AnalysisStatus) string {
	if status == core.StatusError {
		return "⚠️"
	}
	return "✅"
}
