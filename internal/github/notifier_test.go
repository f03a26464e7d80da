package github_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/codeargus/argus/internal/core"
	gh "github.com/codeargus/argus/internal/github"
	"github.com/codeargus/argus/mocks"
)

func sampleOutcome() *core.AnalysisOutcome {
	return &core.AnalysisOutcome{
		PullRequest: core.PullRequest{
			Number: 42,
			Title:  "Add retry logic",
			URL:    "https://github.com/owner/repo/pull/42",
		},
		Result:     core.NewSuccessResult("gemini", "gemini-pro", "Looks solid overall."),
		AnalyzedAt: time.Now(),
	}
}

func TestAnalysisCompletedPostsComment(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	var posted string
	client.EXPECT().
		CreateComment(gomock.Any(), "owner", "repo", 42, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, _ int, body string) error {
			posted = body
			return nil
		})

	notifier := gh.NewNotifier(client, "owner", "repo")
	outcome := sampleOutcome()
	require.NoError(t, notifier.AnalysisCompleted(context.Background(), outcome, "reports/pr_42_analysis.md"))

	assert.Contains(t, posted, "CodeArgus Analysis: Analyzed")
	assert.Contains(t, posted, "**Provider:** gemini (gemini-pro)")
	assert.Contains(t, posted, "reports/pr_42_analysis.md")
	assert.Contains(t, posted, "Looks solid overall.")
	assert.NotContains(t, posted, "Errors during analysis")
}

func TestAnalysisCompletedReportsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	var posted string
	client.EXPECT().
		CreateComment(gomock.Any(), "owner", "repo", 42, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, _ int, body string) error {
			posted = body
			return nil
		})

	outcome := sampleOutcome()
	outcome.Result = core.NewFailureResult("gemini", "gemini-pro", "gemini API call failed: 500")
	outcome.AddError("AI analysis failed: gemini API call failed: 500")

	notifier := gh.NewNotifier(client, "owner", "repo")
	require.NoError(t, notifier.AnalysisCompleted(context.Background(), outcome, ""))

	assert.Contains(t, posted, "CodeArgus Analysis: Error")
	assert.Contains(t, posted, "Errors during analysis")
	assert.Contains(t, posted, "gemini API call failed: 500")
	assert.Contains(t, posted, "**Analysis Error:**")
}
