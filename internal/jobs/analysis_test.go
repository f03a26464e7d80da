package jobs

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/codeargus/argus/internal/analyzer"
	"github.com/codeargus/argus/internal/config"
	"github.com/codeargus/argus/internal/core"
	"github.com/codeargus/argus/internal/github"
	"github.com/codeargus/argus/internal/project"
	"github.com/codeargus/argus/internal/report"
	"github.com/codeargus/argus/internal/storage"
	"github.com/codeargus/argus/mocks"
)

const sampleDiff = "--- a/src/main.py\n+++ b/src/main.py\n@@ -1 +1,2 @@\n print('hi')\n+x = 1\n"

// stubStore is an in-memory storage.Store for history assertions.
type stubStore struct {
	mu      sync.Mutex
	records []*core.AnalysisRecord
	err     error
}

func (s *stubStore) SaveRecord(_ context.Context, rec *core.AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *stubStore) RecentResults(context.Context, int) ([]*core.AnalysisRecord, error) {
	return nil, nil
}

func newTestConfig() *config.Config {
	return &config.Config{
		GitHub: config.GitHubConfig{Repository: "owner/repo"},
		AI: config.AIConfig{
			FocusAreas:  []string{"code_quality", "security"},
			Strictness:  "medium",
			Concurrency: 1,
		},
		Project: config.ProjectConfig{
			TestIndicators:        []string{"tests/", "test/"},
			TestDependencyMarkers: []string{"pytest", "unittest"},
			ManifestGlobs:         []string{"**/requirements*.txt", "**/pyproject.toml"},
		},
	}
}

// newTestAnalysisJob wires a job over mocks, a temp project directory, and a
// temp reports directory, returning the job and the reports directory.
func newTestAnalysisJob(t *testing.T, client *mocks.MockClient, provider *mocks.MockProvider, history storage.Store) (core.Job, string) {
	t.Helper()

	reader, err := project.NewReader(t.TempDir(), newTestLogger())
	require.NoError(t, err)

	reportsDir := t.TempDir()
	writer, err := report.NewWriter(reportsDir, newTestLogger())
	require.NoError(t, err)

	a := analyzer.New(provider, nil, "medium", newTestLogger())
	clients := func(context.Context, int64) (github.Client, error) { return client, nil }

	job := NewAnalysisJob(newTestConfig(), reader, a, config.DefaultRepoConfig(), writer, history, clients, newTestLogger())
	return job, reportsDir
}

func TestAnalysisJobWritesReportAndComments(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	provider := mocks.NewMockProvider(ctrl)

	client.EXPECT().GetPullRequestDiff(gomock.Any(), "owner", "repo", 101).Return(sampleDiff, nil)
	provider.EXPECT().Analyze(gomock.Any(), gomock.Any()).Return(core.NewSuccessResult("gemini", "gemini-pro", "looks fine"))

	var commentBody string
	client.EXPECT().
		CreateComment(gomock.Any(), "owner", "repo", 101, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, _ int, body string) error {
			commentBody = body
			return nil
		})

	job, reportsDir := newTestAnalysisJob(t, client, provider, nil)
	err := job.Run(context.Background(), testEvent(101))

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(reportsDir, "pr_101_analysis.md"))
	assert.Contains(t, commentBody, "CodeArgus Analysis")
	assert.Contains(t, commentBody, "looks fine")
}

func TestAnalysisJobSkipsUnconfiguredRepository(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)

	reader, err := project.NewReader(t.TempDir(), newTestLogger())
	require.NoError(t, err)

	a := analyzer.New(provider, nil, "medium", newTestLogger())
	clients := func(context.Context, int64) (github.Client, error) {
		t.Fatal("client factory must not be called for unconfigured repositories")
		return nil, nil
	}
	job := NewAnalysisJob(newTestConfig(), reader, a, config.DefaultRepoConfig(), nil, nil, clients, newTestLogger())

	event := testEvent(5)
	event.RepoFullName = "someone-else/project"

	assert.NoError(t, job.Run(context.Background(), event))
}

func TestAnalysisJobRejectsInvalidEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	provider := mocks.NewMockProvider(ctrl)

	job, _ := newTestAnalysisJob(t, client, provider, nil)

	event := testEvent(9)
	event.RepoOwner = ""

	err := job.Run(context.Background(), event)
	assert.ErrorContains(t, err, "event validation failed")
}

func TestAnalysisJobClientFactoryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)

	reader, err := project.NewReader(t.TempDir(), newTestLogger())
	require.NoError(t, err)

	a := analyzer.New(provider, nil, "medium", newTestLogger())
	clients := func(context.Context, int64) (github.Client, error) {
		return nil, errors.New("installation token expired")
	}
	job := NewAnalysisJob(newTestConfig(), reader, a, config.DefaultRepoConfig(), nil, nil, clients, newTestLogger())

	runErr := job.Run(context.Background(), testEvent(3))
	assert.ErrorContains(t, runErr, "failed to create GitHub client")
}

func TestAnalysisJobCommentFailureReturnsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	provider := mocks.NewMockProvider(ctrl)

	client.EXPECT().GetPullRequestDiff(gomock.Any(), "owner", "repo", 101).Return(sampleDiff, nil)
	provider.EXPECT().Analyze(gomock.Any(), gomock.Any()).Return(core.NewSuccessResult("gemini", "gemini-pro", "looks fine"))
	client.EXPECT().
		CreateComment(gomock.Any(), "owner", "repo", 101, gomock.Any()).
		Return(errors.New("403 rate limited"))

	job, _ := newTestAnalysisJob(t, client, provider, nil)

	err := job.Run(context.Background(), testEvent(101))
	assert.ErrorContains(t, err, "failed to post analysis comment")
}

func TestAnalysisJobRecordsHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	provider := mocks.NewMockProvider(ctrl)

	client.EXPECT().GetPullRequestDiff(gomock.Any(), "owner", "repo", 101).Return(sampleDiff, nil)
	provider.EXPECT().Analyze(gomock.Any(), gomock.Any()).Return(core.NewSuccessResult("gemini", "gemini-pro", "looks fine"))
	client.EXPECT().CreateComment(gomock.Any(), "owner", "repo", 101, gomock.Any()).Return(nil)

	history := &stubStore{}
	job, reportsDir := newTestAnalysisJob(t, client, provider, history)

	require.NoError(t, job.Run(context.Background(), testEvent(101)))

	require.Len(t, history.records, 1)
	rec := history.records[0]
	assert.Equal(t, 101, rec.PRNumber)
	assert.Equal(t, string(core.StatusAnalyzed), rec.Status)
	assert.Equal(t, "gemini", rec.Provider)
	assert.Equal(t, filepath.Join(reportsDir, "pr_101_analysis.md"), rec.ReportPath)
}

func TestAnalysisJobHistoryFailureIsNonFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	provider := mocks.NewMockProvider(ctrl)

	client.EXPECT().GetPullRequestDiff(gomock.Any(), "owner", "repo", 101).Return(sampleDiff, nil)
	provider.EXPECT().Analyze(gomock.Any(), gomock.Any()).Return(core.NewSuccessResult("gemini", "gemini-pro", "looks fine"))
	client.EXPECT().CreateComment(gomock.Any(), "owner", "repo", 101, gomock.Any()).Return(nil)

	history := &stubStore{err: errors.New("connection refused")}
	job, _ := newTestAnalysisJob(t, client, provider, history)

	assert.NoError(t, job.Run(context.Background(), testEvent(101)))
}
