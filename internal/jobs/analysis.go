package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/codeargus/argus/internal/analyzer"
	"github.com/codeargus/argus/internal/config"
	"github.com/codeargus/argus/internal/core"
	"github.com/codeargus/argus/internal/engine"
	"github.com/codeargus/argus/internal/github"
	"github.com/codeargus/argus/internal/project"
	"github.com/codeargus/argus/internal/report"
	"github.com/codeargus/argus/internal/storage"
)

// ClientFactory mints a GitHub client for one event. Webhook deployments
// return an installation-scoped client for the event's installation ID; token
// deployments ignore the ID and return the shared token client.
type ClientFactory func(ctx context.Context, installationID int64) (github.Client, error)

// AnalysisJob is a background job that analyzes one pull request from a
// webhook event: it fetches the diff, runs the AI analysis, writes the per-PR
// report, posts a comment on the pull request, and records a history row.
type AnalysisJob struct {
	cfg      *config.Config
	reader   *project.Reader
	analyzer *analyzer.Analyzer
	repoCfg  *config.RepoConfig
	writer   *report.Writer
	history  storage.Store // nil when the history store is disabled
	clients  ClientFactory
	logger   *slog.Logger
}

// NewAnalysisJob creates a new AnalysisJob with its pipeline dependencies.
func NewAnalysisJob(
	cfg *config.Config,
	reader *project.Reader,
	anlz *analyzer.Analyzer,
	repoCfg *config.RepoConfig,
	writer *report.Writer,
	history storage.Store,
	clients ClientFactory,
	logger *slog.Logger,
) core.Job {
	if cfg == nil {
		panic("config cannot be nil")
	}
	if anlz == nil {
		panic("analyzer cannot be nil")
	}
	if clients == nil {
		panic("client factory cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &AnalysisJob{
		cfg:      cfg,
		reader:   reader,
		analyzer: anlz,
		repoCfg:  repoCfg,
		writer:   writer,
		history:  history,
		clients:  clients,
		logger:   logger,
	}
}

// Run executes the analysis job for a given GitHub event.
func (j *AnalysisJob) Run(ctx context.Context, event *core.GitHubEvent) error {
	if err := validateEvent(event); err != nil {
		j.logger.Error("event validation failed", "error", err)
		return fmt.Errorf("event validation failed: %w", err)
	}

	// The server may receive events for every repository the App is
	// installed on; only the configured one has a local checkout to
	// analyze against.
	if !strings.EqualFold(event.RepoFullName, j.cfg.GitHub.Repository) {
		j.logger.Warn("ignoring event for unconfigured repository",
			"repo", event.RepoFullName,
			"configured", j.cfg.GitHub.Repository,
		)
		return nil
	}

	j.logger.Info("starting analysis job", "repo", event.RepoFullName, "pr", event.PRNumber)

	ghClient, err := j.clients(ctx, event.InstallationID)
	if err != nil {
		j.logger.Error("failed to create GitHub client", "error", err)
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	eng := engine.New(ghClient, j.reader, j.analyzer, j.cfg, j.repoCfg, j.logger)
	outcome := eng.AnalyzePullRequest(ctx, event.PullRequestFromEvent())

	var reportPath string
	if j.writer != nil {
		reportPath, err = j.writer.WritePRReport(outcome)
		if err != nil {
			outcome.AddError(fmt.Sprintf("Reporting failed: %v", err))
			j.logger.Error("failed to write analysis report", "pr", event.PRNumber, "error", err)
			reportPath = ""
		}
	}

	j.recordHistory(ctx, outcome, reportPath)

	notifier := github.NewNotifier(ghClient, event.RepoOwner, event.RepoName)
	if err := notifier.AnalysisCompleted(ctx, outcome, reportPath); err != nil {
		j.logger.Error("failed to post analysis comment", "pr", event.PRNumber, "error", err)
		return fmt.Errorf("failed to post analysis comment: %w", err)
	}

	j.logger.Info("analysis job completed",
		"repo", event.RepoFullName,
		"pr", event.PRNumber,
		"status", outcome.Status(),
	)
	return nil
}

// recordHistory saves one row for the outcome when the store is enabled.
// Store failures are logged, never fatal.
func (j *AnalysisJob) recordHistory(ctx context.Context, outcome *core.AnalysisOutcome, reportPath string) {
	if j.history == nil {
		return
	}
	if err := j.history.SaveRecord(ctx, core.RecordFromOutcome(outcome, reportPath)); err != nil {
		j.logger.Error("failed to record analysis history",
			"pr", outcome.PullRequest.Number,
			"error", err,
		)
	}
}
