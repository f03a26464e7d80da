// Package app initializes and orchestrates the main components of the
// CodeArgus application. It ties the GitHub client, the analysis engine, and
// the reporting layer together for both the one-shot and the server mode.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/codeargus/argus/internal/analyzer"
	"github.com/codeargus/argus/internal/config"
	"github.com/codeargus/argus/internal/core"
	"github.com/codeargus/argus/internal/engine"
	"github.com/codeargus/argus/internal/jobs"
	"github.com/codeargus/argus/internal/project"
	"github.com/codeargus/argus/internal/report"
	"github.com/codeargus/argus/internal/server"
	"github.com/codeargus/argus/internal/storage"
)

// App holds the main application components.
type App struct {
	cfg      *config.Config
	repoCfg  *config.RepoConfig
	analyzer *analyzer.Analyzer
	reader   *project.Reader
	writer   *report.Writer
	console  *report.Console
	history  storage.Store // nil when the history store is disabled
	clients  jobs.ClientFactory
	logger   *slog.Logger
}

// New assembles the application from its already-constructed components.
func New(
	cfg *config.Config,
	repoCfg *config.RepoConfig,
	anlz *analyzer.Analyzer,
	reader *project.Reader,
	writer *report.Writer,
	console *report.Console,
	history storage.Store,
	clients jobs.ClientFactory,
	logger *slog.Logger,
) *App {
	return &App{
		cfg:      cfg,
		repoCfg:  repoCfg,
		analyzer: anlz,
		reader:   reader,
		writer:   writer,
		console:  console,
		history:  history,
		clients:  clients,
		logger:   logger,
	}
}

// RunAnalysis executes the one-shot pipeline: verify GitHub access, list open
// pull requests, analyze each one, and write the per-PR reports plus the run
// summary. Per-PR failures are recorded in their outcomes; only startup
// failures abort the run.
func (a *App) RunAnalysis(ctx context.Context) error {
	owner, repo := a.cfg.GitHub.OwnerRepo()

	client, err := a.clients(ctx, 0)
	if err != nil {
		return core.NewInitError("GitHub client", err)
	}
	if err := client.VerifyAccess(ctx, owner, repo); err != nil {
		return core.NewInitError("GitHub client", err)
	}

	prs, err := client.ListOpenPullRequests(ctx, owner, repo)
	if err != nil {
		return fmt.Errorf("failed to list open pull requests for %s/%s: %w", owner, repo, err)
	}
	if len(prs) == 0 {
		a.logger.Info("no open pull requests found", "repository", a.cfg.GitHub.Repository)
		return nil
	}

	pulls := make([]core.PullRequest, len(prs))
	for i, pr := range prs {
		pulls[i] = core.PullRequestFromGitHub(pr)
	}
	a.logger.Info("analyzing open pull requests",
		"repository", a.cfg.GitHub.Repository,
		"count", len(pulls),
	)

	eng := engine.New(client, a.reader, a.analyzer, a.cfg, a.repoCfg, a.logger)
	outcomes := eng.AnalyzeAll(ctx, pulls)

	for _, outcome := range outcomes {
		reportPath, err := a.writer.WritePRReport(outcome)
		if err != nil {
			outcome.AddError(fmt.Sprintf("Reporting failed: %v", err))
			a.logger.Error("failed to write analysis report",
				"pr", outcome.PullRequest.Number,
				"error", err,
			)
			reportPath = ""
		}
		a.console.PRSummary(outcome, reportPath)
		a.recordHistory(ctx, outcome, reportPath)
	}

	if _, err := a.writer.WriteSummary(outcomes); err != nil {
		a.logger.Error("failed to write summary report", "error", err)
	}

	a.console.Footer(a.writer.OutputDir())
	return nil
}

// Serve starts the webhook server and blocks until the context is canceled
// or a shutdown signal arrives, then drains in-flight analysis jobs.
func (a *App) Serve(ctx context.Context) error {
	job := jobs.NewAnalysisJob(a.cfg, a.reader, a.analyzer, a.repoCfg, a.writer, a.history, a.clients, a.logger)
	dispatcher := jobs.NewDispatcher(job, a.cfg.Server.QueueSize, a.cfg.Server.Workers, a.logger)
	srv := server.NewServer(a.cfg, dispatcher, a.logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var startErr error
	select {
	case <-quit:
		a.logger.Info("received shutdown signal")
	case <-ctx.Done():
		a.logger.Info("context cancelled, shutting down")
	case startErr = <-errCh:
		if startErr != nil {
			a.logger.Error("server error", "error", startErr)
		}
	}

	// Stop the HTTP server first to prevent new incoming requests, then let
	// the dispatcher finish queued jobs.
	stopErr := srv.Stop()
	if stopErr != nil {
		a.logger.Error("error during HTTP server shutdown", "error", stopErr)
	}
	dispatcher.Stop()

	if startErr != nil {
		return startErr
	}
	return stopErr
}

// recordHistory saves one row for the outcome when the store is enabled.
// Store failures are logged, never fatal.
func (a *App) recordHistory(ctx context.Context, outcome *core.AnalysisOutcome, reportPath string) {
	if a.history == nil {
		return
	}
	if err := a.history.SaveRecord(ctx, core.RecordFromOutcome(outcome, reportPath)); err != nil {
		a.logger.Error("failed to record analysis history",
			"pr", outcome.PullRequest.Number,
			"error", err,
		)
	}
}
