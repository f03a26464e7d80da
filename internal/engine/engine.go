// Package engine orchestrates the analysis of pull requests: fetching
// diffs, resolving the review criteria against the local project, and
// delegating to the AI analyzer. Each pull request yields one
// AnalysisOutcome; failures accumulate on the outcome instead of aborting
// the run.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codeargus/argus/internal/analyzer"
	"github.com/codeargus/argus/internal/config"
	"github.com/codeargus/argus/internal/core"
	"github.com/codeargus/argus/internal/github"
	"github.com/codeargus/argus/internal/project"
)

// testCoverageCriterion is only sent to the model when the local project
// shows evidence of a test suite.
const testCoverageCriterion = "test_coverage"

type Engine struct {
	client      github.Client
	reader      *project.Reader
	analyzer    *analyzer.Analyzer
	owner       string
	repo        string
	focusAreas  []string
	projectCfg  config.ProjectConfig
	concurrency int
	logger      *slog.Logger
}

// New builds an engine for the configured repository. Extra focus areas and
// test indicators from the repo-local override file are merged into the
// configured ones.
func New(client github.Client, reader *project.Reader, analyzer *analyzer.Analyzer, cfg *config.Config, repoCfg *config.RepoConfig, logger *slog.Logger) *Engine {
	owner, repo := cfg.GitHub.OwnerRepo()

	focus := slices.Clone(cfg.AI.FocusAreas)
	for _, area := range repoCfg.ExtraFocusAreas {
		if !slices.Contains(focus, area) {
			focus = append(focus, area)
		}
	}

	projectCfg := cfg.Project
	projectCfg.TestIndicators = slices.Clone(projectCfg.TestIndicators)
	for _, indicator := range repoCfg.TestIndicators {
		if !slices.Contains(projectCfg.TestIndicators, indicator) {
			projectCfg.TestIndicators = append(projectCfg.TestIndicators, indicator)
		}
	}

	concurrency := cfg.AI.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Engine{
		client:      client,
		reader:      reader,
		analyzer:    analyzer,
		owner:       owner,
		repo:        repo,
		focusAreas:  focus,
		projectCfg:  projectCfg,
		concurrency: concurrency,
		logger:      logger,
	}
}

// AnalyzePullRequest runs the analysis pipeline for a single pull request.
// It always returns an outcome; anything that went wrong is recorded on the
// outcome's error list.
func (e *Engine) AnalyzePullRequest(ctx context.Context, pr core.PullRequest) *core.AnalysisOutcome {
	e.logger.Info("analyzing pull request", "pr", pr.Number, "title", pr.Title)

	outcome := &core.AnalysisOutcome{
		PullRequest: pr,
		AnalyzedAt:  time.Now().UTC(),
	}
	meta := e.reader.GitMetadata()
	outcome.ProjectBranch = meta.Branch
	outcome.ProjectSHA = meta.Commit

	diff, err := e.client.GetPullRequestDiff(ctx, e.owner, e.repo, pr.Number)
	if err != nil {
		outcome.AddError(fmt.Sprintf("Error during analysis of PR #%d: %v", pr.Number, err))
		return outcome
	}
	if diff == "" {
		e.logger.Warn("empty diff content received", "pr", pr.Number)
		return outcome
	}

	changedFiles := ParseDiffFilenames(diff)
	if len(changedFiles) == 0 {
		e.logger.Warn("could not parse any filenames from the diff", "pr", pr.Number)
		return outcome
	}

	criteria := e.resolveCriteria()
	e.logger.Info("analyzing full diff", "pr", pr.Number, "files", len(changedFiles), "criteria", criteria)

	result, cacheHit := e.analyzer.Analyze(ctx, core.ReviewRequest{
		Diff:     diff,
		Criteria: criteria,
	})
	outcome.Result = result
	outcome.CacheHit = cacheHit
	if !result.IsSuccess() {
		outcome.AddError("AI analysis failed: " + result.Err)
	}

	e.logger.Info("finished pull request analysis", "pr", pr.Number, "status", outcome.Status(), "cache_hit", cacheHit)
	return outcome
}

// AnalyzeAll analyzes every pull request, at most e.concurrency at a time.
// Outcomes are returned in the order the pull requests were given,
// regardless of completion order.
func (e *Engine) AnalyzeAll(ctx context.Context, prs []core.PullRequest) []*core.AnalysisOutcome {
	outcomes := make([]*core.AnalysisOutcome, len(prs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, pr := range prs {
		g.Go(func() error {
			outcomes[i] = e.AnalyzePullRequest(ctx, pr)
			return nil
		})
	}
	// AnalyzePullRequest never returns an error; Wait only synchronizes.
	_ = g.Wait()

	return outcomes
}

// resolveCriteria copies the configured focus areas and removes the test
// coverage criterion when the local project gives no sign of having tests.
func (e *Engine) resolveCriteria() []string {
	criteria := slices.Clone(e.focusAreas)
	if !slices.Contains(criteria, testCoverageCriterion) {
		return criteria
	}
	if e.needsTestCoverage() {
		return criteria
	}

	e.logger.Debug("no test indicators found, dropping test coverage criterion")
	return slices.DeleteFunc(criteria, func(c string) bool {
		return c == testCoverageCriterion
	})
}

func (e *Engine) needsTestCoverage() bool {
	if e.reader.HasTestLayout(e.projectCfg.TestIndicators) {
		return true
	}
	return e.reader.ManifestMentionsTestFramework(e.projectCfg.ManifestGlobs, e.projectCfg.TestDependencyMarkers)
}
