// Package wire assembles the application object graph for the run and serve
// commands.
package wire

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/codeargus/argus/internal/analyzer"
	"github.com/codeargus/argus/internal/cache"
	"github.com/codeargus/argus/internal/config"
	"github.com/codeargus/argus/internal/core"
	"github.com/codeargus/argus/internal/db"
	"github.com/codeargus/argus/internal/github"
	"github.com/codeargus/argus/internal/jobs"
	"github.com/codeargus/argus/internal/llm"
	"github.com/codeargus/argus/internal/logger"
	"github.com/codeargus/argus/internal/project"
	"github.com/codeargus/argus/internal/report"
	"github.com/codeargus/argus/internal/storage"
)

func provideLogger(cfg *config.Config) *slog.Logger {
	return logger.NewLogger(cfg.Logging, nil)
}

func provideAIConfig(cfg *config.Config) *config.AIConfig {
	return &cfg.AI
}

// provideRepoConfig loads the optional .argus.yml override from the project
// checkout. A missing file is normal; a present but unparsable one is a
// fatal configuration error.
func provideRepoConfig(cfg *config.Config, log *slog.Logger) (*config.RepoConfig, error) {
	repoCfg, err := config.LoadRepoConfig(cfg.Project.LocalPath)
	if err != nil {
		if errors.Is(err, config.ErrRepoConfigNotFound) {
			log.Debug("no repository override file found", "path", cfg.Project.LocalPath)
			return config.DefaultRepoConfig(), nil
		}
		return nil, core.NewConfigError("invalid .argus.yml override file", err)
	}
	log.Info("loaded repository override file",
		"extra_focus_areas", len(repoCfg.ExtraFocusAreas),
		"custom_instructions", len(repoCfg.CustomInstructions),
	)
	return repoCfg, nil
}

func provideInstructions(repoCfg *config.RepoConfig) []string {
	return repoCfg.CustomInstructions
}

// provideCacheStore opens the response cache directory. A disabled cache
// yields a nil store, which the analyzer treats as a pass-through.
func provideCacheStore(cfg *config.Config, log *slog.Logger) (*cache.Store, error) {
	if !cfg.Cache.Enabled {
		log.Info("response cache is disabled")
		return nil, nil
	}
	store, err := cache.NewStore(cfg.Cache.Directory, log)
	if err != nil {
		return nil, core.NewInitError("response cache", err)
	}
	return store, nil
}

func provideAnalyzer(provider llm.Provider, store *cache.Store, cfg *config.Config, log *slog.Logger) *analyzer.Analyzer {
	return analyzer.New(provider, store, cfg.AI.Strictness, log)
}

func provideReader(cfg *config.Config, log *slog.Logger) (*project.Reader, error) {
	reader, err := project.NewReader(cfg.Project.LocalPath, log)
	if err != nil {
		return nil, core.NewConfigError("invalid project.local_path", err)
	}
	return reader, nil
}

func provideWriter(cfg *config.Config, log *slog.Logger) (*report.Writer, error) {
	writer, err := report.NewWriter(cfg.Reporting.OutputDir, log)
	if err != nil {
		return nil, core.NewInitError("report writer", err)
	}
	return writer, nil
}

func provideConsole(cfg *config.Config) *report.Console {
	return report.NewConsole(os.Stdout, cfg.Reporting.TerminalColors)
}

// provideHistoryStore connects to Postgres when the history store is
// enabled; otherwise it yields a nil store and a no-op cleanup.
func provideHistoryStore(cfg *config.Config, log *slog.Logger) (storage.Store, func(), error) {
	if !cfg.Database.Enabled {
		return nil, func() {}, nil
	}
	dbConn, cleanup, err := db.NewDatabase(&cfg.Database, log)
	if err != nil {
		return nil, func() {}, core.NewInitError("history store", err)
	}
	return storage.NewStore(dbConn.DB), cleanup, nil
}

// provideClientFactory selects GitHub App installation auth when configured,
// falling back to the personal access token.
func provideClientFactory(cfg *config.Config, log *slog.Logger) jobs.ClientFactory {
	return func(ctx context.Context, installationID int64) (github.Client, error) {
		if cfg.GitHub.App.Enabled() {
			return github.NewInstallationClient(ctx, cfg.GitHub.App, installationID, log)
		}
		return github.NewPATClient(ctx, cfg.GitHub.Token, cfg.GitHub.BaseURL, log)
	}
}
