// Code generated manually. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package wire

import (
	"context"

	"github.com/codeargus/argus/internal/app"
	"github.com/codeargus/argus/internal/config"
	"github.com/codeargus/argus/internal/core"
	"github.com/codeargus/argus/internal/llm"
)

// InitializeApp builds the full application graph from a config file path.
func InitializeApp(ctx context.Context, configPath string) (*app.App, func(), error) {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	// Setup logger
	log := provideLogger(cfg)

	// Repository overrides
	repoCfg, err := provideRepoConfig(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	// Prompt manager
	promptMgr, err := llm.NewPromptManager()
	if err != nil {
		return nil, nil, core.NewInitError("prompt manager", err)
	}

	// LLM provider
	provider, err := llm.NewProvider(ctx, provideAIConfig(cfg), provideInstructions(repoCfg), promptMgr, log)
	if err != nil {
		return nil, nil, err
	}

	// Response cache
	cacheStore, err := provideCacheStore(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	// Analyzer
	anlz := provideAnalyzer(provider, cacheStore, cfg, log)

	// Project reader
	reader, err := provideReader(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	// Report writer and console
	writer, err := provideWriter(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	console := provideConsole(cfg)

	// History store
	history, cleanup, err := provideHistoryStore(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	// GitHub client factory
	clients := provideClientFactory(cfg, log)

	// App
	application := app.New(cfg, repoCfg, anlz, reader, writer, console, history, clients, log)

	return application, cleanup, nil
}
