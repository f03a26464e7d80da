//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"github.com/codeargus/argus/internal/app"
	"github.com/codeargus/argus/internal/config"
	"github.com/codeargus/argus/internal/llm"
)

// InitializeApp builds the full application graph from a config file path.
func InitializeApp(ctx context.Context, configPath string) (*app.App, func(), error) {
	wire.Build(
		config.Load,
		provideLogger,
		provideAIConfig,
		provideRepoConfig,
		provideInstructions,
		llm.NewPromptManager,
		llm.NewProvider,
		provideCacheStore,
		provideAnalyzer,
		provideReader,
		provideWriter,
		provideConsole,
		provideHistoryStore,
		provideClientFactory,
		app.New,
	)
	return &app.App{}, nil, nil
}
