package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sevigo/goframe/llms"
	"github.com/sevigo/goframe/llms/gemini"

	"github.com/codeargus/argus/internal/config"
	"github.com/codeargus/argus/internal/core"
)

// geminiProvider sends review requests to Google Gemini.
type geminiProvider struct {
	model        llms.Model
	modelName    string
	strictness   string
	instructions []string
	prompts      *PromptManager
	logger       *slog.Logger
}

func newGeminiProvider(ctx context.Context, cfg *config.AIConfig, instructions []string, prompts *PromptManager, logger *slog.Logger) (*geminiProvider, error) {
	if cfg.Gemini.APIKey == "" {
		return nil, core.NewConfigError("gemini API key is missing", nil)
	}

	model, err := gemini.New(ctx,
		gemini.WithModel(cfg.Gemini.Model),
		gemini.WithAPIKey(cfg.Gemini.APIKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	logger.Info("gemini provider initialized", "model", cfg.Gemini.Model)
	return &geminiProvider{
		model:        model,
		modelName:    cfg.Gemini.Model,
		strictness:   cfg.Strictness,
		instructions: instructions,
		prompts:      prompts,
		logger:       logger,
	}, nil
}

func (p *geminiProvider) Name() string  { return config.ProviderGemini }
func (p *geminiProvider) Model() string { return p.modelName }

func (p *geminiProvider) Analyze(ctx context.Context, req core.ReviewRequest) *core.ReviewResult {
	prompt, err := p.prompts.Render(ReviewPrompt, ModelProvider(config.ProviderGemini), newPromptData(req, p.strictness, p.instructions))
	if err != nil {
		return core.NewFailureResult(config.ProviderGemini, p.modelName, fmt.Sprintf("failed to build prompt: %v", err))
	}

	p.logger.Debug("sending review request to gemini", "model", p.modelName)
	response, err := llms.GenerateFromSinglePrompt(ctx, p.model, prompt)
	if err != nil {
		return core.NewFailureResult(config.ProviderGemini, p.modelName, fmt.Sprintf("gemini API call failed: %v", err))
	}
	return core.NewSuccessResult(config.ProviderGemini, p.modelName, response)
}
