package llm

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/codeargus/argus/internal/config"
	"github.com/codeargus/argus/internal/core"
)

// openAIProvider sends review requests to the OpenAI API or any
// OpenAI-compatible endpoint. The local_llm provider shares this adapter
// with a custom base URL.
type openAIProvider struct {
	client       *openai.Client
	name         string
	modelName    string
	temperature  float32
	maxTokens    int
	strictness   string
	instructions []string
	prompts      *PromptManager
	logger       *slog.Logger
}

func newOpenAIProvider(name string, providerCfg config.OpenAIConfig, cfg *config.AIConfig, instructions []string, prompts *PromptManager, logger *slog.Logger) (*openAIProvider, error) {
	if providerCfg.APIKey == "" {
		if name == config.ProviderOpenAI {
			return nil, core.NewConfigError("openai API key is missing", nil)
		}
		// Local endpoints commonly run without authentication.
		logger.Warn("no API key configured, sending unauthenticated requests", "provider", name)
	}

	clientCfg := openai.DefaultConfig(providerCfg.APIKey)
	if providerCfg.BaseURL != "" {
		clientCfg.BaseURL = providerCfg.BaseURL
	}

	logger.Info("openai-compatible provider initialized",
		"provider", name, "model", providerCfg.Model, "base_url", clientCfg.BaseURL)
	return &openAIProvider{
		client:       openai.NewClientWithConfig(clientCfg),
		name:         name,
		modelName:    providerCfg.Model,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxTokens,
		strictness:   cfg.Strictness,
		instructions: instructions,
		prompts:      prompts,
		logger:       logger,
	}, nil
}

func (p *openAIProvider) Name() string  { return p.name }
func (p *openAIProvider) Model() string { return p.modelName }

func (p *openAIProvider) Analyze(ctx context.Context, req core.ReviewRequest) *core.ReviewResult {
	data := newPromptData(req, p.strictness, p.instructions)

	systemPrompt, err := p.prompts.Render(SystemPrompt, ModelProvider(p.name), data)
	if err != nil {
		return core.NewFailureResult(p.name, p.modelName, fmt.Sprintf("failed to build system prompt: %v", err))
	}
	userPrompt, err := p.prompts.Render(UserPrompt, ModelProvider(p.name), data)
	if err != nil {
		return core.NewFailureResult(p.name, p.modelName, fmt.Sprintf("failed to build user prompt: %v", err))
	}

	p.logger.Debug("sending review request to openai-compatible endpoint",
		"provider", p.name, "model", p.modelName)
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.modelName,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return core.NewFailureResult(p.name, p.modelName, fmt.Sprintf("OpenAI-compatible API call failed: %v", err))
	}
	if len(resp.Choices) == 0 {
		return core.NewFailureResult(p.name, p.modelName, "model returned an empty response")
	}
	return core.NewSuccessResult(p.name, p.modelName, resp.Choices[0].Message.Content)
}
