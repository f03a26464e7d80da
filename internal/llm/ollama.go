package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sevigo/goframe/llms"
	"github.com/sevigo/goframe/llms/ollama"

	"github.com/codeargus/argus/internal/config"
	"github.com/codeargus/argus/internal/core"
)

// ollamaProvider sends review requests to a native Ollama server.
type ollamaProvider struct {
	model        llms.Model
	modelName    string
	strictness   string
	instructions []string
	prompts      *PromptManager
	logger       *slog.Logger
}

// newOllamaHTTPClient builds an HTTP client with generous timeouts; local
// models can take minutes on a large diff.
func newOllamaHTTPClient() *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   5 * time.Minute,
	}
}

func newOllamaProvider(cfg *config.AIConfig, instructions []string, prompts *PromptManager, logger *slog.Logger) (*ollamaProvider, error) {
	model, err := ollama.New(
		ollama.WithServerURL(cfg.Ollama.Host),
		ollama.WithModel(cfg.Ollama.Model),
		ollama.WithHTTPClient(newOllamaHTTPClient()),
		ollama.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}

	logger.Info("ollama provider initialized", "model", cfg.Ollama.Model, "host", cfg.Ollama.Host)
	return &ollamaProvider{
		model:        model,
		modelName:    cfg.Ollama.Model,
		strictness:   cfg.Strictness,
		instructions: instructions,
		prompts:      prompts,
		logger:       logger,
	}, nil
}

func (p *ollamaProvider) Name() string  { return config.ProviderOllama }
func (p *ollamaProvider) Model() string { return p.modelName }

func (p *ollamaProvider) Analyze(ctx context.Context, req core.ReviewRequest) *core.ReviewResult {
	prompt, err := p.prompts.Render(ReviewPrompt, ModelProvider(config.ProviderOllama), newPromptData(req, p.strictness, p.instructions))
	if err != nil {
		return core.NewFailureResult(config.ProviderOllama, p.modelName, fmt.Sprintf("failed to build prompt: %v", err))
	}

	p.logger.Debug("sending review request to ollama", "model", p.modelName)
	response, err := llms.GenerateFromSinglePrompt(ctx, p.model, prompt)
	if err != nil {
		return core.NewFailureResult(config.ProviderOllama, p.modelName, fmt.Sprintf("ollama API call failed: %v", err))
	}
	return core.NewSuccessResult(config.ProviderOllama, p.modelName, response)
}
