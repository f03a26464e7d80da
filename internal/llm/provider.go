// Package llm contains the provider adapters that send review requests to a
// remote language model, plus the prompt templates they render. Exactly one
// provider is active per process run, selected by configuration.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/codeargus/argus/internal/config"
	"github.com/codeargus/argus/internal/core"
)

//go:generate mockgen -destination=../../mocks/mock_llm_provider.go -package=mocks . Provider

// Provider analyzes a review request against one remote model endpoint.
// Implementations make exactly one remote call per Analyze invocation and
// never return an error for provider-call failures: those come back as a
// Failure result so the orchestrator can record them without aborting.
// Setup problems (missing credentials, unreachable configuration) surface
// as errors from the constructor instead.
type Provider interface {
	// Analyze sends the request to the model and returns its result.
	Analyze(ctx context.Context, req core.ReviewRequest) *core.ReviewResult
	// Name returns the configured provider identifier, e.g. "gemini".
	Name() string
	// Model returns the model name requests are sent to.
	Model() string
}

// NewProvider builds the adapter selected by cfg.Provider. Unknown names
// and missing credentials are fatal setup errors.
func NewProvider(ctx context.Context, cfg *config.AIConfig, instructions []string, prompts *PromptManager, logger *slog.Logger) (Provider, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return newGeminiProvider(ctx, cfg, instructions, prompts, logger)
	case config.ProviderOpenAI:
		return newOpenAIProvider(config.ProviderOpenAI, cfg.OpenAI, cfg, instructions, prompts, logger)
	case config.ProviderLocalLLM:
		return newOpenAIProvider(config.ProviderLocalLLM, cfg.LocalLLM, cfg, instructions, prompts, logger)
	case config.ProviderOllama:
		return newOllamaProvider(cfg, instructions, prompts, logger)
	default:
		return nil, core.NewConfigError(fmt.Sprintf("unsupported AI provider: %s", cfg.Provider), nil)
	}
}

// PromptData is the payload rendered into the review prompt templates.
type PromptData struct {
	CriteriaList string
	Strictness   string
	Instructions []string
	Context      string
	Diff         string
}

func newPromptData(req core.ReviewRequest, strictness string, instructions []string) PromptData {
	return PromptData{
		CriteriaList: strings.Join(req.Criteria, ", "),
		Strictness:   strictness,
		Instructions: instructions,
		Context:      req.Context,
		Diff:         req.Diff,
	}
}
