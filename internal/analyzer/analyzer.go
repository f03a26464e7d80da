// Package analyzer runs review requests through the active AI provider,
// consulting the on-disk response cache first when one is configured.
package analyzer

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/codeargus/argus/internal/cache"
	"github.com/codeargus/argus/internal/core"
	"github.com/codeargus/argus/internal/llm"
)

// Analyzer wraps a provider with response caching. A nil store disables
// caching entirely; every request then goes straight to the provider.
type Analyzer struct {
	provider   llm.Provider
	store      *cache.Store
	strictness string
	logger     *slog.Logger
	group      singleflight.Group
}

func New(provider llm.Provider, store *cache.Store, strictness string, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		provider:   provider,
		store:      store,
		strictness: strictness,
		logger:     logger,
	}
}

// Analyze returns the review result for req and whether it was served from
// the cache. Only successful results are ever cached, so a failure here
// means the provider was asked and declined; retrying later will ask again.
// Concurrent requests with identical inputs share a single provider call.
func (a *Analyzer) Analyze(ctx context.Context, req core.ReviewRequest) (*core.ReviewResult, bool) {
	if a.store == nil {
		return a.provider.Analyze(ctx, req), false
	}

	key := cache.Key(req, a.provider.Name(), a.provider.Model(), a.strictness)
	if result, ok := a.store.Get(key); ok {
		a.logger.Debug("cache hit", "key", key[:8])
		return result, true
	}
	a.logger.Debug("cache miss", "key", key[:8])

	v, _, _ := a.group.Do(key, func() (any, error) {
		result := a.provider.Analyze(ctx, req)
		if result.IsSuccess() {
			a.store.Put(key, result)
		}
		return result, nil
	})
	return v.(*core.ReviewResult), false
}

// Provider exposes the wrapped provider's identity for reporting.
func (a *Analyzer) Provider() llm.Provider { return a.provider }
