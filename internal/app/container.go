// Package app wires the assistant's dependency graph.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/dig"
	"go.uber.org/zap"

	analytics "github.com/davidbz/faqvoice/internal/analytics/redis"
	"github.com/davidbz/faqvoice/internal/config"
	"github.com/davidbz/faqvoice/internal/corpus"
	"github.com/davidbz/faqvoice/internal/domain"
	embedding "github.com/davidbz/faqvoice/internal/embedding/openai"
	"github.com/davidbz/faqvoice/internal/http"
	"github.com/davidbz/faqvoice/internal/http/middleware"
	"github.com/davidbz/faqvoice/internal/observability"
	"github.com/davidbz/faqvoice/internal/provider/anthropic"
	"github.com/davidbz/faqvoice/internal/provider/openai"
	"github.com/davidbz/faqvoice/internal/provider/registry"
)

// BuildContainer registers every constructor. Nothing is built until Invoke.
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	constructors := []interface{}{
		// Configuration
		config.Load,
		config.ParseDependenciesConfig,

		// Observability
		observability.InitLogger,
		newAnalyticsTracker,
		newAnalyticsReader,
		newEventBus,

		// Providers
		newRegistry,
		selectProvider,
		newEmbeddingGenerator,

		// Domain
		newCorpusStore,
		func(s *corpus.Store) domain.CorpusProvider { return s },
		newVectorCache,
		func(cfg *domain.ConversationConfig) *domain.ConversationStore {
			return domain.NewConversationStore(*cfg)
		},
		newMatchingEngine,

		// HTTP Layer
		middleware.BuildMiddlewareChain,
		http.NewHandler,
		http.NewServer,
	}

	for _, c := range constructors {
		if err := container.Provide(c); err != nil {
			return nil, fmt.Errorf("failed to provide constructor: %w", err)
		}
	}

	return container, nil
}

func newRegistry(openaiCfg *openai.Config, anthropicCfg *anthropic.Config) (*registry.Registry, error) {
	ctx := context.Background()
	reg := registry.NewRegistry()

	if openaiCfg.APIKey != "" {
		p, err := openai.NewProvider(*openaiCfg)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to register OpenAI provider: %w", err)
		}
	}

	if anthropicCfg.APIKey != "" {
		p, err := anthropic.NewProvider(*anthropicCfg)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to register Anthropic provider: %w", err)
		}
	}

	return reg, nil
}

// selectProvider returns nil when no provider is configured; the engine then
// runs without AI matching or generated speech.
func selectProvider(reg *registry.Registry, llm *config.LLMConfig, logger *zap.Logger) (domain.Provider, error) {
	provider, err := reg.Select(context.Background(), llm.Provider)
	if errors.Is(err, registry.ErrNoProviders) {
		logger.Warn("no completion provider configured, AI features disabled")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	logger.Info("completion provider selected", observability.String("provider", provider.Name()))
	return provider, nil
}

// newEmbeddingGenerator returns nil without an API key.
func newEmbeddingGenerator(cfg *embedding.Config) (*embedding.Generator, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	return embedding.NewGenerator(*cfg)
}

func newCorpusStore(cfg *corpus.Config, gen *embedding.Generator, logger *zap.Logger) (*corpus.Store, error) {
	expectedDim := 0
	if gen != nil {
		expectedDim = gen.Dimension()
	}

	store, err := corpus.NewStore(cfg.Source(), expectedDim)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}

	stats := store.Current().Stats()
	logger.Info("corpus loaded",
		observability.String("path", store.Path()),
		observability.Bool("primary", store.Primary()),
		observability.Int("questions", stats.TotalQuestions),
		observability.Float64("embedding_coverage", stats.EmbeddingCoverage))

	return store, nil
}

func newVectorCache(gen *embedding.Generator, cfg *domain.CacheConfig) *domain.VectorCache {
	if gen == nil {
		return nil
	}
	return domain.NewVectorCache(gen, *cfg)
}

type engineParams struct {
	dig.In

	Config        *domain.EngineConfig
	Corpus        domain.CorpusProvider
	Cache         *domain.VectorCache
	Provider      domain.Provider
	Conversations *domain.ConversationStore
	Events        domain.EventPublisher
}

func newMatchingEngine(p engineParams) (*domain.MatchingEngine, error) {
	return domain.NewMatchingEngine(*p.Config, p.Corpus, p.Cache, p.Provider, p.Conversations, p.Events)
}

// newAnalyticsTracker returns nil when Redis is not configured.
func newAnalyticsTracker(cfg *analytics.Config, logger *zap.Logger) (*analytics.Tracker, error) {
	if !cfg.Enabled() {
		logger.Info("analytics disabled, REDIS_ADDR not set")
		return nil, nil
	}

	client, err := analytics.NewClient(context.Background(), *cfg)
	if err != nil {
		return nil, err
	}

	return analytics.NewTracker(client, *cfg)
}

func newAnalyticsReader(tracker *analytics.Tracker) domain.AnalyticsReader {
	if tracker == nil {
		return nil
	}
	return tracker
}

func newEventBus(logger *zap.Logger, tracker *analytics.Tracker) domain.EventPublisher {
	if tracker == nil {
		return observability.NewEventBus(logger)
	}
	return observability.NewEventBus(logger, tracker)
}
