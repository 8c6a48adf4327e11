package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/faqvoice/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("should load config with defaults", func(t *testing.T) {
		os.Clearenv()

		cfg, err := config.Load()
		require.NoError(t, err)
		require.NotNil(t, cfg)

		require.Equal(t, 8080, cfg.Server.Port)
		require.Equal(t, 30, cfg.Server.ReadTimeout)
		require.Equal(t, "https://api.openai.com/v1", cfg.OpenAI.BaseURL)
		require.Equal(t, 30, cfg.OpenAI.Timeout)
		require.Equal(t, 2, cfg.OpenAI.MaxRetries)
		require.Empty(t, cfg.OpenAI.APIKey)

		require.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
		require.Equal(t, 512, cfg.Embedding.Dimensions)
		require.Equal(t, 20, cfg.Embedding.BatchSize)

		require.Equal(t, "tiered", cfg.Engine.Strategy)
		require.InDelta(t, 0.75, cfg.Engine.SimilarityThreshold, 1e-9)
		require.InDelta(t, 0.3, cfg.Engine.KeywordThreshold, 1e-9)
		require.True(t, cfg.Engine.AIEnabled)
		require.Equal(t, 5*time.Second, cfg.Engine.EmbeddingTimeout)

		require.Equal(t, 50, cfg.Cache.MaxSize)
		require.Equal(t, time.Hour, cfg.Cache.TTL)
		require.Empty(t, cfg.Cache.Prewarm)
		require.Equal(t, 50, cfg.Conversation.MaxConversations)

		require.Equal(t, "data/faqs_embedded.json", cfg.Corpus.Path)
		require.Equal(t, 5*time.Minute, cfg.Webhook.Tolerance)
		require.Empty(t, cfg.Webhook.Secret)
		require.Empty(t, cfg.LLM.Provider)
		require.False(t, cfg.Analytics.Enabled())
	})

	t.Run("should load config from environment variables", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9000")
		t.Setenv("OPENAI_API_KEY", "sk-test-key")
		t.Setenv("OPENAI_MAX_RETRIES", "5")
		t.Setenv("LLM_PROVIDER", "anthropic")
		t.Setenv("ANTHROPIC_API_KEY", "ak-test")
		t.Setenv("MATCH_STRATEGY", "ai")
		t.Setenv("EMBEDDING_CACHE_PREWARM", "How much is premium?|When is the live show?")
		t.Setenv("WEBHOOK_SECRET", "shh")
		t.Setenv("REDIS_ADDR", "localhost:6379")

		cfg, err := config.Load()
		require.NoError(t, err)

		require.Equal(t, 9000, cfg.Server.Port)
		require.Equal(t, "sk-test-key", cfg.OpenAI.APIKey)
		require.Equal(t, "sk-test-key", cfg.Embedding.APIKey)
		require.Equal(t, 5, cfg.OpenAI.MaxRetries)
		require.Equal(t, "anthropic", cfg.LLM.Provider)
		require.Equal(t, "ak-test", cfg.Anthropic.APIKey)
		require.Equal(t, "ai", cfg.Engine.Strategy)
		require.Equal(t, []string{"How much is premium?", "When is the live show?"}, cfg.Cache.Prewarm)
		require.Equal(t, "shh", cfg.Webhook.Secret)
		require.True(t, cfg.Analytics.Enabled())
	})

	t.Run("should reject malformed values", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "not-a-number")

		_, err := config.Load()
		require.Error(t, err)
	})
}

func TestParseDependenciesConfig(t *testing.T) {
	cfg := &config.Config{}
	deps := config.ParseDependenciesConfig(cfg)

	require.Same(t, &cfg.Server, deps.Server)
	require.Same(t, &cfg.Engine, deps.Engine)
	require.Same(t, &cfg.Corpus, deps.Corpus)
	require.Same(t, &cfg.Analytics, deps.Analytics)
}
