package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	analytics "github.com/davidbz/faqvoice/internal/analytics/redis"
	"github.com/davidbz/faqvoice/internal/corpus"
	"github.com/davidbz/faqvoice/internal/domain"
	embedding "github.com/davidbz/faqvoice/internal/embedding/openai"
	"github.com/davidbz/faqvoice/internal/observability"
	"github.com/davidbz/faqvoice/internal/provider/anthropic"
	"github.com/davidbz/faqvoice/internal/provider/openai"
)

// Config represents the assistant configuration.
type Config struct {
	Server       ServerConfig
	CORS         CORSConfig
	Webhook      WebhookConfig
	LLM          LLMConfig
	Log          observability.LoggerConfig
	OpenAI       openai.Config
	Anthropic    anthropic.Config
	Embedding    embedding.Config
	Engine       domain.EngineConfig
	Cache        domain.CacheConfig
	Conversation domain.ConversationConfig
	Corpus       corpus.Config
	Analytics    analytics.Config
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"60"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization,Layercode-Signature"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// WebhookConfig controls voice webhook signature checks. An empty secret
// disables verification.
type WebhookConfig struct {
	Secret    string        `env:"WEBHOOK_SECRET"`
	Tolerance time.Duration `env:"WEBHOOK_TOLERANCE" envDefault:"5m"`
}

// LLMConfig selects the completion provider. Empty picks the first configured.
type LLMConfig struct {
	Provider string `env:"LLM_PROVIDER"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out

	Server       *ServerConfig
	CORS         *CORSConfig
	Webhook      *WebhookConfig
	LLM          *LLMConfig
	Log          *observability.LoggerConfig
	OpenAI       *openai.Config
	Anthropic    *anthropic.Config
	Embedding    *embedding.Config
	Engine       *domain.EngineConfig
	Cache        *domain.CacheConfig
	Conversation *domain.ConversationConfig
	Corpus       *corpus.Config
	Analytics    *analytics.Config
}

// Load loads environment files and parses configuration.
func Load() (*Config, error) {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		Out:          dig.Out{},
		Server:       &cfg.Server,
		CORS:         &cfg.CORS,
		Webhook:      &cfg.Webhook,
		LLM:          &cfg.LLM,
		Log:          &cfg.Log,
		OpenAI:       &cfg.OpenAI,
		Anthropic:    &cfg.Anthropic,
		Embedding:    &cfg.Embedding,
		Engine:       &cfg.Engine,
		Cache:        &cfg.Cache,
		Conversation: &cfg.Conversation,
		Corpus:       &cfg.Corpus,
		Analytics:    &cfg.Analytics,
	}
}
