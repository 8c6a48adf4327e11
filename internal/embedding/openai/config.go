package openai

// Config holds configuration for OpenAI embedding generator.
type Config struct {
	APIKey     string `env:"OPENAI_API_KEY"`
	BaseURL    string `env:"OPENAI_BASE_URL"`
	Model      string `env:"EMBEDDING_MODEL"      envDefault:"text-embedding-3-small"`
	Dimensions int    `env:"EMBEDDING_DIMENSIONS" envDefault:"512"`
	BatchSize  int    `env:"EMBEDDING_BATCH_SIZE" envDefault:"20"`
	MaxRetries int    `env:"OPENAI_MAX_RETRIES"   envDefault:"3"`
}
