package anthropic

// Config contains Anthropic provider configuration.
//   - Model is used whenever the request names a model this provider does not serve.
//   - Timeout is in seconds.
type Config struct {
	APIKey     string `env:"ANTHROPIC_API_KEY"`
	BaseURL    string `env:"ANTHROPIC_BASE_URL"`
	Model      string `env:"ANTHROPIC_MODEL"       envDefault:"claude-3-5-haiku-latest"`
	Timeout    int    `env:"ANTHROPIC_TIMEOUT"     envDefault:"30"`
	MaxRetries int    `env:"ANTHROPIC_MAX_RETRIES" envDefault:"2"`
}
