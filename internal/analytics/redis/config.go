package redis

import "time"

// Config holds the Redis connection used for analytics. An empty Addr
// disables the tracker.
type Config struct {
	Addr        string        `env:"REDIS_ADDR"`
	Password    string        `env:"REDIS_PASSWORD"`
	DB          int           `env:"REDIS_DB"               envDefault:"0"`
	KeyPrefix   string        `env:"ANALYTICS_KEY_PREFIX"   envDefault:"faqvoice"`
	RecentLimit int           `env:"ANALYTICS_RECENT_LIMIT" envDefault:"20"`
	Timeout     time.Duration `env:"ANALYTICS_TIMEOUT"      envDefault:"2s"`
}

// Enabled reports whether a Redis address is configured.
func (c Config) Enabled() bool {
	return c.Addr != ""
}
