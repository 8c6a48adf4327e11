package domain

import (
	"container/list"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/davidbz/faqvoice/internal/observability"
)

// CacheConfig configures the question vector cache.
type CacheConfig struct {
	MaxSize int           `env:"EMBEDDING_CACHE_SIZE" envDefault:"50"`
	TTL     time.Duration `env:"EMBEDDING_CACHE_TTL"  envDefault:"1h"`
	// Prewarm lists questions embedded at startup.
	Prewarm []string `env:"EMBEDDING_CACHE_PREWARM" envSeparator:"|"`
}

// CacheStats reports cache usage.
type CacheStats struct {
	Size    int           `json:"size"`
	MaxSize int           `json:"max_size"`
	TTL     time.Duration `json:"ttl"`
	Hits    int64         `json:"hits"`
	Misses  int64         `json:"misses"`
}

// cacheEntry never leaves the cache.
type cacheEntry struct {
	key        string
	vector     []float64
	insertedAt time.Time
}

// VectorCacheOption customizes a VectorCache.
type VectorCacheOption func(*VectorCache)

// WithClock replaces the time source.
func WithClock(now func() time.Time) VectorCacheOption {
	return func(c *VectorCache) {
		c.now = now
	}
}

// VectorCache memoizes question embeddings. Eviction is by insertion order:
// when a new key would exceed MaxSize, the oldest inserted entry is dropped,
// regardless of how recently it was read. Expiry is checked on read.
type VectorCache struct {
	embeddingGen EmbeddingGenerator
	maxSize      int
	ttl          time.Duration
	now          func() time.Time

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List
	hits    int64
	misses  int64
}

// NewVectorCache creates a new vector cache.
func NewVectorCache(embeddingGen EmbeddingGenerator, cfg CacheConfig, opts ...VectorCacheOption) *VectorCache {
	c := &VectorCache{
		embeddingGen: embeddingGen,
		maxSize:      cfg.MaxSize,
		ttl:          cfg.TTL,
		now:          time.Now,
		entries:      make(map[string]*list.Element),
		order:        list.New(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.maxSize <= 0 {
		c.maxSize = 1
	}

	return c
}

// NormalizeQuestion returns the cache key for a question.
func NormalizeQuestion(question string) string {
	return strings.ToLower(strings.TrimSpace(question))
}

// Get returns the embedding for a question, deriving it on a miss.
func (c *VectorCache) Get(ctx context.Context, question string) ([]float64, error) {
	logger := observability.FromContext(ctx)

	key := NormalizeQuestion(question)
	if key == "" {
		return nil, fmt.Errorf("%w: question cannot be empty", ErrEmbeddingUnavailable)
	}

	if vector, ok := c.lookup(key); ok {
		logger.Debug("vector cache hit",
			observability.String("question", truncate(key, logPreviewLength)))
		return vector, nil
	}

	logger.Debug("vector cache miss, generating embedding",
		observability.String("question", truncate(key, logPreviewLength)))

	if c.embeddingGen == nil {
		return nil, fmt.Errorf("%w: no embedding generator configured", ErrEmbeddingUnavailable)
	}

	vector, err := c.embeddingGen.Generate(ctx, strings.TrimSpace(question))
	if err != nil {
		logger.Warn("failed to generate embedding", observability.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
	}

	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty embedding returned", ErrEmbeddingUnavailable)
	}

	c.store(key, vector)

	return vector, nil
}

// Prewarm derives embeddings for common questions. Failures are logged and
// skipped.
func (c *VectorCache) Prewarm(ctx context.Context, questions []string) int {
	logger := observability.FromContext(ctx)

	warmed := 0
	for _, q := range questions {
		if ctx.Err() != nil {
			break
		}

		if _, err := c.Get(ctx, q); err != nil {
			logger.Warn("failed to prewarm question",
				observability.String("question", q),
				observability.Error(err))
			continue
		}
		warmed++
	}

	logger.Info("vector cache prewarmed",
		observability.Int("requested", len(questions)),
		observability.Int("warmed", warmed))

	return warmed
}

// Stats returns cache performance metrics.
func (c *VectorCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Size:    c.order.Len(),
		MaxSize: c.maxSize,
		TTL:     c.ttl,
		Hits:    c.hits,
		Misses:  c.misses,
	}
}

// Len returns the number of stored entries, expired ones included.
func (c *VectorCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}

func (c *VectorCache) lookup(key string) ([]float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}

	entry, _ := elem.Value.(*cacheEntry)
	if c.ttl > 0 && c.now().Sub(entry.insertedAt) >= c.ttl {
		c.misses++
		return nil, false
	}

	c.hits++
	return entry.vector, true
}

func (c *VectorCache) store(key string, vector []float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A re-derived key is a fresh insertion.
	if elem, ok := c.entries[key]; ok {
		c.order.Remove(elem)
		delete(c.entries, key)
	}

	for c.order.Len() >= c.maxSize {
		oldest := c.order.Front()
		if oldest == nil {
			break
		}
		evicted, _ := oldest.Value.(*cacheEntry)
		c.order.Remove(oldest)
		delete(c.entries, evicted.key)
	}

	c.entries[key] = c.order.PushBack(&cacheEntry{
		key:        key,
		vector:     vector,
		insertedAt: c.now(),
	})
}

const logPreviewLength = 50

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
