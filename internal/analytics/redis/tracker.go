// Package redis records answered questions and sessions in Redis counters.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/davidbz/faqvoice/internal/domain"
	"github.com/davidbz/faqvoice/internal/observability"
)

const (
	fieldTotal    = "total_questions"
	fieldMatched  = "matched"
	fieldSessions = "sessions"

	dailyTTL      = 48 * time.Hour
	dayKeyLayout  = "2006-01-02"
	defaultRecent = 20
)

// Tracker subscribes to engine events and serves aggregated counters.
type Tracker struct {
	client  *redis.Client
	prefix  string
	recent  int
	timeout time.Duration
	now     func() time.Time
}

// NewClient opens a Redis client and verifies the connection.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, errors.New("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return client, nil
}

// NewTracker creates a tracker on an existing client.
func NewTracker(client *redis.Client, cfg Config) (*Tracker, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	recent := cfg.RecentLimit
	if recent <= 0 {
		recent = defaultRecent
	}

	return &Tracker{
		client:  client,
		prefix:  cfg.KeyPrefix,
		recent:  recent,
		timeout: cfg.Timeout,
		now:     time.Now,
	}, nil
}

// Publish implements observability.Subscriber. Failures are logged and dropped.
func (t *Tracker) Publish(ctx context.Context, eventType string, data map[string]interface{}) {
	var err error

	switch eventType {
	case domain.EventSessionStarted:
		err = t.withTimeout(ctx, func(ctx context.Context) error {
			return t.client.HIncrBy(ctx, t.statsKey(), fieldSessions, 1).Err()
		})
	case domain.EventQuestionAnswered:
		err = t.withTimeout(ctx, func(ctx context.Context) error {
			return t.recordAnswer(ctx, data)
		})
	default:
		return
	}

	if err != nil {
		observability.FromContext(ctx).Warn("failed to record analytics",
			observability.String("event", eventType),
			observability.Error(err))
	}
}

func (t *Tracker) recordAnswer(ctx context.Context, data map[string]interface{}) error {
	entry := recentFromEvent(data, t.now())

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode recent question: %w", err)
	}

	pipe := t.client.TxPipeline()
	pipe.HIncrBy(ctx, t.statsKey(), fieldTotal, 1)
	if entry.Matched {
		pipe.HIncrBy(ctx, t.statsKey(), fieldMatched, 1)
	}
	if entry.Category != "" {
		pipe.HIncrBy(ctx, t.categoriesKey(), entry.Category, 1)
	}
	pipe.LPush(ctx, t.recentKey(), payload)
	pipe.LTrim(ctx, t.recentKey(), 0, int64(t.recent-1))

	daily := t.dailyKey(entry.AskedAt)
	pipe.Incr(ctx, daily)
	pipe.Expire(ctx, daily, dailyTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record answer: %w", err)
	}

	return nil
}

// Summary implements domain.AnalyticsReader.
func (t *Tracker) Summary(ctx context.Context) (*domain.AnalyticsSummary, error) {
	pipe := t.client.Pipeline()
	statsCmd := pipe.HGetAll(ctx, t.statsKey())
	categoriesCmd := pipe.HGetAll(ctx, t.categoriesKey())
	recentCmd := pipe.LRange(ctx, t.recentKey(), 0, int64(t.recent-1))
	todayCmd := pipe.Get(ctx, t.dailyKey(t.now()))

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to read analytics: %w", err)
	}

	today, err := todayCmd.Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to read daily counter: %w", err)
	}

	return buildSummary(statsCmd.Val(), categoriesCmd.Val(), recentCmd.Val(), today), nil
}

func (t *Tracker) withTimeout(ctx context.Context, fn func(context.Context) error) error {
	if t.timeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return fn(ctx)
}

func (t *Tracker) key(name string) string {
	if t.prefix == "" {
		return name
	}
	return t.prefix + ":" + name
}

func (t *Tracker) statsKey() string      { return t.key("stats") }
func (t *Tracker) categoriesKey() string { return t.key("categories") }
func (t *Tracker) recentKey() string     { return t.key("recent") }

func (t *Tracker) dailyKey(at time.Time) string {
	return t.key("daily:" + at.UTC().Format(dayKeyLayout))
}

func recentFromEvent(data map[string]interface{}, at time.Time) domain.RecentQuestion {
	entry := domain.RecentQuestion{AskedAt: at.UTC()}

	if v, ok := data["question"].(string); ok {
		entry.Question = v
	}
	if v, ok := data["matched"].(bool); ok {
		entry.Matched = v
	}
	if v, ok := data["category"].(string); ok {
		entry.Category = v
	}
	if v, ok := data["match_type"].(string); ok {
		entry.MatchType = v
	}

	return entry
}

func buildSummary(stats, categories map[string]string, recent []string, today int64) *domain.AnalyticsSummary {
	summary := &domain.AnalyticsSummary{
		TotalQuestions:  parseCount(stats[fieldTotal]),
		Matched:         parseCount(stats[fieldMatched]),
		Sessions:        parseCount(stats[fieldSessions]),
		Today:           today,
		Categories:      make(map[string]int64, len(categories)),
		RecentQuestions: make([]domain.RecentQuestion, 0, len(recent)),
	}

	if summary.TotalQuestions > 0 {
		summary.MatchRate = float64(summary.Matched) / float64(summary.TotalQuestions)
	}

	for name, count := range categories {
		summary.Categories[name] = parseCount(count)
	}

	for _, raw := range recent {
		var q domain.RecentQuestion
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			continue
		}
		summary.RecentQuestions = append(summary.RecentQuestions, q)
	}

	return summary
}

func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
