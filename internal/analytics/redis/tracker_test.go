package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/faqvoice/internal/analytics/redis"
	"github.com/davidbz/faqvoice/internal/domain"
)

func TestConfig_Enabled(t *testing.T) {
	require.False(t, redis.Config{}.Enabled())
	require.True(t, redis.Config{Addr: "localhost:6379"}.Enabled())
}

func TestNewClient_RequiresAddr(t *testing.T) {
	client, err := redis.NewClient(context.Background(), redis.Config{})
	require.ErrorContains(t, err, "redis address is required")
	require.Nil(t, client)
}

func TestNewTracker_NilClient(t *testing.T) {
	tracker, err := redis.NewTracker(nil, redis.Config{})
	require.ErrorContains(t, err, "redis client cannot be nil")
	require.Nil(t, tracker)
}

// Runs against a real server when REDIS_TEST_ADDR is set.
func TestTracker_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	ctx := context.Background()
	cfg := redis.Config{
		Addr:      addr,
		KeyPrefix: "faqvoice-test-" + time.Now().Format("150405.000000"),
		Timeout:   time.Second,
	}

	client, err := redis.NewClient(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, cfg.KeyPrefix+":*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		_ = client.Close()
	})

	tracker, err := redis.NewTracker(client, cfg)
	require.NoError(t, err)

	tracker.Publish(ctx, domain.EventSessionStarted, map[string]interface{}{"conversation_key": "c1"})
	tracker.Publish(ctx, domain.EventQuestionAnswered, map[string]interface{}{
		"question": "How much is premium?",
		"matched":  true,
		"category": "Membership",
	})
	tracker.Publish(ctx, domain.EventQuestionAnswered, map[string]interface{}{
		"question": "What is the meaning of life?",
		"matched":  false,
	})
	tracker.Publish(ctx, domain.EventInterruptionApplied, nil)

	summary, err := tracker.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), summary.TotalQuestions)
	require.Equal(t, int64(1), summary.Matched)
	require.Equal(t, int64(1), summary.Sessions)
	require.Equal(t, int64(2), summary.Today)
	require.InDelta(t, 0.5, summary.MatchRate, 1e-9)
	require.Equal(t, map[string]int64{"Membership": 1}, summary.Categories)
	require.Len(t, summary.RecentQuestions, 2)
	require.Equal(t, "What is the meaning of life?", summary.RecentQuestions[0].Question)
}
