package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/faqvoice/internal/domain"
)

func TestTokenize(t *testing.T) {
	require.Equal(t,
		[]string{"much", "premium", "cost"},
		domain.Tokenize("How much does PREMIUM cost? How much!"))
	require.Empty(t, domain.Tokenize("is it a?"))
}

func TestKeywordMatcher_Match(t *testing.T) {
	matcher := domain.NewKeywordMatcher(0.3)
	entries := newTestCorpus(t, false, nil).Flatten()

	t.Run("should pick the entry with the largest overlap", func(t *testing.T) {
		match := matcher.Match("Can I cancel premium?", entries)
		require.NotNil(t, match)
		require.Equal(t, "How do I cancel my premium membership?", match.Question())
		require.Equal(t, 2, match.Ordinal)
		require.Equal(t, domain.MatchTypeKeyword, match.Type)
		require.InDelta(t, 2.0/3.0, match.Score, 1e-9)
	})

	t.Run("should return nil below the threshold", func(t *testing.T) {
		require.Nil(t, matcher.Match("What's the weather on Mars?", entries))
	})

	t.Run("should return nil for stop words only", func(t *testing.T) {
		require.Nil(t, matcher.Match("what is it?", entries))
	})

	t.Run("should be deterministic", func(t *testing.T) {
		first := matcher.Match("newsletter free", entries)
		second := matcher.Match("newsletter free", entries)
		require.Equal(t, first, second)
		require.Equal(t, 3, first.Ordinal)
	})

	t.Run("should keep the first entry on ties", func(t *testing.T) {
		tied := []domain.FAQEntry{
			{Question: "premium price"},
			{Question: "premium price"},
		}
		match := matcher.Match("premium price", tied)
		require.Equal(t, 1, match.Ordinal)
	})
}
