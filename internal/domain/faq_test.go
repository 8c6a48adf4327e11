package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/faqvoice/internal/domain"
)

func TestNewCorpus(t *testing.T) {
	t.Run("should flatten in category order with stable ordinals", func(t *testing.T) {
		corpus := newTestCorpus(t, true, map[string]string{"team": "b", "host": "a"})

		flat := corpus.Flatten()
		require.Equal(t, "How much does premium cost?", flat[0].Question)
		require.Equal(t, "Membership", flat[0].Category)
		require.Equal(t, "Where can I listen to the podcast?", flat[4].Question)
		require.Equal(t, "Events", flat[4].Category)

		entry, ok := corpus.Entry(3)
		require.True(t, ok)
		require.Equal(t, flat[2], entry)

		_, ok = corpus.Entry(0)
		require.False(t, ok)
		_, ok = corpus.Entry(6)
		require.False(t, ok)

		require.True(t, corpus.HasEmbeddings())
		require.Equal(t, 4, corpus.Dimension())
		require.Equal(t, []domain.KnowledgeNote{{Topic: "host", Text: "a"}, {Topic: "team", Text: "b"}}, corpus.KnowledgeBase())
	})

	t.Run("should not share storage with callers", func(t *testing.T) {
		categories := testCategories(true)
		corpus, err := domain.NewCorpus(categories, nil)
		require.NoError(t, err)

		categories[0].Questions[0].Answer = "changed"
		corpus.Flatten()[0].Answer = "changed too"

		entry, _ := corpus.Entry(1)
		require.Equal(t, "Premium costs $10 per month.", entry.Answer)
	})

	t.Run("should report coverage", func(t *testing.T) {
		categories := testCategories(true)
		categories[2].Questions[1].Embedding = nil

		corpus, err := domain.NewCorpus(categories, nil)
		require.NoError(t, err)

		stats := corpus.Stats()
		require.Equal(t, 3, stats.Categories)
		require.Equal(t, 5, stats.TotalQuestions)
		require.Equal(t, 4, stats.QuestionsWithEmbeddings)
		require.InDelta(t, 80.0, stats.EmbeddingCoverage, 1e-9)
	})

	t.Run("should report no embeddings", func(t *testing.T) {
		corpus := newTestCorpus(t, false, nil)
		require.False(t, corpus.HasEmbeddings())
		require.Zero(t, corpus.Dimension())
	})

	t.Run("should fail fast on mixed dimensions", func(t *testing.T) {
		categories := testCategories(true)
		categories[1].Questions[0].Embedding = []float64{1, 2}

		_, err := domain.NewCorpus(categories, nil)
		require.ErrorIs(t, err, domain.ErrVectorDimensionMismatch)
	})
}
