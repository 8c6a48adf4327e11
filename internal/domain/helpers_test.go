package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/faqvoice/internal/domain"
)

type staticCorpus struct {
	corpus *domain.Corpus
}

func (s staticCorpus) Current() *domain.Corpus {
	return s.corpus
}

func testCategories(withEmbeddings bool) []domain.Category {
	emb := func(v ...float64) []float64 {
		if !withEmbeddings {
			return nil
		}
		return v
	}

	return []domain.Category{
		{
			Name: "Membership",
			Questions: []domain.FAQEntry{
				{
					Question:  "How much does premium cost?",
					Answer:    "Premium costs $10 per month.",
					Embedding: emb(1, 0, 0, 0),
				},
				{
					Question:  "How do I cancel my premium membership?",
					Answer:    "You can cancel anytime from your account settings.",
					Embedding: emb(0, 1, 0, 0),
				},
			},
		},
		{
			Name: "Newsletter",
			Questions: []domain.FAQEntry{
				{
					Question:  "Is the newsletter free?",
					Answer:    "Yes, the newsletter is free. Sign up at example.com/newsletter.",
					Embedding: emb(0, 0, 1, 0),
				},
			},
		},
		{
			Name: "Events",
			Questions: []domain.FAQEntry{
				{
					Question:  "When are the live events?",
					Answer:    "Live events are announced in the newsletter.",
					Embedding: emb(0, 0, 0, 1),
				},
				{
					Question:  "Where can I listen to the podcast?",
					Answer:    "On every major podcast app.",
					Embedding: emb(1, 1, 0, 0),
				},
			},
		},
	}
}

func newTestCorpus(t *testing.T, withEmbeddings bool, knowledge map[string]string) *domain.Corpus {
	t.Helper()

	corpus, err := domain.NewCorpus(testCategories(withEmbeddings), knowledge)
	require.NoError(t, err)
	require.Equal(t, 5, corpus.Len())

	return corpus
}

func testEngineConfig() domain.EngineConfig {
	return domain.EngineConfig{
		Strategy:            domain.StrategyTiered,
		SimilarityThreshold: 0.75,
		KeywordThreshold:    0.3,
		AIEnabled:           true,
		Model:               "test-model",
		RephraseAnswers:     true,
		HistoryMessages:     10,
		BrandName:           "Test Cast",
		Topics:              "episodes and membership",
	}
}

func chunkStream(deltas ...string) <-chan domain.StreamChunk {
	ch := make(chan domain.StreamChunk, len(deltas)+1)
	for _, d := range deltas {
		ch <- domain.StreamChunk{Delta: d}
	}
	ch <- domain.StreamChunk{Done: true}
	close(ch)
	return ch
}
