package corpus_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/faqvoice/internal/corpus"
	"github.com/davidbz/faqvoice/internal/domain"
)

type fakeEmbedder struct {
	mu      sync.Mutex
	batches [][]string
	size    int
	fail    bool
	short   string
}

func (f *fakeEmbedder) GenerateBatch(_ context.Context, texts []string) ([][]float64, error) {
	f.mu.Lock()
	f.batches = append(f.batches, texts)
	f.mu.Unlock()

	if f.fail {
		return nil, errors.New("rate limited")
	}

	out := make([][]float64, len(texts))
	for i, t := range texts {
		out[i] = []float64{float64(len(t)), 1}
		if t == f.short {
			out[i] = []float64{float64(len(t))}
		}
	}
	return out, nil
}

func (f *fakeEmbedder) BatchSize() int { return f.size }
func (f *fakeEmbedder) Dimension() int { return 2 }
func (f *fakeEmbedder) Model() string  { return "fake-embed" }

func newPlainFile() *corpus.File {
	return &corpus.File{
		Categories: []corpus.CategoryRecord{
			{Name: "A", Questions: []corpus.QuestionRecord{
				{Question: "one", Answer: "1"},
				{Question: "three", Answer: "3", Embedding: []float64{9, 9}},
			}},
			{Name: "B", Questions: []corpus.QuestionRecord{
				{Question: "fourth", Answer: "4"},
			}},
		},
	}
}

func TestEmbedFile(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("should embed every question in batches", func(t *testing.T) {
		file := newPlainFile()
		embedder := &fakeEmbedder{size: 2}

		n, err := corpus.EmbedFile(context.Background(), file, embedder, corpus.EmbedOptions{
			Concurrency: 2,
			Now:         func() time.Time { return at },
		})
		require.NoError(t, err)
		require.Equal(t, 3, n)
		require.Len(t, embedder.batches, 2)

		require.Equal(t, []float64{3, 1}, file.Categories[0].Questions[0].Embedding)
		require.Equal(t, []float64{5, 1}, file.Categories[0].Questions[1].Embedding)
		require.Equal(t, []float64{6, 1}, file.Categories[1].Questions[0].Embedding)

		require.Equal(t, &corpus.EmbeddingsMetadata{
			Model:          "fake-embed",
			Dimensions:     2,
			GeneratedAt:    at,
			TotalQuestions: 3,
		}, file.EmbeddingsMetadata)

		c, err := file.Corpus()
		require.NoError(t, err)
		require.True(t, c.HasEmbeddings())
	})

	t.Run("should skip questions already embedded", func(t *testing.T) {
		file := newPlainFile()
		embedder := &fakeEmbedder{size: 20}

		n, err := corpus.EmbedFile(context.Background(), file, embedder, corpus.EmbedOptions{SkipExisting: true})
		require.NoError(t, err)
		require.Equal(t, 2, n)
		require.Equal(t, [][]string{{"one", "fourth"}}, embedder.batches)
		require.Equal(t, []float64{9, 9}, file.Categories[0].Questions[1].Embedding)
		require.Equal(t, 3, file.EmbeddingsMetadata.TotalQuestions)
	})

	t.Run("should leave the file untouched on failure", func(t *testing.T) {
		file := newPlainFile()

		_, err := corpus.EmbedFile(context.Background(), file, &fakeEmbedder{size: 1, fail: true}, corpus.EmbedOptions{})
		require.ErrorContains(t, err, "rate limited")
		require.Nil(t, file.Categories[0].Questions[0].Embedding)
		require.Nil(t, file.EmbeddingsMetadata)
	})

	t.Run("should reject vectors of the wrong dimension", func(t *testing.T) {
		file := newPlainFile()
		embedder := &fakeEmbedder{size: 1, short: "fourth"}

		_, err := corpus.EmbedFile(context.Background(), file, embedder, corpus.EmbedOptions{Concurrency: 3})
		require.ErrorIs(t, err, domain.ErrVectorDimensionMismatch)
		require.ErrorContains(t, err, `"fourth" has 1 dimensions, want 2`)
		require.Nil(t, file.Categories[0].Questions[0].Embedding)
		require.Nil(t, file.EmbeddingsMetadata)
	})

	t.Run("should require inputs", func(t *testing.T) {
		_, err := corpus.EmbedFile(context.Background(), nil, &fakeEmbedder{}, corpus.EmbedOptions{})
		require.Error(t, err)
	})
}
