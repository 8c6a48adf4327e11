package corpus_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/faqvoice/internal/corpus"
	"github.com/davidbz/faqvoice/internal/domain"
)

const jsonCorpus = `{
  "categories": [
    {
      "name": "Membership",
      "questions": [
        {"question": "How much does premium cost?", "answer": "$10 per month.", "embedding": [1, 0, 0]},
        {"question": "How do I cancel?", "answer": "From your account.", "embedding": [0, 1, 0]}
      ]
    },
    {
      "name": "Newsletter",
      "questions": [
        {"question": "Is the newsletter free?", "answer": "Yes."}
      ]
    }
  ],
  "knowledge_base": {"host": "The host is a neuroscientist."}
}`

const yamlCorpus = `categories:
  - name: Events
    questions:
      - question: When are the live events?
        answer: Announced in the newsletter.
knowledge_base:
  tour: Spring tour dates are on the site.
`

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSource_Resolve(t *testing.T) {
	dir := t.TempDir()
	base := writeTemp(t, dir, "faqs.json", jsonCorpus)
	enriched := filepath.Join(dir, "faqs_embedded.json")

	t.Run("should use the fallback when the primary is missing", func(t *testing.T) {
		path, primary, err := corpus.Source{PrimaryPath: enriched, FallbackPath: base}.Resolve()
		require.NoError(t, err)
		require.Equal(t, base, path)
		require.False(t, primary)
	})

	t.Run("should prefer the primary", func(t *testing.T) {
		writeTemp(t, dir, "faqs_embedded.json", jsonCorpus)

		path, primary, err := corpus.Source{PrimaryPath: enriched, FallbackPath: base}.Resolve()
		require.NoError(t, err)
		require.Equal(t, enriched, path)
		require.True(t, primary)
	})

	t.Run("should fail when nothing exists", func(t *testing.T) {
		_, _, err := corpus.Source{PrimaryPath: filepath.Join(dir, "a"), FallbackPath: filepath.Join(dir, "b")}.Resolve()
		require.Error(t, err)

		_, _, err = corpus.Source{}.Resolve()
		require.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("should load json with partial embeddings", func(t *testing.T) {
		path := writeTemp(t, dir, "faqs.json", jsonCorpus)

		c, err := corpus.Load(path, 3)
		require.NoError(t, err)
		require.Equal(t, 3, c.Len())
		require.Equal(t, 3, c.Dimension())

		entry, ok := c.Entry(3)
		require.True(t, ok)
		require.Equal(t, "Newsletter", entry.Category)
		require.False(t, entry.HasEmbedding())
		require.Len(t, c.KnowledgeBase(), 1)
	})

	t.Run("should load yaml", func(t *testing.T) {
		path := writeTemp(t, dir, "faqs.yaml", yamlCorpus)

		c, err := corpus.Load(path, 512)
		require.NoError(t, err)
		require.Equal(t, 1, c.Len())
		require.False(t, c.HasEmbeddings())
		require.Equal(t, "tour", c.KnowledgeBase()[0].Topic)
	})

	t.Run("should fail fast on a dimension mismatch", func(t *testing.T) {
		path := writeTemp(t, dir, "faqs.json", jsonCorpus)

		_, err := corpus.Load(path, 512)
		require.ErrorIs(t, err, domain.ErrVectorDimensionMismatch)
	})

	t.Run("should reject files without categories", func(t *testing.T) {
		path := writeTemp(t, dir, "empty.json", `{"categories": []}`)

		_, err := corpus.Load(path, 0)
		require.Error(t, err)
	})

	t.Run("should reject invalid json", func(t *testing.T) {
		path := writeTemp(t, dir, "broken.json", `{"categories": [`)

		_, err := corpus.Load(path, 0)
		require.Error(t, err)
	})
}

func TestWriteFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"out.json", "out.yaml"} {
		t.Run(name, func(t *testing.T) {
			in, err := corpus.ReadFile(writeTemp(t, dir, "in.json", jsonCorpus))
			require.NoError(t, err)

			in.EmbeddingsMetadata = &corpus.EmbeddingsMetadata{
				Model:          "text-embedding-3-small",
				Dimensions:     3,
				GeneratedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
				TotalQuestions: 3,
			}

			path := filepath.Join(dir, name)
			require.NoError(t, corpus.WriteFile(path, in))

			out, err := corpus.ReadFile(path)
			require.NoError(t, err)
			require.Equal(t, in, out)
		})
	}
}

func TestStore_Reload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := writeTemp(t, dir, "faqs.json", jsonCorpus)

	store, err := corpus.NewStore(corpus.Source{PrimaryPath: path}, 3)
	require.NoError(t, err)
	require.Equal(t, path, store.Path())
	require.True(t, store.Primary())
	require.Equal(t, 3, store.Current().Len())

	writeTemp(t, dir, "faqs.json", `{"categories": [{"name": "Only", "questions": [{"question": "q", "answer": "a"}]}]}`)
	require.NoError(t, store.Reload(ctx))
	require.Equal(t, 1, store.Current().Len())

	previous := store.Current()
	writeTemp(t, dir, "faqs.json", `not json`)
	require.Error(t, store.Reload(ctx))
	require.Same(t, previous, store.Current())
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	path := writeTemp(t, dir, "faqs.json", jsonCorpus)

	store, err := corpus.NewStore(corpus.Source{PrimaryPath: path}, 0)
	require.NoError(t, err)

	watcher, err := corpus.NewWatcher(store)
	require.NoError(t, err)
	defer watcher.Close()

	go watcher.Run(ctx)

	writeTemp(t, dir, "faqs.json", `{"categories": [{"name": "Only", "questions": [{"question": "q", "answer": "a"}]}]}`)

	select {
	case <-watcher.Reloads():
	case <-time.After(5 * time.Second):
		t.Fatal("corpus was not reloaded")
	}
	require.Equal(t, 1, store.Current().Len())
}
