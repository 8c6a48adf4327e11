package corpus

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/davidbz/faqvoice/internal/domain"
	"github.com/davidbz/faqvoice/internal/observability"
)

// Store serves the current corpus snapshot and swaps it on reload.
type Store struct {
	path        string
	primary     bool
	expectedDim int
	current     atomic.Pointer[domain.Corpus]
}

// NewStore resolves the source once and loads it.
func NewStore(source Source, expectedDim int) (*Store, error) {
	path, primary, err := source.Resolve()
	if err != nil {
		return nil, err
	}

	corpus, err := Load(path, expectedDim)
	if err != nil {
		return nil, err
	}

	s := &Store{
		path:        path,
		primary:     primary,
		expectedDim: expectedDim,
	}
	s.current.Store(corpus)

	return s, nil
}

// Current returns the active snapshot.
func (s *Store) Current() *domain.Corpus {
	return s.current.Load()
}

// Path returns the resolved corpus file.
func (s *Store) Path() string {
	return s.path
}

// Primary reports whether the enriched file was loaded.
func (s *Store) Primary() bool {
	return s.primary
}

// Reload re-reads the resolved file. On failure the previous snapshot stays.
func (s *Store) Reload(ctx context.Context) error {
	corpus, err := Load(s.path, s.expectedDim)
	if err != nil {
		return fmt.Errorf("corpus reload failed: %w", err)
	}

	s.current.Store(corpus)

	stats := corpus.Stats()
	observability.FromContext(ctx).Info("corpus reloaded",
		observability.String("path", s.path),
		observability.Int("questions", stats.TotalQuestions),
		observability.Float64("embedding_coverage", stats.EmbeddingCoverage))

	return nil
}
