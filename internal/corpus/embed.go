package corpus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/davidbz/faqvoice/internal/domain"
	"github.com/davidbz/faqvoice/internal/observability"
)

// BatchEmbedder embeds several texts per request.
type BatchEmbedder interface {
	GenerateBatch(ctx context.Context, texts []string) ([][]float64, error)
	BatchSize() int
	Dimension() int
	Model() string
}

// EmbedOptions tunes EmbedFile.
type EmbedOptions struct {
	// Concurrency bounds in-flight batches. Values below 1 mean one.
	Concurrency int
	// SkipExisting keeps embeddings that already have the right dimension.
	SkipExisting bool
	Now          func() time.Time
}

type questionRef struct {
	category, question int
}

// EmbedFile fills in question embeddings in batches and stamps the metadata.
// The file is only modified when every batch succeeds.
func EmbedFile(ctx context.Context, file *File, embedder BatchEmbedder, opts EmbedOptions) (int, error) {
	if file == nil || embedder == nil {
		return 0, errors.New("file and embedder are required")
	}

	dim := embedder.Dimension()

	var refs []questionRef
	var texts []string
	total := 0
	for ci, c := range file.Categories {
		for qi, q := range c.Questions {
			total++
			if opts.SkipExisting && len(q.Embedding) == dim {
				continue
			}
			refs = append(refs, questionRef{category: ci, question: qi})
			texts = append(texts, q.Question)
		}
	}

	batchSize := embedder.BatchSize()
	if batchSize < 1 {
		batchSize = 1
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	logger := observability.FromContext(ctx)
	batches := (len(texts) + batchSize - 1) / batchSize
	vectors := make([][]float64, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for b := 0; b < batches; b++ {
		start := b * batchSize
		end := min(start+batchSize, len(texts))

		g.Go(func() error {
			logger.Info("embedding batch",
				observability.Int("batch", b+1),
				observability.Int("batches", batches),
				observability.Int("size", end-start))

			out, err := embedder.GenerateBatch(gctx, texts[start:end])
			if err != nil {
				return fmt.Errorf("batch %d: %w", b+1, err)
			}
			if len(out) != end-start {
				return fmt.Errorf("batch %d: expected %d embeddings, got %d", b+1, end-start, len(out))
			}
			for i, v := range out {
				if len(v) != dim {
					return fmt.Errorf("batch %d: %w: %q has %d dimensions, want %d",
						b+1, domain.ErrVectorDimensionMismatch, texts[start+i], len(v), dim)
				}
			}
			copy(vectors[start:end], out)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	for i, ref := range refs {
		file.Categories[ref.category].Questions[ref.question].Embedding = vectors[i]
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	file.EmbeddingsMetadata = &EmbeddingsMetadata{
		Model:          embedder.Model(),
		Dimensions:     dim,
		GeneratedAt:    now().UTC(),
		TotalQuestions: total,
	}

	return len(refs), nil
}
