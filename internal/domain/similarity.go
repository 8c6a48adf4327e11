package domain

import (
	"context"
	"fmt"
	"math"

	"github.com/davidbz/faqvoice/internal/observability"
)

// CosineSimilarity returns dot(a,b) / (|a|*|b|), or 0 when either norm is 0.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrVectorDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// SimilarityMatcher finds the closest corpus entry by cosine similarity.
type SimilarityMatcher struct {
	threshold float64
}

// NewSimilarityMatcher creates a new similarity matcher.
func NewSimilarityMatcher(threshold float64) *SimilarityMatcher {
	return &SimilarityMatcher{threshold: threshold}
}

// Threshold returns the minimum accepted similarity.
func (m *SimilarityMatcher) Threshold() float64 {
	return m.threshold
}

// Match returns the entry with the strictly highest similarity at or above the
// threshold, or nil. Ties keep the earlier entry.
func (m *SimilarityMatcher) Match(ctx context.Context, query []float64, entries []FAQEntry) (*Match, error) {
	logger := observability.FromContext(ctx)

	bestIdx := -1
	bestSim := math.Inf(-1)
	skipped := 0

	for i := range entries {
		if !entries[i].HasEmbedding() {
			skipped++
			logger.Warn("missing embedding for question",
				observability.String("question", entries[i].Question))
			continue
		}

		sim, err := CosineSimilarity(query, entries[i].Embedding)
		if err != nil {
			return nil, fmt.Errorf("failed to compare with %q: %w", entries[i].Question, err)
		}

		if sim >= m.threshold && sim > bestSim {
			bestSim = sim
			bestIdx = i
		}
	}

	if bestIdx < 0 {
		logger.Info("no embedding match above threshold",
			observability.Float64("threshold", m.threshold),
			observability.Int("skipped", skipped))
		return nil, nil
	}

	entry := entries[bestIdx]
	logger.Info("embedding match found",
		observability.Float64("similarity", bestSim),
		observability.String("question", entry.Question))

	return &Match{
		Entry:      &entry,
		Ordinal:    bestIdx + 1,
		Category:   entry.Category,
		Answer:     entry.Answer,
		Score:      bestSim,
		Confidence: LevelForScore(bestSim),
		Type:       MatchTypeEmbedding,
	}, nil
}
