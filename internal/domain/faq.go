package domain

import (
	"fmt"
	"sort"
)

// KnowledgeBaseCategory is the category reported for answers synthesized from
// free-text knowledge base notes rather than a corpus entry.
const KnowledgeBaseCategory = "Knowledge Base"

// FAQEntry is a single question/answer pair of the corpus.
type FAQEntry struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Category  string    `json:"category"`
	Embedding []float64 `json:"-"`
}

// HasEmbedding reports whether the entry carries a precomputed vector.
func (e FAQEntry) HasEmbedding() bool {
	return len(e.Embedding) > 0
}

// Category is an ordered group of entries.
type Category struct {
	Name      string
	Questions []FAQEntry
}

// KnowledgeNote is one free-text background topic.
type KnowledgeNote struct {
	Topic string
	Text  string
}

// CorpusStats summarizes corpus coverage.
type CorpusStats struct {
	Categories              int     `json:"categories"`
	TotalQuestions          int     `json:"total_questions"`
	QuestionsWithEmbeddings int     `json:"questions_with_embeddings"`
	EmbeddingCoverage       float64 `json:"embedding_coverage"`
	KnowledgeTopics         int     `json:"knowledge_topics"`
	Dimension               int     `json:"dimension"`
}

// Corpus is an immutable snapshot of the FAQ corpus.
type Corpus struct {
	categories []Category
	flat       []FAQEntry
	knowledge  []KnowledgeNote
	dimension  int
}

// NewCorpus builds a corpus snapshot. Entries are copied and stamped with their
// category name. All embeddings present must share one dimension.
func NewCorpus(categories []Category, knowledge map[string]string) (*Corpus, error) {
	c := &Corpus{
		categories: make([]Category, 0, len(categories)),
	}

	for _, cat := range categories {
		copied := Category{
			Name:      cat.Name,
			Questions: make([]FAQEntry, 0, len(cat.Questions)),
		}

		for _, q := range cat.Questions {
			entry := FAQEntry{
				Question: q.Question,
				Answer:   q.Answer,
				Category: cat.Name,
			}

			if len(q.Embedding) > 0 {
				if c.dimension == 0 {
					c.dimension = len(q.Embedding)
				}
				if len(q.Embedding) != c.dimension {
					return nil, fmt.Errorf("%w: entry %q has %d dimensions, corpus has %d",
						ErrVectorDimensionMismatch, q.Question, len(q.Embedding), c.dimension)
				}
				entry.Embedding = append([]float64(nil), q.Embedding...)
			}

			copied.Questions = append(copied.Questions, entry)
			c.flat = append(c.flat, entry)
		}

		c.categories = append(c.categories, copied)
	}

	topics := make([]string, 0, len(knowledge))
	for topic := range knowledge {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	for _, topic := range topics {
		c.knowledge = append(c.knowledge, KnowledgeNote{Topic: topic, Text: knowledge[topic]})
	}

	return c, nil
}

// Categories returns the ordered categories.
func (c *Corpus) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = Category{
			Name:      cat.Name,
			Questions: append([]FAQEntry(nil), cat.Questions...),
		}
	}
	return out
}

// Flatten returns every entry in stable ordinal order. Entry n (1-based) is at
// index n-1.
func (c *Corpus) Flatten() []FAQEntry {
	return append([]FAQEntry(nil), c.flat...)
}

// Len returns the number of entries.
func (c *Corpus) Len() int {
	return len(c.flat)
}

// Entry returns the entry with the given 1-based ordinal.
func (c *Corpus) Entry(ordinal int) (FAQEntry, bool) {
	if ordinal < 1 || ordinal > len(c.flat) {
		return FAQEntry{}, false
	}
	return c.flat[ordinal-1], true
}

// HasEmbeddings reports whether any entry carries a vector.
func (c *Corpus) HasEmbeddings() bool {
	return c.dimension > 0
}

// Dimension returns the embedding dimension, or 0 without embeddings.
func (c *Corpus) Dimension() int {
	return c.dimension
}

// KnowledgeBase returns the background notes sorted by topic.
func (c *Corpus) KnowledgeBase() []KnowledgeNote {
	return append([]KnowledgeNote(nil), c.knowledge...)
}

// Stats reports corpus coverage.
func (c *Corpus) Stats() CorpusStats {
	stats := CorpusStats{
		Categories:      len(c.categories),
		TotalQuestions:  len(c.flat),
		KnowledgeTopics: len(c.knowledge),
		Dimension:       c.dimension,
	}

	for _, e := range c.flat {
		if e.HasEmbedding() {
			stats.QuestionsWithEmbeddings++
		}
	}

	if stats.TotalQuestions > 0 {
		stats.EmbeddingCoverage = float64(stats.QuestionsWithEmbeddings) / float64(stats.TotalQuestions) * 100
	}

	return stats
}
