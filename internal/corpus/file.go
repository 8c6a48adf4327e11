package corpus

import (
	"time"

	"github.com/davidbz/faqvoice/internal/domain"
)

// File is the on-disk corpus document.
type File struct {
	EmbeddingsMetadata *EmbeddingsMetadata `json:"embeddings_metadata,omitempty" yaml:"embeddings_metadata,omitempty"`
	Categories         []CategoryRecord    `json:"categories"                    yaml:"categories"`
	KnowledgeBase      map[string]string   `json:"knowledge_base,omitempty"      yaml:"knowledge_base,omitempty"`
}

// EmbeddingsMetadata describes how the embeddings in a file were produced.
type EmbeddingsMetadata struct {
	Model          string    `json:"model"           yaml:"model"`
	Dimensions     int       `json:"dimensions"      yaml:"dimensions"`
	GeneratedAt    time.Time `json:"generated_at"    yaml:"generated_at"`
	TotalQuestions int       `json:"total_questions" yaml:"total_questions"`
}

// CategoryRecord is one category of the file.
type CategoryRecord struct {
	Name      string           `json:"name"      yaml:"name"`
	Questions []QuestionRecord `json:"questions" yaml:"questions"`
}

// QuestionRecord is one question of the file.
type QuestionRecord struct {
	Question  string    `json:"question"            yaml:"question"`
	Answer    string    `json:"answer"              yaml:"answer"`
	Embedding []float64 `json:"embedding,omitempty" yaml:"embedding,omitempty,flow"`
}

// Corpus converts the file into an immutable corpus snapshot.
func (f *File) Corpus() (*domain.Corpus, error) {
	categories := make([]domain.Category, 0, len(f.Categories))
	for _, c := range f.Categories {
		cat := domain.Category{
			Name:      c.Name,
			Questions: make([]domain.FAQEntry, 0, len(c.Questions)),
		}
		for _, q := range c.Questions {
			cat.Questions = append(cat.Questions, domain.FAQEntry{
				Question:  q.Question,
				Answer:    q.Answer,
				Embedding: q.Embedding,
			})
		}
		categories = append(categories, cat)
	}

	return domain.NewCorpus(categories, f.KnowledgeBase)
}

// Questions returns every question in flatten order.
func (f *File) Questions() []string {
	var out []string
	for _, c := range f.Categories {
		for _, q := range c.Questions {
			out = append(out, q.Question)
		}
	}
	return out
}
