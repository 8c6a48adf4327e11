package domain

import (
	"context"
	"fmt"

	"github.com/davidbz/faqvoice/internal/observability"
)

const (
	matcherTemperature = 0.1
	matcherMaxTokens   = 300

	// PartialFollowUp is appended to medium-confidence answers.
	PartialFollowUp = "Was that what you were looking for?"
)

// AIMatcher asks a completion model to pick the corpus entry that answers a
// question.
type AIMatcher struct {
	provider Provider
	model    string
	persona  Persona
}

// NewAIMatcher creates a new AI matcher.
func NewAIMatcher(provider Provider, model string, persona Persona) *AIMatcher {
	return &AIMatcher{
		provider: provider,
		model:    model,
		persona:  persona,
	}
}

// Match returns the model's choice. It returns ErrNoMatch when the model
// answers none, ErrCompletionUnavailable when the call fails and
// ErrMalformedModelResponse when the reply is off-grammar or out of range.
func (m *AIMatcher) Match(ctx context.Context, question string, corpus *Corpus, history []Message) (*Match, error) {
	if m.provider == nil {
		return nil, fmt.Errorf("%w: no provider configured", ErrCompletionUnavailable)
	}
	if corpus == nil || corpus.Len() == 0 {
		return nil, ErrNoMatch
	}

	logger := observability.FromContext(ctx)

	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: RoleSystem, Content: m.persona.matcherSystemPrompt()})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: RoleUser, Content: matcherUserPrompt(corpus, question)})

	resp, err := m.provider.Complete(ctx, &CompletionRequest{
		Model:       m.model,
		Messages:    messages,
		Temperature: matcherTemperature,
		MaxTokens:   matcherMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompletionUnavailable, err)
	}

	verdict := ParseVerdict(resp.Content)
	logger.Info("ai matcher verdict",
		observability.String("verdict", verdict.Kind.String()),
		observability.Int("ordinal", verdict.Ordinal))

	return m.resolve(verdict, corpus, resp.Content)
}

func (m *AIMatcher) resolve(verdict Verdict, corpus *Corpus, raw string) (*Match, error) {
	switch verdict.Kind {
	case VerdictNone:
		return nil, ErrNoMatch

	case VerdictMatch, VerdictPartial:
		entry, ok := corpus.Entry(verdict.Ordinal)
		if !ok {
			return nil, fmt.Errorf("%w: ordinal %d outside [1, %d]",
				ErrMalformedModelResponse, verdict.Ordinal, corpus.Len())
		}

		match := &Match{
			Entry:      &entry,
			Ordinal:    verdict.Ordinal,
			Category:   entry.Category,
			Answer:     entry.Answer,
			Confidence: ConfidenceHigh,
			Type:       MatchTypeAI,
		}
		if verdict.Natural != "" {
			match.Answer = verdict.Natural
			match.Natural = true
		}
		if verdict.Kind == VerdictPartial {
			match.Confidence = ConfidenceMedium
			match.FollowUp = PartialFollowUp
		}
		match.Score = match.Confidence.Nominal()

		return match, nil

	case VerdictContext:
		if len(corpus.KnowledgeBase()) == 0 {
			return nil, fmt.Errorf("%w: context answer without background notes", ErrMalformedModelResponse)
		}
		return &Match{
			Category:   KnowledgeBaseCategory,
			Answer:     verdict.Natural,
			Score:      ConfidenceHigh.Nominal(),
			Confidence: ConfidenceHigh,
			Type:       MatchTypeAI,
			Natural:    true,
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrMalformedModelResponse, truncate(raw, logPreviewLength))
	}
}
