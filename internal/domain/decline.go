package domain

import (
	"context"
	"strings"

	"github.com/davidbz/faqvoice/internal/observability"
)

const (
	declineTemperature = 0.4
	declineMaxTokens   = 100
)

// DeclineGenerator produces the spoken "no answer" response.
type DeclineGenerator struct {
	provider Provider
	model    string
	persona  Persona
}

// NewDeclineGenerator creates a new decline generator.
func NewDeclineGenerator(provider Provider, model string, persona Persona) *DeclineGenerator {
	return &DeclineGenerator{
		provider: provider,
		model:    model,
		persona:  persona,
	}
}

// Static returns the fixed decline.
func (d *DeclineGenerator) Static() *MatchResult {
	return Declined(d.persona.StaticDecline(), false)
}

// Generate returns a decline that acknowledges the question. Any failure
// yields the static decline.
func (d *DeclineGenerator) Generate(ctx context.Context, question string, history []Message) *MatchResult {
	if d.provider == nil {
		return d.Static()
	}

	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: RoleSystem, Content: d.persona.declineSystemPrompt()})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: RoleUser, Content: question})

	resp, err := d.provider.Complete(ctx, &CompletionRequest{
		Model:       d.model,
		Messages:    messages,
		Temperature: declineTemperature,
		MaxTokens:   declineMaxTokens,
	})
	if err != nil {
		observability.FromContext(ctx).Warn("failed to generate decline, using static response",
			observability.Error(err))
		return d.Static()
	}

	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return d.Static()
	}

	return Declined(text, true)
}
