package domain_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/faqvoice/internal/domain"
	"github.com/davidbz/faqvoice/internal/mocks"
)

func completion(content string) *domain.CompletionResponse {
	return &domain.CompletionResponse{ID: "resp-1", Model: "test-model", Provider: "mock", Content: content}
}

func TestAIMatcher_Match(t *testing.T) {
	ctx := context.Background()
	persona := domain.Persona{BrandName: "Test Cast", Topics: "episodes"}

	t.Run("should resolve MATCH to the numbered entry", func(t *testing.T) {
		corpus := newTestCorpus(t, false, nil)
		mockProvider := mocks.NewMockProvider(t)

		mockProvider.EXPECT().
			Complete(mock.Anything, mock.MatchedBy(func(req *domain.CompletionRequest) bool {
				last := req.Messages[len(req.Messages)-1]
				return req.Model == "test-model" &&
					req.Temperature == 0.1 &&
					req.Messages[0].Role == domain.RoleSystem &&
					strings.Contains(last.Content, "3. Q: Is the newsletter free?") &&
					strings.Contains(last.Content, `Listener asks: "is it free?"`)
			})).
			Return(completion("MATCH:3\nNATURAL:It's free."), nil)

		matcher := domain.NewAIMatcher(mockProvider, "test-model", persona)

		match, err := matcher.Match(ctx, "is it free?", corpus, nil)
		require.NoError(t, err)
		require.Equal(t, "Is the newsletter free?", match.Question())
		require.Equal(t, 3, match.Ordinal)
		require.Equal(t, domain.ConfidenceHigh, match.Confidence)
		require.Equal(t, domain.MatchTypeAI, match.Type)
		require.Equal(t, "It's free.", match.Answer)
		require.True(t, match.Natural)
		require.Empty(t, match.FollowUp)
	})

	t.Run("should pass history between system and user prompts", func(t *testing.T) {
		corpus := newTestCorpus(t, false, nil)
		mockProvider := mocks.NewMockProvider(t)
		history := []domain.Message{
			{Role: domain.RoleUser, Content: "Tell me about premium"},
			{Role: domain.RoleAssistant, Content: "Premium costs $10 per month."},
		}

		mockProvider.EXPECT().
			Complete(mock.Anything, mock.MatchedBy(func(req *domain.CompletionRequest) bool {
				return len(req.Messages) == 4 &&
					req.Messages[1] == history[0] &&
					req.Messages[2] == history[1]
			})).
			Return(completion("PARTIAL:2\nNATURAL:You can cancel from your account."), nil)

		matcher := domain.NewAIMatcher(mockProvider, "test-model", persona)

		match, err := matcher.Match(ctx, "and how do I stop it?", corpus, history)
		require.NoError(t, err)
		require.Equal(t, 2, match.Ordinal)
		require.Equal(t, domain.ConfidenceMedium, match.Confidence)
		require.Equal(t, domain.PartialFollowUp, match.FollowUp)
		require.Equal(t, "You can cancel from your account. Was that what you were looking for?", match.SpokenText())
	})

	t.Run("should use the corpus answer for legacy ordinals", func(t *testing.T) {
		corpus := newTestCorpus(t, false, nil)
		mockProvider := mocks.NewMockProvider(t)
		mockProvider.EXPECT().Complete(mock.Anything, mock.Anything).Return(completion("1"), nil)

		match, err := domain.NewAIMatcher(mockProvider, "m", persona).Match(ctx, "price?", corpus, nil)
		require.NoError(t, err)
		require.Equal(t, "Premium costs $10 per month.", match.Answer)
		require.False(t, match.Natural)
	})

	t.Run("should reject out of range ordinals", func(t *testing.T) {
		corpus := newTestCorpus(t, false, nil)
		mockProvider := mocks.NewMockProvider(t)
		mockProvider.EXPECT().Complete(mock.Anything, mock.Anything).Return(completion("7"), nil)

		match, err := domain.NewAIMatcher(mockProvider, "m", persona).Match(ctx, "anything", corpus, nil)
		require.ErrorIs(t, err, domain.ErrMalformedModelResponse)
		require.Nil(t, match)
	})

	t.Run("should reject ordinal zero", func(t *testing.T) {
		corpus := newTestCorpus(t, false, nil)
		mockProvider := mocks.NewMockProvider(t)
		mockProvider.EXPECT().Complete(mock.Anything, mock.Anything).Return(completion("MATCH:0\nNATURAL:x"), nil)

		_, err := domain.NewAIMatcher(mockProvider, "m", persona).Match(ctx, "anything", corpus, nil)
		require.ErrorIs(t, err, domain.ErrMalformedModelResponse)
	})

	t.Run("should return ErrNoMatch for none", func(t *testing.T) {
		corpus := newTestCorpus(t, false, nil)
		mockProvider := mocks.NewMockProvider(t)
		mockProvider.EXPECT().Complete(mock.Anything, mock.Anything).Return(completion("none"), nil)

		_, err := domain.NewAIMatcher(mockProvider, "m", persona).Match(ctx, "weather?", corpus, nil)
		require.ErrorIs(t, err, domain.ErrNoMatch)
	})

	t.Run("should fail closed on prose", func(t *testing.T) {
		corpus := newTestCorpus(t, false, nil)
		mockProvider := mocks.NewMockProvider(t)
		mockProvider.EXPECT().Complete(mock.Anything, mock.Anything).
			Return(completion("The answer is probably entry 3."), nil)

		_, err := domain.NewAIMatcher(mockProvider, "m", persona).Match(ctx, "free?", corpus, nil)
		require.ErrorIs(t, err, domain.ErrMalformedModelResponse)
	})

	t.Run("should wrap provider failures", func(t *testing.T) {
		corpus := newTestCorpus(t, false, nil)
		mockProvider := mocks.NewMockProvider(t)
		mockProvider.EXPECT().Complete(mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

		_, err := domain.NewAIMatcher(mockProvider, "m", persona).Match(ctx, "free?", corpus, nil)
		require.ErrorIs(t, err, domain.ErrCompletionUnavailable)
	})

	t.Run("should answer from background notes", func(t *testing.T) {
		corpus := newTestCorpus(t, false, map[string]string{"host": "The host is a neuroscientist."})
		mockProvider := mocks.NewMockProvider(t)
		mockProvider.EXPECT().
			Complete(mock.Anything, mock.MatchedBy(func(req *domain.CompletionRequest) bool {
				last := req.Messages[len(req.Messages)-1].Content
				return strings.Contains(last, "[host] The host is a neuroscientist.")
			})).
			Return(completion("CONTEXT\nNATURAL:The host is a neuroscientist."), nil)

		match, err := domain.NewAIMatcher(mockProvider, "m", persona).Match(ctx, "who is the host?", corpus, nil)
		require.NoError(t, err)
		require.Nil(t, match.Entry)
		require.Equal(t, domain.KnowledgeBaseCategory, match.Category)
		require.Equal(t, "The host is a neuroscientist.", match.Answer)
	})

	t.Run("should reject context without background notes", func(t *testing.T) {
		corpus := newTestCorpus(t, false, nil)
		mockProvider := mocks.NewMockProvider(t)
		mockProvider.EXPECT().Complete(mock.Anything, mock.Anything).
			Return(completion("CONTEXT\nNATURAL:Made up."), nil)

		_, err := domain.NewAIMatcher(mockProvider, "m", persona).Match(ctx, "who?", corpus, nil)
		require.ErrorIs(t, err, domain.ErrMalformedModelResponse)
	})

	t.Run("should fail without a provider", func(t *testing.T) {
		corpus := newTestCorpus(t, false, nil)

		_, err := domain.NewAIMatcher(nil, "m", persona).Match(ctx, "free?", corpus, nil)
		require.ErrorIs(t, err, domain.ErrCompletionUnavailable)
	})
}

func TestDeclineGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	persona := domain.Persona{BrandName: "Test Cast", Topics: "episodes and membership"}

	t.Run("should return the generated decline", func(t *testing.T) {
		mockProvider := mocks.NewMockProvider(t)
		mockProvider.EXPECT().
			Complete(mock.Anything, mock.MatchedBy(func(req *domain.CompletionRequest) bool {
				return req.Temperature == 0.4 && req.MaxTokens == 100
			})).
			Return(completion("  I don't know about Mars, but I can help with episodes.  "), nil)

		result := domain.NewDeclineGenerator(mockProvider, "m", persona).Generate(ctx, "Mars weather?", nil)
		require.False(t, result.IsMatch())
		require.True(t, result.NoMatch.Generated)
		require.Equal(t, "I don't know about Mars, but I can help with episodes.", result.SpokenText())
	})

	t.Run("should fall back to the static decline", func(t *testing.T) {
		mockProvider := mocks.NewMockProvider(t)
		mockProvider.EXPECT().Complete(mock.Anything, mock.Anything).Return(nil, errors.New("down"))

		result := domain.NewDeclineGenerator(mockProvider, "m", persona).Generate(ctx, "Mars weather?", nil)
		require.False(t, result.NoMatch.Generated)
		require.Equal(t, persona.StaticDecline(), result.SpokenText())
		require.Contains(t, result.SpokenText(), "Test Cast")
	})

	t.Run("should fall back on empty output", func(t *testing.T) {
		mockProvider := mocks.NewMockProvider(t)
		mockProvider.EXPECT().Complete(mock.Anything, mock.Anything).Return(completion("   "), nil)

		result := domain.NewDeclineGenerator(mockProvider, "m", persona).Generate(ctx, "?", nil)
		require.False(t, result.NoMatch.Generated)
	})
}
