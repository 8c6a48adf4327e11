package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/davidbz/faqvoice/internal/observability"
)

// Matching strategies.
const (
	StrategyTiered = "tiered"
	StrategyAI     = "ai"
)

// Published event types.
const (
	EventSessionStarted      = "session.started"
	EventSessionEnded        = "session.ended"
	EventQuestionAnswered    = "question.answered"
	EventInterruptionApplied = "interruption.applied"
)

const (
	rephraseTemperature = 0.3
	rephraseMaxTokens   = 150
)

// EngineConfig configures the matching engine.
type EngineConfig struct {
	Strategy            string        `env:"MATCH_STRATEGY"             envDefault:"tiered"`
	SimilarityThreshold float64       `env:"MATCH_SIMILARITY_THRESHOLD" envDefault:"0.75"`
	KeywordThreshold    float64       `env:"MATCH_KEYWORD_THRESHOLD"    envDefault:"0.3"`
	AIEnabled           bool          `env:"MATCH_AI_ENABLED"           envDefault:"true"`
	Model               string        `env:"MATCH_MODEL"                envDefault:"gpt-4.1-mini"`
	RephraseAnswers     bool          `env:"MATCH_REPHRASE_ANSWERS"     envDefault:"true"`
	HistoryMessages     int           `env:"MATCH_HISTORY_MESSAGES"     envDefault:"10"`
	EmbeddingTimeout    time.Duration `env:"MATCH_EMBEDDING_TIMEOUT"    envDefault:"5s"`
	CompletionTimeout   time.Duration `env:"MATCH_COMPLETION_TIMEOUT"   envDefault:"15s"`

	BrandName string `env:"BRAND_NAME"     envDefault:"the podcast"`
	Topics    string `env:"BRAND_TOPICS"   envDefault:"the podcast, premium membership, newsletter, and events"`
	SiteURL   string `env:"BRAND_SITE_URL"`
}

// Persona returns the brand persona described by the config.
func (c EngineConfig) Persona() Persona {
	return Persona{BrandName: c.BrandName, Topics: c.Topics}
}

// Interruption describes a previous assistant turn the listener cut off.
type Interruption struct {
	PreviousTurnInterrupted bool   `json:"previous_turn_interrupted"`
	AssistantTurnID         string `json:"assistant_turn_id"`
	TextHeard               string `json:"text_heard"`
}

// MessageRequest is one listener utterance.
type MessageRequest struct {
	ConversationID string
	SessionID      string
	TurnID         string
	Text           string
	Interruption   *Interruption
}

// Reply is the engine's answer to a MessageRequest.
type Reply struct {
	ConversationKey string
	TurnID          string
	Result          *MatchResult
	Links           []Link
	// Chunks streams the spoken text and ends with a Done chunk. Nil after
	// HandleMessage.
	Chunks <-chan StreamChunk
	// Text is the full spoken text. Set by HandleMessage only.
	Text string
}

// EngineStats reports engine state.
type EngineStats struct {
	Strategy      string      `json:"strategy"`
	Provider      string      `json:"provider,omitempty"`
	Corpus        CorpusStats `json:"corpus"`
	Cache         CacheStats  `json:"cache"`
	Conversations int         `json:"conversations"`
}

// MatchingEngine runs the matching cascade and owns the process-wide vector
// cache and conversation store. Build one per process.
type MatchingEngine struct {
	cfg           EngineConfig
	persona       Persona
	corpus        CorpusProvider
	cache         *VectorCache
	provider      Provider
	conversations *ConversationStore
	events        EventPublisher

	similarity *SimilarityMatcher
	keyword    *KeywordMatcher
	ai         *AIMatcher
	decline    *DeclineGenerator
}

// NewMatchingEngine creates a new matching engine (DI constructor). The
// provider may be nil, in which case AI matching and generated responses are
// skipped.
func NewMatchingEngine(
	cfg EngineConfig,
	corpus CorpusProvider,
	cache *VectorCache,
	provider Provider,
	conversations *ConversationStore,
	events EventPublisher,
) (*MatchingEngine, error) {
	if corpus == nil {
		return nil, errors.New("corpus provider cannot be nil")
	}
	if conversations == nil {
		return nil, errors.New("conversation store cannot be nil")
	}

	switch cfg.Strategy {
	case "":
		cfg.Strategy = StrategyTiered
	case StrategyTiered:
	case StrategyAI:
		if provider == nil {
			return nil, errors.New("strategy ai requires a completion provider")
		}
	default:
		return nil, fmt.Errorf("unknown matching strategy: %s", cfg.Strategy)
	}

	persona := cfg.Persona()

	return &MatchingEngine{
		cfg:           cfg,
		persona:       persona,
		corpus:        corpus,
		cache:         cache,
		provider:      provider,
		conversations: conversations,
		events:        events,
		similarity:    NewSimilarityMatcher(cfg.SimilarityThreshold),
		keyword:       NewKeywordMatcher(cfg.KeywordThreshold),
		ai:            NewAIMatcher(provider, cfg.Model, persona),
		decline:       NewDeclineGenerator(provider, cfg.Model, persona),
	}, nil
}

// MatchQuestion runs the configured strategy and always returns a result.
func (e *MatchingEngine) MatchQuestion(ctx context.Context, text string, history []Message) *MatchResult {
	logger := observability.FromContext(ctx)

	question := strings.TrimSpace(text)
	if question == "" {
		return e.decline.Static()
	}

	corpus := e.corpus.Current()
	if corpus == nil {
		logger.Error("no corpus loaded")
		return e.decline.Static()
	}

	if e.cfg.Strategy == StrategyTiered {
		if m := e.matchEmbedding(ctx, question, corpus); m != nil {
			return Matched(m)
		}

		if m := e.keyword.Match(question, corpus.Flatten()); m != nil {
			logger.Info("keyword match found",
				observability.Float64("score", m.Score),
				observability.String("question", m.Question()))
			return Matched(m)
		}

		if !e.cfg.AIEnabled || e.provider == nil {
			return e.generateDecline(ctx, question, history)
		}
	}

	return e.matchAI(ctx, question, corpus, history)
}

func (e *MatchingEngine) matchEmbedding(ctx context.Context, question string, corpus *Corpus) *Match {
	logger := observability.FromContext(ctx)

	if e.cache == nil || !corpus.HasEmbeddings() {
		logger.Debug("embedding tier skipped")
		return nil
	}

	embedCtx, cancel := withTimeout(ctx, e.cfg.EmbeddingTimeout)
	vector, err := e.cache.Get(embedCtx, question)
	cancel()
	if err != nil {
		logger.Warn("embedding unavailable, falling back to keyword matching",
			observability.Error(err))
		return nil
	}

	match, err := e.similarity.Match(ctx, vector, corpus.Flatten())
	if err != nil {
		logger.Error("similarity matching failed", observability.Error(err))
		return nil
	}

	return match
}

func (e *MatchingEngine) matchAI(ctx context.Context, question string, corpus *Corpus, history []Message) *MatchResult {
	logger := observability.FromContext(ctx)

	aiCtx, cancel := withTimeout(ctx, e.cfg.CompletionTimeout)
	defer cancel()

	match, err := e.ai.Match(aiCtx, question, corpus, history)
	switch {
	case err == nil:
		return Matched(match)
	case errors.Is(err, ErrNoMatch):
		return e.generateDecline(ctx, question, history)
	default:
		logger.Warn("ai matching failed, using static decline", observability.Error(err))
		return e.decline.Static()
	}
}

func (e *MatchingEngine) generateDecline(ctx context.Context, question string, history []Message) *MatchResult {
	declineCtx, cancel := withTimeout(ctx, e.cfg.CompletionTimeout)
	defer cancel()

	return e.decline.Generate(declineCtx, question, history)
}

// StreamMessage answers one listener utterance within its conversation. The
// returned Reply streams the spoken text; the assistant placeholder is filled
// once the stream is drained.
func (e *MatchingEngine) StreamMessage(ctx context.Context, req *MessageRequest) (*Reply, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, errors.New("text cannot be empty")
	}

	key := ResolveConversationKey(req.ConversationID, req.SessionID)
	turnID := req.TurnID
	if turnID == "" {
		turnID = observability.GenerateTurnID()
	}

	ctx = observability.WithConversationKey(ctx, key)
	ctx = observability.WithTurnID(ctx, turnID)
	logger := observability.FromContext(ctx)

	log := e.conversations.Log(key)

	if in := req.Interruption; in != nil && in.PreviousTurnInterrupted {
		e.applyInterruption(ctx, log, in.AssistantTurnID, in.TextHeard)
	}

	history := log.History(e.cfg.HistoryMessages)
	log.Append(RoleUser, text, turnID)
	slot := log.AppendPlaceholder(turnID)

	started := time.Now()
	result := e.MatchQuestion(ctx, text, history)

	logger.Info("question matched",
		observability.Bool("matched", result.IsMatch()),
		observability.Duration("duration", time.Since(started)))

	reply := &Reply{
		ConversationKey: key,
		TurnID:          turnID,
		Result:          result,
	}
	if result.IsMatch() {
		reply.Links = ExtractLinks(result.Match.Answer, e.cfg.SiteURL)
	}

	spoken := e.speak(ctx, text, result)
	out := make(chan StreamChunk)
	reply.Chunks = out

	go func() {
		defer close(out)

		var b strings.Builder
		for chunk := range spoken {
			b.WriteString(chunk.Delta)
			select {
			case out <- chunk:
			case <-ctx.Done():
			}
		}

		final := strings.TrimSpace(b.String())
		if final == "" {
			final = result.SpokenText()
		}
		if err := log.Fill(slot, final); err != nil {
			// The turn was corrected by an interruption before it finished.
			logger.Debug("placeholder already settled", observability.Error(err))
		}

		e.publishAnswered(context.WithoutCancel(ctx), key, turnID, text, result)
	}()

	return reply, nil
}

// HandleMessage is StreamMessage with the stream drained into Reply.Text.
func (e *MatchingEngine) HandleMessage(ctx context.Context, req *MessageRequest) (*Reply, error) {
	reply, err := e.StreamMessage(ctx, req)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for chunk := range reply.Chunks {
		b.WriteString(chunk.Delta)
	}

	reply.Chunks = nil
	reply.Text = strings.TrimSpace(b.String())

	return reply, nil
}

// speak produces the spoken text. Plain corpus answers are rephrased for voice
// when enabled; any failure before the first delta falls back to the answer.
func (e *MatchingEngine) speak(ctx context.Context, question string, result *MatchResult) <-chan StreamChunk {
	out := make(chan StreamChunk, 2)
	text := result.SpokenText()
	match := result.Match

	if match == nil || match.Natural || !e.cfg.RephraseAnswers || e.provider == nil {
		out <- StreamChunk{Delta: text}
		out <- StreamChunk{Done: true}
		close(out)
		return out
	}

	go func() {
		defer close(out)

		logger := observability.FromContext(ctx)
		streamCtx, cancel := withTimeout(ctx, e.cfg.CompletionTimeout)
		defer cancel()

		stream, err := e.provider.Stream(streamCtx, &CompletionRequest{
			Model: e.cfg.Model,
			Messages: []Message{
				{Role: RoleSystem, Content: e.persona.rephraseSystemPrompt()},
				{Role: RoleUser, Content: rephraseUserPrompt(question, match.Answer)},
			},
			Temperature: rephraseTemperature,
			MaxTokens:   rephraseMaxTokens,
		})
		if err != nil {
			logger.Warn("rephrase failed, speaking raw answer", observability.Error(err))
			out <- StreamChunk{Delta: text}
			out <- StreamChunk{Done: true}
			return
		}

		emitted := false
		for chunk := range stream {
			if chunk.Error != nil {
				logger.Warn("rephrase stream failed", observability.Error(chunk.Error))
				break
			}
			if chunk.Delta != "" {
				emitted = true
				out <- StreamChunk{Delta: chunk.Delta}
			}
			if chunk.Done {
				break
			}
		}
		go drain(stream)

		if !emitted {
			out <- StreamChunk{Delta: text}
		} else if match.FollowUp != "" {
			out <- StreamChunk{Delta: " " + match.FollowUp}
		}
		out <- StreamChunk{Done: true}
	}()

	return out
}

// BeginSession resets the conversation and returns the welcome text.
func (e *MatchingEngine) BeginSession(ctx context.Context, key string) string {
	welcome := e.persona.Welcome()

	log := e.conversations.Begin(key, e.persona.SessionInstruction())
	log.Append(RoleAssistant, welcome, "")

	e.publish(ctx, EventSessionStarted, map[string]interface{}{
		"conversation_key": key,
	})

	return welcome
}

// EndSession discards the conversation.
func (e *MatchingEngine) EndSession(ctx context.Context, key string) {
	removed := e.conversations.End(key)

	e.publish(ctx, EventSessionEnded, map[string]interface{}{
		"conversation_key": key,
		"found":            removed,
	})
}

// RecordInterruption rewrites an interrupted assistant turn to the text heard.
func (e *MatchingEngine) RecordInterruption(ctx context.Context, key, turnID, heard string) bool {
	log, ok := e.conversations.Lookup(key)
	if !ok {
		observability.FromContext(ctx).Warn("interruption for unknown conversation",
			observability.String("conversation_key", key))
		return false
	}

	return e.applyInterruption(ctx, log, turnID, heard)
}

func (e *MatchingEngine) applyInterruption(ctx context.Context, log *ConversationLog, turnID, heard string) bool {
	logger := observability.FromContext(ctx)

	if !log.CorrectTurn(turnID, heard) {
		logger.Warn("interrupted turn not found",
			observability.String("assistant_turn_id", turnID))
		return false
	}

	logger.Info("corrected interrupted turn",
		observability.String("assistant_turn_id", turnID),
		observability.Int("heard_length", len(heard)))

	e.publish(ctx, EventInterruptionApplied, map[string]interface{}{
		"conversation_key":  log.Key(),
		"assistant_turn_id": turnID,
	})

	return true
}

// Prewarm embeds common questions ahead of traffic.
func (e *MatchingEngine) Prewarm(ctx context.Context, questions []string) int {
	if e.cache == nil || len(questions) == 0 {
		return 0
	}
	if corpus := e.corpus.Current(); corpus == nil || !corpus.HasEmbeddings() {
		return 0
	}

	return e.cache.Prewarm(ctx, questions)
}

// Stats returns engine statistics.
func (e *MatchingEngine) Stats() EngineStats {
	stats := EngineStats{
		Strategy:      e.cfg.Strategy,
		Conversations: e.conversations.Len(),
	}
	if e.provider != nil {
		stats.Provider = e.provider.Name()
	}
	if corpus := e.corpus.Current(); corpus != nil {
		stats.Corpus = corpus.Stats()
	}
	if e.cache != nil {
		stats.Cache = e.cache.Stats()
	}
	return stats
}

// Persona returns the brand persona.
func (e *MatchingEngine) Persona() Persona {
	return e.persona
}

func (e *MatchingEngine) publishAnswered(ctx context.Context, key, turnID, question string, result *MatchResult) {
	data := map[string]interface{}{
		"conversation_key": key,
		"turn_id":          turnID,
		"question":         question,
		"matched":          result.IsMatch(),
	}
	if m := result.Match; m != nil {
		data["match_type"] = string(m.Type)
		data["category"] = m.Category
		data["confidence"] = string(m.Confidence)
		data["score"] = m.Score
	} else if result.NoMatch != nil {
		data["generated_decline"] = result.NoMatch.Generated
	}

	e.publish(ctx, EventQuestionAnswered, data)
}

func (e *MatchingEngine) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if e.events == nil {
		return
	}
	e.events.Publish(ctx, eventType, data)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

func drain(chunks <-chan StreamChunk) {
	for range chunks { //nolint:revive // discard
	}
}
