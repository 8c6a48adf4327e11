package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/dig"

	"github.com/davidbz/faqvoice/internal/domain"
	"github.com/davidbz/faqvoice/internal/observability"
)

// Webhook request types.
const (
	webhookSessionStart  = "session.start"
	webhookSessionEnd    = "session.end"
	webhookSessionUpdate = "session.update"
	webhookMessage       = "message"
)

const errorSpeech = "I apologize, but I encountered an error processing your request. Please try again."

// HandlerParams are the handler's injected dependencies.
type HandlerParams struct {
	dig.In

	Engine    *domain.MatchingEngine
	Analytics domain.AnalyticsReader `optional:"true"`
}

// Handler handles HTTP requests.
type Handler struct {
	engine    *domain.MatchingEngine
	analytics domain.AnalyticsReader
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(params HandlerParams) *Handler {
	return &Handler{
		engine:    params.Engine,
		analytics: params.Analytics,
	}
}

type webhookRequest struct {
	Type           string               `json:"type"`
	Text           string               `json:"text"`
	TurnID         string               `json:"turn_id"`
	SessionID      string               `json:"session_id"`
	ConversationID string               `json:"conversation_id"`
	Interruption   *domain.Interruption `json:"interruption_context,omitempty"`
}

type matchData struct {
	Type       string        `json:"type"`
	Question   string        `json:"question"`
	Answer     string        `json:"answer,omitempty"`
	Matched    string        `json:"matched_question,omitempty"`
	Category   string        `json:"category,omitempty"`
	Confidence string        `json:"confidence,omitempty"`
	Score      float64       `json:"score,omitempty"`
	MatchType  string        `json:"match_type,omitempty"`
	Response   string        `json:"response,omitempty"`
	Generated  bool          `json:"generated,omitempty"`
	Links      []domain.Link `json:"links,omitempty"`
}

// HandleWebhook answers voice platform events as a server-sent event stream.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	key := domain.ResolveConversationKey(req.ConversationID, req.SessionID)
	ctx = observability.WithConversationKey(ctx, key)
	if req.TurnID != "" {
		ctx = observability.WithTurnID(ctx, req.TurnID)
	}

	logger := observability.FromContext(ctx)
	logger.Info("webhook received", observability.String("type", req.Type))

	stream, ok := newSSEWriter(w, req.TurnID)
	if !ok {
		logger.Error("streaming not supported")
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	var err error
	switch req.Type {
	case webhookSessionStart:
		err = stream.tts(h.engine.BeginSession(ctx, key))
	case webhookSessionEnd:
		h.engine.EndSession(ctx, key)
	case webhookSessionUpdate:
	case webhookMessage:
		if strings.TrimSpace(req.Text) != "" {
			err = h.streamAnswer(ctx, stream, &req)
		}
	default:
		logger.Warn("unknown webhook type", observability.String("type", req.Type))
	}

	if err != nil {
		logger.Warn("webhook stream interrupted", observability.Error(err))
		return
	}

	if err := stream.end(); err != nil {
		logger.Warn("failed to end webhook stream", observability.Error(err))
	}
}

func (h *Handler) streamAnswer(ctx context.Context, stream *sseWriter, req *webhookRequest) error {
	logger := observability.FromContext(ctx)

	reply, err := h.engine.StreamMessage(ctx, &domain.MessageRequest{
		ConversationID: req.ConversationID,
		SessionID:      req.SessionID,
		TurnID:         req.TurnID,
		Text:           req.Text,
		Interruption:   req.Interruption,
	})
	if err != nil {
		logger.Error("message handling failed", observability.Error(err))
		return stream.tts(errorSpeech)
	}

	var writeErr error
	for chunk := range reply.Chunks {
		if writeErr != nil {
			continue
		}
		if chunk.Error != nil {
			logger.Error("answer stream error", observability.Error(chunk.Error))
			continue
		}
		if chunk.Delta != "" {
			writeErr = stream.tts(chunk.Delta)
		}
	}
	if writeErr != nil {
		return writeErr
	}

	return stream.data(buildMatchData(req.Text, reply))
}

func buildMatchData(question string, reply *domain.Reply) matchData {
	result := reply.Result
	if m := result.Match; m != nil {
		return matchData{
			Type:       "faq_match",
			Question:   question,
			Answer:     m.Answer,
			Matched:    m.Question(),
			Category:   m.Category,
			Confidence: string(m.Confidence),
			Score:      m.Score,
			MatchType:  string(m.Type),
			Links:      reply.Links,
		}
	}

	data := matchData{Type: "no_match", Question: question}
	if result.NoMatch != nil {
		data.Response = result.NoMatch.Response
		data.Generated = result.NoMatch.Generated
	}
	return data
}

type askRequest struct {
	Question       string `json:"question"`
	ConversationID string `json:"conversation_id,omitempty"`
	SessionID      string `json:"session_id,omitempty"`
}

type askResponse struct {
	ConversationKey string              `json:"conversation_key"`
	TurnID          string              `json:"turn_id"`
	Text            string              `json:"text"`
	Result          *domain.MatchResult `json:"result"`
	Links           []domain.Link       `json:"links,omitempty"`
}

// HandleAsk answers a single question as JSON.
func (h *Handler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}

	reply, err := h.engine.HandleMessage(ctx, &domain.MessageRequest{
		ConversationID: req.ConversationID,
		SessionID:      req.SessionID,
		Text:           req.Question,
	})
	if err != nil {
		observability.FromContext(ctx).Error("ask failed", observability.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusOK, askResponse{
		ConversationKey: reply.ConversationKey,
		TurnID:          reply.TurnID,
		Text:            reply.Text,
		Result:          reply.Result,
		Links:           reply.Links,
	})
}

type statsResponse struct {
	Engine    domain.EngineStats       `json:"engine"`
	Analytics *domain.AnalyticsSummary `json:"analytics,omitempty"`
}

// HandleStats reports engine state and, when configured, usage analytics.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := statsResponse{Engine: h.engine.Stats()}

	if h.analytics != nil {
		summary, err := h.analytics.Summary(ctx)
		if err != nil {
			observability.FromContext(ctx).Warn("failed to read analytics", observability.Error(err))
		} else {
			resp.Analytics = summary
		}
	}

	writeJSON(w, r, http.StatusOK, resp)
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Status already written, just log.
		observability.FromContext(r.Context()).Error("failed to encode response", observability.Error(err))
	}
}
