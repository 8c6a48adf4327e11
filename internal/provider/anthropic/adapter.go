// Package anthropic adapts the Anthropic Messages API to domain.Provider.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/davidbz/faqvoice/internal/domain"
	"github.com/davidbz/faqvoice/internal/observability"
)

// ProviderName identifies this provider in the registry.
const ProviderName = "anthropic"

const (
	modelPrefix      = "claude-"
	defaultMaxTokens = 1024
)

// Provider implements the domain.Provider interface for Anthropic.
type Provider struct {
	client anthropic.Client
	model  string
}

// NewProvider creates a new Anthropic provider.
func NewProvider(config Config) (*Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("Anthropic API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(config.MaxRetries),
	}

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(config.Timeout)*time.Second))
	}

	model := config.Model
	if model == "" {
		model = "claude-3-5-haiku-latest"
	}

	return &Provider{
		client: anthropic.NewClient(opts...),
		model:  model,
	}, nil
}

// Complete sends a completion request and returns the full response.
func (p *Provider) Complete(ctx context.Context, req *domain.CompletionRequest) (*domain.CompletionResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	params := p.toSDKParams(req)

	logger := observability.FromContext(ctx)
	logger.Debug("calling Anthropic API", observability.String("model", params.Model))

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		logger.Error("Anthropic API call failed", observability.Error(err))
		return nil, fmt.Errorf("Anthropic API call failed: %w", err)
	}

	logger.Debug("Anthropic API call succeeded",
		observability.Int("input_tokens", int(resp.Usage.InputTokens)),
		observability.Int("output_tokens", int(resp.Usage.OutputTokens)),
	)

	return toDomainResponse(resp), nil
}

// Stream sends a streaming request and forwards text deltas. The channel is
// closed when the message stops or ctx is done.
func (p *Provider) Stream(ctx context.Context, req *domain.CompletionRequest) (<-chan domain.StreamChunk, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	params := p.toSDKParams(req)

	logger := observability.FromContext(ctx)
	logger.Debug("calling Anthropic streaming API", observability.String("model", params.Model))

	stream := p.client.Messages.NewStreaming(ctx, params)

	chunks := make(chan domain.StreamChunk)

	send := func(chunk domain.StreamChunk) bool {
		select {
		case chunks <- chunk:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(chunks)
		defer stream.Close()
		defer logger.Debug("Anthropic stream completed")

		for stream.Next() {
			event := stream.Current()

			switch event.Type {
			case "content_block_delta":
				if event.Delta.Type != "text_delta" || event.Delta.Text == "" {
					continue
				}
				if !send(domain.StreamChunk{Delta: event.Delta.Text}) {
					return
				}
			case "message_stop":
				send(domain.StreamChunk{Done: true})
				return
			}
		}

		if err := stream.Err(); err != nil {
			send(domain.StreamChunk{Error: fmt.Errorf("Anthropic stream error: %w", err)})
			return
		}

		send(domain.StreamChunk{Done: true})
	}()

	return chunks, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return ProviderName
}

func (p *Provider) resolveModel(requested string) string {
	if strings.HasPrefix(requested, modelPrefix) {
		return requested
	}
	return p.model
}

// toSDKParams lifts system messages into the system block and folds
// consecutive same-role turns, since the API requires alternating roles
// starting with the user.
func (p *Provider) toSDKParams(req *domain.CompletionRequest) anthropic.MessageNewParams {
	var system []anthropic.TextBlockParam
	type turn struct {
		role string
		text []string
	}
	var turns []turn

	for _, msg := range req.Messages {
		if msg.Role == domain.RoleSystem {
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
			continue
		}

		role := domain.RoleUser
		if msg.Role == domain.RoleAssistant {
			role = domain.RoleAssistant
		}

		if len(turns) == 0 && role == domain.RoleAssistant {
			continue
		}

		if n := len(turns); n > 0 && turns[n-1].role == role {
			turns[n-1].text = append(turns[n-1].text, msg.Content)
			continue
		}
		turns = append(turns, turn{role: role, text: []string{msg.Content}})
	}

	messages := make([]anthropic.MessageParam, 0, len(turns))
	for _, t := range turns {
		block := anthropic.NewTextBlock(strings.Join(t.text, "\n\n"))
		if t.role == domain.RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(block))
		} else {
			messages = append(messages, anthropic.NewUserMessage(block))
		}
	}

	maxTokens := int64(defaultMaxTokens)
	if req.MaxTokens > 0 {
		maxTokens = int64(req.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     p.resolveModel(req.Model),
		MaxTokens: maxTokens,
		Messages:  messages,
	}

	if len(system) > 0 {
		params.System = system
	}

	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	return params
}

func toDomainResponse(resp *anthropic.Message) *domain.CompletionResponse {
	var content strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}

	return &domain.CompletionResponse{
		ID:       resp.ID,
		Model:    string(resp.Model),
		Provider: ProviderName,
		Content:  content.String(),
		Usage: domain.Usage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		},
		FinishTime: time.Now(),
	}
}
