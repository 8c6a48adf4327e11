package domain

import "time"

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CompletionRequest represents a unified LLM request.
type CompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // user, assistant, system
	Content string `json:"content"`
}

// CompletionResponse represents a unified LLM response.
type CompletionResponse struct {
	ID         string    `json:"id"`
	Model      string    `json:"model"`
	Provider   string    `json:"provider"`
	Content    string    `json:"content"`
	Usage      Usage     `json:"usage"`
	FinishTime time.Time `json:"finish_time"`
}

// StreamChunk represents a single streaming response chunk.
type StreamChunk struct {
	Delta string `json:"delta"`
	Done  bool   `json:"done"`
	Error error  `json:"error,omitempty"`
}

// Usage tracks token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// AnalyticsSummary aggregates answered questions.
type AnalyticsSummary struct {
	TotalQuestions  int64            `json:"total_questions"`
	Matched         int64            `json:"matched"`
	MatchRate       float64          `json:"match_rate"`
	Sessions        int64            `json:"sessions"`
	Today           int64            `json:"today"`
	Categories      map[string]int64 `json:"categories"`
	RecentQuestions []RecentQuestion `json:"recent_questions"`
}

// RecentQuestion is one entry of the analytics recent-questions list.
type RecentQuestion struct {
	Question  string    `json:"question"`
	Matched   bool      `json:"matched"`
	Category  string    `json:"category,omitempty"`
	MatchType string    `json:"match_type,omitempty"`
	AskedAt   time.Time `json:"asked_at"`
}
