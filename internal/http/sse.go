package http

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Webhook stream event types.
const (
	eventTTS  = "response.tts"
	eventData = "response.data"
	eventEnd  = "response.end"
)

type streamEvent struct {
	Type    string      `json:"type"`
	Content interface{} `json:"content,omitempty"`
	TurnID  string      `json:"turn_id,omitempty"`
}

// sseWriter writes webhook responses as server-sent events.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	turnID  string
}

func newSSEWriter(w http.ResponseWriter, turnID string) (*sseWriter, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, false
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	return &sseWriter{w: w, flusher: flusher, turnID: turnID}, true
}

func (s *sseWriter) tts(text string) error {
	return s.send(streamEvent{Type: eventTTS, Content: text, TurnID: s.turnID})
}

func (s *sseWriter) data(content interface{}) error {
	return s.send(streamEvent{Type: eventData, Content: content, TurnID: s.turnID})
}

func (s *sseWriter) end() error {
	return s.send(streamEvent{Type: eventEnd, TurnID: s.turnID})
}

func (s *sseWriter) send(event streamEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	s.flusher.Flush()

	return nil
}
