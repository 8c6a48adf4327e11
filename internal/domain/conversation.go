package domain

import (
	"container/list"
	"fmt"
	"sync"
)

// DefaultConversationKey is used when a request carries no identifier.
const DefaultConversationKey = "default"

// ConversationConfig bounds the conversation store.
type ConversationConfig struct {
	MaxConversations int `env:"CONVERSATION_MAX" envDefault:"50"`
}

// ResolveConversationKey picks the conversation ID, then the session ID, then
// the default key.
func ResolveConversationKey(conversationID, sessionID string) string {
	if conversationID != "" {
		return conversationID
	}
	if sessionID != "" {
		return sessionID
	}
	return DefaultConversationKey
}

// ConversationMessage is one entry of a conversation log.
type ConversationMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	TurnID  string `json:"turn_id,omitempty"`
	pending bool
}

// Pending reports whether the message is an unfilled assistant placeholder.
func (m ConversationMessage) Pending() bool {
	return m.pending
}

// ConversationLog is an append-only message log. Only two in-place writes are
// allowed: Fill on a pending placeholder and CorrectTurn.
type ConversationLog struct {
	key string

	mu       sync.RWMutex
	messages []ConversationMessage
}

func newConversationLog(key string) *ConversationLog {
	return &ConversationLog{key: key}
}

// Key returns the conversation key.
func (l *ConversationLog) Key() string {
	return l.key
}

// Append adds a settled message.
func (l *ConversationLog) Append(role, content, turnID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(l.messages, ConversationMessage{Role: role, Content: content, TurnID: turnID})
}

// AppendPlaceholder reserves the assistant slot for a turn and returns its index.
func (l *ConversationLog) AppendPlaceholder(turnID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(l.messages, ConversationMessage{Role: RoleAssistant, TurnID: turnID, pending: true})
	return len(l.messages) - 1
}

// Fill writes the final response into a pending placeholder.
func (l *ConversationLog) Fill(index int, content string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if index < 0 || index >= len(l.messages) || !l.messages[index].pending {
		return fmt.Errorf("%w: index %d", ErrNotPlaceholder, index)
	}

	l.messages[index].Content = content
	l.messages[index].pending = false
	return nil
}

// CorrectTurn rewrites the most recent assistant message carrying turnID to the
// text the listener actually heard. It reports whether a message was found.
func (l *ConversationLog) CorrectTurn(turnID, heard string) bool {
	if turnID == "" {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := len(l.messages) - 1; i >= 0; i-- {
		m := &l.messages[i]
		if m.Role != RoleAssistant || m.TurnID != turnID {
			continue
		}
		m.Content = heard
		m.pending = false
		return true
	}

	return false
}

// Messages returns a copy of the log.
func (l *ConversationLog) Messages() []ConversationMessage {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return append([]ConversationMessage(nil), l.messages...)
}

// Len returns the number of messages.
func (l *ConversationLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.messages)
}

// History returns up to limit of the latest user and assistant messages as
// completion context. System messages and pending placeholders are left out.
// A limit <= 0 returns everything.
func (l *ConversationLog) History(limit int) []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Message, 0, len(l.messages))
	for _, m := range l.messages {
		if m.pending || m.Role == RoleSystem || m.Content == "" {
			continue
		}
		out = append(out, Message{Role: m.Role, Content: m.Content})
	}

	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}

	return out
}

// ConversationStore holds conversation logs, bounded by creation order.
type ConversationStore struct {
	maxConversations int

	mu    sync.Mutex
	logs  map[string]*list.Element
	order *list.List
}

// NewConversationStore creates a new conversation store.
func NewConversationStore(cfg ConversationConfig) *ConversationStore {
	maxConversations := cfg.MaxConversations
	if maxConversations <= 0 {
		maxConversations = 1
	}

	return &ConversationStore{
		maxConversations: maxConversations,
		logs:             make(map[string]*list.Element),
		order:            list.New(),
	}
}

// Begin starts a fresh conversation under key, replacing any previous one.
func (s *ConversationStore) Begin(key, systemInstruction string) *ConversationLog {
	log := newConversationLog(key)
	if systemInstruction != "" {
		log.Append(RoleSystem, systemInstruction, "")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(key)
	s.insertLocked(log)

	return log
}

// Log returns the conversation for key, creating it when absent.
func (s *ConversationStore) Log(key string) *ConversationLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.logs[key]; ok {
		log, _ := elem.Value.(*ConversationLog)
		return log
	}

	log := newConversationLog(key)
	s.insertLocked(log)
	return log
}

// Lookup returns the conversation for key without creating it.
func (s *ConversationStore) Lookup(key string) (*ConversationLog, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.logs[key]
	if !ok {
		return nil, false
	}
	log, _ := elem.Value.(*ConversationLog)
	return log, true
}

// End discards the conversation for key.
func (s *ConversationStore) End(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.removeLocked(key)
}

// Len returns the number of held conversations.
func (s *ConversationStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.order.Len()
}

// Keys returns the held conversation keys, oldest first.
func (s *ConversationStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, s.order.Len())
	for e := s.order.Front(); e != nil; e = e.Next() {
		log, _ := e.Value.(*ConversationLog)
		keys = append(keys, log.key)
	}
	return keys
}

func (s *ConversationStore) insertLocked(log *ConversationLog) {
	s.logs[log.key] = s.order.PushBack(log)

	for s.order.Len() > s.maxConversations {
		oldest := s.order.Front()
		evicted, _ := oldest.Value.(*ConversationLog)
		s.order.Remove(oldest)
		delete(s.logs, evicted.key)
	}
}

func (s *ConversationStore) removeLocked(key string) bool {
	elem, ok := s.logs[key]
	if !ok {
		return false
	}
	s.order.Remove(elem)
	delete(s.logs, key)
	return true
}
