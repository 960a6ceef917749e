// Package memory keeps per-session conversation history in process
// memory. History is stored as question/answer rounds with a FIFO cap,
// and each session carries its own gate so one exchange completes before
// the next begins.
package memory

import (
	"sync"
	"time"

	"github.com/contoso-labs/handbook-assistant/common/logger"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message in a conversation transcript.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Round is one completed user/assistant exchange.
type Round struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationStore tracks conversation history per session.
type ConversationStore interface {
	// History returns the session transcript as alternating user and
	// assistant turns, oldest first.
	History(sessionID string) []Turn
	// AppendExchange records a completed round, evicting the oldest
	// round when the session is at capacity.
	AppendExchange(sessionID, userText, assistantText string)
	// Clear forgets a session.
	Clear(sessionID string)
	// Acquire blocks until the session's gate is free and returns its
	// release func. Holding the gate serializes read-complete-append.
	Acquire(sessionID string) func()
}

type session struct {
	gate   sync.Mutex
	rounds []Round
}

// InMemoryStore is the process-local ConversationStore.
type InMemoryStore struct {
	mu        sync.Mutex
	sessions  map[string]*session
	maxRounds int
}

func NewInMemoryStore(maxRounds int) *InMemoryStore {
	if maxRounds <= 0 {
		maxRounds = 10
	}
	return &InMemoryStore{
		sessions:  make(map[string]*session),
		maxRounds: maxRounds,
	}
}

func (s *InMemoryStore) get(sessionID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{}
		s.sessions[sessionID] = sess
	}
	return sess
}

func (s *InMemoryStore) History(sessionID string) []Turn {
	sess := s.get(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := make([]Turn, 0, len(sess.rounds)*2)
	for _, r := range sess.rounds {
		turns = append(turns,
			Turn{Role: RoleUser, Content: r.Question},
			Turn{Role: RoleAssistant, Content: r.Answer},
		)
	}
	return turns
}

func (s *InMemoryStore) AppendExchange(sessionID, userText, assistantText string) {
	sess := s.get(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.rounds = append(sess.rounds, Round{
		Question:  userText,
		Answer:    assistantText,
		Timestamp: time.Now(),
	})
	if over := len(sess.rounds) - s.maxRounds; over > 0 {
		sess.rounds = sess.rounds[over:]
		logger.Debugf("session %s trimmed to %d rounds", sessionID, s.maxRounds)
	}
}

func (s *InMemoryStore) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

func (s *InMemoryStore) Acquire(sessionID string) func() {
	sess := s.get(sessionID)
	sess.gate.Lock()
	return sess.gate.Unlock
}
