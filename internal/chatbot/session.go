// internal/chatbot/session.go
package chatbot

import (
	"sync"

	"github.com/google/uuid"

	"wellness-dashboard/internal/models"
)

// Session holds the ordered turn history of one conversation. Entries are
// append-only; Reset is the only way to discard them. Safe for the single
// dialogue driver plus concurrent history readers.
type Session struct {
	id string

	mu    sync.Mutex
	turns []models.Turn
}

func NewSession() *Session {
	return &Session{id: uuid.New().String()}
}

// ID returns the stable session identifier.
func (s *Session) ID() string {
	return s.id
}

// Record appends one turn. No deduplication, no trimming.
func (s *Session) Record(turn models.Turn) {
	s.mu.Lock()
	s.turns = append(s.turns, turn)
	s.mu.Unlock()
}

// History returns a copy of the turns in conversation order.
func (s *Session) History() []models.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of recorded turns.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// Reset clears the history.
func (s *Session) Reset() {
	s.mu.Lock()
	s.turns = nil
	s.mu.Unlock()
}
