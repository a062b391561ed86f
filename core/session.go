package core

import (
	"errors"
	"sync"
	"time"
)

// ErrSessionNotFound is returned by SessionStore.Lookup for unknown ids.
var ErrSessionNotFound = errors.New("session not found")

// TurnRecord is the persisted outcome of one finished (or abandoned) turn.
type TurnRecord struct {
	ID         string         `json:"id"`
	Question   string         `json:"question"`
	State      TurnState      `json:"state"`
	AnswerText string         `json:"answer_text,omitempty"`
	Answer     *UnifiedAnswer `json:"answer,omitempty"`
	Parts      []Part         `json:"parts,omitempty"`
	Error      string         `json:"error,omitempty"`
	Started    time.Time      `json:"started"`
	Finished   time.Time      `json:"finished"`
}

// Session represents a conversational container tracking the ordered turn
// history of one user. It is safe for concurrent access.
//
// Contract:
//   - AddTurn updates the Updated timestamp
//   - GetTurns returns a defensive copy to avoid external mutation
//   - Clone performs deep copies of maps/slices for safe divergence.
type Session struct {
	ID       string            `json:"id"`
	Turns    []TurnRecord      `json:"turns"`
	Created  time.Time         `json:"created"`
	Updated  time.Time         `json:"updated"`
	Metadata map[string]string `json:"metadata"`
	mu       sync.RWMutex
}

// NewSession creates a new session with the given ID.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{ID: id, Turns: []TurnRecord{}, Created: now, Updated: now, Metadata: map[string]string{}}
}

// AddTurn appends a turn record to the history updating Updated timestamp.
func (s *Session) AddTurn(rec TurnRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Turns = append(s.Turns, rec)
	s.Updated = time.Now()
}

// GetTurns returns a defensive copy of the turn history.
func (s *Session) GetTurns() []TurnRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := make([]TurnRecord, len(s.Turns))
	copy(turns, s.Turns)
	return turns
}

// LastTurn returns the most recent turn record, if any.
func (s *Session) LastTurn() (TurnRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.Turns) == 0 {
		return TurnRecord{}, false
	}
	return s.Turns[len(s.Turns)-1], true
}

// ClearTurns drops the turn history.
func (s *Session) ClearTurns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Turns = []TurnRecord{}
	s.Updated = time.Now()
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{ID: s.ID, Turns: make([]TurnRecord, len(s.Turns)), Created: s.Created, Updated: s.Updated, Metadata: make(map[string]string, len(s.Metadata))}
	copy(clone.Turns, s.Turns)
	for k, v := range s.Metadata {
		clone.Metadata[k] = v
	}
	return clone
}

// SessionStore persists sessions and their turn history.
type SessionStore interface {
	Create(id string) (*Session, error)
	// Get returns the session, creating it if it does not exist.
	Get(id string) (*Session, error)
	// Lookup returns an existing session or ErrSessionNotFound.
	Lookup(id string) (*Session, error)
	AppendTurn(sessionID string, rec TurnRecord) error
	Clear(sessionID string) error
}
