package session

import (
	"fmt"
	"sync"

	"github.com/hupe1980/ragstream/core"
)

// DefaultMaxTurns bounds the history kept per session.
const DefaultMaxTurns = 10

// Options configure an InMemoryStore.
type Options struct {
	// MaxTurns is the number of most recent turns kept per session. Zero or
	// less keeps everything.
	MaxTurns int
}

// InMemoryStore is a volatile SessionStore implementation storing sessions
// in a process local map. It is safe for concurrent access. Each returned
// session is cloned to prevent external mutation of internal state.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
	opts     Options
}

// NewInMemoryStore constructs an empty in‑memory session store.
func NewInMemoryStore(optFns ...func(o *Options)) *InMemoryStore {
	opts := Options{MaxTurns: DefaultMaxTurns}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &InMemoryStore{sessions: make(map[string]*core.Session), opts: opts}
}

// Get returns an existing session (clone) or creates a new one lazily.
func (s *InMemoryStore) Get(sessionID string) (*core.Session, error) {
	s.mu.RLock()
	if session, ok := s.sessions[sessionID]; ok {
		defer s.mu.RUnlock()
		return session.Clone(), nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[sessionID]; ok {
		return session.Clone(), nil
	}
	return s.createSessionLocked(sessionID).Clone(), nil
}

// Lookup returns a clone of an existing session without creating one.
func (s *InMemoryStore) Lookup(sessionID string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrSessionNotFound, sessionID)
	}
	return session.Clone(), nil
}

// Create forces the creation (or overwriting) of a session with the given
// id. An empty id generates one.
func (s *InMemoryStore) Create(sessionID string) (*core.Session, error) {
	if sessionID == "" {
		sessionID = core.NewID()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createSessionLocked(sessionID).Clone(), nil
}

// AppendTurn adds a turn record to an existing or newly created session,
// dropping the oldest turns beyond MaxTurns.
func (s *InMemoryStore) AppendTurn(sessionID string, rec core.TurnRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = s.createSessionLocked(sessionID)
	}
	sess.AddTurn(rec)
	if s.opts.MaxTurns > 0 {
		turns := sess.GetTurns()
		if len(turns) > s.opts.MaxTurns {
			trimmed := sess.Clone()
			trimmed.Turns = turns[len(turns)-s.opts.MaxTurns:]
			s.sessions[sessionID] = trimmed
		}
	}
	return nil
}

// Clear drops the turn history of a session. Unknown sessions are a no-op.
func (s *InMemoryStore) Clear(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		sess.ClearTurns()
	}
	return nil
}

// Delete removes a session entirely.
func (s *InMemoryStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// createSessionLocked allocates and stores a new session; caller must already
// hold the write lock.
func (s *InMemoryStore) createSessionLocked(sessionID string) *core.Session {
	sess := core.NewSession(sessionID)
	s.sessions[sessionID] = sess
	return sess
}
