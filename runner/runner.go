package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/ragstream/core"
	"github.com/hupe1980/ragstream/dispatch"
	"github.com/hupe1980/ragstream/logging"
	"github.com/hupe1980/ragstream/session"
)

// ErrEmptyQuestion is returned for blank questions.
var ErrEmptyQuestion = errors.New("runner: empty question")

// Source opens the answer stream of a question. *client.SearchService
// satisfies it.
type Source interface {
	Stream(ctx context.Context, query, sessionID string) (<-chan core.Event, <-chan error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, query, sessionID string) (<-chan core.Event, <-chan error)

// Stream implements Source.
func (fn SourceFunc) Stream(ctx context.Context, query, sessionID string) (<-chan core.Event, <-chan error) {
	return fn(ctx, query, sessionID)
}

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// ThinkingDelay is passed to every turn, see dispatch.Options.
	ThinkingDelay time.Duration
	// Observer receives the presentation hooks of every turn.
	Observer dispatch.Observer
	// FallbackMessage is the user-visible message of a failed turn.
	FallbackMessage string
	// SessionStore records finished turns.
	SessionStore core.SessionStore
	// Logger receives turn lifecycle output.
	Logger logging.Logger
}

// Result is the outcome of one Ask.
type Result struct {
	SessionID string
	Turn      dispatch.Snapshot
}

// State returns the final turn state.
func (r *Result) State() core.TurnState { return r.Turn.State }

// Parts returns the assembled content of a completed turn.
func (r *Result) Parts() []core.Part { return r.Turn.Parts }

// Runner coordinates turns. Public methods are safe for concurrent use.
type Runner struct {
	source Source

	thinkingDelay   time.Duration
	observer        dispatch.Observer
	fallbackMessage string

	sessionStore core.SessionStore
	logger       logging.Logger

	activeRuns map[string]*activeTurn
	mu         sync.RWMutex
}

type activeTurn struct {
	turn   *dispatch.Turn
	cancel context.CancelFunc
}

// New constructs a Runner with optional overrides.
func New(source Source, optFns ...func(o *Options)) *Runner {
	opts := Options{
		ThinkingDelay:   500 * time.Millisecond,
		Observer:        dispatch.NoOpObserver{},
		FallbackMessage: dispatch.DefaultFallbackMessage,
		SessionStore:    session.NewInMemoryStore(),
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.SessionStore == nil {
		opts.SessionStore = session.NewInMemoryStore()
	}

	return &Runner{
		source:          source,
		thinkingDelay:   opts.ThinkingDelay,
		observer:        opts.Observer,
		fallbackMessage: opts.FallbackMessage,
		sessionStore:    opts.SessionStore,
		logger:          opts.Logger,
		activeRuns:      make(map[string]*activeTurn),
	}
}

// NewSession creates an empty session and returns its id.
func (r *Runner) NewSession() (string, error) {
	sess, err := r.sessionStore.Create(core.NewID())
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return sess.ID, nil
}

// Ask runs one turn to completion. An empty sessionID creates a new
// session. The returned Result is non-nil whenever the turn started; the
// error is the turn's failure (upstream error, transport failure, early end
// of stream or cancellation). A turn discarded through Cancel returns a nil
// error and is not recorded in the session history.
func (r *Runner) Ask(ctx context.Context, sessionID, question string) (*Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	if sessionID == "" {
		id, err := r.NewSession()
		if err != nil {
			return nil, err
		}
		sessionID = id
	} else if _, err := r.sessionStore.Get(sessionID); err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	turnID := core.NewID()
	turnLogger := r.logger
	if cl, ok := turnLogger.(*logging.ClientLogger); ok {
		turnLogger = cl.WithSession(sessionID, turnID)
	}
	turn := dispatch.NewTurn(turnID, func(o *dispatch.Options) {
		o.ThinkingDelay = r.thinkingDelay
		o.Observer = r.observer
		o.Logger = turnLogger
		o.FallbackMessage = r.fallbackMessage
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.mu.Lock()
	r.activeRuns[turnID] = &activeTurn{turn: turn, cancel: cancel}
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		delete(r.activeRuns, turnID)
		r.mu.Unlock()
	}()

	r.logger.Debug("turn started", "session_id", sessionID, "turn_id", turnID)

	events, errs := r.source.Stream(ctx, question, sessionID)
	runErr := turn.Run(ctx, events, errs)

	res := &Result{SessionID: sessionID, Turn: turn.Snapshot()}
	if turn.Discarded() {
		r.logger.Debug("turn discarded", "session_id", sessionID, "turn_id", turnID)
		return res, nil
	}

	if err := r.sessionStore.AppendTurn(sessionID, turn.Record(question)); err != nil {
		r.logger.Warn("failed to record turn", "session_id", sessionID, "turn_id", turnID, "error", err)
	}

	if runErr != nil {
		r.logger.Warn("turn failed", "session_id", sessionID, "turn_id", turnID, "error", runErr)
		return res, runErr
	}

	r.logger.Info("turn completed",
		"session_id", sessionID,
		"turn_id", turnID,
		"parts", len(res.Turn.Parts),
		"duration", res.Turn.Finished.Sub(res.Turn.Started),
	)
	return res, nil
}

// Cancel discards a running turn by ID and releases its stream.
func (r *Runner) Cancel(turnID string) error {
	r.mu.RLock()
	run, exists := r.activeRuns[turnID]
	r.mu.RUnlock()

	if !exists {
		return fmt.Errorf("turn %s not found", turnID)
	}

	run.turn.Discard()
	run.cancel()

	return nil
}

// Active returns the ids of the turns currently running.
func (r *Runner) Active() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.activeRuns))
	for id := range r.activeRuns {
		ids = append(ids, id)
	}
	return ids
}

// History returns the recorded turns of a session. Unknown sessions yield
// an error wrapping core.ErrSessionNotFound.
func (r *Runner) History(sessionID string) ([]core.TurnRecord, error) {
	sess, err := r.sessionStore.Lookup(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sess.GetTurns(), nil
}

// ClearHistory drops the recorded turns of a session.
func (r *Runner) ClearHistory(sessionID string) error {
	return r.sessionStore.Clear(sessionID)
}
