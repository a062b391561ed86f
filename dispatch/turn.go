package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/ragstream/assemble"
	"github.com/hupe1980/ragstream/core"
	"github.com/hupe1980/ragstream/logging"
)

// DefaultFallbackMessage is shown to the user when a turn fails.
const DefaultFallbackMessage = "Sorry, an error occurred while generating the answer. Please try again."

var (
	// ErrUpstream wraps the message of an explicit error event.
	ErrUpstream = errors.New("upstream error")
	// ErrIncompleteStream is recorded when the stream ends before the turn
	// reached a terminal state.
	ErrIncompleteStream = errors.New("stream ended before the answer completed")
	// ErrMissingAnswer is recorded when answer_complete carries no answer.
	ErrMissingAnswer = errors.New("answer_complete without content")
)

// Options configure a Turn.
type Options struct {
	// ThinkingDelay is the presentational pause between thinking_complete and
	// opening the answer placeholder. Zero opens it immediately.
	ThinkingDelay time.Duration
	// Observer receives presentation hooks.
	Observer Observer
	// Logger receives debug output about applied events.
	Logger logging.Logger
	// Assemble turns the unified answer into content parts.
	Assemble func(core.UnifiedAnswer) []core.Part
	// FallbackMessage is the user-visible message of a failed turn.
	FallbackMessage string
}

// Snapshot is a copy of a turn's visible state.
type Snapshot struct {
	ID              string
	State           core.TurnState
	Progress        *core.Progress
	ThinkingMessage string
	AnswerOpen      bool
	AnswerText      string
	Multimedia      []core.MultimediaItem
	Answer          *core.UnifiedAnswer
	Parts           []core.Part
	ErrorMessage    string
	Err             error
	Applied         int
	Discarded       bool
	Started         time.Time
	Finished        time.Time
}

// Turn owns the mutable state of one question/response cycle.
type Turn struct {
	id   string
	opts Options

	mu              sync.Mutex
	state           core.TurnState
	progress        *core.Progress
	thinkingMessage string
	pendingOpen     bool
	answerOpen      bool
	buffer          strings.Builder
	multimedia      []core.MultimediaItem
	answer          *core.UnifiedAnswer
	parts           []core.Part
	errMessage      string
	err             error
	applied         int
	started         time.Time
	finished        time.Time

	discarded atomic.Bool
}

// NewTurn creates an idle turn.
func NewTurn(id string, optFns ...func(o *Options)) *Turn {
	opts := Options{
		ThinkingDelay:   500 * time.Millisecond,
		Observer:        NoOpObserver{},
		Logger:          logging.NoOpLogger{},
		Assemble:        assemble.Assemble,
		FallbackMessage: DefaultFallbackMessage,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.ThinkingDelay < 0 {
		opts.ThinkingDelay = 0
	}
	if opts.Observer == nil {
		opts.Observer = NoOpObserver{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Assemble == nil {
		opts.Assemble = assemble.Assemble
	}
	if opts.FallbackMessage == "" {
		opts.FallbackMessage = DefaultFallbackMessage
	}

	if id == "" {
		id = core.NewID()
	}

	return &Turn{id: id, opts: opts, state: core.TurnIdle, started: time.Now()}
}

// ID returns the turn identifier.
func (t *Turn) ID() string { return t.id }

// State returns the current state.
func (t *Turn) State() core.TurnState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Err returns the recorded failure, or nil.
func (t *Turn) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Pending reports whether the answer placeholder is scheduled but not open.
func (t *Turn) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pendingOpen
}

// Discard abandons the turn. Every later event, failure or timer is ignored.
func (t *Turn) Discard() { t.discarded.Store(true) }

// Discarded reports whether Discard was called.
func (t *Turn) Discarded() bool { return t.discarded.Load() }

// Apply applies one event and reports whether it changed the turn. Events
// for a terminal or discarded turn and events of unknown type are ignored.
func (t *Turn) Apply(ev core.Event) bool {
	if t.discarded.Load() {
		return false
	}

	t.mu.Lock()
	if t.state.Terminal() {
		t.mu.Unlock()
		t.opts.Logger.Debug("ignoring event for closed turn", "turn_id", t.id, "type", ev.Type, "seq", ev.Seq)
		return false
	}

	var notify []func()
	changed := true

	switch ev.Type {
	case core.EventThinkingStart, core.EventThinkingUpdate:
		p := t.updateProgress(ev)
		t.state = core.TurnThinking
		notify = append(notify, func() { t.opts.Observer.OnProgress(t.id, p) })

	case core.EventThinkingComplete:
		t.updateProgress(ev)
		t.thinkingMessage = ev.Message
		if t.state == core.TurnIdle {
			t.state = core.TurnThinking
		}
		msg := ev.Message
		notify = append(notify, func() { t.opts.Observer.OnThinkingComplete(t.id, msg) })
		if !t.answerOpen {
			t.pendingOpen = true
			if t.opts.ThinkingDelay == 0 {
				notify = append(notify, t.openAnswer()...)
			}
		}

	case core.EventMultimediaContent:
		t.multimedia = append([]core.MultimediaItem(nil), ev.Contents...)
		items := t.multimedia
		notify = append(notify, func() { t.opts.Observer.OnMultimedia(t.id, items) })

	case core.EventAnswerStart:
		notify = append(notify, t.openAnswer()...)

	case core.EventChunk:
		notify = append(notify, t.openAnswer()...)
		t.buffer.WriteString(ev.Text)
		text := ev.Text
		notify = append(notify, func() { t.opts.Observer.OnChunk(t.id, text) })

	case core.EventAnswerComplete:
		if ev.Answer == nil {
			notify = append(notify, t.fail(ErrMissingAnswer)...)
			break
		}
		notify = append(notify, t.openAnswer()...)
		answer := *ev.Answer
		parts := t.opts.Assemble(answer)
		t.answer = &answer
		t.parts = parts
		t.state = core.TurnComplete
		t.finished = time.Now()
		notify = append(notify, func() { t.opts.Observer.OnComplete(t.id, answer, parts) })

	case core.EventError:
		notify = append(notify, t.fail(fmt.Errorf("%w: %s", ErrUpstream, ev.Message))...)

	default:
		changed = false
		t.opts.Logger.Debug("ignoring unknown event type", "turn_id", t.id, "type", ev.Type, "seq", ev.Seq)
	}

	if changed {
		t.applied++
	}
	t.mu.Unlock()

	for _, fn := range notify {
		fn()
	}
	return changed
}

// OpenAnswer opens the answer placeholder scheduled by thinking_complete. It
// is a no-op when nothing is pending.
func (t *Turn) OpenAnswer() {
	if t.discarded.Load() {
		return
	}

	t.mu.Lock()
	var notify []func()
	if t.pendingOpen && !t.state.Terminal() {
		notify = t.openAnswer()
	}
	t.mu.Unlock()

	for _, fn := range notify {
		fn()
	}
}

// Fail moves the turn to ERROR with err as the cause. It reports false when
// the turn was already terminal or discarded, so a failure is recorded at most
// once.
func (t *Turn) Fail(err error) bool {
	if t.discarded.Load() {
		return false
	}

	t.mu.Lock()
	if t.state.Terminal() {
		t.mu.Unlock()
		return false
	}
	notify := t.fail(err)
	t.mu.Unlock()

	for _, fn := range notify {
		fn()
	}
	return true
}

// Run applies events until the turn is terminal or discarded, the streams
// are exhausted or ctx is cancelled. A failure on errs, cancellation or a
// stream that closes before a terminal event fails the turn. Run returns the
// turn's recorded failure, or nil when the turn completed or was discarded.
//
// errs is read only after events is closed, so every event delivered before
// a failure is applied first. Run stops reading once the turn is closed;
// callers cancel the producer's context to release it.
func (t *Turn) Run(ctx context.Context, events <-chan core.Event, errs <-chan error) error {
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for events != nil || errs != nil {
		if t.closed() {
			return t.result()
		}

		var errC <-chan error
		if events == nil {
			errC = errs
		}

		select {
		case <-ctx.Done():
			t.Fail(ctx.Err())
			return t.result()

		case <-timerC:
			timerC = nil
			t.OpenAnswer()

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			t.Apply(ev)
			if timerC == nil && t.Pending() {
				if timer == nil {
					timer = time.NewTimer(t.opts.ThinkingDelay)
				} else {
					timer.Reset(t.opts.ThinkingDelay)
				}
				timerC = timer.C
			}

		case err, ok := <-errC:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				t.Fail(err)
			}
		}
	}

	if !t.closed() {
		t.Fail(ErrIncompleteStream)
	}
	return t.result()
}

// Snapshot returns a copy of the visible turn state.
func (t *Turn) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Snapshot{
		ID:              t.id,
		State:           t.state,
		ThinkingMessage: t.thinkingMessage,
		AnswerOpen:      t.answerOpen,
		AnswerText:      t.buffer.String(),
		ErrorMessage:    t.errMessage,
		Err:             t.err,
		Applied:         t.applied,
		Discarded:       t.discarded.Load(),
		Started:         t.started,
		Finished:        t.finished,
	}
	if t.progress != nil {
		p := *t.progress
		s.Progress = &p
	}
	if t.multimedia != nil {
		s.Multimedia = append([]core.MultimediaItem(nil), t.multimedia...)
	}
	if t.answer != nil {
		a := *t.answer
		s.Answer = &a
	}
	if t.parts != nil {
		s.Parts = append([]core.Part(nil), t.parts...)
	}
	return s
}

// Record converts the turn into a session history entry.
func (t *Turn) Record(question string) core.TurnRecord {
	s := t.Snapshot()
	rec := core.TurnRecord{
		ID:         s.ID,
		Question:   question,
		State:      s.State,
		AnswerText: s.AnswerText,
		Answer:     s.Answer,
		Parts:      s.Parts,
		Started:    s.Started,
		Finished:   s.Finished,
	}
	if s.Answer != nil && rec.AnswerText == "" {
		rec.AnswerText = s.Answer.TextContent
	}
	if s.Err != nil {
		rec.Error = s.Err.Error()
	}
	if rec.Finished.IsZero() {
		rec.Finished = time.Now()
	}
	return rec
}

func (t *Turn) closed() bool {
	return t.discarded.Load() || t.State().Terminal()
}

func (t *Turn) result() error {
	if t.discarded.Load() {
		return nil
	}
	return t.Err()
}

// updateProgress must be called with t.mu held.
func (t *Turn) updateProgress(ev core.Event) core.Progress {
	var p core.Progress
	if t.progress != nil {
		p = *t.progress
	}
	if ev.Stage != "" {
		p.Stage = ev.Stage
	}
	if ev.Message != "" {
		p.Message = ev.Message
	}
	if v, ok := ev.ProgressValue(); ok {
		p.Percent = v
	}
	if ev.Data != nil {
		p.Data = ev.Data
	}
	t.progress = &p
	return p
}

// openAnswer must be called with t.mu held.
func (t *Turn) openAnswer() []func() {
	t.pendingOpen = false
	t.state = core.TurnAnswering
	if t.answerOpen {
		return nil
	}
	t.answerOpen = true
	t.progress = nil
	return []func(){func() { t.opts.Observer.OnAnswerOpened(t.id) }}
}

// fail must be called with t.mu held.
func (t *Turn) fail(err error) []func() {
	t.state = core.TurnError
	t.pendingOpen = false
	t.err = err
	t.errMessage = t.opts.FallbackMessage
	t.finished = time.Now()
	t.opts.Logger.Debug("turn failed", "turn_id", t.id, "error", err)
	msg := t.errMessage
	return []func(){func() { t.opts.Observer.OnError(t.id, msg, err) }}
}
