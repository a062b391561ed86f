package core

import (
	"encoding/json"
	"fmt"
)

// EventType discriminates the records of the answer stream.
type EventType string

const (
	// EventThinkingStart opens the thinking phase of a turn.
	EventThinkingStart EventType = "thinking_start"
	// EventThinkingUpdate reports an intermediate thinking stage.
	EventThinkingUpdate EventType = "thinking_update"
	// EventThinkingComplete closes the thinking phase.
	EventThinkingComplete EventType = "thinking_complete"
	// EventMultimediaContent carries a multimedia list for the legacy rendering path.
	EventMultimediaContent EventType = "multimedia_content"
	// EventAnswerStart announces that answer generation has begun.
	EventAnswerStart EventType = "answer_start"
	// EventAnswerComplete carries the unified answer of the turn.
	EventAnswerComplete EventType = "answer_complete"
	// EventError reports an upstream failure; terminal for the turn.
	EventError EventType = "error"
	// EventChunk appends raw answer text (legacy protocol variant).
	EventChunk EventType = "chunk"
)

// Known reports whether t is one of the protocol event types.
func (t EventType) Known() bool {
	switch t {
	case EventThinkingStart, EventThinkingUpdate, EventThinkingComplete,
		EventMultimediaContent, EventAnswerStart, EventAnswerComplete,
		EventError, EventChunk:
		return true
	default:
		return false
	}
}

// ProgressData holds the optional structured counts attached to thinking
// events. Absent counts stay nil so they can be told apart from zero.
type ProgressData struct {
	VectorCount     *int     `json:"vector_count,omitempty"`
	GraphCount      *int     `json:"graph_count,omitempty"`
	TotalResults    *int     `json:"total_results,omitempty"`
	MultimediaCount *int     `json:"multimedia_count,omitempty"`
	ContentTypes    []string `json:"content_types,omitempty"`
}

// Event is one typed record of the answer stream. It is produced by the
// stream decoder and must be treated as immutable after emission.
//
// Which payload fields are meaningful depends on Type:
//   - thinking_*: Stage, Message, Progress, Data
//   - multimedia_content: Contents
//   - answer_start: Message (informational)
//   - answer_complete: Answer
//   - error: Message
//   - chunk: Text
//
// Seq is the zero-based position of the event within its stream. It is
// assigned by the decoder and never serialised.
type Event struct {
	Seq      int              `json:"-"`
	Type     EventType        `json:"type"`
	Stage    string           `json:"stage,omitempty"`
	Message  string           `json:"message,omitempty"`
	Progress *int             `json:"progress,omitempty"`
	Data     *ProgressData    `json:"data,omitempty"`
	Contents []MultimediaItem `json:"contents,omitempty"`
	Answer   *UnifiedAnswer   `json:"-"`
	Text     string           `json:"-"`
}

// wireEvent mirrors Event on the wire. The "content" key is overloaded by the
// protocol: a UnifiedAnswer object for answer_complete, a text string for the
// legacy chunk event.
type wireEvent struct {
	Type     EventType        `json:"type"`
	Stage    string           `json:"stage,omitempty"`
	Message  string           `json:"message,omitempty"`
	Progress *int             `json:"progress,omitempty"`
	Data     *ProgressData    `json:"data,omitempty"`
	Contents []MultimediaItem `json:"contents,omitempty"`
	Content  json.RawMessage  `json:"content,omitempty"`
}

// UnmarshalJSON decodes a protocol record. A record without a type
// discriminator is rejected.
func (e *Event) UnmarshalJSON(b []byte) error {
	var w wireEvent
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if w.Type == "" {
		return fmt.Errorf("event: missing type discriminator")
	}

	ev := Event{
		Type:     w.Type,
		Stage:    w.Stage,
		Message:  w.Message,
		Progress: w.Progress,
		Data:     w.Data,
		Contents: w.Contents,
	}

	if len(w.Content) > 0 && string(w.Content) != "null" {
		switch w.Type {
		case EventAnswerComplete:
			var ans UnifiedAnswer
			if err := json.Unmarshal(w.Content, &ans); err != nil {
				return fmt.Errorf("event: decode answer content: %w", err)
			}
			ev.Answer = &ans
		case EventChunk:
			if err := json.Unmarshal(w.Content, &ev.Text); err != nil {
				return fmt.Errorf("event: decode chunk content: %w", err)
			}
		}
	}

	*e = ev
	return nil
}

// MarshalJSON encodes the event in its wire form.
func (e Event) MarshalJSON() ([]byte, error) {
	w := wireEvent{
		Type:     e.Type,
		Stage:    e.Stage,
		Message:  e.Message,
		Progress: e.Progress,
		Data:     e.Data,
		Contents: e.Contents,
	}

	switch {
	case e.Type == EventAnswerComplete && e.Answer != nil:
		raw, err := json.Marshal(e.Answer)
		if err != nil {
			return nil, err
		}
		w.Content = raw
	case e.Type == EventChunk:
		raw, err := json.Marshal(e.Text)
		if err != nil {
			return nil, err
		}
		w.Content = raw
	}

	return json.Marshal(w)
}

// ProgressValue returns the progress percentage and whether it was present.
func (e Event) ProgressValue() (int, bool) {
	if e.Progress == nil {
		return 0, false
	}
	return *e.Progress, true
}

// IsTerminal reports whether the event ends its turn.
func (e Event) IsTerminal() bool {
	return e.Type == EventAnswerComplete || e.Type == EventError
}

// NewThinkingEvent constructs a thinking_* event with a progress percentage.
func NewThinkingEvent(t EventType, stage, message string, progress int) Event {
	return Event{Type: t, Stage: stage, Message: message, Progress: &progress}
}

// NewAnswerCompleteEvent wraps a unified answer into an answer_complete event.
func NewAnswerCompleteEvent(answer UnifiedAnswer) Event {
	return Event{Type: EventAnswerComplete, Answer: &answer}
}

// NewErrorEvent constructs an upstream error event.
func NewErrorEvent(message string) Event {
	return Event{Type: EventError, Message: message}
}

// NewChunkEvent constructs a legacy chunk event.
func NewChunkEvent(text string) Event {
	return Event{Type: EventChunk, Text: text}
}

// Progress is the visible thinking record of a turn.
type Progress struct {
	Stage   string        `json:"stage,omitempty"`
	Message string        `json:"message"`
	Percent int           `json:"percent"`
	Data    *ProgressData `json:"data,omitempty"`
}
