package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/ragstream/core"
)

// StreamBuilder provides a fluent helper for constructing encoded answer
// streams in tests. Example:
//
//	raw := NewStreamBuilder().ThinkingStart("analyzing", 0).AnswerComplete(ans).Bytes()
//
// Records are written in the "data: <json>\n" wire form unless Raw is used.
type StreamBuilder struct {
	records [][]byte
}

// NewStreamBuilder creates an empty builder.
func NewStreamBuilder() *StreamBuilder { return &StreamBuilder{} }

// Event appends an encoded event record (chainable).
func (b *StreamBuilder) Event(ev core.Event) *StreamBuilder {
	raw, err := json.Marshal(ev)
	if err != nil {
		panic(fmt.Sprintf("testutil: marshal event: %v", err))
	}
	b.records = append(b.records, []byte("data: "+string(raw)+"\n"))
	return b
}

// Raw appends a record verbatim; the caller controls the terminator (chainable).
func (b *StreamBuilder) Raw(s string) *StreamBuilder {
	b.records = append(b.records, []byte(s))
	return b
}

// Malformed appends a terminated record whose body is not valid JSON (chainable).
func (b *StreamBuilder) Malformed() *StreamBuilder {
	return b.Raw("data: {\"type\": \"thinking_update\", \"progress\": \n")
}

// ThinkingStart appends a thinking_start event (chainable).
func (b *StreamBuilder) ThinkingStart(message string, progress int) *StreamBuilder {
	return b.Event(core.NewThinkingEvent(core.EventThinkingStart, "analyzing_query", message, progress))
}

// ThinkingUpdate appends a thinking_update event (chainable).
func (b *StreamBuilder) ThinkingUpdate(message string, progress int) *StreamBuilder {
	return b.Event(core.NewThinkingEvent(core.EventThinkingUpdate, "", message, progress))
}

// ThinkingComplete appends a thinking_complete event (chainable).
func (b *StreamBuilder) ThinkingComplete(message string) *StreamBuilder {
	return b.Event(core.NewThinkingEvent(core.EventThinkingComplete, "generating_answer", message, 100))
}

// AnswerStart appends an answer_start event (chainable).
func (b *StreamBuilder) AnswerStart() *StreamBuilder {
	return b.Event(core.Event{Type: core.EventAnswerStart, Message: "generating"})
}

// AnswerComplete appends an answer_complete event (chainable).
func (b *StreamBuilder) AnswerComplete(ans core.UnifiedAnswer) *StreamBuilder {
	return b.Event(core.NewAnswerCompleteEvent(ans))
}

// Chunk appends a legacy chunk event (chainable).
func (b *StreamBuilder) Chunk(text string) *StreamBuilder {
	return b.Event(core.NewChunkEvent(text))
}

// Error appends an upstream error event (chainable).
func (b *StreamBuilder) Error(message string) *StreamBuilder {
	return b.Event(core.NewErrorEvent(message))
}

// Done appends the done marker (chainable).
func (b *StreamBuilder) Done() *StreamBuilder {
	return b.Raw("data: [DONE]\n")
}

// Bytes returns the concatenated stream.
func (b *StreamBuilder) Bytes() []byte {
	var out []byte
	for _, r := range b.records {
		out = append(out, r...)
	}
	return out
}

// String returns the concatenated stream as text.
func (b *StreamBuilder) String() string { return string(b.Bytes()) }

// SampleAnswer returns a unified answer with one image placeholder.
func SampleAnswer() core.UnifiedAnswer {
	return core.UnifiedAnswer{
		TextContent: "A [IMAGE:1] B",
		MultimediaMap: map[string]core.MultimediaItem{
			"1": {Type: core.MediaImage, ChunkID: "1", ContentDescription: "diagram"},
		},
	}
}
