package stream

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/ragstream/core"
	"github.com/hupe1980/ragstream/internal/testutil"
)

func sampleStream() []byte {
	return testutil.NewStreamBuilder().
		ThinkingStart("analyzing", 10).
		ThinkingUpdate("retrieving", 40).
		ThinkingComplete("done").
		AnswerStart().
		AnswerComplete(testutil.SampleAnswer()).
		Bytes()
}

func frameAll(t *testing.T, data []byte, sizes []int) ([]core.Event, []Diagnostic) {
	t.Helper()
	f := NewFramer(DefaultPrefix, DefaultSeparator)
	var (
		events []core.Event
		diags  []Diagnostic
	)
	for _, n := range sizes {
		ev, d := f.Push(data[:n])
		data = data[n:]
		events = append(events, ev...)
		diags = append(diags, d...)
	}
	require.Empty(t, data)
	f.Close()
	return events, diags
}

func TestFramer_SingleFragment(t *testing.T) {
	data := sampleStream()
	events, diags := frameAll(t, data, []int{len(data)})

	require.Len(t, events, 5)
	assert.Empty(t, diags)
	assert.Equal(t, core.EventThinkingStart, events[0].Type)
	assert.Equal(t, core.EventThinkingUpdate, events[1].Type)
	assert.Equal(t, core.EventThinkingComplete, events[2].Type)
	assert.Equal(t, core.EventAnswerStart, events[3].Type)
	assert.Equal(t, core.EventAnswerComplete, events[4].Type)

	for i, ev := range events {
		assert.Equal(t, i, ev.Seq)
	}

	p, ok := events[1].ProgressValue()
	require.True(t, ok)
	assert.Equal(t, 40, p)
	require.NotNil(t, events[4].Answer)
	assert.Equal(t, "A [IMAGE:1] B", events[4].Answer.TextContent)
}

func TestFramer_ChunkBoundaryIndependence(t *testing.T) {
	data := sampleStream()
	want, _ := frameAll(t, data, []int{len(data)})

	for size := 1; size <= len(data); size++ {
		got, diags := frameAll(t, data, testutil.Split(data, size))
		require.Empty(t, diags, "size %d", size)
		require.Equal(t, want, got, "size %d", size)
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		var sizes []int
		for rest := len(data); rest > 0; {
			n := 1 + rng.Intn(rest)
			sizes = append(sizes, n)
			rest -= n
		}
		got, _ := frameAll(t, data, sizes)
		require.Equal(t, want, got, "sizes %v", sizes)
	}
}

func TestFramer_MalformedRecordIsolation(t *testing.T) {
	data := testutil.NewStreamBuilder().
		ThinkingStart("analyzing", 10).
		Malformed().
		ThinkingUpdate("retrieving", 40).
		Bytes()

	events, diags := frameAll(t, data, []int{len(data)})

	require.Len(t, events, 2)
	assert.Equal(t, core.EventThinkingStart, events[0].Type)
	assert.Equal(t, core.EventThinkingUpdate, events[1].Type)
	assert.Equal(t, 1, events[1].Seq)

	require.Len(t, diags, 1)
	assert.Equal(t, 1, diags[0].Record)
	assert.ErrorIs(t, diags[0].Err, ErrMalformedRecord)
}

func TestFramer_MissingTypeIsMalformed(t *testing.T) {
	f := NewFramer(DefaultPrefix, DefaultSeparator)
	events, diags := f.Push([]byte("data: {\"message\":\"x\"}\n"))
	assert.Empty(t, events)
	require.Len(t, diags, 1)
	assert.Equal(t, 1, f.Dropped())
}

func TestFramer_PrefixOptional(t *testing.T) {
	f := NewFramer(DefaultPrefix, DefaultSeparator)
	events, diags := f.Push([]byte("{\"type\":\"answer_start\"}\ndata:{\"type\":\"error\",\"message\":\"boom\"}\n"))

	assert.Empty(t, diags)
	require.Len(t, events, 2)
	assert.Equal(t, core.EventAnswerStart, events[0].Type)
	assert.Equal(t, core.EventError, events[1].Type)
	assert.Equal(t, "boom", events[1].Message)
}

func TestFramer_EmptyRecordsSkipped(t *testing.T) {
	f := NewFramer(DefaultPrefix, DefaultSeparator)
	events, diags := f.Push([]byte("\n  \ndata:\n\r\n{\"type\":\"answer_start\"}\n"))

	assert.Empty(t, diags)
	require.Len(t, events, 1)
	assert.Equal(t, 0, events[0].Seq)
}

func TestFramer_TrailingRemainderDiscarded(t *testing.T) {
	f := NewFramer(DefaultPrefix, DefaultSeparator)
	events, _ := f.Push([]byte("data: {\"type\":\"answer_start\"}\ndata: {\"type\":\"error\""))

	require.Len(t, events, 1)
	assert.Equal(t, len(`data: {"type":"error"`), f.Close())
	assert.Equal(t, 1, f.Emitted())
	assert.Equal(t, 0, f.Dropped())
}

func TestFramer_DoneMarker(t *testing.T) {
	data := testutil.NewStreamBuilder().
		AnswerStart().
		Done().
		Error("after done").
		Bytes()

	f := NewFramer(DefaultPrefix, DefaultSeparator)
	events, diags := f.Push(data)

	assert.Empty(t, diags)
	require.Len(t, events, 1)
	assert.True(t, f.Done())

	events, _ = f.Push([]byte("data: {\"type\":\"answer_start\"}\n"))
	assert.Empty(t, events)
}

func TestFramer_ChunkContent(t *testing.T) {
	f := NewFramer(DefaultPrefix, DefaultSeparator)
	events, diags := f.Push(testutil.NewStreamBuilder().Chunk("hello").Bytes())

	assert.Empty(t, diags)
	require.Len(t, events, 1)
	assert.Equal(t, core.EventChunk, events[0].Type)
	assert.Equal(t, "hello", events[0].Text)
}

func TestFramer_CustomSeparator(t *testing.T) {
	f := NewFramer("", 0x1e)
	events, diags := f.Push([]byte("{\"type\":\"answer_start\"}\x1e{\"type\":\"error\"}\x1e"))

	assert.Empty(t, diags)
	require.Len(t, events, 2)
}
