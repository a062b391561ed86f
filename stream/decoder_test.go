package stream

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/ragstream/core"
	"github.com/hupe1980/ragstream/internal/testutil"
)

func TestDecoder_Decode(t *testing.T) {
	data := sampleStream()
	dec := NewDecoder()

	events, err := Collect(dec.Decode(context.Background(), testutil.NewFragmentReader(data, testutil.Split(data, 7)...)))

	require.NoError(t, err)
	require.Len(t, events, 5)
	assert.Equal(t, core.EventAnswerComplete, events[4].Type)
}

func TestDecoder_MatchesFramer(t *testing.T) {
	data := sampleStream()
	want, _ := frameAll(t, data, []int{len(data)})

	for _, size := range []int{1, 2, 3, 13, 64, len(data)} {
		got, err := Collect(NewDecoder().Decode(context.Background(), testutil.NewFragmentReader(data, testutil.Split(data, size)...)))
		require.NoError(t, err)
		assert.Equal(t, want, got, "size %d", size)
	}
}

func TestDecoder_Diagnostics(t *testing.T) {
	data := testutil.NewStreamBuilder().
		ThinkingStart("analyzing", 10).
		Malformed().
		AnswerComplete(testutil.SampleAnswer()).
		Bytes()

	var (
		mu    sync.Mutex
		diags []Diagnostic
	)
	dec := NewDecoder(func(o *Options) {
		o.Diagnostics = func(d Diagnostic) {
			mu.Lock()
			defer mu.Unlock()
			diags = append(diags, d)
		}
	})

	events, err := Collect(dec.Decode(context.Background(), bytes.NewReader(data)))

	require.NoError(t, err)
	assert.Len(t, events, 2)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, diags, 1)
	assert.ErrorIs(t, diags[0].Err, ErrMalformedRecord)
}

func TestDecoder_TrailingRemainderNoError(t *testing.T) {
	data := append(testutil.NewStreamBuilder().AnswerStart().Bytes(), []byte(`data: {"type":"answer_complete"`)...)

	events, err := Collect(NewDecoder().Decode(context.Background(), bytes.NewReader(data)))

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, core.EventAnswerStart, events[0].Type)
}

func TestDecoder_TransportError(t *testing.T) {
	data := testutil.NewStreamBuilder().ThinkingStart("analyzing", 10).Bytes()
	boom := errors.New("connection reset")
	r := testutil.NewFragmentReader(data).FailWith(boom)

	events, errs := NewDecoder().Decode(context.Background(), r)

	var got []core.Event
	for ev := range events {
		got = append(got, ev)
	}
	var all []error
	for err := range errs {
		all = append(all, err)
	}

	assert.Len(t, got, 1)
	require.Len(t, all, 1)
	assert.ErrorIs(t, all[0], ErrTransport)
	assert.ErrorIs(t, all[0], boom)
}

func TestDecoder_DoneStopsReading(t *testing.T) {
	data := testutil.NewStreamBuilder().AnswerStart().Done().Bytes()
	r := &testutil.ClosingReader{Reader: io.MultiReader(bytes.NewReader(data), strings.NewReader("data: {\"type\":\"error\"}\n"))}

	events, err := Collect(NewDecoder(func(o *Options) { o.ReadSize = len(data) }).Decode(context.Background(), r))

	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.True(t, r.Closed())
}

func TestDecoder_ClosesReader(t *testing.T) {
	r := &testutil.ClosingReader{Reader: bytes.NewReader(sampleStream())}

	_, err := Collect(NewDecoder().Decode(context.Background(), r))

	require.NoError(t, err)
	assert.True(t, r.Closed())
}

func TestDecoder_ContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	ctx, cancel := context.WithCancel(context.Background())

	events, errs := NewDecoder().Decode(ctx, pr)

	_, err := pw.Write(testutil.NewStreamBuilder().ThinkingStart("analyzing", 5).Bytes())
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, core.EventThinkingStart, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("expected first event")
	}

	cancel()
	pw.CloseWithError(context.Canceled)

	_, err = Collect(events, errs)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEncode_RoundTripThroughDecoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, core.NewThinkingEvent(core.EventThinkingUpdate, "searching", "looking", 55)))
	require.NoError(t, Encode(&buf, core.NewChunkEvent("partial")))
	require.NoError(t, EncodeDone(&buf))

	assert.True(t, strings.HasPrefix(buf.String(), "data: {"))

	events, err := Collect(NewDecoder().Decode(context.Background(), &buf))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "searching", events[0].Stage)
	assert.Equal(t, "partial", events[1].Text)
}
