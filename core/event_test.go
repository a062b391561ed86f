package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_UnmarshalThinking(t *testing.T) {
	raw := `{"type":"thinking_update","stage":"vector_search_complete","message":"found 3","progress":40,"data":{"vector_count":3}}`

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))

	assert.Equal(t, EventThinkingUpdate, ev.Type)
	assert.Equal(t, "vector_search_complete", ev.Stage)
	p, ok := ev.ProgressValue()
	assert.True(t, ok)
	assert.Equal(t, 40, p)
	require.NotNil(t, ev.Data)
	require.NotNil(t, ev.Data.VectorCount)
	assert.Equal(t, 3, *ev.Data.VectorCount)
	assert.Nil(t, ev.Data.GraphCount)
}

func TestEvent_UnmarshalAnswerComplete(t *testing.T) {
	raw := `{"type":"answer_complete","content":{"text_content":"A [IMAGE:1] B","multimedia_map":{"1":{"type":"image","content_description":"a cat"}}}}`

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))

	require.NotNil(t, ev.Answer)
	assert.Equal(t, "A [IMAGE:1] B", ev.Answer.TextContent)
	item, ok := ev.Answer.Lookup("1")
	assert.True(t, ok)
	assert.Equal(t, MediaImage, item.Type)
	assert.True(t, ev.IsTerminal())
}

func TestEvent_UnmarshalChunk(t *testing.T) {
	var ev Event
	require.NoError(t, json.Unmarshal([]byte(`{"type":"chunk","content":"hello"}`), &ev))
	assert.Equal(t, "hello", ev.Text)
	assert.Nil(t, ev.Answer)
}

func TestEvent_UnmarshalRejectsMissingType(t *testing.T) {
	var ev Event
	assert.Error(t, json.Unmarshal([]byte(`{"message":"x"}`), &ev))
	assert.Error(t, json.Unmarshal([]byte(`{"type":"answer_complete","content":"not an object"}`), &ev))
}

func TestEvent_MarshalRoundTripKeepsContentShape(t *testing.T) {
	ev := NewAnswerCompleteEvent(UnifiedAnswer{TextContent: "hi"})
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"answer_complete","content":{"text_content":"hi"}}`, string(b))

	b, err = json.Marshal(NewChunkEvent("part"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"chunk","content":"part"}`, string(b))
}

func TestEventType_Known(t *testing.T) {
	assert.True(t, EventChunk.Known())
	assert.True(t, EventThinkingStart.Known())
	assert.False(t, EventType("heartbeat").Known())
}

func TestEvent_IDUniqueness(t *testing.T) {
	a := NewID()
	b := NewID()
	if a == b {
		t.Error("Expected unique IDs")
	}
}

// Parts discrimination tests
func TestParts_DiscriminatedUnion(t *testing.T) {
	parts := []Part{
		TextPart{Text: "hello"},
		MultimediaPart{Item: MultimediaItem{Type: MediaTable, ChunkID: "t1"}},
	}
	for _, p := range parts {
		switch pt := p.(type) {
		case TextPart, MultimediaPart:
		default:
			t.Fatalf("Unexpected part type: %T (%v)", pt, pt)
		}
	}

	b, err := json.Marshal(parts)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"kind":"text","value":"hello"},{"kind":"multimedia","item":{"type":"table","chunk_id":"t1"}}]`, string(b))
}

func TestUnifiedAnswer_Summarize(t *testing.T) {
	a := UnifiedAnswer{MultimediaMap: map[string]MultimediaItem{
		"1": {Type: MediaImage},
		"2": {Type: MediaChart},
	}}
	s := a.Summarize()
	assert.Equal(t, AnswerStructure{HasImages: true, HasCharts: true, MultimediaCount: 2}, s)
}

func TestTurnState_String(t *testing.T) {
	assert.Equal(t, "ANSWERING", TurnAnswering.String())
	assert.True(t, TurnError.Terminal())
	assert.False(t, TurnThinking.Terminal())
}
