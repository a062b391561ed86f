package assemble

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/ragstream/core"
)

func image(id string) core.MultimediaItem {
	return core.MultimediaItem{Type: core.MediaImage, ChunkID: id, ContentDescription: "figure " + id}
}

func TestAssemble_ResolvedPlaceholder(t *testing.T) {
	ans := core.UnifiedAnswer{
		TextContent:   "A [IMAGE:1] B",
		MultimediaMap: map[string]core.MultimediaItem{"1": image("1")},
	}

	parts := Assemble(ans)

	require.Equal(t, []core.Part{
		core.TextPart{Text: "A"},
		core.MultimediaPart{Item: image("1")},
		core.TextPart{Text: "B"},
	}, parts)
}

func TestAssemble_UnresolvedPlaceholderKeptLiteral(t *testing.T) {
	ans := core.UnifiedAnswer{TextContent: "A [IMAGE:9] B", MultimediaMap: map[string]core.MultimediaItem{}}

	parts := Assemble(ans)

	require.Equal(t, []core.Part{
		core.TextPart{Text: "A"},
		core.TextPart{Text: "[IMAGE:9]"},
		core.TextPart{Text: "B"},
	}, parts)
	require.Len(t, Unresolved(ans), 1)
	assert.Equal(t, "9", Unresolved(ans)[0].ID)
}

func TestAssemble_Cases(t *testing.T) {
	items := map[string]core.MultimediaItem{
		"1":     image("1"),
		"t-2":   {Type: core.MediaTable, ChunkID: "t-2"},
		"chart": {Type: core.MediaChart},
	}

	tests := []struct {
		name string
		text string
		want []core.Part
	}{
		{name: "empty", text: "", want: nil},
		{name: "whitespace only", text: "  \n ", want: nil},
		{name: "no placeholders", text: "plain answer", want: []core.Part{core.TextPart{Text: "plain answer"}}},
		{
			name: "adjacent",
			text: "[IMAGE:1][TABLE:t-2]",
			want: []core.Part{core.MultimediaPart{Item: image("1")}, core.MultimediaPart{Item: items["t-2"]}},
		},
		{
			name: "leading and trailing",
			text: "[TABLE:t-2] middle [IMAGE:1]",
			want: []core.Part{
				core.MultimediaPart{Item: items["t-2"]},
				core.TextPart{Text: "middle"},
				core.MultimediaPart{Item: image("1")},
			},
		},
		{
			name: "chunk id filled from token",
			text: "see [CHART:chart]",
			want: []core.Part{
				core.TextPart{Text: "see"},
				core.MultimediaPart{Item: core.MultimediaItem{Type: core.MediaChart, ChunkID: "chart"}},
			},
		},
		{name: "malformed bracket", text: "x [IMAGE 1] y", want: []core.Part{core.TextPart{Text: "x [IMAGE 1] y"}}},
		{name: "empty id", text: "x [IMAGE:] y", want: []core.Part{core.TextPart{Text: "x [IMAGE:] y"}}},
		{name: "unterminated", text: "x [IMAGE:1", want: []core.Part{core.TextPart{Text: "x [IMAGE:1"}}},
		{
			name: "nested bracket",
			text: "[[IMAGE:1]]",
			want: []core.Part{core.TextPart{Text: "["}, core.MultimediaPart{Item: image("1")}, core.TextPart{Text: "]"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assemble(core.UnifiedAnswer{TextContent: tt.text, MultimediaMap: items})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAssemble_Idempotent(t *testing.T) {
	ans := core.UnifiedAnswer{
		TextContent:   "intro [IMAGE:1] mid [TABLE:404] [CHART:c] end",
		MultimediaMap: map[string]core.MultimediaItem{"1": image("1"), "c": {Type: core.MediaChart, ChunkID: "c"}},
	}

	first, err := json.Marshal(Assemble(ans))
	require.NoError(t, err)
	second, err := json.Marshal(Assemble(ans))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestAssemble_DoesNotMutateAnswer(t *testing.T) {
	ans := core.UnifiedAnswer{
		TextContent:   "[CHART:c]",
		MultimediaMap: map[string]core.MultimediaItem{"c": {Type: core.MediaChart}},
	}

	_ = Assemble(ans)

	assert.Empty(t, ans.MultimediaMap["c"].ChunkID)
}

func TestScan(t *testing.T) {
	text := "a [IMAGE:img_1] b [Table:x.y-2] [:z] [T:]"
	got := Scan(text)

	require.Len(t, got, 2)
	assert.Equal(t, "IMAGE", got[0].Type)
	assert.Equal(t, "img_1", got[0].ID)
	assert.Equal(t, "[IMAGE:img_1]", got[0].Literal(text))
	assert.Equal(t, "Table", got[1].Type)
	assert.Equal(t, "x.y-2", got[1].ID)
}

func TestContent_Text(t *testing.T) {
	c := Content(core.UnifiedAnswer{
		TextContent:   "A [IMAGE:1] B",
		MultimediaMap: map[string]core.MultimediaItem{"1": image("1")},
	})
	assert.Equal(t, "A\nB", c.Text())
}
