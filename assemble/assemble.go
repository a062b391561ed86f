package assemble

import (
	"strings"

	"github.com/hupe1980/ragstream/core"
)

// Assemble splits the answer text at its placeholder tokens and returns the
// ordered content parts. Text between tokens is trimmed and omitted when
// empty. A token whose ID is present in the multimedia map becomes a
// MultimediaPart; an unresolved token becomes a TextPart holding the literal
// token. Empty text yields no parts.
func Assemble(answer core.UnifiedAnswer) []core.Part {
	text := answer.TextContent
	var parts []core.Part

	appendText := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, core.TextPart{Text: s})
		}
	}

	last := 0
	for _, p := range Scan(text) {
		appendText(text[last:p.Start])
		last = p.End

		item, ok := answer.Lookup(p.ID)
		if !ok {
			parts = append(parts, core.TextPart{Text: p.Literal(text)})
			continue
		}
		if item.ChunkID == "" {
			item.ChunkID = p.ID
		}
		parts = append(parts, core.MultimediaPart{Item: item})
	}
	appendText(text[last:])

	return parts
}

// Content wraps Assemble into a core.Content.
func Content(answer core.UnifiedAnswer) core.Content {
	return core.Content{Parts: Assemble(answer)}
}

// Unresolved returns the placeholders in the answer text whose ID has no entry
// in the multimedia map.
func Unresolved(answer core.UnifiedAnswer) []Placeholder {
	var out []Placeholder
	for _, p := range Scan(answer.TextContent) {
		if _, ok := answer.Lookup(p.ID); !ok {
			out = append(out, p)
		}
	}
	return out
}
