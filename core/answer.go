package core

// MediaType names the kind of a multimedia item.
type MediaType string

const (
	// MediaImage is an extracted image.
	MediaImage MediaType = "image"
	// MediaTable is an extracted table.
	MediaTable MediaType = "table"
	// MediaChart is an extracted chart.
	MediaChart MediaType = "chart"
)

// MultimediaItem is an out-of-band item referenced from answer text by a
// placeholder token. DisplayData is opaque to the client pipeline and is
// handed to the renderer unchanged.
type MultimediaItem struct {
	Type               MediaType      `json:"type"`
	ChunkID            string         `json:"chunk_id,omitempty"`
	DisplayData        map[string]any `json:"display_data,omitempty"`
	ContentDescription string         `json:"content_description,omitempty"`
	FileID             string         `json:"file_id,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
}

// AnswerStructure summarises the multimedia content of an answer.
type AnswerStructure struct {
	HasImages       bool `json:"has_images"`
	HasTables       bool `json:"has_tables"`
	HasCharts       bool `json:"has_charts"`
	MultimediaCount int  `json:"multimedia_count"`
}

// UnifiedAnswer bundles the final answer text, which may contain [TYPE:ID]
// placeholders, with the multimedia items keyed by chunk id.
type UnifiedAnswer struct {
	TextContent   string                    `json:"text_content"`
	MultimediaMap map[string]MultimediaItem `json:"multimedia_map,omitempty"`
	Structure     *AnswerStructure          `json:"structure,omitempty"`
}

// Lookup resolves a chunk id in the multimedia map.
func (a UnifiedAnswer) Lookup(id string) (MultimediaItem, bool) {
	item, ok := a.MultimediaMap[id]
	return item, ok
}

// Summarize computes the structure summary from the multimedia map.
func (a UnifiedAnswer) Summarize() AnswerStructure {
	s := AnswerStructure{MultimediaCount: len(a.MultimediaMap)}
	for _, item := range a.MultimediaMap {
		switch item.Type {
		case MediaImage:
			s.HasImages = true
		case MediaTable:
			s.HasTables = true
		case MediaChart:
			s.HasCharts = true
		}
	}
	return s
}
