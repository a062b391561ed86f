package core

import "encoding/json"

// PartKind names the concrete variant of a Part.
type PartKind string

const (
	// PartKindText marks a TextPart.
	PartKindText PartKind = "text"
	// PartKindMultimedia marks a MultimediaPart.
	PartKindMultimedia PartKind = "multimedia"
)

// Part represents one element of the ordered content sequence handed to a
// renderer. Concrete part types implement the unexported isPart marker
// enabling a closed set.
type Part interface {
	isPart()
	Kind() PartKind
}

// TextPart is a plain text content segment.
type TextPart struct {
	Text string // Plain UTF-8 text
}

// isPart implements the Part interface for TextPart.
func (TextPart) isPart() {}

// Kind implements Part.
func (TextPart) Kind() PartKind { return PartKindText }

// MarshalJSON encodes the part as {"kind":"text","value":...}.
func (p TextPart) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  PartKind `json:"kind"`
		Value string   `json:"value"`
	}{PartKindText, p.Text})
}

// MultimediaPart is a resolved multimedia item spliced into the sequence.
type MultimediaPart struct {
	Item MultimediaItem // Item resolved from the answer's multimedia map
}

// isPart implements the Part interface for MultimediaPart.
func (MultimediaPart) isPart() {}

// Kind implements Part.
func (MultimediaPart) Kind() PartKind { return PartKindMultimedia }

// MarshalJSON encodes the part as {"kind":"multimedia","item":...}.
func (p MultimediaPart) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind PartKind       `json:"kind"`
		Item MultimediaItem `json:"item"`
	}{PartKindMultimedia, p.Item})
}

// Content holds an ordered sequence of parts.
type Content struct {
	Parts []Part `json:"parts"`
}

// Text concatenates the text parts of the content, separated by newlines.
func (c Content) Text() string {
	var out []byte
	for _, p := range c.Parts {
		tp, ok := p.(TextPart)
		if !ok {
			continue
		}
		if len(out) > 0 {
			out = append(out, '\n')
		}
		out = append(out, tp.Text...)
	}
	return string(out)
}
