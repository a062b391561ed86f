package stream

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hupe1980/ragstream/core"
)

// Encode writes ev as one terminated record in the wire format understood by
// Decoder ("data: <json>\n").
func Encode(w io.Writer, ev core.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(w, "%s %s\n", DefaultPrefix, b); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

// EncodeDone writes the done marker record.
func EncodeDone(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s %s\n", DefaultPrefix, DoneMarker)
	return err
}
