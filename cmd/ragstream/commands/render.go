package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/ragstream/core"
	"github.com/hupe1980/ragstream/dispatch"
)

// terminalRenderer draws a turn on a terminal. Thinking progress goes to
// status, the answer to out.
type terminalRenderer struct {
	dispatch.NoOpObserver

	out    io.Writer
	status io.Writer

	streamed bool
}

func newTerminalRenderer(out, status io.Writer) *terminalRenderer {
	return &terminalRenderer{out: out, status: status}
}

func (r *terminalRenderer) OnProgress(_ string, p core.Progress) {
	fmt.Fprintf(r.status, "[%3d%%] %s\n", p.Percent, p.Message)
}

func (r *terminalRenderer) OnThinkingComplete(_ string, message string) {
	if message != "" {
		fmt.Fprintf(r.status, "[done] %s\n", message)
	}
}

func (r *terminalRenderer) OnAnswerOpened(string) {
	fmt.Fprintln(r.status)
}

func (r *terminalRenderer) OnChunk(_ string, text string) {
	r.streamed = true
	fmt.Fprint(r.out, text)
}

func (r *terminalRenderer) OnMultimedia(_ string, items []core.MultimediaItem) {
	for _, item := range items {
		fmt.Fprintf(r.out, "\n%s\n", formatItem(item))
	}
}

func (r *terminalRenderer) OnComplete(_ string, _ core.UnifiedAnswer, parts []core.Part) {
	if r.streamed {
		fmt.Fprintln(r.out)
		return
	}
	renderParts(r.out, parts)
}

func (r *terminalRenderer) OnError(_ string, message string, _ error) {
	fmt.Fprintln(r.out, message)
}

// renderParts prints parts in order, one block per part.
func renderParts(w io.Writer, parts []core.Part) {
	for i, p := range parts {
		if i > 0 {
			fmt.Fprintln(w)
		}
		switch v := p.(type) {
		case core.TextPart:
			fmt.Fprintln(w, v.Text)
		case core.MultimediaPart:
			fmt.Fprintln(w, formatItem(v.Item))
		}
	}
}

func formatItem(item core.MultimediaItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s", strings.ToUpper(string(item.Type)))
	if item.ChunkID != "" {
		fmt.Fprintf(&b, " %s", item.ChunkID)
	}
	b.WriteString("]")
	if item.ContentDescription != "" {
		fmt.Fprintf(&b, " %s", item.ContentDescription)
	}
	if item.FileID != "" {
		fmt.Fprintf(&b, " (file %s)", item.FileID)
	}
	return b.String()
}

var _ dispatch.Observer = (*terminalRenderer)(nil)
