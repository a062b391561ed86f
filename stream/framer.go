package stream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hupe1980/ragstream/core"
)

const (
	// DefaultPrefix is the event-line marker stripped from records.
	DefaultPrefix = "data:"
	// DefaultSeparator terminates records.
	DefaultSeparator = '\n'
	// DoneMarker is a record body that ends the stream.
	DoneMarker = "[DONE]"
)

// ErrMalformedRecord wraps every per-record parse failure.
var ErrMalformedRecord = errors.New("malformed stream record")

// Diagnostic describes a record that was dropped during decoding.
type Diagnostic struct {
	// Record is the zero-based index of the terminated record in the stream,
	// counting empty records too.
	Record int
	// Body is the trimmed record text after marker stripping.
	Body string
	// Err wraps ErrMalformedRecord.
	Err error
}

// Framer splits raw fragments into records and parses each record into an
// event. The zero value is not usable; construct with NewFramer. A Framer is
// not safe for concurrent use.
type Framer struct {
	prefix    []byte
	separator byte

	buf     []byte
	record  int
	seq     int
	dropped int
	done    bool
}

// NewFramer creates a framer for the given marker and record separator. An
// empty prefix disables marker stripping.
func NewFramer(prefix string, separator byte) *Framer {
	return &Framer{prefix: []byte(prefix), separator: separator}
}

// Push appends a fragment and returns the events of every record it
// completed, together with diagnostics for the records that failed to parse.
// After the done marker was seen, further input is ignored.
func (f *Framer) Push(fragment []byte) ([]core.Event, []Diagnostic) {
	if f.done {
		return nil, nil
	}
	f.buf = append(f.buf, fragment...)

	var (
		events []core.Event
		diags  []Diagnostic
	)
	for !f.done {
		i := bytes.IndexByte(f.buf, f.separator)
		if i < 0 {
			break
		}
		segment := f.buf[:i]
		f.buf = f.buf[i+1:]

		ev, ok, diag := f.parse(segment)
		f.record++
		if diag != nil {
			f.dropped++
			diags = append(diags, *diag)
			continue
		}
		if ok {
			events = append(events, ev)
		}
	}

	// Compact so a long stream does not pin its whole history.
	if len(f.buf) == 0 {
		f.buf = f.buf[:0:0]
	}
	return events, diags
}

// Close ends framing and returns the length of the unterminated remainder,
// which is discarded without being parsed.
func (f *Framer) Close() int {
	n := len(bytes.TrimSpace(f.buf))
	f.buf = nil
	f.done = true
	return n
}

// Done reports whether the done marker was seen.
func (f *Framer) Done() bool { return f.done }

// Emitted returns the number of events produced so far.
func (f *Framer) Emitted() int { return f.seq }

// Dropped returns the number of malformed records skipped so far.
func (f *Framer) Dropped() int { return f.dropped }

func (f *Framer) parse(segment []byte) (core.Event, bool, *Diagnostic) {
	body := bytes.TrimSpace(segment)
	if len(body) == 0 {
		return core.Event{}, false, nil
	}
	if len(f.prefix) > 0 && bytes.HasPrefix(body, f.prefix) {
		body = bytes.TrimSpace(body[len(f.prefix):])
		if len(body) == 0 {
			return core.Event{}, false, nil
		}
	}
	if string(body) == DoneMarker {
		f.done = true
		return core.Event{}, false, nil
	}

	var ev core.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return core.Event{}, false, &Diagnostic{
			Record: f.record,
			Body:   string(body),
			Err:    fmt.Errorf("%w: %v", ErrMalformedRecord, err),
		}
	}
	ev.Seq = f.seq
	f.seq++
	return ev, true, nil
}
