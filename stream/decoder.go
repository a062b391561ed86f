package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/ragstream/core"
	"github.com/hupe1980/ragstream/logging"
)

// ErrTransport wraps failures of the underlying reader. It is terminal for the
// stream and surfaces exactly once on the error channel.
var ErrTransport = errors.New("stream transport failure")

// Options configure a Decoder.
type Options struct {
	// Prefix is the event-line marker stripped from records.
	Prefix string
	// Separator terminates records.
	Separator byte
	// ReadSize is the size of the read buffer handed to the reader.
	ReadSize int
	// EventBufferSize sets the buffer of the returned event channel.
	EventBufferSize int
	// Diagnostics receives one entry per dropped record. It is called from
	// the decoding goroutine.
	Diagnostics func(Diagnostic)
	// Logger receives warnings for dropped records and a summary per stream.
	Logger logging.Logger
}

// Decoder turns a reader into a lazy, finite, non-restartable event sequence.
// A Decoder holds only configuration and may be shared; every Decode call owns
// its own framing state.
type Decoder struct {
	opts Options
}

// NewDecoder creates a decoder with the default marker and separator.
func NewDecoder(optFns ...func(o *Options)) *Decoder {
	opts := Options{
		Prefix:          DefaultPrefix,
		Separator:       DefaultSeparator,
		ReadSize:        4096,
		EventBufferSize: 16,
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.ReadSize <= 0 {
		opts.ReadSize = 4096
	}
	if opts.EventBufferSize < 0 {
		opts.EventBufferSize = 0
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Decoder{opts: opts}
}

// Decode reads r until EOF, the done marker, a read failure or cancellation of
// ctx. Events are delivered in arrival order. Both channels are closed when
// decoding ends; at most one error is sent. A clean end of stream sends no
// error. If r implements io.Closer it is closed when decoding ends.
func (d *Decoder) Decode(ctx context.Context, r io.Reader) (<-chan core.Event, <-chan error) {
	out := make(chan core.Event, d.opts.EventBufferSize)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)
		if c, ok := r.(io.Closer); ok {
			defer c.Close()
		}

		start := time.Now()
		framer := NewFramer(d.opts.Prefix, d.opts.Separator)
		err := d.run(ctx, r, framer, out)
		if sl, ok := d.opts.Logger.(logging.StreamSummaryLogger); ok {
			sl.LogStreamSummary(framer.Emitted(), framer.Dropped(), time.Since(start), err)
		} else {
			d.opts.Logger.Debug("answer stream decoded",
				"events", framer.Emitted(),
				"dropped", framer.Dropped(),
				"duration", time.Since(start),
			)
		}
		if err != nil {
			errCh <- err
		}
	}()

	return out, errCh
}

func (d *Decoder) run(ctx context.Context, r io.Reader, framer *Framer, out chan<- core.Event) error {
	buf := make([]byte, d.opts.ReadSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, readErr := r.Read(buf)
		if n > 0 {
			events, diags := framer.Push(buf[:n])
			for _, diag := range diags {
				d.report(diag)
			}
			for _, ev := range events {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case out <- ev:
				}
			}
			if framer.Done() {
				framer.Close()
				return nil
			}
		}

		if readErr == nil {
			continue
		}
		if errors.Is(readErr, io.EOF) {
			if rest := framer.Close(); rest > 0 {
				d.opts.Logger.Debug("discarding unterminated trailing record", "bytes", rest)
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", ErrTransport, readErr)
	}
}

func (d *Decoder) report(diag Diagnostic) {
	d.opts.Logger.Warn("skipping malformed stream record", "record", diag.Record, "error", diag.Err)
	if d.opts.Diagnostics != nil {
		d.opts.Diagnostics(diag)
	}
}

// Collect drains an event/error channel pair into a slice. It returns the
// events received and the terminal error, if any.
func Collect(events <-chan core.Event, errs <-chan error) ([]core.Event, error) {
	var (
		all []core.Event
		err error
	)
	for events != nil || errs != nil {
		select {
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			all = append(all, ev)
		case e, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if e != nil && err == nil {
				err = e
			}
		}
	}
	return all, err
}
