// Package stream decodes the chunk-delivered answer stream into typed
// core.Event values.
//
// The wire format is a sequence of newline-terminated records. Each record may
// start with the "data:" marker, which is stripped before the remainder is
// parsed as one JSON event object. Only fully terminated records are parsed:
// a trailing fragment without a separator is carried over to the next read and
// discarded when the stream ends.
//
// Malformed records are skipped and reported through a diagnostics sink; they
// never abort the stream. A failing underlying reader terminates the sequence
// and is reported once on the error channel wrapped with ErrTransport.
//
// Framer holds the pure framing state and can be driven synchronously.
// Decoder runs a Framer over an io.Reader in a goroutine and exposes the
// familiar (<-chan core.Event, <-chan error) pair.
package stream
