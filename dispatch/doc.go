// Package dispatch applies decoded stream events to a single turn.
//
// A Turn is a small state machine:
//
//	IDLE -> THINKING -> ANSWERING -> COMPLETE
//	  any non-terminal state -> ERROR
//
// Events are applied strictly in arrival order, one at a time. Thinking
// events overwrite the visible progress record (last write wins, progress may
// go down). thinking_complete schedules the answer placeholder to open after a
// presentational delay; Run drives that delay with a timer. answer_complete
// assembles the unified answer exactly once and freezes the turn. An error
// event, a transport failure or a stream that ends early moves the turn to
// ERROR exactly once.
//
// A turn that is terminal or was discarded by its consumer ignores every
// further event without error.
//
// Renderers observe a turn through the Observer hooks or by polling Snapshot.
package dispatch
