// Package runner orchestrates one question/response turn end to end.
//
// For every Ask the Runner opens the answer stream at its Source (normally
// the client's search service), drives a dispatch.Turn with the decoded
// events, lets the turn assemble the unified answer and records the finished
// turn in the session store.
//
// # Responsibilities
//   - Turn lifecycle: creation, cancellation and discard via Cancel
//   - Presentation hooks: the configured dispatch.Observer sees every turn
//   - Session history persistence
//
// Sessions are explicit: every call names the session it belongs to.
package runner
