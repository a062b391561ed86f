// Package core provides the foundational domain types and interfaces shared by
// every ragstream component. It defines the core abstractions for:
//
//   - Events (typed protocol records decoded from the answer stream)
//   - Unified answers (answer text plus a lookup table of multimedia items)
//   - Parts (the ordered text / multimedia sequence handed to a renderer)
//   - Turn states and sessions (one question/answer cycle and its history)
//   - Pluggable stores for sessions and uploaded artifacts
//
// The package intentionally keeps behaviour (decoding, dispatching, assembling,
// uploading) out of scope, exposing plain data types and small interfaces so
// that the pipeline stages stay independently testable.
package core
