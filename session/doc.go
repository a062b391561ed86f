// Package session houses concrete implementations of core.SessionStore.
// The interface itself (and the Session struct) live in the core package to
// centralize domain contracts, so the runner depends only on the contract.
//
// A session is the conversation container of one user: the ordered history
// of finished turns. Sessions are owned by the caller and passed explicitly
// into every call; there is no process-wide "current session".
package session
