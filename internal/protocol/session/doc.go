// Package session owns the client side of one color-command stream.
//
// Ownership boundary:
// - dialing the source and owning the connection
// - the blocking read/decode/append loop
// - terminal disconnect signalling and cancellation
// - event hand-off to the display collaborator via Dispatcher
//
// Lifecycle order:
// - disconnected -> connecting -> streaming -> disconnected
//
// - a session never reconnects; callers dial a new one.
//
// - Shutdown closes the connection; a flag alone cannot unblock a parked read.
package session
