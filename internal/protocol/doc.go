// Package protocol owns the color-command wire contract.
//
// Ownership boundary:
// - opcode and payload layout
// - decode/encode of one command over a byte stream
// - truncation and transport error taxonomy
//
// The grammar has no framing beyond the fixed payload implied by the opcode.
package protocol
