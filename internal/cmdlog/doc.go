// Package cmdlog owns the append-only command log and its replay.
//
// Ownership boundary:
// - arrival sequence assignment
// - per-entry selection state
// - deterministic replay of selected entries into an aggregate color
//
// Every mutation recomputes the aggregate under the same lock that guards
// the entries, so a toggle and an append never observe each other halfway.
package cmdlog
