// Package source is a simulated color-command source.
//
// Ownership boundary:
// - random command generation with a tracked reference color
// - TCP accept loop streaming commands to connected clients
//
// Every client gets its own generator seeded from Config.Seed, starting at
// the rgb baseline like a fresh client log.
package source
