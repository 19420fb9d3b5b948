// Package timer provides the timer facility used by the station MLME.
//
// Timers are never cancelled. Every scheduled timer gets a fresh,
// monotonically increasing ID and fires exactly once; the owner remembers
// the ID it expects and ignores any firing whose ID does not match. This
// keeps the state machine free of cancellation races.
//
// Manager delivers real expirations on a channel. Fake is a manual clock
// for deterministic tests.
package timer
