// Package dispatch runs a station client on a single goroutine.
//
// Received frames, Ethernet frames from the host stack, SME commands and
// timer expirations all arrive on different goroutines. The Dispatcher
// queues them and hands them to the client one at a time, so handlers
// never run concurrently and never re-enter.
//
// A ConnectRequest creates a fresh client for the requested BSS and starts
// connecting. Later commands are routed to that client until the next
// ConnectRequest replaces it.
package dispatch
