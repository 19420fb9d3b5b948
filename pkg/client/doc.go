// Package client implements the MLME state machine of a wireless station.
//
// A Client drives one connect attempt with one BSS through authentication,
// association and the associated data plane:
//
//	Joined -> Authenticating -> Associating -> Associated
//	                                 ^  |          |
//	                                 |  v          v (disassociation)
//	                             Authenticated <---+
//
// Every inbound frame, timer event and SME command is handled synchronously
// by the Client. The caller must deliver them one at a time; pkg/dispatch
// provides such a loop. Timers are never cancelled: each state remembers the
// timer ID it expects and ignores firings with any other ID.
package client
