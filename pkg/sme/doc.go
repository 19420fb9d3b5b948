// Package sme is a minimal station management entity that keeps a station
// connected to one BSS.
//
// The Supervisor consumes the confirms and indications of a client and
// answers them with commands:
//
//   - a failed connect is retried after an exponential backoff
//   - a disassociation is answered with a reconnect to the same BSS
//   - a failed reconnect deauthenticates and falls back to a full connect
//   - a deauthentication starts a new connect after the backoff
//
// # Reconnection Strategy
//
// Delays grow from 1 second, doubling up to 60 seconds, with up to 25%
// random jitter added:
//
//	actual_delay = base_delay + random(0, base_delay * 0.25)
//
// The backoff is reset by every successful ConnectConfirm.
//
// SAE handshakes and EAPoL key exchanges are not run here; a Supervisor
// rejects SAE handshake indications.
package sme
