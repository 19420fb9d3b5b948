// Package mlme defines the messages exchanged between the station MLME and
// the station management entity (SME).
//
// Commands flow from the SME to the MLME (connect, deauthenticate,
// reconnect, EAPoL, keys, controlled port, SAE). Confirms and indications
// flow back through a Sink and never block the MLME.
//
// Messages can be carried across a process boundary as CBOR envelopes with
// integer keys (see Encode and Decode).
package mlme
