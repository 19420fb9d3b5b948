// Package mac provides the IEEE 802.11 vocabulary used by the station MLME.
//
// It covers MAC addresses, status and reason codes, frame classes and
// information elements, and it parses and builds the management, control
// and data frames the station exchanges with its access point. Frame
// headers and fixed management bodies are encoded with gopacket's
// layers.Dot11 family; every built frame carries a trailing FCS.
//
// # Frame classes
//
// Frames are classified per IEEE 802.11-2016 11.3.3:
//
//   - Class 1: allowed in any state (beacons, probes, authentication,
//     deauthentication, public action, most control frames)
//   - Class 2: allowed once authenticated (association, disassociation)
//   - Class 3: allowed once associated (data, PS-Poll, other action frames)
package mac
