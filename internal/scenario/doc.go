// Package scenario loads YAML scenarios and runs them against a client
// connected to a simulated access point.
//
// A scenario describes the AP, optional client configuration overrides
// and a list of steps. Each step performs an action (beacons, frames from
// the AP, SME commands, timer firings) and then checks expectations
// against the station, the AP and the messages the SME received:
//
//	id: SC-CONNECT-001
//	name: open system connect
//	ap:
//	  ssid: lab
//	  qos: true
//	steps:
//	  - action: connect
//	    expect:
//	      state: ASSOCIATED
//	      port_open: true
package scenario
