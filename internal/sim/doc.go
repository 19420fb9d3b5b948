// Package sim simulates an access point for exercising a station without
// a radio.
//
// An AP answers open system authentication and association requests,
// tracks every station's state and power-save mode, buffers downlink data
// for dozing stations and advertises it in the TIM of its beacons. Test
// hooks inject deauthentication, disassociation, channel switch
// announcements and downlink data.
//
// Frames the AP sends are queued; Drain and Forward hand them to the
// station side. Link pumps frames synchronously between an AP and a
// station using a device.FakeDevice.
package sim
