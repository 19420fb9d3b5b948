package main

import (
	"fmt"
	"log"

	"github.com/mdlayher/wifi"

	"github.com/wlanstack/mlme-go/pkg/mac"
)

// lookupIface returns the hardware address of the named nl80211
// interface.
func lookupIface(name string) (mac.Addr, error) {
	c, err := wifi.New()
	if err != nil {
		return mac.Addr{}, fmt.Errorf("nl80211: %w", err)
	}
	defer c.Close()

	ifis, err := c.Interfaces()
	if err != nil {
		return mac.Addr{}, fmt.Errorf("list interfaces: %w", err)
	}
	for _, ifi := range ifis {
		if ifi.Name != name {
			continue
		}
		if ifi.Type != wifi.InterfaceTypeStation {
			log.Printf("Warning: %s is in %s mode, not station", name, ifi.Type)
		}
		return mac.AddrFromBytes(ifi.HardwareAddr)
	}
	return mac.Addr{}, fmt.Errorf("no wireless interface %q", name)
}
