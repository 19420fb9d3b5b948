package client

import (
	"github.com/wlanstack/mlme-go/pkg/mac"
	"github.com/wlanstack/mlme-go/pkg/timer"
)

// PendingChannelSwitch is an announced channel switch that has not
// happened yet.
type PendingChannelSwitch struct {
	Channel mac.Channel

	// Mode 1 forbids transmission until the switch.
	Mode uint8

	Timer timer.ID
}

// blocksTx reports whether the station must stay silent until the switch.
func (p *PendingChannelSwitch) blocksTx() bool {
	return p != nil && p.Mode == 1
}

// channelSwitchFromElements finds a CSA or extended CSA element.
func channelSwitchFromElements(elems mac.Elements) (mac.ChannelSwitch, bool) {
	if body, ok := elems.Find(mac.ElementChannelSwitch); ok {
		cs, err := mac.ParseChannelSwitch(body)
		return cs, err == nil
	}
	if body, ok := elems.Find(mac.ElementExtChannelSwitch); ok {
		cs, err := mac.ParseExtChannelSwitch(body)
		return cs, err == nil
	}
	return mac.ChannelSwitch{}, false
}

// onChannelSwitch handles a channel switch announcement. Repeated
// announcements for a switch already scheduled are ignored.
func (a *Association) onChannelSwitch(sta *Station, cs mac.ChannelSwitch) {
	target := mac.Channel{Primary: cs.NewChannel, CBW: mac.CBW20}
	if cs.NewChannel == 0 || target == sta.mainChannel {
		return
	}
	if a.ChannelSwitch != nil && a.ChannelSwitch.Channel == target {
		return
	}
	if cs.Count <= 1 {
		a.switchChannel(sta, target)
		return
	}
	a.ChannelSwitch = &PendingChannelSwitch{
		Channel: target,
		Mode:    cs.Mode,
		Timer:   sta.schedule(sta.beacons(uint32(cs.Count)), timer.ChannelSwitch),
	}
	sta.debugLog("channel switch scheduled", "channel", target.String(), "count", cs.Count)
}

// switchChannel retunes the device and makes target the main channel.
func (a *Association) switchChannel(sta *Station, target mac.Channel) {
	a.ChannelSwitch = nil
	if err := sta.dev.SetChannel(target); err != nil {
		sta.logError("switch channel", err)
		return
	}
	sta.debugLog("channel switched", "from", sta.mainChannel.String(), "to", target.String())
	sta.mainChannel = target
}

func (a *Association) onChannelSwitchTimer(sta *Station, ev timer.Event) {
	if a.ChannelSwitch == nil || a.ChannelSwitch.Timer != ev.ID {
		sta.logTimer(ev, true)
		return
	}
	sta.logTimer(ev, false)
	a.switchChannel(sta, a.ChannelSwitch.Channel)
}
