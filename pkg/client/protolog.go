package client

import (
	"time"

	"github.com/google/gopacket/layers"

	"github.com/wlanstack/mlme-go/pkg/log"
	"github.com/wlanstack/mlme-go/pkg/mlme"
	"github.com/wlanstack/mlme-go/pkg/timer"
)

func (s *Station) event(dir log.Direction, layer log.Layer, cat log.Category) log.Event {
	return log.Event{
		Timestamp: time.Now(),
		AttemptID: s.attemptID,
		Direction: dir,
		Layer:     layer,
		Category:  cat,
		Interface: s.iface.String(),
		BSSID:     s.BSSID().String(),
	}
}

// logFrame records a frame.
func (s *Station) logFrame(dir log.Direction, typ layers.Dot11Type, data []byte, rssi int8) {
	ev := s.event(dir, log.LayerMAC, log.CategoryFrame)
	ev.Frame = log.NewFrameEvent(typ.String(), data)
	ev.Frame.RSSIDbm = rssi
	s.plog.Log(ev)
}

// logDrop records a frame that was discarded before or during dispatch.
func (s *Station) logDrop(typ string, data []byte, rssi int8, why string) {
	ev := s.event(log.DirectionIn, log.LayerMAC, log.CategoryFrame)
	ev.Frame = log.NewFrameEvent(typ, data)
	ev.Frame.RSSIDbm = rssi
	ev.Frame.Dropped = why
	s.plog.Log(ev)
	s.debugLog("frame dropped", "type", typ, "reason", why)
}

func (s *Station) logMessage(dir log.Direction, msg mlme.Message) {
	ev := s.event(dir, log.LayerMLME, log.CategoryMessage)
	me := &log.MessageEvent{Kind: msg.Kind().String()}
	switch m := msg.(type) {
	case mlme.ConnectConfirm:
		status := uint16(m.Status)
		me.Status = &status
	case mlme.DeauthenticateIndication:
		reason := uint16(m.Reason)
		me.Reason = &reason
	case mlme.DisassociateIndication:
		reason := uint16(m.Reason)
		me.Reason = &reason
	case mlme.DeauthenticateRequest:
		reason := uint16(m.Reason)
		me.Reason = &reason
	}
	if payload, err := mlme.Encode(msg); err == nil {
		me.Payload = payload
	}
	ev.Message = me
	s.plog.Log(ev)
}

func (s *Station) logState(old, next State, reason string) {
	ev := s.event(log.DirectionIn, log.LayerStation, log.CategoryState)
	ev.StateChange = &log.StateChangeEvent{OldState: old.String(), NewState: next.String(), Reason: reason}
	s.plog.Log(ev)
	s.debugLog("state changed", "old_state", old.String(), "new_state", next.String(), "reason", reason)
}

func (s *Station) logTimer(ev timer.Event, stale bool) {
	e := s.event(log.DirectionIn, log.LayerStation, log.CategoryTimer)
	e.Timer = &log.TimerEvent{Kind: ev.Kind.String(), ID: uint64(ev.ID), Stale: stale}
	s.plog.Log(e)
	if stale {
		s.debugLog("stale timer ignored", "timer", ev.Kind.String(), "id", uint64(ev.ID))
	}
}

func (s *Station) logError(context string, err error) {
	ev := s.event(log.DirectionOut, log.LayerStation, log.CategoryError)
	ev.Error = &log.ErrorEventData{Layer: log.LayerStation, Message: err.Error(), Context: context}
	s.plog.Log(ev)
	s.warnLog("device call failed", "op", context, "error", err)
}
