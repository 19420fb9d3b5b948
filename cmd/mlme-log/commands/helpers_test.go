package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/wlanstack/mlme-go/pkg/log"
)

var testBase = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.mlog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func u16(v uint16) *uint16 { return &v }

// connectLog is a short successful connect attempt followed by a stale timer.
func connectLog() []log.Event {
	const attempt = "5f0c1d2e-aaaa-bbbb-cccc-000000000001"
	const bssid = "02:00:00:00:00:99"
	return []log.Event{
		{Timestamp: testBase, AttemptID: attempt, BSSID: bssid, Direction: log.DirectionIn, Layer: log.LayerMLME, Category: log.CategoryMessage,
			Message: &log.MessageEvent{Kind: "CONNECT_REQUEST"}},
		{Timestamp: testBase.Add(time.Millisecond), AttemptID: attempt, BSSID: bssid, Direction: log.DirectionOut, Layer: log.LayerMAC, Category: log.CategoryFrame,
			Frame: log.NewFrameEvent("MgmtAuthentication", []byte{0xb0, 0x00, 0x3a, 0x01})},
		{Timestamp: testBase.Add(2 * time.Millisecond), AttemptID: attempt, BSSID: bssid, Direction: log.DirectionIn, Layer: log.LayerMAC, Category: log.CategoryFrame,
			Frame: &log.FrameEvent{Size: 30, Type: "MgmtAuthentication", RSSIDbm: -48}},
		{Timestamp: testBase.Add(3 * time.Millisecond), AttemptID: attempt, BSSID: bssid, Direction: log.DirectionOut, Layer: log.LayerStation, Category: log.CategoryState,
			StateChange: &log.StateChangeEvent{OldState: "AUTHENTICATING", NewState: "ASSOCIATING"}},
		{Timestamp: testBase.Add(5 * time.Millisecond), AttemptID: attempt, BSSID: bssid, Direction: log.DirectionOut, Layer: log.LayerStation, Category: log.CategoryState,
			StateChange: &log.StateChangeEvent{OldState: "ASSOCIATING", NewState: "ASSOCIATED"}},
		{Timestamp: testBase.Add(6 * time.Millisecond), AttemptID: attempt, BSSID: bssid, Direction: log.DirectionOut, Layer: log.LayerMLME, Category: log.CategoryMessage,
			Message: &log.MessageEvent{Kind: "CONNECT_CONFIRM", Status: u16(0)}},
		{Timestamp: testBase.Add(time.Second), AttemptID: attempt, Direction: log.DirectionIn, Layer: log.LayerStation, Category: log.CategoryTimer,
			Timer: &log.TimerEvent{Kind: "CONNECT_TIMEOUT", ID: 3, Stale: true}},
		{Timestamp: testBase.Add(2 * time.Second), Direction: log.DirectionIn, Layer: log.LayerMAC, Category: log.CategoryFrame,
			Frame: &log.FrameEvent{Size: 120, Type: "MgmtBeacon", Dropped: "foreign BSSID"}},
		{Timestamp: testBase.Add(3 * time.Second), Direction: log.DirectionIn, Layer: log.LayerMLME, Category: log.CategoryError,
			Error: &log.ErrorEventData{Layer: log.LayerMLME, Message: "device busy", Context: "send"}},
	}
}
