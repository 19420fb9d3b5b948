package client

import (
	"testing"
	"time"

	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/require"
	"github.com/wlanstack/mlme-go/pkg/akm"
	"github.com/wlanstack/mlme-go/pkg/device"
	"github.com/wlanstack/mlme-go/pkg/log"
	"github.com/wlanstack/mlme-go/pkg/mac"
	"github.com/wlanstack/mlme-go/pkg/mlme"
	"github.com/wlanstack/mlme-go/pkg/timer"
)

var (
	testBSSID   = mac.MustParseAddr("02:00:00:00:00:01")
	testIface   = mac.MustParseAddr("02:00:00:00:00:02")
	testPeer    = mac.MustParseAddr("02:00:00:00:00:99")
	testChannel = mac.Channel{Primary: 36}
	testRates   = []uint8{0x82, 0x84, 0x8b, 0x96, 0x0c, 0x12, 0x18, 0x24}
	testRSNE    = []byte{byte(mac.ElementRSN), 2, 1, 0}
)

// recordingLogger collects protocol events.
type recordingLogger struct {
	events []log.Event
}

func (r *recordingLogger) Log(e log.Event) { r.events = append(r.events, e) }

func (r *recordingLogger) states() []string {
	var out []string
	for _, e := range r.events {
		if e.StateChange != nil {
			out = append(out, e.StateChange.NewState)
		}
	}
	return out
}

type harness struct {
	t      *testing.T
	dev    *device.FakeDevice
	sme    *mlme.Recorder
	timers *timer.Fake
	plog   *recordingLogger
	c      *Client
}

func testRequest() mlme.ConnectRequest {
	return mlme.ConnectRequest{
		BSS: mlme.BSSDescription{
			BSSID:          testBSSID,
			SSID:           []byte("wlan"),
			BeaconPeriod:   100,
			Channel:        testChannel,
			CapabilityInfo: mac.CapESS | mac.CapQoS,
			Rates:          testRates,
			RSSIDbm:        -50,
		},
		AuthType:              mlme.AuthTypeOpenSystem,
		ConnectFailureTimeout: 10,
	}
}

func newHarness(t *testing.T, req mlme.ConnectRequest, opts ...func(*Config)) *harness {
	t.Helper()
	h := &harness{
		t:      t,
		dev:    device.NewFakeDevice(testChannel),
		sme:    &mlme.Recorder{},
		timers: timer.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		plog:   &recordingLogger{},
	}
	cfg := DefaultConfig()
	cfg.ProtocolLogger = h.plog
	for _, opt := range opts {
		opt(&cfg)
	}
	h.c = New(cfg, Deps{Device: h.dev, Sme: h.sme, Timer: h.timers, Iface: testIface}, req)
	return h
}

func apHeader() mac.Header {
	return mac.Header{Addr1: testIface, Addr2: testBSSID, Addr3: testBSSID}
}

func (h *harness) rx(frame []byte, err error) {
	h.t.Helper()
	require.NoError(h.t, err)
	h.c.OnMacFrame(frame, RxInfo{RSSIDbm: -40})
}

func (h *harness) authResp(status mac.StatusCode) {
	h.rx(mac.BuildAuthentication(apHeader(), mac.Authentication{
		Algorithm: mac.AuthOpenSystem,
		Seq:       2,
		Status:    status,
	}))
}

func (h *harness) assocResp(status mac.StatusCode, aid uint16, capInfo uint16, elems mac.Elements) {
	h.t.Helper()
	if elems == nil {
		elems = mac.Elements{{ID: mac.ElementSupportedRates, Body: testRates}}
	}
	ies, err := elems.Encode()
	require.NoError(h.t, err)
	h.rx(mac.BuildAssocResponse(apHeader(), mac.AssocResponse{
		CapabilityInfo: capInfo,
		Status:         status,
		AID:            aid,
		Elements:       ies,
	}))
}

func (h *harness) beacon(elems mac.Elements) {
	h.t.Helper()
	ies, err := elems.Encode()
	require.NoError(h.t, err)
	hdr := mac.Header{Addr1: mac.Broadcast, Addr2: testBSSID, Addr3: testBSSID}
	h.rx(mac.BuildBeacon(hdr, mac.Beacon{Interval: 100, CapabilityInfo: mac.CapESS, Elements: ies}))
}

func (h *harness) deauth(reason mac.ReasonCode) {
	h.rx(mac.BuildDeauthentication(apHeader(), reason))
}

func (h *harness) disassoc(reason mac.ReasonCode) {
	h.rx(mac.BuildDisassociation(apHeader(), reason))
}

// data delivers a data frame from the distribution system.
func (h *harness) data(etherType uint16, payload []byte) {
	hdr := apHeader()
	hdr.Addr3 = testPeer
	hdr.Flags = layers.Dot11FlagsFromDS
	h.rx(mac.BuildData(hdr, mac.Data{EtherType: etherType, Payload: payload}))
}

// connect runs open system authentication up to Associating.
func (h *harness) connect() {
	h.t.Helper()
	h.c.StartConnecting()
	h.authResp(mac.StatusSuccess)
	require.IsType(h.t, Associating{}, h.c.State())
}

// associate runs a full connect up to Associated with the given AID.
func (h *harness) associate(aid uint16) *Association {
	h.t.Helper()
	h.connect()
	h.assocResp(mac.StatusSuccess, aid, mac.CapESS|mac.CapQoS, nil)
	s, ok := h.c.State().(Associated)
	require.True(h.t, ok, "state %s", h.c.State())
	h.dev.DrainSent()
	h.sme.Drain()
	return s.Association()
}

func (h *harness) sent() []*mac.Frame {
	return h.dev.SentFrames()
}

func (h *harness) sentTypes() []layers.Dot11Type {
	var out []layers.Dot11Type
	for _, f := range h.sent() {
		out = append(out, f.Type)
	}
	return out
}

func (h *harness) fire(kind timer.Kind) {
	h.t.Helper()
	ev, ok := h.timers.Take(kind)
	require.True(h.t, ok, "no pending %s timer", kind)
	h.c.OnTimedEvent(ev)
}

// pending counts the scheduled timers of kind.
func pending(timers *timer.Fake, kind timer.Kind) int {
	n := 0
	for _, ev := range timers.Pending() {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// stubAlgorithm is an authentication delegate with scripted results.
type stubAlgorithm struct {
	initiate akm.State
	onFrame  akm.State
	err      error
}

func (s *stubAlgorithm) Algorithm() mac.AuthAlgorithm { return mac.AuthOpenSystem }

func (s *stubAlgorithm) Initiate(akm.Station) (akm.State, error) { return s.initiate, s.err }

func (s *stubAlgorithm) HandleAuthFrame(akm.Station, mac.Authentication) (akm.State, error) {
	return s.onFrame, nil
}

func (s *stubAlgorithm) HandleSaeResponse(akm.Station, mac.StatusCode) (akm.State, error) {
	return akm.Failed, akm.ErrUnexpected
}

func (s *stubAlgorithm) HandleSaeFrameTx(akm.Station, mlme.SaeFrame) (akm.State, error) {
	return akm.Failed, akm.ErrUnexpected
}

func withAlgorithm(alg akm.Algorithm) func(*Config) {
	return func(c *Config) {
		c.AKM = func(mlme.AuthType) (akm.Algorithm, error) { return alg, nil }
	}
}
