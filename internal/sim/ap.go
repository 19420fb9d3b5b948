package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/gopacket/layers"
	"github.com/wlanstack/mlme-go/pkg/mac"
	"github.com/wlanstack/mlme-go/pkg/mlme"
)

// ErrUnknownStation is returned when a hook names a station the AP does
// not know.
var ErrUnknownStation = errors.New("unknown station")

// defaultRates are 1, 2, 5.5 and 11 Mbps (basic) plus the OFDM rates.
var defaultRates = []uint8{0x82, 0x84, 0x8b, 0x96, 0x0c, 0x12, 0x18, 0x24, 0x30, 0x48, 0x60, 0x6c}

// rsne advertises WPA2-PSK with CCMP.
var rsne = []byte{
	0x01, 0x00,
	0x00, 0x0f, 0xac, 0x04,
	0x01, 0x00, 0x00, 0x0f, 0xac, 0x04,
	0x01, 0x00, 0x00, 0x0f, 0xac, 0x02,
	0x00, 0x00,
}

// Config describes the simulated BSS and how its AP answers.
type Config struct {
	BSSID        mac.Addr `yaml:"bssid"`
	SSID         string   `yaml:"ssid"`
	Channel      uint8    `yaml:"channel"`
	BeaconPeriod uint16   `yaml:"beacon_period"`
	Rates        []uint8  `yaml:"rates"`
	QoS          bool     `yaml:"qos"`
	Privacy      bool     `yaml:"privacy"`
	HT           bool     `yaml:"ht"`
	RSSIDbm      int8     `yaml:"rssi_dbm"`

	// AuthStatus and AssocStatus are returned to every request.
	AuthStatus  mac.StatusCode `yaml:"auth_status"`
	AssocStatus mac.StatusCode `yaml:"assoc_status"`

	// DisassocRequests is the number of association requests answered
	// with a disassociation instead of a response.
	DisassocRequests int `yaml:"disassoc_requests"`

	// FirstAID is the association ID of the first station.
	FirstAID uint16 `yaml:"first_aid"`

	// Silent makes the AP ignore every station frame.
	Silent bool `yaml:"silent"`

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger `yaml:"-"`
}

// DefaultConfig returns an open 802.11g/n AP on channel 36.
func DefaultConfig() Config {
	return Config{
		BSSID:        mac.MustParseAddr("02:00:00:00:01:00"),
		SSID:         "mlme-sim",
		Channel:      36,
		BeaconPeriod: 100,
		Rates:        defaultRates,
		QoS:          true,
		RSSIDbm:      -55,
		FirstAID:     1,
	}
}

// PeerState is the AP's view of a station.
type PeerState uint8

const (
	PeerUnknown PeerState = iota
	PeerAuthenticated
	PeerAssociated
)

// String returns the peer state name.
func (s PeerState) String() string {
	switch s {
	case PeerUnknown:
		return "UNKNOWN"
	case PeerAuthenticated:
		return "AUTHENTICATED"
	case PeerAssociated:
		return "ASSOCIATED"
	default:
		return "INVALID"
	}
}

type peer struct {
	state     PeerState
	aid       uint16
	powerSave bool
	buffered  [][]byte
}

// AP is a simulated access point. It is safe for concurrent use.
type AP struct {
	cfg Config

	mu       sync.Mutex
	seq      mac.Sequence
	peers    map[mac.Addr]*peer
	nextAID  uint16
	disassoc int
	csa      *mac.ChannelSwitch
	outbox   [][]byte
	received []mac.EthernetFrame
	eapol    [][]byte

	ready chan struct{}
}

// New creates an AP. Zero fields of cfg take their defaults.
func New(cfg Config) *AP {
	def := DefaultConfig()
	if cfg.BSSID.IsZero() {
		cfg.BSSID = def.BSSID
	}
	if cfg.SSID == "" {
		cfg.SSID = def.SSID
	}
	if cfg.Channel == 0 {
		cfg.Channel = def.Channel
	}
	if cfg.BeaconPeriod == 0 {
		cfg.BeaconPeriod = def.BeaconPeriod
	}
	if len(cfg.Rates) == 0 {
		cfg.Rates = def.Rates
	}
	if cfg.FirstAID == 0 {
		cfg.FirstAID = def.FirstAID
	}
	return &AP{
		cfg:      cfg,
		peers:    make(map[mac.Addr]*peer),
		nextAID:  cfg.FirstAID,
		disassoc: cfg.DisassocRequests,
		ready:    make(chan struct{}, 1),
	}
}

// BSSID returns the AP's address.
func (ap *AP) BSSID() mac.Addr { return ap.cfg.BSSID }

// Description returns the BSS as a scan would report it.
func (ap *AP) Description() mlme.BSSDescription {
	ap.mu.Lock()
	defer ap.mu.Unlock()

	d := mlme.BSSDescription{
		BSSID:          ap.cfg.BSSID,
		SSID:           []byte(ap.cfg.SSID),
		BeaconPeriod:   ap.cfg.BeaconPeriod,
		Channel:        mac.Channel{Primary: ap.cfg.Channel},
		CapabilityInfo: ap.capabilityInfo(),
		Rates:          ap.cfg.Rates,
		RSSIDbm:        ap.cfg.RSSIDbm,
	}
	if ap.cfg.HT {
		d.HTCapabilities = htCapabilities()
		d.HTOperation = ap.htOperation()
	}
	if ap.cfg.Privacy {
		d.RSNE = rsne
	}
	return d
}

// ConnectRequest returns a request for this BSS using auth.
func (ap *AP) ConnectRequest(auth mlme.AuthType) mlme.ConnectRequest {
	req := mlme.ConnectRequest{BSS: ap.Description(), AuthType: auth}
	if ap.cfg.Privacy {
		req.SecurityIE = append([]byte{byte(mac.ElementRSN), byte(len(rsne))}, rsne...)
	}
	return req
}

// Peer reports the state and association ID of sta.
func (ap *AP) Peer(sta mac.Addr) (PeerState, uint16) {
	ap.mu.Lock()
	defer ap.mu.Unlock()
	p, ok := ap.peers[sta]
	if !ok {
		return PeerUnknown, 0
	}
	return p.state, p.aid
}

// PowerSave reports whether sta announced power save mode.
func (ap *AP) PowerSave(sta mac.Addr) bool {
	ap.mu.Lock()
	defer ap.mu.Unlock()
	p, ok := ap.peers[sta]
	return ok && p.powerSave
}

// Channel returns the AP's current primary channel.
func (ap *AP) Channel() mac.Channel {
	ap.mu.Lock()
	defer ap.mu.Unlock()
	return mac.Channel{Primary: ap.cfg.Channel}
}

// Received returns the data frames stations sent, as Ethernet frames.
func (ap *AP) Received() []mac.EthernetFrame {
	ap.mu.Lock()
	defer ap.mu.Unlock()
	return append([]mac.EthernetFrame(nil), ap.received...)
}

// Eapol returns the EAPoL payloads stations sent.
func (ap *AP) Eapol() [][]byte {
	ap.mu.Lock()
	defer ap.mu.Unlock()
	return append([][]byte(nil), ap.eapol...)
}

// HandleFrame processes a frame transmitted by a station.
func (ap *AP) HandleFrame(b []byte) error {
	f, err := mac.Parse(b)
	if err != nil {
		return err
	}
	if ap.cfg.Silent {
		return nil
	}

	ap.mu.Lock()
	defer ap.mu.Unlock()

	if f.Type == layers.Dot11TypeCtrlPowersavePoll {
		if f.Addr1 == ap.cfg.BSSID {
			ap.onPsPoll(f.Addr2)
		}
		return nil
	}
	if f.Addr1 != ap.cfg.BSSID {
		return nil
	}

	sta := f.Addr2
	switch f.Type {
	case layers.Dot11TypeMgmtAuthentication:
		return ap.onAuth(sta, f)
	case layers.Dot11TypeMgmtAssociationReq:
		return ap.onAssocReq(sta, f)
	case layers.Dot11TypeMgmtDeauthentication:
		ap.debugLog("station left", "sta", sta.String())
		delete(ap.peers, sta)
	case layers.Dot11TypeMgmtDisassociation:
		if p, ok := ap.peers[sta]; ok {
			p.state = PeerAuthenticated
		}
	default:
		if f.IsData() {
			return ap.onData(sta, f)
		}
	}
	return nil
}

func (ap *AP) onAuth(sta mac.Addr, f *mac.Frame) error {
	auth, err := f.Authentication()
	if err != nil {
		return err
	}
	if auth.Algorithm != mac.AuthOpenSystem || auth.Seq != 1 {
		return ap.emit(mac.BuildAuthentication(ap.header(sta), mac.Authentication{
			Algorithm: auth.Algorithm,
			Seq:       auth.Seq + 1,
			Status:    mac.StatusUnsupportedAuthAlgorithm,
		}))
	}

	status := ap.cfg.AuthStatus
	if status == mac.StatusSuccess {
		if _, ok := ap.peers[sta]; !ok {
			ap.peers[sta] = &peer{}
		}
		ap.peers[sta].state = PeerAuthenticated
	}
	ap.debugLog("authentication", "sta", sta.String(), "status", status.String())
	return ap.emit(mac.BuildAuthentication(ap.header(sta), mac.Authentication{
		Algorithm: mac.AuthOpenSystem,
		Seq:       2,
		Status:    status,
	}))
}

func (ap *AP) onAssocReq(sta mac.Addr, f *mac.Frame) error {
	if _, err := f.AssocRequest(); err != nil {
		return err
	}
	p, ok := ap.peers[sta]
	if !ok {
		return ap.emit(mac.BuildDeauthentication(ap.header(sta), mac.ReasonInvalidClass2Frame))
	}
	if ap.disassoc > 0 {
		ap.disassoc--
		ap.debugLog("association answered with disassociation", "sta", sta.String())
		return ap.emit(mac.BuildDisassociation(ap.header(sta), mac.ReasonUnspecified))
	}

	resp := mac.AssocResponse{CapabilityInfo: ap.capabilityInfo(), Status: ap.cfg.AssocStatus}
	if resp.Status == mac.StatusSuccess {
		if p.aid == 0 {
			p.aid = ap.nextAID
			ap.nextAID++
		}
		p.state = PeerAssociated
		resp.AID = p.aid

		elems := mac.Elements{{ID: mac.ElementSupportedRates, Body: ap.cfg.Rates}}
		if ap.cfg.HT {
			elems = append(elems,
				mac.Element{ID: mac.ElementHTCapabilities, Body: htCapabilities()},
				mac.Element{ID: mac.ElementHTOperation, Body: ap.htOperation()},
			)
		}
		ies, err := elems.Encode()
		if err != nil {
			return err
		}
		resp.Elements = ies
	}
	ap.debugLog("association", "sta", sta.String(), "status", resp.Status.String(), "aid", resp.AID)
	return ap.emit(mac.BuildAssocResponse(ap.header(sta), resp))
}

func (ap *AP) onData(sta mac.Addr, f *mac.Frame) error {
	p, ok := ap.peers[sta]
	if !ok || p.state != PeerAssociated {
		return ap.emit(mac.BuildDeauthentication(ap.header(sta), mac.ReasonInvalidClass3Frame))
	}

	ps := f.Flags.PowerManagement()
	if p.powerSave && !ps {
		ap.flush(sta, p)
	}
	p.powerSave = ps
	if f.IsNullData() {
		return nil
	}

	etherType, payload, err := f.LLC()
	if err != nil {
		return err
	}
	if etherType == mac.EtherTypeEAPOL {
		ap.eapol = append(ap.eapol, payload)
		return nil
	}
	ap.received = append(ap.received, mac.EthernetFrame{
		Dst:       f.Destination(),
		Src:       f.Source(),
		EtherType: etherType,
		Payload:   payload,
	})
	return nil
}

// onPsPoll releases one buffered frame.
func (ap *AP) onPsPoll(sta mac.Addr) {
	p, ok := ap.peers[sta]
	if !ok || len(p.buffered) == 0 {
		return
	}
	frame := p.buffered[0]
	p.buffered = p.buffered[1:]
	ap.queue(frame)
}

func (ap *AP) flush(sta mac.Addr, p *peer) {
	for _, frame := range p.buffered {
		ap.queue(frame)
	}
	p.buffered = nil
}

// Beacon transmits a beacon.
func (ap *AP) Beacon() error {
	ap.mu.Lock()
	defer ap.mu.Unlock()

	elems := mac.Elements{
		{ID: mac.ElementSSID, Body: []byte(ap.cfg.SSID)},
		{ID: mac.ElementSupportedRates, Body: ap.cfg.Rates},
		{ID: mac.ElementDSParameterSet, Body: []byte{ap.cfg.Channel}},
		{ID: mac.ElementTIM, Body: ap.tim().Encode()},
	}
	if ap.csa != nil {
		elems = append(elems, mac.Element{ID: mac.ElementChannelSwitch, Body: ap.csa.Encode()})
		if ap.csa.Count <= 1 {
			ap.cfg.Channel = ap.csa.NewChannel
			ap.csa = nil
		} else {
			ap.csa.Count--
		}
	}
	if ap.cfg.HT {
		elems = append(elems,
			mac.Element{ID: mac.ElementHTCapabilities, Body: htCapabilities()},
			mac.Element{ID: mac.ElementHTOperation, Body: ap.htOperation()},
		)
	}
	if ap.cfg.Privacy {
		elems = append(elems, mac.Element{ID: mac.ElementRSN, Body: rsne})
	}
	ies, err := elems.Encode()
	if err != nil {
		return err
	}

	hdr := mac.Header{Addr1: mac.Broadcast, Addr2: ap.cfg.BSSID, Addr3: ap.cfg.BSSID, Seq: ap.seq.Next()}
	return ap.emit(mac.BuildBeacon(hdr, mac.Beacon{
		Interval:       ap.cfg.BeaconPeriod,
		CapabilityInfo: ap.capabilityInfo(),
		Elements:       ies,
	}))
}

// tim builds a partial virtual bitmap starting at AID 0.
func (ap *AP) tim() mac.TIM {
	var bitmap []byte
	for _, p := range ap.peers {
		if len(p.buffered) == 0 {
			continue
		}
		idx := int(p.aid / 8)
		for len(bitmap) <= idx {
			bitmap = append(bitmap, 0)
		}
		bitmap[idx] |= 1 << (p.aid % 8)
	}
	return mac.TIM{DTIMPeriod: 1, Bitmap: bitmap}
}

// AnnounceChannelSwitch adds a channel switch announcement to the next
// beacons. The count drops by one with every beacon; the AP moves after
// the beacon announcing a count of one or less.
func (ap *AP) AnnounceChannelSwitch(channel, mode, count uint8) {
	ap.mu.Lock()
	defer ap.mu.Unlock()
	ap.csa = &mac.ChannelSwitch{Mode: mode, NewChannel: channel, Count: count}
}

// Deauthenticate sends a deauthentication to sta and forgets it.
func (ap *AP) Deauthenticate(sta mac.Addr, reason mac.ReasonCode) error {
	ap.mu.Lock()
	defer ap.mu.Unlock()
	if _, ok := ap.peers[sta]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStation, sta)
	}
	delete(ap.peers, sta)
	return ap.emit(mac.BuildDeauthentication(ap.header(sta), reason))
}

// Disassociate sends a disassociation to sta.
func (ap *AP) Disassociate(sta mac.Addr, reason mac.ReasonCode) error {
	ap.mu.Lock()
	defer ap.mu.Unlock()
	p, ok := ap.peers[sta]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStation, sta)
	}
	p.state = PeerAuthenticated
	return ap.emit(mac.BuildDisassociation(ap.header(sta), reason))
}

// SendData sends a frame from src on the distribution system to sta. It
// is buffered while sta is in power save mode.
func (ap *AP) SendData(sta, src mac.Addr, etherType uint16, payload []byte) error {
	ap.mu.Lock()
	defer ap.mu.Unlock()
	p, ok := ap.peers[sta]
	if !ok || p.state != PeerAssociated {
		return fmt.Errorf("%w: %s", ErrUnknownStation, sta)
	}

	hdr := ap.header(sta)
	hdr.Addr3 = src
	hdr.Flags = layers.Dot11FlagsFromDS
	frame, err := mac.BuildData(hdr, mac.Data{QoS: ap.cfg.QoS, EtherType: etherType, Payload: payload})
	if err != nil {
		return err
	}
	if p.powerSave {
		p.buffered = append(p.buffered, frame)
		return nil
	}
	ap.queue(frame)
	return nil
}

// Drain returns the queued frames and forgets them.
func (ap *AP) Drain() [][]byte {
	ap.mu.Lock()
	defer ap.mu.Unlock()
	out := ap.outbox
	ap.outbox = nil
	return out
}

// Ready is signalled whenever frames are queued.
func (ap *AP) Ready() <-chan struct{} {
	return ap.ready
}

// Forward hands every queued frame to deliver until ctx is cancelled.
func (ap *AP) Forward(ctx context.Context, deliver func([]byte) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ap.ready:
			for _, frame := range ap.Drain() {
				if err := deliver(frame); err != nil {
					return err
				}
			}
		}
	}
}

func (ap *AP) emit(frame []byte, err error) error {
	if err != nil {
		return err
	}
	ap.queue(frame)
	return nil
}

func (ap *AP) queue(frame []byte) {
	ap.outbox = append(ap.outbox, frame)
	select {
	case ap.ready <- struct{}{}:
	default:
	}
}

func (ap *AP) header(sta mac.Addr) mac.Header {
	return mac.Header{Addr1: sta, Addr2: ap.cfg.BSSID, Addr3: ap.cfg.BSSID, Seq: ap.seq.Next()}
}

func (ap *AP) capabilityInfo() uint16 {
	c := mac.CapESS | mac.CapShortSlot
	if ap.cfg.QoS {
		c |= mac.CapQoS
	}
	if ap.cfg.Privacy {
		c |= mac.CapPrivacy
	}
	return c
}

func (ap *AP) htOperation() []byte {
	op := make([]byte, mac.HTOperationLen)
	op[0] = ap.cfg.Channel
	return op
}

func htCapabilities() []byte {
	ht := make([]byte, mac.HTCapabilitiesLen)
	ht[0], ht[1] = 0x6e, 0x01
	ht[3] = 0xff
	return ht
}

func (ap *AP) debugLog(msg string, args ...any) {
	if ap.cfg.Logger != nil {
		ap.cfg.Logger.Debug(msg, args...)
	}
}
