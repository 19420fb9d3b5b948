package client

import (
	"log/slog"
	"time"

	"github.com/google/gopacket/layers"
	"github.com/google/uuid"

	"github.com/wlanstack/mlme-go/pkg/akm"
	"github.com/wlanstack/mlme-go/pkg/capabilities"
	"github.com/wlanstack/mlme-go/pkg/device"
	"github.com/wlanstack/mlme-go/pkg/log"
	"github.com/wlanstack/mlme-go/pkg/mac"
	"github.com/wlanstack/mlme-go/pkg/mlme"
	"github.com/wlanstack/mlme-go/pkg/timer"
)

// Deps are the collaborators of a Client.
type Deps struct {
	// Device is the driver session of the station interface.
	Device device.Device

	// Sme receives confirms and indications.
	Sme mlme.Sink

	// Timer schedules timers. Fired timers must be delivered back through
	// Client.OnTimedEvent.
	Timer timer.Scheduler

	// Iface is the station's MAC address.
	Iface mac.Addr
}

// Station is the long-lived context of a connect attempt: the connect
// parameters and everything the states share.
type Station struct {
	cfg    Config
	dev    device.Device
	sme    mlme.Sink
	timers timer.Scheduler
	iface  mac.Addr
	req    mlme.ConnectRequest

	seq            mac.Sequence
	mainChannel    mac.Channel
	connectTimeout timer.ID
	offChannel     bool

	attemptID string
	logger    *slog.Logger
	plog      log.Logger
}

var _ akm.Station = (*Station)(nil)

func newStation(cfg Config, deps Deps, req mlme.ConnectRequest) *Station {
	plog := cfg.ProtocolLogger
	if plog == nil {
		plog = log.NoopLogger{}
	}
	return &Station{
		cfg:         cfg,
		dev:         deps.Device,
		sme:         deps.Sme,
		timers:      deps.Timer,
		iface:       deps.Iface,
		req:         req,
		mainChannel: req.BSS.Channel,
		attemptID:   uuid.NewString(),
		logger:      cfg.Logger,
		plog:        plog,
	}
}

// BSSID returns the BSS this station connects to.
func (s *Station) BSSID() mac.Addr {
	return s.req.BSS.BSSID
}

// Iface returns the station's own address.
func (s *Station) Iface() mac.Addr {
	return s.iface
}

// MainChannel returns the operating channel of the BSS.
func (s *Station) MainChannel() mac.Channel {
	return s.mainChannel
}

// AttemptID identifies the current connect attempt in protocol logs.
func (s *Station) AttemptID() string {
	return s.attemptID
}

// ConnectRequest returns the parameters of the connect attempt.
func (s *Station) ConnectRequest() mlme.ConnectRequest {
	return s.req
}

func (s *Station) debugLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, append(args, "bssid", s.BSSID().String())...)
	}
}

func (s *Station) warnLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, append(args, "bssid", s.BSSID().String())...)
	}
}

// beaconPeriod returns the beacon period of the BSS.
func (s *Station) beaconPeriod() time.Duration {
	bp := s.req.BSS.BeaconPeriod
	if bp == 0 {
		bp = s.cfg.DefaultBeaconPeriod
	}
	return tu(uint32(bp))
}

// beacons returns the duration of n beacon periods.
func (s *Station) beacons(n uint32) time.Duration {
	return s.beaconPeriod() * time.Duration(n)
}

// tu converts time units (1024 microseconds) to a duration.
func tu(n uint32) time.Duration {
	return time.Duration(n) * 1024 * time.Microsecond
}

// schedule arms a timer and logs it.
func (s *Station) schedule(d time.Duration, kind timer.Kind) timer.ID {
	id := s.timers.ScheduleAfter(d, kind)
	s.debugLog("timer scheduled", "timer", kind.String(), "id", uint64(id), "after", d)
	return id
}

// SendSme forwards a confirm or indication to the SME.
func (s *Station) SendSme(msg mlme.Message) {
	s.logMessage(log.DirectionOut, msg)
	s.sme.Send(msg)
}

func (s *Station) header() mac.Header {
	return mac.Header{Addr1: s.BSSID(), Addr2: s.iface, Addr3: s.BSSID(), Seq: s.seq.Next()}
}

// sendFrame transmits a built frame.
func (s *Station) sendFrame(frame []byte, typ layers.Dot11Type) error {
	s.logFrame(log.DirectionOut, typ, frame, 0)
	if err := s.dev.SendFrame(frame); err != nil {
		s.logError("send "+typ.String(), err)
		return err
	}
	return nil
}

// SendAuthFrame transmits an authentication frame to the BSS.
func (s *Station) SendAuthFrame(algorithm mac.AuthAlgorithm, seq uint16, status mac.StatusCode, elements []byte) error {
	frame, err := mac.BuildAuthentication(s.header(), mac.Authentication{
		Algorithm: algorithm,
		Seq:       seq,
		Status:    status,
		Elements:  elements,
	})
	if err != nil {
		return err
	}
	return s.sendFrame(frame, layers.Dot11TypeMgmtAuthentication)
}

// sendAssocRequest transmits an association request advertising the local
// capabilities and the SME's security element.
func (s *Station) sendAssocRequest() error {
	local := s.cfg.Capabilities
	bss := s.req.BSS

	rates := local.Rates
	elems := mac.Elements{{ID: mac.ElementSSID, Body: bss.SSID}}
	if len(rates) > 8 {
		elems = append(elems,
			mac.Element{ID: mac.ElementSupportedRates, Body: rates[:8]},
			mac.Element{ID: mac.ElementExtSupportedRates, Body: rates[8:]},
		)
	} else {
		elems = append(elems, mac.Element{ID: mac.ElementSupportedRates, Body: rates})
	}
	if len(local.HTCapabilities) > 0 && len(bss.HTCapabilities) > 0 {
		elems = append(elems, mac.Element{ID: mac.ElementHTCapabilities, Body: local.HTCapabilities})
		if len(local.VHTCapabilities) > 0 && len(bss.VHTCapabilities) > 0 {
			elems = append(elems, mac.Element{ID: mac.ElementVHTCapabilities, Body: local.VHTCapabilities})
		}
	}
	ies, err := elems.Encode()
	if err != nil {
		return err
	}
	ies = append(ies, s.req.SecurityIE...)

	capInfo := local.CapabilityInfo
	if s.req.PrivacyRequired() {
		capInfo |= mac.CapPrivacy
	}
	frame, err := mac.BuildAssocRequest(s.header(), mac.AssocRequest{
		CapabilityInfo: capInfo,
		ListenInterval: s.cfg.ListenInterval,
		Elements:       ies,
	})
	if err != nil {
		return err
	}
	return s.sendFrame(frame, layers.Dot11TypeMgmtAssociationReq)
}

func (s *Station) sendDeauth(reason mac.ReasonCode) error {
	frame, err := mac.BuildDeauthentication(s.header(), reason)
	if err != nil {
		return err
	}
	return s.sendFrame(frame, layers.Dot11TypeMgmtDeauthentication)
}

// sendPowerState sends a null data frame announcing the power management
// state to the BSS.
func (s *Station) sendPowerState(powerSave bool) error {
	h := s.header()
	h.Flags = layers.Dot11FlagsToDS
	if powerSave {
		h.Flags |= layers.Dot11FlagsPowerManagement
	}
	frame, err := mac.BuildNullData(h)
	if err != nil {
		return err
	}
	return s.sendFrame(frame, layers.Dot11TypeDataNull)
}

func (s *Station) sendPsPoll(aid uint16) error {
	return s.sendFrame(mac.BuildPsPoll(s.BSSID(), s.iface, aid), layers.Dot11TypeCtrlPowersavePoll)
}

// sendData transmits an LLC encapsulated payload to dst through the BSS.
func (s *Station) sendData(src, dst mac.Addr, etherType uint16, payload []byte, qos, protected bool) error {
	h := mac.Header{Addr1: s.BSSID(), Addr2: src, Addr3: dst, Seq: s.seq.Next(), Flags: layers.Dot11FlagsToDS}
	if protected {
		h.Flags |= layers.Dot11FlagsWEP
	}
	frame, err := mac.BuildData(h, mac.Data{QoS: qos, EtherType: etherType, Payload: payload})
	if err != nil {
		return err
	}
	typ := layers.Dot11TypeData
	if qos {
		typ = layers.Dot11TypeDataQOSData
	}
	return s.sendFrame(frame, typ)
}

// clearAssoc removes the association context from the device. Failures
// are logged only.
func (s *Station) clearAssoc() {
	if err := s.dev.ClearAssoc(s.BSSID()); err != nil {
		s.logError("clear association", err)
	}
}

// failConnect is the single cleanup path of a failed connect attempt: the
// SME is told why and the device forgets the BSS.
func (s *Station) failConnect(status mac.StatusCode, why string) State {
	s.warnLog("connect failed", "status", status.String(), "reason", why)
	s.connectTimeout = 0
	s.SendSme(mlme.ConnectConfirm{PeerSTA: s.BSSID(), Status: status})
	s.clearAssoc()
	return Joined{}
}

// observedCapabilities returns what the BSS advertised before association.
func (s *Station) observedCapabilities() capabilities.Capabilities {
	bss := s.req.BSS
	return capabilities.Capabilities{
		CapabilityInfo:  bss.CapabilityInfo,
		Rates:           bss.Rates,
		HTCapabilities:  bss.HTCapabilities,
		VHTCapabilities: bss.VHTCapabilities,
	}
}
