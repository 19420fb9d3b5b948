package mac

import (
	"errors"
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// ErrMalformed is returned for frames that cannot be decoded.
var ErrMalformed = errors.New("malformed frame")

// FCSLen is the length of the frame check sequence trailing every frame.
const FCSLen = 4

// Frame is a decoded 802.11 MAC frame. Body holds the management frame body
// or the data frame payload (after any QoS control field), without FCS.
type Frame struct {
	Type       layers.Dot11Type
	Flags      layers.Dot11Flags
	DurationID uint16
	Addr1      Addr
	Addr2      Addr
	Addr3      Addr
	Seq        uint16
	QoS        *layers.Dot11QOS
	Body       []byte
}

// Parse decodes a raw frame including its FCS. Frames with a bad FCS are
// rejected.
func Parse(b []byte) (*Frame, error) {
	need, err := minFrameLen(b)
	if err != nil {
		return nil, err
	}
	if len(b) < need {
		return nil, fmt.Errorf("%w: length %d, need %d", ErrMalformed, len(b), need)
	}

	var d layers.Dot11
	if err := d.DecodeFromBytes(b, gopacket.NilDecodeFeedback); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !d.ChecksumValid() {
		return nil, fmt.Errorf("%w: bad FCS", ErrMalformed)
	}

	f := &Frame{
		Type:       d.Type,
		Flags:      d.Flags,
		DurationID: d.DurationID,
		Seq:        d.SequenceNumber,
		QoS:        d.QOS,
		Body:       d.Payload,
	}
	copy(f.Addr1[:], d.Address1)
	copy(f.Addr2[:], d.Address2)
	copy(f.Addr3[:], d.Address3)
	return f, nil
}

// minFrameLen returns the smallest valid length for the frame control in b.
func minFrameLen(b []byte) (int, error) {
	if len(b) < 2 {
		return 0, fmt.Errorf("%w: length %d", ErrMalformed, len(b))
	}
	t := layers.Dot11Type(b[0]&0xfc) >> 2
	flags := layers.Dot11Flags(b[1])
	if b[0]&0x03 != 0 {
		return 0, fmt.Errorf("%w: protocol version %d", ErrMalformed, b[0]&0x03)
	}

	n := 0
	switch t.MainType() {
	case layers.Dot11TypeCtrl:
		n = 10
		switch t {
		case layers.Dot11TypeCtrlRTS, layers.Dot11TypeCtrlPowersavePoll,
			layers.Dot11TypeCtrlCFEnd, layers.Dot11TypeCtrlCFEndAck:
			n = 16
		}
	case layers.Dot11TypeMgmt:
		n = 24
		if flags.Order() {
			n += 4
		}
	case layers.Dot11TypeData:
		n = 24
		if flags.ToDS() && flags.FromDS() {
			n += 6
		}
		if t.QOS() {
			n += 2
			if flags.Order() {
				n += 4
			}
		}
	default:
		return 0, fmt.Errorf("%w: reserved frame type", ErrMalformed)
	}
	return n + FCSLen, nil
}

// IsMgmt reports whether f is a management frame.
func (f *Frame) IsMgmt() bool { return f.Type.MainType() == layers.Dot11TypeMgmt }

// IsData reports whether f is a data frame.
func (f *Frame) IsData() bool { return f.Type.MainType() == layers.Dot11TypeData }

// IsCtrl reports whether f is a control frame.
func (f *Frame) IsCtrl() bool { return f.Type.MainType() == layers.Dot11TypeCtrl }

// IsNullData reports whether f is a data frame without payload.
func (f *Frame) IsNullData() bool {
	return f.Type == layers.Dot11TypeDataNull || f.Type == layers.Dot11TypeDataQOSNull
}

// MoreData reports whether the sender has more buffered frames.
func (f *Frame) MoreData() bool { return f.Flags.MD() }

// BSSID returns the BSSID carried by the frame, or the zero address for
// control frames without one.
func (f *Frame) BSSID() Addr {
	switch f.Type.MainType() {
	case layers.Dot11TypeMgmt:
		return f.Addr3
	case layers.Dot11TypeData:
		switch {
		case f.Flags.FromDS() && !f.Flags.ToDS():
			return f.Addr2
		case f.Flags.ToDS() && !f.Flags.FromDS():
			return f.Addr1
		case !f.Flags.ToDS() && !f.Flags.FromDS():
			return f.Addr3
		}
	case layers.Dot11TypeCtrl:
		if f.Type == layers.Dot11TypeCtrlPowersavePoll {
			return f.Addr1
		}
	}
	return Addr{}
}

// Source returns the original source address of a data frame.
func (f *Frame) Source() Addr {
	if f.Flags.FromDS() {
		return f.Addr3
	}
	return f.Addr2
}

// Destination returns the final destination address of a data frame.
func (f *Frame) Destination() Addr {
	if f.Flags.ToDS() {
		return f.Addr3
	}
	return f.Addr1
}

// Authentication is the body of an authentication frame.
type Authentication struct {
	Algorithm AuthAlgorithm
	Seq       uint16
	Status    StatusCode
	Elements  []byte
}

// AssocRequest is the body of an association request frame.
type AssocRequest struct {
	CapabilityInfo uint16
	ListenInterval uint16
	Elements       []byte
}

// AssocResponse is the body of an association or reassociation response.
type AssocResponse struct {
	CapabilityInfo uint16
	Status         StatusCode
	AID            uint16
	Elements       []byte
}

// Beacon is the body of a beacon frame.
type Beacon struct {
	Timestamp      uint64
	Interval       uint16
	CapabilityInfo uint16
	Elements       []byte
}

// ActionCategory is the category of an action frame (9.4.1.11).
type ActionCategory uint8

const (
	ActionSpectrumMgmt ActionCategory = 0
	ActionQoS          ActionCategory = 1
	ActionBlockAck     ActionCategory = 3
	ActionPublic       ActionCategory = 4
)

// Action codes used by the station.
const (
	ActionChannelSwitch uint8 = 4 // spectrum management
	ActionAddBARequest  uint8 = 0 // block ack
	ActionAddBAResponse uint8 = 1
	ActionDelBA         uint8 = 2
)

// Action is the body of an action frame.
type Action struct {
	Category ActionCategory
	Action   uint8
	Body     []byte
}

func (f *Frame) expectMgmt(types ...layers.Dot11Type) error {
	for _, t := range types {
		if f.Type == t {
			return nil
		}
	}
	return fmt.Errorf("%w: unexpected frame type %v", ErrMalformed, f.Type)
}

// Authentication decodes an authentication frame body.
func (f *Frame) Authentication() (Authentication, error) {
	if err := f.expectMgmt(layers.Dot11TypeMgmtAuthentication); err != nil {
		return Authentication{}, err
	}
	var l layers.Dot11MgmtAuthentication
	if err := l.DecodeFromBytes(f.Body, gopacket.NilDecodeFeedback); err != nil {
		return Authentication{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Authentication{
		Algorithm: AuthAlgorithm(l.Algorithm),
		Seq:       l.Sequence,
		Status:    StatusCode(l.Status),
		Elements:  l.Payload,
	}, nil
}

// AssocRequest decodes an association request body.
func (f *Frame) AssocRequest() (AssocRequest, error) {
	if err := f.expectMgmt(layers.Dot11TypeMgmtAssociationReq); err != nil {
		return AssocRequest{}, err
	}
	var l layers.Dot11MgmtAssociationReq
	if err := l.DecodeFromBytes(f.Body, gopacket.NilDecodeFeedback); err != nil {
		return AssocRequest{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return AssocRequest{
		CapabilityInfo: l.CapabilityInfo,
		ListenInterval: l.ListenInterval,
		Elements:       l.Payload,
	}, nil
}

// AssocResponse decodes an association or reassociation response body.
// The two subtypes share the same fixed fields.
func (f *Frame) AssocResponse() (AssocResponse, error) {
	if err := f.expectMgmt(layers.Dot11TypeMgmtAssociationResp, layers.Dot11TypeMgmtReassociationResp); err != nil {
		return AssocResponse{}, err
	}
	var l layers.Dot11MgmtAssociationResp
	if err := l.DecodeFromBytes(f.Body, gopacket.NilDecodeFeedback); err != nil {
		return AssocResponse{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return AssocResponse{
		CapabilityInfo: l.CapabilityInfo,
		Status:         StatusCode(l.Status),
		AID:            l.AID & 0x3fff,
		Elements:       l.Payload,
	}, nil
}

// Beacon decodes a beacon or probe response body.
func (f *Frame) Beacon() (Beacon, error) {
	if err := f.expectMgmt(layers.Dot11TypeMgmtBeacon, layers.Dot11TypeMgmtProbeResp); err != nil {
		return Beacon{}, err
	}
	var l layers.Dot11MgmtBeacon
	if err := l.DecodeFromBytes(f.Body, gopacket.NilDecodeFeedback); err != nil {
		return Beacon{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Beacon{
		Timestamp:      l.Timestamp,
		Interval:       l.Interval,
		CapabilityInfo: l.Flags,
		Elements:       l.Payload,
	}, nil
}

// Reason decodes the reason code of a deauthentication or disassociation
// frame.
func (f *Frame) Reason() (ReasonCode, error) {
	switch f.Type {
	case layers.Dot11TypeMgmtDeauthentication:
		var l layers.Dot11MgmtDeauthentication
		if err := l.DecodeFromBytes(f.Body, gopacket.NilDecodeFeedback); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return ReasonCode(l.Reason), nil
	case layers.Dot11TypeMgmtDisassociation:
		var l layers.Dot11MgmtDisassociation
		if err := l.DecodeFromBytes(f.Body, gopacket.NilDecodeFeedback); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return ReasonCode(l.Reason), nil
	default:
		return 0, fmt.Errorf("%w: no reason code in %v", ErrMalformed, f.Type)
	}
}

// Action decodes an action frame body.
func (f *Frame) Action() (Action, error) {
	if err := f.expectMgmt(layers.Dot11TypeMgmtAction, layers.Dot11TypeMgmtActionNoAck); err != nil {
		return Action{}, err
	}
	if len(f.Body) < 2 {
		return Action{}, fmt.Errorf("%w: action body length %d", ErrMalformed, len(f.Body))
	}
	return Action{Category: ActionCategory(f.Body[0]), Action: f.Body[1], Body: f.Body[2:]}, nil
}

// LLC decodes the LLC/SNAP header of a data frame payload.
func (f *Frame) LLC() (etherType uint16, payload []byte, err error) {
	if !f.IsData() || f.IsNullData() {
		return 0, nil, fmt.Errorf("%w: no payload in %v", ErrMalformed, f.Type)
	}
	var llc layers.LLC
	if err := llc.DecodeFromBytes(f.Body, gopacket.NilDecodeFeedback); err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if llc.DSAP != 0xaa || llc.SSAP != 0xaa {
		return 0, nil, fmt.Errorf("%w: not a SNAP header", ErrMalformed)
	}
	var snap layers.SNAP
	if err := snap.DecodeFromBytes(llc.Payload, gopacket.NilDecodeFeedback); err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return uint16(snap.Type), snap.Payload, nil
}

// EtherTypeEAPOL is the EtherType of 802.1X frames.
const EtherTypeEAPOL uint16 = 0x888e

