package mac

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// Header holds the addressing fields of an outbound frame.
type Header struct {
	Addr1 Addr
	Addr2 Addr
	Addr3 Addr
	Seq   uint16
	Flags layers.Dot11Flags
}

// Sequence hands out 12-bit sequence numbers.
type Sequence struct {
	next uint16
}

// Next returns the next sequence number.
func (s *Sequence) Next() uint16 {
	n := s.next
	s.next = (s.next + 1) & 0x0fff
	return n
}

func (h Header) dot11(t layers.Dot11Type) *layers.Dot11 {
	return &layers.Dot11{
		Type:           t,
		Flags:          h.Flags,
		Address1:       h.Addr1.HardwareAddr(),
		Address2:       h.Addr2.HardwareAddr(),
		Address3:       h.Addr3.HardwareAddr(),
		SequenceNumber: h.Seq & 0x0fff,
	}
}

// serialize encodes the layers and appends the FCS.
func serialize(ls ...gopacket.SerializableLayer) ([]byte, error) {
	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, ls...); err != nil {
		return nil, err
	}
	return appendFCS(buf.Bytes()), nil
}

func appendFCS(b []byte) []byte {
	out := make([]byte, len(b), len(b)+FCSLen)
	copy(out, b)
	return binary.LittleEndian.AppendUint32(out, crc32.ChecksumIEEE(b))
}

func mgmt(t layers.Dot11Type, h Header, body gopacket.SerializableLayer, elements []byte) ([]byte, error) {
	ls := []gopacket.SerializableLayer{h.dot11(t)}
	if body != nil {
		ls = append(ls, body)
	}
	if len(elements) > 0 {
		ls = append(ls, gopacket.Payload(elements))
	}
	return serialize(ls...)
}

// BuildAuthentication builds an authentication frame.
func BuildAuthentication(h Header, a Authentication) ([]byte, error) {
	return mgmt(layers.Dot11TypeMgmtAuthentication, h, &layers.Dot11MgmtAuthentication{
		Algorithm: layers.Dot11Algorithm(a.Algorithm),
		Sequence:  a.Seq,
		Status:    layers.Dot11Status(a.Status),
	}, a.Elements)
}

// BuildAssocRequest builds an association request frame.
func BuildAssocRequest(h Header, r AssocRequest) ([]byte, error) {
	return mgmt(layers.Dot11TypeMgmtAssociationReq, h, &layers.Dot11MgmtAssociationReq{
		CapabilityInfo: r.CapabilityInfo,
		ListenInterval: r.ListenInterval,
	}, r.Elements)
}

// BuildAssocResponse builds an association response frame. The two most
// significant AID bits are set as required on the air.
func BuildAssocResponse(h Header, r AssocResponse) ([]byte, error) {
	return mgmt(layers.Dot11TypeMgmtAssociationResp, h, &layers.Dot11MgmtAssociationResp{
		CapabilityInfo: r.CapabilityInfo,
		Status:         layers.Dot11Status(r.Status),
		AID:            r.AID | 0xc000,
	}, r.Elements)
}

// BuildBeacon builds a beacon frame.
func BuildBeacon(h Header, b Beacon) ([]byte, error) {
	return mgmt(layers.Dot11TypeMgmtBeacon, h, &layers.Dot11MgmtBeacon{
		Timestamp: b.Timestamp,
		Interval:  b.Interval,
		Flags:     b.CapabilityInfo,
	}, b.Elements)
}

// BuildDeauthentication builds a deauthentication frame.
func BuildDeauthentication(h Header, reason ReasonCode) ([]byte, error) {
	return mgmt(layers.Dot11TypeMgmtDeauthentication, h, &layers.Dot11MgmtDeauthentication{
		Reason: layers.Dot11Reason(reason),
	}, nil)
}

// BuildDisassociation builds a disassociation frame.
func BuildDisassociation(h Header, reason ReasonCode) ([]byte, error) {
	return mgmt(layers.Dot11TypeMgmtDisassociation, h, &layers.Dot11MgmtDisassociation{
		Reason: layers.Dot11Reason(reason),
	}, nil)
}

// BuildAction builds an action frame.
func BuildAction(h Header, a Action) ([]byte, error) {
	body := append([]byte{byte(a.Category), a.Action}, a.Body...)
	return mgmt(layers.Dot11TypeMgmtAction, h, nil, body)
}

// BuildPsPoll builds a PS-Poll control frame. gopacket always writes a full
// 24-byte header, so the 16-byte PS-Poll header is written directly.
func BuildPsPoll(bssid, ta Addr, aid uint16) []byte {
	b := make([]byte, 16)
	b[0] = uint8(layers.Dot11TypeCtrlPowersavePoll) << 2
	binary.LittleEndian.PutUint16(b[2:4], aid|0xc000)
	copy(b[4:10], bssid[:])
	copy(b[10:16], ta[:])
	return appendFCS(b)
}

// BuildNullData builds a null data frame. Power management state is
// signalled through h.Flags.
func BuildNullData(h Header) ([]byte, error) {
	return serialize(h.dot11(layers.Dot11TypeDataNull))
}

// Data describes the payload of an outbound data frame.
type Data struct {
	QoS       bool
	TID       uint8
	EtherType uint16
	Payload   []byte
}

// qosControl writes the two-byte QoS control field after the header.
type qosControl struct {
	tid uint8
}

func (q qosControl) LayerType() gopacket.LayerType { return layers.LayerTypeDot11DataQOSData }

func (q qosControl) SerializeTo(b gopacket.SerializeBuffer, _ gopacket.SerializeOptions) error {
	buf, err := b.PrependBytes(2)
	if err != nil {
		return err
	}
	buf[0] = q.tid & 0x0f
	buf[1] = 0
	return nil
}

// BuildData builds a data frame carrying an LLC/SNAP encapsulated payload.
func BuildData(h Header, d Data) ([]byte, error) {
	t := layers.Dot11TypeData
	ls := []gopacket.SerializableLayer{}
	if d.QoS {
		t = layers.Dot11TypeDataQOSData
		ls = append(ls, h.dot11(t), qosControl{tid: d.TID})
	} else {
		ls = append(ls, h.dot11(t))
	}
	ls = append(ls,
		&layers.LLC{DSAP: 0xaa, SSAP: 0xaa, Control: 0x03},
		&layers.SNAP{OrganizationalCode: []byte{0, 0, 0}, Type: layers.EthernetType(d.EtherType)},
		gopacket.Payload(d.Payload),
	)
	return serialize(ls...)
}
