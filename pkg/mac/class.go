package mac

import "github.com/google/gopacket/layers"

// FrameClass orders frames by the connection state they require.
type FrameClass uint8

const (
	Class1 FrameClass = 1
	Class2 FrameClass = 2
	Class3 FrameClass = 3
)

// String returns the class name.
func (c FrameClass) String() string {
	switch c {
	case Class1:
		return "CLASS1"
	case Class2:
		return "CLASS2"
	case Class3:
		return "CLASS3"
	default:
		return "UNKNOWN"
	}
}

// Class returns the frame class of f.
func (f *Frame) Class() FrameClass {
	switch f.Type.MainType() {
	case layers.Dot11TypeCtrl:
		if f.Type == layers.Dot11TypeCtrlPowersavePoll {
			return Class3
		}
		return Class1
	case layers.Dot11TypeMgmt:
		switch f.Type {
		case layers.Dot11TypeMgmtAssociationReq, layers.Dot11TypeMgmtAssociationResp,
			layers.Dot11TypeMgmtReassociationReq, layers.Dot11TypeMgmtReassociationResp,
			layers.Dot11TypeMgmtDisassociation:
			return Class2
		case layers.Dot11TypeMgmtAction, layers.Dot11TypeMgmtActionNoAck:
			if len(f.Body) > 0 && ActionCategory(f.Body[0]) == ActionPublic {
				return Class1
			}
			return Class3
		default:
			return Class1
		}
	default:
		if !f.Flags.ToDS() && !f.Flags.FromDS() {
			return Class1
		}
		return Class3
	}
}
