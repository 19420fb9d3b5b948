package client

import "github.com/wlanstack/mlme-go/pkg/mac"

// BlockAckState is the state of the block ack session with the BSS.
type BlockAckState uint8

const (
	BlockAckClosed BlockAckState = iota
	BlockAckEstablishing
	BlockAckEstablished
)

// String returns the state name.
func (b BlockAckState) String() string {
	switch b {
	case BlockAckClosed:
		return "CLOSED"
	case BlockAckEstablishing:
		return "ESTABLISHING"
	case BlockAckEstablished:
		return "ESTABLISHED"
	default:
		return "UNKNOWN"
	}
}

// BlockAck is the block ack session of an association.
//
// Block ack is not enabled: the session never leaves BlockAckClosed and
// action frames from the BSS are ignored.
type BlockAck struct {
	State BlockAckState
}

func (b *BlockAck) onAction(sta *Station, act mac.Action) {
	sta.debugLog("block ack not enabled, action ignored",
		"action", act.Action, "block_ack", b.State.String())
}
