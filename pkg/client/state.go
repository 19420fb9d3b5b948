package client

import (
	"github.com/wlanstack/mlme-go/pkg/akm"
	"github.com/wlanstack/mlme-go/pkg/mac"
	"github.com/wlanstack/mlme-go/pkg/timer"
)

// State is one state of the client. The set of states is closed: Joined,
// Authenticating, Associating, Authenticated and Associated.
type State interface {
	// String returns the state name.
	String() string

	// maxFrameClass is the highest frame class admitted in the state.
	maxFrameClass() mac.FrameClass
}

// Joined is the initial state: the station is tuned to the BSS but not
// authenticated.
type Joined struct{}

func (Joined) String() string { return "JOINED" }
func (Joined) maxFrameClass() mac.FrameClass { return mac.Class1 }

// Authenticating owns the authentication delegate of the attempt.
type Authenticating struct {
	algorithm akm.Algorithm

	// assocSent is set when the delegate completed on Initiate and the
	// association request is already out.
	assocSent bool
}

func (Authenticating) String() string { return "AUTHENTICATING" }

func (s Authenticating) maxFrameClass() mac.FrameClass {
	if s.assocSent {
		return mac.Class2
	}
	return mac.Class1
}

// Algorithm returns the authentication delegate.
func (s Authenticating) Algorithm() akm.Algorithm { return s.algorithm }

// Associating waits for an association response. ReconnectTimeout is set
// when the association was requested by the SME after a disassociation.
type Associating struct {
	reconnectTimeout timer.ID
}

func (Associating) String() string { return "ASSOCIATING" }
func (Associating) maxFrameClass() mac.FrameClass { return mac.Class2 }

// ReconnectTimeout returns the expected reconnect timer, or zero.
func (s Associating) ReconnectTimeout() timer.ID { return s.reconnectTimeout }

// Authenticated is entered after a disassociation. The device keeps its
// association context so the station can reassociate.
type Authenticated struct{}

func (Authenticated) String() string { return "AUTHENTICATED" }
func (Authenticated) maxFrameClass() mac.FrameClass { return mac.Class2 }

// Associated owns the live association.
type Associated struct {
	assoc *Association
}

func (Associated) String() string { return "ASSOCIATED" }
func (Associated) maxFrameClass() mac.FrameClass { return mac.Class3 }

// Association returns the association.
func (s Associated) Association() *Association { return s.assoc }
