package client

import (
	"github.com/google/gopacket/layers"

	"github.com/wlanstack/mlme-go/pkg/akm"
	"github.com/wlanstack/mlme-go/pkg/mac"
	"github.com/wlanstack/mlme-go/pkg/mlme"
)

// authOutcome is the interpretation of a delegate result.
type authOutcome uint8

const (
	authInProgress authOutcome = iota
	authComplete
	authFailed
)

// startConnecting selects and initiates the authentication delegate. A
// delegate that completes right away has the association request sent
// immediately; the state stays Authenticating and takes the association
// response.
func (Joined) startConnecting(sta *Station) State {
	alg, err := sta.cfg.AKM(sta.req.AuthType)
	if err != nil {
		return sta.failConnect(mac.StatusUnsupportedAuthAlgorithm, err.Error())
	}

	next := Authenticating{algorithm: alg}
	st, err := alg.Initiate(sta)
	switch next.interpret(sta, st, err) {
	case authFailed:
		return Joined{}
	case authComplete:
		next.assocSent = true
	}
	return next
}

// interpret applies a delegate result. Completion sends the association
// request; any failure runs the connect failure path.
func (s Authenticating) interpret(sta *Station, st akm.State, err error) authOutcome {
	switch {
	case err != nil:
		sta.failConnect(mac.StatusRefusedReasonUnspecified, err.Error())
		return authFailed
	case st == akm.InProgress:
		return authInProgress
	case st == akm.AuthComplete:
		if err := sta.sendAssocRequest(); err != nil {
			sta.failConnect(mac.StatusRefusedReasonUnspecified, "failed to send association request: "+err.Error())
			return authFailed
		}
		return authComplete
	default:
		sta.failConnect(mac.StatusRefusedReasonUnspecified, "authentication "+st.String())
		return authFailed
	}
}

// advance moves to the state matching a delegate result.
func (s Authenticating) advance(sta *Station, st akm.State, err error) State {
	switch s.interpret(sta, st, err) {
	case authComplete:
		return Associating{}
	case authFailed:
		return Joined{}
	default:
		return s
	}
}

func (s Authenticating) onMgmtFrame(sta *Station, f *mac.Frame) State {
	switch f.Type {
	case layers.Dot11TypeMgmtAuthentication:
		auth, err := f.Authentication()
		if err != nil {
			sta.logDrop(f.Type.String(), f.Body, 0, err.Error())
			return s
		}
		st, err := s.algorithm.HandleAuthFrame(sta, auth)
		return s.advance(sta, st, err)
	case layers.Dot11TypeMgmtAssociationResp, layers.Dot11TypeMgmtReassociationResp,
		layers.Dot11TypeMgmtDisassociation:
		if !s.assocSent {
			return s
		}
		return Associating{}.onMgmtFrame(sta, f)
	case layers.Dot11TypeMgmtDeauthentication:
		return sta.failConnect(mac.StatusSpuriousDeauthOrDisassoc, "deauthenticated while authenticating")
	default:
		return s
	}
}

func (s Authenticating) onSaeResponse(sta *Station, resp mlme.SaeHandshakeResponse) State {
	st, err := s.algorithm.HandleSaeResponse(sta, resp.Status)
	return s.advance(sta, st, err)
}

func (s Authenticating) onSaeFrameTx(sta *Station, tx mlme.SaeFrameTx) State {
	st, err := s.algorithm.HandleSaeFrameTx(sta, tx.Frame)
	return s.advance(sta, st, err)
}
