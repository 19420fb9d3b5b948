package akm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlanstack/mlme-go/pkg/mac"
	"github.com/wlanstack/mlme-go/pkg/mlme"
)

var testBSSID = mac.MustParseAddr("02:00:00:00:00:01")

type sentAuth struct {
	algorithm mac.AuthAlgorithm
	seq       uint16
	status    mac.StatusCode
	elements  []byte
}

type fakeStation struct {
	sent    []sentAuth
	sme     mlme.Recorder
	sendErr error
}

func (f *fakeStation) BSSID() mac.Addr { return testBSSID }

func (f *fakeStation) SendAuthFrame(algorithm mac.AuthAlgorithm, seq uint16, status mac.StatusCode, elements []byte) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentAuth{algorithm, seq, status, elements})
	return nil
}

func (f *fakeStation) SendSme(msg mlme.Message) { f.sme.Send(msg) }

func TestNew(t *testing.T) {
	a, err := New(mlme.AuthTypeOpenSystem)
	require.NoError(t, err)
	assert.Equal(t, mac.AuthOpenSystem, a.Algorithm())

	a, err = New(mlme.AuthTypeSAE)
	require.NoError(t, err)
	assert.Equal(t, mac.AuthSAE, a.Algorithm())

	for _, at := range []mlme.AuthType{mlme.AuthTypeSharedKey, mlme.AuthTypeFastBSSTransition} {
		_, err := New(at)
		assert.ErrorIs(t, err, ErrUnsupported)
	}
}

func TestOpenSystem(t *testing.T) {
	sta := &fakeStation{}
	o := &OpenSystem{}

	_, err := o.HandleAuthFrame(sta, mac.Authentication{Algorithm: mac.AuthOpenSystem, Seq: 2})
	assert.ErrorIs(t, err, ErrUnexpected)

	st, err := o.Initiate(sta)
	require.NoError(t, err)
	assert.Equal(t, InProgress, st)
	require.Len(t, sta.sent, 1)
	assert.Equal(t, sentAuth{algorithm: mac.AuthOpenSystem, seq: 1}, sta.sent[0])

	st, err = o.HandleAuthFrame(sta, mac.Authentication{Algorithm: mac.AuthOpenSystem, Seq: 2, Status: mac.StatusRefusedReasonUnspecified})
	require.NoError(t, err)
	assert.Equal(t, Failed, st)

	st, err = o.HandleAuthFrame(sta, mac.Authentication{Algorithm: mac.AuthSAE, Seq: 2})
	assert.ErrorIs(t, err, ErrUnexpected)
	assert.Equal(t, Failed, st)

	st, err = o.HandleAuthFrame(sta, mac.Authentication{Algorithm: mac.AuthOpenSystem, Seq: 2})
	require.NoError(t, err)
	assert.Equal(t, AuthComplete, st)

	_, err = o.HandleSaeResponse(sta, mac.StatusSuccess)
	assert.ErrorIs(t, err, ErrUnexpected)
	_, err = o.HandleSaeFrameTx(sta, mlme.SaeFrame{})
	assert.ErrorIs(t, err, ErrUnexpected)
}

func TestOpenSystemSendFailure(t *testing.T) {
	sta := &fakeStation{sendErr: errors.New("tx")}
	st, err := (&OpenSystem{}).Initiate(sta)
	assert.Error(t, err)
	assert.Equal(t, Failed, st)
}

func TestSAE(t *testing.T) {
	sta := &fakeStation{}
	s := &SAE{}

	st, err := s.Initiate(sta)
	require.NoError(t, err)
	assert.Equal(t, InProgress, st)
	assert.Equal(t, mlme.SaeHandshakeIndication{PeerSTA: testBSSID}, sta.sme.Last())

	st, err = s.HandleSaeFrameTx(sta, mlme.SaeFrame{PeerSTA: testBSSID, Seq: 1, Body: []byte{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, InProgress, st)
	require.Len(t, sta.sent, 1)
	assert.Equal(t, mac.AuthSAE, sta.sent[0].algorithm)
	assert.Equal(t, []byte{1, 2}, sta.sent[0].elements)

	st, err = s.HandleAuthFrame(sta, mac.Authentication{Algorithm: mac.AuthSAE, Seq: 1, Elements: []byte{3}})
	require.NoError(t, err)
	assert.Equal(t, InProgress, st)
	assert.Equal(t, mlme.SaeFrameIndication{Frame: mlme.SaeFrame{PeerSTA: testBSSID, Seq: 1, Body: []byte{3}}}, sta.sme.Last())

	st, err = s.HandleSaeResponse(sta, mac.StatusRefusedReasonUnspecified)
	require.NoError(t, err)
	assert.Equal(t, Failed, st)

	st, err = s.HandleSaeResponse(sta, mac.StatusSuccess)
	require.NoError(t, err)
	assert.Equal(t, AuthComplete, st)
}
