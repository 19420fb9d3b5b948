package client

import (
	"bytes"
	"testing"

	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wlanstack/mlme-go/pkg/device"
	"github.com/wlanstack/mlme-go/pkg/mac"
	"github.com/wlanstack/mlme-go/pkg/mlme"
	"github.com/wlanstack/mlme-go/pkg/timer"
)

func privateRequest() mlme.ConnectRequest {
	req := testRequest()
	req.SecurityIE = testRSNE
	return req
}

func ethFrame(t *testing.T, etherType uint16, payload []byte) []byte {
	t.Helper()
	b, err := mac.BuildEthernet(mac.EthernetFrame{Dst: testPeer, Src: testIface, EtherType: etherType, Payload: payload})
	require.NoError(t, err)
	return b
}

func TestProtectedAssociationGatesData(t *testing.T) {
	h := newHarness(t, privateRequest())
	a := h.associate(1)
	require.False(t, a.ControlledPortOpen)

	h.data(0x0800, bytes.Repeat([]byte{0xab}, 64))
	assert.Empty(t, h.dev.Delivered())
	assert.Zero(t, h.sme.Len())

	eapol := []byte{0x02, 0x03, 0x00, 0x5f}
	h.data(mac.EtherTypeEAPOL, eapol)
	assert.Equal(t, []mlme.Message{mlme.EapolIndication{Src: testPeer, Dst: testIface, Data: eapol}}, h.sme.Drain())
	assert.Empty(t, h.dev.Delivered())

	assert.ErrorIs(t, h.c.OnEthFrame(ethFrame(t, 0x0800, make([]byte, 64))), ErrBadState)
	assert.Empty(t, h.sent())
}

func TestDataDelivery(t *testing.T) {
	h := newHarness(t, testRequest())
	h.associate(1)

	payload := bytes.Repeat([]byte{0x45}, 64)
	h.data(0x0800, payload)

	delivered := h.dev.Delivered()
	require.Len(t, delivered, 1)
	eth, err := mac.ParseEthernet(delivered[0])
	require.NoError(t, err)
	assert.Equal(t, testIface, eth.Dst)
	assert.Equal(t, testPeer, eth.Src)
	assert.Equal(t, uint16(0x0800), eth.EtherType)
	assert.Equal(t, payload, eth.Payload)
}

func TestShortPayloadsKeepTheirLength(t *testing.T) {
	h := newHarness(t, testRequest())
	h.associate(1)

	h.data(0x0800, []byte("downlink"))
	delivered := h.dev.Delivered()
	require.Len(t, delivered, 1)
	eth, err := mac.ParseEthernet(delivered[0])
	require.NoError(t, err)
	assert.Equal(t, []byte("downlink"), eth.Payload)

	require.NoError(t, h.c.OnEthFrame(ethFrame(t, 0x0800, []byte("uplink"))))
	frames := h.sent()
	require.Len(t, frames, 1)
	_, body, err := frames[0].LLC()
	require.NoError(t, err)
	assert.Equal(t, []byte("uplink"), body)
}

func TestNullDataKeepAlive(t *testing.T) {
	h := newHarness(t, testRequest())
	h.associate(1)

	hdr := apHeader()
	hdr.Flags = layers.Dot11FlagsFromDS
	h.rx(mac.BuildNullData(hdr))

	frames := h.sent()
	require.Len(t, frames, 1)
	assert.Equal(t, layers.Dot11TypeDataNull, frames[0].Type)
	assert.True(t, frames[0].Flags.ToDS())
	assert.False(t, frames[0].Flags.PowerManagement())
	assert.Empty(t, h.dev.Delivered())
}

func TestDeauthenticatedByAP(t *testing.T) {
	h := newHarness(t, testRequest())
	h.associate(1)

	h.deauth(mac.ReasonInactivity)

	assert.IsType(t, Joined{}, h.c.State())
	assert.Equal(t, []mlme.Message{mlme.DeauthenticateIndication{PeerSTA: testBSSID, Reason: mac.ReasonInactivity}}, h.sme.Drain())
	assert.Equal(t, []mac.Addr{testBSSID}, h.dev.Cleared())
	assert.Equal(t, device.LinkDown, h.dev.Link())
	assert.Empty(t, h.sent())
}

func TestDisassociatedByAP(t *testing.T) {
	h := newHarness(t, testRequest())
	h.associate(1)

	h.disassoc(mac.ReasonInactivity)

	assert.IsType(t, Authenticated{}, h.c.State())
	assert.Equal(t, []mlme.Message{mlme.DisassociateIndication{PeerSTA: testBSSID, Reason: mac.ReasonInactivity}}, h.sme.Drain())
	assert.Empty(t, h.dev.Cleared())
	assert.NotNil(t, h.dev.Assoc())
	assert.Equal(t, device.LinkDown, h.dev.Link())
}

func TestDisassociatedWhileAssociating(t *testing.T) {
	h := newHarness(t, testRequest())
	h.connect()
	h.sme.Drain()

	h.disassoc(mac.ReasonUnspecified)

	assert.IsType(t, Authenticated{}, h.c.State())
	confirm, ok := h.sme.Last().(mlme.ConnectConfirm)
	require.True(t, ok)
	assert.Equal(t, mac.StatusSpuriousDeauthOrDisassoc, confirm.Status)

	// The attempt is over; its connect timeout no longer applies.
	h.sme.Drain()
	h.fire(timer.ConnectTimeout)
	assert.IsType(t, Authenticated{}, h.c.State())
	assert.Zero(t, h.sme.Len())
}

func TestReconnect(t *testing.T) {
	disassociated := func(t *testing.T) *harness {
		h := newHarness(t, testRequest())
		h.associate(1)
		h.disassoc(mac.ReasonInactivity)
		h.sme.Drain()
		return h
	}

	t.Run("times out", func(t *testing.T) {
		h := disassociated(t)

		require.NoError(t, h.c.HandleMlmeMsg(mlme.ReconnectRequest{PeerSTA: testBSSID}))
		s, ok := h.c.State().(Associating)
		require.True(t, ok)
		assert.NotZero(t, s.ReconnectTimeout())
		assert.Equal(t, []layers.Dot11Type{layers.Dot11TypeMgmtAssociationReq}, h.sentTypes())

		h.fire(timer.ReconnectTimeout)

		assert.IsType(t, Authenticated{}, h.c.State())
		assert.Equal(t, []mlme.Message{mlme.ConnectConfirm{PeerSTA: testBSSID, Status: mac.StatusRejectedSequenceTimeout}}, h.sme.Drain())
	})

	t.Run("reassociates", func(t *testing.T) {
		h := disassociated(t)

		require.NoError(t, h.c.HandleMlmeMsg(mlme.ReconnectRequest{PeerSTA: testBSSID}))
		h.assocResp(mac.StatusSuccess, 7, mac.CapESS, nil)

		s, ok := h.c.State().(Associated)
		require.True(t, ok)
		assert.Equal(t, uint16(7), s.Association().AID)

		// The reconnect timer of the finished attempt is stale.
		h.fire(timer.ReconnectTimeout)
		assert.IsType(t, Associated{}, h.c.State())
	})

	t.Run("other peer", func(t *testing.T) {
		h := disassociated(t)

		require.NoError(t, h.c.HandleMlmeMsg(mlme.ReconnectRequest{PeerSTA: testPeer}))

		assert.IsType(t, Authenticated{}, h.c.State())
		assert.Equal(t, []mlme.Message{mlme.ConnectConfirm{PeerSTA: testPeer, Status: mac.StatusNotInSameBSS}}, h.sme.Drain())
		assert.Empty(t, h.sent())
	})

	t.Run("send failure", func(t *testing.T) {
		h := disassociated(t)
		h.dev.FailSendFrame = true

		require.NoError(t, h.c.HandleMlmeMsg(mlme.ReconnectRequest{PeerSTA: testBSSID}))

		assert.IsType(t, Authenticated{}, h.c.State())
		assert.Equal(t, []mlme.Message{mlme.ConnectConfirm{PeerSTA: testBSSID, Status: mac.StatusRefusedReasonUnspecified}}, h.sme.Drain())
	})
}

func TestReconnectWhileAssociatedReplaysConfirm(t *testing.T) {
	h := newHarness(t, testRequest())
	h.connect()
	h.sme.Drain()
	h.assocResp(mac.StatusSuccess, 42, mac.CapESS|mac.CapQoS, nil)
	original := h.sme.Drain()
	require.Len(t, original, 1)
	h.dev.DrainSent()

	require.NoError(t, h.c.HandleMlmeMsg(mlme.ReconnectRequest{PeerSTA: testBSSID}))
	assert.Equal(t, original, h.sme.Drain())
	assert.Empty(t, h.sent())
	assert.IsType(t, Associated{}, h.c.State())

	require.NoError(t, h.c.HandleMlmeMsg(mlme.ReconnectRequest{PeerSTA: testPeer}))
	assert.Equal(t, []mlme.Message{mlme.ConnectConfirm{PeerSTA: testPeer, Status: mac.StatusNotInSameBSS}}, h.sme.Drain())
}

func TestEthernetTransmit(t *testing.T) {
	payload := bytes.Repeat([]byte{0x11}, 64)

	t.Run("not associated", func(t *testing.T) {
		h := newHarness(t, testRequest())
		assert.ErrorIs(t, h.c.OnEthFrame(ethFrame(t, 0x0800, payload)), ErrBadState)
	})

	t.Run("QoS data", func(t *testing.T) {
		h := newHarness(t, testRequest())
		h.associate(1)

		require.NoError(t, h.c.OnEthFrame(ethFrame(t, 0x0800, payload)))

		frames := h.sent()
		require.Len(t, frames, 1)
		f := frames[0]
		assert.Equal(t, layers.Dot11TypeDataQOSData, f.Type)
		assert.True(t, f.Flags.ToDS())
		assert.False(t, f.Flags.WEP())
		assert.Equal(t, testBSSID, f.Addr1)
		assert.Equal(t, testIface, f.Addr2)
		assert.Equal(t, testPeer, f.Addr3)
		etherType, body, err := f.LLC()
		require.NoError(t, err)
		assert.Equal(t, uint16(0x0800), etherType)
		assert.Equal(t, payload, body)
	})

	t.Run("without QoS", func(t *testing.T) {
		h := newHarness(t, testRequest())
		h.connect()
		h.assocResp(mac.StatusSuccess, 1, mac.CapESS, nil)
		h.dev.DrainSent()

		require.NoError(t, h.c.OnEthFrame(ethFrame(t, 0x0800, payload)))
		assert.Equal(t, []layers.Dot11Type{layers.Dot11TypeData}, h.sentTypes())
	})

	t.Run("protected", func(t *testing.T) {
		h := newHarness(t, privateRequest())
		h.associate(1)
		require.NoError(t, h.c.HandleMlmeMsg(mlme.SetControlledPortRequest{PeerSTA: testBSSID, State: mlme.ControlledPortOpen}))

		require.NoError(t, h.c.OnEthFrame(ethFrame(t, 0x0800, payload)))
		frames := h.sent()
		require.Len(t, frames, 1)
		assert.True(t, frames[0].Flags.WEP())
	})

	t.Run("radio off the main channel", func(t *testing.T) {
		h := newHarness(t, testRequest())
		h.associate(1)
		require.NoError(t, h.dev.SetChannel(mac.Channel{Primary: 40}))

		assert.ErrorIs(t, h.c.OnEthFrame(ethFrame(t, 0x0800, payload)), ErrBadState)
		assert.Empty(t, h.sent())
	})

	t.Run("malformed", func(t *testing.T) {
		h := newHarness(t, testRequest())
		h.associate(1)

		assert.Error(t, h.c.OnEthFrame([]byte{1, 2, 3}))
		assert.Empty(t, h.sent())
	})
}

func TestControlledPort(t *testing.T) {
	h := newHarness(t, privateRequest())
	a := h.associate(1)

	open := mlme.SetControlledPortRequest{PeerSTA: testBSSID, State: mlme.ControlledPortOpen}
	require.NoError(t, h.c.HandleMlmeMsg(open))
	assert.True(t, a.ControlledPortOpen)
	assert.Equal(t, device.LinkUp, h.dev.Link())

	require.NoError(t, h.c.HandleMlmeMsg(open))
	assert.True(t, a.ControlledPortOpen)

	payload := bytes.Repeat([]byte{0x45}, 64)
	h.data(0x0800, payload)
	assert.Len(t, h.dev.Delivered(), 1)

	require.NoError(t, h.c.HandleMlmeMsg(mlme.SetControlledPortRequest{PeerSTA: testBSSID, State: mlme.ControlledPortClosed}))
	assert.False(t, a.ControlledPortOpen)
	assert.Equal(t, device.LinkDown, h.dev.Link())

	h.data(0x0800, payload)
	assert.Len(t, h.dev.Delivered(), 1)
}

func TestEapolRequest(t *testing.T) {
	eapol := []byte{0x01, 0x03, 0x00, 0x5f}

	t.Run("transmitted", func(t *testing.T) {
		h := newHarness(t, privateRequest())
		h.associate(1)

		require.NoError(t, h.c.HandleMlmeMsg(mlme.EapolRequest{Src: testIface, Dst: testBSSID, Data: eapol}))

		frames := h.sent()
		require.Len(t, frames, 1)
		assert.Equal(t, layers.Dot11TypeData, frames[0].Type)
		assert.False(t, frames[0].Flags.WEP())
		etherType, body, err := frames[0].LLC()
		require.NoError(t, err)
		assert.Equal(t, mac.EtherTypeEAPOL, etherType)
		assert.Equal(t, eapol, body)
		assert.Equal(t, []mlme.Message{mlme.EapolConfirm{Dst: testBSSID, Result: mlme.EapolSuccess}}, h.sme.Drain())
	})

	t.Run("send failure", func(t *testing.T) {
		h := newHarness(t, privateRequest())
		h.associate(1)
		h.dev.FailSendFrame = true

		require.NoError(t, h.c.HandleMlmeMsg(mlme.EapolRequest{Src: testIface, Dst: testBSSID, Data: eapol}))
		assert.Equal(t, []mlme.Message{mlme.EapolConfirm{Dst: testBSSID, Result: mlme.EapolTransmissionFailure}}, h.sme.Drain())
	})

	t.Run("open network", func(t *testing.T) {
		h := newHarness(t, testRequest())
		h.associate(1)

		assert.ErrorIs(t, h.c.HandleMlmeMsg(mlme.EapolRequest{Src: testIface, Dst: testBSSID, Data: eapol}), ErrNoPrivacy)
		assert.Empty(t, h.sent())
		assert.Zero(t, h.sme.Len())
	})
}

func TestSetKeys(t *testing.T) {
	req := mlme.SetKeysRequest{Keys: []mlme.KeyDescriptor{
		{Key: bytes.Repeat([]byte{1}, 16), KeyID: 0, KeyType: mlme.KeyTypePairwise, Address: testBSSID, CipherSuite: 0x000fac04},
		{Key: bytes.Repeat([]byte{2}, 16), KeyID: 1, KeyType: mlme.KeyTypeGroup, Address: mac.Broadcast, CipherSuite: 0x000fac04},
	}}

	t.Run("installed", func(t *testing.T) {
		h := newHarness(t, privateRequest())
		h.associate(1)

		require.NoError(t, h.c.HandleMlmeMsg(req))

		keys := h.dev.Keys()
		require.Len(t, keys, 2)
		assert.Equal(t, mlme.KeyTypePairwise, keys[0].KeyType)
		assert.Equal(t, testBSSID, keys[0].PeerAddr)
		assert.Equal(t, device.ProtectionRxTx, keys[0].Protection)
		assert.Equal(t, uint8(1), keys[1].KeyIndex)
		assert.Equal(t, []mlme.Message{mlme.SetKeysConfirm{Results: []mlme.SetKeyResult{
			{KeyID: 0, Status: 0},
			{KeyID: 1, Status: 0},
		}}}, h.sme.Drain())
	})

	t.Run("device failure", func(t *testing.T) {
		h := newHarness(t, privateRequest())
		h.associate(1)
		h.dev.FailSetKey = true

		require.NoError(t, h.c.HandleMlmeMsg(req))
		assert.Equal(t, []mlme.Message{mlme.SetKeysConfirm{Results: []mlme.SetKeyResult{
			{KeyID: 0, Status: -1},
			{KeyID: 1, Status: -1},
		}}}, h.sme.Drain())
	})

	t.Run("open network", func(t *testing.T) {
		h := newHarness(t, testRequest())
		h.associate(1)

		assert.ErrorIs(t, h.c.HandleMlmeMsg(req), ErrNoPrivacy)
		assert.Empty(t, h.dev.Keys())
		assert.Zero(t, h.sme.Len())
	})
}

func TestPowerSavePoll(t *testing.T) {
	t.Run("traffic indicated in TIM", func(t *testing.T) {
		h := newHarness(t, testRequest())
		h.associate(42)

		bitmap := make([]byte, 6)
		bitmap[5] = 1 << 2
		h.beacon(mac.Elements{{ID: mac.ElementTIM, Body: mac.TIM{DTIMPeriod: 1, Bitmap: bitmap}.Encode()}})

		frames := h.sent()
		require.Len(t, frames, 1)
		assert.Equal(t, layers.Dot11TypeCtrlPowersavePoll, frames[0].Type)
		assert.Equal(t, uint16(42|0xc000), frames[0].DurationID)
		assert.Equal(t, testBSSID, frames[0].Addr1)
	})

	t.Run("no traffic for this station", func(t *testing.T) {
		h := newHarness(t, testRequest())
		h.associate(7)

		bitmap := make([]byte, 6)
		bitmap[5] = 1 << 2
		h.beacon(mac.Elements{{ID: mac.ElementTIM, Body: mac.TIM{DTIMPeriod: 1, Bitmap: bitmap}.Encode()}})
		assert.Empty(t, h.sent())
	})

	t.Run("more data flag", func(t *testing.T) {
		h := newHarness(t, testRequest())
		h.associate(42)

		hdr := apHeader()
		hdr.Flags = layers.Dot11FlagsMD
		h.rx(mac.BuildAction(hdr, mac.Action{Category: mac.ActionBlockAck, Action: mac.ActionDelBA, Body: []byte{0, 0, 0, 0}}))

		assert.Equal(t, []layers.Dot11Type{layers.Dot11TypeCtrlPowersavePoll}, h.sentTypes())
	})

	t.Run("more data with port closed", func(t *testing.T) {
		h := newHarness(t, privateRequest())
		h.associate(42)

		hdr := apHeader()
		hdr.Flags = layers.Dot11FlagsMD
		h.rx(mac.BuildAction(hdr, mac.Action{Category: mac.ActionBlockAck, Action: mac.ActionDelBA, Body: []byte{0, 0, 0, 0}}))

		assert.Empty(t, h.sent())
	})
}

func TestChannelSwitch(t *testing.T) {
	target := mac.Channel{Primary: 40, CBW: mac.CBW20}
	csa := func(mode, count uint8) mac.Elements {
		return mac.Elements{{ID: mac.ElementChannelSwitch, Body: mac.ChannelSwitch{Mode: mode, NewChannel: 40, Count: count}.Encode()}}
	}

	t.Run("scheduled from beacon", func(t *testing.T) {
		h := newHarness(t, testRequest())
		a := h.associate(1)

		h.beacon(csa(1, 3))
		require.NotNil(t, a.ChannelSwitch)
		assert.Equal(t, target, a.ChannelSwitch.Channel)
		assert.Equal(t, testChannel, h.dev.CurrentChannel())
		assert.ErrorIs(t, h.c.OnEthFrame(ethFrame(t, 0x0800, make([]byte, 64))), ErrBadState)

		// A repeated announcement keeps the original schedule.
		h.beacon(csa(1, 2))
		assert.Equal(t, 1, pending(h.timers, timer.ChannelSwitch))

		h.fire(timer.ChannelSwitch)

		assert.Nil(t, a.ChannelSwitch)
		assert.Equal(t, target, h.dev.CurrentChannel())
		assert.Equal(t, target, h.c.Station().MainChannel())
		require.NoError(t, h.c.OnEthFrame(ethFrame(t, 0x0800, make([]byte, 64))))
	})

	t.Run("mode 0 keeps transmitting", func(t *testing.T) {
		h := newHarness(t, testRequest())
		a := h.associate(1)

		h.beacon(csa(0, 5))
		require.NotNil(t, a.ChannelSwitch)
		require.NoError(t, h.c.OnEthFrame(ethFrame(t, 0x0800, make([]byte, 64))))
	})

	t.Run("immediate", func(t *testing.T) {
		h := newHarness(t, testRequest())
		a := h.associate(1)

		h.beacon(csa(1, 1))
		assert.Nil(t, a.ChannelSwitch)
		assert.Equal(t, target, h.dev.CurrentChannel())
	})

	t.Run("action frame", func(t *testing.T) {
		h := newHarness(t, testRequest())
		h.associate(1)

		body, err := csa(1, 0).Encode()
		require.NoError(t, err)
		h.rx(mac.BuildAction(apHeader(), mac.Action{Category: mac.ActionSpectrumMgmt, Action: mac.ActionChannelSwitch, Body: body}))

		assert.Equal(t, target, h.dev.CurrentChannel())
		assert.Equal(t, target, h.c.Station().MainChannel())
	})

	t.Run("current channel ignored", func(t *testing.T) {
		h := newHarness(t, testRequest())
		a := h.associate(1)

		h.beacon(mac.Elements{{ID: mac.ElementChannelSwitch, Body: mac.ChannelSwitch{Mode: 1, NewChannel: 36, Count: 3}.Encode()}})
		assert.Nil(t, a.ChannelSwitch)
		assert.Zero(t, pending(h.timers, timer.ChannelSwitch))
	})
}

func TestBlockAckActionIgnored(t *testing.T) {
	h := newHarness(t, testRequest())
	a := h.associate(1)

	h.rx(mac.BuildAction(apHeader(), mac.Action{Category: mac.ActionBlockAck, Action: mac.ActionAddBARequest, Body: []byte{1, 0x02, 0x10, 0, 0, 0, 0}}))

	assert.Equal(t, BlockAckClosed, a.BlockAck.State)
	assert.Empty(t, h.sent())
	assert.IsType(t, Associated{}, h.c.State())
}
