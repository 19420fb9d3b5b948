package mlme_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlanstack/mlme-go/internal/sim"
	"github.com/wlanstack/mlme-go/pkg/client"
	"github.com/wlanstack/mlme-go/pkg/device"
	"github.com/wlanstack/mlme-go/pkg/dispatch"
	"github.com/wlanstack/mlme-go/pkg/mac"
	"github.com/wlanstack/mlme-go/pkg/mlme"
	"github.com/wlanstack/mlme-go/pkg/sme"
)

var (
	staAddr  = mac.MustParseAddr("02:00:00:00:00:02")
	hostAddr = mac.MustParseAddr("02:00:00:00:00:77")
)

const (
	waitFor = 5 * time.Second
	tick    = 5 * time.Millisecond
)

// testbed runs a station, its supervisor and a simulated AP in real time.
type testbed struct {
	ap       *sim.AP
	dev      *device.FakeDevice
	disp     *dispatch.Dispatcher
	sup      *sme.Supervisor
	messages mlme.Recorder

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newTestbed(t *testing.T, apCfg sim.Config, opts ...func(*sme.Config)) *testbed {
	t.Helper()

	tb := &testbed{ap: sim.New(apCfg)}
	tb.dev = device.NewFakeDevice(tb.ap.Channel())
	tb.dev.OnSend = func(frame []byte) { _ = tb.ap.HandleFrame(frame) }

	tb.disp = dispatch.New(dispatch.Config{
		Client: client.DefaultConfig(),
		Device: tb.dev,
		Sme:    mlme.SinkFunc(func(msg mlme.Message) { tb.sup.Send(msg) }),
		Iface:  staAddr,
	})
	supCfg := sme.Config{
		Request: tb.ap.ConnectRequest(mlme.AuthTypeOpenSystem),
		Backoff: sme.BackoffConfig{Initial: 10 * time.Millisecond, Max: 20 * time.Millisecond, Jitter: -1},
		Next:    &tb.messages,
	}
	for _, opt := range opts {
		opt(&supCfg)
	}
	tb.sup = sme.New(supCfg, tb.disp)

	ctx, cancel := context.WithCancel(context.Background())
	tb.cancel = cancel
	tb.run(func() error { return tb.disp.Run(ctx) })
	tb.run(func() error { return tb.sup.Run(ctx) })
	tb.run(func() error {
		return tb.ap.Forward(ctx, func(frame []byte) error {
			return tb.disp.DeliverFrame(ctx, frame, client.RxInfo{RSSIDbm: -50})
		})
	})

	t.Cleanup(tb.stop)
	return tb
}

func (tb *testbed) run(fn func() error) {
	tb.wg.Add(1)
	go func() {
		defer tb.wg.Done()
		_ = fn()
	}()
}

func (tb *testbed) stop() {
	tb.cancel()
	tb.wg.Wait()
}

func (tb *testbed) peer() sim.PeerState {
	state, _ := tb.ap.Peer(staAddr)
	return state
}

func (tb *testbed) waitConnected(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool {
		return tb.sup.State() == sme.StateConnected && tb.peer() == sim.PeerAssociated
	}, waitFor, tick, "station never associated")
}

func (tb *testbed) confirms() []mlme.ConnectConfirm {
	return mlme.Of[mlme.ConnectConfirm](&tb.messages)
}

func TestE2E_ConnectAndExchangeData(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tb := newTestbed(t, sim.DefaultConfig())
	tb.waitConnected(t)

	confirms := tb.confirms()
	require.Len(t, confirms, 1)
	assert.Equal(t, mac.StatusSuccess, confirms[0].Status)
	assert.Equal(t, tb.ap.BSSID(), confirms[0].PeerSTA)

	state, err := tb.disp.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ASSOCIATED", state)
	assert.Equal(t, device.LinkUp, tb.dev.Link())

	eth, err := mac.BuildEthernet(mac.EthernetFrame{
		Dst:       hostAddr,
		Src:       staAddr,
		EtherType: 0x0800,
		Payload:   []byte("uplink"),
	})
	require.NoError(t, err)
	require.NoError(t, tb.disp.SendEth(context.Background(), eth))

	require.Eventually(t, func() bool { return len(tb.ap.Received()) == 1 }, waitFor, tick)
	got := tb.ap.Received()[0]
	assert.Equal(t, hostAddr, got.Dst)
	assert.Equal(t, []byte("uplink"), got.Payload)

	require.NoError(t, tb.ap.SendData(staAddr, hostAddr, 0x0800, []byte("downlink")))
	require.Eventually(t, func() bool { return len(tb.dev.Delivered()) == 1 }, waitFor, tick)

	down, err := mac.ParseEthernet(tb.dev.Delivered()[0])
	require.NoError(t, err)
	assert.Equal(t, hostAddr, down.Src)
	assert.Equal(t, []byte("downlink"), down.Payload)
}

func TestE2E_ReconnectAfterDisassociation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tb := newTestbed(t, sim.DefaultConfig())
	tb.waitConnected(t)

	require.NoError(t, tb.ap.Disassociate(staAddr, mac.ReasonInactivity))

	require.Eventually(t, func() bool {
		return len(mlme.Of[mlme.DisassociateIndication](&tb.messages)) == 1
	}, waitFor, tick)
	tb.waitConnected(t)

	// The reconnect reassociates without a second authentication.
	assert.Len(t, tb.confirms(), 2)
	assert.Empty(t, mlme.Of[mlme.DeauthenticateIndication](&tb.messages))
}

func TestE2E_ReconnectAfterDeauthentication(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tb := newTestbed(t, sim.DefaultConfig())
	tb.waitConnected(t)

	require.NoError(t, tb.ap.Deauthenticate(staAddr, mac.ReasonInactivity))

	require.Eventually(t, func() bool {
		return len(mlme.Of[mlme.DeauthenticateIndication](&tb.messages)) == 1
	}, waitFor, tick)

	deauth := mlme.Of[mlme.DeauthenticateIndication](&tb.messages)[0]
	assert.Equal(t, mac.ReasonInactivity, deauth.Reason)
	assert.False(t, deauth.LocallyInitiated)

	// The supervisor backs off and then runs a full connect again.
	require.Eventually(t, func() bool { return len(tb.confirms()) == 2 }, waitFor, tick)
	tb.waitConnected(t)
	assert.Equal(t, mac.StatusSuccess, tb.confirms()[1].Status)
}

func TestE2E_DisassociatedWhileAssociating(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	apCfg := sim.DefaultConfig()
	apCfg.DisassocRequests = 1

	tb := newTestbed(t, apCfg)
	tb.waitConnected(t)

	// The station stays authenticated and reassociates.
	confirms := tb.confirms()
	require.Len(t, confirms, 2)
	assert.Equal(t, mac.StatusSpuriousDeauthOrDisassoc, confirms[0].Status)
	assert.Equal(t, mac.StatusSuccess, confirms[1].Status)
	assert.Empty(t, mlme.Of[mlme.DeauthenticateConfirm](&tb.messages))
}

func TestE2E_AlwaysDisassociatingAPGivesUp(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	apCfg := sim.DefaultConfig()
	apCfg.DisassocRequests = 100

	tb := newTestbed(t, apCfg, func(cfg *sme.Config) { cfg.MaxAttempts = 3 })

	require.Eventually(t, func() bool { return tb.sup.State() == sme.StateClosed }, waitFor, tick,
		"supervisor never gave up")

	// Each attempt: association, reassociation, then deauthenticate.
	confirms := tb.confirms()
	assert.Len(t, confirms, 6)
	for _, c := range confirms {
		assert.Equal(t, mac.StatusSpuriousDeauthOrDisassoc, c.Status)
	}
	assert.Len(t, mlme.Of[mlme.DeauthenticateConfirm](&tb.messages), 3)

	state, err := tb.disp.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "JOINED", state)
	assert.Equal(t, sim.PeerUnknown, tb.peer())
}

func TestE2E_RefusedAssociationGivesUp(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	apCfg := sim.DefaultConfig()
	apCfg.AssocStatus = mac.StatusCode(17)

	tb := &testbed{ap: sim.New(apCfg)}
	tb.dev = device.NewFakeDevice(tb.ap.Channel())
	tb.dev.OnSend = func(frame []byte) { _ = tb.ap.HandleFrame(frame) }
	tb.disp = dispatch.New(dispatch.Config{
		Client: client.DefaultConfig(),
		Device: tb.dev,
		Sme:    mlme.SinkFunc(func(msg mlme.Message) { tb.sup.Send(msg) }),
		Iface:  staAddr,
	})
	tb.sup = sme.New(sme.Config{
		Request:     tb.ap.ConnectRequest(mlme.AuthTypeOpenSystem),
		Backoff:     sme.BackoffConfig{Initial: 5 * time.Millisecond, Max: 10 * time.Millisecond, Jitter: -1},
		MaxAttempts: 3,
		Next:        &tb.messages,
	}, tb.disp)

	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()

	go func() { _ = tb.disp.Run(ctx) }()
	go func() {
		_ = tb.ap.Forward(ctx, func(frame []byte) error {
			return tb.disp.DeliverFrame(ctx, frame, client.RxInfo{RSSIDbm: -50})
		})
	}()

	// Run returns nil once the supervisor gives up.
	err := tb.sup.Run(ctx)
	require.NoError(t, err)

	confirms := tb.confirms()
	require.Len(t, confirms, 3)
	for _, c := range confirms {
		assert.Equal(t, mac.StatusCode(17), c.Status)
	}
	assert.Equal(t, sme.StateClosed, tb.sup.State())
	assert.Equal(t, sim.PeerAuthenticated, tb.peer())
}

func TestE2E_ContextCancelStopsEverything(t *testing.T) {
	tb := newTestbed(t, sim.DefaultConfig())
	tb.waitConnected(t)

	tb.stop()

	err := tb.disp.Command(context.Background(), mlme.DeauthenticateRequest{
		PeerSTA: tb.ap.BSSID(),
		Reason:  mac.ReasonLeavingNetworkDeauth,
	})
	assert.True(t, errors.Is(err, dispatch.ErrNotRunning), "got %v", err)
	assert.Equal(t, sme.StateClosed, tb.sup.State())
}
