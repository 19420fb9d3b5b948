package interactive

import (
	"bytes"
	"context"
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

var testIface = mac.MustParseAddr("02:00:00:00:00:02")

func newTestConsole(t *testing.T) (*Console, *bytes.Buffer, *dispatch.Dispatcher, *sim.AP) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ap := sim.New(sim.Config{})
	dev := device.NewFakeDevice(ap.Channel())
	dev.OnSend = func(frame []byte) { _ = ap.HandleFrame(frame) }
	disp := dispatch.New(dispatch.Config{
		Client: client.DefaultConfig(),
		Device: dev,
		Sme:    &mlme.Recorder{},
		Iface:  testIface,
	})
	go func() { _ = disp.Run(ctx) }()
	go func() {
		_ = ap.Forward(ctx, func(frame []byte) error {
			return disp.DeliverFrame(ctx, frame, client.RxInfo{RSSIDbm: -50})
		})
	}()

	var out bytes.Buffer
	c := &Console{
		deps: Deps{
			AP:         ap,
			Dispatcher: disp,
			Supervisor: sme.New(sme.Config{}, disp),
			Iface:      testIface,
			SetBeacons: func(bool) {},
		},
		out: &out,
	}
	return c, &out, disp, ap
}

func waitForState(t *testing.T, disp *dispatch.Dispatcher, want string) {
	t.Helper()
	assert.Eventually(t, func() bool {
		state, err := disp.State(context.Background())
		return err == nil && state == want
	}, 2*time.Second, 5*time.Millisecond, "station never reached %s", want)
}

func TestConsoleConnectAndSend(t *testing.T) {
	c, out, disp, ap := newTestConsole(t)
	ctx := context.Background()

	require.True(t, c.Execute(ctx, "status"))
	assert.Contains(t, out.String(), "Station:  NONE")

	require.True(t, c.Execute(ctx, "connect"))
	waitForState(t, disp, "ASSOCIATED")

	out.Reset()
	require.True(t, c.Execute(ctx, "status"))
	assert.Contains(t, out.String(), "Station:  ASSOCIATED")
	assert.Contains(t, out.String(), "AID:    1, port open: true")
	assert.Contains(t, out.String(), "sees station as ASSOCIATED")

	require.True(t, c.Execute(ctx, "send 100"))
	assert.Eventually(t, func() bool { return len(ap.Received()) == 1 }, 2*time.Second, 5*time.Millisecond)

	require.True(t, c.Execute(ctx, "ap-disassoc 8"))
	waitForState(t, disp, "AUTHENTICATED")

	require.True(t, c.Execute(ctx, "reconnect"))
	waitForState(t, disp, "ASSOCIATED")

	require.True(t, c.Execute(ctx, "deauth"))
	waitForState(t, disp, "JOINED")
	state, _ := ap.Peer(testIface)
	assert.Equal(t, sim.PeerUnknown, state)
}

func TestConsoleErrors(t *testing.T) {
	c, out, _, _ := newTestConsole(t)
	ctx := context.Background()

	tests := []struct {
		line string
		want string
	}{
		{"bogus", "Unknown command: bogus"},
		{"csa", "Error: usage: csa <channel> [count] [mode]"},
		{"beacons maybe", "Error: usage: beacons on|off"},
		{"send lots", `Error: invalid number "lots"`},
		{"reconnect", "no connect request yet"},
		{"ap-deauth", "Error: unknown station"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			out.Reset()
			assert.True(t, c.Execute(ctx, tt.line))
			assert.Contains(t, out.String(), tt.want)
		})
	}

	assert.True(t, c.Execute(ctx, "   "))
	assert.False(t, c.Execute(ctx, "quit"))
}

func TestConsoleCSA(t *testing.T) {
	c, out, _, ap := newTestConsole(t)
	require.True(t, c.Execute(context.Background(), "csa 40 1"))
	assert.Contains(t, out.String(), "Announcing switch to channel 40 in 1 beacons")

	require.NoError(t, ap.Beacon())
	assert.Equal(t, mac.Channel{Primary: 40}, ap.Channel())
}
