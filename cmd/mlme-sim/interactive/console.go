// Package interactive provides the interactive console of mlme-sim.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/wlanstack/mlme-go/internal/sim"
	"github.com/wlanstack/mlme-go/pkg/client"
	"github.com/wlanstack/mlme-go/pkg/dispatch"
	"github.com/wlanstack/mlme-go/pkg/mac"
	"github.com/wlanstack/mlme-go/pkg/mlme"
	"github.com/wlanstack/mlme-go/pkg/sme"
)

// commandTimeout bounds every console command.
const commandTimeout = 2 * time.Second

// peer is the distribution system host of data commands.
var peer = mac.MustParseAddr("02:00:00:00:00:99")

// Deps are the parts of the simulation the console drives.
type Deps struct {
	AP         *sim.AP
	Dispatcher *dispatch.Dispatcher
	Supervisor *sme.Supervisor
	Iface      mac.Addr

	// SetBeacons turns the AP's periodic beacons on or off.
	SetBeacons func(on bool)
}

// Console handles interactive mode for mlme-sim.
type Console struct {
	deps Deps
	rl   *readline.Instance
	out  io.Writer
}

// New creates a console reading from the terminal.
func New(deps Deps) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "mlme> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Console{deps: deps, rl: rl, out: rl.Stdout()}, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Run starts the interactive command loop.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return
		}

		if !c.Execute(ctx, line) {
			cancel()
			return
		}
	}
}

// Execute runs one command line. It returns false when the console should
// exit.
func (c *Console) Execute(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	var err error
	switch cmd {
	case "help", "?":
		c.printHelp()
	case "status", "s":
		err = c.cmdStatus(ctx)
	case "connect":
		err = c.deps.Dispatcher.Command(ctx, c.deps.AP.ConnectRequest(mlme.AuthTypeOpenSystem))
	case "deauth":
		err = c.cmdDeauth(ctx, args)
	case "reconnect":
		err = c.deps.Dispatcher.Command(ctx, mlme.ReconnectRequest{PeerSTA: c.deps.AP.BSSID()})
	case "send":
		err = c.cmdSend(ctx, args)
	case "offchan":
		err = c.deps.Dispatcher.PreSwitchOffChannel(ctx)
	case "onchan":
		err = c.deps.Dispatcher.BackOnChannel(ctx)
	case "ap-deauth":
		err = c.cmdAPDeauth(args, c.deps.AP.Deauthenticate)
	case "ap-disassoc":
		err = c.cmdAPDeauth(args, c.deps.AP.Disassociate)
	case "ap-data":
		err = c.cmdAPData(args)
	case "csa":
		err = c.cmdCSA(args)
	case "beacons":
		err = c.cmdBeacons(args)
	case "quit", "exit", "q":
		fmt.Fprintln(c.out, "Exiting...")
		return false
	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
	return true
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `
MLME Simulator Commands:
  Station:
    status             - Show station, SME and AP state
    connect            - Send a connect request
    deauth [reason]    - Deauthenticate from the BSS
    reconnect          - Reassociate after a disassociation
    send [bytes]       - Transmit an Ethernet frame
    offchan / onchan   - Leave / return to the main channel

  Access point:
    ap-deauth [reason]   - Deauthenticate the station
    ap-disassoc [reason] - Disassociate the station
    ap-data [bytes]      - Send a data frame to the station
    csa <ch> [count] [mode] - Announce a channel switch
    beacons on|off       - Start or stop beacons

  General:
    help               - Show this help
    quit               - Exit`)
}

func (c *Console) cmdStatus(ctx context.Context) error {
	var (
		state   string
		channel mac.Channel
		aid     uint16
		port    bool
	)
	err := c.deps.Dispatcher.Inspect(ctx, func(cl *client.Client) {
		if cl == nil {
			return
		}
		state = cl.State().String()
		channel = cl.Station().MainChannel()
		if s, ok := cl.State().(client.Associated); ok {
			aid = s.Association().AID
			port = s.Association().ControlledPortOpen
		}
	})
	if err != nil {
		return err
	}
	if state == "" {
		state = "NONE"
	}
	peerState, _ := c.deps.AP.Peer(c.deps.Iface)

	fmt.Fprintf(c.out, "Station:  %s (%s)\n", state, c.deps.Iface)
	if aid != 0 {
		fmt.Fprintf(c.out, "  AID:    %d, port open: %t, channel: %s\n", aid, port, channel)
	}
	fmt.Fprintf(c.out, "SME:      %s, signal %d dBm\n", c.deps.Supervisor.State(), c.deps.Supervisor.Signal())
	fmt.Fprintf(c.out, "AP:       %s on channel %s, sees station as %s\n", c.deps.AP.BSSID(), c.deps.AP.Channel(), peerState)
	return nil
}

func (c *Console) cmdDeauth(ctx context.Context, args []string) error {
	reason, err := uintArg(args, 0, uint64(mac.ReasonLeavingNetworkDeauth))
	if err != nil {
		return err
	}
	return c.deps.Dispatcher.Command(ctx, mlme.DeauthenticateRequest{
		PeerSTA: c.deps.AP.BSSID(),
		Reason:  mac.ReasonCode(reason),
	})
}

func (c *Console) cmdSend(ctx context.Context, args []string) error {
	size, err := uintArg(args, 0, 64)
	if err != nil {
		return err
	}
	frame, err := mac.BuildEthernet(mac.EthernetFrame{
		Dst:       peer,
		Src:       c.deps.Iface,
		EtherType: 0x0800,
		Payload:   make([]byte, size),
	})
	if err != nil {
		return err
	}
	if err := c.deps.Dispatcher.SendEth(ctx, frame); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Sent %d bytes, AP received %d frames so far\n", len(frame), len(c.deps.AP.Received()))
	return nil
}

func (c *Console) cmdAPDeauth(args []string, fn func(mac.Addr, mac.ReasonCode) error) error {
	reason, err := uintArg(args, 0, uint64(mac.ReasonUnspecified))
	if err != nil {
		return err
	}
	return fn(c.deps.Iface, mac.ReasonCode(reason))
}

func (c *Console) cmdAPData(args []string) error {
	size, err := uintArg(args, 0, 64)
	if err != nil {
		return err
	}
	return c.deps.AP.SendData(c.deps.Iface, peer, 0x0800, make([]byte, size))
}

func (c *Console) cmdCSA(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: csa <channel> [count] [mode]")
	}
	channel, err := uintArg(args, 0, 0)
	if err != nil {
		return err
	}
	count, err := uintArg(args, 1, 3)
	if err != nil {
		return err
	}
	mode, err := uintArg(args, 2, 0)
	if err != nil {
		return err
	}
	c.deps.AP.AnnounceChannelSwitch(uint8(channel), uint8(mode), uint8(count))
	fmt.Fprintf(c.out, "Announcing switch to channel %d in %d beacons\n", channel, count)
	return nil
}

func (c *Console) cmdBeacons(args []string) error {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		return fmt.Errorf("usage: beacons on|off")
	}
	if c.deps.SetBeacons != nil {
		c.deps.SetBeacons(args[0] == "on")
	}
	return nil
}

// uintArg parses args[i], or returns def when it is absent.
func uintArg(args []string, i int, def uint64) (uint64, error) {
	if i >= len(args) {
		return def, nil
	}
	v, err := strconv.ParseUint(args[i], 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", args[i])
	}
	return v, nil
}
