package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wlanstack/mlme-go/cmd/mlme-sim/interactive"
	"github.com/wlanstack/mlme-go/internal/sim"
	"github.com/wlanstack/mlme-go/pkg/client"
	"github.com/wlanstack/mlme-go/pkg/device"
	"github.com/wlanstack/mlme-go/pkg/dispatch"
	"github.com/wlanstack/mlme-go/pkg/mac"
	"github.com/wlanstack/mlme-go/pkg/mlme"
	"github.com/wlanstack/mlme-go/pkg/sme"
)

var defaultIface = mac.MustParseAddr("02:00:00:00:00:02")

// world is a station and a simulated AP talking in real time.
type world struct {
	ap   *sim.AP
	dev  *device.FakeDevice
	disp *dispatch.Dispatcher
	sup  *sme.Supervisor

	iface   mac.Addr
	rssi    int8
	period  time.Duration
	beacons atomic.Bool

	wg sync.WaitGroup
}

func newWorld(clientCfg client.Config, apCfg sim.Config, iface mac.Addr, logger *slog.Logger) *world {
	ap := sim.New(apCfg)
	bss := ap.Description()
	w := &world{
		ap:     ap,
		dev:    device.NewFakeDevice(ap.Channel()),
		iface:  iface,
		rssi:   bss.RSSIDbm,
		period: time.Duration(bss.BeaconPeriod) * 1024 * time.Microsecond,
	}
	w.dev.OnSend = func(frame []byte) {
		if err := ap.HandleFrame(frame); err != nil {
			log.Printf("[AP] dropped station frame: %v", err)
		}
	}

	// The supervisor needs the dispatcher and the dispatcher reports to
	// the supervisor; w.sup is set before the dispatcher runs.
	w.disp = dispatch.New(dispatch.Config{
		Client: clientCfg,
		Device: w.dev,
		Sme:    mlme.SinkFunc(func(msg mlme.Message) { w.sup.Send(msg) }),
		Iface:  iface,
		Logger: logger,
	})
	w.sup = sme.New(sme.Config{
		Request: ap.ConnectRequest(mlme.AuthTypeOpenSystem),
		Next:    mlme.SinkFunc(printMessage),
		Logger:  logger,
	}, w.disp)
	w.sup.OnStateChange(func(old, new sme.State) {
		log.Printf("[SME] %s -> %s", old, new)
	})
	return w
}

// start runs the dispatcher, the SME, frame forwarding and the beacon
// loop until ctx is cancelled.
func (w *world) start(ctx context.Context, beacons bool) {
	w.beacons.Store(beacons)
	w.goRun("dispatcher", func() error { return w.disp.Run(ctx) })
	w.goRun("sme", func() error { return w.sup.Run(ctx) })
	w.goRun("forwarder", func() error {
		return w.ap.Forward(ctx, func(frame []byte) error {
			return w.disp.DeliverFrame(ctx, frame, client.RxInfo{RSSIDbm: w.rssi})
		})
	})
	w.goRun("beacons", func() error { return w.beaconLoop(ctx) })
}

func (w *world) goRun(name string, fn func() error) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if err := fn(); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("%s stopped: %v", name, err)
		}
	}()
}

func (w *world) beaconLoop(ctx context.Context) error {
	ticker := time.NewTicker(w.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !w.beacons.Load() {
				continue
			}
			if err := w.ap.Beacon(); err != nil {
				return err
			}
		}
	}
}

// wait blocks until every goroutine started by start returned.
func (w *world) wait() {
	w.wg.Wait()
}

// deps exposes the world to the console.
func (w *world) deps() interactive.Deps {
	return interactive.Deps{
		AP:         w.ap,
		Dispatcher: w.disp,
		Supervisor: w.sup,
		Iface:      w.iface,
		SetBeacons: w.beacons.Store,
	}
}

func printMessage(msg mlme.Message) {
	switch m := msg.(type) {
	case mlme.ConnectConfirm:
		log.Printf("[MLME] %s status=%s aid=%d", m.Kind(), m.Status, m.AID)
	case mlme.DeauthenticateIndication:
		log.Printf("[MLME] %s reason=%s local=%t", m.Kind(), m.Reason, m.LocallyInitiated)
	case mlme.DisassociateIndication:
		log.Printf("[MLME] %s reason=%s", m.Kind(), m.Reason)
	case mlme.SignalReportIndication:
		log.Printf("[MLME] %s rssi=%ddBm", m.Kind(), m.RSSIDbm)
	default:
		log.Printf("[MLME] %s", msg.Kind())
	}
}

// loadAPConfig reads a simulated AP configuration. Fields left out keep
// their defaults.
func loadAPConfig(path string) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return sim.Config{}, fmt.Errorf("failed to read AP config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return sim.Config{}, fmt.Errorf("failed to parse AP config: %w", err)
	}
	return cfg, nil
}
