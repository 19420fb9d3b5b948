package client

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wlanstack/mlme-go/pkg/akm"
	"github.com/wlanstack/mlme-go/pkg/capabilities"
	"github.com/wlanstack/mlme-go/pkg/log"
)

// Default supervision thresholds, in beacon intervals.
const (
	// DefaultAutoDeauthBeacons is how long the BSS may stay silent before
	// the station deauthenticates.
	DefaultAutoDeauthBeacons = 100

	// DefaultStatusCheckBeacons is the period of the association status
	// check.
	DefaultStatusCheckBeacons = 10

	// DefaultReconnectTimeoutBeacons bounds a reassociation requested by the
	// SME.
	DefaultReconnectTimeoutBeacons = 10

	// DefaultConnectFailureTimeout bounds a connect attempt when the
	// ConnectRequest does not carry its own budget.
	DefaultConnectFailureTimeout = 10

	// DefaultBeaconPeriod is used when the BSS description has none (TU).
	DefaultBeaconPeriod = 100

	// DefaultSignalWindow is the number of samples in the signal average.
	DefaultSignalWindow = 20

	// DefaultListenInterval is advertised in association requests.
	DefaultListenInterval = 10
)

// ErrInvalidConfig is returned for configurations that cannot work.
var ErrInvalidConfig = errors.New("invalid client config")

// Config configures a Client.
type Config struct {
	// AutoDeauthBeacons is the missed-beacon threshold of the lost BSS
	// counter.
	AutoDeauthBeacons uint32 `yaml:"auto_deauth_beacons"`

	// StatusCheckBeacons is the status check period.
	StatusCheckBeacons uint32 `yaml:"status_check_beacons"`

	// ReconnectTimeoutBeacons bounds a reconnect.
	ReconnectTimeoutBeacons uint32 `yaml:"reconnect_timeout_beacons"`

	// ConnectFailureTimeout is the default connect budget in beacons.
	ConnectFailureTimeout uint32 `yaml:"connect_failure_timeout"`

	// DefaultBeaconPeriod is the beacon period assumed for BSSs that do not
	// advertise one (TU).
	DefaultBeaconPeriod uint16 `yaml:"default_beacon_period"`

	// SignalWindow is the number of RSSI samples averaged for signal
	// reports.
	SignalWindow int `yaml:"signal_window"`

	// ListenInterval is advertised in association requests (beacons).
	ListenInterval uint16 `yaml:"listen_interval"`

	// Capabilities are the station's own capabilities.
	Capabilities capabilities.Capabilities `yaml:"-"`

	// AKM creates authentication delegates. Defaults to akm.New.
	AKM akm.Factory `yaml:"-"`

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger `yaml:"-"`

	// ProtocolLogger receives frame, message, state and timer events.
	// If nil, protocol events are discarded.
	ProtocolLogger log.Logger `yaml:"-"`
}

// DefaultConfig returns a Config with default thresholds and the
// capabilities of capabilities.Default.
func DefaultConfig() Config {
	return Config{
		AutoDeauthBeacons:       DefaultAutoDeauthBeacons,
		StatusCheckBeacons:      DefaultStatusCheckBeacons,
		ReconnectTimeoutBeacons: DefaultReconnectTimeoutBeacons,
		ConnectFailureTimeout:   DefaultConnectFailureTimeout,
		DefaultBeaconPeriod:     DefaultBeaconPeriod,
		SignalWindow:            DefaultSignalWindow,
		ListenInterval:          DefaultListenInterval,
		Capabilities:            capabilities.Default(),
		AKM:                     akm.New,
	}
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML config data. Fields left out keep their defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyDefaults replaces zero values with defaults.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.AutoDeauthBeacons == 0 {
		c.AutoDeauthBeacons = def.AutoDeauthBeacons
	}
	if c.StatusCheckBeacons == 0 {
		c.StatusCheckBeacons = def.StatusCheckBeacons
	}
	if c.ReconnectTimeoutBeacons == 0 {
		c.ReconnectTimeoutBeacons = def.ReconnectTimeoutBeacons
	}
	if c.ConnectFailureTimeout == 0 {
		c.ConnectFailureTimeout = def.ConnectFailureTimeout
	}
	if c.DefaultBeaconPeriod == 0 {
		c.DefaultBeaconPeriod = def.DefaultBeaconPeriod
	}
	if c.SignalWindow == 0 {
		c.SignalWindow = def.SignalWindow
	}
	if c.ListenInterval == 0 {
		c.ListenInterval = def.ListenInterval
	}
	if len(c.Capabilities.Rates) == 0 {
		c.Capabilities = def.Capabilities
	}
	if c.AKM == nil {
		c.AKM = def.AKM
	}
}

// Validate checks the thresholds for consistency.
func (c Config) Validate() error {
	if c.StatusCheckBeacons > c.AutoDeauthBeacons {
		return fmt.Errorf("%w: status check period %d exceeds auto deauth threshold %d",
			ErrInvalidConfig, c.StatusCheckBeacons, c.AutoDeauthBeacons)
	}
	if c.SignalWindow < 0 {
		return fmt.Errorf("%w: negative signal window", ErrInvalidConfig)
	}
	if len(c.Capabilities.Rates) == 0 {
		return fmt.Errorf("%w: no supported rates", ErrInvalidConfig)
	}
	return nil
}
