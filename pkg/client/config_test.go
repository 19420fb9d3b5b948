package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, uint32(DefaultAutoDeauthBeacons), cfg.AutoDeauthBeacons)
	assert.Equal(t, uint32(DefaultStatusCheckBeacons), cfg.StatusCheckBeacons)
	assert.NotEmpty(t, cfg.Capabilities.Rates)
	assert.NotNil(t, cfg.AKM)
	assert.NoError(t, cfg.Validate())
}

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		check   func(t *testing.T, cfg Config)
		wantErr error
	}{
		{
			name: "empty keeps defaults",
			yaml: "",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, uint32(DefaultAutoDeauthBeacons), cfg.AutoDeauthBeacons)
				assert.Equal(t, DefaultSignalWindow, cfg.SignalWindow)
			},
		},
		{
			name: "overrides",
			yaml: "auto_deauth_beacons: 20\nstatus_check_beacons: 5\nlisten_interval: 3\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, uint32(20), cfg.AutoDeauthBeacons)
				assert.Equal(t, uint32(5), cfg.StatusCheckBeacons)
				assert.Equal(t, uint16(3), cfg.ListenInterval)
				assert.Equal(t, uint32(DefaultReconnectTimeoutBeacons), cfg.ReconnectTimeoutBeacons)
			},
		},
		{
			name: "zero means default",
			yaml: "signal_window: 0\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, DefaultSignalWindow, cfg.SignalWindow)
			},
		},
		{
			name:    "status check longer than auto deauth",
			yaml:    "auto_deauth_beacons: 20\nstatus_check_beacons: 50\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "negative signal window",
			yaml:    "signal_window: -1\n",
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.yaml))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestParseConfigBadYAML(t *testing.T) {
	_, err := ParseConfig([]byte("auto_deauth_beacons: [1, 2"))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mlme.yaml")
	require.NoError(t, os.WriteFile(path, []byte("connect_failure_timeout: 4\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), cfg.ConnectFailureTimeout)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
