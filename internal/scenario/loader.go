package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wlanstack/mlme-go/pkg/client"
	"github.com/wlanstack/mlme-go/pkg/mlme"
)

// Parse parses a scenario from YAML bytes.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		le := &LoadError{Message: "failed to parse YAML", Cause: err}
		var te *yaml.TypeError
		if !errors.As(err, &te) {
			le.Line = yamlErrorLine(err)
		}
		return nil, le
	}

	if sc.ID == "" {
		return nil, &LoadError{Message: "scenario ID is required"}
	}
	if len(sc.Steps) == 0 {
		return nil, &LoadError{Message: "scenario must have at least one step"}
	}
	for i, step := range sc.Steps {
		if step.Action == "" {
			return nil, &LoadError{Message: "step " + strconv.Itoa(i) + " has no action"}
		}
	}
	if _, err := sc.AuthType(); err != nil {
		return nil, &LoadError{Message: "invalid auth", Cause: err}
	}
	if _, err := sc.ClientConfig(); err != nil {
		return nil, &LoadError{Message: "invalid client config", Cause: err}
	}
	return &sc, nil
}

// Load loads a scenario from a file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}

	sc, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{File: path, Message: err.Error()}
	}
	return sc, nil
}

// LoadDirectory loads all scenarios from a directory.
// Only files with .yaml or .yml extensions are loaded.
func LoadDirectory(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{File: dir, Message: "failed to read directory", Cause: err}
	}

	var scenarios []*Scenario
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		sc, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

// AuthType returns the authentication type named by Auth.
func (sc *Scenario) AuthType() (mlme.AuthType, error) {
	switch strings.ToLower(sc.Auth) {
	case "", "open_system", "open":
		return mlme.AuthTypeOpenSystem, nil
	case "shared_key":
		return mlme.AuthTypeSharedKey, nil
	case "sae":
		return mlme.AuthTypeSAE, nil
	default:
		return 0, errors.New("unknown auth type " + sc.Auth)
	}
}

// ClientConfig returns the default client configuration with the
// scenario's overrides applied.
func (sc *Scenario) ClientConfig() (client.Config, error) {
	if sc.Client.Kind == 0 {
		return client.DefaultConfig(), nil
	}
	data, err := yaml.Marshal(&sc.Client)
	if err != nil {
		return client.Config{}, err
	}
	return client.ParseConfig(data)
}

// yamlErrorLine extracts the line number from a yaml.v3 syntax error of
// the form "yaml: line N: ...".
func yamlErrorLine(err error) int {
	msg := err.Error()
	const prefix = "yaml: line "
	if !strings.HasPrefix(msg, prefix) {
		return 0
	}
	n := 0
	for _, c := range msg[len(prefix):] {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}
