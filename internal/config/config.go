// Package config handles configuration file loading and parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultVolume is the sample scale factor applied when the config does
// not set one.
const DefaultVolume = 1.0

// Config is the clickd configuration. All fields are optional; the zero
// config (with defaults applied) plays the built-in sound on the primary
// pointer button of any capable device, with the tray enabled.
type Config struct {
	// Devices is an optional allow-list of device display names. Empty
	// means any capable device matches.
	Devices []string `toml:"devices" yaml:"devices"`

	// Audio names a sound file (wav/ogg/mp3). Empty uses the built-in
	// click.
	Audio string `toml:"audio" yaml:"audio"`

	// Volume scales every sample once at load time.
	Volume float64 `toml:"volume" yaml:"volume"`

	// Buttons are the trigger button names (BTN_*/KEY_* or numeric
	// codes). Empty means the primary pointer button.
	Buttons []string `toml:"buttons" yaml:"buttons"`

	// Tray controls the StatusNotifierItem. When disabled there is no
	// toggle and playback stays permanently enabled.
	Tray bool `toml:"tray" yaml:"tray"`

	// QueueWhileBusy keeps a press that arrives during playback pending
	// so it plays immediately after the current cycle, instead of
	// dropping it.
	QueueWhileBusy bool `toml:"queue_while_busy" yaml:"queue_while_busy"`

	// WaitForDevices keeps the process alive when no device matches at
	// startup, relying on hotplug to deliver one later.
	WaitForDevices bool `toml:"wait_for_devices" yaml:"wait_for_devices"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Volume: DefaultVolume,
		Tray:   true,
	}
}

// Load reads the configuration file at path. An empty path yields the
// defaults. The format is chosen by extension: .yaml/.yml parse as YAML,
// anything else as TOML. Unlike an absent path, a named file that cannot
// be read or parsed is a fatal configuration error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = toml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}
