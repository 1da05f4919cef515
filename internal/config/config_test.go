package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Empty(t, cfg.Devices)
	assert.Empty(t, cfg.Audio)
	assert.Equal(t, 1.0, cfg.Volume)
	assert.Empty(t, cfg.Buttons)
	assert.True(t, cfg.Tray)
	assert.False(t, cfg.QueueWhileBusy)
	assert.False(t, cfg.WaitForDevices)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_ParsesTOML(t *testing.T) {
	path := writeConfig(t, "config.toml", `
devices = ["Logitech USB Receiver", "Trackball"]
audio = "/home/user/click.wav"
volume = 0.5
buttons = ["BTN_LEFT", "KEY_ENTER"]
tray = false
queue_while_busy = true
wait_for_devices = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Logitech USB Receiver", "Trackball"}, cfg.Devices)
	assert.Equal(t, "/home/user/click.wav", cfg.Audio)
	assert.Equal(t, 0.5, cfg.Volume)
	assert.Equal(t, []string{"BTN_LEFT", "KEY_ENTER"}, cfg.Buttons)
	assert.False(t, cfg.Tray)
	assert.True(t, cfg.QueueWhileBusy)
	assert.True(t, cfg.WaitForDevices)
}

func TestLoad_ParsesYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
devices:
  - Trackball
volume: 2.0
buttons: [BTN_RIGHT]
tray: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Trackball"}, cfg.Devices)
	assert.Equal(t, 2.0, cfg.Volume)
	assert.Equal(t, []string{"BTN_RIGHT"}, cfg.Buttons)
	assert.False(t, cfg.Tray)
}

func TestLoad_PartialConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "config.toml", `
audio = "~/sounds/pop.ogg"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "~/sounds/pop.ogg", cfg.Audio)
	assert.Equal(t, 1.0, cfg.Volume, "unset volume keeps its default")
	assert.True(t, cfg.Tray, "unset tray keeps its default")
}

func TestLoad_ExplicitZeroVolume(t *testing.T) {
	path := writeConfig(t, "config.toml", `volume = 0.0`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.Volume)
}

func TestLoad_MissingFileIsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := writeConfig(t, "config.toml", `buttons = [`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "config.yml", "buttons: [\n  - what")

	_, err := Load(path)
	assert.Error(t, err)
}
