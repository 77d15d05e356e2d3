package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"doppler/host/config"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load(nil)
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, config.DefaultDevice, cfg.Device)
	assert.Equal(t, config.DefaultBaud, cfg.Baud)
	assert.Equal(t, config.DefaultWindow, cfg.Window)
	assert.Equal(t, config.DefaultMinSpeed, cfg.MinSpeed)
	assert.Empty(t, cfg.DB, "Expected recording disabled by default")
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.Verbose)
}

func TestLoadFlags(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load([]string{
		"--device", "/dev/ttyUSB1",
		"--baud", "9600",
		"--db", "/tmp/radar.db",
		"--window", "30",
		"--min-speed", "2.5",
		"--verbose",
	})
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB1", cfg.Device)
	assert.Equal(t, 9600, cfg.Baud)
	assert.Equal(t, "/tmp/radar.db", cfg.DB)
	assert.Equal(t, 30, cfg.Window)
	assert.Equal(t, 2.5, cfg.MinSpeed)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, "radar.toml", `
device = "/dev/ttyACM3"
window = 60
min-speed = 0.5
debug = true
`)

	cfg, err := config.Load([]string{"--config", path})
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyACM3", cfg.Device)
	assert.Equal(t, 60, cfg.Window)
	assert.Equal(t, 0.5, cfg.MinSpeed)
	assert.True(t, cfg.Debug)
	assert.Equal(t, config.DefaultBaud, cfg.Baud, "unset keys keep their defaults")
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, "radar.yaml", "device: /dev/from-file\nwindow: 10\nbaud: 1200\n")
	t.Setenv("RADAR_WINDOW", "20")
	t.Setenv("RADAR_BAUD", "2400")

	cfg, err := config.Load([]string{"--config", path, "--baud", "4800"})
	require.NoError(t, err)

	assert.Equal(t, "/dev/from-file", cfg.Device, "file over default")
	assert.Equal(t, 20, cfg.Window, "environment over file")
	assert.Equal(t, 4800, cfg.Baud, "flag over environment")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := config.Load([]string{"--config", filepath.Join(t.TempDir(), "absent.toml")})
	assert.ErrorIs(t, err, config.ErrReadInput)
}

func TestLoadInvalidFile(t *testing.T) {
	path := writeConfig(t, "radar.toml", "This is not a valid TOML file\n")
	_, err := config.Load([]string{"--config", path})
	assert.ErrorIs(t, err, config.ErrReadInput)
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	testCases := []struct {
		name     string
		args     []string
		expected error
	}{
		{"empty device", []string{"--device", ""}, config.ErrNoDevice},
		{"zero baud", []string{"--baud", "0"}, config.ErrBaud},
		{"negative window", []string{"--window", "-1"}, config.ErrWindow},
		{"negative min speed", []string{"--min-speed", "-3"}, config.ErrMinSpeed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Load(tc.args)
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestLoadHelp(t *testing.T) {
	_, err := config.Load([]string{"--help"})
	assert.ErrorIs(t, err, pflag.ErrHelp)
}
