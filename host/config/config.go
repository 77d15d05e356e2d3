// Package config loads the radar monitor settings from flags, environment
// and an optional config file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultDevice   = "/dev/ttyACM0"
	DefaultBaud     = 115200
	DefaultWindow   = 120
	DefaultMinSpeed = 1.0

	// EnvPrefix is prepended to upper-cased keys, RADAR_DEVICE and so on
	EnvPrefix = "RADAR"

	configName = "radar-monitor"
)

var (
	ErrNoDevice  = errors.New("no serial device configured")
	ErrBaud      = errors.New("baud rate must be positive")
	ErrWindow    = errors.New("statistics window must be positive")
	ErrMinSpeed  = errors.New("minimum speed must not be negative")
	ErrReadInput = errors.New("failed to read config file")
)

type Config struct {
	Device   string  `mapstructure:"device"`
	Baud     int     `mapstructure:"baud"`
	DB       string  `mapstructure:"db"`
	Window   int     `mapstructure:"window"`
	MinSpeed float64 `mapstructure:"min-speed"`
	Debug    bool    `mapstructure:"debug"`
	Verbose  bool    `mapstructure:"verbose"`
}

// Load parses args (without the program name). Precedence, highest first:
// flags, RADAR_* environment, config file, defaults. A missing config file
// is only an error when named with --config.
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet(configName, pflag.ContinueOnError)
	fs.String("device", DefaultDevice, "Serial device of the radar")
	fs.Int("baud", DefaultBaud, "Serial baud rate")
	fs.String("db", "", "SQLite file to record readings to (empty disables recording)")
	fs.Int("window", DefaultWindow, "Number of readings in the rolling statistics")
	fs.Float64("min-speed", DefaultMinSpeed, "Readings below this speed are left out of the statistics")
	fs.Bool("debug", false, "Enable debugging mode")
	fs.Bool("verbose", false, "Enable verbose logging")
	configFile := fs.String("config", "", "Config file (default /etc/radar-monitor.* or ~/.config/radar-monitor.*)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if *configFile != "" {
		v.SetConfigFile(*configFile)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath("/etc")
		v.AddConfigPath("$HOME/.config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if *configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings a monitor cannot run without
func (c *Config) Validate() error {
	switch {
	case c.Device == "":
		return ErrNoDevice
	case c.Baud <= 0:
		return fmt.Errorf("%w: %d", ErrBaud, c.Baud)
	case c.Window <= 0:
		return fmt.Errorf("%w: %d", ErrWindow, c.Window)
	case c.MinSpeed < 0:
		return fmt.Errorf("%w: %v", ErrMinSpeed, c.MinSpeed)
	}
	return nil
}
