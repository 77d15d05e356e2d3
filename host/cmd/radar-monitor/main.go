// radar-monitor decodes the telemetry stream of a Doppler radar speed sensor
// and logs readings and speed statistics. Readings can be recorded to SQLite.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"doppler/host/config"
	"doppler/host/logger"
	"doppler/host/monitor"
	"doppler/host/serial"
	"doppler/host/store"

	"github.com/spf13/pflag"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	log := logger.New(os.Stderr, cfg.Debug, cfg.Verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("radar-monitor failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.New(os.Stderr, cfg.Debug, cfg.Verbose)

	var sink monitor.Sink
	if cfg.DB != "" {
		db, err := store.Open(cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()
		sink = db
		log.Info().Str("db", cfg.DB).Msg("recording readings")
	}

	serialCfg := serial.DefaultConfig(cfg.Device)
	serialCfg.Baud = cfg.Baud
	port, err := serial.Open(serialCfg)
	if err != nil {
		return err
	}
	defer port.Close()

	if err := port.Flush(); err != nil {
		log.Warn().Err(err).Msg("failed to flush serial input")
	}

	log.Info().
		Str("device", cfg.Device).
		Int("baud", cfg.Baud).
		Int("window", cfg.Window).
		Float64("min_speed", cfg.MinSpeed).
		Msg("monitoring radar")

	m := monitor.New(log, monitor.NewWindow(cfg.Window, cfg.MinSpeed), sink)
	defer m.LogSummary()

	return m.Run(ctx, port)
}
