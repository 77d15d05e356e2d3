// Package serial opens the radar's USB CDC port.
package serial

import (
	"io"
	"time"
)

// Port is a serial connection to the radar. Tests substitute an in-memory
// stream.
type Port interface {
	io.ReadWriteCloser

	// Flush discards unread input
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate. USB CDC ignores it, a UART bridge does not
	Baud int

	// ReadTimeout bounds each Read so callers can notice cancellation.
	// Zero blocks.
	ReadTimeout time.Duration
}

// DefaultConfig returns the settings for the radar's USB CDC port
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 200 * time.Millisecond,
	}
}
