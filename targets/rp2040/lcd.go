//go:build rp2040

package main

import (
	"machine"

	"doppler/core"

	"tinygo.org/x/drivers/hd44780"
)

// LCD is the 16x2 character display of the keypad shield, driven in 4-bit
// mode
type LCD struct {
	dev hd44780.Device
}

// LCDPins maps the shield's HD44780 lines to GPIOs
type LCDPins struct {
	D4, D5, D6, D7 machine.Pin
	E, RS, RW      machine.Pin
}

func NewLCD(pins LCDPins) (*LCD, error) {
	dev, err := hd44780.NewGPIO4Bit(
		[]machine.Pin{pins.D4, pins.D5, pins.D6, pins.D7},
		pins.E, pins.RS, pins.RW,
	)
	if err != nil {
		return nil, err
	}

	err = dev.Configure(hd44780.Config{
		Width:  core.DisplayWidth,
		Height: 2,
	})
	if err != nil {
		return nil, err
	}
	return &LCD{dev: dev}, nil
}

// Show replaces both rows. Rows are space padded so shorter text clears what
// the previous refresh left behind.
func (l *LCD) Show(row1, row2 core.DisplayLine) error {
	for y, row := range [2]core.DisplayLine{row1, row2} {
		line := row.Padded()
		l.dev.SetCursor(0, uint8(y))
		if _, err := l.dev.Write(line[:]); err != nil {
			return err
		}
	}
	return l.dev.Display()
}
