//go:build rp2040

package main

import (
	"machine"
	"time"

	"doppler/core"
	"doppler/protocol"
	"doppler/targets/pio"
)

// Pin assignment for a Pico carrying the 16x2 LCD keypad shield
const (
	keypadPin         = machine.ADC0   // GPIO26, shield A0 resistor ladder
	waveformPin       = machine.ADC1   // GPIO27, amplified IF output
	comparatorPin     = machine.GPIO15 // comparator output
	comparatorGatePin = machine.GPIO14 // comparator shutdown input
)

var lcdPins = LCDPins{
	D4: machine.GPIO2,
	D5: machine.GPIO3,
	D6: machine.GPIO4,
	D7: machine.GPIO5,
	E:  machine.GPIO6,
	RS: machine.GPIO7,
	RW: machine.GPIO8,
}

var (
	sampleBuffer [core.SampleBufferLen]uint16

	comparatorCell = core.NewGlobal[core.ComparatorBackend]()
	sampledCell    = core.NewGlobal[core.SampledBackend]()
)

func main() {
	InitUSB()
	core.SetDebugWriter(func(s string) { println(s) })

	// Give a host terminal time to attach before the boot messages
	time.Sleep(500 * time.Millisecond)
	println("[BOOT] doppler radar")

	lcd, err := NewLCD(lcdPins)
	if err != nil {
		fatal("lcd", err)
	}

	edges := pio.NewEdgeTimer(1, 0, comparatorPin)
	comparatorCell.Set(core.NewComparatorBackend(
		NewComparatorGate(comparatorGatePin), edges, pio.EdgeTimerClock))

	sampler, err := NewSampler(waveformPin, sampleBuffer[:])
	if err != nil {
		fatal("sampler", err)
	}
	sampled, err := core.NewSampledBackend(sampler, sampleBuffer[:], core.DefaultSampledConfig())
	if err != nil {
		fatal("sampled backend", err)
	}
	sampledCell.Set(sampled)

	instrument := core.NewInstrument(comparatorCell, sampledCell, core.TransmittedFrequency)
	sampler.SetReady(instrument.SamplerInterrupt)

	keypad := machine.ADC{Pin: keypadPin}
	keypad.Configure(machine.ADCConfig{})

	go sampler.Run()
	go edgePump(edges, instrument)

	if err := instrument.Boot(); err != nil {
		fatal("boot", err)
	}

	var seq uint32
	next := Uptime()
	for {
		// ADC.Get scales to 16 bits
		button := core.ClassifyButton(keypad.Get() >> 4)

		reading, err := instrument.Poll(button)
		if err != nil {
			// The new mode shows 0 Hz until the other mode is selected
			println("[MODE] start failed:", err.Error())
			core.DumpEventRing()
		}

		if err := lcd.Show(reading.Row1, reading.Row2); err != nil {
			println("[LCD] write failed:", err.Error())
		}

		sendReport(protocol.Report{
			Sequence:  seq,
			Sampling:  uint8(reading.Sampling),
			Unit:      uint8(reading.Unit),
			Frequency: float32(reading.Frequency),
			Speed:     float32(reading.Speed),
		})
		seq++

		next += uint64(core.PollInterval / time.Microsecond)
		if now := Uptime(); next > now {
			time.Sleep(time.Duration(next-now) * time.Microsecond)
		} else {
			next = now
		}
	}
}

// edgePump stands in for the edge interrupt: each count the state machine
// pushes is handed to the comparator backend
func edgePump(edges *pio.EdgeTimer, instrument *core.Instrument) {
	for {
		if edges.Pending() {
			instrument.ComparatorInterrupt()
		}
		time.Sleep(50 * time.Microsecond)
	}
}

// fatal reports err and blinks the LED forever
func fatal(stage string, err error) {
	println("[FATAL]", stage+":", err.Error())
	core.DumpEventRing()

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		led.High()
		time.Sleep(100 * time.Millisecond)
		led.Low()
		time.Sleep(100 * time.Millisecond)
	}
}
