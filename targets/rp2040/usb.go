//go:build rp2040

package main

import (
	"machine"

	"doppler/protocol"
)

var (
	telemetryOut = protocol.NewScratchOutput()

	reportsSent              uint32
	consecutiveWriteFailures uint32
	usbWasDisconnected       bool
)

// InitUSB configures machine.Serial, which is USB CDC on the Pico
func InitUSB() {
	machine.Serial.Configure(machine.UARTConfig{})
}

// sendReport frames r and writes it to USB. With no host attached the write
// fails; reports are dropped rather than queued so the LCD keeps updating.
func sendReport(r protocol.Report) {
	telemetryOut.Reset()
	protocol.EncodeReport(telemetryOut, r)
	writeUSB(telemetryOut.Result())
}

func writeUSB(data []byte) {
	written := 0
	for written < len(data) {
		n, err := machine.Serial.Write(data[written:])
		if err != nil || n == 0 {
			consecutiveWriteFailures++
			if consecutiveWriteFailures > 10 {
				usbWasDisconnected = true
			}
			return
		}
		written += n
	}

	if usbWasDisconnected {
		println("[USB] host reconnected")
		usbWasDisconnected = false
	}
	consecutiveWriteFailures = 0
	reportsSent++
}
