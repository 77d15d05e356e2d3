package core

import "time"

// Build-time configuration of the reference instrument.
const (
	// TransmittedFrequency is the radar module's carrier (X-band), Hz
	TransmittedFrequency = 10.525e9

	// EdgeClockFrequency is the edge timer tick rate, Hz
	EdgeClockFrequency = 16000

	// SampleBufferLen is the number of samples per waveform window
	SampleBufferLen = 4096

	// SamplePeriod is the time between two ADC samples, seconds
	SamplePeriod = 4.94e-6

	// SampleMidpoint is the zero reference for a 12-bit ADC (half scale)
	SampleMidpoint = 2048

	// PollInterval is the display refresh cadence of the main loop
	PollInterval = 500 * time.Millisecond
)
