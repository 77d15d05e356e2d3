package core

// Platform-specific implementations of these interfaces live under targets/.
// Tests supply fakes.

// Comparator is the analog comparator that flags each time the reflected
// signal envelope crosses the reference threshold.
type Comparator interface {
	// Enable powers the comparator and routes its output to the edge timer
	Enable()

	// Disable stops the comparator from producing edges
	Disable()
}

// EdgeTimer is the free-running counter sampled on each comparator edge.
type EdgeTimer interface {
	// Start begins counting. Returns error if the timer cannot be claimed.
	Start() error

	// Stop halts counting and masks the edge interrupt
	Stop()

	// Reset restarts counting from zero
	Reset()

	// Count returns the ticks elapsed since the last Reset
	Count() uint32
}

// SampleSource fills the sample buffer in the background (DMA or an
// equivalent) and raises the buffer-ready interrupt when it is full.
type SampleSource interface {
	// Start begins the first transfer into the buffer
	Start() error

	// Stop cancels any transfer in progress
	Stop()

	// Rearm starts a new transfer into the same buffer
	Rearm()
}
