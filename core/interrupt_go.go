//go:build !tinygo

package core

import "sync"

// State is a placeholder for interrupt state on regular Go
type State uintptr

// hostMask stands in for the interrupt mask on regular Go. Simulated
// interrupt handlers (goroutines in tests) and the main context serialize on
// it the way a single core serializes with interrupts disabled. Unlike the
// hardware mask it does not nest.
var hostMask sync.Mutex

// disableInterrupts enters the simulated critical section
func disableInterrupts() State {
	hostMask.Lock()
	return 0
}

// restoreInterrupts leaves the simulated critical section
func restoreInterrupts(state State) {
	hostMask.Unlock()
}
