//go:build tinygo

package core

import "runtime/interrupt"

// State is the saved interrupt mask. Critical sections nest on hardware.
type State = interrupt.State

// disableInterrupts masks all interrupts and returns the previous state
func disableInterrupts() State {
	return interrupt.Disable()
}

// restoreInterrupts restores the interrupt mask saved by disableInterrupts
func restoreInterrupts(state State) {
	interrupt.Restore(state)
}
