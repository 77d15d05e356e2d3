//go:build rp2040

package pio

// PIO edge timer for the comparator backend.
// A state machine follows the comparator output and counts, in two-cycle
// steps, how long each signal period lasts. One count is pushed per period:
// the count is the period's length in cycles divided by two, so at the state
// machine clock it is the half-period that core.ComparatorBackend expects.

import (
	"errors"
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

var ErrStateMachineBusy = errors.New("pio: edge timer state machine already claimed")

// EdgeTimerClock is the state machine clock. 125 MHz / 125.
const EdgeTimerClock = 1000000

const (
	edgeTimerClkDivInt  = 125
	edgeTimerClkDivFrac = 0
	edgeTimerOrigin     = 0 // Jumps below are absolute
	edgeTimerWrapTarget = 2
)

// buildEdgeTimerProgram assembles the counting program for the comparator on
// gpio. X counts down from all ones through the high phase and the low
// phase; its complement is the number of loop passes.
func buildEdgeTimerProgram(gpio uint8) []uint16 {
	return []uint16{
		0x2000 | uint16(gpio&0x1F), // 0: wait 0 gpio N
		0x2080 | uint16(gpio&0x1F), // 1: wait 1 gpio N
		// .wrap_target
		0xA02B, // 2: mov x, ~null
		// high:
		0x00C5, // 3: jmp pin 5
		0x0006, // 4: jmp 6
		0x0043, // 5: jmp x-- 3
		// low:
		0x00C8, // 6: jmp pin 8
		0x0046, // 7: jmp x-- 6
		0xA0C9, // 8: mov isr, ~x
		0x8000, // 9: push noblock
		// .wrap
	}
}

// EdgeTimer implements core.EdgeTimer on a PIO state machine. Counts are
// latched from the RX FIFO by Count and cleared by Reset.
type EdgeTimer struct {
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	pin    machine.Pin
	offset uint8

	loaded  bool
	running bool
	latched uint32
	periods uint32
}

// NewEdgeTimer creates a timer for the comparator output on pin.
// pioNum: 0 for PIO0, 1 for PIO1
// smNum: 0-3 for state machine number
func NewEdgeTimer(pioNum, smNum uint8, pin machine.Pin) *EdgeTimer {
	pioHW := rp2pio.PIO0
	if pioNum != 0 {
		pioHW = rp2pio.PIO1
	}
	return &EdgeTimer{
		pio: pioHW,
		sm:  pioHW.StateMachine(smNum),
		pin: pin,
	}
}

// Start loads the program on first use and enables the state machine. The
// first count arrives after one full period following a rising edge.
func (t *EdgeTimer) Start() error {
	if !t.loaded {
		if !t.sm.TryClaim() {
			return ErrStateMachineBusy
		}
		program := buildEdgeTimerProgram(uint8(t.pin))
		offset, err := t.pio.AddProgram(program, edgeTimerOrigin)
		if err != nil {
			return err
		}
		t.offset = offset
		t.loaded = true

		t.pin.Configure(machine.PinConfig{Mode: t.pio.PinMode()})
	}

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetJmpPin(t.pin)
	cfg.SetInShift(false, false, 32)
	cfg.SetWrap(t.offset+9, t.offset+edgeTimerWrapTarget)
	cfg.SetClkDivIntFrac(edgeTimerClkDivInt, edgeTimerClkDivFrac)

	t.sm.Init(t.offset, cfg)
	t.sm.SetPindirsConsecutive(t.pin, 1, false) // input

	t.latched = 0
	t.sm.SetEnabled(true)
	t.running = true
	return nil
}

func (t *EdgeTimer) Stop() {
	t.sm.SetEnabled(false)
	t.sm.ClearFIFOs()
	t.running = false
	t.latched = 0
}

// Reset drops the latched count so a stale period is not measured twice
func (t *EdgeTimer) Reset() {
	t.latched = 0
}

// Count drains the RX FIFO and returns the most recent period, or 0 if none
// arrived since the last Reset
func (t *EdgeTimer) Count() uint32 {
	for !t.sm.IsRxFIFOEmpty() {
		t.latched = t.sm.RxGet()
		t.periods++
	}
	return t.latched
}

// Pending reports whether a count is waiting in the FIFO. Polled by the
// platform in place of an edge interrupt.
func (t *EdgeTimer) Pending() bool {
	return t.running && !t.sm.IsRxFIFOEmpty()
}

// Periods returns the number of counts read from the state machine
func (t *EdgeTimer) Periods() uint32 {
	return t.periods
}
