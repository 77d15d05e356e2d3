//go:build rp2040

package main

import (
	"device/rp"
	"errors"
	"machine"
	"sync/atomic"
	"time"

	"doppler/core"
)

var (
	ErrADCPin     = errors.New("sampler: pin is not an ADC input")
	errADCStall   = errors.New("capture stalled")
	errADCOverrun = errors.New("result FIFO overrun")
)

const (
	adcClock = 48000000 // clk_adc, Hz

	// A conversion takes 2us; no sample for this long means the ADC stalled
	captureStallMicros = 1000
)

// Sampler implements core.SampleSource with the RP2040 ADC in free-running
// mode. Conversions are paced by the ADC clock divider at core.SamplePeriod
// and drained from the 4-entry result FIFO into the buffer. The capture runs
// in its own goroutine and reports a full buffer through the ready callback.
type Sampler struct {
	pin     machine.Pin
	channel uint32
	div     uint32
	buffer  []uint16
	ready   func()

	running uint32 // atomic bool
	armed   uint32 // atomic bool

	windows  uint32
	overruns uint32
	stalls   uint32
}

// NewSampler prepares pin (ADC0-ADC3) to fill buffer
func NewSampler(pin machine.Pin, buffer []uint16) (*Sampler, error) {
	if pin < machine.ADC0 || pin > machine.ADC3 {
		return nil, ErrADCPin
	}
	pin.Configure(machine.PinConfig{Mode: machine.PinAnalog})

	// Sample period = (1 + INT + FRAC/256) ADC clocks
	cycles := core.SamplePeriod * adcClock
	whole := uint32(cycles)
	frac := uint32((cycles-float64(whole))*256 + 0.5)
	if frac > 255 {
		frac = 255
	}

	return &Sampler{
		pin:     pin,
		channel: uint32(pin - machine.ADC0),
		div:     (whole-1)<<rp.ADC_DIV_INT_Pos | frac<<rp.ADC_DIV_FRAC_Pos,
		buffer:  buffer,
		ready:   func() {},
	}, nil
}

// SetReady installs the buffer-ready callback
func (s *Sampler) SetReady(fn func()) {
	s.ready = fn
}

func (s *Sampler) Start() error {
	machine.InitADC()
	atomic.StoreUint32(&s.running, 1)
	atomic.StoreUint32(&s.armed, 1)
	return nil
}

func (s *Sampler) Stop() {
	atomic.StoreUint32(&s.running, 0)
	atomic.StoreUint32(&s.armed, 0)
}

// Rearm hands the buffer back for the next window
func (s *Sampler) Rearm() {
	if atomic.LoadUint32(&s.running) != 0 {
		atomic.StoreUint32(&s.armed, 1)
	}
}

// Run is the capture goroutine
func (s *Sampler) Run() {
	for {
		if atomic.LoadUint32(&s.running) != 0 && atomic.LoadUint32(&s.armed) != 0 {
			switch err := s.capture(); err {
			case nil:
				atomic.StoreUint32(&s.armed, 0)
				s.windows++
				s.ready()
			case errADCOverrun:
				s.overruns++
				core.DebugPrintln("[ADC] " + err.Error())
			default:
				s.stalls++
				core.DebugPrintln("[ADC] " + err.Error())
			}
		}
		time.Sleep(time.Millisecond)
	}
}

// capture fills the whole buffer without yielding. A failed window is
// retried by Run.
func (s *Sampler) capture() error {
	rp.ADC.CS.ReplaceBits(s.channel<<rp.ADC_CS_AINSEL_Pos, rp.ADC_CS_AINSEL_Msk, 0)
	rp.ADC.DIV.Set(s.div)
	rp.ADC.FCS.Set(rp.ADC_FCS_EN | rp.ADC_FCS_OVER | rp.ADC_FCS_UNDER) // enable, clear sticky flags
	drainADC()

	rp.ADC.CS.SetBits(rp.ADC_CS_START_MANY)
	var err error
	for i := range s.buffer {
		deadline := Uptime() + captureStallMicros
		for err == nil && rp.ADC.FCS.HasBits(rp.ADC_FCS_EMPTY) {
			if Uptime() > deadline {
				err = errADCStall
			}
		}
		if err != nil {
			break
		}
		s.buffer[i] = uint16(rp.ADC.FIFO.Get() & 0x0FFF)
	}
	rp.ADC.CS.ClearBits(rp.ADC_CS_START_MANY)

	if err == nil && rp.ADC.FCS.HasBits(rp.ADC_FCS_OVER) {
		// Samples were lost, the window is longer than it claims
		err = errADCOverrun
	}

	drainADC()
	rp.ADC.FCS.Set(rp.ADC_FCS_OVER | rp.ADC_FCS_UNDER)
	rp.ADC.DIV.Set(0)
	return err
}

func drainADC() {
	for !rp.ADC.FCS.HasBits(rp.ADC_FCS_EMPTY) {
		rp.ADC.FIFO.Get()
	}
}
