package core

import "testing"

// fakeComparator records enable state
type fakeComparator struct {
	enabled bool
}

func (f *fakeComparator) Enable()  { f.enabled = true }
func (f *fakeComparator) Disable() { f.enabled = false }

// fakeTimer returns a preset count
type fakeTimer struct {
	count    uint32
	running  bool
	resets   int
	startErr error
}

func (f *fakeTimer) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	f.running = true
	return nil
}
func (f *fakeTimer) Stop()         { f.running = false }
func (f *fakeTimer) Reset()        { f.resets++ }
func (f *fakeTimer) Count() uint32 { return f.count }

// fakeSource records transfers
type fakeSource struct {
	running  bool
	rearms   int
	startErr error
}

func (f *fakeSource) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	f.running = true
	return nil
}
func (f *fakeSource) Stop()  { f.running = false }
func (f *fakeSource) Rearm() { f.rearms++ }

// rig holds a complete pair of backends on fake hardware
type rig struct {
	comp   *fakeComparator
	timer  *fakeTimer
	source *fakeSource
	buffer []uint16

	comparator *Global[ComparatorBackend]
	sampled    *Global[SampledBackend]
}

func newRig(t *testing.T) *rig {
	t.Helper()

	r := &rig{
		comp:       &fakeComparator{},
		timer:      &fakeTimer{},
		source:     &fakeSource{},
		buffer:     make([]uint16, SampleBufferLen),
		comparator: NewGlobal[ComparatorBackend](),
		sampled:    NewGlobal[SampledBackend](),
	}

	r.comparator.Set(NewComparatorBackend(r.comp, r.timer, EdgeClockFrequency))

	s, err := NewSampledBackend(r.source, r.buffer, DefaultSampledConfig())
	if err != nil {
		t.Fatalf("NewSampledBackend failed: %v", err)
	}
	r.sampled.Set(s)
	return r
}

func (r *rig) comparatorRunning() bool {
	var running bool
	r.comparator.With(func(c *ComparatorBackend) { running = c.Running() })
	return running
}

func (r *rig) sampledRunning() bool {
	var running bool
	r.sampled.With(func(s *SampledBackend) { running = s.Running() })
	return running
}

// squareWave fills buf with a square wave that changes level every
// halfPeriod samples
func squareWave(buf []uint16, halfPeriod int) {
	for i := range buf {
		if (i/halfPeriod)%2 == 0 {
			buf[i] = 3000
		} else {
			buf[i] = 1000
		}
	}
}
