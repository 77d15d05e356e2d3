package core

// ComparatorBackend measures frequency from the time between two successive
// threshold crossings of the reflected signal. The edge timer is reset on
// every crossing, so the count read at the next crossing is one half-period.
type ComparatorBackend struct {
	comp      Comparator
	timer     EdgeTimer
	clockFreq float64 // edge timer tick rate, Hz

	frequency float64
	running   bool
	callbacks uint32
}

// NewComparatorBackend wires a comparator to the timer that measures its
// edges. clockFreq is the timer tick rate in Hz.
func NewComparatorBackend(comp Comparator, timer EdgeTimer, clockFreq float64) *ComparatorBackend {
	return &ComparatorBackend{
		comp:      comp,
		timer:     timer,
		clockFreq: clockFreq,
	}
}

func (c *ComparatorBackend) Start() error {
	c.frequency = 0
	if err := c.timer.Start(); err != nil {
		c.running = false
		return err
	}
	c.timer.Reset()
	c.comp.Enable()
	c.running = true
	return nil
}

func (c *ComparatorBackend) Stop() {
	c.comp.Disable()
	c.timer.Stop()
	c.running = false
}

// HandleCallback records the half-period counted since the previous crossing.
// A zero count (two edges inside one tick) carries no information and is
// dropped.
func (c *ComparatorBackend) HandleCallback() {
	if !c.running {
		// Interrupt was already pending when Stop ran
		return
	}
	count := c.timer.Count()
	if count == 0 {
		return
	}
	// Full period = two threshold crossings
	c.frequency = c.clockFreq / (2 * float64(count))
	c.callbacks++
}

// ResetTimer restarts the half-period count. Called after HandleCallback from
// the same interrupt.
func (c *ComparatorBackend) ResetTimer() {
	c.timer.Reset()
}

func (c *ComparatorBackend) CalculateFrequency() float64 {
	return c.frequency
}

func (c *ComparatorBackend) Running() bool {
	return c.running
}

// Callbacks returns the number of crossings that produced a measurement.
func (c *ComparatorBackend) Callbacks() uint32 {
	return c.callbacks
}
