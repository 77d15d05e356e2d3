package monitor

import (
	"sort"

	"doppler/core"

	"gonum.org/v1/gonum/stat"
)

// Stats summarises the speeds held in a window
type Stats struct {
	Count int
	Mean  float64
	P50   float64
	P85   float64
	Max   float64
}

// Window keeps the most recent speeds per display unit. Speeds below
// minSpeed are treated as "no target" and not kept.
type Window struct {
	size     int
	minSpeed float64
	speeds   map[core.UnitMode]*ring
}

type ring struct {
	values []float64
	next   int
	full   bool
}

func (r *ring) add(v float64) {
	r.values[r.next] = v
	r.next = (r.next + 1) % len(r.values)
	if r.next == 0 {
		r.full = true
	}
}

func (r *ring) snapshot() []float64 {
	n := r.next
	if r.full {
		n = len(r.values)
	}
	return append([]float64(nil), r.values[:n]...)
}

// NewWindow creates a window of size readings per unit. size must be
// positive.
func NewWindow(size int, minSpeed float64) *Window {
	return &Window{
		size:     size,
		minSpeed: minSpeed,
		speeds:   make(map[core.UnitMode]*ring),
	}
}

// Add records the speed of s. It reports whether the sample was kept.
func (w *Window) Add(s Sample) bool {
	if s.Speed < w.minSpeed {
		return false
	}
	r, ok := w.speeds[s.Unit]
	if !ok {
		r = &ring{values: make([]float64, w.size)}
		w.speeds[s.Unit] = r
	}
	r.add(s.Speed)
	return true
}

// Stats returns the summary for unit. The zero Stats means no readings.
func (w *Window) Stats(unit core.UnitMode) Stats {
	r, ok := w.speeds[unit]
	if !ok {
		return Stats{}
	}
	x := r.snapshot()
	if len(x) == 0 {
		return Stats{}
	}

	sort.Float64s(x)
	return Stats{
		Count: len(x),
		Mean:  stat.Mean(x, nil),
		P50:   stat.Quantile(0.5, stat.Empirical, x, nil),
		P85:   stat.Quantile(0.85, stat.Empirical, x, nil),
		Max:   x[len(x)-1],
	}
}
