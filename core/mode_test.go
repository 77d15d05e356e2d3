package core

import (
	"errors"
	"math/rand"
	"testing"
)

func TestModeBoot(t *testing.T) {
	r := newRig(t)
	m := NewModeController(r.comparator, r.sampled)

	if err := m.Boot(); err != nil {
		t.Fatalf("Boot failed: %v", err)
	}
	if m.Sampling() != SampledWaveform || m.Unit() != Metric {
		t.Errorf("Expected ADC/kmph after boot, got %s/%s", m.Sampling().Label(), m.Unit().Label())
	}
	if !r.sampledRunning() || r.comparatorRunning() {
		t.Error("Expected only the sampled backend running after boot")
	}
	if r.comp.enabled {
		t.Error("Expected comparator disabled after boot")
	}
}

func TestModeSamplingSwitch(t *testing.T) {
	r := newRig(t)
	m := NewModeController(r.comparator, r.sampled)
	m.Boot()

	changed, err := m.Update(ButtonDown)
	if !changed || err != nil {
		t.Fatalf("DOWN: changed=%v err=%v", changed, err)
	}
	if m.Sampling() != ComparatorEdge {
		t.Fatalf("Expected COMP after DOWN, got %s", m.Sampling().Label())
	}
	if !r.comparatorRunning() || r.sampledRunning() {
		t.Error("Expected only the comparator backend running")
	}
	if !r.comp.enabled || r.source.running {
		t.Error("Expected comparator enabled and sample source stopped")
	}

	changed, _ = m.Update(ButtonUp)
	if !changed || m.Sampling() != SampledWaveform {
		t.Fatalf("Expected switch back to ADC on UP")
	}
	if r.comparatorRunning() || !r.sampledRunning() {
		t.Error("Expected only the sampled backend running")
	}
}

func TestModeHeldButton(t *testing.T) {
	r := newRig(t)
	m := NewModeController(r.comparator, r.sampled)
	m.Boot()

	var transitions int
	for i := 0; i < 5; i++ {
		changed, err := m.Update(ButtonDown)
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if changed {
			transitions++
		}
	}
	if transitions != 1 {
		t.Errorf("Expected held DOWN to switch once, got %d transitions", transitions)
	}
	// Start resets the timer once per start
	if r.timer.resets != 1 {
		t.Errorf("Expected comparator started once, timer reset %d times", r.timer.resets)
	}

	// Back to ADC, then a held UP acts once
	m.Update(ButtonUp)
	rearms := r.source.rearms
	if changed, _ := m.Update(ButtonUp); changed {
		t.Error("Expected repeated UP to be ignored")
	}
	if r.source.rearms != rearms {
		t.Error("Expected no backend activity on ignored UP")
	}
}

func TestModeUnits(t *testing.T) {
	r := newRig(t)
	m := NewModeController(r.comparator, r.sampled)
	m.Boot()

	if changed, _ := m.Update(ButtonRight); changed {
		t.Error("Expected RIGHT in metric to be a no-op")
	}
	if changed, _ := m.Update(ButtonLeft); !changed || m.Unit() != Imperial {
		t.Fatalf("Expected LEFT to select mph, got %s", m.Unit().Label())
	}
	if changed, _ := m.Update(ButtonLeft); changed {
		t.Error("Expected held LEFT to act once")
	}
	if changed, _ := m.Update(ButtonRight); !changed || m.Unit() != Metric {
		t.Fatalf("Expected RIGHT to select kmph, got %s", m.Unit().Label())
	}

	// Units never touch the backends
	if m.Sampling() != SampledWaveform || !r.sampledRunning() || r.comparatorRunning() {
		t.Error("Expected unit changes to leave the sampled backend running")
	}
}

func TestModeIgnoredButtons(t *testing.T) {
	r := newRig(t)
	m := NewModeController(r.comparator, r.sampled)
	m.Boot()

	for _, b := range []Button{ButtonNone, ButtonSelect} {
		if changed, err := m.Update(b); changed || err != nil {
			t.Errorf("%s: changed=%v err=%v", b, changed, err)
		}
	}
	if m.Sampling() != SampledWaveform || m.Unit() != Metric {
		t.Error("Expected modes unchanged")
	}
}

func TestModeMutualExclusion(t *testing.T) {
	r := newRig(t)
	m := NewModeController(r.comparator, r.sampled)
	m.Boot()

	buttons := []Button{ButtonNone, ButtonRight, ButtonUp, ButtonDown, ButtonLeft, ButtonSelect}
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		b := buttons[rng.Intn(len(buttons))]
		if _, err := m.Update(b); err != nil {
			t.Fatalf("step %d: Update(%s) failed: %v", i, b, err)
		}

		comp, sampled := r.comparatorRunning(), r.sampledRunning()
		if comp == sampled {
			t.Fatalf("step %d after %s: comparator=%v sampled=%v", i, b, comp, sampled)
		}
		if comp != (m.Sampling() == ComparatorEdge) {
			t.Fatalf("step %d: running backend does not match mode %s", i, m.Sampling().Label())
		}
	}
}

func TestModeStartFailure(t *testing.T) {
	errClaimed := errors.New("timer claimed")
	r := newRig(t)
	m := NewModeController(r.comparator, r.sampled)
	m.Boot()

	r.timer.startErr = errClaimed
	changed, err := m.Update(ButtonDown)
	if !changed {
		t.Error("Expected DOWN to report a transition")
	}
	if !errors.Is(err, errClaimed) {
		t.Fatalf("Expected %v, got %v", errClaimed, err)
	}
	if m.Sampling() != ComparatorEdge {
		t.Errorf("Expected COMP recorded despite the failure, got %s", m.Sampling().Label())
	}
	if r.comparatorRunning() || r.sampledRunning() {
		t.Error("Expected no backend running after a failed start")
	}
	if f := m.Frequency(); f != 0 {
		t.Errorf("Expected 0 Hz from the failed backend, got %v", f)
	}

	// Selecting the other mode recovers
	r.timer.startErr = nil
	if _, err := m.Update(ButtonUp); err != nil {
		t.Fatalf("Expected recovery on UP, got %v", err)
	}
	if !r.sampledRunning() {
		t.Error("Expected sampled backend running after recovery")
	}
}
