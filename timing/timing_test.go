package timing

import (
	"errors"
	"testing"
	"time"

	"github.com/veilgpu/veil/profile"
)

func TestNormalizedDurationIsQuantizedAndBounded(t *testing.T) {
	cfg := Config{
		Quantum:        50 * time.Microsecond,
		JitterFraction: 0.25,
		JitterMax:      100 * time.Microsecond,
		Seed:           1,
	}
	n := NewNormalizer(cfg, nil)
	n.SetFloor(OpDraw, 0)

	for i := 0; i < 50; i++ {
		id := n.BeginOperation(OpDraw, nil)
		d, err := n.EndOperation(id)
		if err != nil {
			t.Fatalf("EndOperation: %v", err)
		}
		if d < 0 {
			t.Fatalf("negative duration %v", d)
		}
		jitter := d % cfg.Quantum
		base := d - jitter
		if base < cfg.Quantum {
			t.Fatalf("quantized base %v below one quantum", base)
		}
		if jitter > cfg.JitterMax {
			t.Fatalf("jitter %v exceeds max %v", jitter, cfg.JitterMax)
		}
	}
}

func TestFloorHidesFastOperations(t *testing.T) {
	cfg := Config{Quantum: 10 * time.Microsecond, Seed: 1}
	n := NewNormalizer(cfg, nil)
	n.SetFloor(OpCompileShader, 2*time.Millisecond)

	id := n.BeginOperation(OpCompileShader, nil)
	d, err := n.EndOperation(id)
	if err != nil {
		t.Fatalf("EndOperation: %v", err)
	}
	if d < 2*time.Millisecond {
		t.Errorf("duration %v below the 2ms floor", d)
	}
}

func TestEndUnknownOperation(t *testing.T) {
	n := NewNormalizer(DefaultConfig(), nil)
	if _, err := n.EndOperation(OpID(12345)); !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("err = %v, want ErrUnknownOperation", err)
	}

	id := n.BeginOperation(OpDraw, nil)
	if _, err := n.EndOperation(id); err != nil {
		t.Fatalf("first end: %v", err)
	}
	if _, err := n.EndOperation(id); !errors.Is(err, ErrUnknownOperation) {
		t.Error("double EndOperation succeeded")
	}
}

func TestMatchProfileReachesExpectedCost(t *testing.T) {
	if testing.Short() {
		t.Skip("busy-delay test")
	}
	cfg := Config{Quantum: 10 * time.Microsecond, Seed: 1, MatchProfile: true}
	n := NewNormalizer(cfg, nil)
	n.SetFloor(OpDraw, 0)

	p := profile.NewNVIDIARTX3060()
	start := time.Now()
	id := n.BeginOperation(OpDraw, p)
	d, err := n.EndOperation(id)
	if err != nil {
		t.Fatalf("EndOperation: %v", err)
	}
	if d < p.Timing.Draw.Base {
		t.Errorf("normalized %v below profile draw cost %v", d, p.Timing.Draw.Base)
	}
	if real := time.Since(start); real < p.Timing.Draw.Base/2 {
		t.Errorf("real elapsed %v: expected-cost delay did not run", real)
	}
}

func TestTimerProtectionWindowStability(t *testing.T) {
	cfg := Config{Quantum: 50 * time.Millisecond, JitterMax: 5 * time.Millisecond, Seed: 7}
	tp := NewTimerProtection(cfg)

	// Reads within one quantum window return identical values. Two
	// back-to-back reads can only straddle a boundary once, so of three
	// reads at least two share a window.
	a, b, c := tp.Now(), tp.Now(), tp.Now()
	if a != b && b != c {
		t.Errorf("no two consecutive reads agree: %v, %v, %v", a, b, c)
	}
	if b < a || c < b {
		t.Errorf("reads not monotone: %v, %v, %v", a, b, c)
	}
}

func TestTimerProtectionMonotone(t *testing.T) {
	cfg := Config{Quantum: time.Millisecond, JitterMax: time.Millisecond, Seed: 7}
	tp := NewTimerProtection(cfg)

	last := tp.Now()
	deadline := time.Now().Add(20 * time.Millisecond)
	for time.Now().Before(deadline) {
		v := tp.Now()
		if v < last {
			t.Fatalf("clock went backwards: %v after %v", v, last)
		}
		last = v
	}
}

func TestDetectFingerprinting(t *testing.T) {
	d := NewDrawnApartDefense()

	// A probe: many near-identical durations.
	probe := make([]time.Duration, 64)
	for i := range probe {
		probe[i] = 100*time.Microsecond + time.Duration(i%3)*time.Microsecond
	}
	if !d.DetectFingerprinting(probe) {
		t.Error("uniform probe window not detected")
	}

	// Normal rendering: widely spread durations.
	normal := make([]time.Duration, 64)
	for i := range normal {
		normal[i] = time.Duration(50+i*37%400) * time.Microsecond
	}
	if d.DetectFingerprinting(normal) {
		t.Error("spread-out window flagged as a probe")
	}

	// Too few samples is never suspicious.
	if d.DetectFingerprinting(probe[:8]) {
		t.Error("short window flagged")
	}
}

func TestDefenseEscalatesUnderProbe(t *testing.T) {
	d := NewDrawnApartDefense()
	if f := d.Factor(); f != 1 {
		t.Fatalf("initial factor = %v, want 1", f)
	}

	for i := 0; i < 64; i++ {
		d.Record(100 * time.Microsecond)
	}
	if f := d.Factor(); f <= 1 {
		t.Errorf("factor = %v after uniform probe, want escalation", f)
	}
}

func TestDefenseEscalationFeedsNormalizer(t *testing.T) {
	d := NewDrawnApartDefense()
	for i := 0; i < 64; i++ {
		d.Record(100 * time.Microsecond)
	}
	factor := d.Factor()
	if factor <= 1 {
		t.Fatal("defense did not escalate")
	}

	cfg := Config{Quantum: 50 * time.Microsecond, Seed: 1}
	n := NewNormalizer(cfg, d)
	n.SetFloor(OpDraw, 0)

	id := n.BeginOperation(OpDraw, nil)
	dur, err := n.EndOperation(id)
	if err != nil {
		t.Fatalf("EndOperation: %v", err)
	}
	escalated := time.Duration(float64(cfg.Quantum) * factor)
	if dur < escalated {
		t.Errorf("duration %v below escalated quantum %v", dur, escalated)
	}
}
