package timing

import (
	"sync"
	"time"

	"github.com/veilgpu/veil/internal/detrand"
)

// TimerProtection degrades high-resolution clock reads to the same
// quantum the operation normalizer uses. Pages measuring GPU work with
// performance.now-style timers then see the quantized grid, not the real
// hardware's latency structure.
type TimerProtection struct {
	cfg    Config
	origin time.Time

	mu   sync.Mutex
	last time.Duration
}

// NewTimerProtection creates a protected clock sharing cfg with the
// operation normalizer.
func NewTimerProtection(cfg Config) *TimerProtection {
	if cfg.Quantum <= 0 {
		cfg.Quantum = DefaultConfig().Quantum
	}
	return &TimerProtection{cfg: cfg, origin: time.Now()}
}

// Now returns the protected reading: elapsed time since the clock's
// origin, truncated to the quantum, with per-window jitter. Every read
// within one quantum window returns the same value, and the sequence is
// monotonically non-decreasing even across jitter boundaries.
func (t *TimerProtection) Now() time.Duration {
	elapsed := time.Since(t.origin)
	window := elapsed / t.cfg.Quantum
	reading := window * t.cfg.Quantum

	// Jitter is a pure function of the window index, so repeated reads
	// within a window agree with each other.
	if t.cfg.JitterMax > 0 {
		f := detrand.Float64At(t.cfg.Seed, uint64(window))
		reading += time.Duration(f * float64(min(t.cfg.JitterMax, t.cfg.Quantum)))
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if reading < t.last {
		return t.last
	}
	t.last = reading
	return reading
}

// Quantum returns the clock's rounding step.
func (t *TimerProtection) Quantum() time.Duration {
	return t.cfg.Quantum
}
