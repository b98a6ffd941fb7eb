package timing

import (
	"math"
	"sync"
	"time"
)

// DrawnApartDefense watches recent draw-call durations for the signature
// of a timing-fingerprint probe: many repeated draws with abnormally low
// variance. Normal rendering mixes draw sizes and states, so its duration
// spread is wide; a probe issuing the same tiny draw in a tight loop is
// not. On detection the defense escalates the shared quantum and jitter
// until the probe's statistics collapse, then decays back after a quiet
// period.
type DrawnApartDefense struct {
	window      int
	minSamples  int
	cvThreshold float64
	maxFactor   float64
	decayAfter  time.Duration

	mu          sync.Mutex
	samples     []time.Duration
	next        int
	filled      bool
	factor      float64
	lastTrigger time.Time
}

// NewDrawnApartDefense creates a defense with production thresholds: a
// 64-sample window, suspicion below 5% coefficient of variation, and up
// to 8x escalation.
func NewDrawnApartDefense() *DrawnApartDefense {
	return &DrawnApartDefense{
		window:      64,
		minSamples:  32,
		cvThreshold: 0.05,
		maxFactor:   8,
		decayAfter:  5 * time.Second,
		samples:     make([]time.Duration, 64),
		factor:      1,
	}
}

// Record adds one draw-call duration to the history and re-evaluates the
// detector when the window is full.
func (d *DrawnApartDefense) Record(dur time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.samples[d.next] = dur
	d.next = (d.next + 1) % d.window
	if d.next == 0 {
		d.filled = true
	}

	if !d.filled && d.next < d.minSamples {
		d.maybeDecayLocked()
		return
	}

	n := d.next
	if d.filled {
		n = d.window
	}
	if d.detect(d.samples[:n]) {
		d.factor = math.Min(d.factor*2, d.maxFactor)
		d.lastTrigger = time.Now()
	} else {
		d.maybeDecayLocked()
	}
}

// DetectFingerprinting evaluates a sample window against the suspicion
// threshold without touching the defense's own history. Exposed so the
// orchestrator and tests can probe the analytic directly.
func (d *DrawnApartDefense) DetectFingerprinting(samples []time.Duration) bool {
	return d.detect(samples)
}

func (d *DrawnApartDefense) detect(samples []time.Duration) bool {
	if len(samples) < d.minSamples {
		return false
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s)
	}
	mean := sum / float64(len(samples))
	if mean <= 0 {
		return false
	}
	var varsum float64
	for _, s := range samples {
		diff := float64(s) - mean
		varsum += diff * diff
	}
	cv := math.Sqrt(varsum/float64(len(samples))) / mean
	return cv < d.cvThreshold
}

// Factor returns the current escalation multiplier applied to quantum and
// jitter. 1 means no escalation.
func (d *DrawnApartDefense) Factor() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.maybeDecayLocked()
	return d.factor
}

// maybeDecayLocked relaxes the escalation after a quiet period.
func (d *DrawnApartDefense) maybeDecayLocked() {
	if d.factor > 1 && !d.lastTrigger.IsZero() && time.Since(d.lastTrigger) > d.decayAfter {
		d.factor = 1
		d.lastTrigger = time.Time{}
	}
}
