// Package timing suppresses GPU timing side channels. Operation durations
// are quantized, jittered, floored, and optionally shaped toward the
// active profile's expected costs; protected clock reads lose the
// precision a timing probe needs; and a short history of draw-call
// durations feeds a detector for DrawnApart-style fingerprint probes.
package timing

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/veilgpu/veil/internal/detrand"
	"github.com/veilgpu/veil/profile"
)

// OpKind classifies a timed operation.
type OpKind uint8

const (
	OpDraw OpKind = iota
	OpCompileShader
	OpLinkProgram
	OpReadPixels
	OpTexUpload
	OpBufferUpload
)

func (k OpKind) String() string {
	switch k {
	case OpDraw:
		return "draw"
	case OpCompileShader:
		return "compile-shader"
	case OpLinkProgram:
		return "link-program"
	case OpReadPixels:
		return "read-pixels"
	case OpTexUpload:
		return "tex-upload"
	case OpBufferUpload:
		return "buffer-upload"
	default:
		return "unknown"
	}
}

// Config is shared by the operation normalizer and the timer protection.
// Keeping one configuration for both matters: two defenses disagreeing on
// quantum or jitter would themselves form a consistent, fingerprintable
// signal.
type Config struct {
	// Quantum is the rounding step for durations and clock reads.
	Quantum time.Duration

	// JitterFraction scales the quantized duration to the jitter
	// amplitude, clamped to [JitterMin, JitterMax].
	JitterFraction float64
	JitterMin      time.Duration
	JitterMax      time.Duration

	// Seed drives the jitter stream. The stream only needs to be
	// unpredictable to the page, not cross-process stable.
	Seed uint64

	// MatchProfile delays fast operations toward the profile's expected
	// cost instead of merely hiding the real duration.
	MatchProfile bool
}

// DefaultConfig returns production timing parameters: a 100µs quantum
// with up to 25% jitter.
func DefaultConfig() Config {
	return Config{
		Quantum:        100 * time.Microsecond,
		JitterFraction: 0.25,
		JitterMin:      0,
		JitterMax:      200 * time.Microsecond,
		Seed:           uint64(time.Now().UnixNano()),
	}
}

// ErrUnknownOperation is returned by EndOperation for an id that was never
// begun or was already ended.
var ErrUnknownOperation = fmt.Errorf("timing: unknown operation id")

// OpID identifies one in-flight timed operation.
type OpID uint64

type operation struct {
	kind    OpKind
	start   time.Time
	profile *profile.Profile
}

// Normalizer measures operations and returns profile-consistent durations.
// It is safe for concurrent use; the sample history and the in-flight
// table have their own lock, separate from every other subsystem.
type Normalizer struct {
	cfg     Config
	defense *DrawnApartDefense

	nextOp atomic.Uint64

	mu     sync.Mutex
	rng    *detrand.Source
	ops    map[OpID]operation
	floors map[OpKind]time.Duration
}

// NewNormalizer creates a timing normalizer. The defense may be nil.
func NewNormalizer(cfg Config, defense *DrawnApartDefense) *Normalizer {
	if cfg.Quantum <= 0 {
		cfg.Quantum = DefaultConfig().Quantum
	}
	return &Normalizer{
		cfg:     cfg,
		defense: defense,
		rng:     detrand.New(cfg.Seed),
		ops:     make(map[OpID]operation),
		floors: map[OpKind]time.Duration{
			OpDraw:          20 * time.Microsecond,
			OpCompileShader: 500 * time.Microsecond,
			OpLinkProgram:   1 * time.Millisecond,
			OpReadPixels:    100 * time.Microsecond,
			OpTexUpload:     50 * time.Microsecond,
			OpBufferUpload:  20 * time.Microsecond,
		},
	}
}

// SetFloor overrides the minimum reported duration for an operation kind.
func (n *Normalizer) SetFloor(kind OpKind, floor time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.floors[kind] = floor
}

// BeginOperation starts timing an operation. The profile may be nil when
// no context is active; expected-cost matching is then skipped.
func (n *Normalizer) BeginOperation(kind OpKind, p *profile.Profile) OpID {
	id := OpID(n.nextOp.Add(1))
	n.mu.Lock()
	n.ops[id] = operation{kind: kind, start: time.Now(), profile: p}
	n.mu.Unlock()
	return id
}

// EndOperation stops timing and returns the normalized duration: the real
// elapsed time quantized to the configured quantum, floored per kind,
// plus bounded jitter. With MatchProfile set, operations that finished
// faster than the profile's expected cost are delayed to match, so the
// observable latency converges to the virtual hardware's.
func (n *Normalizer) EndOperation(id OpID) (time.Duration, error) {
	n.mu.Lock()
	op, ok := n.ops[id]
	if ok {
		delete(n.ops, id)
	}
	n.mu.Unlock()
	if !ok {
		return 0, ErrUnknownOperation
	}

	real := time.Since(op.start)

	factor := 1.0
	if n.defense != nil {
		factor = n.defense.Factor()
	}
	quantum := time.Duration(float64(n.cfg.Quantum) * factor)

	normalized := quantize(real, quantum)
	if floor := n.floor(op.kind); normalized < floor {
		normalized = quantize(floor, quantum)
		if normalized < floor {
			normalized += quantum
		}
	}
	normalized += n.jitter(normalized, factor)

	if n.cfg.MatchProfile && op.profile != nil {
		if expected := expectedCost(op.profile, op.kind); normalized < expected {
			busyDelay(expected - real)
			normalized = expected
		}
	}

	if n.defense != nil && op.kind == OpDraw {
		n.defense.Record(real)
	}
	return normalized, nil
}

func (n *Normalizer) floor(kind OpKind) time.Duration {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.floors[kind]
}

// jitter draws a bounded random addition: a fraction of the quantized
// value, clamped to the configured min/max, scaled by the defense factor.
func (n *Normalizer) jitter(base time.Duration, factor float64) time.Duration {
	amp := time.Duration(float64(base) * n.cfg.JitterFraction * factor)
	if amp > n.cfg.JitterMax {
		amp = n.cfg.JitterMax
	}
	if amp < n.cfg.JitterMin {
		amp = n.cfg.JitterMin
	}
	if amp <= 0 {
		return 0
	}
	n.mu.Lock()
	f := n.rng.Float64()
	n.mu.Unlock()
	return time.Duration(f * float64(amp))
}

// expectedCost samples the profile's cost model for an operation kind.
func expectedCost(p *profile.Profile, kind OpKind) time.Duration {
	var c profile.OpCost
	switch kind {
	case OpDraw:
		c = p.Timing.Draw
	case OpCompileShader:
		c = p.Timing.CompileShader
	case OpLinkProgram:
		c = p.Timing.LinkProgram
	case OpReadPixels:
		c = p.Timing.ReadPixels
	case OpTexUpload:
		c = p.Timing.TexUpload
	case OpBufferUpload:
		c = p.Timing.BufferUpload
	}
	return c.Base
}

// quantize rounds d to the nearest multiple of quantum, never below one
// quantum: a zero result would reveal that the real operation was faster
// than the step size.
func quantize(d, quantum time.Duration) time.Duration {
	if quantum <= 0 {
		return d
	}
	q := (d + quantum/2) / quantum * quantum
	if q < quantum {
		q = quantum
	}
	return q
}

// busyDelay spins for d. Sleeping would be cheaper, but scheduler wakeup
// granularity on some platforms exceeds the sub-millisecond targets here;
// the spin is bounded by the profile's own cost model.
func busyDelay(d time.Duration) {
	if d <= 0 {
		return
	}
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
	}
}
