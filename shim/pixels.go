package shim

import (
	"github.com/veilgpu/veil/internal/detrand"
)

// QuantizePixels applies the lightweight read-back pass to an RGBA8
// buffer in place: quantize channels to the configured bit depth, then
// perturb the surviving low bit deterministically from the session
// seed. Coarser and cheaper than the full render normalizer; meant for
// the read-back interception point where per-call budgets are tight.
//
// No-op when pixel normalization is disabled or the buffer is shorter
// than width*height*4.
func (s *Shim) QuantizePixels(pix []byte, width, height int) {
	s.mu.RLock()
	cfg := s.cfg
	s.mu.RUnlock()

	if !cfg.NormalizePixels || width <= 0 || height <= 0 {
		return
	}
	n := width * height * 4
	if len(pix) < n {
		return
	}

	shift := uint(8 - cfg.QuantBits)
	mask := byte(0xFF << shift)
	step := byte(1) << shift

	for i := 0; i < n; i++ {
		if i%4 == 3 {
			continue // alpha carries no fingerprint signal worth the cost
		}
		v := pix[i] & mask
		// Perturb the quantized value by at most one step, keyed so the
		// same seed and buffer position always flip the same way.
		if detrand.Float64At(cfg.Seed, uint64(i)) >= 0.5 && v <= 0xFF-step {
			v += step
		}
		pix[i] = v
	}
}
