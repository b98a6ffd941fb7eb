// Package detrand provides a small deterministic pseudo-random generator
// for seed-derived perturbations.
//
// The engine's determinism guarantees ("same profile seed, same output,
// any process, any run") rule out math/rand: its algorithm is not part of
// the language compatibility promise and changed across releases. SplitMix64
// is fixed, trivially portable, and its output is a pure function of the
// seed and call index.
package detrand

// Source generates a deterministic uint64 stream from a seed.
type Source struct {
	state uint64
}

// New returns a source seeded with seed.
func New(seed uint64) *Source {
	return &Source{state: seed}
}

// Next returns the next value of the stream.
func (s *Source) Next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Float64 returns the next value mapped to [0, 1).
func (s *Source) Float64() float64 {
	return float64(s.Next()>>11) / float64(1<<53)
}

// At returns the stream value for an absolute index without advancing any
// state. Two processes computing At(seed, i) always agree, which is what
// per-pixel determinism rests on.
func At(seed, index uint64) uint64 {
	x := seed + (index+1)*0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Float64At is At mapped to [0, 1).
func Float64At(seed, index uint64) float64 {
	return float64(At(seed, index)>>11) / float64(1<<53)
}
