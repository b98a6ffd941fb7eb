// Copyright 2026 The veil Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render makes pixel read-back deterministic per profile: the same
// (render seed, image) pair produces byte-identical output on any real
// GPU, in any process, on any run. Canvas and WebGL output hashes then
// identify the virtual hardware, not the real one.
package render

import (
	"math"

	"github.com/veilgpu/veil/internal/detrand"
	"github.com/veilgpu/veil/profile"
)

// Config bounds and selects the normalization passes.
type Config struct {
	// Intensity is the maximum per-channel perturbation in [0,1] channel
	// units. Zero disables the perturbation pass.
	Intensity float64

	// NormalizeAA runs the anti-aliasing resampling pass, masking
	// hardware-specific edge coverage patterns.
	NormalizeAA bool

	// NormalizeGamma remaps channels toward the profile's gamma curve.
	NormalizeGamma bool

	// RoundChannels quantizes channels to the profile's effective channel
	// bit depth, removing precision-dependent variance.
	RoundChannels bool
}

// DefaultConfig returns the production configuration: a perturbation just
// above one 8-bit step, with all masking passes on.
func DefaultConfig() Config {
	return Config{
		Intensity:      1.5 / 255,
		NormalizeAA:    true,
		NormalizeGamma: true,
		RoundChannels:  true,
	}
}

// Normalizer applies deterministic pixel transforms for a profile.
// It is stateless and safe for concurrent use.
type Normalizer struct {
	cfg Config
}

// NewNormalizer creates a normalizer with the given configuration.
func NewNormalizer(cfg Config) *Normalizer {
	return &Normalizer{cfg: cfg}
}

// Config returns the normalizer's configuration.
func (n *Normalizer) Config() Config { return n.cfg }

// NormalizeRGBA8 normalizes an RGBA8 read-back buffer in place. It is the
// entry point contexts delegate to.
func (n *Normalizer) NormalizeRGBA8(pix []byte, width, height int, p *profile.Profile) {
	if len(pix) < width*height*4 || width <= 0 || height <= 0 {
		return
	}
	n.Normalize(WrapPixmap(pix, width, height), p)
}

// Normalize runs the configured passes over an 8-bit pixmap in place.
// Pass order is fixed: perturb, resample, gamma, round. Reordering would
// change output bytes and break determinism against recorded baselines.
func (n *Normalizer) Normalize(pm *Pixmap, p *profile.Profile) {
	if n.cfg.Intensity > 0 {
		n.perturb8(pm, p.Seeds.Render)
	}
	if n.cfg.NormalizeAA {
		n.resample(pm, p)
	}
	if n.cfg.NormalizeGamma && p.Render.Gamma > 0 {
		n.gamma8(pm, p.Render.Gamma)
	}
	if n.cfg.RoundChannels && p.Render.ChannelBits > 0 && p.Render.ChannelBits < 8 {
		n.round8(pm, p.Render.ChannelBits)
	}
}

// NormalizeF32 runs the same algorithm over a float pixmap. The float path
// skips the AA resample (float read-back is used for data, not imagery)
// but shares the seeded perturbation and quantization.
func (n *Normalizer) NormalizeF32(pm *PixmapF32, p *profile.Profile) {
	data := pm.Data()
	seed := p.Seeds.Render
	if n.cfg.Intensity > 0 {
		for i := range data {
			if i%4 == 3 {
				continue // alpha carries no fingerprint signal
			}
			noise := (detrand.Float64At(seed, uint64(i))*2 - 1) * n.cfg.Intensity
			data[i] += float32(noise)
		}
	}
	if n.cfg.RoundChannels && p.Render.ChannelBits > 0 {
		// Quantize the mantissa to the profile's effective depth.
		scale := float32(uint64(1) << uint(p.Render.ChannelBits))
		for i := range data {
			data[i] = float32(math.Floor(float64(data[i]*scale)+0.5)) / scale
		}
	}
}

// perturb8 adds the seeded per-pixel noise. The noise for channel i is a
// pure function of (seed, i), so every process agrees on it.
func (n *Normalizer) perturb8(pm *Pixmap, seed uint64) {
	data := pm.Data()
	amp := n.cfg.Intensity * 255
	for i := range data {
		if i%4 == 3 {
			continue
		}
		noise := (detrand.Float64At(seed, uint64(i))*2 - 1) * amp
		v := float64(data[i]) + noise
		data[i] = clamp8(v)
	}
}

// gamma8 remaps color channels from the standard 2.2 curve toward the
// profile's advertised gamma, hiding panel/driver gamma differences.
func (n *Normalizer) gamma8(pm *Pixmap, gamma float64) {
	exp := gamma / 2.2
	if exp == 1 {
		return
	}
	var lut [256]uint8
	for i := range lut {
		lut[i] = clamp8(math.Pow(float64(i)/255, exp) * 255)
	}
	data := pm.Data()
	for i := range data {
		if i%4 == 3 {
			continue
		}
		data[i] = lut[data[i]]
	}
}

// round8 quantizes channels to bits of effective depth.
func (n *Normalizer) round8(pm *Pixmap, bits int) {
	levels := float64(uint(1)<<uint(bits)) - 1
	var lut [256]uint8
	for i := range lut {
		lut[i] = clamp8(math.Round(float64(i)/255*levels) / levels * 255)
	}
	data := pm.Data()
	for i := range data {
		if i%4 == 3 {
			continue
		}
		data[i] = lut[data[i]]
	}
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}
