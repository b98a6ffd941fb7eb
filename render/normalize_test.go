// Copyright 2026 The veil Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"bytes"
	"testing"

	"github.com/veilgpu/veil/profile"
)

// testPattern fills a pixmap with a deterministic gradient so tests have
// realistic, non-uniform input.
func testPattern(w, h int) *Pixmap {
	pm := NewPixmap(w, h)
	data := pm.Data()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			data[i+0] = uint8(x * 255 / w)
			data[i+1] = uint8(y * 255 / h)
			data[i+2] = uint8((x + y) % 256)
			data[i+3] = 255
		}
	}
	return pm
}

func TestNormalizeIsDeterministic(t *testing.T) {
	n := NewNormalizer(DefaultConfig())
	p := profile.NewNVIDIARTX3060()

	a := testPattern(64, 64)
	b := testPattern(64, 64)
	n.Normalize(a, p)
	n.Normalize(b, p)

	if !bytes.Equal(a.Data(), b.Data()) {
		t.Error("two runs over identical input differ")
	}
	if GenerateHash(a.Data()) != GenerateHash(b.Data()) {
		t.Error("hashes differ for identical normalized output")
	}
}

func TestNormalizeDependsOnSeed(t *testing.T) {
	n := NewNormalizer(DefaultConfig())
	p1 := profile.NewNVIDIARTX3060()
	p2 := p1.Clone()
	p2.Seeds.Render++

	a := testPattern(32, 32)
	b := testPattern(32, 32)
	n.Normalize(a, p1)
	n.Normalize(b, p2)

	if bytes.Equal(a.Data(), b.Data()) {
		t.Error("different render seeds produced identical output")
	}
}

func TestNormalizeActuallyChangesPixels(t *testing.T) {
	n := NewNormalizer(DefaultConfig())
	pm := testPattern(32, 32)
	orig := append([]byte(nil), pm.Data()...)

	n.Normalize(pm, profile.NewNVIDIARTX3060())
	if bytes.Equal(orig, pm.Data()) {
		t.Error("normalization was a no-op on a gradient image")
	}
}

func TestPerturbationIsBounded(t *testing.T) {
	cfg := Config{Intensity: 2.0 / 255}
	n := NewNormalizer(cfg)
	pm := testPattern(16, 16)
	orig := append([]byte(nil), pm.Data()...)

	n.Normalize(pm, profile.NewNVIDIARTX3060())

	maxDelta := cfg.Intensity*255 + 1 // +1 for rounding
	for i, v := range pm.Data() {
		if i%4 == 3 {
			if v != orig[i] {
				t.Fatalf("alpha perturbed at index %d", i)
			}
			continue
		}
		d := int(v) - int(orig[i])
		if d < 0 {
			d = -d
		}
		if float64(d) > maxDelta {
			t.Fatalf("channel %d moved by %d, bound %v", i, d, maxDelta)
		}
	}
}

func TestZeroIntensitySkipsPerturbation(t *testing.T) {
	n := NewNormalizer(Config{Intensity: 0})
	pm := testPattern(16, 16)
	orig := append([]byte(nil), pm.Data()...)
	n.Normalize(pm, profile.NewNVIDIARTX3060())
	if !bytes.Equal(orig, pm.Data()) {
		t.Error("pixels changed with every pass disabled")
	}
}

func TestRoundChannels(t *testing.T) {
	n := NewNormalizer(Config{RoundChannels: true})
	p := profile.NewNVIDIARTX3060()
	p.Render.ChannelBits = 4

	pm := testPattern(16, 16)
	n.Normalize(pm, p)

	// 4-bit quantization leaves at most 16 distinct levels per channel.
	seen := make(map[uint8]bool)
	for i, v := range pm.Data() {
		if i%4 == 0 {
			seen[v] = true
		}
	}
	if len(seen) > 16 {
		t.Errorf("red channel has %d levels after 4-bit rounding", len(seen))
	}
}

func TestNormalizeF32SharesAlgorithm(t *testing.T) {
	n := NewNormalizer(Config{Intensity: 0.01})
	p := profile.NewNVIDIARTX3060()

	a := NewPixmapF32(8, 8)
	b := NewPixmapF32(8, 8)
	for i := range a.Data() {
		a.Data()[i] = 0.5
		b.Data()[i] = 0.5
	}
	n.NormalizeF32(a, p)
	n.NormalizeF32(b, p)

	for i := range a.Data() {
		if a.Data()[i] != b.Data()[i] {
			t.Fatal("float path is not deterministic")
		}
	}

	// Alpha untouched, color perturbed within bounds.
	for i, v := range a.Data() {
		if i%4 == 3 {
			if v != 0.5 {
				t.Fatal("float alpha perturbed")
			}
			continue
		}
		d := float64(v) - 0.5
		if d < -0.011 || d > 0.011 {
			t.Fatalf("float channel moved by %v", d)
		}
	}
}

func TestNormalizeRGBA8RejectsShortBuffer(t *testing.T) {
	n := NewNormalizer(DefaultConfig())
	// Must not panic on a buffer smaller than the claimed dimensions.
	n.NormalizeRGBA8(make([]byte, 8), 100, 100, profile.NewNVIDIARTX3060())
}

func TestGenerateCanvasFingerprint(t *testing.T) {
	n := NewNormalizer(DefaultConfig())
	p1 := profile.NewNVIDIARTX3060()
	p2 := profile.NewAppleM1()

	f1 := n.GenerateCanvasFingerprint(p1, 64, 16)
	f1again := n.GenerateCanvasFingerprint(p1, 64, 16)
	f2 := n.GenerateCanvasFingerprint(p2, 64, 16)

	if f1 != f1again {
		t.Error("fingerprint not stable across calls")
	}
	if f1 == f2 {
		t.Error("distinct profiles share a canvas fingerprint")
	}
	if len(f1) != 64 {
		t.Errorf("fingerprint length = %d, want 64 hex chars", len(f1))
	}
}

func TestGenerateProfileHashBindsIdentity(t *testing.T) {
	pix := testPattern(8, 8).Data()
	h1 := GenerateProfileHash(profile.NewNVIDIARTX3060(), pix)
	h2 := GenerateProfileHash(profile.NewAMDRX6700(), pix)
	if h1 == h2 {
		t.Error("profile hash ignores the profile identity")
	}
}
