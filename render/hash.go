// Copyright 2026 The veil Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/blake3"

	"github.com/veilgpu/veil/internal/detrand"
	"github.com/veilgpu/veil/profile"
)

// GenerateHash digests a pixel buffer. Two normalized buffers hash equal
// exactly when their bytes are equal, which is what the determinism
// self-tests check.
func GenerateHash(pix []byte) string {
	sum := blake3.Sum256(pix)
	return hex.EncodeToString(sum[:])
}

// GenerateProfileHash digests a pixel buffer together with the identity
// that produced it, so baselines recorded for one profile never collide
// with another profile's.
func GenerateProfileHash(p *profile.Profile, pix []byte) string {
	h := blake3.New()
	h.Write([]byte(p.ID))
	var seed [8]byte
	binary.LittleEndian.PutUint64(seed[:], p.Seeds.Render)
	h.Write(seed[:])
	h.Write(pix)
	return hex.EncodeToString(h.Sum(nil))
}

// GenerateCanvasFingerprint renders a synthetic test pattern from the
// profile's canvas seed, normalizes it, and digests the result. It is the
// value a canvas-hash probe would converge to for this profile, usable as
// a stable self-test vector.
func (n *Normalizer) GenerateCanvasFingerprint(p *profile.Profile, width, height int) string {
	pm := NewPixmap(width, height)
	data := pm.Data()
	seed := p.Seeds.Canvas
	for i := range data {
		if i%4 == 3 {
			data[i] = 255
			continue
		}
		data[i] = uint8(detrand.At(seed, uint64(i)))
	}
	n.Normalize(pm, p)
	return GenerateProfileHash(p, pm.Data())
}
