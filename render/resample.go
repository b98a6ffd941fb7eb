// Copyright 2026 The veil Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/veilgpu/veil/profile"
)

// resample masks hardware-specific anti-aliasing artifacts by pushing the
// image through a fixed resampling kernel: downsample to half size with
// Catmull-Rom, then upsample back. Edge coverage then follows the kernel,
// which is identical everywhere, instead of the real GPU's MSAA resolve
// hardware. The profile's AASamples selects how aggressive the pass is.
func (n *Normalizer) resample(pm *Pixmap, p *profile.Profile) {
	w, h := pm.Width(), pm.Height()
	if w < 4 || h < 4 || p.Render.AASamples <= 1 {
		return
	}

	src := pm.ToImage()
	half := image.NewRGBA(image.Rect(0, 0, w/2, h/2))
	draw.CatmullRom.Scale(half, half.Bounds(), src, src.Bounds(), draw.Src, nil)

	dst := image.NewRGBA(src.Bounds())
	draw.CatmullRom.Scale(dst, dst.Bounds(), half, half.Bounds(), draw.Src, nil)

	// Blend the resampled image back in proportion to the sample count:
	// higher advertised MSAA means smoother edges.
	alpha := resampleWeight(p.Render.AASamples)
	data := pm.Data()
	for i := range data {
		data[i] = mix8(data[i], dst.Pix[i], alpha)
	}
}

// resampleWeight maps an MSAA sample count to a blend weight in [0,1].
func resampleWeight(samples int) float64 {
	switch {
	case samples >= 8:
		return 0.5
	case samples >= 4:
		return 0.375
	case samples >= 2:
		return 0.25
	default:
		return 0
	}
}

func mix8(a, b uint8, t float64) uint8 {
	return clamp8(float64(a)*(1-t) + float64(b)*t)
}
