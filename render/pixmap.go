// Copyright 2026 The veil Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "image"

// Pixmap is a rectangular RGBA8 pixel buffer, 4 bytes per pixel, row by
// row. It can either own its storage or alias a caller's read-back buffer
// so normalization happens in place.
type Pixmap struct {
	width  int
	height int
	data   []uint8
}

// NewPixmap creates a pixmap with owned, zeroed storage.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// WrapPixmap aliases an existing RGBA8 buffer. The buffer must hold at
// least width*height*4 bytes; mutations write through to it.
func WrapPixmap(data []uint8, width, height int) *Pixmap {
	return &Pixmap{width: width, height: height, data: data[:width*height*4]}
}

// Width returns the width in pixels.
func (p *Pixmap) Width() int { return p.width }

// Height returns the height in pixels.
func (p *Pixmap) Height() int { return p.height }

// Data returns the raw RGBA8 bytes.
func (p *Pixmap) Data() []uint8 { return p.data }

// ToImage copies the pixmap into an image.RGBA.
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// FromImage overwrites the pixmap from an image.RGBA of equal size.
func (p *Pixmap) FromImage(img *image.RGBA) {
	copy(p.data, img.Pix)
}

// PixmapF32 is a float32 RGBA buffer for floating-point read-back formats.
// The same normalization algorithm runs on it with format-appropriate
// quantization.
type PixmapF32 struct {
	width  int
	height int
	data   []float32
}

// NewPixmapF32 creates a float pixmap with owned, zeroed storage.
func NewPixmapF32(width, height int) *PixmapF32 {
	return &PixmapF32{
		width:  width,
		height: height,
		data:   make([]float32, width*height*4),
	}
}

// WrapPixmapF32 aliases an existing float RGBA buffer.
func WrapPixmapF32(data []float32, width, height int) *PixmapF32 {
	return &PixmapF32{width: width, height: height, data: data[:width*height*4]}
}

// Width returns the width in pixels.
func (p *PixmapF32) Width() int { return p.width }

// Height returns the height in pixels.
func (p *PixmapF32) Height() int { return p.height }

// Data returns the raw float32 channel values.
func (p *PixmapF32) Data() []float32 { return p.data }
