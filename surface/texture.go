// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/clone"
	"golang.org/x/image/draw"

	"github.com/gogpu/pixart"
)

// Texture is a CPU-side Surface backed by an *image.NRGBA.
//
// It is the reference renderer: uploads land in a straight-alpha image that
// can be drawn, scaled, into any draw.Image.
//
// Example:
//
//	tex := surface.NewTexture(img.Width(), img.Height())
//	if err := img.SyncAll(tex); err != nil {
//		return err
//	}
//	tex.Draw(window, window.Bounds(), nil)
type Texture struct {
	img    *image.NRGBA
	stats  Stats
	closed bool
}

// Stats counts upload traffic since the texture was created.
type Stats struct {
	Uploads       int // full uploads
	RegionUploads int // partial uploads
	Pixels        int // pixels written by both kinds
}

// NewTexture creates a transparent texture. Dimensions below 1 are raised
// to 1.
func NewTexture(width, height int) *Texture {
	return &Texture{
		img: image.NewNRGBA(image.Rect(0, 0, max(width, 1), max(height, 1))),
	}
}

// Width returns the texture width.
func (t *Texture) Width() int { return t.img.Rect.Dx() }

// Height returns the texture height.
func (t *Texture) Height() int { return t.img.Rect.Dy() }

// Upload replaces the whole texture. A size different from the current one
// reallocates it, as happens when a different document is opened.
func (t *Texture) Upload(data []byte, width, height int) error {
	if t.closed {
		return ErrClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", pixart.ErrInvalidSize, width, height)
	}
	if len(data) != width*height*4 {
		return fmt.Errorf("%w: got %d bytes for %dx%d", ErrDataLength, len(data), width, height)
	}
	if width != t.Width() || height != t.Height() {
		t.img = image.NewNRGBA(image.Rect(0, 0, width, height))
	}
	copy(t.img.Pix, data)
	t.stats.Uploads++
	t.stats.Pixels += width * height
	pixart.Logger().Debug("texture upload", "width", width, "height", height)
	return nil
}

// UploadRegion replaces the pixels of r. r must lie inside the texture and
// data must hold exactly r.Area()*4 bytes of tightly packed rows.
func (t *Texture) UploadRegion(data []byte, r pixart.Rect) error {
	if t.closed {
		return ErrClosed
	}
	bounds := pixart.RectFromImage(t.img.Rect)
	if r.Empty() || r.Intersect(bounds) != r {
		return fmt.Errorf("%w: %v in %v", ErrRegionBounds, r, bounds)
	}
	if len(data) != r.Area()*4 {
		return fmt.Errorf("%w: got %d bytes for %v", ErrDataLength, len(data), r)
	}
	stride := r.Width * 4
	for y := range r.Height {
		off := t.img.PixOffset(r.X, r.Y+y)
		copy(t.img.Pix[off:off+stride], data[y*stride:])
	}
	t.stats.RegionUploads++
	t.stats.Pixels += r.Area()
	return nil
}

// Draw composites the texture over dst, scaled to fill dr. A nil scaler
// means nearest neighbour, which keeps pixel art crisp.
func (t *Texture) Draw(dst draw.Image, dr image.Rectangle, s draw.Scaler) {
	if t.closed {
		return
	}
	if s == nil {
		s = draw.NearestNeighbor
	}
	s.Scale(dst, dr, t.img, t.img.Rect, draw.Over, nil)
}

// Scaled returns the texture enlarged by an integer factor with nearest
// neighbour sampling. Factors below 1 are treated as 1.
func (t *Texture) Scaled(factor int) *image.NRGBA {
	factor = max(factor, 1)
	dst := image.NewNRGBA(image.Rect(0, 0, t.Width()*factor, t.Height()*factor))
	if !t.closed {
		draw.NearestNeighbor.Scale(dst, dst.Rect, t.img, t.img.Rect, draw.Src, nil)
	}
	return dst
}

// Image returns the backing image. This is a direct reference, not a copy.
func (t *Texture) Image() *image.NRGBA { return t.img }

// Snapshot returns a premultiplied copy of the texture, or nil once closed.
func (t *Texture) Snapshot() *image.RGBA {
	if t.closed {
		return nil
	}
	return clone.AsRGBA(t.img)
}

// Stats returns the upload counters.
func (t *Texture) Stats() Stats { return t.stats }

// Close releases the texture. Close is idempotent.
func (t *Texture) Close() error {
	t.closed = true
	return nil
}
