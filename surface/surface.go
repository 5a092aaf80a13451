// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"image"

	"github.com/gogpu/pixart"
)

// Surface is a texture that receives composited canvas pixels.
//
// It is the renderer side of pixart.Image.Sync: whole-canvas uploads after a
// document is opened or restored, and region uploads for everything else.
// Implementations may keep the pixels on the CPU or hand them to a GPU.
//
// Surfaces are NOT thread-safe.
//
// Example usage:
//
//	s, err := surface.NewSurface(img.Width(), img.Height())
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
//	if err := img.SyncAll(s); err != nil {
//		return err
//	}
//	// ... per frame:
//	if _, err := img.Sync(s); err != nil {
//		return err
//	}
type Surface interface {
	pixart.TextureUploader

	// Width returns the texture width in pixels.
	Width() int

	// Height returns the texture height in pixels.
	Height() int

	// Snapshot returns a premultiplied copy of the current contents.
	Snapshot() *image.RGBA

	// Close releases the texture. Close is idempotent.
	Close() error
}

// Errors returned by uploads.
var (
	// ErrClosed is returned when uploading to a closed surface.
	ErrClosed = errors.New("surface: closed")

	// ErrDataLength is returned when the byte count does not match the
	// uploaded area.
	ErrDataLength = errors.New("surface: data length mismatch")

	// ErrRegionBounds is returned when a region upload does not fit inside
	// the texture.
	ErrRegionBounds = errors.New("surface: region out of bounds")
)
