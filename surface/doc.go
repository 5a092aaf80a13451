// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides render targets for composited pixart canvases.
//
// A Surface implements pixart.TextureUploader, so an Image can push its
// dirty region straight into it with Sync. Texture is the CPU
// implementation; it keeps the pixels in an *image.NRGBA and draws them
// scaled into any draw.Image using golang.org/x/image/draw.
//
// # Registry
//
// Host applications with a GPU renderer register their own backend:
//
//	surface.Register("wgpu", 100, factory, available)
//
//	// Later, picks the highest priority available backend:
//	s, err := surface.NewSurface(800, 600)
//
// # Usage
//
//	tex := surface.NewTexture(img.Width(), img.Height())
//	if err := img.SyncAll(tex); err != nil {
//		return err
//	}
//	for frame := range frames {
//		if _, err := img.Sync(tex); err != nil {
//			return err
//		}
//		tex.Draw(frame, frame.Bounds(), nil)
//	}
package surface
