// Package pixart provides the layered raster engine of a pixel-art editor.
//
// # Overview
//
// pixart keeps a document as an [Image]: a stack of [Layer] pixel buffers
// sharing one canvas. Drawing primitives (pixels, lines, flood fill) mutate a
// layer in place and record the touched area in its dirty rectangle. Once per
// frame the host composites only the dirty region and hands the bytes to a
// renderer through [TextureUploader]. Completed gestures are stored in a
// linear [History] of full snapshots for undo and redo.
//
// # Quick Start
//
//	img, err := pixart.NewImage(64, 64)
//	if err != nil {
//		return err
//	}
//	hist := pixart.NewHistory()
//	hist.Reset(img)
//
//	l := img.ActiveLayer()
//	l.DrawLine(0, 0, 63, 63, pixart.Black)
//	hist.TakeSnapshot(img, "pencil")
//
//	img = hist.Undo(img)
//	_ = img.Save("out.png")
//
// # Coordinate System
//
//   - Origin (0,0) at the top-left of the canvas, X right, Y down
//   - Layer pixel access is local to the layer: (0,0) is the layer's own
//     top-left pixel, independent of where the layer sits on the canvas
//   - Dirty rectangles and Blend regions are in canvas coordinates
//
// # Colours
//
// Pixels are [RGBA] values with straight (non-premultiplied) float channels in
// [0, 1]. Bytes handed to renderers and files are 8-bit RGBA.
//
// # Errors
//
// Out-of-bounds pixel access is never an error: writes are ignored and reads
// report false. Undo or redo past either end of history returns the current
// image unchanged. File problems are reported as errors wrapping [ErrDecode]
// or [ErrEncode]; stack misuse as [ErrLastLayer], [ErrLayerNotFound] or
// [ErrInvalidSize]. Nothing in the package panics on user input.
//
// # Packages
//
//   - tool: the editor's tools and a Session that turns pointer gestures into
//     edits and undo steps
//   - surface: texture targets for Sync, including a CPU reference texture
//
// # Concurrency
//
// The engine is single-threaded. Images, layers and histories must not be
// shared between goroutines without external synchronisation.
package pixart

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
