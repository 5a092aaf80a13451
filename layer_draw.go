package pixart

import (
	"math"

	"github.com/gogpu/pixart/internal/blend"
)

// DrawLine draws a line between two local points using equal-step
// interpolation: steps = max(|dx|, |dy|) and point i is the rounded
// position i/steps along the segment. Both endpoints are always plotted.
//
// The dirty rect grows to (min-1, min-1) with size (|dx|+3, |dy|+2): the
// bounding box with a one pixel margin on the left, right and top. A
// horizontal line from (0,0) to (3,0) dirties (-1,-1 6x2).
func (l *Layer) DrawLine(x1, y1, x2, y2 int, c RGBA) {
	l.DrawPixel(x1, y1, c)
	l.DrawPixel(x2, y2, c)

	dx := x2 - x1
	dy := y2 - y1
	w := abs(dx)
	h := abs(dy)
	if steps := max(w, h); steps != 0 {
		sx := float64(dx) / float64(steps)
		sy := float64(dy) / float64(steps)
		for i := range steps {
			l.DrawPixel(
				int(math.Round(float64(x1)+sx*float64(i))),
				int(math.Round(float64(y1)+sy*float64(i))),
				c,
			)
		}
	}

	l.addLocalDirty(Rect{
		X:      min(x1, x2) - 1,
		Y:      min(y1, y2) - 1,
		Width:  w + 3,
		Height: h + 2,
	})
}

// DrawRect outlines the rectangle spanned by two corner points.
func (l *Layer) DrawRect(x1, y1, x2, y2 int, c RGBA) {
	l.DrawLine(x1, y1, x2, y1, c)
	l.DrawLine(x2, y1, x2, y2, c)
	l.DrawLine(x2, y2, x1, y2, c)
	l.DrawLine(x1, y2, x1, y1, c)
}

// point is a local pixel coordinate queued by Fill.
type point struct{ x, y int }

// Fill replaces the 4-connected region of pixels that share the colour at
// local (x, y) with c, breadth first. Filling with the colour already
// present, or from a seed outside the layer, does nothing.
//
// Only the bounding box of the pixels actually painted is marked dirty.
// Fill returns the number of pixels painted.
func (l *Layer) Fill(x, y int, c RGBA) int {
	target, ok := l.Pixel(x, y)
	if !ok || target == c {
		return 0
	}

	w := l.rect.Width
	minX, minY, maxX, maxY := x, y, x, y
	painted := 1

	l.data[y*w+x] = c
	queue := []point{{x, y}}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		for _, n := range [4]point{{p.x - 1, p.y}, {p.x + 1, p.y}, {p.x, p.y - 1}, {p.x, p.y + 1}} {
			if !l.inBounds(n.x, n.y) || l.data[n.y*w+n.x] != target {
				continue
			}
			l.data[n.y*w+n.x] = c
			painted++
			minX, maxX = min(minX, n.x), max(maxX, n.x)
			minY, maxY = min(minY, n.y), max(maxY, n.y)
			queue = append(queue, n)
		}
	}

	l.addLocalDirty(Rect{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1})
	return painted
}

// Blend composites other over l using source-over alpha.
//
// Both layers are placed by their canvas rects. Work is restricted to the
// intersection of both rects, the union of both dirty rects and clip; when
// that region is empty Blend does nothing and returns false. The blended
// region is added to l's dirty rect.
func (l *Layer) Blend(other *Layer, clip Rect) bool {
	target := l.rect.
		Intersect(other.rect).
		Intersect(l.dirty.Union(other.dirty)).
		Intersect(clip)
	if target.Empty() {
		return false
	}

	for y := target.Y; y < target.Bottom(); y++ {
		di := (y-l.rect.Y)*l.rect.Width + target.X - l.rect.X
		si := (y-other.rect.Y)*other.rect.Width + target.X - other.rect.X
		for range target.Width {
			l.data[di] = sourceOver(other.data[si], l.data[di])
			di++
			si++
		}
	}

	l.AddDirtyRect(target)
	return true
}

// sourceOver places src on top of dst.
func sourceOver(src, dst RGBA) RGBA {
	return RGBA(blend.SourceOver(blend.Color(src), blend.Color(dst)))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
