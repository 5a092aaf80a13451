package tool

import (
	"slices"

	"github.com/gogpu/pixart"
)

// Session turns pointer gestures into edits of one document.
//
// A gesture is Press, any number of Drag calls and Release, all in canvas
// coordinates. Release of a mutating tool records exactly one history
// snapshot labelled with the tool name, unless the gesture left the layer
// unchanged. An abandoned gesture is rolled back. Session is not safe for
// concurrent use.
type Session struct {
	img  *pixart.Image
	hist *pixart.History
	ctx  *Context
	tool Tool

	drawing bool
	target  *pixart.Layer // layer the gesture edits
	before  []pixart.RGBA // target's pixels at Press
	startX  int
	startY  int
	lastX   int
	lastY   int
}

// NewSession starts editing img. The history is seeded with img so the
// first gesture can be undone.
func NewSession(img *pixart.Image, ctx *Context, opts ...pixart.HistoryOption) *Session {
	if ctx == nil {
		ctx = NewContext()
	}
	s := &Session{
		img:  img,
		hist: pixart.NewHistory(opts...),
		ctx:  ctx,
	}
	s.hist.Reset(img)
	return s
}

// Image returns the document being edited. Undo, Redo and Replace swap it
// for a different value, so do not hold on to the result across them.
func (s *Session) Image() *pixart.Image { return s.img }

// History returns the session's undo history.
func (s *Session) History() *pixart.History { return s.hist }

// Context returns the shared tool state.
func (s *Session) Context() *Context { return s.ctx }

// Tool returns the selected tool.
func (s *Session) Tool() Tool { return s.tool }

// SetTool selects a tool. A gesture in progress is abandoned.
func (s *Session) SetTool(t Tool) {
	s.cancel()
	s.tool = t
}

// Drawing reports whether a gesture is in progress.
func (s *Session) Drawing() bool { return s.drawing }

// Press begins a gesture at canvas (x, y).
func (s *Session) Press(x, y int) {
	if s.drawing {
		s.cancel()
	}
	s.drawing = true
	s.startX, s.startY = x, y
	s.lastX, s.lastY = x, y

	l := s.img.ActiveLayer()
	lx, ly := toLocal(l, x, y)
	if s.tool.Mutates() {
		s.target = l
		s.before = slices.Clone(l.Pixels())
	}

	switch s.tool {
	case Pencil:
		l.DrawLine(lx, ly, lx, ly, s.ctx.Color)
	case Paintbrush:
		s.brush(l, lx, ly, lx, ly, s.ctx.Color)
	case Eraser:
		s.brush(l, lx, ly, lx, ly, pixart.Transparent)
	case ColorPicker:
		s.pick(l, lx, ly)
	case PaintBucket:
		n := l.Fill(lx, ly, s.ctx.Color)
		pixart.Logger().Debug("fill", "x", x, "y", y, "painted", n)
	case SprayCan:
		s.spray(l, x, y)
	case Line, Rectangle:
		s.img.SetOverlay(pixart.NewLayer(l.Rect(), pixart.Transparent))
		s.preview(x, y)
	}
}

// Drag continues the gesture to canvas (x, y). It is ignored when no
// gesture is in progress.
func (s *Session) Drag(x, y int) {
	if !s.drawing {
		return
	}
	l := s.img.ActiveLayer()
	px, py := toLocal(l, s.lastX, s.lastY)
	lx, ly := toLocal(l, x, y)

	switch s.tool {
	case Pencil:
		l.DrawLine(px, py, lx, ly, s.ctx.Color)
	case Paintbrush:
		s.brush(l, px, py, lx, ly, s.ctx.Color)
	case Eraser:
		s.brush(l, px, py, lx, ly, pixart.Transparent)
	case ColorPicker:
		s.pick(l, lx, ly)
	case SprayCan:
		s.spray(l, x, y)
	case Line, Rectangle:
		s.preview(x, y)
	}
	s.lastX, s.lastY = x, y
}

// Release ends the gesture at canvas (x, y). It reports whether a history
// snapshot was taken; a gesture that changed no pixel takes none.
func (s *Session) Release(x, y int) bool {
	if !s.drawing {
		return false
	}
	if s.lastX != x || s.lastY != y {
		s.Drag(x, y)
	}
	s.drawing = false

	if s.tool.usesOverlay() {
		if ov := s.img.Overlay(); ov != nil {
			s.img.ActiveLayer().Blend(ov, ov.Rect())
		}
		s.img.SetOverlay(nil)
	}
	if !s.tool.Mutates() {
		return false
	}
	changed := !slices.Equal(s.before, s.target.Pixels())
	s.target, s.before = nil, nil
	if !changed {
		pixart.Logger().Debug("gesture changed nothing", "tool", s.tool.String())
		return false
	}
	s.hist.TakeSnapshot(s.img, s.tool.String())
	return true
}

// Undo reverts the last recorded change. During a gesture it only rolls
// back that gesture.
func (s *Session) Undo() bool {
	if s.cancel() {
		return true
	}
	if !s.hist.CanUndo() {
		return false
	}
	s.img = s.hist.Undo(s.img)
	return true
}

// Redo reapplies the last undone change.
func (s *Session) Redo() bool {
	s.cancel()
	if !s.hist.CanRedo() {
		return false
	}
	s.img = s.hist.Redo(s.img)
	return true
}

// Commit records the current document as a history step. Use it after
// editing the image directly, e.g. adding or removing layers.
func (s *Session) Commit(label string) {
	s.cancel()
	s.hist.TakeSnapshot(s.img, label)
}

// Replace swaps in a new document, such as a freshly opened file, and
// restarts the history from it.
func (s *Session) Replace(img *pixart.Image) {
	s.cancel()
	s.img = img
	s.hist.Reset(img)
}

// cancel abandons a gesture without recording it. The edited layer gets its
// pixels from Press back and overlay previews are discarded. It reports
// whether a gesture was in progress.
func (s *Session) cancel() bool {
	if !s.drawing {
		return false
	}
	s.drawing = false
	if s.img.Overlay() != nil {
		s.img.SetOverlay(nil)
	}
	if s.target != nil {
		if !slices.Equal(s.before, s.target.Pixels()) {
			copy(s.target.Pixels(), s.before)
			s.target.AddDirtyRect(s.target.Rect())
		}
		s.target, s.before = nil, nil
	}
	pixart.Logger().Debug("gesture cancelled", "tool", s.tool.String())
	return true
}

// preview redraws the overlay shape from the gesture start to canvas (x, y).
func (s *Session) preview(x, y int) {
	ov := s.img.Overlay()
	if ov == nil {
		return
	}
	ov.Clear()
	x1, y1 := toLocal(ov, s.startX, s.startY)
	x2, y2 := toLocal(ov, x, y)
	if s.tool == Rectangle {
		ov.DrawRect(x1, y1, x2, y2, s.ctx.Color)
		return
	}
	ov.DrawLine(x1, y1, x2, y2, s.ctx.Color)
}

// brush draws the line (x1,y1)-(x2,y2) once per offset of the brush disc.
func (s *Session) brush(l *pixart.Layer, x1, y1, x2, y2 int, c pixart.RGBA) {
	for _, o := range brushOffsets(s.ctx.BrushRadius) {
		l.DrawLine(x1+o[0], y1+o[1], x2+o[0], y2+o[1], c)
	}
}

func (s *Session) pick(l *pixart.Layer, x, y int) {
	if c, ok := l.Pixel(x, y); ok {
		s.ctx.Color = c
	}
}

// spray plots SprayDensity random samples inside the spray disc centred on
// canvas (x, y) and marks the disc's bounding box dirty.
func (s *Session) spray(l *pixart.Layer, x, y int) {
	r := s.ctx.SprayRadius
	lx, ly := toLocal(l, x, y)
	if r <= 0 {
		l.PlotPixel(lx, ly, s.ctx.Color)
		return
	}
	for range s.ctx.SprayDensity {
		dx := s.ctx.Rand.IntN(2*r) - r
		dy := s.ctx.Rand.IntN(2*r) - r
		if dx*dx+dy*dy < r*r {
			l.PlotPixel(lx+dx, ly+dy, s.ctx.Color)
		}
	}
	l.AddDirtyRect(pixart.Rect{X: x - r - 1, Y: y - r - 1, Width: 2*r + 2, Height: 2*r + 2})
}

func toLocal(l *pixart.Layer, x, y int) (int, int) {
	r := l.Rect()
	return x - r.X, y - r.Y
}
