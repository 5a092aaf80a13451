package pixart

import (
	"image"
	"image/color"

	"github.com/google/uuid"
)

// Layer is a positioned rectangular buffer of straight-alpha pixels.
//
// Pixel access uses layer-local coordinates: (0, 0) is the layer's top-left
// pixel regardless of where the layer sits on the canvas. The layer's Rect
// only decides where it is composited. Dirty rectangles are kept in canvas
// coordinates so they can be unioned across the layers of an Image.
//
// A Layer is not safe for concurrent use.
type Layer struct {
	id      uuid.UUID
	name    string
	rect    Rect
	data    []RGBA // row-major, len == rect.Width*rect.Height
	zIndex  int
	visible bool
	dirty   Rect
}

// NewLayer creates a layer covering r with every pixel set to fill.
// Background layers are usually filled with White, auxiliary layers with
// Transparent. The dirty rect starts empty.
func NewLayer(r Rect, fill RGBA) *Layer {
	r = NewRect(r.X, r.Y, r.Width, r.Height)
	data := make([]RGBA, r.Area())
	if fill != (RGBA{}) {
		for i := range data {
			data[i] = fill
		}
	}
	return &Layer{
		id:      uuid.New(),
		rect:    r,
		data:    data,
		visible: true,
	}
}

// LoadLayer decodes an image file into a layer positioned at (x, y).
// The returned error wraps ErrDecode.
func LoadLayer(x, y int, path string) (*Layer, error) {
	img, _, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	return FromImage(x, y, img), nil
}

// FromImage copies img into a new layer positioned at (x, y).
// Channels are copied in R, G, B, A order without premultiplication.
func FromImage(x, y int, img image.Image) *Layer {
	b := img.Bounds()
	l := NewLayer(NewRect(x, y, b.Dx(), b.Dy()), Transparent)

	// Fast path: the PNG decoder hands back NRGBA for images with alpha.
	if n, ok := img.(*image.NRGBA); ok {
		for py := range b.Dy() {
			row := n.Pix[py*n.Stride:]
			for px := range b.Dx() {
				i := px * 4
				l.data[py*l.rect.Width+px] = FromBytes(row[i], row[i+1], row[i+2], row[i+3])
			}
		}
		return l
	}

	for py := range b.Dy() {
		for px := range b.Dx() {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+px, b.Min.Y+py)).(color.NRGBA)
			l.data[py*l.rect.Width+px] = FromBytes(c.R, c.G, c.B, c.A)
		}
	}
	return l
}

// ID returns the layer's stable identity.
func (l *Layer) ID() uuid.UUID { return l.id }

// Name returns the display label.
func (l *Layer) Name() string { return l.name }

// SetName sets the display label.
func (l *Layer) SetName(name string) { l.name = name }

// Rect returns the layer's position and size on the canvas.
func (l *Layer) Rect() Rect { return l.rect }

// Width returns the layer width in pixels.
func (l *Layer) Width() int { return l.rect.Width }

// Height returns the layer height in pixels.
func (l *Layer) Height() int { return l.rect.Height }

// ZIndex returns the ordering hint used by Image.SortByZIndex.
func (l *Layer) ZIndex() int { return l.zIndex }

// SetZIndex sets the ordering hint.
func (l *Layer) SetZIndex(z int) { l.zIndex = z }

// Visible reports whether the layer takes part in compositing.
func (l *Layer) Visible() bool { return l.visible }

// SetVisible shows or hides the layer and marks it dirty.
func (l *Layer) SetVisible(v bool) {
	if l.visible == v {
		return
	}
	l.visible = v
	l.AddDirtyRect(l.rect)
}

// Pixels returns the backing pixel slice in row-major order.
// The slice is shared with the layer.
func (l *Layer) Pixels() []RGBA { return l.data }

// inBounds reports whether local (x, y) addresses a pixel.
func (l *Layer) inBounds(x, y int) bool {
	return x >= 0 && x < l.rect.Width && y >= 0 && y < l.rect.Height
}

// DrawPixel sets the pixel at local (x, y). Out-of-bounds writes are ignored
// because tools routinely interpolate slightly past the edge.
// DrawPixel does not touch the dirty rect; see PlotPixel.
func (l *Layer) DrawPixel(x, y int, c RGBA) {
	if !l.inBounds(x, y) {
		return
	}
	l.data[y*l.rect.Width+x] = c
}

// PlotPixel is DrawPixel followed by marking that pixel dirty.
func (l *Layer) PlotPixel(x, y int, c RGBA) {
	if !l.inBounds(x, y) {
		return
	}
	l.data[y*l.rect.Width+x] = c
	l.addLocalDirty(Rect{X: x, Y: y, Width: 1, Height: 1})
}

// Pixel returns the colour at local (x, y) and false when out of bounds.
func (l *Layer) Pixel(x, y int) (RGBA, bool) {
	if !l.inBounds(x, y) {
		return RGBA{}, false
	}
	return l.data[y*l.rect.Width+x], true
}

// DirtyRect returns the canvas-space region changed since the last clear.
func (l *Layer) DirtyRect() Rect { return l.dirty }

// AddDirtyRect extends the dirty rect by a canvas-space rect.
func (l *Layer) AddDirtyRect(r Rect) {
	l.dirty = l.dirty.Union(r)
}

// ClearDirtyRect resets the dirty rect to empty.
func (l *Layer) ClearDirtyRect() {
	l.dirty = Rect{}
}

// addLocalDirty extends the dirty rect by a layer-local rect.
func (l *Layer) addLocalDirty(r Rect) {
	l.AddDirtyRect(r.Translate(l.rect.X, l.rect.Y))
}

// Clear sets every pixel to transparent and marks the whole layer dirty.
// It is meant for throwaway preview layers.
func (l *Layer) Clear() {
	clear(l.data)
	l.AddDirtyRect(l.rect)
}

// Move shifts the layer on the canvas. Both the old and the new footprint
// are marked dirty.
func (l *Layer) Move(dx, dy int) {
	if dx == 0 && dy == 0 {
		return
	}
	l.AddDirtyRect(l.rect)
	l.rect = l.rect.Translate(dx, dy)
	l.AddDirtyRect(l.rect)
}

// Clone returns a deep copy that shares no pixel memory with l.
// The copy keeps the same ID so snapshots can restore the active layer.
func (l *Layer) Clone() *Layer {
	c := *l
	c.data = make([]RGBA, len(l.data))
	copy(c.data, l.data)
	return &c
}

// ToImage converts the layer to an image.NRGBA with bounds (0, 0, w, h).
func (l *Layer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, l.rect.Width, l.rect.Height))
	l.writeBytes(img.Pix, Rect{Width: l.rect.Width, Height: l.rect.Height})
	return img
}

// writeBytes serialises the local region r into dst as tightly packed
// 8-bit RGBA rows. dst must hold r.Area()*4 bytes.
func (l *Layer) writeBytes(dst []byte, r Rect) {
	i := 0
	for y := r.Y; y < r.Bottom(); y++ {
		row := l.data[y*l.rect.Width:]
		for x := r.X; x < r.Right(); x++ {
			dst[i], dst[i+1], dst[i+2], dst[i+3] = row[x].Bytes()
			i += 4
		}
	}
}
