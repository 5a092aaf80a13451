package pixart

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/gogpu/pixart/internal/blend"
)

// Image is an ordered stack of layers sharing one canvas.
//
// Layers are painted bottom to top: index 0 is the background and the last
// layer is drawn on top. An Image always holds at least one layer, and one of
// them is the active layer that tools draw into.
//
// An Image may also carry a transient overlay layer (a live shape preview).
// The overlay is composited above the stack but is not part of it: it is
// never active, never cloned and never saved.
type Image struct {
	width   int
	height  int
	layers  []*Layer
	active  uuid.UUID
	overlay *Layer

	// pending holds damage that no longer belongs to a layer, such as the
	// footprint of a removed layer or a dropped overlay.
	pending Rect
}

// TextureUploader is the renderer boundary. Implementations copy 8-bit RGBA
// rows into a texture; the engine never talks to a GPU directly.
type TextureUploader interface {
	// Upload replaces the whole texture.
	Upload(data []byte, width, height int) error
	// UploadRegion replaces the sub-rectangle r. data holds r.Area()*4 bytes.
	UploadRegion(data []byte, r Rect) error
}

// NewImage creates a canvas with a single opaque white background layer.
// Zero or negative dimensions are rejected with ErrInvalidSize.
func NewImage(width, height int, opts ...ImageOption) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	o := defaultImageOptions()
	for _, opt := range opts {
		opt(&o)
	}
	base := NewLayer(Rect{Width: width, Height: height}, o.background)
	base.SetName(o.layerName)
	return newImage(width, height, base), nil
}

// LoadImage creates an image from a file. The canvas is sized to the file and
// holds a single layer with its pixels. Errors wrap ErrDecode.
func LoadImage(path string, opts ...ImageOption) (*Image, error) {
	o := defaultImageOptions()
	for _, opt := range opts {
		opt(&o)
	}
	l, err := LoadLayer(0, 0, path)
	if err != nil {
		return nil, err
	}
	if l.rect.Empty() {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, ErrInvalidSize)
	}
	l.SetName(o.layerName)
	Logger().Info("loaded image", "path", path, "width", l.rect.Width, "height", l.rect.Height)
	return newImage(l.rect.Width, l.rect.Height, l), nil
}

func newImage(width, height int, base *Layer) *Image {
	return &Image{
		width:  width,
		height: height,
		layers: []*Layer{base},
		active: base.id,
	}
}

// Width returns the canvas width.
func (img *Image) Width() int { return img.width }

// Height returns the canvas height.
func (img *Image) Height() int { return img.height }

// Bounds returns the canvas rect, always anchored at the origin.
func (img *Image) Bounds() Rect { return Rect{Width: img.width, Height: img.height} }

// Len returns the number of layers.
func (img *Image) Len() int { return len(img.layers) }

// Layers returns the stack bottom to top. The slice is a copy; the layers
// are not.
func (img *Image) Layers() []*Layer {
	return slices.Clone(img.layers)
}

// Layer returns the layer with the given ID, or nil.
func (img *Image) Layer(id uuid.UUID) *Layer {
	if i := img.index(id); i >= 0 {
		return img.layers[i]
	}
	return nil
}

// Index returns the stack position of the layer with the given ID, or -1.
func (img *Image) Index(id uuid.UUID) int {
	return img.index(id)
}

func (img *Image) index(id uuid.UUID) int {
	return slices.IndexFunc(img.layers, func(l *Layer) bool { return l.id == id })
}

// ActiveLayer returns the layer tools draw into. It is never nil.
func (img *Image) ActiveLayer() *Layer {
	if l := img.Layer(img.active); l != nil {
		return l
	}
	// Unreachable while the stack invariants hold; fall back to the top.
	top := img.layers[len(img.layers)-1]
	img.active = top.id
	return top
}

// SetActiveLayer selects the layer tools draw into.
func (img *Image) SetActiveLayer(id uuid.UUID) error {
	if img.index(id) < 0 {
		return fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	img.active = id
	return nil
}

// SetActiveIndex selects the active layer by stack position.
func (img *Image) SetActiveIndex(i int) error {
	if i < 0 || i >= len(img.layers) {
		return fmt.Errorf("%w: index %d of %d", ErrLayerNotFound, i, len(img.layers))
	}
	img.active = img.layers[i].id
	return nil
}

// CycleActiveLayer makes the next layer up active, wrapping to the bottom.
func (img *Image) CycleActiveLayer() *Layer {
	i := (img.index(img.active) + 1) % len(img.layers)
	img.active = img.layers[i].id
	return img.layers[i]
}

// AddLayer pushes a transparent canvas-sized layer on top of the stack and
// makes it active.
func (img *Image) AddLayer(name string) *Layer {
	l := NewLayer(img.Bounds(), Transparent)
	l.SetName(name)
	img.layers = append(img.layers, l)
	img.active = l.id
	Logger().Debug("layer added", "name", name, "layers", len(img.layers))
	return l
}

// RemoveLayer drops a layer from the stack. The last remaining layer cannot
// be removed. If the removed layer was active, the layer below it (or the new
// bottom) becomes active.
func (img *Image) RemoveLayer(id uuid.UUID) error {
	i := img.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	if len(img.layers) == 1 {
		return ErrLastLayer
	}
	removed := img.layers[i]
	img.layers = slices.Delete(img.layers, i, i+1)
	if removed.visible {
		img.pending = img.pending.Union(removed.rect)
	}
	if img.active == id {
		img.active = img.layers[max(i-1, 0)].id
	}
	Logger().Debug("layer removed", "name", removed.name, "layers", len(img.layers))
	return nil
}

// Reorder moves a layer to stack position to, clamped to the stack.
func (img *Image) Reorder(id uuid.UUID, to int) error {
	i := img.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	to = min(max(to, 0), len(img.layers)-1)
	if i == to {
		return nil
	}
	l := img.layers[i]
	img.layers = slices.Insert(slices.Delete(img.layers, i, i+1), to, l)
	img.pending = img.pending.Union(l.rect)
	return nil
}

// SortByZIndex orders the stack by each layer's ZIndex, keeping the current
// order between equal hints.
func (img *Image) SortByZIndex() {
	if slices.IsSortedFunc(img.layers, compareZ) {
		return
	}
	slices.SortStableFunc(img.layers, compareZ)
	img.MarkAllDirty()
}

func compareZ(a, b *Layer) int { return cmp.Compare(a.zIndex, b.zIndex) }

// Overlay returns the transient preview layer, or nil.
func (img *Image) Overlay() *Layer { return img.overlay }

// SetOverlay installs or, with nil, drops the transient preview layer.
// The footprint of a dropped overlay is marked dirty.
func (img *Image) SetOverlay(l *Layer) {
	if img.overlay != nil {
		img.pending = img.pending.Union(img.overlay.rect)
	}
	img.overlay = l
	if l != nil {
		l.AddDirtyRect(l.rect)
	}
}

// DirtyRect returns the union of the dirty rects of every layer, the overlay
// and any orphaned damage. This is the region a renderer must refresh.
func (img *Image) DirtyRect() Rect {
	r := img.pending
	for _, l := range img.layers {
		r = r.Union(l.dirty)
	}
	if img.overlay != nil {
		r = r.Union(img.overlay.dirty)
	}
	return r
}

// ClearDirty forgets all dirty state. Call it once per frame after the
// renderer has consumed DirtyRect.
func (img *Image) ClearDirty() {
	for _, l := range img.layers {
		l.ClearDirtyRect()
	}
	if img.overlay != nil {
		img.overlay.ClearDirtyRect()
	}
	img.pending = Rect{}
}

// MarkAllDirty forces the whole canvas to be refreshed on the next sync.
func (img *Image) MarkAllDirty() {
	img.pending = img.Bounds()
}

// Clone returns a deep copy of the layer stack. The overlay is not copied.
func (img *Image) Clone() *Image {
	c := &Image{
		width:   img.width,
		height:  img.height,
		layers:  make([]*Layer, len(img.layers)),
		active:  img.active,
		pending: img.pending,
	}
	for i, l := range img.layers {
		c.layers[i] = l.Clone()
	}
	return c
}

// Blend composites the visible stack, then the overlay, into a new
// canvas-sized layer. Pixels outside clip are left transparent.
//
// Every layer is treated as dirty inside clip, so Blend(img.Bounds()) is a
// full redraw and Blend(img.DirtyRect()) a partial one.
func (img *Image) Blend(clip Rect) *Layer {
	out := NewLayer(img.Bounds(), Transparent)
	r := clip.Intersect(img.Bounds())
	if r.Empty() {
		return out
	}

	stack := make([]*Layer, 0, len(img.layers)+1)
	for _, l := range img.layers {
		if l.visible {
			stack = append(stack, l)
		}
	}
	if img.overlay != nil && img.overlay.visible {
		stack = append(stack, img.overlay)
	}

	for y := r.Y; y < r.Bottom(); y++ {
		row := out.data[y*img.width:]
		for x := r.X; x < r.Right(); x++ {
			row[x] = compositeAt(stack, x, y)
		}
	}
	return out
}

// compositeAt computes the source-over result of stack at canvas (x, y).
//
// The stack is walked top-down and stops at the first pixel that makes the
// result opaque. This gives the same result as blending bottom-up.
func compositeAt(stack []*Layer, x, y int) RGBA {
	var acc blend.Stack
	for i := len(stack) - 1; i >= 0; i-- {
		l := stack[i]
		c, ok := l.Pixel(x-l.rect.X, y-l.rect.Y)
		if ok && acc.Under(blend.Color(c)) {
			break
		}
	}
	return RGBA(acc.Color())
}

// RawData returns the fully blended canvas as tightly packed 8-bit RGBA rows.
func (img *Image) RawData() []byte {
	return img.PartialData(img.Bounds())
}

// PartialData returns the blended pixels of r as tightly packed 8-bit RGBA
// rows. r is first clipped to the canvas; the result holds exactly
// clipped.Area()*4 bytes and belongs at the clipped rect's offset in a
// canvas-sized texture.
func (img *Image) PartialData(r Rect) []byte {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return nil
	}
	data := make([]byte, r.Area()*4)
	img.Blend(r).writeBytes(data, r)
	return data
}

// Sync pushes pending changes to a renderer: the dirty region, clipped to the
// canvas, is blended and uploaded, then all dirty state is cleared.
// It returns the uploaded region, which is empty when nothing changed.
func (img *Image) Sync(u TextureUploader) (Rect, error) {
	r := img.DirtyRect().Intersect(img.Bounds())
	if r.Empty() {
		img.ClearDirty()
		return Rect{}, nil
	}
	if err := u.UploadRegion(img.PartialData(r), r); err != nil {
		return Rect{}, fmt.Errorf("pixart: upload region %v: %w", r, err)
	}
	img.ClearDirty()
	Logger().Debug("synced region", "rect", r.String())
	return r, nil
}

// SyncAll uploads the whole blended canvas and clears all dirty state.
func (img *Image) SyncAll(u TextureUploader) error {
	if err := u.Upload(img.RawData(), img.width, img.height); err != nil {
		return fmt.Errorf("pixart: upload: %w", err)
	}
	img.ClearDirty()
	return nil
}

// Flatten returns the fully blended canvas.
func (img *Image) Flatten() *Layer {
	return img.Blend(img.Bounds())
}

// Save flattens the image and writes it to path. The format follows the
// extension (.png, .bmp, .tif/.tiff; none means PNG). Errors wrap ErrEncode.
func (img *Image) Save(path string) error {
	if err := EncodeFile(path, img.Flatten().ToImage()); err != nil {
		return err
	}
	Logger().Info("saved image", "path", path, "width", img.width, "height", img.height)
	return nil
}
