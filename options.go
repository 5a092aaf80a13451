package pixart

// ImageOption configures an Image during creation.
//
// Example:
//
//	// White 800x600 canvas
//	img, err := pixart.NewImage(800, 600)
//
//	// Transparent canvas with a named background layer
//	img, err := pixart.NewImage(64, 64,
//		pixart.WithBackground(pixart.Transparent),
//		pixart.WithLayerName("sprite"))
type ImageOption func(*imageOptions)

// imageOptions holds optional configuration for Image creation.
type imageOptions struct {
	background RGBA
	layerName  string
}

// defaultImageOptions returns the default image options.
func defaultImageOptions() imageOptions {
	return imageOptions{
		background: White,
		layerName:  "Background",
	}
}

// WithBackground sets the fill colour of the base layer created by NewImage.
// It has no effect on LoadImage.
func WithBackground(c RGBA) ImageOption {
	return func(o *imageOptions) {
		o.background = c
	}
}

// WithLayerName sets the name of the base layer.
func WithLayerName(name string) ImageOption {
	return func(o *imageOptions) {
		o.layerName = name
	}
}

// HistoryOption configures a History.
type HistoryOption func(*History)

// WithLimit caps the number of retained snapshots. When the cap is exceeded
// the oldest snapshot is dropped. Zero or a negative value means unbounded.
func WithLimit(n int) HistoryOption {
	return func(h *History) {
		h.limit = max(n, 0)
	}
}
