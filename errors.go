package pixart

import "errors"

// Engine errors.
var (
	// ErrDecode is returned when an image file cannot be read or decoded.
	ErrDecode = errors.New("pixart: decode failed")

	// ErrEncode is returned when a flattened image cannot be written.
	ErrEncode = errors.New("pixart: encode failed")

	// ErrUnsupportedFormat is returned for files whose content or extension
	// is not one of the supported raster formats.
	ErrUnsupportedFormat = errors.New("pixart: unsupported format")

	// ErrInvalidSize is returned when a canvas would have a zero or negative dimension.
	ErrInvalidSize = errors.New("pixart: invalid canvas size")

	// ErrLastLayer is returned when removing the only remaining layer.
	ErrLastLayer = errors.New("pixart: cannot remove the last layer")

	// ErrLayerNotFound is returned when a layer ID is not part of the image.
	ErrLayerNotFound = errors.New("pixart: layer not found")
)
