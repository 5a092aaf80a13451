package pixart

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/h2non/filetype"
	"golang.org/x/image/tiff"

	_ "golang.org/x/image/bmp" // register BMP decoder
)

// Format names a supported raster file format.
type Format string

// Supported formats.
const (
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tif"
)

// sniffLen is how many leading bytes filetype needs to recognise a format.
const sniffLen = 262

// DetectFormat identifies the format of the file at path from its content.
// The returned error wraps ErrUnsupportedFormat for unknown content.
func DetectFormat(path string) (Format, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("pixart: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("pixart: read header: %w", err)
	}
	return sniff(head[:n])
}

// sniff maps leading bytes to a supported format.
func sniff(head []byte) (Format, error) {
	if len(head) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrUnsupportedFormat)
	}
	kind, err := filetype.Match(head)
	if err != nil {
		return "", fmt.Errorf("pixart: sniff format: %w", err)
	}
	switch Format(kind.Extension) {
	case FormatPNG, FormatBMP, FormatTIFF:
		return Format(kind.Extension), nil
	}
	if kind == filetype.Unknown {
		return "", ErrUnsupportedFormat
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind.MIME.Value)
}

// decodeFile reads and decodes an image file. Every failure wraps ErrDecode.
func decodeFile(path string) (image.Image, Format, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	img, err := imgio.Open(filepath.Clean(path))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	Logger().Debug("decoded image", "path", path, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return img, format, nil
}

// FormatForPath picks the output format from a file extension.
// Paths without an extension are written as PNG.
func FormatForPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case "", ".png":
		return FormatPNG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// encoderFor returns the imgio encoder for a format.
func encoderFor(f Format) imgio.Encoder {
	switch f {
	case FormatBMP:
		return imgio.BMPEncoder()
	case FormatTIFF:
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}
	default:
		return imgio.PNGEncoder()
	}
}

// EncodeFile writes img to path in the format implied by its extension.
// Every failure wraps ErrEncode; the in-memory image is never modified.
func EncodeFile(path string, img image.Image) error {
	format, err := FormatForPath(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEncode, path, err)
	}
	if err := imgio.Save(filepath.Clean(path), img, encoderFor(format)); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEncode, path, err)
	}
	return nil
}
