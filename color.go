package pixart

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// RGBA is a straight-alpha colour with every channel in [0, 1].
//
// It is the canonical in-memory pixel representation. Conversion to 8-bit
// channels happens only at serialisation boundaries (texture bytes, files).
// Two colours are equal when all four channels are exactly equal, so RGBA
// values can be compared with ==.
type RGBA struct {
	R, G, B, A float64
}

// RGB creates an opaque colour.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// RGBA2 creates a colour from four channels.
func RGBA2(r, g, b, a float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: a}
}

// RGB8 creates an opaque colour from 8-bit channels.
func RGB8(r, g, b uint8) RGBA {
	return FromBytes(r, g, b, 255)
}

// FromBytes creates a colour from 8-bit straight-alpha channels.
func FromBytes(r, g, b, a uint8) RGBA {
	return RGBA{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}
}

// Bytes returns the colour as 8-bit straight-alpha channels.
func (c RGBA) Bytes() (r, g, b, a uint8) {
	return to8(c.R), to8(c.G), to8(c.B), to8(c.A)
}

// Color converts to the standard library's non-premultiplied colour.
func (c RGBA) Color() color.Color {
	return c.NRGBA()
}

// NRGBA converts to color.NRGBA.
func (c RGBA) NRGBA() color.NRGBA {
	r, g, b, a := c.Bytes()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// FromColor converts any color.Color to RGBA without premultiplication.
func FromColor(c color.Color) RGBA {
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return RGBA{
		R: float64(n.R) / 65535,
		G: float64(n.G) / 65535,
		B: float64(n.B) / 65535,
		A: float64(n.A) / 65535,
	}
}

// Opaque reports whether the colour fully covers what is below it.
func (c RGBA) Opaque() bool {
	return c.A >= 1
}

// Hex parses "#RGB", "#RGBA", "#RRGGBB" or "#RRGGBBAA" (the # is optional).
func Hex(s string) (RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(h) {
	case 3, 4:
		var b strings.Builder
		for _, ch := range h {
			b.WriteRune(ch)
			b.WriteRune(ch)
		}
		h = b.String()
	case 6, 8:
	default:
		return RGBA{}, fmt.Errorf("pixart: parse colour %q: bad length", s)
	}
	if len(h) == 6 {
		h += "ff"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGBA{}, fmt.Errorf("pixart: parse colour %q: %w", s, err)
	}
	return FromBytes(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// MustHex is like Hex but panics on malformed input. Use it for literals only.
func MustHex(s string) RGBA {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the colour as #RRGGBBAA.
func (c RGBA) Hex() string {
	r, g, b, a := c.Bytes()
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
}

// String implements fmt.Stringer.
func (c RGBA) String() string {
	return c.Hex()
}

// to8 rounds a [0, 1] channel to 8 bits.
func to8(v float64) uint8 {
	return uint8(clamp255(v*255 + 0.5))
}

// clamp255 restricts a value to [0, 255] range.
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}

// Common colors
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Red         = RGB(1, 0, 0)
	Green       = RGB(0, 1, 0)
	Blue        = RGB(0, 0, 1)
	Yellow      = RGB(1, 1, 0)
	Cyan        = RGB(0, 1, 1)
	Magenta     = RGB(1, 0, 1)
	Transparent = RGBA2(0, 0, 0, 0)
)

// DefaultPalette is the colour selector offered by a fresh editor.
var DefaultPalette = []RGBA{
	RGB8(0, 0, 0),
	RGB8(70, 70, 70),
	RGB8(120, 120, 120),
	RGB8(153, 0, 48),
	RGB8(237, 28, 36),
	RGB8(255, 126, 0),
	RGB8(255, 194, 14),
	RGB8(255, 242, 0),
	RGB8(168, 230, 29),
	RGB8(34, 177, 76),
	RGB8(0, 183, 239),
	RGB8(77, 109, 243),
	RGB8(47, 54, 153),
	RGB8(111, 49, 152),
	RGB8(255, 255, 255),
	RGB8(220, 220, 220),
	RGB8(180, 180, 180),
	RGB8(156, 90, 60),
	RGB8(255, 163, 177),
	RGB8(229, 170, 122),
	RGB8(145, 228, 156),
	RGB8(255, 249, 189),
	RGB8(211, 249, 188),
	RGB8(157, 187, 97),
	RGB8(153, 217, 234),
	RGB8(112, 154, 209),
	RGB8(84, 109, 142),
	RGB8(181, 165, 213),
}
