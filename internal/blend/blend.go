// Package blend implements the Porter-Duff operators used to composite
// straight-alpha float colours.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

// Color is a straight (non-premultiplied) colour with channels in [0, 1].
// Any struct with the same four float64 fields converts to it directly.
type Color struct {
	R, G, B, A float64
}

// SourceOver places src on top of dst.
//
//	a   = sa + da*(1-sa)
//	out = (src*sa + dst*da*(1-sa)) / a
//
// Each output channel is computed from its own input channels. A fully
// transparent source returns dst and a fully opaque one returns src.
func SourceOver(src, dst Color) Color {
	switch {
	case src.A <= 0:
		return dst
	case src.A >= 1:
		return src
	}
	factor := dst.A * (1 - src.A)
	a := src.A + factor
	if a <= 0 {
		return Color{}
	}
	return Color{
		R: (src.R*src.A + dst.R*factor) / a,
		G: (src.G*src.A + dst.G*factor) / a,
		B: (src.B*src.A + dst.B*factor) / a,
		A: a,
	}
}

// Stack composites colours front to back.
//
// Push colours from the top of a layer stack downwards; each one goes under
// everything pushed before it (destination-over). The running sum is kept
// premultiplied, so the final colour equals folding SourceOver bottom-up.
// The zero value is an empty, fully transparent stack.
type Stack struct {
	r, g, b, a float64
}

// Under adds c beneath the colours pushed so far. It reports whether the
// result is now opaque, after which further colours cannot contribute.
func (s *Stack) Under(c Color) bool {
	if c.A <= 0 || s.a >= 1 {
		return s.a >= 1
	}
	k := c.A * (1 - s.a)
	s.r += c.R * k
	s.g += c.G * k
	s.b += c.B * k
	s.a += k
	return s.a >= 1
}

// Color returns the composited straight-alpha colour.
func (s *Stack) Color() Color {
	if s.a <= 0 {
		return Color{}
	}
	return Color{R: s.r / s.a, G: s.g / s.a, B: s.b / s.a, A: min(s.a, 1)}
}
