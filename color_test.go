package pixart

import (
	"image/color"
	"testing"
)

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want [4]uint8
	}{
		{"#000", [4]uint8{0, 0, 0, 255}},
		{"fff", [4]uint8{255, 255, 255, 255}},
		{"#f008", [4]uint8{255, 0, 0, 136}},
		{"#ed1c24", [4]uint8{237, 28, 36, 255}},
		{"22b14c80", [4]uint8{34, 177, 76, 128}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := Hex(tt.in)
			if err != nil {
				t.Fatalf("Hex(%q) error: %v", tt.in, err)
			}
			r, g, b, a := c.Bytes()
			if got := [4]uint8{r, g, b, a}; got != tt.want {
				t.Errorf("Hex(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHexInvalid(t *testing.T) {
	for _, in := range []string{"", "#12", "#12345", "#gggggg", "#1234567890"} {
		if _, err := Hex(in); err == nil {
			t.Errorf("Hex(%q) succeeded, want error", in)
		}
	}
}

func TestBytesRoundTrip(t *testing.T) {
	for v := range 256 {
		b := uint8(v)
		c := FromBytes(b, b, b, b)
		r, g, bb, a := c.Bytes()
		if r != b || g != b || bb != b || a != b {
			t.Fatalf("FromBytes(%d).Bytes() = %d,%d,%d,%d", b, r, g, bb, a)
		}
	}
}

func TestFromColorStraightAlpha(t *testing.T) {
	// A premultiplied half-transparent red must come back as full red.
	c := FromColor(color.RGBA{R: 128, G: 0, B: 0, A: 128})
	r, _, _, a := c.Bytes()
	if r != 255 || a != 128 {
		t.Errorf("FromColor = r %d a %d, want r 255 a 128", r, a)
	}
	if got := FromColor(White.Color()); got != White {
		t.Errorf("FromColor(White) = %v, want %v", got, White)
	}
}

func TestHexFormat(t *testing.T) {
	if got := Red.Hex(); got != "#ff0000ff" {
		t.Errorf("Red.Hex() = %q", got)
	}
	if got := MustHex(Cyan.Hex()); got != Cyan {
		t.Errorf("MustHex(Cyan.Hex()) = %v", got)
	}
}

func TestDefaultPalette(t *testing.T) {
	if len(DefaultPalette) != 28 {
		t.Fatalf("palette has %d colours, want 28", len(DefaultPalette))
	}
	for i, c := range DefaultPalette {
		if !c.Opaque() {
			t.Errorf("palette[%d] = %v is not opaque", i, c)
		}
	}
}
