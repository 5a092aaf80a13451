package tool

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnknownTool is returned by ParseTool for names outside the tool set.
var ErrUnknownTool = errors.New("tool: unknown tool")

// Tool selects how pointer input edits the active layer.
//
// The set is closed. Names coming from menus, scripts or flags are mapped
// onto it once with ParseTool.
type Tool int

const (
	// Pencil draws one-pixel lines between successive pointer positions.
	Pencil Tool = iota

	// Paintbrush draws the pencil stroke repeated over a filled disc.
	Paintbrush

	// ColorPicker copies the pixel under the pointer into the context colour.
	// It never modifies the image.
	ColorPicker

	// PaintBucket flood-fills the 4-connected region under the pointer.
	PaintBucket

	// SprayCan scatters random pixels inside a disc around the pointer.
	SprayCan

	// Eraser paints transparency with the brush disc.
	Eraser

	// Line previews a straight line on the overlay and commits it on release.
	Line

	// Rectangle previews a rectangle outline on the overlay and commits it
	// on release.
	Rectangle
)

// names holds the lower-case display names, indexed by Tool.
var names = [...]string{
	Pencil:      "pencil",
	Paintbrush:  "paintbrush",
	ColorPicker: "color picker",
	PaintBucket: "paint bucket",
	SprayCan:    "spray can",
	Eraser:      "eraser",
	Line:        "line",
	Rectangle:   "rectangle",
}

var title = cases.Title(language.English)

// Tools returns every tool in menu order.
func Tools() []Tool {
	out := make([]Tool, len(names))
	for i := range out {
		out[i] = Tool(i)
	}
	return out
}

// String returns the title-cased display name, e.g. "Spray Can".
func (t Tool) String() string {
	if t < 0 || int(t) >= len(names) {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return title.String(names[t])
}

// Mutates reports whether a gesture with t changes the image and therefore
// produces a history snapshot.
func (t Tool) Mutates() bool {
	return t != ColorPicker
}

// usesOverlay reports whether t previews its shape before committing it.
func (t Tool) usesOverlay() bool {
	return t == Line || t == Rectangle
}

// ParseTool maps a display name to a Tool. Matching ignores case, spaces,
// hyphens and underscores, so "Spray Can", "spray-can" and "spraycan" all
// name SprayCan.
func ParseTool(s string) (Tool, error) {
	key := normalize(s)
	for i, n := range names {
		if normalize(n) == key {
			return Tool(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTool, s)
}

func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}
