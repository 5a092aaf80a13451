package tool

import (
	"math/rand/v2"

	"github.com/gogpu/pixart"
)

// Default tool parameters.
const (
	DefaultBrushRadius  = 10
	DefaultSprayRadius  = 50
	DefaultSprayDensity = 100
)

// Context is the explicit tool state shared by every gesture: the current
// colour and the brush and spray parameters. ColorPicker writes Color back.
type Context struct {
	Color        pixart.RGBA
	BrushRadius  int
	SprayRadius  int
	SprayDensity int

	// Rand drives the spray can. Inject a seeded source for reproducible
	// output.
	Rand *rand.Rand
}

// Option configures a Context.
type Option func(*Context)

// NewContext returns a Context drawing in black with default parameters.
func NewContext(opts ...Option) *Context {
	c := &Context{
		Color:        pixart.Black,
		BrushRadius:  DefaultBrushRadius,
		SprayRadius:  DefaultSprayRadius,
		SprayDensity: DefaultSprayDensity,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return c
}

// WithColor sets the drawing colour.
func WithColor(c pixart.RGBA) Option {
	return func(ctx *Context) {
		ctx.Color = c
	}
}

// WithBrushRadius sets the paintbrush and eraser radius.
// Negative values are treated as zero.
func WithBrushRadius(r int) Option {
	return func(ctx *Context) {
		ctx.BrushRadius = max(r, 0)
	}
}

// WithSpray sets the spray can radius and the number of samples per event.
func WithSpray(radius, density int) Option {
	return func(ctx *Context) {
		ctx.SprayRadius = max(radius, 0)
		ctx.SprayDensity = max(density, 0)
	}
}

// WithRand sets the random source used by the spray can.
func WithRand(r *rand.Rand) Option {
	return func(ctx *Context) {
		ctx.Rand = r
	}
}

// brushOffsets returns every (dx, dy) with dx²+dy² < r².
// A radius of zero or one yields the single centre offset.
func brushOffsets(r int) [][2]int {
	if r <= 1 {
		return [][2]int{{0, 0}}
	}
	var out [][2]int
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy < r*r {
				out = append(out, [2]int{dx, dy})
			}
		}
	}
	return out
}
