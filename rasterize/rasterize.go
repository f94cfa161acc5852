// Package rasterize converts pixel grids into text for terminal output.
//
// Every [Rasterizer] maps one pixel to one character cell and joins rows with
// "\n". There is no trailing newline, so a frame as tall as the terminal does
// not scroll it.
package rasterize

import (
	"errors"
	"fmt"
	"image/color"
	"maps"
	"slices"
	"strings"

	"go.jacobcolvin.com/asciiplay/pixel"
)

// DefaultRamp orders glyphs from darkest to brightest.
const DefaultRamp = " .:-=+*#%@"

const reset = "\033[0m"

// ErrUnknownRasterizer indicates an unregistered rasterizer name.
var ErrUnknownRasterizer = errors.New("unknown rasterizer")

// Rasterizer renders a [pixel.Grid] as a block of terminal text.
type Rasterizer interface {
	Rasterize(g pixel.Grid) string
}

var registry = map[string]func(ramp string) Rasterizer{
	"ascii": func(ramp string) Rasterizer { return ASCII{Ramp: ramp, Color: true} },
	"mono":  func(ramp string) Rasterizer { return ASCII{Ramp: ramp} },
	"block": func(string) Rasterizer { return Block{} },
}

// New returns the [Rasterizer] registered under name. The ramp applies to
// glyph-based rasterizers; empty means [DefaultRamp].
func New(name, ramp string) (Rasterizer, error) {
	constructor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q, one of: %s", ErrUnknownRasterizer, name, strings.Join(Names(), ", "))
	}

	return constructor(ramp), nil
}

// Names returns all registered rasterizer names, sorted.
func Names() []string {
	return slices.Sorted(maps.Keys(registry))
}

// ASCII picks a glyph from Ramp by each pixel's luminance. With Color set,
// each glyph is also drawn in the pixel's 24-bit color.
type ASCII struct {
	Ramp  string
	Color bool
}

// Rasterize implements [Rasterizer].
func (a ASCII) Rasterize(g pixel.Grid) string {
	ramp := []rune(a.Ramp)
	if len(ramp) == 0 {
		ramp = []rune(DefaultRamp)
	}

	var sb strings.Builder

	for y, row := range g {
		if y > 0 {
			sb.WriteByte('\n')
		}

		for _, c := range row {
			glyph := ramp[luma(c)*(len(ramp)-1)/255]
			if a.Color {
				fmt.Fprintf(&sb, "\033[38;2;%d;%d;%dm%c", c.R, c.G, c.B, glyph)
			} else {
				sb.WriteRune(glyph)
			}
		}

		if a.Color {
			sb.WriteString(reset)
		}
	}

	return sb.String()
}

// Block paints each cell's background in the pixel's 24-bit color.
type Block struct{}

// Rasterize implements [Rasterizer].
func (Block) Rasterize(g pixel.Grid) string {
	var sb strings.Builder

	for y, row := range g {
		if y > 0 {
			sb.WriteByte('\n')
		}

		for _, c := range row {
			fmt.Fprintf(&sb, "\033[48;2;%d;%d;%dm ", c.R, c.G, c.B)
		}

		sb.WriteString(reset)
	}

	return sb.String()
}

// luma returns the Rec. 601 luminance of c in [0, 255].
func luma(c color.RGBA) int {
	return (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
}
