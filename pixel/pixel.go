// Package pixel decodes raw BGRx frame bytes into grids of color samples.
package pixel

import (
	"errors"
	"fmt"
	"image/color"
)

const (
	// Stride is the number of bytes per pixel: blue, green, red, unused.
	Stride = 4
	// Opaque is the alpha of every decoded sample. The source encoding has
	// no alpha channel.
	Opaque = 0xff
)

// ErrInvalidWidth indicates a zero or negative row width.
var ErrInvalidWidth = errors.New("invalid width")

// Grid is a frame's pixels in row-major order. All rows have the same length.
type Grid [][]color.RGBA

// Height returns the number of rows.
func (g Grid) Height() int {
	return len(g)
}

// Width returns the number of pixels per row.
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}

	return len(g[0])
}

// Decode interprets frame as rows of width BGRx pixels.
//
// A short final frame may end partway through a row; that row is omitted, so
// Decode never reads past the end of frame.
func Decode(frame []byte, width int) (Grid, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}

	rowBytes := width * Stride
	grid := make(Grid, 0, len(frame)/rowBytes)

	for i := 0; i+rowBytes <= len(frame); i += rowBytes {
		row := make([]color.RGBA, width)
		for x := range row {
			p := frame[i+x*Stride : i+x*Stride+Stride]
			row[x] = color.RGBA{R: p[2], G: p[1], B: p[0], A: Opaque}
		}

		grid = append(grid, row)
	}

	return grid, nil
}
