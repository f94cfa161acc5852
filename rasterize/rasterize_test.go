package rasterize_test

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/asciiplay/pixel"
	"go.jacobcolvin.com/asciiplay/rasterize"
	"go.jacobcolvin.com/asciiplay/stringtest"
)

var (
	black = color.RGBA{A: pixel.Opaque}
	white = color.RGBA{R: 255, G: 255, B: 255, A: pixel.Opaque}
	gray  = color.RGBA{R: 128, G: 128, B: 128, A: pixel.Opaque}
	red   = color.RGBA{R: 255, A: pixel.Opaque}
)

func TestASCII(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		grid pixel.Grid
		ramp string
		want string
	}{
		"two glyph ramp": {
			grid: pixel.Grid{{black, white}, {white, black}},
			ramp: " @",
			want: stringtest.JoinLF(" @", "@ "),
		},
		"default ramp extremes": {
			grid: pixel.Grid{{black, gray, white}},
			want: " =@",
		},
		"unicode ramp": {
			grid: pixel.Grid{{black}, {white}},
			ramp: "░▓",
			want: stringtest.JoinLF("░", "▓"),
		},
		"pure red is dark": {
			grid: pixel.Grid{{red}},
			ramp: "abcdefghij",
			want: "c",
		},
		"empty grid": {
			grid: pixel.Grid{},
			want: "",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			mono := rasterize.ASCII{Ramp: tc.ramp}.Rasterize(tc.grid)
			assert.Equal(t, tc.want, mono)

			colored := rasterize.ASCII{Ramp: tc.ramp, Color: true}.Rasterize(tc.grid)
			assert.Equal(t, tc.want, stringtest.StripANSI(colored))
		})
	}
}

func TestASCIIColor(t *testing.T) {
	t.Parallel()

	got := rasterize.ASCII{Ramp: " @", Color: true}.Rasterize(pixel.Grid{{white, red}, {black, black}})

	assert.Equal(t, stringtest.JoinLF(
		"\x1b[38;2;255;255;255m@\x1b[38;2;255;0;0m \x1b[0m",
		"\x1b[38;2;0;0;0m \x1b[38;2;0;0;0m \x1b[0m",
	), got)
}

func TestBlock(t *testing.T) {
	t.Parallel()

	got := rasterize.Block{}.Rasterize(pixel.Grid{{red, white}, {black, gray}})

	assert.Equal(t, stringtest.JoinLF(
		"\x1b[48;2;255;0;0m \x1b[48;2;255;255;255m \x1b[0m",
		"\x1b[48;2;0;0;0m \x1b[48;2;128;128;128m \x1b[0m",
	), got)
	assert.Equal(t, stringtest.JoinLF("  ", "  "), stringtest.StripANSI(got))
}

func TestNew(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want rasterize.Rasterizer
		name string
		ramp string
		err  error
	}{
		"ascii": {
			name: "ascii",
			ramp: " #",
			want: rasterize.ASCII{Ramp: " #", Color: true},
		},
		"mono": {
			name: "mono",
			want: rasterize.ASCII{},
		},
		"block ignores ramp": {
			name: "block",
			ramp: "xyz",
			want: rasterize.Block{},
		},
		"unknown": {
			name: "sixel",
			err:  rasterize.ErrUnknownRasterizer,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := rasterize.New(tc.name, tc.ramp)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"ascii", "block", "mono"}, rasterize.Names())
}
