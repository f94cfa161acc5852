// Package geometry sizes video frames for display in a terminal character
// grid.
//
// Terminal cells are not square, so fitting a video into a terminal needs a
// correction factor between a cell's width and height. [CharAspect] is that
// factor; [ComputeFrameSize] applies it to pick the largest frame that fits
// the terminal on both axes while keeping the video's aspect ratio.
package geometry

import (
	"errors"
	"fmt"
	"math"
)

// CharAspect corrects for non-square terminal cells.
//
// A 1280x720 video has the same on-screen aspect ratio as a 211x51 macOS
// Terminal window using Monaco 10pt. The value is a calibration constant and
// must not be re-derived.
const CharAspect = (1280.0 / 720.0) / (211.0 / 51.0)

// ErrInvalidDimensions indicates a zero or negative width or height.
var ErrInvalidDimensions = errors.New("invalid dimensions")

// Dimensions is a width and height pair. It describes terminal sizes in
// character cells and video or frame sizes in pixels.
type Dimensions struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Valid reports whether both dimensions are strictly positive.
func (d Dimensions) Valid() bool {
	return d.W > 0 && d.H > 0
}

// String returns the dimensions in "WxH" form.
func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.W, d.H)
}

// Check returns an error wrapping [ErrInvalidDimensions] unless d is
// [Dimensions.Valid]. The name describes d in the error message.
func (d Dimensions) Check(name string) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %s %s", ErrInvalidDimensions, name, d)
	}

	return nil
}

// ComputeFrameSize returns the frame size, in pixels, that fits a video of
// size video inside a terminal of size terminal (in character cells).
//
// When the video is relatively wider than the terminal the frame takes the
// terminal's full width; otherwise it takes the full height. The other axis is
// derived from the video's aspect ratio, corrected by [CharAspect], and
// rounded down. The result never exceeds terminal on either axis, but may
// contain a zero dimension for degenerate inputs; callers must [Dimensions.Check]
// it before use.
func ComputeFrameSize(terminal, video Dimensions) (Dimensions, error) {
	err := terminal.Check("terminal")
	if err != nil {
		return Dimensions{}, err
	}

	err = video.Check("video")
	if err != nil {
		return Dimensions{}, err
	}

	termAspect := float64(terminal.W) / float64(terminal.H) * CharAspect
	videoAspect := float64(video.W) / float64(video.H)

	if videoAspect > termAspect {
		return Dimensions{
			W: terminal.W,
			H: int(math.Floor(float64(terminal.W) / videoAspect * CharAspect)),
		}, nil
	}

	return Dimensions{
		W: int(math.Floor(float64(terminal.H) * videoAspect / CharAspect)),
		H: terminal.H,
	}, nil
}
