// Package media wraps the external collaborators that supply video data: a
// [Prober] that reports a video's pixel size, and a [Decoder] that streams the
// video as raw BGRx pixels scaled to a requested size.
//
// [FFmpeg] implements both by running the ffmpeg binary. [Images] implements
// both for a directory of PNG frames. Test doubles live in package
// mediatest.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"go.jacobcolvin.com/asciiplay/geometry"
)

var (
	// ErrVideoSizeNotFound indicates that a probe report had no parseable
	// video stream size.
	ErrVideoSizeNotFound = errors.New("could not find video size")
	// ErrFFmpegNotFound indicates that the ffmpeg binary is not installed.
	ErrFFmpegNotFound = errors.New("ffmpeg not found in PATH")
	// ErrDecodeFailed indicates that the decoder exited abnormally.
	ErrDecodeFailed = errors.New("decode failed")
	// ErrNoFrames indicates an image directory with no PNG files.
	ErrNoFrames = errors.New("no PNG frames found")
)

// Prober reports the pixel dimensions of a video.
type Prober interface {
	Probe(ctx context.Context, path string) (geometry.Dimensions, error)
}

// Decoder opens a stream of raw video pixels scaled to size, four bytes per
// pixel in blue, green, red, unused order. Reads may return any number of
// bytes. Closing the stream releases the decoder.
type Decoder interface {
	Decode(ctx context.Context, path string, size geometry.Dimensions) (io.ReadCloser, error)
}

// Source is both a [Prober] and a [Decoder].
type Source interface {
	Prober
	Decoder
}

// For returns images when path is a directory and video otherwise.
func For(path string, video, images Source) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	if info.IsDir() {
		return images, nil
	}

	return video, nil
}

var (
	videoStreamLine = regexp.MustCompile(`Stream.*Video`)
	sizePiece       = regexp.MustCompile(`^(\d+)x(\d+)`)
)

// ParseVideoSize extracts the video size from an ffmpeg input report.
//
// Lines describing a video stream are split into their comma-separated
// fields, and the first field that starts with "WxH" gives the size:
//
//	Stream #0:0(und): Video: h264 (High), yuv420p(progressive), 1280x720 [SAR 1:1 DAR 16:9], 25 fps
func ParseVideoSize(report string) (geometry.Dimensions, error) {
	for line := range strings.Lines(report) {
		if !videoStreamLine.MatchString(line) {
			continue
		}

		for piece := range strings.SplitSeq(strings.TrimRight(line, "\r\n"), ", ") {
			m := sizePiece.FindStringSubmatch(piece)
			if m == nil {
				continue
			}

			w, err := strconv.Atoi(m[1])
			if err != nil {
				return geometry.Dimensions{}, fmt.Errorf("%w: %w", ErrVideoSizeNotFound, err)
			}

			h, err := strconv.Atoi(m[2])
			if err != nil {
				return geometry.Dimensions{}, fmt.Errorf("%w: %w", ErrVideoSizeNotFound, err)
			}

			return geometry.Dimensions{W: w, H: h}, nil
		}
	}

	return geometry.Dimensions{}, ErrVideoSizeNotFound
}
