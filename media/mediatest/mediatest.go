// Package mediatest provides scripted [media.Prober] and [media.Decoder]
// implementations for tests that must not depend on ffmpeg or real video
// files.
package mediatest

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.jacobcolvin.com/asciiplay/geometry"
	"go.jacobcolvin.com/asciiplay/media"
)

// Prober answers every probe by parsing a canned ffmpeg report.
type Prober struct {
	Err    error
	Report string
}

// Probe implements [media.Prober].
func (p Prober) Probe(ctx context.Context, _ string) (geometry.Dimensions, error) {
	if p.Err != nil {
		return geometry.Dimensions{}, p.Err
	}

	if ctx.Err() != nil {
		return geometry.Dimensions{}, ctx.Err()
	}

	return media.ParseVideoSize(p.Report)
}

// Report returns a minimal ffmpeg input report for a video of size w x h.
func Report(w, h int) string {
	return "Input #0, mov,mp4,m4a,3gp,3g2,mj2, from 'clip.mp4':\n" +
		"  Duration: 00:00:01.00, start: 0.000000, bitrate: 1000 kb/s\n" +
		fmt.Sprintf("    Stream #0:0(und): Video: h264 (High) (avc1 / 0x31637661), yuv420p(tv, bt709), "+
			"%dx%d [SAR 1:1 DAR 16:9], 900 kb/s, 25 fps, 25 tbr\n", w, h) +
		"    Stream #0:1(und): Audio: aac (LC) (mp4a / 0x6134706D), 44100 Hz, stereo, fltp\n"
}

// Decoder serves scripted chunks. A Read never spans two chunks.
//
// Every Decode replays Chunks from the start and records the requested size.
type Decoder struct {
	// Err, if set, is returned by Decode.
	Err error
	// ReadErr, if set, is returned by Read after all chunks.
	ReadErr error
	// CloseErr is returned by Close.
	CloseErr error

	Chunks [][]byte

	mu     sync.Mutex
	size   geometry.Dimensions
	closed bool
}

// Decode implements [media.Decoder].
func (d *Decoder) Decode(_ context.Context, _ string, size geometry.Dimensions) (io.ReadCloser, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Err != nil {
		return nil, d.Err
	}

	d.size = size

	return &chunkReader{d: d, chunks: d.Chunks}, nil
}

// Size returns the size passed to Decode.
func (d *Decoder) Size() geometry.Dimensions {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.size
}

// Closed reports whether the stream returned by Decode was closed.
func (d *Decoder) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.closed
}

type chunkReader struct {
	d      *Decoder
	chunks [][]byte
	cur    []byte
}

func (r *chunkReader) Read(b []byte) (int, error) {
	for len(r.cur) == 0 {
		if len(r.chunks) == 0 {
			if r.d.ReadErr != nil {
				return 0, r.d.ReadErr
			}

			return 0, io.EOF
		}

		r.cur = r.chunks[0]
		r.chunks = r.chunks[1:]
	}

	n := copy(b, r.cur)
	r.cur = r.cur[n:]

	return n, nil
}

func (r *chunkReader) Close() error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	r.d.closed = true

	return r.d.CloseErr
}
