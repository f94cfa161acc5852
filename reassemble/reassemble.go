// Package reassemble turns an arbitrarily chunked stream of raw pixel bytes
// into a sequence of fixed-size video frames.
//
// Chunk boundaries from a pipe have no relationship to pixel, row or frame
// boundaries. A [Reassembler] carries leftover bytes from one chunk to the
// next and emits a frame each time a full frame's worth of bytes is buffered:
//
//	r := reassemble.New(80, 19)
//	for frame, err := range r.Frames(reassemble.Chunks(stdout, 0)) {
//	    if err != nil {
//	        return err
//	    }
//	    // frame is exactly r.FrameBytes() long, except possibly the last.
//	}
package reassemble

import (
	"errors"
	"io"
	"iter"
)

// BytesPerPixel is the size of one BGRx pixel.
const BytesPerPixel = 4

// DefaultChunkSize is the read size used by [Chunks] when none is given.
const DefaultChunkSize = 64 * 1024

var (
	// ErrNotIterable indicates a nil chunk sequence.
	ErrNotIterable = errors.New("chunk source is not iterable")
	// ErrConsumed indicates [Reassembler.Frames] was called more than once.
	ErrConsumed = errors.New("reassembler already consumed")
)

// Reassembler is a single-pass transform from byte chunks to frames.
//
// It is not safe for concurrent use; one playback loop owns it.
//
// Create instances with [New].
type Reassembler struct {
	buf        []byte // Carry-over bytes; buf[off:] is unconsumed.
	off        int
	frameBytes int
	consumed   bool
}

// New creates a [Reassembler] for frames of width x height pixels. Zero or
// negative dimensions count as 1.
func New(width, height int) *Reassembler {
	return &Reassembler{
		frameBytes: max(1, width) * max(1, height) * BytesPerPixel,
	}
}

// FrameBytes returns the length of every emitted frame except possibly the
// last one.
func (r *Reassembler) FrameBytes() int {
	return r.frameBytes
}

// Buffered returns the number of carry-over bytes not yet emitted.
func (r *Reassembler) Buffered() int {
	return len(r.buf) - r.off
}

// Frames returns a lazy sequence of frames assembled from chunks.
//
// Each frame is a fresh slice owned by the receiver. When chunks is exhausted
// any carry-over bytes are emitted once as a final, shorter frame. An error
// from chunks is yielded once and ends the sequence. The sequence can only be
// ranged over once; a nil chunks or a second call yields [ErrNotIterable] or
// [ErrConsumed] as the only element.
func (r *Reassembler) Frames(chunks iter.Seq2[[]byte, error]) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		if chunks == nil {
			yield(nil, ErrNotIterable)

			return
		}

		if r.consumed {
			yield(nil, ErrConsumed)

			return
		}

		r.consumed = true

		for chunk, err := range chunks {
			if err != nil {
				yield(nil, err)

				return
			}

			r.append(chunk)

			for r.Buffered() >= r.frameBytes {
				if !yield(r.take(r.frameBytes), nil) {
					return
				}
			}
		}

		if r.Buffered() > 0 {
			yield(r.take(r.Buffered()), nil)
		}

		r.buf = nil
		r.off = 0
	}
}

// append adds chunk to the carry-over buffer, compacting consumed bytes
// instead of growing when that makes room.
func (r *Reassembler) append(chunk []byte) {
	if r.off == len(r.buf) {
		r.buf = r.buf[:0]
		r.off = 0
	} else if r.off > 0 && len(r.buf)+len(chunk) > cap(r.buf) {
		n := copy(r.buf, r.buf[r.off:])
		r.buf = r.buf[:n]
		r.off = 0
	}

	r.buf = append(r.buf, chunk...)
}

// take removes and returns a copy of the next n carry-over bytes.
func (r *Reassembler) take(n int) []byte {
	frame := make([]byte, n)
	copy(frame, r.buf[r.off:r.off+n])
	r.off += n

	return frame
}

// Chunks adapts rd to a chunk sequence, reading at most size bytes at a time
// ([DefaultChunkSize] when size < 1). [io.EOF] ends the sequence; any other
// read error is yielded once.
//
// Yielded chunks share one read buffer and are only valid until the next
// iteration.
func Chunks(rd io.Reader, size int) iter.Seq2[[]byte, error] {
	if rd == nil {
		return nil
	}

	if size < 1 {
		size = DefaultChunkSize
	}

	return func(yield func([]byte, error) bool) {
		buf := make([]byte, size)

		for {
			n, err := rd.Read(buf)
			if n > 0 && !yield(buf[:n], nil) {
				return
			}

			if errors.Is(err, io.EOF) {
				return
			}

			if err != nil {
				yield(nil, err)

				return
			}
		}
	}
}
