// Package display writes rendered frames to their destinations.
//
// A [Sink] receives one complete frame of text at a time, in playback order.
// [Terminal] redraws a frame in place by moving the cursor home before each
// write; [Multi] fans a frame out to several sinks.
package display

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"golang.org/x/term"

	"go.jacobcolvin.com/asciiplay/geometry"
)

const (
	cursorHome  = "\033[1;1H"
	clearScreen = "\033[2J"
)

// ErrNotTerminal indicates that a file descriptor is not a terminal.
var ErrNotTerminal = errors.New("not a terminal")

// Sink displays frames of text.
type Sink interface {
	WriteFrame(text string) error
}

// Terminal draws every frame over the previous one.
//
// Each frame is buffered and flushed with a single write, so it appears at
// once rather than line by line.
//
// Create instances with [NewTerminal].
type Terminal struct {
	w       *bufio.Writer
	clear   bool
	started bool
}

// NewTerminal creates a [Terminal] writing to w. When clear is set, the screen
// is cleared before the first frame.
func NewTerminal(w io.Writer, clear bool) *Terminal {
	return &Terminal{
		w:     bufio.NewWriterSize(w, 64*1024),
		clear: clear,
	}
}

// WriteFrame moves the cursor to the top-left corner and writes text.
func (t *Terminal) WriteFrame(text string) error {
	if t.clear && !t.started {
		_, err := t.w.WriteString(clearScreen)
		if err != nil {
			return fmt.Errorf("writing frame: %w", err)
		}
	}

	t.started = true

	_, err := t.w.WriteString(cursorHome)
	if err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}

	_, err = t.w.WriteString(text)
	if err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}

	err = t.w.Flush()
	if err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}

	return nil
}

// multi writes to several sinks in order.
type multi []Sink

// Multi returns a [Sink] that writes each frame to every sink in order,
// stopping at the first error. Nil sinks are skipped.
func Multi(sinks ...Sink) Sink {
	var m multi

	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}

	if len(m) == 1 {
		return m[0]
	}

	return m
}

func (m multi) WriteFrame(text string) error {
	for _, s := range m {
		err := s.WriteFrame(text)
		if err != nil {
			return err
		}
	}

	return nil
}

// Size returns the size of the terminal on fd in character cells.
func Size(fd int) (geometry.Dimensions, error) {
	if !term.IsTerminal(fd) {
		return geometry.Dimensions{}, ErrNotTerminal
	}

	w, h, err := term.GetSize(fd)
	if err != nil {
		return geometry.Dimensions{}, fmt.Errorf("getting terminal size: %w", err)
	}

	return geometry.Dimensions{W: w, H: h}, nil
}
