// Package player drives playback of one video in the terminal.
//
// [Player.Play] sizes the frame to fit the terminal, opens a raw pixel stream
// from a [media.Decoder], cuts it into frames, and for each frame decodes the
// pixels, rasterizes them to text and writes the text to a
// [display.Sink], strictly in order. Pacing comes from the decoder; the
// player renders frames as fast as they arrive.
package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime/trace"
	"sync"

	"go.jacobcolvin.com/asciiplay/display"
	"go.jacobcolvin.com/asciiplay/geometry"
	"go.jacobcolvin.com/asciiplay/media"
	"go.jacobcolvin.com/asciiplay/pixel"
	"go.jacobcolvin.com/asciiplay/rasterize"
	"go.jacobcolvin.com/asciiplay/reassemble"
)

// Stats summarizes one playback session.
type Stats struct {
	// FrameSize is the size every frame was decoded at.
	FrameSize geometry.Dimensions
	// Frames is the number of frames taken from the stream, including a
	// short final frame.
	Frames int
	// Bytes is the number of pixel bytes consumed from the stream.
	Bytes int64
	// ShortFinalFrame is set when the stream ended partway through a frame.
	ShortFinalFrame bool
}

// Player plays videos. A Player may be reused, but not concurrently.
//
// Create instances with [New].
type Player struct {
	prober       media.Prober
	decoder      media.Decoder
	rasterizer   rasterize.Rasterizer
	sink         display.Sink
	terminalSize func() (geometry.Dimensions, error)
	logger       *slog.Logger
	last         Stats
	chunkSize    int
	mu           sync.Mutex
}

// Option configures a [Player].
type Option func(*Player)

// WithProber sets the video size prober. Default [media.FFmpeg].
func WithProber(p media.Prober) Option {
	return func(pl *Player) {
		pl.prober = p
	}
}

// WithDecoder sets the pixel stream decoder. Default [media.FFmpeg].
func WithDecoder(d media.Decoder) Option {
	return func(pl *Player) {
		pl.decoder = d
	}
}

// WithSource sets both the prober and the decoder.
func WithSource(s media.Source) Option {
	return func(pl *Player) {
		pl.prober = s
		pl.decoder = s
	}
}

// WithRasterizer sets how frames are turned into text. Default colored
// [rasterize.ASCII].
func WithRasterizer(r rasterize.Rasterizer) Option {
	return func(pl *Player) {
		pl.rasterizer = r
	}
}

// WithSink sets where frames are written. Default a [display.Terminal] on
// standard output.
func WithSink(s display.Sink) Option {
	return func(pl *Player) {
		pl.sink = s
	}
}

// WithTerminalSize sets the function reporting the space available for
// frames, in character cells. Default the size of the terminal on standard
// output.
func WithTerminalSize(fn func() (geometry.Dimensions, error)) Option {
	return func(pl *Player) {
		pl.terminalSize = fn
	}
}

// WithChunkSize sets how many bytes are read from the stream at a time.
// Values less than 1 select [reassemble.DefaultChunkSize].
func WithChunkSize(n int) Option {
	return func(pl *Player) {
		pl.chunkSize = n
	}
}

// WithLogger sets the logger. Default [slog.Default].
func WithLogger(l *slog.Logger) Option {
	return func(pl *Player) {
		pl.logger = l
	}
}

// New creates a [Player] with the given options.
func New(opts ...Option) *Player {
	ff := media.FFmpeg{}

	p := &Player{
		prober:     ff,
		decoder:    ff,
		rasterizer: rasterize.ASCII{Color: true},
		sink:       display.NewTerminal(os.Stdout, false),
		terminalSize: func() (geometry.Dimensions, error) {
			return display.Size(int(os.Stdout.Fd())) //nolint:gosec // Fd fits in int.
		},
		logger:    slog.Default(),
		chunkSize: reassemble.DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.chunkSize < 1 {
		p.chunkSize = reassemble.DefaultChunkSize
	}

	return p
}

// LastStats returns the statistics of the most recent [Player.Play] call.
func (p *Player) LastStats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.last
}

// Play plays the video at path until the stream ends, an error occurs, or ctx
// is done.
//
// A read error on the decode stream ends playback with that error. A decoder
// that exits abnormally after its stream closes is only logged; the closed
// stream is a normal end.
//
// When ctx is done by the time the stream ends, Play returns ctx.Err(), even
// if every frame was shown: a canceled decoder also closes its stream, so the
// two cannot be told apart.
func (p *Player) Play(ctx context.Context, path string) error {
	ctx, task := trace.NewTask(ctx, "play")
	defer task.End()

	size, err := p.frameSize(ctx, path)
	if err != nil {
		return err
	}

	log := p.logger.With(slog.String("input", path), slog.String("frame", size.String()))

	stream, err := p.decoder.Decode(ctx, path, size)
	if err != nil {
		return fmt.Errorf("opening decode stream: %w", err)
	}

	defer func() {
		err := stream.Close()
		if err != nil {
			log.WarnContext(ctx, "decoder exited", slog.Any("error", err))
		}
	}()

	stats := Stats{FrameSize: size}
	defer func() {
		p.mu.Lock()
		p.last = stats
		p.mu.Unlock()

		log.DebugContext(ctx, "playback finished",
			slog.Int("frames", stats.Frames),
			slog.Int64("bytes", stats.Bytes),
			slog.Bool("short_final_frame", stats.ShortFinalFrame),
		)
	}()

	log.InfoContext(ctx, "playing")

	r := reassemble.New(size.W, size.H)

	for frame, err := range r.Frames(reassemble.Chunks(stream, p.chunkSize)) {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err != nil {
			return fmt.Errorf("reading decode stream: %w", err)
		}

		stats.Bytes += int64(len(frame))
		if len(frame) < r.FrameBytes() {
			stats.ShortFinalFrame = true
		}

		err = p.render(ctx, frame, size.W)
		if err != nil {
			return err
		}

		stats.Frames++
	}

	return ctx.Err()
}

// frameSize computes the size frames are decoded at.
func (p *Player) frameSize(ctx context.Context, path string) (geometry.Dimensions, error) {
	terminal, err := p.terminalSize()
	if err != nil {
		return geometry.Dimensions{}, fmt.Errorf("getting terminal size: %w", err)
	}

	video, err := p.prober.Probe(ctx, path)
	if err != nil {
		return geometry.Dimensions{}, fmt.Errorf("probing video size: %w", err)
	}

	size, err := geometry.ComputeFrameSize(terminal, video)
	if err != nil {
		return geometry.Dimensions{}, fmt.Errorf("fitting %s video to %s terminal: %w", video, terminal, err)
	}

	// A very tall or wide video can round one side to zero cells.
	if !size.Valid() {
		return geometry.Dimensions{}, fmt.Errorf("%w: %s video does not fit a %s terminal",
			geometry.ErrInvalidDimensions, video, terminal)
	}

	p.logger.DebugContext(ctx, "frame size",
		slog.String("terminal", terminal.String()),
		slog.String("video", video.String()),
		slog.String("frame", size.String()),
	)

	return size, nil
}

// render decodes, rasterizes and displays one frame.
func (p *Player) render(ctx context.Context, frame []byte, width int) error {
	var (
		grid pixel.Grid
		err  error
	)

	trace.WithRegion(ctx, "decode", func() {
		grid, err = pixel.Decode(frame, width)
	})

	if err != nil {
		return fmt.Errorf("decoding pixels: %w", err)
	}

	// A short final frame may not hold a single full row.
	if grid.Height() == 0 {
		return nil
	}

	var text string

	trace.WithRegion(ctx, "rasterize", func() {
		text = p.rasterizer.Rasterize(grid)
	})

	trace.WithRegion(ctx, "display", func() {
		err = p.sink.WriteFrame(text)
	})

	if err != nil {
		return fmt.Errorf("displaying frame: %w", err)
	}

	return nil
}

// IsCanceled reports whether err ended playback because its context was
// canceled, which callers usually treat as a normal exit.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
