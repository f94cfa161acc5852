package player

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.jacobcolvin.com/asciiplay/media"
	"go.jacobcolvin.com/asciiplay/rasterize"
	"go.jacobcolvin.com/asciiplay/reassemble"
)

// Display modes.
const (
	// DisplayTerminal redraws frames in place on standard output.
	DisplayTerminal = "terminal"
	// DisplayTUI shows frames in a full-screen UI with a status row.
	DisplayTUI = "tui"
)

var (
	// ErrUnknownDisplay indicates an unrecognized display mode.
	ErrUnknownDisplay = errors.New("unknown display")
	// ErrInvalidConfig indicates an out-of-range setting.
	ErrInvalidConfig = errors.New("invalid config")
)

// Displays returns every display mode.
func Displays() []string {
	return []string{DisplayTerminal, DisplayTUI}
}

// Flags holds CLI flag names for playback configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Rasterizer string
	Ramp       string
	Display    string
	ChunkSize  string
	FFmpeg     string
	Realtime   string
	FPS        string
	Listen     string
	Clear      string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds CLI flag values for playback.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags].
type Config struct {
	Flags      Flags
	Rasterizer string
	Ramp       string
	Display    string
	FFmpeg     string
	Listen     string
	ChunkSize  int
	FPS        int
	Realtime   bool
	Clear      bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Rasterizer: "rasterizer",
		Ramp:       "ramp",
		Display:    "display",
		ChunkSize:  "chunk-size",
		FFmpeg:     "ffmpeg",
		Realtime:   "realtime",
		FPS:        "fps",
		Listen:     "listen",
		Clear:      "clear",
	}

	return f.NewConfig()
}

// RegisterFlags adds playback flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Rasterizer, c.Flags.Rasterizer, "ascii",
		fmt.Sprintf("how pixels are drawn, one of: %s", strings.Join(rasterize.Names(), ", ")))
	flags.StringVar(&c.Ramp, c.Flags.Ramp, rasterize.DefaultRamp,
		"glyphs from darkest to brightest")
	flags.StringVar(&c.Display, c.Flags.Display, DisplayTerminal,
		fmt.Sprintf("where frames are shown, one of: %s", strings.Join(Displays(), ", ")))
	flags.IntVar(&c.ChunkSize, c.Flags.ChunkSize, reassemble.DefaultChunkSize,
		"bytes read from the decoder at a time")
	flags.StringVar(&c.FFmpeg, c.Flags.FFmpeg, "ffmpeg",
		"ffmpeg executable name or path")
	flags.BoolVar(&c.Realtime, c.Flags.Realtime, true,
		"decode at the video's native frame rate")
	flags.IntVar(&c.FPS, c.Flags.FPS, 24,
		"frame rate for PNG frame directories (0 = unpaced)")
	flags.StringVar(&c.Listen, c.Flags.Listen, "",
		"mirror frames to WebSocket clients at this address (e.g. :8080)")
	flags.BoolVar(&c.Clear, c.Flags.Clear, true,
		"clear the screen before the first frame")
}

// RegisterCompletions registers shell completions for playback flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Rasterizer,
		cobra.FixedCompletions(rasterize.Names(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Rasterizer, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Display,
		cobra.FixedCompletions(Displays(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Display, err)
	}

	return nil
}

// Validate checks settings that flags cannot constrain by type.
func (c *Config) Validate() error {
	if !slices.Contains(Displays(), c.Display) {
		return fmt.Errorf("%w: %q, one of: %s", ErrUnknownDisplay, c.Display, strings.Join(Displays(), ", "))
	}

	if c.ChunkSize < 1 {
		return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, c.Flags.ChunkSize, c.ChunkSize)
	}

	if c.FPS < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidConfig, c.Flags.FPS, c.FPS)
	}

	_, err := c.NewRasterizer()

	return err
}

// NewRasterizer returns the configured [rasterize.Rasterizer].
func (c *Config) NewRasterizer() (rasterize.Rasterizer, error) {
	r, err := rasterize.New(c.Rasterizer, c.Ramp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Flags.Rasterizer, err)
	}

	return r, nil
}

// Source returns the configured [media.Source] for the input at path: PNG
// frames for a directory, ffmpeg otherwise.
func (c *Config) Source(path string) (media.Source, error) {
	return media.For(path,
		media.FFmpeg{Binary: c.FFmpeg, Realtime: c.Realtime},
		media.Images{FPS: c.FPS},
	)
}
