// Command asciiplay plays a video in the terminal as text.
//
// Frames are decoded by ffmpeg at a size that fills the terminal while keeping
// the video's aspect ratio, then drawn in place one after another. A directory
// of PNG frames can be played instead of a video file.
//
// # Usage
//
//	asciiplay play [flags] <input-video>
//	asciiplay config schema
//	asciiplay version
//
// # Playback flags
//
//	--rasterizer string   how pixels are drawn: ascii, block, mono (default "ascii")
//	--ramp string         glyphs from darkest to brightest
//	--display string      terminal or tui (default "terminal")
//	--listen string       mirror frames to WebSocket clients, e.g. :8080
//	--realtime            decode at the video's native frame rate (default true)
//	--fps int             frame rate for PNG frame directories (default 24)
//
// Settings can also be read from a YAML file given with --config; flags on
// the command line take precedence. Run "asciiplay config schema" for the
// file's JSON Schema.
//
// Press ctrl+c (or q in the tui display) to stop.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/asciiplay/config"
	"go.jacobcolvin.com/asciiplay/display"
	"go.jacobcolvin.com/asciiplay/geometry"
	"go.jacobcolvin.com/asciiplay/log"
	"go.jacobcolvin.com/asciiplay/player"
	"go.jacobcolvin.com/asciiplay/profile"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := newApp(os.Stdout, os.Stderr)
	a.setDefaultLogger = true

	code := a.run(ctx, os.Args[1:])

	stop()
	os.Exit(code)
}

// app holds the state shared by all subcommands.
type app struct {
	stdout       io.Writer
	stderr       io.Writer
	terminalSize func() (geometry.Dimensions, error)
	logger       *slog.Logger

	logCfg     *log.Config
	profileCfg *profile.Config
	playCfg    *player.Config
	profiler   *profile.Profiler
	configPath string

	// setDefaultLogger also installs the logger as the [slog] default, for
	// packages that log through it.
	setDefaultLogger bool
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		terminalSize: func() (geometry.Dimensions, error) {
			return display.Size(int(os.Stdout.Fd())) //nolint:gosec // Fd fits in int.
		},
		logger:     slog.New(slog.DiscardHandler),
		logCfg:     log.NewConfig(),
		profileCfg: profile.NewConfig(),
		playCfg:    player.NewConfig(),
	}
}

// run executes the command line and returns the process exit code.
func (a *app) run(ctx context.Context, args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.ExecuteContext(ctx)

	if a.profiler != nil {
		err = errors.Join(err, a.profiler.Stop())
	}

	switch {
	case err == nil:
		return 0
	case player.IsCanceled(err):
		a.logger.Debug("playback interrupted")

		return 0
	}

	fmt.Fprintf(a.stderr, "Error: %v\n", err)

	return 1
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "asciiplay",
		Short: "Play videos in the terminal as text",
		Long: `asciiplay decodes a video with ffmpeg and plays it in the terminal, drawing
every pixel as a colored character. The picture is scaled to fill the
terminal while keeping the video's aspect ratio.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Arguments are valid by now; later errors are not usage errors.
			cmd.SilenceUsage = true

			return a.setup(cmd)
		},
	}

	a.logCfg.RegisterFlags(root.PersistentFlags())
	a.profileCfg.RegisterFlags(root.PersistentFlags())
	root.PersistentFlags().StringVar(&a.configPath, "config", "",
		"read settings from this YAML file; command-line flags take precedence")

	root.AddCommand(a.playCmd(), a.configCmd(), a.versionCmd())

	for _, register := range []func(*cobra.Command) error{
		a.logCfg.RegisterCompletions,
		a.profileCfg.RegisterCompletions,
	} {
		err := register(root)
		if err != nil {
			fmt.Fprintf(a.stderr, "register completions: %v\n", err)
		}
	}

	return root
}

// setup applies the config file, then starts logging and profiling.
func (a *app) setup(cmd *cobra.Command) error {
	if a.configPath != "" {
		f, err := config.Load(a.configPath)
		if err != nil {
			return err
		}

		err = f.Apply(cmd.Flags())
		if err != nil {
			return fmt.Errorf("%s: %w", a.configPath, err)
		}
	}

	err := a.setLogOutput(a.stderr)
	if err != nil {
		return err
	}

	a.profiler = a.profileCfg.NewProfiler()

	err = a.profiler.Start()
	if err != nil {
		a.profiler = nil

		return fmt.Errorf("starting profiler: %w", err)
	}

	return nil
}

// setLogOutput points the logger at w.
func (a *app) setLogOutput(w io.Writer) error {
	handler, err := a.logCfg.NewHandler(w)
	if err != nil {
		return err
	}

	a.logger = slog.New(handler)
	if a.setDefaultLogger {
		slog.SetDefault(a.logger)
	}

	return nil
}
