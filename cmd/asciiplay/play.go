package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/asciiplay/display"
	"go.jacobcolvin.com/asciiplay/geometry"
	"go.jacobcolvin.com/asciiplay/log"
	"go.jacobcolvin.com/asciiplay/mirror"
	"go.jacobcolvin.com/asciiplay/player"
	"go.jacobcolvin.com/asciiplay/tui"
)

func (a *app) playCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play [flags] <input-video>",
		Short: "Play a video file or a directory of PNG frames",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.play(cmd.Context(), args[0])
		},
	}

	a.playCfg.RegisterFlags(cmd.Flags())

	err := a.playCfg.RegisterCompletions(cmd)
	if err != nil {
		fmt.Fprintf(a.stderr, "register completions: %v\n", err)
	}

	return cmd
}

func (a *app) play(ctx context.Context, path string) error {
	cfg := a.playCfg

	err := cfg.Validate()
	if err != nil {
		return err
	}

	src, err := cfg.Source(path)
	if err != nil {
		return err
	}

	rasterizer, err := cfg.NewRasterizer()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		sinks        []display.Sink
		terminalSize = a.terminalSize
	)

	switch cfg.Display {
	case player.DisplayTUI:
		pub := log.NewPublisher()
		sub := pub.Subscribe()

		err := a.setLogOutput(pub)
		if err != nil {
			return err
		}

		ui := tui.New(cancel, sub.C())
		ui.Start()

		defer func() {
			closeErr := ui.Close()

			// The terminal is ours again.
			_ = pub.Close()
			logErr := a.setLogOutput(a.stderr)

			if closeErr != nil {
				a.logger.Error("closing tui", slog.Any("error", closeErr))
			}

			if logErr != nil {
				fmt.Fprintf(a.stderr, "restoring log output: %v\n", logErr)
			}
		}()

		sinks = append(sinks, ui)
		terminalSize = func() (geometry.Dimensions, error) {
			d, err := a.terminalSize()

			return tui.FrameArea(d), err
		}

	default:
		sinks = append(sinks, display.NewTerminal(a.stdout, cfg.Clear))
	}

	if cfg.Listen != "" {
		m, err := a.startMirror(ctx, cfg.Listen)
		if err != nil {
			return err
		}
		defer m.stop()

		sinks = append(sinks, m.server)
	}

	p := player.New(
		player.WithSource(src),
		player.WithRasterizer(rasterizer),
		player.WithSink(display.Multi(sinks...)),
		player.WithTerminalSize(terminalSize),
		player.WithChunkSize(cfg.ChunkSize),
		player.WithLogger(a.logger),
	)

	return p.Play(ctx, path)
}

// mirrorStopper shuts down a running [mirror.Server].
type mirrorStopper struct {
	server *mirror.Server
	cancel context.CancelFunc
	wg     *sync.WaitGroup
}

func (m mirrorStopper) stop() {
	m.cancel()
	m.wg.Wait()
}

// startMirror serves frames on addr until the returned stopper is called.
func (a *app) startMirror(ctx context.Context, addr string) (mirrorStopper, error) {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return mirrorStopper{}, fmt.Errorf("listening on %s: %w", addr, err)
	}

	server := mirror.New(mirror.WithLogger(a.logger))

	serveCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	var wg sync.WaitGroup

	wg.Go(func() {
		err := server.Serve(serveCtx, ln)
		if err != nil {
			a.logger.Error("mirror stopped", slog.Any("error", err))
		}
	})

	return mirrorStopper{server: server, cancel: cancel, wg: &wg}, nil
}
