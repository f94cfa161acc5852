package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"

	"go.jacobcolvin.com/asciiplay/geometry"
)

// stderrTail is how much of ffmpeg's stderr is kept for error messages.
const stderrTail = 4096

// FFmpeg probes and decodes videos by running the ffmpeg binary.
type FFmpeg struct {
	// Binary is the ffmpeg executable name or path. Empty means "ffmpeg".
	Binary string
	// Realtime reads input at its native frame rate (ffmpeg -re), which is
	// what paces playback.
	Realtime bool
}

func (f FFmpeg) binary() (string, error) {
	name := f.Binary
	if name == "" {
		name = "ffmpeg"
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFFmpegNotFound, err)
	}

	return path, nil
}

// Probe runs "ffmpeg -i path" and parses the video size from its report with
// [ParseVideoSize]. ffmpeg exits non-zero when given no output, so the exit
// status is ignored.
func (f FFmpeg) Probe(ctx context.Context, path string) (geometry.Dimensions, error) {
	bin, err := f.binary()
	if err != nil {
		return geometry.Dimensions{}, err
	}

	var stderr bytes.Buffer

	//nolint:gosec // path is a user-provided CLI argument, not untrusted input.
	cmd := exec.CommandContext(ctx, bin, "-hide_banner", "-nostdin", "-i", path)
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctx.Err() != nil {
		return geometry.Dimensions{}, fmt.Errorf("probing %s: %w", path, ctx.Err())
	}

	size, err := ParseVideoSize(stderr.String())
	if err != nil {
		if runErr != nil {
			return geometry.Dimensions{}, fmt.Errorf("probing %s: %w (ffmpeg: %w)", path, err, runErr)
		}

		return geometry.Dimensions{}, fmt.Errorf("probing %s: %w", path, err)
	}

	slog.DebugContext(ctx, "probed video",
		slog.String("path", path),
		slog.String("size", size.String()),
	)

	return size, nil
}

// Decode starts ffmpeg scaling path to size and writing raw BGRx frames to
// its stdout.
func (f FFmpeg) Decode(ctx context.Context, path string, size geometry.Dimensions) (io.ReadCloser, error) {
	bin, err := f.binary()
	if err != nil {
		return nil, err
	}

	err = size.Check("decode")
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)

	//nolint:gosec // path is a user-provided CLI argument, not untrusted input.
	cmd := exec.CommandContext(ctx, bin, f.args(path, size)...)

	stderr := &tailBuffer{limit: stderrTail}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()

		return nil, fmt.Errorf("creating stdout pipe: %w", err)
	}

	err = cmd.Start()
	if err != nil {
		cancel()

		return nil, fmt.Errorf("starting ffmpeg: %w", err)
	}

	slog.DebugContext(ctx, "started decoder",
		slog.String("cmd", strings.Join(cmd.Args, " ")),
		slog.Int("pid", cmd.Process.Pid),
	)

	return &process{
		ctx:    ctx,
		cmd:    cmd,
		stdout: stdout,
		stderr: stderr,
		cancel: cancel,
	}, nil
}

func (f FFmpeg) args(path string, size geometry.Dimensions) []string {
	args := []string{"-hide_banner", "-nostdin", "-loglevel", "error"}
	if f.Realtime {
		args = append(args, "-re")
	}

	return append(args,
		"-i", path,
		"-vf", fmt.Sprintf("scale=%d:%d", size.W, size.H),
		"-f", "rawvideo",
		"-pix_fmt", "bgra",
		"pipe:1",
	)
}

// process is a running ffmpeg decode.
type process struct {
	ctx    context.Context
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *tailBuffer
	cancel context.CancelFunc
	err    error
	once   sync.Once
	eof    bool
}

func (p *process) Read(b []byte) (int, error) {
	n, err := p.stdout.Read(b)
	if errors.Is(err, io.EOF) {
		p.eof = true
	}

	return n, err
}

// Close stops ffmpeg and waits for it to exit. If the stream was read to EOF,
// an abnormal exit not caused by the context is reported as
// [ErrDecodeFailed]. Closing before EOF kills ffmpeg and reports nothing.
func (p *process) Close() error {
	p.once.Do(func() {
		if !p.eof {
			p.cancel()
		}

		waitErr := p.cmd.Wait()
		canceled := p.ctx.Err() != nil
		p.cancel()

		var exitErr *exec.ExitError
		if waitErr == nil || canceled || !errors.As(waitErr, &exitErr) {
			return
		}

		p.err = fmt.Errorf("%w: %w: %s", ErrDecodeFailed, waitErr, strings.TrimSpace(p.stderr.String()))
	})

	return p.err
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	buf   []byte
	limit int
	mu    sync.Mutex
}

func (t *tailBuffer) Write(b []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf = append(t.buf, b...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = t.buf[over:]
	}

	return len(b), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return string(t.buf)
}
