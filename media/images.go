package media

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/image/draw"

	"go.jacobcolvin.com/asciiplay/geometry"
)

// Images plays a directory of PNG frames, in filename order.
type Images struct {
	// FPS paces the stream; zero or less streams as fast as it is read.
	FPS int
}

// Probe returns the size of the first frame in dir.
func (i Images) Probe(_ context.Context, dir string) (geometry.Dimensions, error) {
	names, err := frameNames(dir)
	if err != nil {
		return geometry.Dimensions{}, err
	}

	f, err := os.Open(filepath.Join(dir, names[0]))
	if err != nil {
		return geometry.Dimensions{}, fmt.Errorf("probing %s: %w", dir, err)
	}
	defer closeQuietly(f)

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		return geometry.Dimensions{}, fmt.Errorf("%w: %s: %w", ErrVideoSizeNotFound, names[0], err)
	}

	return geometry.Dimensions{W: cfg.Width, H: cfg.Height}, nil
}

// Decode streams every frame in dir, scaled to size, as BGRx bytes. Frames
// are decoded one at a time as the stream is read.
func (i Images) Decode(ctx context.Context, dir string, size geometry.Dimensions) (io.ReadCloser, error) {
	err := size.Check("decode")
	if err != nil {
		return nil, err
	}

	names, err := frameNames(dir)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	pr, pw := io.Pipe()

	go func() {
		pw.CloseWithError(i.stream(ctx, dir, names, size, pw))
	}()

	return &imageStream{PipeReader: pr, cancel: cancel}, nil
}

func (i Images) stream(ctx context.Context, dir string, names []string, size geometry.Dimensions, w io.Writer) error {
	var tick <-chan time.Time

	if i.FPS > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(i.FPS))
		defer ticker.Stop()

		tick = ticker.C
	}

	dst := image.NewRGBA(image.Rect(0, 0, size.W, size.H))

	for _, name := range names {
		img, err := decodePNG(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("decoding %s: %w", name, err)
		}

		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		swapRedBlue(dst.Pix)

		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		}

		_, err = w.Write(dst.Pix)
		if err != nil {
			return err
		}

		slog.DebugContext(ctx, "streamed frame", slog.String("name", name))
	}

	return nil
}

// imageStream is the read side of a running [Images.Decode].
type imageStream struct {
	*io.PipeReader
	cancel context.CancelFunc
}

// Close stops the producer. Errors from an early stop are not reported.
func (s *imageStream) Close() error {
	s.cancel()

	return s.PipeReader.Close()
}

// swapRedBlue converts RGBA pixels to BGRx in place.
func swapRedBlue(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}

// frameNames returns the PNG file names in dir, sorted.
func frameNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var names []string

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		if strings.HasSuffix(strings.ToLower(e.Name()), ".png") {
			names = append(names, e.Name())
		}
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFrames, dir)
	}

	slices.Sort(names)

	return names, nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(f)

	return png.Decode(f)
}

func closeQuietly(c io.Closer) {
	err := c.Close()
	if err != nil {
		slog.Warn("closing file", slog.Any("err", err))
	}
}
