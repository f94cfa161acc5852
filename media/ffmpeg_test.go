package media_test

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/asciiplay/geometry"
	"go.jacobcolvin.com/asciiplay/media"
)

// fakeFFmpeg writes an executable shell script standing in for ffmpeg.
func fakeFFmpeg(t *testing.T, script string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-ins need a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "ffmpeg")
	//nolint:gosec // Test binary must be executable.
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))

	return path
}

func TestFFmpegNotFound(t *testing.T) {
	t.Parallel()

	ff := media.FFmpeg{Binary: filepath.Join(t.TempDir(), "no-such-ffmpeg")}

	_, err := ff.Probe(t.Context(), "clip.mp4")
	require.ErrorIs(t, err, media.ErrFFmpegNotFound)

	_, err = ff.Decode(t.Context(), "clip.mp4", geometry.Dimensions{W: 1, H: 1})
	require.ErrorIs(t, err, media.ErrFFmpegNotFound)
}

func TestFFmpegProbe(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		script string
		want   geometry.Dimensions
		err    error
	}{
		"report on stderr with failing exit": {
			script: `echo "  Stream #0:0: Video: h264, yuv420p, 1280x720 [SAR 1:1 DAR 16:9], 25 fps" >&2; exit 1`,
			want:   geometry.Dimensions{W: 1280, H: 720},
		},
		"no video stream": {
			script: `echo "$4: Invalid data found when processing input" >&2; exit 1`,
			err:    media.ErrVideoSizeNotFound,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ff := media.FFmpeg{Binary: fakeFFmpeg(t, tc.script)}

			got, err := ff.Probe(t.Context(), "clip.mp4")
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				assert.Contains(t, err.Error(), "clip.mp4")

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFFmpegDecode(t *testing.T) {
	t.Parallel()

	t.Run("streams stdout", func(t *testing.T) {
		t.Parallel()

		// Echo the arguments so the command line can be checked too.
		ff := media.FFmpeg{Binary: fakeFFmpeg(t, `printf '%s ' "$@"`), Realtime: true}

		rc, err := ff.Decode(t.Context(), "clip.mp4", geometry.Dimensions{W: 80, H: 19})
		require.NoError(t, err)

		out, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())

		assert.Equal(t,
			"-hide_banner -nostdin -loglevel error -re -i clip.mp4 -vf scale=80:19 -f rawvideo -pix_fmt bgra pipe:1 ",
			string(out))
	})

	t.Run("without realtime", func(t *testing.T) {
		t.Parallel()

		ff := media.FFmpeg{Binary: fakeFFmpeg(t, `printf '%s ' "$@"`)}

		rc, err := ff.Decode(t.Context(), "clip.mp4", geometry.Dimensions{W: 2, H: 3})
		require.NoError(t, err)

		out, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())

		assert.NotContains(t, string(out), "-re ")
		assert.Contains(t, string(out), "scale=2:3")
	})

	t.Run("abnormal exit is reported on close", func(t *testing.T) {
		t.Parallel()

		ff := media.FFmpeg{Binary: fakeFFmpeg(t, `printf 'abc'; echo "decoder exploded" >&2; exit 3`)}

		rc, err := ff.Decode(t.Context(), "clip.mp4", geometry.Dimensions{W: 1, H: 1})
		require.NoError(t, err)

		out, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "abc", string(out))

		err = rc.Close()
		require.ErrorIs(t, err, media.ErrDecodeFailed)
		assert.Contains(t, err.Error(), "decoder exploded")

		// Close is idempotent.
		require.ErrorIs(t, rc.Close(), media.ErrDecodeFailed)
	})

	t.Run("early close kills the process", func(t *testing.T) {
		t.Parallel()

		ff := media.FFmpeg{Binary: fakeFFmpeg(t, `while :; do printf 'xxxxxxxxxxxxxxxx'; done`)}

		rc, err := ff.Decode(t.Context(), "clip.mp4", geometry.Dimensions{W: 1, H: 1})
		require.NoError(t, err)

		buf := make([]byte, 8)
		_, err = io.ReadFull(rc, buf)
		require.NoError(t, err)

		require.NoError(t, rc.Close())
	})

	t.Run("invalid size", func(t *testing.T) {
		t.Parallel()

		ff := media.FFmpeg{Binary: fakeFFmpeg(t, `exit 0`)}

		_, err := ff.Decode(t.Context(), "clip.mp4", geometry.Dimensions{W: 0, H: 19})
		require.ErrorIs(t, err, geometry.ErrInvalidDimensions)
	})
}
