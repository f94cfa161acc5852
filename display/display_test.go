package display_test

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/asciiplay/display"
	"go.jacobcolvin.com/asciiplay/stringtest"
)

// countingWriter records each Write call separately.
type countingWriter struct {
	writes []string
}

func (c *countingWriter) Write(b []byte) (int, error) {
	c.writes = append(c.writes, string(b))

	return len(b), nil
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestTerminal(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		frames []string
		want   []string
		clear  bool
	}{
		"cursor home before every frame": {
			frames: []string{"ab\ncd", "ef\ngh"},
			want:   []string{"\x1b[1;1Hab\ncd", "\x1b[1;1Hef\ngh"},
		},
		"clear only once": {
			frames: []string{"1", "2"},
			clear:  true,
			want:   []string{"\x1b[2J\x1b[1;1H1", "\x1b[1;1H2"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			w := &countingWriter{}
			sink := display.NewTerminal(w, tc.clear)

			for _, f := range tc.frames {
				require.NoError(t, sink.WriteFrame(f))
			}

			// One underlying write per frame.
			assert.Equal(t, tc.want, w.writes)
		})
	}
}

func TestTerminalLargeFrame(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	sink := display.NewTerminal(&buf, false)

	row := string(bytes.Repeat([]byte("#"), 300))
	frame := stringtest.JoinLF(row, row, row)

	require.NoError(t, sink.WriteFrame(frame))
	assert.Equal(t, frame, stringtest.StripANSI(buf.String()))
}

func TestTerminalError(t *testing.T) {
	t.Parallel()

	sink := display.NewTerminal(failingWriter{}, false)
	require.ErrorContains(t, sink.WriteFrame("x"), "disk on fire")
}

// recordingSink remembers frames and optionally fails.
type recordingSink struct {
	err    error
	frames []string
}

func (r *recordingSink) WriteFrame(text string) error {
	r.frames = append(r.frames, text)

	return r.err
}

func TestMulti(t *testing.T) {
	t.Parallel()

	t.Run("writes to all in order", func(t *testing.T) {
		t.Parallel()

		a, b := &recordingSink{}, &recordingSink{}
		sink := display.Multi(a, nil, b)

		require.NoError(t, sink.WriteFrame("one"))
		require.NoError(t, sink.WriteFrame("two"))

		assert.Equal(t, []string{"one", "two"}, a.frames)
		assert.Equal(t, []string{"one", "two"}, b.frames)
	})

	t.Run("stops at first error", func(t *testing.T) {
		t.Parallel()

		errBoom := errors.New("boom")
		a, b := &recordingSink{err: errBoom}, &recordingSink{}

		require.ErrorIs(t, display.Multi(a, b).WriteFrame("one"), errBoom)
		assert.Empty(t, b.frames)
	})

	t.Run("single sink is returned as is", func(t *testing.T) {
		t.Parallel()

		a := &recordingSink{}
		assert.Same(t, a, display.Multi(nil, a))
	})
}

func TestSizeNotTerminal(t *testing.T) {
	t.Parallel()

	f, err := os.CreateTemp(t.TempDir(), "not-a-tty")
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, f.Close()) })

	_, err = display.Size(int(f.Fd()))
	require.ErrorIs(t, err, display.ErrNotTerminal)
}
