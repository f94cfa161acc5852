package stringtest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.jacobcolvin.com/asciiplay/stringtest"
)

func TestJoinLF(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want  string
		input []string
	}{
		"empty input": {
			input: nil,
			want:  "",
		},
		"single string": {
			input: []string{"hello"},
			want:  "hello",
		},
		"three strings": {
			input: []string{"line1", "line2", "line3"},
			want:  "line1\nline2\nline3",
		},
		"with empty string": {
			input: []string{"a", "", "c"},
			want:  "a\n\nc",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := stringtest.JoinLF(tc.input...)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStripANSI(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  string
	}{
		"plain text": {
			input: "hello",
			want:  "hello",
		},
		"truecolor foreground": {
			input: "\x1b[38;2;1;2;3m@\x1b[0m",
			want:  "@",
		},
		"background and reset per row": {
			input: "\x1b[48;2;9;9;9m \x1b[48;2;0;0;0m \x1b[0m\n\x1b[48;2;1;1;1m \x1b[0m",
			want:  "  \n ",
		},
		"cursor home and clear": {
			input: "\x1b[2J\x1b[1;1Hframe",
			want:  "frame",
		},
		"cursor visibility": {
			input: "\x1b[?25lx\x1b[?25h",
			want:  "x",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, stringtest.StripANSI(tc.input))
		})
	}
}
