package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRevision(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		info *debug.BuildInfo
		want string
		ok   bool
	}{
		"no build info": {
			want: "unknown",
		},
		"no vcs settings": {
			info: &debug.BuildInfo{},
			ok:   true,
			want: "unknown",
		},
		"clean": {
			info: &debug.BuildInfo{Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc123"},
				{Key: "vcs.modified", Value: "false"},
			}},
			ok:   true,
			want: "abc123",
		},
		"dirty": {
			info: &debug.BuildInfo{Settings: []debug.BuildSetting{
				{Key: "vcs.modified", Value: "true"},
				{Key: "vcs.revision", Value: "abc123"},
			}},
			ok:   true,
			want: "abc123-dirty",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := revision(func() (*debug.BuildInfo, bool) { return tc.info, tc.ok })
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestInfoString(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		info Info
		want string
	}{
		"minimal": {
			info: Info{Version: "dev", Revision: "unknown", GoVersion: "go1.25.0", Platform: "linux/amd64"},
			want: "asciiplay dev (revision unknown)\n" +
				"  go version: go1.25.0\n" +
				"  platform:   linux/amd64\n",
		},
		"release": {
			info: Info{
				Version:   "v1.2.0",
				Revision:  "abc123",
				Branch:    "main",
				BuildUser: "ci",
				BuildDate: "2026-01-02",
				GoVersion: "go1.25.0",
				Platform:  "darwin/arm64",
			},
			want: "asciiplay v1.2.0 (revision abc123)\n" +
				"  branch:     main\n" +
				"  built:      ci 2026-01-02\n" +
				"  go version: go1.25.0\n" +
				"  platform:   darwin/arm64\n",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.info.String())
		})
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	info := Get()
	assert.NotEmpty(t, info.Version)
	assert.Equal(t, Revision, info.Revision)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}
