// Package version reports build metadata for the asciiplay binary.
//
// Release builds set [Version], [Branch], [BuildUser] and [BuildDate] with
// -ldflags "-X go.jacobcolvin.com/asciiplay/version.Version=...". The VCS
// revision comes from the embedded build info.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	// Version is the application version, set via ldflags.
	Version string
	// Branch is the git branch, set via ldflags.
	Branch string
	// BuildUser is the user who built the binary, set via ldflags.
	BuildUser string
	// BuildDate is when the binary was built, set via ldflags.
	BuildDate string

	// Revision is the git commit revision.
	Revision = revision(debug.ReadBuildInfo)
)

// Info is a snapshot of the build metadata.
type Info struct {
	Version   string `json:"version"`
	Revision  string `json:"revision"`
	Branch    string `json:"branch,omitempty"`
	BuildUser string `json:"buildUser,omitempty"`
	BuildDate string `json:"buildDate,omitempty"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Get returns the current build metadata. An unset version reads "dev".
func Get() Info {
	v := Version
	if v == "" {
		v = "dev"
	}

	return Info{
		Version:   v,
		Revision:  Revision,
		Branch:    Branch,
		BuildUser: BuildUser,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String formats i as a short multi-line report. Unset optional fields are
// left out.
func (i Info) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "asciiplay %s (revision %s)\n", i.Version, i.Revision)

	if i.Branch != "" {
		fmt.Fprintf(&sb, "  branch:     %s\n", i.Branch)
	}

	if i.BuildUser != "" || i.BuildDate != "" {
		fmt.Fprintf(&sb, "  built:      %s\n", strings.TrimSpace(i.BuildUser+" "+i.BuildDate))
	}

	fmt.Fprintf(&sb, "  go version: %s\n", i.GoVersion)
	fmt.Fprintf(&sb, "  platform:   %s\n", i.Platform)

	return sb.String()
}

func revision(read func() (*debug.BuildInfo, bool)) string {
	rev := "unknown"

	buildInfo, ok := read()
	if !ok {
		return rev
	}

	modified := false

	for _, v := range buildInfo.Settings {
		switch v.Key {
		case "vcs.revision":
			rev = v.Value
		case "vcs.modified":
			if v.Value == "true" {
				modified = true
			}
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
