// Package config loads asciiplay settings from a YAML file.
//
// The file mirrors the command-line flags; any flag given on the command line
// wins over the file. Unknown keys are rejected. [Schema] describes the file
// format as JSON Schema for editor validation.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/pflag"
)

// ErrInvalidConfig indicates a config file that could not be parsed.
var ErrInvalidConfig = errors.New("invalid config")

// File is the content of a config file. Nil fields are unset.
type File struct {
	LogLevel   *string `json:"logLevel,omitempty"   yaml:"logLevel"`
	LogFormat  *string `json:"logFormat,omitempty"  yaml:"logFormat"`
	Rasterizer *string `json:"rasterizer,omitempty" yaml:"rasterizer"`
	Ramp       *string `json:"ramp,omitempty"       yaml:"ramp"`
	Display    *string `json:"display,omitempty"    yaml:"display"`
	FFmpeg     *string `json:"ffmpeg,omitempty"     yaml:"ffmpeg"`
	Listen     *string `json:"listen,omitempty"     yaml:"listen"`
	ChunkSize  *int    `json:"chunkSize,omitempty"  yaml:"chunkSize"`
	FPS        *int    `json:"fps,omitempty"        yaml:"fps"`
	Realtime   *bool   `json:"realtime,omitempty"   yaml:"realtime"`
	Clear      *bool   `json:"clear,omitempty"      yaml:"clear"`
}

// Load reads and parses the config file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Config path from CLI flag is expected.
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return Parse(data)
}

// Parse parses config file content. Empty content yields an empty [File].
func Parse(data []byte) (*File, error) {
	f := &File{}

	err := yaml.UnmarshalWithOptions(data, f, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return f, nil
}

// Values returns the set fields keyed by their flag names, formatted for
// [github.com/spf13/pflag.FlagSet.Set].
func (f *File) Values() map[string]string {
	out := map[string]string{}

	setString := func(name string, v *string) {
		if v != nil {
			out[name] = *v
		}
	}
	setInt := func(name string, v *int) {
		if v != nil {
			out[name] = fmt.Sprint(*v)
		}
	}
	setBool := func(name string, v *bool) {
		if v != nil {
			out[name] = fmt.Sprint(*v)
		}
	}

	setString("log-level", f.LogLevel)
	setString("log-format", f.LogFormat)
	setString("rasterizer", f.Rasterizer)
	setString("ramp", f.Ramp)
	setString("display", f.Display)
	setString("ffmpeg", f.FFmpeg)
	setString("listen", f.Listen)
	setInt("chunk-size", f.ChunkSize)
	setInt("fps", f.FPS)
	setBool("realtime", f.Realtime)
	setBool("clear", f.Clear)

	return out
}

// Apply sets every flag in flags that f has a value for and that was not
// given on the command line. Values for flags not in flags are ignored.
func (f *File) Apply(flags *pflag.FlagSet) error {
	for name, value := range f.Values() {
		flag := flags.Lookup(name)
		if flag == nil || flag.Changed {
			continue
		}

		err := flags.Set(name, value)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, name, err)
		}
	}

	return nil
}
