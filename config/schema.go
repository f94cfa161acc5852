package config

import (
	"github.com/google/jsonschema-go/jsonschema"
)

// Choices lists the allowed values for enumerated settings. Keys are YAML
// field names.
type Choices map[string][]string

// Schema returns the JSON Schema (Draft 7) of a config file. Fields named in
// choices are restricted to the listed values.
func Schema(choices Choices) *jsonschema.Schema {
	str := func(desc string) *jsonschema.Schema {
		return &jsonschema.Schema{Type: "string", Description: desc}
	}
	integer := func(desc string) *jsonschema.Schema {
		return &jsonschema.Schema{Type: "integer", Description: desc}
	}
	boolean := func(desc string) *jsonschema.Schema {
		return &jsonschema.Schema{Type: "boolean", Description: desc}
	}

	props := map[string]*jsonschema.Schema{
		"logLevel":   str("log level"),
		"logFormat":  str("log format"),
		"rasterizer": str("how pixels are drawn as text"),
		"ramp":       str("glyphs from darkest to brightest"),
		"display":    str("where frames are shown"),
		"ffmpeg":     str("ffmpeg executable name or path"),
		"listen":     str("address to mirror frames over WebSocket, empty to disable"),
		"chunkSize":  integer("bytes read from the decoder at a time"),
		"fps":        integer("frame rate for PNG frame directories"),
		"realtime":   boolean("decode at the video's native frame rate"),
		"clear":      boolean("clear the screen before the first frame"),
	}

	for name, values := range choices {
		p, ok := props[name]
		if !ok {
			continue
		}

		for _, v := range values {
			p.Enum = append(p.Enum, v)
		}
	}

	return &jsonschema.Schema{
		Schema:               "http://json-schema.org/draft-07/schema#",
		Title:                "asciiplay config",
		Type:                 "object",
		Properties:           props,
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}
}
