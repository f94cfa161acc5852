package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/asciiplay/config"
	"go.jacobcolvin.com/asciiplay/log"
	"go.jacobcolvin.com/asciiplay/player"
	"go.jacobcolvin.com/asciiplay/rasterize"
	"go.jacobcolvin.com/asciiplay/version"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the config file format",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the YAML config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema := config.Schema(config.Choices{
				"logLevel":   log.GetAllLevelStrings(),
				"logFormat":  log.GetAllFormatStrings(),
				"rasterizer": rasterize.Names(),
				"display":    player.Displays(),
			})

			return writeJSON(cmd, schema)
		},
	})

	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			if asJSON {
				return writeJSON(cmd, info)
			}

			_, err := fmt.Fprint(cmd.OutOrStdout(), info.String())
			if err != nil {
				return fmt.Errorf("writing version: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	out = append(out, '\n')

	_, err = cmd.OutOrStdout().Write(out)
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}
