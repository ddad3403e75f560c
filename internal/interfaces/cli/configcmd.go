package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/olsonanl/bvbrc-docking/internal/config"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and scaffold run configuration",
	}
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write a template config file",
		Long:  "Write a template run configuration to <path>. The format follows the\nfile extension: .json for JSON, anything else for YAML.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			cfg := &config.Config{}
			cfg.Dock.Name = "example-run"
			cfg.Dock.ReceptorPDB = "receptor.pdb"
			cfg.Dock.DrugDBs = []string{"ligands.sdf"}
			cfg.Dock.OutputDir = "out"
			config.ApplyDefaults(cfg)

			var err error
			if strings.EqualFold(filepath.Ext(path), ".json") {
				err = config.WriteJSON(path, cfg)
			} else {
				err = config.WriteYAML(path, cfg)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <path>",
		Short: "Load a config file and print the resolved result",
		Long:  "Load <path>, apply defaults and environment overrides, resolve and\ncheck every input path it names, and print the result as JSON.\nInspection never creates the output directory.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Inspect(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, cfg)
		},
	}
	return cmd
}
