// Package cli defines the bvdock command tree. Every subcommand returns an
// error instead of exiting; main maps any error to exit status 1 so shell
// pipelines see the usual 0-on-success, 1-on-failure contract.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/olsonanl/bvbrc-docking/internal/config"
	"github.com/olsonanl/bvbrc-docking/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
	Timeout    time.Duration
}

// CLIContext carries initialized dependencies through the command tree.
// Config is nil unless --config was given; commands that can run from
// positional arguments alone do not require one.
type CLIContext struct {
	Config  *config.Config
	Logger  logging.Logger
	Timeout time.Duration
}

// NewRootCommand creates the root cobra command with all global flags and
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "bvdock",
		Short:   "Docking pipeline utilities for protein-ligand screening",
		Long:    "bvdock prepares inputs for and scores outputs of a protein-ligand\ndocking pipeline: PDB and SDF handling, sequence extraction, SMILES\nvalidation, format conversion via Open Babel, and pose minimization\nvia gnina.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (JSON or YAML)")
	pf.StringVar(&opts.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&opts.LogFormat, "log-format", "console", "log format (console, json)")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Minute, "external tool timeout")

	cmd.AddCommand(
		NewConfigCmd(),
		NewSeqCmd(),
		NewConvertCmd(),
		NewComplexCmd(),
		NewCleanCmd(),
		NewSmilesCmd(),
		NewScoreCmd(),
	)

	return cmd
}

// persistentPreRun initializes the logger and optional config, then stores
// a CLIContext on the command's context.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	logger, err := logging.NewLogger(logging.Config{
		Level:       opts.LogLevel,
		Format:      opts.LogFormat,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	logging.SetDefault(logger)

	var cfg *config.Config
	switch {
	case opts.ConfigPath != "":
		cfg, err = config.Load(opts.ConfigPath)
	case os.Getenv("BVDOCK_DOCK_NAME") != "":
		// A run configured entirely through BVDOCK_* variables.
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	cliCtx := &CLIContext{
		Config:  cfg,
		Logger:  logger,
		Timeout: opts.Timeout,
	}
	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
	return nil
}

// GetCLIContext extracts the CLIContext stored by persistentPreRun. Commands
// constructed outside NewRootCommand get a usable default.
func GetCLIContext(cmd *cobra.Command) *CLIContext {
	if ctx := cmd.Context(); ctx != nil {
		if cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext); ok && cliCtx != nil {
			return cliCtx
		}
	}
	return &CLIContext{Logger: logging.Default(), Timeout: 30 * time.Minute}
}

// toolContext derives the context bounding an external-tool invocation.
func toolContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	cliCtx := GetCLIContext(cmd)
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	if cliCtx.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, cliCtx.Timeout)
}

// printJSON writes data as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, data any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// Execute runs the command tree.
func Execute() error {
	return NewRootCommand().Execute()
}
