// Package config defines the docking pipeline configuration model, its
// serialization helpers, and the path validation applied at construction
// time. No tool invocation logic lives here.
package config

import (
	"path/filepath"

	"github.com/olsonanl/bvbrc-docking/internal/infrastructure/monitoring/logging"
	"github.com/olsonanl/bvbrc-docking/pkg/errors"
)

// DockParams is the `dock` section of the pipeline configuration: one
// docking run over a receptor and one or more ligand databases.
//
// Field order is meaningful: YAML output preserves declaration order rather
// than alphabetizing, so generated config files read the way operators wrote
// them.
type DockParams struct {
	// Name labels the run; output artifacts are filed under it.
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// ReceptorPDB is the receptor structure. Must exist when set.
	ReceptorPDB string `json:"receptor_pdb" yaml:"receptor_pdb" mapstructure:"receptor_pdb"`

	// DrugDBs lists ligand database files. Every entry must exist.
	DrugDBs []string `json:"drug_dbs" yaml:"drug_dbs" mapstructure:"drug_dbs"`

	// DiffDockDir is the DiffDock installation directory. Must exist when set.
	DiffDockDir string `json:"diffdock_dir" yaml:"diffdock_dir" mapstructure:"diffdock_dir"`

	// OutputDir receives run artifacts. It is created at validation time and
	// must not already exist; runs never reuse a previous run's output.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// TopN is the number of top-scoring poses kept per ligand.
	TopN int `json:"top_n" yaml:"top_n" mapstructure:"top_n"`
}

// Config is the root configuration for the docking pipeline utilities.
type Config struct {
	Dock DockParams     `json:"dock" yaml:"dock" mapstructure:"dock"`
	Log  logging.Config `json:"log" yaml:"log" mapstructure:"log"`
}

// Default values for optional fields.
const (
	DefaultTopN      = 10
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills zero-value optional fields with pipeline defaults.
// Fields already set by the caller are left unchanged.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Dock.TopN == 0 {
		cfg.Dock.TopN = DefaultTopN
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// argKeys is the whitelist of command-line fields admitted into DockParams.
var argKeys = []string{
	"name",
	"receptor_pdb",
	"drug_dbs",
	"diffdock_dir",
	"output_dir",
	"top_n",
}

// FromArgs builds a Config from an argument bag, admitting only the
// whitelisted keys and nesting them under the dock section. Keys absent
// from the bag are left at their zero value rather than defaulted, so
// Validate can distinguish "not provided" from "provided empty".
func FromArgs(args map[string]any) *Config {
	cfg := &Config{}
	for _, key := range argKeys {
		val, ok := args[key]
		if !ok {
			continue
		}
		switch key {
		case "name":
			cfg.Dock.Name, _ = val.(string)
		case "receptor_pdb":
			cfg.Dock.ReceptorPDB, _ = val.(string)
		case "drug_dbs":
			switch v := val.(type) {
			case []string:
				cfg.Dock.DrugDBs = v
			case string:
				cfg.Dock.DrugDBs = []string{v}
			}
		case "diffdock_dir":
			cfg.Dock.DiffDockDir, _ = val.(string)
		case "output_dir":
			cfg.Dock.OutputDir, _ = val.(string)
		case "top_n":
			switch v := val.(type) {
			case int:
				cfg.Dock.TopN = v
			case float64:
				cfg.Dock.TopN = int(v)
			}
		}
	}
	return cfg
}

// Validate checks the fully-populated Config and canonicalizes its paths:
// required inputs are resolved with ResolveExisting, the output directory is
// created with ResolveCreate. The first failure is returned; callers treat
// any error as fatal for the run.
func (c *Config) Validate() error {
	if err := c.validateInputs(); err != nil {
		return err
	}
	if c.Dock.OutputDir != "" {
		var err error
		if c.Dock.OutputDir, err = ResolveCreate(c.Dock.OutputDir); err != nil {
			return errors.Wrap(err, errors.CodeUnknown, "dock.output_dir")
		}
	}
	return nil
}

// ValidateReadOnly performs the same checks as Validate but leaves the
// filesystem untouched: the output directory is resolved to absolute form
// without being created, so repeated inspection of one config is
// side-effect free.
func (c *Config) ValidateReadOnly() error {
	if err := c.validateInputs(); err != nil {
		return err
	}
	if c.Dock.OutputDir != "" {
		abs, err := filepath.Abs(c.Dock.OutputDir)
		if err != nil {
			return errors.Wrap(err, errors.CodeInvalidConfig, "dock.output_dir")
		}
		c.Dock.OutputDir = abs
	}
	return nil
}

func (c *Config) validateInputs() error {
	if c.Dock.Name == "" {
		return errors.New(errors.CodeInvalidConfig, "dock.name is required")
	}
	if c.Dock.TopN < 1 {
		return errors.Newf(errors.CodeInvalidConfig, "dock.top_n must be >= 1, got %d", c.Dock.TopN)
	}

	var err error
	if c.Dock.ReceptorPDB, err = ResolveExisting(c.Dock.ReceptorPDB); err != nil {
		return errors.Wrap(err, errors.CodeUnknown, "dock.receptor_pdb")
	}
	for i, db := range c.Dock.DrugDBs {
		if c.Dock.DrugDBs[i], err = ResolveExisting(db); err != nil {
			return errors.Wrap(err, errors.CodeUnknown, "dock.drug_dbs")
		}
	}
	if c.Dock.DiffDockDir, err = ResolveExisting(c.Dock.DiffDockDir); err != nil {
		return errors.Wrap(err, errors.CodeUnknown, "dock.diffdock_dir")
	}
	return nil
}
