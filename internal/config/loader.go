package config

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/olsonanl/bvbrc-docking/pkg/errors"
)

// envPrefix is the environment variable prefix for all pipeline settings.
const envPrefix = "BVDOCK"

// newViper builds a pre-configured Viper instance: BVDOCK_ env prefix,
// automatic env binding, and a key replacer mapping "." to "_" so nested
// keys like "dock.output_dir" resolve to "BVDOCK_DOCK_OUTPUT_DIR".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// Unmarshal only sees keys viper already knows about, so env-only keys
	// must be bound explicitly for LoadFromEnv to work.
	for _, key := range argKeys {
		_ = v.BindEnv("dock." + key)
	}
	_ = v.BindEnv("log.level")
	_ = v.BindEnv("log.format")
	return v
}

// configType infers the viper config type from the file extension; the
// pipeline accepts the same schema as JSON or YAML.
func configType(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return "yaml"
}

// Load reads the config file at configPath (JSON or YAML by extension),
// merges BVDOCK_* environment overrides, applies defaults, and validates the
// result. Validation canonicalizes the configured paths and creates the
// output directory.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType(configType(configPath))

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "cannot read config file").WithDetail(configPath)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from BVDOCK_* environment variables,
// with no config file required.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// Inspect reads the config file like Load but validates read-only: input
// paths are still resolved and must exist, the output directory is not
// created. Inspecting a config any number of times changes nothing on disk.
func Inspect(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType(configType(configPath))

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "cannot read config file").WithDetail(configPath)
	}
	return unmarshalWith(v, (*Config).ValidateReadOnly)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	return unmarshalWith(v, (*Config).Validate)
}

func unmarshalWith(v *viper.Viper, validate func(*Config) error) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "cannot unmarshal configuration")
	}
	ApplyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the newly parsed
// Config whenever the file changes on disk. Changes that fail to parse or
// validate are dropped so the pipeline never observes a broken config.
// Watch is non-blocking; viper manages the watcher goroutine.
func Watch(configPath string, onChange func(*Config)) error {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType(configType(configPath))
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrap(err, errors.CodeInvalidConfig, "cannot read config file").WithDetail(configPath)
	}

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
	return nil
}

// FromFlagSet builds a Config from the flags the user actually set on fs,
// using the same whitelist as FromArgs. Flags left at their default are
// treated as absent, matching the argument-bag semantics.
func FromFlagSet(fs *pflag.FlagSet) *Config {
	args := make(map[string]any)
	for _, key := range argKeys {
		if fs.Lookup(key) == nil || !fs.Changed(key) {
			continue
		}
		switch key {
		case "drug_dbs":
			if v, err := fs.GetStringSlice(key); err == nil {
				args[key] = v
			}
		case "top_n":
			if v, err := fs.GetInt(key); err == nil {
				args[key] = v
			}
		default:
			if v, err := fs.GetString(key); err == nil {
				args[key] = v
			}
		}
	}
	return FromArgs(args)
}
