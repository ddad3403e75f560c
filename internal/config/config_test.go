package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olsonanl/bvbrc-docking/internal/config"
	"github.com/olsonanl/bvbrc-docking/pkg/errors"
)

// sampleConfig returns a fully-populated Config for serialization tests.
func sampleConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Dock = config.DockParams{
		Name:        "3CLpro-screen",
		ReceptorPDB: "/data/receptors/3clpro.pdb",
		DrugDBs:     []string{"/data/dbs/enamine.smi", "/data/dbs/zinc.smi"},
		DiffDockDir: "/opt/diffdock",
		OutputDir:   "/scratch/run-001",
		TopN:        5,
	}
	config.ApplyDefaults(cfg)
	return cfg
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "dock.json")
	want := sampleConfig()

	require.NoError(t, config.WriteJSON(path, want))
	got, err := config.ReadJSON[config.Config](path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWriteJSON_TwoSpaceIndent(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "dock.json")
	require.NoError(t, config.WriteJSON(path, sampleConfig()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"dock\"")
}

func TestYAMLRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "dock.yaml")
	want := sampleConfig()

	require.NoError(t, config.WriteYAML(path, want))
	got, err := config.ReadYAML[config.Config](path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWriteYAML_PreservesFieldOrder(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "dock.yaml")
	require.NoError(t, config.WriteYAML(path, sampleConfig()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	// Declaration order, not alphabetical: name before drug_dbs even though
	// "drug_dbs" sorts first.
	assert.Less(t, strings.Index(text, "name:"), strings.Index(text, "drug_dbs:"))
	assert.Less(t, strings.Index(text, "receptor_pdb:"), strings.Index(text, "top_n:"))
	// 4-space indentation under the dock key.
	assert.Contains(t, text, "\n    name:")
}

func TestReadJSON_UnknownFieldRejected(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "dock.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"dock": {"nmae": "typo"}}`), 0o644))

	_, err := config.ReadJSON[config.Config](path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidConfig))
}

func TestReadJSON_MalformedFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "dock.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"dock": `), 0o644))

	_, err := config.ReadJSON[config.Config](path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidConfig))
}

func TestFromArgs_OnlyNamePopulatesNothingElse(t *testing.T) {
	t.Parallel()
	cfg := config.FromArgs(map[string]any{"name": "foo"})

	assert.Equal(t, "foo", cfg.Dock.Name)
	assert.Empty(t, cfg.Dock.ReceptorPDB)
	assert.Empty(t, cfg.Dock.DrugDBs)
	assert.Empty(t, cfg.Dock.DiffDockDir)
	assert.Empty(t, cfg.Dock.OutputDir)
	assert.Zero(t, cfg.Dock.TopN)
}

func TestFromArgs_IgnoresUnlistedKeys(t *testing.T) {
	t.Parallel()
	cfg := config.FromArgs(map[string]any{
		"name":      "bar",
		"top_n":     3,
		"scoring":   "vinardo", // not whitelisted
		"drug_dbs":  []string{"a.smi"},
		"verbosity": 2, // not whitelisted
	})

	assert.Equal(t, "bar", cfg.Dock.Name)
	assert.Equal(t, 3, cfg.Dock.TopN)
	assert.Equal(t, []string{"a.smi"}, cfg.Dock.DrugDBs)
}

func TestFromFlagSet_OnlyChangedFlags(t *testing.T) {
	t.Parallel()
	fs := pflag.NewFlagSet("dock", pflag.ContinueOnError)
	fs.String("name", "", "run name")
	fs.String("receptor_pdb", "", "receptor structure")
	fs.StringSlice("drug_dbs", nil, "ligand databases")
	fs.Int("top_n", config.DefaultTopN, "poses to keep")
	require.NoError(t, fs.Parse([]string{"--name", "foo", "--top_n", "7"}))

	cfg := config.FromFlagSet(fs)
	assert.Equal(t, "foo", cfg.Dock.Name)
	assert.Equal(t, 7, cfg.Dock.TopN)
	// receptor_pdb was registered but never set; it must stay absent.
	assert.Empty(t, cfg.Dock.ReceptorPDB)
}

func TestValidate_RequiresName(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidConfig))
}

func TestValidate_CanonicalizesAndCreates(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	receptor := filepath.Join(dir, "rec.pdb")
	require.NoError(t, os.WriteFile(receptor, []byte("END\n"), 0o644))

	cfg := &config.Config{}
	cfg.Dock.Name = "run"
	cfg.Dock.ReceptorPDB = receptor
	cfg.Dock.OutputDir = filepath.Join(dir, "out", "nested")
	config.ApplyDefaults(cfg)

	require.NoError(t, cfg.Validate())
	assert.True(t, filepath.IsAbs(cfg.Dock.ReceptorPDB))
	assert.DirExists(t, cfg.Dock.OutputDir)
}

func TestValidate_MissingReceptorFails(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{}
	cfg.Dock.Name = "run"
	cfg.Dock.ReceptorPDB = filepath.Join(t.TempDir(), "absent.pdb")
	config.ApplyDefaults(cfg)

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodePathNotFound))
}
