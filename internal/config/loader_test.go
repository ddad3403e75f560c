package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olsonanl/bvbrc-docking/internal/config"
)

// writeRunInputs creates a receptor file and returns (dir, receptorPath).
func writeRunInputs(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	receptor := filepath.Join(dir, "rec.pdb")
	require.NoError(t, os.WriteFile(receptor, []byte("END\n"), 0o644))
	return dir, receptor
}

func TestLoad_YAMLFile(t *testing.T) {
	dir, receptor := writeRunInputs(t)
	path := filepath.Join(dir, "run.yaml")
	raw := "dock:\n" +
		"    name: screen-01\n" +
		"    receptor_pdb: " + receptor + "\n" +
		"    output_dir: " + filepath.Join(dir, "out") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "screen-01", cfg.Dock.Name)
	assert.Equal(t, config.DefaultTopN, cfg.Dock.TopN)
	assert.DirExists(t, cfg.Dock.OutputDir)
}

func TestLoad_JSONFile(t *testing.T) {
	dir, receptor := writeRunInputs(t)
	path := filepath.Join(dir, "run.json")
	raw := `{"dock": {"name": "screen-02", "receptor_pdb": "` + receptor +
		`", "output_dir": "` + filepath.Join(dir, "out") + `", "top_n": 3}}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "screen-02", cfg.Dock.Name)
	assert.Equal(t, 3, cfg.Dock.TopN)
}

func TestLoad_MissingFileFails(t *testing.T) {
	t.Parallel()
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	dir, receptor := writeRunInputs(t)
	path := filepath.Join(dir, "run.yaml")
	raw := "dock:\n" +
		"    name: from-file\n" +
		"    receptor_pdb: " + receptor + "\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	t.Setenv("BVDOCK_DOCK_NAME", "from-env")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Dock.Name)
}

func TestLoadFromEnv(t *testing.T) {
	_, receptor := writeRunInputs(t)
	t.Setenv("BVDOCK_DOCK_NAME", "env-only")
	t.Setenv("BVDOCK_DOCK_RECEPTOR_PDB", receptor)
	t.Setenv("BVDOCK_DOCK_TOP_N", "4")

	cfg, err := config.LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "env-only", cfg.Dock.Name)
	assert.Equal(t, 4, cfg.Dock.TopN)
	assert.Contains(t, cfg.Dock.ReceptorPDB, "rec.pdb")
}

func TestLoadFromEnv_NameRequired(t *testing.T) {
	_, err := config.LoadFromEnv()
	require.Error(t, err)
}

func TestInspect_LeavesOutputDirAlone(t *testing.T) {
	dir, receptor := writeRunInputs(t)
	path := filepath.Join(dir, "run.yaml")
	out := filepath.Join(dir, "out")
	raw := "dock:\n" +
		"    name: screen-03\n" +
		"    receptor_pdb: " + receptor + "\n" +
		"    output_dir: " + out + "\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	// Twice, to show inspection is repeatable.
	for i := 0; i < 2; i++ {
		cfg, err := config.Inspect(path)
		require.NoError(t, err)
		assert.Equal(t, out, cfg.Dock.OutputDir)
		assert.NoDirExists(t, out)
	}
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	dir, receptor := writeRunInputs(t)
	path := filepath.Join(dir, "run.yaml")
	write := func(name string) {
		raw := "dock:\n" +
			"    name: " + name + "\n" +
			"    receptor_pdb: " + receptor + "\n"
		require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
	}
	write("before")

	reloads := make(chan *config.Config, 4)
	require.NoError(t, config.Watch(path, func(cfg *config.Config) {
		reloads <- cfg
	}))

	write("after")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-reloads:
			if cfg.Dock.Name == "after" {
				assert.Equal(t, config.DefaultTopN, cfg.Dock.TopN)
				return
			}
			// A first event may still carry the old content; keep waiting.
		case <-deadline:
			t.Fatal("config change was not observed")
		}
	}
}

func TestWatch_MissingFileFails(t *testing.T) {
	t.Parallel()
	err := config.Watch(filepath.Join(t.TempDir(), "absent.yaml"), func(*config.Config) {})
	require.Error(t, err)
}
