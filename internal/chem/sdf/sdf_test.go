package sdf_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olsonanl/bvbrc-docking/internal/chem/sdf"
	"github.com/olsonanl/bvbrc-docking/pkg/errors"
)

// ethanolSDF is a two-record SDF; the second record must never be read by
// ReadFirst. Scoring data items mimic gnina output.
const ethanolSDF = `ethanol
  bvdock  3D

  3  2  0  0  0  0  0  0  0  0999 V2000
   -0.7560    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    0.7560    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    1.2330    1.1500    0.5000 O   0  0  0  0  0  0  0  0  0  0  0  0
  1  2  1  0
  2  3  1  0
M  END
> <minimizedAffinity>
-4.27100

$$$$
methane
  bvdock  3D

  1  0  0  0  0  0  0  0  0  0999 V2000
    9.0000    9.0000    9.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
M  END
$$$$
`

func writeSDF(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mol.sdf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFirst_ParsesFirstRecordOnly(t *testing.T) {
	t.Parallel()
	mol, err := sdf.ReadFirst(writeSDF(t, ethanolSDF))
	require.NoError(t, err)

	assert.Equal(t, "ethanol", mol.Title)
	require.Len(t, mol.Atoms, 3)
	assert.Equal(t, 2, mol.Bonds)
	assert.Equal(t, "C", mol.Atoms[0].Symbol)
	assert.Equal(t, "O", mol.Atoms[2].Symbol)
	assert.InDelta(t, -0.756, mol.Atoms[0].Pos.X, 1e-9)
	assert.InDelta(t, 1.15, mol.Atoms[2].Pos.Y, 1e-9)
}

func TestReadFirst_DataItems(t *testing.T) {
	t.Parallel()
	mol, err := sdf.ReadFirst(writeSDF(t, ethanolSDF))
	require.NoError(t, err)
	assert.Equal(t, "-4.27100", mol.Data["minimizedAffinity"])
}

func TestReadFirst_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := sdf.ReadFirst(filepath.Join(t.TempDir(), "absent.sdf"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodePathNotFound))
}

func TestReadFirst_TruncatedAtomBlock(t *testing.T) {
	t.Parallel()
	content := "broken\n\n\n  5  0  0  0  0  0  0  0  0  0999 V2000\n" +
		"    0.0000    0.0000    0.0000 C   0  0\n"
	_, err := sdf.ReadFirst(writeSDF(t, content))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeParseFailure))
}

func TestReadFirst_EmptyFile(t *testing.T) {
	t.Parallel()
	_, err := sdf.ReadFirst(writeSDF(t, ""))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeParseFailure))
}

func TestBounds(t *testing.T) {
	t.Parallel()
	mol, err := sdf.ReadFirst(writeSDF(t, ethanolSDF))
	require.NoError(t, err)

	min, max, ok := mol.Bounds()
	require.True(t, ok)
	assert.InDelta(t, -0.756, min.X, 1e-9)
	assert.InDelta(t, 0.0, min.Y, 1e-9)
	assert.InDelta(t, 0.0, min.Z, 1e-9)
	assert.InDelta(t, 1.233, max.X, 1e-9)
	assert.InDelta(t, 1.15, max.Y, 1e-9)
	assert.InDelta(t, 0.5, max.Z, 1e-9)
}

func TestBounds_EmptyMolecule(t *testing.T) {
	t.Parallel()
	mol := &sdf.Molecule{}
	_, _, ok := mol.Bounds()
	assert.False(t, ok)
}

func TestMolecule_SurvivesBackingFileRemoval(t *testing.T) {
	t.Parallel()
	path := writeSDF(t, ethanolSDF)
	mol, err := sdf.ReadFirst(path)
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	assert.Len(t, mol.Atoms, 3)
	assert.Equal(t, "-4.27100", mol.Data["minimizedAffinity"])
}
