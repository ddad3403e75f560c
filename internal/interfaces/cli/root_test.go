package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olsonanl/bvbrc-docking/internal/interfaces/cli"
)

const cliProteinPDB = `ATOM      1  N   ALA A   1      11.104   6.134  -6.504  1.00  0.00           N
ATOM      2  CA  ALA A   1      11.639   6.071  -5.147  1.00  0.00           C
ATOM      3  CA  GLY A   2       8.580   6.720  -3.077  1.00  0.00           C
HETATM    4  O   HOH A   3       5.000   5.000   5.000  1.00  0.00           O
END
`

const cliLigandPDB = `HETATM    1  C1  LIG L   1       2.000   3.000   4.000  1.00  0.00           C
END
`

// execute runs the bvdock command tree with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := cli.NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestUnknownCommand(t *testing.T) {
	_, err := execute(t, "no-such-command")
	require.Error(t, err)
}

func TestSeqCmd(t *testing.T) {
	pdb := write(t, t.TempDir(), "prot.pdb", cliProteinPDB)
	out, err := execute(t, "seq", pdb)
	require.NoError(t, err)
	assert.Equal(t, "AG\n", out)
}

func TestSeqCmd_MissingFile(t *testing.T) {
	_, err := execute(t, "seq", filepath.Join(t.TempDir(), "absent.pdb"))
	require.Error(t, err)
}

func TestComplexCmd(t *testing.T) {
	dir := t.TempDir()
	prot := write(t, dir, "rec.pdb", cliProteinPDB)
	lig := write(t, dir, "lig.pdb", cliLigandPDB)

	out, err := execute(t, "complex", prot, lig)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "rec_lig.pdb")+"\n", out)
	assert.FileExists(t, filepath.Join(dir, "rec_lig.pdb"))
}

func TestCleanCmd(t *testing.T) {
	dir := t.TempDir()
	in := write(t, dir, "dirty.pdb", cliProteinPDB)
	outPath := filepath.Join(dir, "clean.pdb")

	out, err := execute(t, "clean", in, outPath)
	require.NoError(t, err)
	assert.Equal(t, outPath+"\n", out)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "HOH")
}

func TestSmilesCmd(t *testing.T) {
	out, err := execute(t, "smiles", "CCO")
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)
}

func TestSmilesCmd_Invalid(t *testing.T) {
	out, err := execute(t, "smiles", "C(C")
	require.Error(t, err)
	assert.Equal(t, "invalid\n", out)
}

func TestConvertCmd_WithStubBinary(t *testing.T) {
	dir := t.TempDir()
	sdf := write(t, dir, "lig.sdf", "irrelevant\n")
	stub := filepath.Join(dir, "obabel-stub")
	require.NoError(t, os.WriteFile(stub, []byte("#!/bin/sh\necho converted\n"), 0o755))

	out, err := execute(t, "convert", "--obabel", stub, sdf)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "lig.pdb")+"\n", out)
}
