// Package prepare holds the structure-preparation helpers of the docking
// pipeline: sequence extraction, protein/ligand complex assembly, PDB
// cleaning, and SDF-to-PDB conversion via an external converter.
package prepare

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/olsonanl/bvbrc-docking/internal/chem/pdb"
	"github.com/olsonanl/bvbrc-docking/pkg/errors"
)

// Sequence extracts the one-letter amino-acid sequence from the protein
// atoms of pdbFile, residues in structural order. Residues outside the code
// table contribute '-' rather than failing.
func Sequence(pdbFile string) (string, error) {
	s, err := pdb.Read(pdbFile)
	if err != nil {
		return "", err
	}
	return s.SelectProtein().Sequence(), nil
}

// PDBLabel returns the base filename without its last four characters,
// expected to be a ".pdb" extension. The strip is deliberately naive: the
// original pipeline labels any input this way, extension or not.
func PDBLabel(path string) string {
	base := filepath.Base(path)
	if len(base) <= 4 {
		return base
	}
	return base[:len(base)-4]
}

// CombinePDB merges the structures in protPDB and ligPDB into one complex,
// protein atoms first, and writes it to compPDB. When compPDB is empty the
// output path is derived in the ligand's directory as
// "<protlabel>_<liglabel>.pdb". Any pre-existing file at the output path is
// removed first. Returns the output path.
func CombinePDB(protPDB, ligPDB, compPDB string) (string, error) {
	if compPDB == "" {
		compPDB = filepath.Join(filepath.Dir(ligPDB),
			fmt.Sprintf("%s_%s.pdb", PDBLabel(protPDB), PDBLabel(ligPDB)))
	}
	if err := removeIfPresent(compPDB); err != nil {
		return "", err
	}

	prot, err := pdb.Read(protPDB)
	if err != nil {
		return "", err
	}
	lig, err := pdb.Read(ligPDB)
	if err != nil {
		return "", err
	}
	if err := pdb.Merge(prot, lig).Write(compPDB); err != nil {
		return "", err
	}
	return compPDB, nil
}

// CleanPDB writes the protein-atom subset of pdbFile to outputPDB, dropping
// waters, ions and other heteroatoms. Returns outputPDB.
func CleanPDB(pdbFile, outputPDB string) (string, error) {
	s, err := pdb.Read(pdbFile)
	if err != nil {
		return "", err
	}
	prot := s.SelectProtein()
	if len(prot.Atoms) == 0 {
		return "", errors.New(errors.CodeParseFailure, "no protein atoms in structure").WithDetail(pdbFile)
	}
	if err := prot.Write(outputPDB); err != nil {
		return "", err
	}
	return outputPDB, nil
}

func removeIfPresent(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, errors.CodeInternal, "cannot remove stale output").WithDetail(path)
	}
	return nil
}
