// Package pdb reads and writes Protein Data Bank structure files at the
// level the docking pipeline needs: ATOM/HETATM records of the first model,
// protein-atom selection, residue iteration in structural order, and
// structure merging. It is not a general PDB toolkit; anisotropic records,
// alternate locations and connectivity are ignored.
package pdb

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/olsonanl/bvbrc-docking/pkg/errors"
)

// Atom is one ATOM or HETATM record.
type Atom struct {
	Serial    int
	Name      string
	ResName   string
	Chain     byte
	ResSeq    int
	Pos       r3.Vec
	Occupancy float64
	BFactor   float64
	Element   string
	Het       bool
}

// Structure is an ordered collection of atoms read from one PDB model.
type Structure struct {
	Atoms []Atom
}

// Residue identifies one residue and the span of atoms belonging to it,
// in order of first appearance in the file.
type Residue struct {
	Name   string
	Chain  byte
	Seq    int
	NAtoms int
}

// parseAtomLine parses a single ATOM/HETATM record using the fixed PDB
// columns. Short lines are padded so files that omit trailing fields
// (occupancy, b-factor, element) still parse.
func parseAtomLine(line string) (Atom, error) {
	if len(line) < 80 {
		line = line + strings.Repeat(" ", 80-len(line))
	}
	atom := Atom{Het: strings.HasPrefix(line, "HETATM")}

	var err error
	if atom.Serial, err = strconv.Atoi(strings.TrimSpace(line[6:11])); err != nil {
		return Atom{}, fmt.Errorf("bad serial %q: %w", line[6:11], err)
	}
	atom.Name = strings.TrimSpace(line[12:16])
	// Column 17 is officially altLoc but many writers spill the residue name
	// into it; columns 17-19 are the reliable residue-name span.
	atom.ResName = strings.TrimSpace(line[17:20])
	atom.Chain = line[21]
	if atom.ResSeq, err = strconv.Atoi(strings.TrimSpace(line[22:26])); err != nil {
		return Atom{}, fmt.Errorf("bad residue number %q: %w", line[22:26], err)
	}
	if atom.Pos.X, err = strconv.ParseFloat(strings.TrimSpace(line[30:38]), 64); err != nil {
		return Atom{}, fmt.Errorf("bad x coordinate: %w", err)
	}
	if atom.Pos.Y, err = strconv.ParseFloat(strings.TrimSpace(line[38:46]), 64); err != nil {
		return Atom{}, fmt.Errorf("bad y coordinate: %w", err)
	}
	if atom.Pos.Z, err = strconv.ParseFloat(strings.TrimSpace(line[46:54]), 64); err != nil {
		return Atom{}, fmt.Errorf("bad z coordinate: %w", err)
	}
	// Occupancy and b-factor are optional in practice.
	atom.Occupancy, _ = strconv.ParseFloat(strings.TrimSpace(line[54:60]), 64)
	atom.BFactor, _ = strconv.ParseFloat(strings.TrimSpace(line[60:66]), 64)
	atom.Element = strings.TrimSpace(line[76:78])
	if atom.Element == "" {
		atom.Element = elementFromName(atom.Name)
	}
	return atom, nil
}

// elementFromName guesses a chemical element symbol from a PDB atom name
// when the element columns are blank. Digits and punctuation prefixes are
// skipped (e.g. "1HB" is hydrogen); two-letter bio-elements are recognised
// by their full name.
func elementFromName(name string) string {
	switch name {
	case "CL", "BR", "NA", "MG", "ZN", "FE", "MN", "SE", "CU", "CA":
		// Two-letter elements only when the whole name matches; a "CA" atom
		// inside an amino-acid residue is carbon, but selection by residue
		// happens before element use, so the alpha-carbon ambiguity is
		// acceptable here the way it is in the AMBER name tables.
		return strings.ToUpper(name[:1]) + strings.ToLower(name[1:])
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			return string(c)
		}
	}
	return ""
}

// Read parses the ATOM and HETATM records of the first model in the file at
// path. Multi-model files (NMR ensembles, trajectories) contribute only
// their first model; docking inputs are single-conformer structures.
func Read(path string) (*Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodePathNotFound, "cannot open PDB file").WithDetail(path)
	}
	defer f.Close()

	s := &Structure{}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM"):
			atom, err := parseAtomLine(line)
			if err != nil {
				return nil, errors.Wrap(err, errors.CodeParseFailure,
					fmt.Sprintf("malformed PDB record at line %d", lineNo)).WithDetail(path)
			}
			s.Atoms = append(s.Atoms, atom)
		case strings.HasPrefix(line, "ENDMDL"), strings.HasPrefix(line, "END "):
			return finish(s, path)
		case line == "END":
			return finish(s, path)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeParseFailure, "cannot read PDB file").WithDetail(path)
	}
	return finish(s, path)
}

func finish(s *Structure, path string) (*Structure, error) {
	if len(s.Atoms) == 0 {
		return nil, errors.New(errors.CodeParseFailure, "PDB file contains no atoms").WithDetail(path)
	}
	return s, nil
}

// Write writes the structure to path as fixed-column ATOM/HETATM records.
// Serial numbers are renumbered from 1 and a TER record is emitted at each
// chain change, followed by a terminal END.
func (s *Structure) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "cannot create PDB file").WithDetail(path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	var chainPrev byte
	for i, a := range s.Atoms {
		if i > 0 && a.Chain != chainPrev {
			fmt.Fprintln(w, "TER")
		}
		chainPrev = a.Chain

		record := "ATOM"
		if a.Het {
			record = "HETATM"
		}
		chain := a.Chain
		if chain == 0 {
			chain = ' '
		}
		// Names shorter than four characters start one column in, per the
		// PDB convention gochem follows.
		name := a.Name
		if len(name) < 4 {
			name = " " + name
		}
		fmt.Fprintf(w, "%-6s%5d %-4s %-3s %c%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s\n",
			record, i+1, name, a.ResName, chain, a.ResSeq,
			a.Pos.X, a.Pos.Y, a.Pos.Z, a.Occupancy, a.BFactor, a.Element)
	}
	fmt.Fprintln(w, "END")
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "cannot write PDB file").WithDetail(path)
	}
	return nil
}
