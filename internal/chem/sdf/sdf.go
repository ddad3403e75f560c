// Package sdf reads Structure-Data Files (MDL V2000) at the level the
// scoring pipeline needs: the first record of a file, its atom block, and
// its data items. Molecules are fully materialized in memory, so a handle
// stays valid after its backing file is removed.
package sdf

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/olsonanl/bvbrc-docking/pkg/errors"
)

// Atom is one entry of an SDF atom block.
type Atom struct {
	Symbol string
	Pos    r3.Vec
}

// Molecule is one SDF record. Data holds the record's associated data items
// (e.g. gnina's "minimizedAffinity") keyed by field name.
type Molecule struct {
	Title string
	Atoms []Atom
	Bonds int
	Data  map[string]string
}

// ReadFirst reads the first molecule record from the SDF file at path.
// gnina and obabel write poses best-first, so the first record is the
// best-scoring one.
func ReadFirst(path string) (*Molecule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodePathNotFound, "cannot open SDF file").WithDetail(path)
	}
	defer f.Close()

	mol, err := readRecord(bufio.NewScanner(f))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeParseFailure, "cannot parse SDF record").WithDetail(path)
	}
	return mol, nil
}

// readRecord parses one V2000 record: three header lines, a counts line,
// the atom block, the bond block (skipped), properties up to "M  END", then
// data items up to the "$$$$" delimiter or EOF.
func readRecord(scanner *bufio.Scanner) (*Molecule, error) {
	header := make([]string, 0, 4)
	for len(header) < 4 && scanner.Scan() {
		header = append(header, scanner.Text())
	}
	if len(header) < 4 {
		return nil, fmt.Errorf("truncated header: got %d of 4 lines", len(header))
	}

	counts := header[3]
	if len(counts) < 6 {
		return nil, fmt.Errorf("counts line too short: %q", counts)
	}
	nAtoms, err := strconv.Atoi(strings.TrimSpace(counts[0:3]))
	if err != nil {
		return nil, fmt.Errorf("bad atom count %q: %w", counts[0:3], err)
	}
	nBonds, err := strconv.Atoi(strings.TrimSpace(counts[3:6]))
	if err != nil {
		return nil, fmt.Errorf("bad bond count %q: %w", counts[3:6], err)
	}

	mol := &Molecule{
		Title: strings.TrimSpace(header[0]),
		Atoms: make([]Atom, 0, nAtoms),
		Bonds: nBonds,
		Data:  make(map[string]string),
	}

	for i := 0; i < nAtoms; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("truncated atom block: got %d of %d atoms", i, nAtoms)
		}
		atom, err := parseAtomLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("atom %d: %w", i+1, err)
		}
		mol.Atoms = append(mol.Atoms, atom)
	}

	// Bond block and property lines run to "M  END".
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "M  END") {
			break
		}
	}

	// Data items: "> <name>" header line, value lines, blank separator.
	var field string
	var value []string
	flush := func() {
		if field != "" {
			mol.Data[field] = strings.Join(value, "\n")
		}
		field = ""
		value = value[:0]
	}
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "$$$$"):
			flush()
			return mol, nil
		case strings.HasPrefix(line, ">"):
			flush()
			field = dataFieldName(line)
		case strings.TrimSpace(line) == "":
			flush()
		default:
			if field != "" {
				value = append(value, line)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return mol, nil
}

// parseAtomLine parses one fixed-column atom-block line:
// x (0-9), y (10-19), z (20-29), symbol (31-33).
func parseAtomLine(line string) (Atom, error) {
	if len(line) < 34 {
		// Pad short lines; some writers trim trailing fields.
		line = line + strings.Repeat(" ", 34-len(line))
	}
	var atom Atom
	var err error
	if atom.Pos.X, err = strconv.ParseFloat(strings.TrimSpace(line[0:10]), 64); err != nil {
		return Atom{}, fmt.Errorf("bad x coordinate: %w", err)
	}
	if atom.Pos.Y, err = strconv.ParseFloat(strings.TrimSpace(line[10:20]), 64); err != nil {
		return Atom{}, fmt.Errorf("bad y coordinate: %w", err)
	}
	if atom.Pos.Z, err = strconv.ParseFloat(strings.TrimSpace(line[20:30]), 64); err != nil {
		return Atom{}, fmt.Errorf("bad z coordinate: %w", err)
	}
	atom.Symbol = strings.TrimSpace(line[31:34])
	if atom.Symbol == "" {
		return Atom{}, fmt.Errorf("missing element symbol")
	}
	return atom, nil
}

// dataFieldName extracts the field name from a data-item header line such as
// "> <minimizedAffinity>" or ">  <name>  (1)".
func dataFieldName(line string) string {
	start := strings.IndexByte(line, '<')
	if start < 0 {
		return strings.TrimSpace(strings.TrimPrefix(line, ">"))
	}
	end := strings.IndexByte(line[start:], '>')
	if end < 0 {
		return strings.TrimSpace(line[start+1:])
	}
	return line[start+1 : start+end]
}

// Bounds returns the minimum and maximum corner of the molecule's axis-
// aligned bounding box. It reports ok=false for a molecule with no atoms.
func (m *Molecule) Bounds() (min, max r3.Vec, ok bool) {
	if len(m.Atoms) == 0 {
		return r3.Vec{}, r3.Vec{}, false
	}
	min = m.Atoms[0].Pos
	max = m.Atoms[0].Pos
	for _, a := range m.Atoms[1:] {
		if a.Pos.X < min.X {
			min.X = a.Pos.X
		}
		if a.Pos.Y < min.Y {
			min.Y = a.Pos.Y
		}
		if a.Pos.Z < min.Z {
			min.Z = a.Pos.Z
		}
		if a.Pos.X > max.X {
			max.X = a.Pos.X
		}
		if a.Pos.Y > max.Y {
			max.Y = a.Pos.Y
		}
		if a.Pos.Z > max.Z {
			max.Z = a.Pos.Z
		}
	}
	return min, max, true
}
