// Package smiles parses and validates SMILES chemical-structure strings.
// The parser covers the organic subset, bracket atoms, branches, bond
// symbols, ring closures and disconnected fragments; it builds an atom/bond
// graph, not coordinates. Stereo markers are accepted and ignored.
package smiles

import (
	"fmt"
	"strings"

	"github.com/olsonanl/bvbrc-docking/pkg/errors"
)

// Atom is one atom of a parsed SMILES graph.
type Atom struct {
	Symbol   string
	Aromatic bool
	Charge   int
	Degree   int
}

// Bond connects two atoms by index. Order is 1-3, or 4 for aromatic.
type Bond struct {
	Src, Dst int
	Order    int
}

// Molecule is the graph produced by Parse.
type Molecule struct {
	Atoms []Atom
	Bonds []Bond
}

// organicSubset lists the atoms that may appear outside brackets,
// two-letter symbols first so "Cl" is not read as carbon + lone 'l'.
var organicSubset = []string{"Cl", "Br", "B", "C", "N", "O", "P", "S", "F", "I"}

// aromaticAtoms are the lowercase aromatic forms of the organic subset.
var aromaticAtoms = map[byte]string{
	'b': "B", 'c': "C", 'n': "N", 'o': "O", 'p': "P", 's': "S",
}

// Parse converts a SMILES string into a molecule graph. Failures are
// reported through the package diagnostics logger at error level and
// returned; callers that only need a validity check should use Validate,
// which keeps the diagnostics quiet.
func Parse(s string) (*Molecule, error) {
	mol, err := parse(s)
	if err != nil {
		diagnostics().Error("SMILES parse failed", errField(err), strField(s))
		return nil, err
	}
	return mol, nil
}

// Validate reports whether s parses as a SMILES string. Diagnostic output
// is suppressed around the parse attempt and restored on every exit path;
// invalid input is a normal false result, never an error.
func Validate(s string) bool {
	restore := SuppressDiagnostics()
	defer restore()
	_, err := Parse(s)
	return err == nil
}

func parse(s string) (*Molecule, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errors.New(errors.CodeParseFailure, "empty SMILES string")
	}

	mol := &Molecule{}
	var branchStack []int
	rings := make(map[int]ringOpen) // ring-closure number -> opening atom
	prev := -1
	nextOrder := 0 // 0 = default (single, or aromatic between aromatic atoms)

	i := 0
	for i < len(s) {
		ch := s[i]
		switch {
		case ch == '(':
			if prev < 0 {
				return nil, posErr(i, "branch opened before any atom")
			}
			branchStack = append(branchStack, prev)
			i++

		case ch == ')':
			if len(branchStack) == 0 {
				return nil, posErr(i, "unmatched closing parenthesis")
			}
			prev = branchStack[len(branchStack)-1]
			branchStack = branchStack[:len(branchStack)-1]
			i++

		case ch == '-':
			nextOrder = 1
			i++
		case ch == '=':
			nextOrder = 2
			i++
		case ch == '#':
			nextOrder = 3
			i++
		case ch == ':':
			nextOrder = 4
			i++
		case ch == '/' || ch == '\\':
			// Stereo bond markers carry single-bond order.
			nextOrder = 1
			i++

		case ch == '.':
			// Disconnected fragment: next atom starts a new component.
			prev = -1
			nextOrder = 0
			i++

		case ch == '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, posErr(i, "unclosed bracket atom")
			}
			atom, err := parseBracketAtom(s[i+1 : i+end])
			if err != nil {
				return nil, posErr(i, err.Error())
			}
			prev = mol.addAtom(atom, prev, &nextOrder)
			i += end + 1

		case ch == '%':
			if i+2 >= len(s) || !isDigit(s[i+1]) || !isDigit(s[i+2]) {
				return nil, posErr(i, "malformed two-digit ring closure")
			}
			n := int(s[i+1]-'0')*10 + int(s[i+2]-'0')
			if err := mol.closeRing(rings, n, prev, &nextOrder); err != nil {
				return nil, posErr(i, err.Error())
			}
			i += 3

		case isDigit(ch):
			if err := mol.closeRing(rings, int(ch-'0'), prev, &nextOrder); err != nil {
				return nil, posErr(i, err.Error())
			}
			i++

		default:
			atom, width, ok := parseOrganicAtom(s[i:])
			if !ok {
				return nil, posErr(i, fmt.Sprintf("unexpected character %q", ch))
			}
			prev = mol.addAtom(atom, prev, &nextOrder)
			i += width
		}
	}

	if len(branchStack) > 0 {
		return nil, errors.New(errors.CodeParseFailure, "unclosed branch at end of input")
	}
	if len(rings) > 0 {
		return nil, errors.New(errors.CodeParseFailure, "unmatched ring closure at end of input")
	}
	if len(mol.Atoms) == 0 {
		return nil, errors.New(errors.CodeParseFailure, "no atoms in SMILES string")
	}
	return mol, nil
}

type ringOpen struct {
	atom  int
	order int
}

func posErr(pos int, msg string) error {
	return errors.Newf(errors.CodeParseFailure, "position %d: %s", pos, msg)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// addAtom appends atom, bonds it to prev when prev is valid, and returns the
// new atom's index. The pending bond order is consumed.
func (m *Molecule) addAtom(atom Atom, prev int, nextOrder *int) int {
	idx := len(m.Atoms)
	m.Atoms = append(m.Atoms, atom)
	if prev >= 0 {
		order := *nextOrder
		if order == 0 {
			order = 1
			if m.Atoms[prev].Aromatic && atom.Aromatic {
				order = 4
			}
		}
		m.Bonds = append(m.Bonds, Bond{Src: prev, Dst: idx, Order: order})
		m.Atoms[prev].Degree++
		m.Atoms[idx].Degree++
	}
	*nextOrder = 0
	return idx
}

// closeRing records a ring-closure digit: the first occurrence opens the
// ring on the current atom, the second bonds the two atoms together.
func (m *Molecule) closeRing(rings map[int]ringOpen, n, prev int, nextOrder *int) error {
	if prev < 0 {
		return fmt.Errorf("ring closure %d before any atom", n)
	}
	open, ok := rings[n]
	if !ok {
		rings[n] = ringOpen{atom: prev, order: *nextOrder}
		*nextOrder = 0
		return nil
	}
	delete(rings, n)
	if open.atom == prev {
		return fmt.Errorf("ring closure %d bonds an atom to itself", n)
	}
	order := open.order
	if order == 0 {
		order = *nextOrder
	}
	if order == 0 {
		order = 1
		if m.Atoms[open.atom].Aromatic && m.Atoms[prev].Aromatic {
			order = 4
		}
	}
	m.Bonds = append(m.Bonds, Bond{Src: open.atom, Dst: prev, Order: order})
	m.Atoms[open.atom].Degree++
	m.Atoms[prev].Degree++
	*nextOrder = 0
	return nil
}

// parseOrganicAtom reads an organic-subset atom (aromatic or aliphatic) from
// the head of s, returning the atom, its width in bytes, and whether a match
// was found.
func parseOrganicAtom(s string) (Atom, int, bool) {
	if sym, ok := aromaticAtoms[s[0]]; ok {
		return Atom{Symbol: sym, Aromatic: true}, 1, true
	}
	for _, sym := range organicSubset {
		if strings.HasPrefix(s, sym) {
			return Atom{Symbol: sym}, len(sym), true
		}
	}
	return Atom{}, 0, false
}

// parseBracketAtom parses the content between [ and ]: optional isotope,
// element symbol (possibly aromatic), and optional hydrogen count, charge
// and atom-class suffixes.
func parseBracketAtom(content string) (Atom, error) {
	if content == "" {
		return Atom{}, fmt.Errorf("empty bracket atom")
	}
	i := 0
	for i < len(content) && isDigit(content[i]) {
		i++ // isotope prefix
	}
	if i == len(content) {
		return Atom{}, fmt.Errorf("bracket atom %q has no element", content)
	}

	var atom Atom
	c := content[i]
	switch {
	case c == '*':
		atom.Symbol = "*"
		i++
	case c >= 'A' && c <= 'Z':
		atom.Symbol = string(c)
		i++
		if i < len(content) && content[i] >= 'a' && content[i] <= 'z' {
			atom.Symbol += string(content[i])
			i++
		}
	case c >= 'a' && c <= 'z':
		// Aromatic bracket atom, e.g. [nH]; the symbol set is wider than the
		// organic subset (se, as) but a single letter is accepted generally.
		atom.Symbol = strings.ToUpper(string(c))
		atom.Aromatic = true
		i++
	default:
		return Atom{}, fmt.Errorf("bracket atom %q has no element", content)
	}

	for i < len(content) {
		switch content[i] {
		case 'H':
			i++
			for i < len(content) && isDigit(content[i]) {
				i++
			}
		case '+', '-':
			sign := 1
			if content[i] == '-' {
				sign = -1
			}
			i++
			n := 1
			if i < len(content) && isDigit(content[i]) {
				n = 0
				for i < len(content) && isDigit(content[i]) {
					n = n*10 + int(content[i]-'0')
					i++
				}
			} else {
				for i < len(content) && (content[i] == '+' || content[i] == '-') {
					n++
					i++
				}
			}
			atom.Charge = sign * n
		case '@':
			i++ // chirality marker
		case ':':
			i++ // atom class
			for i < len(content) && isDigit(content[i]) {
				i++
			}
		default:
			return Atom{}, fmt.Errorf("unexpected %q in bracket atom %q", content[i], content)
		}
	}
	return atom, nil
}
