package pdb

// SelectProtein returns a new Structure holding the protein atoms in their
// original order. ATOM records count as protein by flag unless they are
// waters; HETATM records qualify only when their residue name is a known
// amino acid, since modified residues like MSE are routinely deposited as
// HETATM. The atoms are copied; mutating the selection does not touch the
// source structure.
func (s *Structure) SelectProtein() *Structure {
	out := &Structure{}
	for _, a := range s.Atoms {
		keep := (!a.Het && !IsWaterResidue(a.ResName)) || (a.Het && IsProteinResidue(a.ResName))
		if keep {
			out.Atoms = append(out.Atoms, a)
		}
	}
	return out
}

// Residues lists the structure's residues in order of first appearance.
// A residue boundary is any change of chain, residue number or residue name
// between consecutive atoms; insertion-code granularity is not tracked.
func (s *Structure) Residues() []Residue {
	var out []Residue
	for _, a := range s.Atoms {
		last := len(out) - 1
		if last >= 0 && out[last].Chain == a.Chain && out[last].Seq == a.ResSeq && out[last].Name == a.ResName {
			out[last].NAtoms++
			continue
		}
		out = append(out, Residue{Name: a.ResName, Chain: a.Chain, Seq: a.ResSeq, NAtoms: 1})
	}
	return out
}

// Sequence returns the one-letter amino-acid sequence of the structure's
// residues in structural order. Residues outside the code table contribute
// the '-' placeholder, so the result always has one character per residue.
func (s *Structure) Sequence() string {
	residues := s.Residues()
	seq := make([]byte, len(residues))
	for i, r := range residues {
		seq[i] = OneLetter(r.Name)
	}
	return string(seq)
}

// Merge returns a new Structure with a's atoms followed by b's. Chains and
// residue numbers are kept as-is; Write renumbers atom serials on output.
func Merge(a, b *Structure) *Structure {
	out := &Structure{Atoms: make([]Atom, 0, len(a.Atoms)+len(b.Atoms))}
	out.Atoms = append(out.Atoms, a.Atoms...)
	out.Atoms = append(out.Atoms, b.Atoms...)
	return out
}
