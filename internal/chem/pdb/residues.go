package pdb

// ThreeToOne maps three-letter amino-acid residue codes to their one-letter
// codes, including non-standard and ambiguous residues. Queried, never
// mutated.
var ThreeToOne = map[string]byte{
	"ALA": 'A',
	"ARG": 'R',
	"ASN": 'N',
	"ASP": 'D',
	"CYS": 'C',
	"GLN": 'Q',
	"GLU": 'E',
	"GLY": 'G',
	"HIS": 'H',
	"ILE": 'I',
	"LEU": 'L',
	"LYS": 'K',
	"MET": 'M',
	"MSE": 'M', // selenomethionine; methionine with the sulfur replaced by selenium
	"PHE": 'F',
	"PRO": 'P',
	"PYL": 'O',
	"SER": 'S',
	"SEC": 'U', // selenocysteine
	"THR": 'T',
	"TRP": 'W',
	"TYR": 'Y',
	"VAL": 'V',
	"ASX": 'B', // ASP or ASN
	"GLX": 'Z', // GLU or GLN
	"XAA": 'X', // any
	"XLE": 'J', // LEU or ILE
}

// UnknownResidue is the placeholder emitted for residue names outside the
// table; sequence extraction never fails on unknown residues.
const UnknownResidue = '-'

// OneLetter returns the one-letter code for a three-letter residue name, or
// UnknownResidue when the name is not in the table.
func OneLetter(resName string) byte {
	if c, ok := ThreeToOne[resName]; ok {
		return c
	}
	return UnknownResidue
}

// proteinResidues drives protein-atom selection. It covers the code table
// plus the histidine protonation-state names force fields write in place of
// HIS.
var proteinResidues = func() map[string]bool {
	set := make(map[string]bool, len(ThreeToOne)+6)
	for name := range ThreeToOne {
		set[name] = true
	}
	for _, name := range []string{"HID", "HIE", "HIP", "HSD", "HSE", "HSP"} {
		set[name] = true
	}
	return set
}()

// IsProteinResidue reports whether resName names an amino-acid residue for
// the purposes of protein-atom selection.
func IsProteinResidue(resName string) bool {
	return proteinResidues[resName]
}

// waterResidues covers the water names crystallography and MD tools emit.
var waterResidues = map[string]bool{
	"HOH":  true,
	"WAT":  true,
	"SOL":  true,
	"TIP":  true,
	"TIP3": true,
	"SPC":  true,
}

// IsWaterResidue reports whether resName names a water residue.
func IsWaterResidue(resName string) bool {
	return waterResidues[resName]
}
