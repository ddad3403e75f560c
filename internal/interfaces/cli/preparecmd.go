package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olsonanl/bvbrc-docking/internal/pipeline/prepare"
)

// NewSeqCmd creates the seq command.
func NewSeqCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seq <pdb>",
		Short: "Extract the protein sequence from a PDB file",
		Long:  "Extract the one-letter protein sequence from <pdb>. Residues outside\nthe standard table print as '-'.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := prepare.Sequence(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), seq)
			return nil
		},
	}
}

// NewConvertCmd creates the convert command.
func NewConvertCmd() *cobra.Command {
	var (
		output string
		binary string
	)

	cmd := &cobra.Command{
		Use:   "convert <sdf>",
		Short: "Convert an SDF file to PDB via Open Babel",
		Long:  "Convert <sdf> to PDB format. Without --output the result lands next\nto the input with a .pdb extension. An existing output file is\noverwritten.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := toolContext(cmd)
			defer cancel()

			conv := prepare.NewConverter(binary, GetCLIContext(cmd).Logger)
			out, err := conv.SDFToPDB(ctx, args[0], output)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output PDB path (default: input with .pdb extension)")
	cmd.Flags().StringVar(&binary, "obabel", prepare.DefaultConverterBinary, "Open Babel executable")
	return cmd
}

// NewComplexCmd creates the complex command.
func NewComplexCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "complex <protein.pdb> <ligand.pdb>",
		Short: "Merge a protein and a ligand into one complex PDB",
		Long:  "Write a complex PDB holding all protein atoms followed by all ligand\natoms. Without --output the result is named <protein>_<ligand>.pdb in\nthe ligand's directory.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := prepare.CombinePDB(args[0], args[1], output)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output complex PDB path")
	return cmd
}

// NewCleanCmd creates the clean command.
func NewCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean <in.pdb> <out.pdb>",
		Short: "Write the protein-atom subset of a PDB file",
		Long:  "Copy <in.pdb> to <out.pdb> keeping only protein atoms, dropping\nwaters and heteroatoms. Fails when the input has no protein atoms.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := prepare.CleanPDB(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
