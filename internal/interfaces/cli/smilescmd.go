package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olsonanl/bvbrc-docking/internal/chem/smiles"
	"github.com/olsonanl/bvbrc-docking/pkg/errors"
)

// NewSmilesCmd creates the smiles command.
func NewSmilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "smiles <string>",
		Short: "Check whether a SMILES string parses",
		Long:  "Parse <string> as SMILES. Prints \"valid\" and exits 0 when it parses,\nprints \"invalid\" and exits 1 when it does not. Parser diagnostics are\nsuppressed during the check.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !smiles.Validate(args[0]) {
				fmt.Fprintln(cmd.OutOrStdout(), "invalid")
				return errors.New(errors.CodeInvalid, "SMILES string does not parse").WithDetail(args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
}
