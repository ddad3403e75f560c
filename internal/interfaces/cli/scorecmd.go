package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/olsonanl/bvbrc-docking/internal/config"
	"github.com/olsonanl/bvbrc-docking/internal/pipeline/runner"
	"github.com/olsonanl/bvbrc-docking/internal/pipeline/scoring"
	"github.com/olsonanl/bvbrc-docking/pkg/errors"
)

// scoreSummary is the JSON summary the score command prints.
type scoreSummary struct {
	RunID       string  `json:"run_id"`
	Name        string  `json:"name,omitempty"`
	Receptor    string  `json:"receptor"`
	Ligand      string  `json:"ligand"`
	Affinity    float64 `json:"minimized_affinity"`
	RMSD        float64 `json:"minimized_rmsd"`
	CNNScore    float64 `json:"cnn_score,omitempty"`
	CNNAffinity float64 `json:"cnn_affinity,omitempty"`
}

// NewScoreCmd creates the score command. The dock flags use the same
// underscore names as the config file keys so the two stay interchangeable.
func NewScoreCmd() *cobra.Command {
	var (
		ligand  string
		binary  string
		logPath string
	)

	cmd := &cobra.Command{
		Use:   "score -r <receptor.pdb> -l <ligand.sdf>",
		Short: "Minimize a ligand pose with gnina and report its affinity",
		Long:  "Relax the ligand pose against the receptor with gnina's Vinardo\nminimizer and print the resulting scores as JSON. The engine's output\nstreams to --log when given, otherwise to stdout.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx := GetCLIContext(cmd)
			cfg := cliCtx.Config
			if cfg == nil {
				cfg = config.FromFlagSet(cmd.Flags())
				config.ApplyDefaults(cfg)
			} else if cmd.Flags().Changed("receptor_pdb") {
				cfg.Dock.ReceptorPDB, _ = cmd.Flags().GetString("receptor_pdb")
			}

			receptor, err := config.ResolveExisting(cfg.Dock.ReceptorPDB)
			if err != nil {
				return err
			}
			if receptor == "" {
				return errors.New(errors.CodeInvalidConfig, "a receptor is required; set --receptor_pdb or dock.receptor_pdb")
			}
			ligandPath, err := config.ResolveExisting(ligand)
			if err != nil {
				return err
			}
			if ligandPath == "" {
				return errors.New(errors.CodeInvalidConfig, "a ligand is required; set --ligand")
			}

			var sink io.Writer = cmd.OutOrStdout()
			if logPath != "" {
				f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return errors.Wrap(err, errors.CodeInternal, "cannot open log file").WithDetail(logPath)
				}
				defer f.Close()
				sink = f
			}

			ctx, cancel := toolContext(cmd)
			defer cancel()

			scorer := scoring.NewScorer(binary, runner.NewRunner(cliCtx.Logger), cliCtx.Logger)
			score, err := scorer.Minimize(ctx, receptor, ligandPath, sink)
			if err != nil {
				return err
			}

			return printJSON(cmd, &scoreSummary{
				RunID:       score.RunID,
				Name:        cfg.Dock.Name,
				Receptor:    receptor,
				Ligand:      ligandPath,
				Affinity:    score.Affinity,
				RMSD:        score.RMSD,
				CNNScore:    score.CNNScore,
				CNNAffinity: score.CNNAffinity,
			})
		},
	}

	fs := cmd.Flags()
	fs.StringP("receptor_pdb", "r", "", "receptor PDB file")
	fs.String("name", "", "run label for logs and output")
	fs.String("output_dir", "", "directory for run outputs")
	fs.Int("top_n", config.DefaultTopN, "poses to keep per ligand")
	fs.StringVarP(&ligand, "ligand", "l", "", "ligand SDF file")
	fs.StringVar(&binary, "gnina", scoring.DefaultScorerBinary, "docking engine executable")
	fs.StringVar(&logPath, "log", "", "append the engine's output to this file")

	return cmd
}
