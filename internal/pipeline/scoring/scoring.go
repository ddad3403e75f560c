// Package scoring wraps the gnina docking engine's minimize mode, which
// relaxes a ligand pose inside a receptor and reports a Vinardo affinity
// plus a CNN rescoring of the minimized pose.
package scoring

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/olsonanl/bvbrc-docking/internal/chem/sdf"
	"github.com/olsonanl/bvbrc-docking/internal/infrastructure/monitoring/logging"
	"github.com/olsonanl/bvbrc-docking/internal/pipeline/runner"
	"github.com/olsonanl/bvbrc-docking/pkg/errors"
)

// DefaultScorerBinary is the docking engine executable used when the caller
// does not override it.
const DefaultScorerBinary = "gnina"

// autoboxPadding is the margin, in angstroms, added around the ligand when
// deriving the search box from its coordinates.
const autoboxPadding = 2

// Data-field names gnina writes into its output SDF.
const (
	fieldMinimizedAffinity = "minimizedAffinity"
	fieldMinimizedRMSD     = "minimizedRMSD"
	fieldCNNScore          = "CNNscore"
	fieldCNNAffinity       = "CNNaffinity"
)

// Score holds the results of minimizing one ligand pose.
type Score struct {
	// RunID identifies the invocation in logs and output.
	RunID string

	// Affinity is the Vinardo affinity of the minimized pose, kcal/mol.
	// More negative is better.
	Affinity float64

	// RMSD is the heavy-atom displacement from the input pose, angstroms.
	RMSD float64

	// CNNScore and CNNAffinity are the engine's neural-network rescoring
	// outputs; zero when the engine did not emit them.
	CNNScore    float64
	CNNAffinity float64

	// Molecule is the minimized pose, fully materialized in memory. It
	// remains valid after the engine's scratch directory is removed.
	Molecule *sdf.Molecule
}

// Scorer invokes the docking engine. The zero value is usable; NewScorer
// wires in a logger and a shared Runner.
type Scorer struct {
	// Binary is the engine executable; DefaultScorerBinary when empty.
	Binary string

	// Runner executes the engine command line.
	Runner *runner.Runner

	Log logging.Logger
}

// NewScorer returns a Scorer running binary (or the default) through run.
func NewScorer(binary string, run *runner.Runner, log logging.Logger) *Scorer {
	if binary == "" {
		binary = DefaultScorerBinary
	}
	if run == nil {
		run = runner.NewRunner(log)
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Scorer{Binary: binary, Runner: run, Log: log.Named("scoring")}
}

func (s *Scorer) binary() string {
	if s.Binary != "" {
		return s.Binary
	}
	return DefaultScorerBinary
}

func (s *Scorer) log() logging.Logger {
	if s.Log != nil {
		return s.Log
	}
	return logging.NewNopLogger()
}

func (s *Scorer) runner() *runner.Runner {
	if s.Runner != nil {
		return s.Runner
	}
	return runner.NewRunner(s.log())
}

// Minimize relaxes the ligand pose in ligandSDF against the receptor in
// receptorPDB and returns the scores gnina reports. The search box is the
// ligand's own bounding box padded by autoboxPadding angstroms. The engine
// writes its minimized pose into a scratch directory that is removed before
// Minimize returns; the returned Score carries the pose in memory.
//
// The engine's command line and interleaved output are streamed to sink,
// preserving a reproducible record of the invocation. A nil sink discards
// the stream.
func (s *Scorer) Minimize(ctx context.Context, receptorPDB, ligandSDF string, sink io.Writer) (*Score, error) {
	if sink == nil {
		sink = io.Discard
	}
	runID := uuid.NewString()

	scratch, err := os.MkdirTemp("", "bvdock-gnina-")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "cannot create scratch directory")
	}
	defer os.RemoveAll(scratch)

	outSDF := filepath.Join(scratch, filepath.Base(ligandSDF))
	line := fmt.Sprintf("%s --minimize --scoring vinardo -r %s -l %s --autobox_ligand %s --autobox_add %d -o %s",
		s.binary(), receptorPDB, ligandSDF, ligandSDF, autoboxPadding, outSDF)

	s.log().Info("minimizing ligand pose",
		logging.String("run_id", runID),
		logging.String("receptor", receptorPDB),
		logging.String("ligand", ligandSDF),
	)
	if lig, readErr := sdf.ReadFirst(ligandSDF); readErr == nil {
		if lo, hi, ok := lig.Bounds(); ok {
			s.log().Debug("search box from ligand extent",
				logging.Float64("size_x", hi.X-lo.X+2*autoboxPadding),
				logging.Float64("size_y", hi.Y-lo.Y+2*autoboxPadding),
				logging.Float64("size_z", hi.Z-lo.Z+2*autoboxPadding),
			)
		}
	}

	if _, err := s.runner().Run(ctx, runner.Command{Line: line, Sink: sink, Tool: "gnina"}); err != nil {
		return nil, err
	}

	mol, err := sdf.ReadFirst(outSDF)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeEmptyOutput,
			"engine exited cleanly but produced no readable pose").WithDetail(outSDF)
	}

	score := &Score{RunID: runID, Molecule: mol}
	score.Affinity, err = requiredField(mol, fieldMinimizedAffinity)
	if err != nil {
		return nil, err
	}
	score.RMSD = optionalField(mol, fieldMinimizedRMSD)
	score.CNNScore = optionalField(mol, fieldCNNScore)
	score.CNNAffinity = optionalField(mol, fieldCNNAffinity)

	s.log().Info("pose minimized",
		logging.String("run_id", runID),
		logging.Float64("affinity", score.Affinity),
		logging.Float64("cnn_score", score.CNNScore),
	)
	return score, nil
}

func requiredField(mol *sdf.Molecule, name string) (float64, error) {
	raw, ok := mol.Data[name]
	if !ok {
		return 0, errors.Newf(errors.CodeParseFailure, "engine output lacks the %s field", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeParseFailure,
			fmt.Sprintf("unparseable %s field", name)).WithDetail(raw)
	}
	return v, nil
}

func optionalField(mol *sdf.Molecule, name string) float64 {
	raw, ok := mol.Data[name]
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}
