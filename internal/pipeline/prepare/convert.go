package prepare

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/olsonanl/bvbrc-docking/internal/infrastructure/monitoring/logging"
	"github.com/olsonanl/bvbrc-docking/pkg/errors"
)

// DefaultConverterBinary is the Open Babel executable used for format
// conversion when the caller does not override it.
const DefaultConverterBinary = "obabel"

// Converter wraps the external format-converter binary. The zero value is
// usable; NewConverter wires in a logger.
type Converter struct {
	// Binary is the converter executable; DefaultConverterBinary when empty.
	Binary string

	Log logging.Logger
}

// NewConverter returns a Converter invoking binary (or the default) and
// logging through log.
func NewConverter(binary string, log logging.Logger) *Converter {
	if binary == "" {
		binary = DefaultConverterBinary
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Converter{Binary: binary, Log: log.Named("convert")}
}

func (c *Converter) binary() string {
	if c.Binary != "" {
		return c.Binary
	}
	return DefaultConverterBinary
}

func (c *Converter) log() logging.Logger {
	if c.Log != nil {
		return c.Log
	}
	return logging.NewNopLogger()
}

// SDFToPDB converts sdfFile to PDB format. When pdbFile is empty the output
// path is derived by replacing the trailing three-character extension with
// "pdb". Any pre-existing output file is removed first.
//
// The converter is invoked directly with an argument list, no shell; its
// stdout is captured to the output file and its stderr separately as
// diagnostic text. The conversion fails when the converter exits non-zero
// or when it exits zero but leaves the output file empty; Open Babel is
// known to report success on inputs it silently could not convert, so both
// conditions are checked.
func (c *Converter) SDFToPDB(ctx context.Context, sdfFile, pdbFile string) (string, error) {
	if pdbFile == "" {
		if len(sdfFile) < 4 {
			return "", errors.New(errors.CodeInvalid, "SDF path too short to derive output name").WithDetail(sdfFile)
		}
		pdbFile = sdfFile[:len(sdfFile)-3] + "pdb"
	}
	if err := removeIfPresent(pdbFile); err != nil {
		return "", err
	}

	out, err := os.Create(pdbFile)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "cannot create output file").WithDetail(pdbFile)
	}
	defer out.Close()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.binary(), "-isdf", sdfFile, "-opdb")
	cmd.Stdout = out
	cmd.Stderr = &stderr

	c.log().Debug("converting SDF to PDB",
		logging.String("input", sdfFile),
		logging.String("output", pdbFile),
	)

	runErr := cmd.Run()
	diag := strings.TrimSpace(stderr.String())
	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", errors.Wrap(ctxErr, errors.CodeTimeout, "converter cancelled or timed out").WithDetail(sdfFile)
		}
		exitCode := -1
		if cmd.ProcessState != nil {
			exitCode = cmd.ProcessState.ExitCode()
		}
		c.log().Error("converter failed",
			logging.Int("exit_code", exitCode),
			logging.String("stderr", diag),
		)
		return "", errors.Wrap(runErr, errors.CodeToolFailure,
			fmt.Sprintf("failure rc=%d converting %s to %s", exitCode, sdfFile, pdbFile)).WithDetail(diag)
	}

	info, err := os.Stat(pdbFile)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "cannot stat output file").WithDetail(pdbFile)
	}
	if info.Size() == 0 {
		c.log().Error("converter produced empty output",
			logging.String("input", sdfFile),
			logging.String("stderr", diag),
		)
		return "", errors.Newf(errors.CodeEmptyOutput,
			"failure (output is empty) converting %s to %s", sdfFile, pdbFile).WithDetail(diag)
	}
	return pdbFile, nil
}
