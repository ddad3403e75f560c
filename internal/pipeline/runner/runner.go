// Package runner executes external pipeline tools through the platform
// shell, streaming their combined output to a caller-supplied sink. A
// non-zero exit comes back as a typed error rather than terminating the
// process, so a host application can fail one docking job and continue with
// the next; the CLI layer maps any error to exit status 1, preserving the
// script-level contract of 0 on success and 1 on any tool failure.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/olsonanl/bvbrc-docking/internal/infrastructure/monitoring/logging"
	"github.com/olsonanl/bvbrc-docking/pkg/errors"
)

// defaultShell interprets command lines. Callers are responsible for
// quoting untrusted substitutions before they reach a Command.
const defaultShell = "/bin/sh"

// Command describes one external-tool invocation.
type Command struct {
	// Line is the command line, interpreted by the shell.
	Line string

	// Dir is the working directory; empty means the caller's.
	Dir string

	// Sink receives the echoed command line followed by the child's
	// interleaved stdout and stderr. Defaults to os.Stdout.
	Sink io.Writer

	// Tool names the binary for logs and metrics; when empty the full
	// command line is used.
	Tool string
}

// Result describes a completed invocation.
type Result struct {
	ExitCode int
	Duration time.Duration
}

// Runner executes Commands. The zero value is usable; NewRunner wires in a
// logger.
type Runner struct {
	// Shell overrides the platform shell, mainly for tests.
	Shell string

	Log logging.Logger
}

// NewRunner returns a Runner that logs through log.
func NewRunner(log logging.Logger) *Runner {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Runner{Log: log.Named("runner")}
}

func (r *Runner) shell() string {
	if r.Shell != "" {
		return r.Shell
	}
	return defaultShell
}

func (r *Runner) log() logging.Logger {
	if r.Log != nil {
		return r.Log
	}
	return logging.NewNopLogger()
}

// Run echoes cmd.Line to the sink, executes it via the shell with stderr
// interleaved into stdout, and blocks until the child exits. The context
// bounds the child's lifetime: cancellation or deadline expiry kills the
// child and returns CodeTimeout. A non-zero exit returns
// CodeToolFailure carrying the exit code; the Result is returned in both
// the success and failure cases so callers can log the duration.
func (r *Runner) Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Line == "" {
		return nil, errors.New(errors.CodeInvalid, "empty command line")
	}
	sink := cmd.Sink
	if sink == nil {
		sink = os.Stdout
	}
	tool := cmd.Tool
	if tool == "" {
		// Keep the metric label space bounded when no tool name is given.
		tool = "shell"
	}

	// Echo before execution so the sink doubles as a reproducibility log.
	fmt.Fprintln(sink, cmd.Line)

	child := exec.CommandContext(ctx, r.shell(), "-c", cmd.Line)
	child.Dir = cmd.Dir
	child.Stdout = sink
	child.Stderr = sink

	r.log().Debug("running external tool",
		logging.String("tool", tool),
		logging.String("command", cmd.Line),
	)

	start := time.Now()
	err := child.Run()
	result := &Result{Duration: time.Since(start)}
	if child.ProcessState != nil {
		result.ExitCode = child.ProcessState.ExitCode()
	}
	observeRun(tool, result, err == nil)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			r.log().Error("external tool cancelled",
				logging.String("tool", tool),
				logging.Duration("duration", result.Duration),
				logging.Err(ctxErr),
			)
			return result, errors.Wrap(ctxErr, errors.CodeTimeout,
				"external tool cancelled or timed out").WithDetail(cmd.Line)
		}
		r.log().Error("external tool failed",
			logging.String("tool", tool),
			logging.Int("exit_code", result.ExitCode),
			logging.Duration("duration", result.Duration),
		)
		return result, errors.Wrap(err, errors.CodeToolFailure,
			fmt.Sprintf("failure running %s", tool)).
			WithDetail(fmt.Sprintf("exit code %d: %s", result.ExitCode, cmd.Line))
	}

	r.log().Debug("external tool finished",
		logging.String("tool", tool),
		logging.Duration("duration", result.Duration),
	)
	return result, nil
}
