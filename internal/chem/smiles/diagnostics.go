package smiles

import (
	"sync"

	"github.com/olsonanl/bvbrc-docking/internal/infrastructure/monitoring/logging"
)

// Parse diagnostics go through a package-level logger so that Validate can
// probe arbitrary strings without spraying error entries. The toggle is
// process-wide state: concurrent goroutines suppressing and restoring at the
// same time will race on the effective level. The pipeline is single-
// threaded by construction, so this is documented rather than redesigned.
var (
	diagMu  sync.Mutex
	diagLog logging.Logger = logging.Default().Named("smiles")
)

// SetDiagnostics replaces the package diagnostics logger. Pass the pipeline
// logger during startup; the zero state discards entries.
func SetDiagnostics(l logging.Logger) {
	if l == nil {
		return
	}
	diagMu.Lock()
	diagLog = l
	diagMu.Unlock()
}

// SuppressDiagnostics silences parse diagnostics and returns a restore
// function that reinstates the previous logger. Use with defer so the
// restore runs on every exit path:
//
//	restore := smiles.SuppressDiagnostics()
//	defer restore()
//
// The returned function is idempotent only in the single-threaded case; see
// the package note on concurrent toggling.
func SuppressDiagnostics() (restore func()) {
	diagMu.Lock()
	prev := diagLog
	diagLog = logging.NewNopLogger()
	diagMu.Unlock()
	return func() {
		diagMu.Lock()
		diagLog = prev
		diagMu.Unlock()
	}
}

func diagnostics() logging.Logger {
	diagMu.Lock()
	l := diagLog
	diagMu.Unlock()
	return l
}

func errField(err error) logging.Field { return logging.Err(err) }
func strField(s string) logging.Field  { return logging.String("smiles", s) }
