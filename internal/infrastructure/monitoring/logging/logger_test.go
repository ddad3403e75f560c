package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/olsonanl/bvbrc-docking/internal/infrastructure/monitoring/logging"
)

func newObserved(level zapcore.Level) (logging.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return logging.NewLoggerFromCore(core), logs
}

func TestLogger_EmitsFields(t *testing.T) {
	t.Parallel()
	log, logs := newObserved(zapcore.DebugLevel)

	log.Info("conversion done",
		logging.String("tool", "obabel"),
		logging.Int("atoms", 42),
		logging.Bool("het", true),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "conversion done", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "obabel", fields["tool"])
	assert.EqualValues(t, 42, fields["atoms"])
	assert.Equal(t, true, fields["het"])
}

func TestLogger_WithAddsPersistentFields(t *testing.T) {
	t.Parallel()
	log, logs := newObserved(zapcore.DebugLevel)

	child := log.With(logging.String("run_id", "abc123"))
	child.Warn("slow tool")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "abc123", logs.All()[0].ContextMap()["run_id"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	t.Parallel()
	log, logs := newObserved(zapcore.WarnLevel)

	log.Debug("dropped")
	log.Info("dropped too")
	log.Error("kept")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
}

func TestErrField(t *testing.T) {
	t.Parallel()
	f := logging.Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestNewLogger_DefaultsApply(t *testing.T) {
	t.Parallel()
	log, err := logging.NewLogger(logging.Config{})
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestNopLogger_Discards(t *testing.T) {
	t.Parallel()
	log := logging.NewNopLogger()
	// Must not panic and children must stay nop.
	log.Named("x").With(logging.Int("n", 1)).Error("ignored")
}

func TestDefault_RoundTrip(t *testing.T) {
	log := logging.NewNopLogger()
	logging.SetDefault(log)
	assert.NotNil(t, logging.Default())
	logging.SetDefault(nil) // ignored
	assert.NotNil(t, logging.Default())
}
