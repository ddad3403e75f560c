package runner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Tool invocations are the pipeline's dominant cost; these series make a
// batch of docking runs observable without parsing the tool logs.
var (
	toolRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bvdock_tool_runs_total",
		Help: "External tool invocations by tool name and outcome.",
	}, []string{"tool", "status"})

	toolDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "bvdock_tool_duration_seconds",
		Help: "Wall-clock duration of external tool invocations.",
		// Conversions finish in milliseconds; gnina minimization runs for
		// minutes on large ligands.
		Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300, 900},
	}, []string{"tool"})
)

func observeRun(tool string, result *Result, ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	toolRuns.WithLabelValues(tool, status).Inc()
	toolDuration.WithLabelValues(tool).Observe(result.Duration.Seconds())
}
