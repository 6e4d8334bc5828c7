package game

import (
	"log/slog"

	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/telemetry"
)

// logFrameStats logs the population state and frame timings.
func (g *Game) logFrameStats(perf telemetry.PerfStats) {
	counts := g.world.HealthCounts()
	slog.Info("stats",
		"frame", g.frame,
		"healthy", counts[components.Healthy],
		"infected", counts[components.Infected],
		"recovered", counts[components.Recovered],
		"collisions", g.lastReport.Collisions.Pairs,
		"degenerate", g.lastReport.Collisions.Degenerate,
		"new_infections", g.lastReport.NewInfections,
		"perf", perf,
	)
}

// logSummary logs the end-of-run summary.
func (g *Game) logSummary(s telemetry.Summary) {
	slog.Info("summary", "scenario", g.scenario.Name, "summary", s)
}
