package game

import (
	"log/slog"

	"github.com/pthm-cable/outbreak/systems"
	"github.com/pthm-cable/outbreak/telemetry"
)

// UpdateHeadless runs StepsPerUpdate frames without any rendering.
// It stops early once the run is Finished.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate && !g.Finished(); i++ {
		g.Step()
	}
}

// Step simulates one frame: integrate, collide, infect, then record.
func (g *Game) Step() {
	g.perf.StartFrame()

	g.perf.StartPhase(telemetry.PhaseIntegrate)
	if g.workers > 1 {
		g.world.StepConcurrent(g.workers)
	} else {
		g.world.Step()
	}

	g.perf.StartPhase(telemetry.PhaseCollisions)
	report := systems.FrameReport{Collisions: g.world.ResolveCollisions()}

	g.perf.StartPhase(telemetry.PhaseInfections)
	report.NewInfections = g.world.SpreadInfections()
	g.frame++
	g.lastReport = report

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.recordHealth()

	g.perf.StartPhase(telemetry.PhaseRecord)
	g.recordVideoFrame()

	g.perf.EndFrame()
	g.flushTelemetry()
}

// recordFrame records the current state without simulating (frame 0).
func (g *Game) recordFrame() {
	g.recordHealth()
	g.recordVideoFrame()
}

// recordHealth appends the current health shares to the tracker and health.csv.
func (g *Game) recordHealth() {
	pct, err := g.world.HealthPercentages()
	if err != nil {
		slog.Error("health percentages", "frame", g.frame, "error", err)
		return
	}
	if err := g.tracker.Append(pct); err != nil {
		slog.Error("tracking health", "frame", g.frame, "error", err)
		return
	}
	g.writeHealthRecord(pct)
}
