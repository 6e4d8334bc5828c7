package game

import (
	"log/slog"

	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/renderer"
	"github.com/pthm-cable/outbreak/telemetry"
)

// writeHealthRecord appends the frame to health.csv if output is enabled.
func (g *Game) writeHealthRecord(pct map[components.Health]float64) {
	if g.outputManager == nil {
		return
	}
	rec := telemetry.HealthRecord{
		Frame:         g.frame,
		Population:    g.world.Population(),
		Healthy:       pct[components.Healthy],
		Infected:      pct[components.Infected],
		Recovered:     pct[components.Recovered],
		Collisions:    g.lastReport.Collisions.Pairs,
		NewInfections: g.lastReport.NewInfections,
	}
	if err := g.outputManager.WriteHealth(rec); err != nil {
		slog.Error("failed to write health", "error", err)
	}
}

// recordVideoFrame renders the current frame into the video, if enabled.
func (g *Game) recordVideoFrame() {
	if g.video == nil {
		return
	}
	pct, _ := g.tracker.At(g.tracker.Len() - 1)
	img, err := g.frames.Render(g.world, renderer.Caption(g.frame, pct))
	if err != nil {
		slog.Error("failed to render frame", "frame", g.frame, "error", err)
		return
	}
	if err := g.video.AddFrame(img); err != nil {
		slog.Error("failed to add video frame", "frame", g.frame, "error", err)
	}
}

// flushTelemetry logs and writes perf stats every log interval.
func (g *Game) flushTelemetry() {
	if g.logInterval <= 0 || g.frame%g.logInterval != 0 {
		return
	}
	perfStats := g.perf.Stats()

	if g.logStats {
		g.logFrameStats(perfStats)
	}
	if g.outputManager != nil {
		if err := g.outputManager.WritePerf(perfStats, g.frame); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
