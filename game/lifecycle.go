package game

import (
	"errors"
	"log/slog"

	"github.com/pthm-cable/outbreak/renderer"
	"github.com/pthm-cable/outbreak/telemetry"
)

// Summary summarises the run so far.
func (g *Game) Summary() telemetry.Summary {
	return telemetry.Summarize(g.tracker)
}

// SaveChart writes the health chart of the run so far to path.
func (g *Game) SaveChart(path string) error {
	return renderer.SaveHealthChart(path, g.tracker, renderer.ChartOptions{
		Title:   "population health: " + g.scenario.Name,
		Palette: g.cfg.Derived.Palette,
	})
}

// Unload finishes the run: logs and writes the summary, saves the chart,
// and closes the video and CSV files. Safe to call on a partly built Game.
func (g *Game) Unload() {
	if g.tracker != nil && g.tracker.Len() > 0 {
		summary := g.Summary()
		g.logSummary(summary)
		if err := g.outputManager.WriteSummary(summary); err != nil {
			slog.Error("failed to write summary", "error", err)
		}
		if g.chartPath != "" {
			switch err := g.SaveChart(g.chartPath); {
			case errors.Is(err, renderer.ErrNotEnoughSamples):
				slog.Warn("skipping chart", "reason", err)
			case err != nil:
				slog.Error("failed to save chart", "error", err)
			default:
				slog.Info("chart saved", "path", g.chartPath)
			}
		}
	}

	if g.video != nil {
		if err := g.video.Close(); err != nil {
			slog.Error("failed to close video", "error", err)
		} else {
			slog.Info("video saved", "path", g.video.Path(), "frames", g.video.Frames())
		}
		g.video = nil
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	g.outputManager = nil
}
