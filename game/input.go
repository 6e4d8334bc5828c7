package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	v := g.view

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	v.controls.HandleKeys(&v.state)
	v.overlays.HandleKeys()

	// Mouse over the side panel belongs to raygui, not the camera.
	mouse := rl.GetMousePosition()
	if mouse.X < float32(rl.GetScreenWidth())-260 {
		v.viewer.HandleInput()
	}
}

// applyControlRequests handles one-shot requests raised by the controls.
func (g *Game) applyControlRequests() {
	v := g.view
	if v.state.ResetView {
		v.viewer.Camera().Reset()
		v.state.ResetView = false
	}
	if v.state.SaveChart {
		v.state.SaveChart = false
		path := g.chartPath
		if path == "" {
			path = "health.png"
		}
		if err := g.SaveChart(path); err != nil {
			slog.Warn("chart not saved", "error", err)
		} else {
			slog.Info("chart saved", "path", path, "frame", g.frame)
		}
	}
}
