package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/outbreak/telemetry"
	"github.com/pthm-cable/outbreak/ui"
)

var perfPhases = []string{
	telemetry.PhaseIntegrate,
	telemetry.PhaseCollisions,
	telemetry.PhaseInfections,
	telemetry.PhaseTelemetry,
	telemetry.PhaseRecord,
}

// Update handles input and advances the simulation by the selected speed.
func (g *Game) Update() {
	if g.view == nil {
		g.UpdateHeadless()
		return
	}
	g.handleInput()
	g.applyControlRequests()

	v := g.view
	switch {
	case v.state.StepOnce:
		v.state.StepOnce = false
		if !g.Finished() {
			g.Step()
		}
	case !v.state.Paused:
		for i := 0; i < v.state.Speed && !g.Finished(); i++ {
			g.Step()
		}
	}
}

// Draw renders the world and all panels.
func (g *Game) Draw() {
	v := g.view
	if v == nil {
		return
	}
	theme := ui.DefaultTheme()
	sw := int32(rl.GetScreenWidth())
	sh := int32(rl.GetScreenHeight())

	rl.BeginDrawing()
	rl.ClearBackground(theme.Background)

	v.viewer.Draw(g.world, v.overlays)

	v.hud.Draw(ui.HUDData{
		Title:      "Outbreak: " + g.scenario.Name,
		Frame:      g.frame,
		Population: g.world.Population(),
		Speed:      v.state.Speed,
		FPS:        rl.GetFPS(),
		Paused:     v.state.Paused,
		Done:       g.Done(),
	})

	y := int32(10)
	if v.overlays.IsEnabled(ui.OverlayHealthBar) {
		v.health.SetPosition(sw-250, y)
		v.health.Draw(g.tracker, g.cfg.Derived.Palette)
		y += 180
	}
	v.controls.SetPosition(sw-250, y)
	v.controls.Draw(&v.state)

	if v.overlays.IsEnabled(ui.OverlayPerf) {
		v.perf.Draw(g.perf.Stats(), perfPhases)
	}
	v.hud.DrawControls(sh, v.overlays)

	rl.EndDrawing()
	g.perf.RecordDraw()
}
