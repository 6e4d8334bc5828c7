package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title      string
	Frame      int
	Population int
	Speed      int
	FPS        int32
	Paused     bool
	Done       bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.DarkGray)
	rl.DrawText(
		fmt.Sprintf("Frame: %d | Balls: %d | Speed: %dx | FPS: %d", data.Frame, data.Population, data.Speed, data.FPS),
		10, 35, 16, rl.Gray,
	)

	status, col := "Running", rl.DarkGreen
	switch {
	case data.Done:
		status, col = "Epidemic over", rl.Maroon
	case data.Paused:
		status, col = "PAUSED", rl.Orange
	}
	rl.DrawText(status, 10, 55, 16, col)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, overlays *OverlayRegistry) {
	legend := "Space: pause | N: step | +/-: speed | drag: pan | wheel: zoom | C: reset view"
	for _, o := range overlays.All() {
		legend += fmt.Sprintf(" | %s: %s", o.KeyLabel, o.Name)
	}
	rl.DrawText(legend, 10, screenHeight-20, 12, rl.Gray)
}

// HealthPanel shows the current health shares and their history.
type HealthPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHealthPanel creates a health panel at the given position.
func NewHealthPanel(x, y, width int32) *HealthPanel {
	return &HealthPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (p *HealthPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders one bar per health state and a sparkline of the tracked history.
func (p *HealthPanel) Draw(history *telemetry.PopulationHealth, palette components.Palette) {
	r := p.renderer
	pad := r.Theme.Padding
	sparkH := int32(60)
	height := pad*2 + r.Theme.LineHeight + int32(components.NumHealthStates)*(r.Theme.LineHeight+2) + sparkH + pad
	r.DrawPanel(p.x, p.y, p.width, height)

	y := r.DrawSectionHeader(p.x+pad, p.y+pad, "Population health")
	latest, ok := history.At(history.Len() - 1)
	for _, h := range components.AllHealth {
		pct := 0.0
		if ok {
			pct = latest[h]
		}
		y = r.DrawPercentBar(p.x+pad, y, h.String(), pct, p.width-2*pad, toRL(palette.Color(h)))
	}

	y += pad / 2
	for _, h := range components.AllHealth {
		r.DrawSparkline(p.x+pad, y, p.width-2*pad, sparkH, history.Series(h), toRL(palette.Color(h)))
	}
}

// PerfPanel renders the frame timing breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, phases []string) {
	r := p.renderer
	width := int32(220)
	height := r.Theme.Padding*2 + r.Theme.LineHeight*int32(len(phases)+2)
	r.DrawPanel(p.x, p.y, width, height)

	x := p.x + r.Theme.Padding
	y := r.DrawSectionHeader(x, p.y+r.Theme.Padding, "Frame timing")
	y = r.DrawLabelValue(x, y, "avg", fmt.Sprintf("%dus (%.0f/s)", stats.AvgFrame.Microseconds(), stats.FramesPerSecond))
	for _, phase := range phases {
		col := r.Theme.ValueColor
		pct := stats.PhasePct[phase]
		if pct > 50 {
			col = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-12s %5.1f%%", phase, pct), x, y, r.Theme.FontSize, col)
		y += r.Theme.LineHeight
	}
}
