package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/outbreak/camera"
	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/systems"
)

// Region is a labelled rectangle drawn under the balls.
type Region struct {
	Name   string
	Bounds components.Boundary
}

// Viewer draws a World through a camera.
type Viewer struct {
	renderer *Renderer
	cam      *camera.Camera
	palette  components.Palette
	regions  []Region
}

// NewViewer creates a viewer for the given camera and palette.
func NewViewer(cam *camera.Camera, palette components.Palette, regions []Region) *Viewer {
	return &Viewer{renderer: NewRenderer(), cam: cam, palette: palette, regions: regions}
}

// Camera returns the viewer camera.
func (v *Viewer) Camera() *camera.Camera { return v.cam }

// HandleInput pans with the left mouse button and zooms with the wheel.
func (v *Viewer) HandleInput() {
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		d := rl.GetMouseDelta()
		v.cam.Pan(-d.X, -d.Y)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.cam.ZoomBy(1 + 0.1*wheel)
	}
}

// Draw renders walls, regions and balls. Overlay flags come from overlays.
func (v *Viewer) Draw(w *systems.World, overlays *OverlayRegistry) {
	theme := v.renderer.Theme
	v.cam.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))

	if overlays.IsEnabled(OverlayRegions) {
		for _, reg := range v.regions {
			v.drawRect(reg.Bounds, 1, theme.RegionColor)
			x, y := v.cam.WorldToScreen(float32(reg.Bounds.Left), float32(reg.Bounds.Top))
			rl.DrawText(reg.Name, int32(x)+2, int32(y)-14, theme.FontSize, theme.RegionColor)
		}
	}
	v.drawRect(w.Bounds(), 2, theme.WallColor)

	scale := v.cam.Scale()
	showVel := overlays.IsEnabled(OverlayVelocity)
	showTimers := overlays.IsEnabled(OverlayTimers)
	for _, b := range w.Balls() {
		p := b.Position()
		px, py := float32(p.X), float32(p.Y)
		if !v.cam.IsVisible(px, py, float32(b.Radius())) {
			continue
		}
		sx, sy := v.cam.WorldToScreen(px, py)
		rad := float32(b.Radius()) * scale
		if rad < 1 {
			rad = 1
		}
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, rad, toRL(v.palette.Color(b.Health())))

		if showVel {
			vel := b.Velocity()
			// Ten frames of travel, so slow balls still show a visible line.
			ex, ey := v.cam.WorldToScreen(px+10*float32(vel.X), py+10*float32(vel.Y))
			rl.DrawLineV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: ex, Y: ey}, rl.DarkGray)
		}
		if showTimers && b.Health() == components.Infected {
			if since, ok := b.InfectedSince(); ok {
				rl.DrawText(fmt.Sprintf("%d", b.InfectionDuration()-since), int32(sx+rad), int32(sy-rad), 10, rl.Maroon)
			}
		}
	}
}

func (v *Viewer) drawRect(b components.Boundary, thick float32, col rl.Color) {
	x0, y0 := v.cam.WorldToScreen(float32(b.Left), float32(b.Top))
	x1, y1 := v.cam.WorldToScreen(float32(b.Right), float32(b.Bottom))
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, thick, col)
}
