package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// MaxSpeed is the largest number of simulation frames per drawn frame.
const MaxSpeed = 20

// ControlState is the simulation control state edited by the panel.
type ControlState struct {
	Paused bool
	Speed  int // frames per drawn frame

	// StepOnce requests a single frame while paused. Consumers clear it.
	StepOnce bool
	// ResetView requests the camera to return to the full world.
	ResetView bool
	// SaveChart requests a chart snapshot of the run so far.
	SaveChart bool
}

// ControlsPanel renders raygui buttons and a speed slider.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Height returns the panel height in pixels.
func (c *ControlsPanel) Height() int32 { return 110 }

// Draw renders the panel and applies clicks to state.
func (c *ControlsPanel) Draw(state *ControlState) {
	r := c.renderer
	pad := float32(r.Theme.Padding)
	r.DrawPanel(c.x, c.y, c.width, c.Height())

	x := float32(c.x) + pad
	y := float32(c.y) + pad
	btnW := (float32(c.width) - 4*pad) / 3

	label := "Pause"
	if state.Paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: btnW, Height: 24}, label) {
		state.Paused = !state.Paused
	}
	if gui.Button(rl.Rectangle{X: x + btnW + pad, Y: y, Width: btnW, Height: 24}, "Step") {
		state.Paused = true
		state.StepOnce = true
	}
	if gui.Button(rl.Rectangle{X: x + 2*(btnW+pad), Y: y, Width: btnW, Height: 24}, "Chart") {
		state.SaveChart = true
	}
	y += 34

	rl.DrawText("Speed", int32(x), int32(y)+4, r.Theme.FontSize, r.Theme.LabelColor)
	speed := gui.SliderBar(
		rl.Rectangle{X: x + 50, Y: y, Width: float32(c.width) - 2*pad - 90, Height: 20},
		"", "",
		float32(state.Speed), 1, MaxSpeed,
	)
	state.Speed = clampSpeed(int(speed + 0.5))
	rl.DrawText(fmt.Sprintf("%dx", state.Speed), int32(float32(c.x+c.width)-pad-30), int32(y)+4, r.Theme.FontSize, r.Theme.ValueColor)
	y += 30

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: float32(c.width) - 2*pad, Height: 24}, "Reset view") {
		state.ResetView = true
	}
}

// HandleKeys applies keyboard shortcuts to state.
func (c *ControlsPanel) HandleKeys(state *ControlState) {
	if rl.IsKeyPressed(rl.KeySpace) {
		state.Paused = !state.Paused
	}
	if rl.IsKeyPressed(rl.KeyN) {
		state.Paused = true
		state.StepOnce = true
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		state.Speed = clampSpeed(state.Speed + 1)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		state.Speed = clampSpeed(state.Speed - 1)
	}
	if rl.IsKeyPressed(rl.KeyC) {
		state.ResetView = true
	}
}

func clampSpeed(s int) int {
	if s < 1 {
		return 1
	}
	if s > MaxSpeed {
		return MaxSpeed
	}
	return s
}
