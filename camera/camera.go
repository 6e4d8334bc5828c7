// Package camera maps a bounded, y-up simulation world onto screen pixels.
package camera

import "github.com/pthm-cable/outbreak/components"

// Camera controls the viewport into the simulation world.
// Screen y grows downwards while world y grows upwards.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level on top of the fit scale (1.0 = whole world visible)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World rectangle the camera is fitted to and panning is clamped to
	World components.Boundary

	// Zoom constraints
	MinZoom, MaxZoom float32

	// fit is pixels per world unit at Zoom 1
	fit float32
}

// Margin is the fraction of the viewport left free around the world at zoom 1.
const Margin = 0.05

// New creates a camera centered on the world, zoomed to fit it in the viewport.
func New(viewportW, viewportH float32, world components.Boundary) *Camera {
	c := &Camera{
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		World:     world,
		MinZoom:   0.5,
		MaxZoom:   8.0,
	}
	c.refit()
	c.Reset()
	return c
}

// refit recomputes the pixels-per-unit scale that fits the world in the viewport.
func (c *Camera) refit() {
	w := float32(c.World.Width())
	h := float32(c.World.Height())
	usable := float32(1 - 2*Margin)
	sx, sy := float32(0), float32(0)
	if w > 0 {
		sx = c.ViewportW * usable / w
	}
	if h > 0 {
		sy = c.ViewportH * usable / h
	}
	switch {
	case sx == 0 && sy == 0:
		c.fit = 1
	case sx == 0:
		c.fit = sy
	case sy == 0 || sx < sy:
		c.fit = sx
	default:
		c.fit = sy
	}
}

// Scale returns the current pixels per world unit.
func (c *Camera) Scale() float32 {
	return c.fit * c.Zoom
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	s := c.Scale()
	sx = c.ViewportW/2 + (wx-c.X)*s
	sy = c.ViewportH/2 - (wy-c.Y)*s
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	s := c.Scale()
	wx = c.X + (sx-c.ViewportW/2)/s
	wy = c.Y - (sy-c.ViewportH/2)/s
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	s := c.Scale()
	halfW := c.ViewportW/(2*s) + radius
	halfH := c.ViewportH/(2*s) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions and refits the world.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.refit()
}

// Pan moves the camera by the given delta in screen pixels.
// The center stays inside the world rectangle.
func (c *Camera) Pan(dx, dy float32) {
	s := c.Scale()
	c.X = clamp(c.X+dx/s, float32(c.World.Left), float32(c.World.Right))
	c.Y = clamp(c.Y-dy/s, float32(c.World.Bottom), float32(c.World.Top))
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the world center at zoom 1.
func (c *Camera) Reset() {
	center := c.World.Center()
	c.X = float32(center.X)
	c.Y = float32(center.Y)
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the world rectangle currently on screen.
func (c *Camera) VisibleWorldBounds() components.Boundary {
	s := c.Scale()
	halfW := c.ViewportW / (2 * s)
	halfH := c.ViewportH / (2 * s)
	return components.Boundary{
		Left:   float64(c.X - halfW),
		Right:  float64(c.X + halfW),
		Top:    float64(c.Y + halfH),
		Bottom: float64(c.Y - halfH),
	}
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
