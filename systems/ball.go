// Package systems contains the ball physics and disease-spread simulation.
package systems

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/outbreak/components"
)

// Simulation defaults, in world units and frames.
const (
	DefaultRadius            = 0.1
	DefaultSpeed             = 0.1 // units per frame
	DefaultInfectionDuration = 100 // frames before an infected ball recovers
)

// BallOptions configures a new Ball.
type BallOptions struct {
	Position r2.Vec
	Velocity r2.Vec
	Radius   float64 // must be > 0
	Mass     float64 // 0 = Radius²

	// Bounds confines the ball to a sub-region of the world.
	// Nil means the owning World assigns its own boundary.
	Bounds *components.Boundary

	Health   components.Health
	Behavior Behavior // nil = Standard

	// InfectionDuration is the number of frames an infection lasts (0 = default).
	InfectionDuration int
}

// Ball is a moving disk carrying a health state.
type Ball struct {
	pos    r2.Vec
	vel    r2.Vec
	radius float64
	mass   float64

	bounds    components.Boundary
	hasBounds bool

	health components.Health
	// infectedSince is 0 until the first infection, then counts frames.
	infectedSince     int
	infectionDuration int

	behavior Behavior
}

// NewBall validates opts and builds a ball.
func NewBall(opts BallOptions) (*Ball, error) {
	if !finite(opts.Radius) || opts.Radius <= 0 {
		return nil, fmt.Errorf("%w: radius %g must be positive", ErrInvalidConfig, opts.Radius)
	}
	if !finite(opts.Mass) || opts.Mass < 0 {
		return nil, fmt.Errorf("%w: mass %g must be positive", ErrInvalidConfig, opts.Mass)
	}
	if !finiteVec(opts.Position) || !finiteVec(opts.Velocity) {
		return nil, fmt.Errorf("%w: non-finite position or velocity", ErrInvalidConfig)
	}
	if !opts.Health.Valid() {
		return nil, fmt.Errorf("%w: unknown health %d", ErrInvalidConfig, opts.Health)
	}
	if opts.InfectionDuration < 0 {
		return nil, fmt.Errorf("%w: infection duration %d", ErrInvalidConfig, opts.InfectionDuration)
	}

	b := &Ball{
		pos:               opts.Position,
		vel:               opts.Velocity,
		radius:            opts.Radius,
		mass:              opts.Mass,
		health:            components.Healthy,
		infectionDuration: opts.InfectionDuration,
		behavior:          opts.Behavior,
	}
	if b.mass == 0 {
		b.mass = opts.Radius * opts.Radius
	}
	if b.infectionDuration == 0 {
		b.infectionDuration = DefaultInfectionDuration
	}
	if b.behavior == nil {
		b.behavior = Standard{}
	}
	if opts.Bounds != nil {
		if err := opts.Bounds.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		b.SetBounds(*opts.Bounds)
	}

	// Route the starting state through SetHealth so the timer and hooks run.
	if opts.Health != components.Healthy {
		b.SetHealth(opts.Health)
	}
	return b, nil
}

// Step advances the ball one frame: wall reflection, translation, infection timer.
func (b *Ball) Step() {
	b.behavior.BeforeStep(b)

	// One-shot bounce: flip the component only while moving further out.
	// Position is not clamped, so a fast ball may overshoot for a frame.
	if b.hasBounds {
		if (b.pos.X+b.radius > b.bounds.Right && b.vel.X > 0) ||
			(b.pos.X-b.radius < b.bounds.Left && b.vel.X < 0) {
			b.vel.X = -b.vel.X
		}
		if (b.pos.Y+b.radius > b.bounds.Top && b.vel.Y > 0) ||
			(b.pos.Y-b.radius < b.bounds.Bottom && b.vel.Y < 0) {
			b.vel.Y = -b.vel.Y
		}
	}

	b.pos = r2.Add(b.pos, b.vel)

	if b.health == components.Infected {
		b.infectedSince++
		if b.infectedSince > b.infectionDuration {
			b.SetHealth(components.Recovered)
		}
	}
}

// SetHealth changes the health state. The first transition to Infected
// starts the infection timer at 1. The behaviour hook fires after the
// mutation whenever the state actually changes.
func (b *Ball) SetHealth(h components.Health) {
	old := b.health
	b.health = h
	if h == components.Infected && b.infectedSince == 0 {
		b.infectedSince = 1
	}
	if old != h {
		b.behavior.OnHealthChange(b, old, h)
	}
}

// Health returns the current state.
func (b *Ball) Health() components.Health { return b.health }

// InfectedSince returns the infection frame counter and whether the ball
// has ever been infected. The value is kept after recovery.
func (b *Ball) InfectedSince() (int, bool) {
	return b.infectedSince, b.infectedSince > 0
}

// InfectionDuration returns how many frames an infection lasts for this ball.
func (b *Ball) InfectionDuration() int { return b.infectionDuration }

func (b *Ball) Position() r2.Vec { return b.pos }
func (b *Ball) Velocity() r2.Vec { return b.vel }
func (b *Ball) Radius() float64 { return b.radius }
func (b *Ball) Mass() float64 { return b.mass }

// SetPosition moves the ball without touching its velocity.
func (b *Ball) SetPosition(p r2.Vec) { b.pos = p }

// SetVelocity replaces the ball's velocity.
func (b *Ball) SetVelocity(v r2.Vec) { b.vel = v }

// SetRadius resizes the ball. Mass is left as is.
func (b *Ball) SetRadius(r float64) error {
	if !finite(r) || r <= 0 {
		return fmt.Errorf("%w: radius %g must be positive", ErrInvalidConfig, r)
	}
	b.radius = r
	return nil
}

// Bounds returns the ball's boundary and whether one has been set.
func (b *Ball) Bounds() (components.Boundary, bool) {
	return b.bounds, b.hasBounds
}

// SetBounds confines the ball to bounds.
func (b *Ball) SetBounds(bounds components.Boundary) {
	b.bounds = bounds
	b.hasBounds = true
}

// Behavior returns the ball's strategy.
func (b *Ball) Behavior() Behavior { return b.behavior }

func (b *Ball) String() string {
	return fmt.Sprintf("%s %s ball @ position (%g, %g) with velocity (%g, %g)",
		b.health, b.behavior.Name(), b.pos.X, b.pos.Y, b.vel.X, b.vel.Y)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteVec(v r2.Vec) bool {
	return finite(v.X) && finite(v.Y)
}
