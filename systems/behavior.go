package systems

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/outbreak/components"
)

// DefaultRecklessGrowth is the radius multiplier applied to reckless balls while infected.
const DefaultRecklessGrowth = 4.0

// Behavior customises how a ball moves and reacts to health changes.
type Behavior interface {
	// Name identifies the behaviour in config and logs.
	Name() string
	// BeforeStep runs at the start of Ball.Step.
	BeforeStep(b *Ball)
	// OnHealthChange runs after the ball's health has changed.
	OnHealthChange(b *Ball, from, to components.Health)
}

// Standard is the plain ball with no extra behaviour.
type Standard struct{}

func (Standard) Name() string { return "standard" }
func (Standard) BeforeStep(*Ball) {}
func (Standard) OnHealthChange(*Ball, components.Health, components.Health) {}

// Cautious balls self-isolate: they stand still for as long as they are infected.
type Cautious struct{}

func (Cautious) Name() string { return "cautious" }

func (Cautious) BeforeStep(b *Ball) {
	if b.health == components.Infected {
		b.vel = r2.Vec{}
	}
}

func (Cautious) OnHealthChange(*Ball, components.Health, components.Health) {}

// Reckless balls swell while contagious, so they hit far more of their neighbours.
type Reckless struct {
	Growth float64 // radius multiplier while infected
}

func (Reckless) Name() string { return "reckless" }
func (Reckless) BeforeStep(*Ball) {}

func (r Reckless) OnHealthChange(b *Ball, from, to components.Health) {
	g := r.growth()
	switch {
	case from != components.Infected && to == components.Infected:
		b.radius *= g
	case from == components.Infected && to == components.Recovered:
		b.radius /= g
	}
}

func (r Reckless) growth() float64 {
	if r.Growth <= 0 {
		return DefaultRecklessGrowth
	}
	return r.Growth
}

// ParseBehavior returns the behaviour registered under name.
// An empty name means Standard. growth only applies to "reckless".
func ParseBehavior(name string, growth float64) (Behavior, error) {
	switch name {
	case "", "standard":
		return Standard{}, nil
	case "cautious":
		return Cautious{}, nil
	case "reckless":
		if !finite(growth) || growth < 0 {
			return nil, fmt.Errorf("%w: reckless growth %g", ErrInvalidConfig, growth)
		}
		return Reckless{Growth: growth}, nil
	default:
		return nil, fmt.Errorf("%w: unknown behavior %q", ErrInvalidConfig, name)
	}
}
