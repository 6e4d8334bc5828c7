// Package scenario builds an initial World from configuration.
package scenario

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/config"
	"github.com/pthm-cable/outbreak/systems"
)

// City is a named sub-region of the world.
type City struct {
	Name   string
	Bounds components.Boundary
}

// Scenario is a populated world plus the regions it was built from.
type Scenario struct {
	Name   string
	World  *systems.World
	Cities []City
}

// Build creates the world described by cfg. Balls are added in a fixed
// order: patient zeros, then each city's groups, then roaming groups.
func Build(cfg *config.Config, rng *rand.Rand) (*Scenario, error) {
	world, err := systems.NewWorld(cfg.World.Bounds, rng)
	if err != nil {
		return nil, err
	}
	world.SetInfectOnContact(cfg.Simulation.InfectOnContact)

	sim := cfg.Simulation
	sc := &Scenario{Name: cfg.Scenario.Name, World: world}

	for i, pz := range cfg.Scenario.PatientZeros {
		behavior, err := systems.ParseBehavior(pz.Behavior, sim.RecklessGrowth)
		if err != nil {
			return nil, fmt.Errorf("patient zero %d: %w", i, err)
		}
		b, err := systems.NewBall(systems.BallOptions{
			Position:          r2.Vec{X: pz.X, Y: pz.Y},
			Velocity:          r2.Vec{X: pz.VX, Y: pz.VY},
			Radius:            sim.BallRadius,
			Health:            components.Infected,
			Behavior:          behavior,
			InfectionDuration: sim.InfectionDuration,
		})
		if err != nil {
			return nil, fmt.Errorf("patient zero %d: %w", i, err)
		}
		world.AddBalls(b)
	}

	for _, city := range cfg.Scenario.Cities {
		bounds := city.Bounds
		for j, g := range city.Groups {
			if err := addGroup(world, g, sim, &bounds); err != nil {
				return nil, fmt.Errorf("city %s group %d: %w", city.Name, j, err)
			}
		}
		sc.Cities = append(sc.Cities, City{Name: city.Name, Bounds: bounds})
	}

	for j, g := range cfg.Scenario.Roaming {
		if err := addGroup(world, g, sim, nil); err != nil {
			return nil, fmt.Errorf("roaming group %d: %w", j, err)
		}
	}

	if world.Population() == 0 {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, systems.ErrEmptyPopulation)
	}
	return sc, nil
}

// addGroup scatters one group. A non-nil region also confines the balls to it.
func addGroup(w *systems.World, g config.GroupConfig, sim config.SimulationConfig, region *components.Boundary) error {
	behavior, err := systems.ParseBehavior(g.Behavior, sim.RecklessGrowth)
	if err != nil {
		return err
	}
	health := components.Healthy
	if g.Health != "" {
		h, err := components.ParseHealth(g.Health)
		if err != nil {
			return fmt.Errorf("%w: %v", systems.ErrInvalidConfig, err)
		}
		health = h
	}
	speed := g.Speed
	if speed == 0 {
		speed = sim.DefaultSpeed
	}

	_, err = w.PopulateRandom(systems.PopulateOptions{
		N:      g.Count,
		Region: region,
		Speed:  speed,
		Template: systems.BallOptions{
			Radius:            sim.BallRadius,
			Bounds:            region,
			Health:            health,
			Behavior:          behavior,
			InfectionDuration: sim.InfectionDuration,
		},
	})
	return err
}
