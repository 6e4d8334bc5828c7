package systems

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/outbreak/components"
)

// World owns the balls and the outer walls and drives the per-frame update.
type World struct {
	bounds components.Boundary
	balls  []*Ball
	rng    *rand.Rand

	// contacts are the pairs found by the last ResolveCollisions, before separation.
	contacts        []Pair
	infectOnContact bool
}

// NewWorld creates an empty world. A nil rng gets a time-seeded source.
func NewWorld(bounds components.Boundary, rng *rand.Rand) (*World, error) {
	if err := bounds.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &World{bounds: bounds, rng: rng}, nil
}

// Bounds returns the outer walls.
func (w *World) Bounds() components.Boundary { return w.bounds }

// Balls returns the balls in insertion order. The slice must not be modified.
func (w *World) Balls() []*Ball { return w.balls }

// Population returns the number of balls.
func (w *World) Population() int { return len(w.balls) }

// AddBalls appends balls, giving the world boundary to any ball without one.
func (w *World) AddBalls(balls ...*Ball) {
	for _, b := range balls {
		if b == nil {
			continue
		}
		if !b.hasBounds {
			b.SetBounds(w.bounds)
		}
		w.balls = append(w.balls, b)
	}
}

// Remove takes the ball at index i out of the world and returns it.
func (w *World) Remove(i int) (*Ball, error) {
	if i < 0 || i >= len(w.balls) {
		return nil, fmt.Errorf("%w: %d (population %d)", ErrIndexOutOfRange, i, len(w.balls))
	}
	b := w.balls[i]
	w.balls = append(w.balls[:i], w.balls[i+1:]...)
	return b, nil
}

// BallFactory builds one ball for PopulateRandom.
type BallFactory func(opts BallOptions) (*Ball, error)

// PopulateOptions configures PopulateRandom.
type PopulateOptions struct {
	N int

	// Region to scatter positions over (nil = world bounds).
	Region *components.Boundary

	// Speed shared by every ball of the batch (0 = DefaultSpeed).
	Speed float64

	// Template provides everything except position and velocity.
	// A zero Radius uses DefaultRadius.
	Template BallOptions

	// Factory replaces NewBall, e.g. to decorate balls per call site.
	Factory BallFactory
}

// PopulateRandom adds N balls at uniform random positions inside the region.
// A single heading is drawn per call, so the whole batch moves in parallel.
func (w *World) PopulateRandom(opts PopulateOptions) ([]*Ball, error) {
	if opts.N < 0 {
		return nil, fmt.Errorf("%w: population size %d", ErrInvalidConfig, opts.N)
	}
	region := w.bounds
	if opts.Region != nil {
		if err := opts.Region.Validate(); err != nil {
			return nil, fmt.Errorf("%w: region: %v", ErrInvalidConfig, err)
		}
		region = *opts.Region
	}
	speed := opts.Speed
	if speed == 0 {
		speed = DefaultSpeed
	}
	if !finite(speed) || speed < 0 {
		return nil, fmt.Errorf("%w: speed %g", ErrInvalidConfig, speed)
	}
	factory := opts.Factory
	if factory == nil {
		factory = NewBall
	}

	angle := w.rng.Float64() * 2 * math.Pi
	vel := r2.Vec{X: speed * math.Cos(angle), Y: speed * math.Sin(angle)}

	created := make([]*Ball, 0, opts.N)
	for i := 0; i < opts.N; i++ {
		ballOpts := opts.Template
		if ballOpts.Radius == 0 {
			ballOpts.Radius = DefaultRadius
		}
		ballOpts.Position = r2.Vec{
			X: region.Left + w.rng.Float64()*region.Width(),
			Y: region.Bottom + w.rng.Float64()*region.Height(),
		}
		ballOpts.Velocity = vel

		b, err := factory(ballOpts)
		if err != nil {
			return nil, fmt.Errorf("creating ball %d of %d: %w", i+1, opts.N, err)
		}
		created = append(created, b)
	}

	// All or nothing: only add once every ball was built.
	w.AddBalls(created...)
	return created, nil
}

// Step advances every ball one frame.
func (w *World) Step() {
	for _, b := range w.balls {
		b.Step()
	}
}

// FrameReport summarises what happened during one Update.
type FrameReport struct {
	Collisions    CollisionReport
	NewInfections int
}

// SetInfectOnContact makes Update spread infections over the pairs that
// touched before collision separation instead of detecting pairs afresh.
func (w *World) SetInfectOnContact(on bool) { w.infectOnContact = on }

// InfectOnContact reports the infection mode set by SetInfectOnContact.
func (w *World) InfectOnContact() bool { return w.infectOnContact }

// SpreadInfections runs the infection pass for the world's mode:
// ResolveContactInfections when infecting on contact, ResolveInfections otherwise.
func (w *World) SpreadInfections() int {
	if w.infectOnContact {
		return w.ResolveContactInfections()
	}
	return w.ResolveInfections()
}

// Update runs one full frame: integrate, resolve collisions, resolve infections.
func (w *World) Update() FrameReport {
	w.Step()
	collisions := w.ResolveCollisions()
	return FrameReport{Collisions: collisions, NewInfections: w.SpreadInfections()}
}

// HealthCounts holds the number of balls in each health state.
type HealthCounts [components.NumHealthStates]int

// Total returns the sum over all states.
func (c HealthCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// HealthCounts counts balls per health state.
func (w *World) HealthCounts() HealthCounts {
	var counts HealthCounts
	for _, b := range w.balls {
		counts[b.health]++
	}
	return counts
}

// HealthPercentages returns each state's share of the population in percent.
// Every state is present in the result.
func (w *World) HealthPercentages() (map[components.Health]float64, error) {
	n := len(w.balls)
	if n == 0 {
		return nil, ErrEmptyPopulation
	}
	counts := w.HealthCounts()
	out := make(map[components.Health]float64, components.NumHealthStates)
	for _, h := range components.AllHealth {
		out[h] = float64(counts[h]) / float64(n) * 100
	}
	return out, nil
}
