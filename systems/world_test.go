package systems

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/outbreak/components"
)

func newTestWorld(t *testing.T, balls ...*Ball) *World {
	t.Helper()
	w, err := NewWorld(testBounds, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	w.AddBalls(balls...)
	return w
}

func TestNewWorldRejectsInvertedBounds(t *testing.T) {
	_, err := NewWorld(components.Boundary{Left: 1, Right: 0, Top: 1}, nil)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestAddBallsAssignsBounds(t *testing.T) {
	city := components.Boundary{Left: 1, Right: 5, Bottom: 1, Top: 5}
	roaming := mustBall(t, BallOptions{})
	local := mustBall(t, BallOptions{Bounds: &city})

	w := newTestWorld(t, roaming, local, mustBall(t, BallOptions{}))

	if w.Population() != 3 {
		t.Fatalf("population = %d, want 3", w.Population())
	}
	if got, ok := roaming.Bounds(); !ok || got != testBounds {
		t.Errorf("roaming bounds = %v (%v), want world bounds", got, ok)
	}
	if got, _ := local.Bounds(); got != city {
		t.Errorf("city ball bounds overwritten: %v", got)
	}
	if w.Balls()[0] != roaming || w.Balls()[1] != local {
		t.Error("insertion order not preserved")
	}
}

func TestRemove(t *testing.T) {
	a, b, c := mustBall(t, BallOptions{}), mustBall(t, BallOptions{}), mustBall(t, BallOptions{})
	w := newTestWorld(t, a, b, c)

	got, err := w.Remove(1)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got != b {
		t.Error("Remove returned the wrong ball")
	}
	if w.Population() != 2 || w.Balls()[0] != a || w.Balls()[1] != c {
		t.Errorf("remaining balls wrong: %v", w.Balls())
	}

	if _, err := w.Remove(5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestPopulateRandom(t *testing.T) {
	w := newTestWorld(t)
	region := components.Boundary{Left: 1, Right: 5, Bottom: 2, Top: 4}

	balls, err := w.PopulateRandom(PopulateOptions{N: 20, Region: &region, Speed: 0.3})
	if err != nil {
		t.Fatalf("PopulateRandom: %v", err)
	}
	if len(balls) != 20 || w.Population() != 20 {
		t.Fatalf("got %d balls (population %d), want 20", len(balls), w.Population())
	}

	heading := balls[0].Velocity()
	for i, b := range balls {
		if !region.Contains(b.Position()) {
			t.Errorf("ball %d at %v outside %v", i, b.Position(), region)
		}
		if b.Velocity() != heading {
			t.Errorf("ball %d velocity %v differs from batch heading %v", i, b.Velocity(), heading)
		}
		if math.Abs(r2.Norm(b.Velocity())-0.3) > 1e-9 {
			t.Errorf("ball %d speed = %v, want 0.3", i, r2.Norm(b.Velocity()))
		}
		if bounds, _ := b.Bounds(); bounds != testBounds {
			t.Errorf("ball %d bounds = %v, want world bounds", i, bounds)
		}
		if b.Radius() != DefaultRadius {
			t.Errorf("ball %d radius = %v, want default", i, b.Radius())
		}
	}
}

func TestPopulateRandomDefaults(t *testing.T) {
	w := newTestWorld(t)
	balls, err := w.PopulateRandom(PopulateOptions{N: 10})
	if err != nil {
		t.Fatalf("PopulateRandom: %v", err)
	}
	for _, b := range balls {
		if !testBounds.Contains(b.Position()) {
			t.Errorf("ball at %v outside world", b.Position())
		}
		if math.Abs(r2.Norm(b.Velocity())-DefaultSpeed) > 1e-9 {
			t.Errorf("speed = %v, want DefaultSpeed", r2.Norm(b.Velocity()))
		}
	}
}

func TestPopulateRandomTemplateAndFactory(t *testing.T) {
	w := newTestWorld(t)
	city := components.Boundary{Left: 6, Right: 7, Bottom: 4.5, Top: 5.5}

	calls := 0
	balls, err := w.PopulateRandom(PopulateOptions{
		N:      5,
		Region: &city,
		Template: BallOptions{
			Radius:   0.2,
			Bounds:   &city,
			Behavior: Cautious{},
		},
		Factory: func(opts BallOptions) (*Ball, error) {
			calls++
			return NewBall(opts)
		},
	})
	if err != nil {
		t.Fatalf("PopulateRandom: %v", err)
	}
	if calls != 5 {
		t.Errorf("factory called %d times, want 5", calls)
	}
	for _, b := range balls {
		if bounds, _ := b.Bounds(); bounds != city {
			t.Errorf("bounds = %v, want city %v", bounds, city)
		}
		if b.Behavior().Name() != "cautious" || b.Radius() != 0.2 {
			t.Errorf("template not applied: %v radius %v", b.Behavior().Name(), b.Radius())
		}
	}
}

func TestPopulateRandomFactoryErrorAddsNothing(t *testing.T) {
	w := newTestWorld(t)
	boom := errors.New("boom")
	calls := 0

	_, err := w.PopulateRandom(PopulateOptions{
		N: 4,
		Factory: func(opts BallOptions) (*Ball, error) {
			calls++
			if calls == 3 {
				return nil, boom
			}
			return NewBall(opts)
		},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want factory error", err)
	}
	if w.Population() != 0 {
		t.Errorf("population = %d after failed batch, want 0", w.Population())
	}
}

func TestPopulateRandomRejectsBadOptions(t *testing.T) {
	w := newTestWorld(t)
	inverted := components.Boundary{Left: 3, Right: 1, Bottom: 0, Top: 1}
	tests := []struct {
		name string
		opts PopulateOptions
	}{
		{"negative count", PopulateOptions{N: -1}},
		{"inverted region", PopulateOptions{N: 1, Region: &inverted}},
		{"negative speed", PopulateOptions{N: 1, Speed: -1}},
		{"bad template radius", PopulateOptions{N: 1, Template: BallOptions{Radius: -0.1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := w.PopulateRandom(tt.opts); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestDetectCollisions(t *testing.T) {
	at := func(x, y float64) *Ball {
		return mustBall(t, BallOptions{Position: r2.Vec{X: x, Y: y}, Radius: 0.5})
	}

	tests := []struct {
		name  string
		balls []*Ball
		want  int
	}{
		{"one touching pair and a loner", []*Ball{at(0, 0), at(0.5, 0.5), at(999, 2342)}, 1},
		{"three mutually touching", []*Ball{at(0, 0), at(0.5, 0.5), at(0.3, 0.3)}, 3},
		{"far apart", []*Ball{at(0, 0), at(99, 99)}, 0},
		{"exactly touching", []*Ball{at(0, 0), at(1, 0)}, 1},
		{"just apart", []*Ball{at(0, 0), at(1.0001, 0)}, 0},
		{"single ball", []*Ball{at(0, 0)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t, tt.balls...)
			if got := len(w.DetectCollisions()); got != tt.want {
				t.Errorf("DetectCollisions() = %d pairs, want %d", got, tt.want)
			}
		})
	}
}

func TestDetectCollisionsAllOverlapping(t *testing.T) {
	const n = 7
	balls := make([]*Ball, n)
	for i := range balls {
		balls[i] = mustBall(t, BallOptions{Position: r2.Vec{X: 5 + 0.01*float64(i), Y: 5}, Radius: 1})
	}
	w := newTestWorld(t, balls...)

	pairs := w.DetectCollisions()
	if len(pairs) != n*(n-1)/2 {
		t.Fatalf("got %d pairs, want %d", len(pairs), n*(n-1)/2)
	}

	seen := make(map[[2]*Ball]bool)
	for _, p := range pairs {
		if p.A == p.B {
			t.Fatal("self pair reported")
		}
		if seen[[2]*Ball{p.A, p.B}] || seen[[2]*Ball{p.B, p.A}] {
			t.Fatalf("pair reported twice")
		}
		seen[[2]*Ball{p.A, p.B}] = true
	}
}

func TestResolveCollisionsEqualMassSwap(t *testing.T) {
	a := mustBall(t, BallOptions{Position: r2.Vec{X: 0, Y: 0}, Velocity: r2.Vec{X: 1}, Radius: 0.5})
	b := mustBall(t, BallOptions{Position: r2.Vec{X: 0.5, Y: 0}, Radius: 0.5})
	w := newTestWorld(t, a, b)

	report := w.ResolveCollisions()

	if report.Pairs != 1 || report.Degenerate != 0 {
		t.Errorf("report = %+v, want one regular pair", report)
	}
	if !vecNear(a.Velocity(), r2.Vec{}, 1e-12) {
		t.Errorf("a velocity = %v, want (0, 0)", a.Velocity())
	}
	if !vecNear(b.Velocity(), r2.Vec{X: 1}, 1e-12) {
		t.Errorf("b velocity = %v, want (1, 0)", b.Velocity())
	}
	if Overlapping(a, b) {
		t.Errorf("still overlapping at distance %v", Distance(a, b))
	}
	if a.Position().Y != 0 || b.Position().Y != 0 {
		t.Error("separation left the collision axis")
	}
}

func TestResolveCollisionsConservesMomentum(t *testing.T) {
	a := mustBall(t, BallOptions{Position: r2.Vec{X: 2, Y: 2}, Velocity: r2.Vec{X: 0.3, Y: 0.1}, Radius: 0.4, Mass: 3})
	b := mustBall(t, BallOptions{Position: r2.Vec{X: 2.5, Y: 2.3}, Velocity: r2.Vec{X: -0.2, Y: 0.05}, Radius: 0.3, Mass: 1})
	w := newTestWorld(t, a, b)

	momentum := func() r2.Vec {
		return r2.Add(r2.Scale(a.Mass(), a.Velocity()), r2.Scale(b.Mass(), b.Velocity()))
	}
	energy := func() float64 {
		return 0.5*a.Mass()*r2.Norm2(a.Velocity()) + 0.5*b.Mass()*r2.Norm2(b.Velocity())
	}
	p0, e0 := momentum(), energy()

	w.ResolveCollisions()

	if !vecNear(momentum(), p0, 1e-12) {
		t.Errorf("momentum %v -> %v", p0, momentum())
	}
	if math.Abs(energy()-e0) > 1e-12 {
		t.Errorf("kinetic energy %v -> %v", e0, energy())
	}
	if Overlapping(a, b) {
		t.Error("pair still overlapping after resolution")
	}
}

func TestResolveCollisionsDegenerate(t *testing.T) {
	a := mustBall(t, BallOptions{Position: r2.Vec{X: 5, Y: 5}, Velocity: r2.Vec{X: 0.1}})
	b := mustBall(t, BallOptions{Position: r2.Vec{X: 5, Y: 5}, Velocity: r2.Vec{X: 0.1}})
	w := newTestWorld(t, a, b)

	report := w.ResolveCollisions()

	if report.Degenerate != 1 {
		t.Errorf("report = %+v, want one degenerate pair", report)
	}
	if Overlapping(a, b) {
		t.Error("coincident balls not separated")
	}
	for _, ball := range []*Ball{a, b} {
		if !finiteVec(ball.Velocity()) || !finiteVec(ball.Position()) {
			t.Errorf("non-finite state after degenerate collision: %v", ball)
		}
	}
	if a.Velocity() != (r2.Vec{X: 0.1}) || b.Velocity() != (r2.Vec{X: 0.1}) {
		t.Error("degenerate collision must not change velocities")
	}
}

func TestBallAddedTwiceNeverPairsWithItself(t *testing.T) {
	b := mustBall(t, BallOptions{Position: r2.Vec{X: 5, Y: 5}, Health: components.Infected})
	w := newTestWorld(t, b)
	w.AddBalls(b)

	if w.Population() != 2 {
		t.Fatalf("population = %d, want 2", w.Population())
	}
	if pairs := w.DetectCollisions(); len(pairs) != 0 {
		t.Fatalf("DetectCollisions() = %d pairs, want 0", len(pairs))
	}

	done := make(chan CollisionReport, 1)
	go func() { done <- w.ResolveCollisions() }()
	select {
	case report := <-done:
		if report.Pairs != 0 {
			t.Errorf("report = %+v, want no pairs", report)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ResolveCollisions did not return")
	}
	if b.Position() != (r2.Vec{X: 5, Y: 5}) {
		t.Errorf("ball moved to %v", b.Position())
	}

	separate(b, b, r2.Vec{X: 0.01})
	if b.Position() != (r2.Vec{X: 5, Y: 5}) {
		t.Errorf("separate moved a ball against itself to %v", b.Position())
	}
}

func TestResolveInfections(t *testing.T) {
	tests := []struct {
		name       string
		a, b       components.Health
		wantA      components.Health
		wantB      components.Health
		infections int
	}{
		{"healthy meets infected", components.Healthy, components.Infected, components.Infected, components.Infected, 1},
		{"infected meets healthy", components.Infected, components.Healthy, components.Infected, components.Infected, 1},
		{"recovered is immune", components.Recovered, components.Infected, components.Recovered, components.Infected, 0},
		{"recovered does not transmit", components.Healthy, components.Recovered, components.Healthy, components.Recovered, 0},
		{"two healthy", components.Healthy, components.Healthy, components.Healthy, components.Healthy, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustBall(t, BallOptions{Position: r2.Vec{X: 5, Y: 5}, Health: tt.a})
			b := mustBall(t, BallOptions{Position: r2.Vec{X: 5.1, Y: 5}, Health: tt.b})
			w := newTestWorld(t, a, b)

			if got := w.ResolveInfections(); got != tt.infections {
				t.Errorf("ResolveInfections() = %d, want %d", got, tt.infections)
			}
			if a.Health() != tt.wantA || b.Health() != tt.wantB {
				t.Errorf("health = (%v, %v), want (%v, %v)", a.Health(), b.Health(), tt.wantA, tt.wantB)
			}
		})
	}
}

func TestResolveInfectionsIgnoresDistantBalls(t *testing.T) {
	sick := mustBall(t, BallOptions{Position: r2.Vec{X: 1, Y: 1}, Health: components.Infected})
	well := mustBall(t, BallOptions{Position: r2.Vec{X: 8, Y: 8}})
	w := newTestWorld(t, sick, well)

	w.ResolveInfections()
	if well.Health() != components.Healthy {
		t.Error("infection jumped between non-touching balls")
	}
}

func TestUpdateRunsFullFrame(t *testing.T) {
	sick := mustBall(t, BallOptions{Position: r2.Vec{X: 4.85, Y: 5}, Velocity: r2.Vec{X: 0.1}, Health: components.Infected})
	well := mustBall(t, BallOptions{Position: r2.Vec{X: 5.15, Y: 5}, Velocity: r2.Vec{X: -0.1}})
	w := newTestWorld(t, sick, well)

	report := w.Update()

	if report.Collisions.Pairs != 1 {
		t.Errorf("collisions = %+v, want one pair", report.Collisions)
	}
	if report.NewInfections != 0 {
		t.Errorf("new infections = %d; separated balls should no longer touch", report.NewInfections)
	}
	if sick.Velocity().X >= 0 || well.Velocity().X <= 0 {
		t.Errorf("balls did not bounce: %v %v", sick.Velocity(), well.Velocity())
	}
}

func TestUpdateInfectOnContact(t *testing.T) {
	sick := mustBall(t, BallOptions{Position: r2.Vec{X: 4.85, Y: 5}, Velocity: r2.Vec{X: 0.1}, Health: components.Infected})
	well := mustBall(t, BallOptions{Position: r2.Vec{X: 5.15, Y: 5}, Velocity: r2.Vec{X: -0.1}})
	w := newTestWorld(t, sick, well)
	w.SetInfectOnContact(true)

	report := w.Update()

	if report.NewInfections != 1 {
		t.Errorf("new infections = %d, want 1 from the pre-separation contact", report.NewInfections)
	}
	if well.Health() != components.Infected {
		t.Errorf("well ball is %v, want infected", well.Health())
	}
	if Overlapping(sick, well) {
		t.Error("contact infection must not skip separation")
	}
}

func TestSpreadInfectionsFollowsMode(t *testing.T) {
	tests := []struct {
		name      string
		onContact bool
		want      int
	}{
		{"fresh detection", false, 0},
		{"on contact", true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sick := mustBall(t, BallOptions{Position: r2.Vec{X: 4.85, Y: 5}, Velocity: r2.Vec{X: 0.1}, Health: components.Infected})
			well := mustBall(t, BallOptions{Position: r2.Vec{X: 5.15, Y: 5}, Velocity: r2.Vec{X: -0.1}})
			w := newTestWorld(t, sick, well)
			w.SetInfectOnContact(tt.onContact)
			if w.InfectOnContact() != tt.onContact {
				t.Fatalf("InfectOnContact() = %v", w.InfectOnContact())
			}

			w.Step()
			w.ResolveCollisions()
			if got := w.SpreadInfections(); got != tt.want {
				t.Errorf("SpreadInfections() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolveContactInfectionsUsesLastSnapshot(t *testing.T) {
	sick := mustBall(t, BallOptions{Position: r2.Vec{X: 5, Y: 5}, Health: components.Infected})
	well := mustBall(t, BallOptions{Position: r2.Vec{X: 5.1, Y: 5}})
	w := newTestWorld(t, sick, well)

	if got := w.ResolveContactInfections(); got != 0 {
		t.Errorf("no collision pass yet, got %d infections", got)
	}
	w.ResolveCollisions()
	if got := w.ResolveContactInfections(); got != 1 {
		t.Errorf("ResolveContactInfections() = %d, want 1", got)
	}
}

func TestHealthPercentages(t *testing.T) {
	w := newTestWorld(t)
	if _, err := w.HealthPercentages(); !errors.Is(err, ErrEmptyPopulation) {
		t.Fatalf("err = %v, want ErrEmptyPopulation", err)
	}

	w.AddBalls(mustBall(t, BallOptions{Health: components.Healthy}))
	for i := 0; i < 10; i++ {
		w.AddBalls(mustBall(t, BallOptions{Health: components.Infected}))
	}
	for i := 0; i < 10; i++ {
		w.AddBalls(mustBall(t, BallOptions{Health: components.Recovered}))
	}

	counts := w.HealthCounts()
	if counts[components.Healthy] != 1 || counts[components.Infected] != 10 || counts[components.Recovered] != 10 {
		t.Errorf("counts = %v", counts)
	}
	if counts.Total() != 21 {
		t.Errorf("total = %d, want 21", counts.Total())
	}

	pct, err := w.HealthPercentages()
	if err != nil {
		t.Fatalf("HealthPercentages: %v", err)
	}
	if len(pct) != components.NumHealthStates {
		t.Fatalf("got %d states, want %d", len(pct), components.NumHealthStates)
	}
	var sum float64
	for _, v := range pct {
		sum += v
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("percentages sum to %v, want 100", sum)
	}
	if math.Abs(pct[components.Infected]-1000.0/21) > 1e-9 {
		t.Errorf("infected = %v, want %v", pct[components.Infected], 1000.0/21)
	}
}

func TestHealthPercentagesSumOverRun(t *testing.T) {
	w := newTestWorld(t)
	if _, err := w.PopulateRandom(PopulateOptions{N: 30, Template: BallOptions{Radius: 0.3, InfectionDuration: 20}}); err != nil {
		t.Fatal(err)
	}
	w.Balls()[0].SetHealth(components.Infected)

	for frame := 0; frame < 200; frame++ {
		w.Update()
		pct, err := w.HealthPercentages()
		if err != nil {
			t.Fatal(err)
		}
		sum := pct[components.Healthy] + pct[components.Infected] + pct[components.Recovered]
		if math.Abs(sum-100) > 1e-9 {
			t.Fatalf("frame %d: percentages sum to %v", frame, sum)
		}
	}
}

func TestStepConcurrentMatchesStep(t *testing.T) {
	build := func() *World {
		w, err := NewWorld(testBounds, rand.New(rand.NewSource(7)))
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 4; i++ {
			if _, err := w.PopulateRandom(PopulateOptions{N: 50}); err != nil {
				t.Fatal(err)
			}
		}
		return w
	}
	serial, parallel := build(), build()

	for i := 0; i < 25; i++ {
		serial.Step()
		parallel.StepConcurrent(4)
	}

	for i, b := range serial.Balls() {
		p := parallel.Balls()[i]
		if b.Position() != p.Position() || b.Velocity() != p.Velocity() {
			t.Fatalf("ball %d diverged: %v vs %v", i, b, p)
		}
	}
}
