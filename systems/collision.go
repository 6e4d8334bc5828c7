package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// separationSteps is the number of increments the separation vector is
// split into when pushing an overlapping pair apart.
const separationSteps = 100

// minSeparationFraction is the smallest centre distance, as a fraction of
// the summed radii, that is still pushed apart by its own direction vector.
// Closer pairs step by 1% of the summed radii so separation terminates quickly.
const minSeparationFraction = 1e-3

// Pair is an unordered pair of touching balls. A precedes B in insertion order.
type Pair struct {
	A, B *Ball
}

// CollisionReport counts the pairs handled by ResolveCollisions.
type CollisionReport struct {
	Pairs      int
	Degenerate int // pairs with coincident centres; no impulse applied
}

// Overlapping reports whether the centre distance is at most the sum of the radii.
func Overlapping(a, b *Ball) bool {
	r := a.radius + b.radius
	return r2.Norm2(r2.Sub(a.pos, b.pos)) <= r*r
}

// Distance returns the distance between the ball centres.
func Distance(a, b *Ball) float64 {
	return r2.Norm(r2.Sub(a.pos, b.pos))
}

// DetectCollisions returns every touching pair exactly once, brute force.
// A ball never pairs with itself, even when it was added twice.
func (w *World) DetectCollisions() []Pair {
	var pairs []Pair
	for i := 0; i < len(w.balls); i++ {
		for j := i + 1; j < len(w.balls); j++ {
			if w.balls[i] == w.balls[j] {
				continue
			}
			if Overlapping(w.balls[i], w.balls[j]) {
				pairs = append(pairs, Pair{A: w.balls[i], B: w.balls[j]})
			}
		}
	}
	return pairs
}

// ResolveCollisions applies an elastic impulse to every touching pair and
// pushes each pair apart until it no longer overlaps.
func (w *World) ResolveCollisions() CollisionReport {
	var report CollisionReport
	w.contacts = w.DetectCollisions()
	for _, p := range w.contacts {
		report.Pairs++
		if !resolvePair(p.A, p.B) {
			report.Degenerate++
		}
	}
	return report
}

// resolvePair handles one collision. It returns false when the centres
// coincide; the impulse is then undefined and only separation is applied.
func resolvePair(a, b *Ball) bool {
	d := r2.Sub(a.pos, b.pos)
	dist2 := r2.Norm2(d)
	if dist2 == 0 {
		separate(a, b, degenerateStep(a, b))
		return false
	}

	total := a.mass + b.mass
	// v1' = v1 - 2 m2/(m1+m2) <v1-v2, x1-x2>/|x1-x2|² (x1-x2), and symmetric for v2.
	k := r2.Dot(r2.Sub(a.vel, b.vel), d) / dist2
	va := r2.Sub(a.vel, r2.Scale(2*b.mass/total*k, d))
	vb := r2.Add(b.vel, r2.Scale(2*a.mass/total*k, d))
	a.vel, b.vel = va, vb

	sep := r2.Sub(b.pos, a.pos)
	step := r2.Scale(1.0/separationSteps, sep)
	if math.Sqrt(dist2) < minSeparationFraction*(a.radius+b.radius) {
		step = r2.Scale((a.radius+b.radius)/separationSteps, r2.Unit(sep))
	}
	separate(a, b, step)
	return true
}

// separate moves b along step and a against it until they stop overlapping.
func separate(a, b *Ball, step r2.Vec) {
	if a == b {
		return
	}
	for Overlapping(a, b) {
		b.pos = r2.Add(b.pos, step)
		a.pos = r2.Sub(a.pos, step)
	}
}

// degenerateStep picks a push direction for balls sharing a centre:
// along their relative velocity when they have one, +X otherwise.
func degenerateStep(a, b *Ball) r2.Vec {
	dir := r2.Sub(b.vel, a.vel)
	if r2.Norm2(dir) == 0 {
		dir = r2.Vec{X: 1}
	} else {
		dir = r2.Unit(dir)
	}
	return r2.Scale((a.radius+b.radius)/separationSteps, dir)
}
