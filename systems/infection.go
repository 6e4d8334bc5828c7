package systems

import "github.com/pthm-cable/outbreak/components"

// ResolveInfections spreads the disease across every touching pair.
// Only a {Healthy, Infected} pair transmits; recovered balls are immune.
// Pairs are visited in detection order, so a ball infected earlier in the
// pass already counts as infected for later pairs. Returns the number of
// new infections.
func (w *World) ResolveInfections() int {
	return infect(w.DetectCollisions())
}

// ResolveContactInfections is ResolveInfections on the pairs that touched
// at the start of the last ResolveCollisions call, before they were pushed
// apart. Without a prior collision pass there are no contacts.
func (w *World) ResolveContactInfections() int {
	return infect(w.contacts)
}

func infect(pairs []Pair) int {
	infections := 0
	for _, p := range pairs {
		if target := transmissionTarget(p.A, p.B); target != nil {
			target.SetHealth(components.Infected)
			infections++
		}
	}
	return infections
}

// transmissionTarget returns the healthy member of a healthy/infected pair, or nil.
func transmissionTarget(a, b *Ball) *Ball {
	switch {
	case a.health == components.Healthy && b.health == components.Infected:
		return a
	case a.health == components.Infected && b.health == components.Healthy:
		return b
	}
	return nil
}
