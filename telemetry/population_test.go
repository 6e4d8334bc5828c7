package telemetry

import (
	"errors"
	"testing"

	"github.com/pthm-cable/outbreak/components"
)

func snapshot(healthy, infected, recovered float64) map[components.Health]float64 {
	return map[components.Health]float64{
		components.Healthy:   healthy,
		components.Infected:  infected,
		components.Recovered: recovered,
	}
}

func TestPopulationHealthAppend(t *testing.T) {
	p := NewPopulationHealth()
	for i := 0; i < 3; i++ {
		if err := p.Append(snapshot(90-float64(i), 10, float64(i))); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	if p.Len() != 3 {
		t.Fatalf("Len = %d, want 3", p.Len())
	}
	if len(p.Healthy()) != 3 || len(p.Infected()) != 3 || len(p.Recovered()) != 3 {
		t.Errorf("series lengths differ: %d %d %d", len(p.Healthy()), len(p.Infected()), len(p.Recovered()))
	}
	if got := p.Recovered()[2]; got != 2 {
		t.Errorf("Recovered()[2] = %v, want 2", got)
	}
	if got := p.Series(components.Healthy)[1]; got != 89 {
		t.Errorf("Series(Healthy)[1] = %v, want 89", got)
	}
	if p.Series(components.Health(7)) != nil {
		t.Error("Series of invalid state should be nil")
	}
}

func TestPopulationHealthIncompleteSnapshot(t *testing.T) {
	p := NewPopulationHealth()
	if err := p.Append(snapshot(100, 0, 0)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	tests := []struct {
		name string
		snap map[components.Health]float64
	}{
		{"nil", nil},
		{"empty", map[components.Health]float64{}},
		{"missing recovered", map[components.Health]float64{components.Healthy: 50, components.Infected: 50}},
		{"missing healthy", map[components.Health]float64{components.Infected: 50, components.Recovered: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Append(tt.snap)
			if !errors.Is(err, ErrIncompleteSnapshot) {
				t.Fatalf("Append error = %v, want ErrIncompleteSnapshot", err)
			}
			if p.Len() != 1 {
				t.Errorf("Len = %d after failed append, want 1", p.Len())
			}
			if len(p.Infected()) != 1 || len(p.Recovered()) != 1 {
				t.Error("failed append left series with unequal lengths")
			}
		})
	}
}

func TestPopulationHealthAtAndReset(t *testing.T) {
	p := NewPopulationHealth()
	_ = p.Append(snapshot(80, 15, 5))
	_ = p.Append(snapshot(70, 20, 10))

	got, ok := p.At(1)
	if !ok {
		t.Fatal("At(1) not found")
	}
	if got[components.Infected] != 20 || got[components.Recovered] != 10 {
		t.Errorf("At(1) = %v", got)
	}
	if _, ok := p.At(2); ok {
		t.Error("At(2) should be out of range")
	}
	if _, ok := p.At(-1); ok {
		t.Error("At(-1) should be out of range")
	}

	p.Reset()
	if p.Len() != 0 {
		t.Errorf("Len after Reset = %d", p.Len())
	}
	if err := p.Append(snapshot(100, 0, 0)); err != nil {
		t.Fatalf("Append after Reset: %v", err)
	}
	if p.Len() != 1 {
		t.Errorf("Len = %d, want 1", p.Len())
	}
}
