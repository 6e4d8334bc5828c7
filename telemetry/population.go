// Package telemetry records population health over time and writes run output.
package telemetry

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/outbreak/components"
)

// ErrIncompleteSnapshot is returned by Append when a health state is missing.
var ErrIncompleteSnapshot = errors.New("snapshot missing health state")

// PopulationHealth is an append-only time series of population health
// percentages, one sample per frame. All series always have the same length.
type PopulationHealth struct {
	series [components.NumHealthStates][]float64
}

// NewPopulationHealth returns an empty tracker.
func NewPopulationHealth() *PopulationHealth {
	return &PopulationHealth{}
}

// Append adds one sample per health state. The snapshot must contain every
// state; on error nothing is appended.
func (p *PopulationHealth) Append(snapshot map[components.Health]float64) error {
	for _, h := range components.AllHealth {
		if _, ok := snapshot[h]; !ok {
			return fmt.Errorf("%w: %s", ErrIncompleteSnapshot, h)
		}
	}
	for _, h := range components.AllHealth {
		p.series[h] = append(p.series[h], snapshot[h])
	}
	return nil
}

// Len returns the number of samples.
func (p *PopulationHealth) Len() int {
	return len(p.series[components.Healthy])
}

// Series returns the samples for h. The slice must not be modified.
func (p *PopulationHealth) Series(h components.Health) []float64 {
	if !h.Valid() {
		return nil
	}
	return p.series[h]
}

func (p *PopulationHealth) Healthy() []float64 { return p.series[components.Healthy] }
func (p *PopulationHealth) Infected() []float64 { return p.series[components.Infected] }
func (p *PopulationHealth) Recovered() []float64 { return p.series[components.Recovered] }

// At returns the sample at frame index i.
func (p *PopulationHealth) At(i int) (map[components.Health]float64, bool) {
	if i < 0 || i >= p.Len() {
		return nil, false
	}
	out := make(map[components.Health]float64, components.NumHealthStates)
	for _, h := range components.AllHealth {
		out[h] = p.series[h][i]
	}
	return out, true
}

// Reset drops all samples.
func (p *PopulationHealth) Reset() {
	for i := range p.series {
		p.series[i] = nil
	}
}
