// Package main searches simulation parameters for a target epidemic curve.
package main

import (
	"github.com/pthm-cable/outbreak/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value

	get func(cfg *config.Config) float64
	set func(cfg *config.Config, v float64)
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters,
// with defaults taken from base.
func NewParamVector(base *config.Config) *ParamVector {
	pv := &ParamVector{
		Specs: []ParamSpec{
			{
				Name: "default_speed", Path: "simulation.default_speed", Min: 0.01, Max: 0.5,
				get: func(c *config.Config) float64 { return c.Simulation.DefaultSpeed },
				set: func(c *config.Config, v float64) { c.Simulation.DefaultSpeed = v },
			},
			{
				Name: "infection_duration", Path: "simulation.infection_duration", Min: 5, Max: 400,
				get: func(c *config.Config) float64 { return float64(c.Simulation.InfectionDuration) },
				set: func(c *config.Config, v float64) { c.Simulation.InfectionDuration = int(v + 0.5) },
			},
			{
				Name: "ball_radius", Path: "simulation.ball_radius", Min: 0.03, Max: 0.3,
				get: func(c *config.Config) float64 { return c.Simulation.BallRadius },
				set: func(c *config.Config, v float64) { c.Simulation.BallRadius = v },
			},
		},
	}
	for i := range pv.Specs {
		spec := &pv.Specs[i]
		spec.Default = spec.clamp(spec.get(base))
	}
	return pv
}

func (s ParamSpec) clamp(v float64) float64 {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = spec.clamp(v[i])
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].set(cfg, v)
	}
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.get(cfg)
	}
	return v
}
