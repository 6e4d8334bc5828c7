package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/outbreak/config"
)

func TestParamVectorDefaultsFromConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector(cfg)

	got := pv.DefaultVector()
	want := []float64{0.1, 100, 0.1}
	if len(got) != pv.Dim() || pv.Dim() != len(want) {
		t.Fatalf("dim = %d, want %d", pv.Dim(), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("%s default = %v, want %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}

func TestParamVectorNormalizeRoundTrip(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector(cfg)

	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: round trip %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestParamVectorApplyClamps(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector(cfg)

	pv.ApplyToConfig(cfg, []float64{-1, 1e6, 0.12})
	if cfg.Simulation.DefaultSpeed != pv.Specs[0].Min {
		t.Errorf("speed = %v, want clamped to %v", cfg.Simulation.DefaultSpeed, pv.Specs[0].Min)
	}
	if cfg.Simulation.InfectionDuration != int(pv.Specs[1].Max) {
		t.Errorf("duration = %d, want clamped to %v", cfg.Simulation.InfectionDuration, pv.Specs[1].Max)
	}
	if math.Abs(cfg.Simulation.BallRadius-0.12) > 1e-12 {
		t.Errorf("radius = %v, want 0.12", cfg.Simulation.BallRadius)
	}

	got := pv.ExtractFromConfig(cfg)
	if got[1] != pv.Specs[1].Max {
		t.Errorf("extracted duration = %v", got[1])
	}
}

func TestFitnessTarget(t *testing.T) {
	tests := []struct {
		name   string
		target Target
		result runResult
		want   float64
	}{
		{"peak only", Target{PeakInfected: 30, AttackRate: -1}, runResult{peakInfected: 33, attackRate: 90}, 9},
		{"peak and attack", Target{PeakInfected: 30, AttackRate: 80}, runResult{peakInfected: 28, attackRate: 90}, 104},
		{"exact", Target{PeakInfected: 30, AttackRate: 80}, runResult{peakInfected: 30, attackRate: 80}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := &FitnessEvaluator{target: tt.target}
			if got := fe.fitness(tt.result); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("fitness = %v, want %v", got, tt.want)
			}
		})
	}
}
