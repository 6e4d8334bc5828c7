package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/outbreak/config"
	"github.com/pthm-cable/outbreak/game"
	"github.com/pthm-cable/outbreak/telemetry"
)

// Target is the epidemic shape the search aims for, in population percent.
// A negative AttackRate leaves the final attack rate out of the fitness.
type Target struct {
	PeakInfected float64
	AttackRate   float64
}

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxFrames  int
	seeds      []int64
	baseConfig *config.Config
	target     Target

	mu         sync.Mutex
	lastResult runResult // seed-averaged result of the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxFrames int, seeds []int64, baseCfg *config.Config, target Target) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxFrames:  maxFrames,
		seeds:      seeds,
		baseConfig: baseCfg,
		target:     target,
	}
}

// runResult holds the outcome of a single simulation run.
type runResult struct {
	frames       int
	peakInfected float64
	attackRate   float64
	failed       bool
}

// LastResult returns the seed-averaged outcome of the most recent evaluation.
func (fe *FitnessEvaluator) LastResult() runResult {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastResult
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Fitness is the squared distance between the seed-averaged curve and the target.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var avg runResult
	for _, r := range results {
		if r.failed {
			avg.failed = true
			continue
		}
		avg.frames += r.frames
		avg.peakInfected += r.peakInfected
		avg.attackRate += r.attackRate
	}
	n := len(results)
	if avg.failed {
		fe.setLast(avg)
		return math.Inf(1)
	}
	avg.frames /= n
	avg.peakInfected /= float64(n)
	avg.attackRate /= float64(n)
	fe.setLast(avg)

	return fe.fitness(avg)
}

func (fe *FitnessEvaluator) fitness(r runResult) float64 {
	d := r.peakInfected - fe.target.PeakInfected
	f := d * d
	if fe.target.AttackRate >= 0 {
		d = r.attackRate - fe.target.AttackRate
		f += d * d
	}
	return f
}

func (fe *FitnessEvaluator) setLast(r runResult) {
	fe.mu.Lock()
	fe.lastResult = r
	fe.mu.Unlock()
}

// runSimulation executes a single headless run until the epidemic ends or maxFrames.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	g, err := game.NewGameWithOptions(game.Options{
		Config:         cfg,
		Seed:           seed,
		Headless:       true,
		StepsPerUpdate: 1,
		MaxFrames:      fe.maxFrames,
	})
	if err != nil {
		return runResult{failed: true}
	}
	defer g.Unload()

	for !g.Finished() {
		g.UpdateHeadless()
	}

	s := telemetry.Summarize(g.Tracker())
	return runResult{
		frames:       s.Frames,
		peakInfected: s.PeakInfected,
		attackRate:   s.AttackRate,
	}
}

// copyConfig returns a copy of the base config that runs can modify.
// Scenario slices are shared; nothing below writes to them.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}
