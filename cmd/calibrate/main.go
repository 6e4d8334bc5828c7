package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/outbreak/config"
	"github.com/pthm-cable/outbreak/scenario"
)

// logRow is one line of calibrate_log.csv.
type logRow struct {
	Eval              int     `csv:"eval"`
	Fitness           float64 `csv:"fitness"`
	DefaultSpeed      float64 `csv:"default_speed"`
	InfectionDuration float64 `csv:"infection_duration"`
	BallRadius        float64 `csv:"ball_radius"`
	Frames            int     `csv:"frames"`
	PeakInfected      float64 `csv:"peak_infected"`
	AttackRate        float64 `csv:"attack_rate"`
}

func newLogRow(eval int, fitness float64, clamped []float64, r runResult) logRow {
	return logRow{
		Eval:              eval,
		Fitness:           fitness,
		DefaultSpeed:      clamped[0],
		InfectionDuration: clamped[1],
		BallRadius:        clamped[2],
		Frames:            r.frames,
		PeakInfected:      r.peakInfected,
		AttackRate:        r.attackRate,
	}
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	scenarioName := flag.String("scenario", "", "Scenario preset to calibrate (empty = config scenario)")
	maxFrames := flag.Int("max-frames", 5000, "Maximum frames per run (cap)")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 100, "Maximum number of evaluations")
	targetPeak := flag.Float64("target-peak", 30, "Target peak infected percentage")
	targetAttack := flag.Float64("target-attack", -1, "Target final attack rate percentage (negative = ignore)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Per-run game logs would drown the progress lines.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()
	if *scenarioName != "" {
		if err := scenario.ApplyPreset(baseCfg, *scenarioName); err != nil {
			log.Fatalf("failed to apply scenario: %v", err)
		}
	}

	params := NewParamVector(baseCfg)

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(params, *maxFrames, evalSeeds, baseCfg, Target{
		PeakInfected: *targetPeak,
		AttackRate:   *targetAttack,
	})

	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return evaluator.Evaluate(params.Denormalize(x))
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation; seeds run in parallel
	}

	method := &optimize.NelderMead{
		SimplexSize: 0.2,
	}

	logPath := filepath.Join(*outputDir, "calibrate_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := 1e18
	var bestParams []float64
	startTime := time.Now()

	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		clamped := params.Clamp(params.Denormalize(x))
		if fitness < bestFitness {
			bestFitness = fitness
			bestParams = clamped
		}

		last := evaluator.LastResult()
		rows := []logRow{newLogRow(evalCount, fitness, clamped, last)}
		var werr error
		if evalCount == 1 {
			werr = gocsv.Marshal(rows, logFile)
		} else {
			werr = gocsv.MarshalWithoutHeaders(rows, logFile)
		}
		if werr != nil {
			log.Printf("failed to write log row: %v", werr)
		}

		elapsed := time.Since(startTime)
		avgPerEval := elapsed / time.Duration(evalCount)
		remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

		fmt.Printf("Eval %d/%d: peak=%.1f%% attack=%.1f%% frames=%d fitness=%.3f (best=%.3f) | elapsed: %s, ETA: %s\n",
			evalCount, *maxEvals, last.peakInfected, last.attackRate, last.frames, fitness, bestFitness,
			formatDuration(elapsed), formatDuration(remaining))

		return fitness
	}

	fmt.Printf("Starting Nelder-Mead calibration with %d parameters, max_evals=%d\n", dim, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, frame cap per run: %d, target peak: %.1f%%\n", *seeds, *maxFrames, *targetPeak)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("calibration ended: %v", err)
	}

	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluation completed")
	}

	fmt.Printf("\nCalibration complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.4f\n", bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s (%s): %.6f\n", spec.Name, spec.Path, bestParams[i])
	}

	bestCfg := *baseCfg
	params.ApplyToConfig(&bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
