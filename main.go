package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/config"
	"github.com/pthm-cable/outbreak/game"
	"github.com/pthm-cable/outbreak/renderer"
	"github.com/pthm-cable/outbreak/scenario"
	"github.com/pthm-cable/outbreak/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, chart and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = config, then until the epidemic ends)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation frames per update call")
	scenarioName := flag.String("scenario", "", "Built-in scenario preset (empty = config scenario)")
	videoPath := flag.String("video", "", "Write an MJPEG AVI of every frame to this path")
	chartPath := flag.String("chart", "", "Write the population health chart to this PNG path")
	chartFrom := flag.String("chart-from", "", "Chart an existing health.csv and exit (needs -chart)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *chartFrom != "" {
		if err := chartFromCSV(*chartFrom, *chartPath, cfg.Derived.Palette); err != nil {
			slog.Error("failed to chart health log", "error", err)
			os.Exit(1)
		}
		return
	}

	if *scenarioName != "" {
		if err := scenario.ApplyPreset(cfg, *scenarioName); err != nil {
			slog.Error("invalid scenario", "error", err)
			os.Exit(1)
		}
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	limit := *maxFrames
	if limit == 0 {
		limit = cfg.Simulation.MaxFrames
	}

	opts := game.Options{
		Config:         cfg,
		Seed:           rngSeed,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
		MaxFrames:      limit,
		VideoPath:      *videoPath,
		ChartPath:      *chartPath,
	}

	if *headless {
		// Headless mode - no raylib window
		g, err := game.NewGameWithOptions(opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer g.Unload()

		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"max_frames", limit,
			"steps_per_update", *stepsPerUpdate,
		)

		for !g.Finished() {
			g.UpdateHeadless()
		}
		if !g.Done() {
			slog.Info("max frames reached", "frame", g.Frame())
			return
		}
		slog.Info("epidemic over", "frame", g.Frame())
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Outbreak")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if limit > 0 && g.Frame() >= limit {
			break
		}
	}
}

// chartFromCSV rebuilds the health history from a health.csv and charts it.
func chartFromCSV(csvPath, pngPath string, palette components.Palette) error {
	if pngPath == "" {
		pngPath = "health.png"
	}
	records, err := telemetry.ReadHealth(csvPath)
	if err != nil {
		return err
	}
	history := telemetry.NewPopulationHealth()
	for _, rec := range records {
		if err := history.Append(map[components.Health]float64{
			components.Healthy:   rec.Healthy,
			components.Infected:  rec.Infected,
			components.Recovered: rec.Recovered,
		}); err != nil {
			return err
		}
	}
	if err := renderer.SaveHealthChart(pngPath, history, renderer.ChartOptions{Palette: palette}); err != nil {
		return err
	}
	slog.Info("chart saved", "path", pngPath, "frames", history.Len())
	return nil
}
