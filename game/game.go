// Package game drives the simulation frame loop, headless or in a window.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/outbreak/camera"
	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/config"
	"github.com/pthm-cable/outbreak/renderer"
	"github.com/pthm-cable/outbreak/scenario"
	"github.com/pthm-cable/outbreak/systems"
	"github.com/pthm-cable/outbreak/telemetry"
	"github.com/pthm-cable/outbreak/ui"
)

// Game holds the complete simulation state.
type Game struct {
	cfg      *config.Config
	rng      *rand.Rand
	scenario *scenario.Scenario
	world    *systems.World
	tracker  *telemetry.PopulationHealth

	frame          int
	lastReport     systems.FrameReport
	stepsPerUpdate int
	workers        int
	maxFrames      int
	logStats       bool
	logInterval    int

	// Telemetry
	perf          *telemetry.PerfCollector
	outputManager *telemetry.OutputManager

	// Offline rendering
	frames    *renderer.FrameRenderer
	video     *renderer.VideoWriter
	chartPath string

	// Graphics (nil when headless)
	view *view
}

// view holds the window-side state of a graphical game.
type view struct {
	viewer   *ui.Viewer
	hud      *ui.HUD
	health   *ui.HealthPanel
	perf     *ui.PerfPanel
	controls *ui.ControlsPanel
	overlays *ui.OverlayRegistry
	state    ui.ControlState
}

// NewGameWithOptions builds the scenario and every enabled output.
// Graphical mode expects the raylib window to be open already.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.config()

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	sc, err := scenario.Build(cfg, rng)
	if err != nil {
		return nil, fmt.Errorf("building scenario: %w", err)
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		cfg:            cfg,
		rng:            rng,
		scenario:       sc,
		world:          sc.World,
		tracker:        telemetry.NewPopulationHealth(),
		stepsPerUpdate: steps,
		workers:        cfg.Simulation.ConcurrentStep,
		maxFrames:      opts.MaxFrames,
		logStats:       opts.LogStats,
		logInterval:    cfg.Telemetry.LogInterval,
		perf:           telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		chartPath:      opts.ChartPath,
	}

	if err := g.openOutputs(opts); err != nil {
		g.Unload()
		return nil, err
	}
	if !opts.Headless {
		g.initView()
	}

	// Frame 0 is the initial state.
	g.recordFrame()

	slog.Info("game created",
		"scenario", sc.Name,
		"seed", seed,
		"population", g.world.Population(),
		"headless", opts.Headless,
	)
	return g, nil
}

// openOutputs creates the output directory, video writer and chart target.
func (g *Game) openOutputs(opts Options) error {
	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return err
	}
	g.outputManager = om
	if err := om.WriteConfig(g.cfg); err != nil {
		return fmt.Errorf("writing config snapshot: %w", err)
	}
	if g.chartPath == "" {
		g.chartPath = om.Path("health.png")
	}

	if opts.VideoPath != "" {
		vc := g.cfg.Video
		fr, err := renderer.NewFrameRenderer(vc.Width, vc.Height, g.world.Bounds(), g.cfg.Derived.Palette)
		if err != nil {
			return err
		}
		regions := make([]renderer.Region, len(g.scenario.Cities))
		for i, c := range g.scenario.Cities {
			regions[i] = renderer.Region{Name: c.Name, Bounds: c.Bounds}
		}
		fr.SetRegions(regions)
		g.frames = fr

		vw, err := renderer.NewVideoWriter(opts.VideoPath, vc.Width, vc.Height, vc.FPS, vc.JPEGQuality)
		if err != nil {
			return err
		}
		g.video = vw
	}
	return nil
}

func (g *Game) initView() {
	sw, sh := float32(g.cfg.Screen.Width), float32(g.cfg.Screen.Height)
	regions := make([]ui.Region, len(g.scenario.Cities))
	for i, c := range g.scenario.Cities {
		regions[i] = ui.Region{Name: c.Name, Bounds: c.Bounds}
	}
	cam := camera.New(sw, sh, g.world.Bounds())
	g.view = &view{
		viewer:   ui.NewViewer(cam, g.cfg.Derived.Palette, regions),
		hud:      ui.NewHUD(),
		health:   ui.NewHealthPanel(int32(sw)-250, 10, 240),
		perf:     ui.NewPerfPanel(10, 80),
		controls: ui.NewControlsPanel(int32(sw)-250, 0, 240),
		overlays: ui.NewOverlayRegistry(),
		state:    ui.ControlState{Speed: g.stepsPerUpdate},
	}
}

// World returns the simulated world.
func (g *Game) World() *systems.World { return g.world }

// Scenario returns the scenario the world was built from.
func (g *Game) Scenario() *scenario.Scenario { return g.scenario }

// Tracker returns the recorded health history (one sample per frame, from frame 0).
func (g *Game) Tracker() *telemetry.PopulationHealth { return g.tracker }

// Frame returns the number of simulated frames.
func (g *Game) Frame() int { return g.frame }

// LastReport returns what happened during the most recent frame.
func (g *Game) LastReport() systems.FrameReport { return g.lastReport }

// Done reports whether the epidemic is over: no ball is infected.
func (g *Game) Done() bool {
	return g.world.HealthCounts()[components.Infected] == 0
}

// Finished reports whether the run should stop: the epidemic is over or
// the frame limit has been reached.
func (g *Game) Finished() bool {
	return g.Done() || (g.maxFrames > 0 && g.frame >= g.maxFrames)
}
