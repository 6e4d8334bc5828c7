package game

import "github.com/pthm-cable/outbreak/config"

// Options configures a Game.
type Options struct {
	// Config to run with (nil = config.Cfg()).
	Config *config.Config

	Seed           int64 // RNG seed (0 = time-based)
	LogStats       bool  // periodic slog stats lines
	OutputDir      string
	Headless       bool
	StepsPerUpdate int // frames per Update/UpdateHeadless call
	MaxFrames      int // stop stepping after this many frames (0 = no limit)

	// VideoPath enables AVI output of every frame.
	VideoPath string
	// ChartPath is where Unload writes the health chart
	// ("" = health.png in OutputDir, or nothing without one).
	ChartPath string
}

func (o Options) config() *config.Config {
	if o.Config != nil {
		return o.Config
	}
	return config.Cfg()
}
