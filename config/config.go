// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/outbreak/components"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Simulation SimulationConfig `yaml:"simulation"`
	Palette    PaletteConfig    `yaml:"palette"`
	Scenario   ScenarioConfig   `yaml:"scenario"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Video      VideoConfig      `yaml:"video"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the outer walls in world units (y up).
type WorldConfig struct {
	Bounds components.Boundary `yaml:"bounds"`
}

// SimulationConfig holds ball and frame-loop parameters.
type SimulationConfig struct {
	DefaultSpeed      float64 `yaml:"default_speed"`
	BallRadius        float64 `yaml:"ball_radius"`
	InfectionDuration int     `yaml:"infection_duration"` // frames
	RecklessGrowth    float64 `yaml:"reckless_growth"`    // radius factor while infected
	MaxFrames         int     `yaml:"max_frames"`         // 0 = run until the epidemic ends
	ConcurrentStep    int     `yaml:"concurrent_step"`    // integration workers (0/1 = serial)
	InfectOnContact   bool    `yaml:"infect_on_contact"`  // infect over pre-separation contacts
}

// PaletteConfig holds the display colour per health state as "#rrggbb".
type PaletteConfig struct {
	Healthy   string `yaml:"healthy"`
	Infected  string `yaml:"infected"`
	Recovered string `yaml:"recovered"`
}

// ScenarioConfig describes the initial population.
type ScenarioConfig struct {
	Name         string              `yaml:"name"`
	PatientZeros []PatientZeroConfig `yaml:"patient_zeros"`
	Cities       []CityConfig        `yaml:"cities"`
	Roaming      []GroupConfig       `yaml:"roaming"` // groups spread over the whole world
}

// PatientZeroConfig places a single ball that starts infected.
type PatientZeroConfig struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	VX       float64 `yaml:"vx"`
	VY       float64 `yaml:"vy"`
	Behavior string  `yaml:"behavior"`
}

// CityConfig is a named sub-region whose groups are confined to it.
type CityConfig struct {
	Name   string              `yaml:"name"`
	Bounds components.Boundary `yaml:"bounds"`
	Groups []GroupConfig       `yaml:"groups"`
}

// GroupConfig is a batch of randomly placed balls sharing one heading.
type GroupConfig struct {
	Count    int     `yaml:"count"`
	Speed    float64 `yaml:"speed"` // 0 = simulation.default_speed
	Behavior string  `yaml:"behavior"`
	Health   string  `yaml:"health"` // empty = healthy
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	LogInterval int `yaml:"log_interval"` // frames between stats log lines
	PerfWindow  int `yaml:"perf_window"`  // frames in the perf rolling window
}

// VideoConfig holds offline animation settings.
type VideoConfig struct {
	Width       int `yaml:"width"`
	Height      int `yaml:"height"`
	FPS         int `yaml:"fps"`
	JPEGQuality int `yaml:"jpeg_quality"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Palette components.Palette
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config.MustInit: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config.Cfg called before Init")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file. Lists replace, not merge.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.Palette = components.DefaultPalette
	colours := []struct {
		h   components.Health
		hex string
	}{
		{components.Healthy, c.Palette.Healthy},
		{components.Infected, c.Palette.Infected},
		{components.Recovered, c.Palette.Recovered},
	}
	for _, col := range colours {
		if col.hex == "" {
			continue
		}
		rgba, err := components.ParseHexColor(col.hex)
		if err != nil {
			return fmt.Errorf("palette.%s: %w", col.h, err)
		}
		c.Derived.Palette[col.h] = rgba
	}

	if c.Telemetry.PerfWindow < 1 {
		c.Telemetry.PerfWindow = 60
	}
	if c.Video.FPS < 1 {
		c.Video.FPS = 30
	}
	return nil
}

func (c *Config) validate() error {
	if err := c.World.Bounds.Validate(); err != nil {
		return fmt.Errorf("world.bounds: %w", err)
	}
	if c.Simulation.BallRadius <= 0 {
		return fmt.Errorf("simulation.ball_radius must be positive, got %g", c.Simulation.BallRadius)
	}
	if c.Simulation.DefaultSpeed < 0 {
		return fmt.Errorf("simulation.default_speed must not be negative, got %g", c.Simulation.DefaultSpeed)
	}
	if c.Simulation.InfectionDuration < 0 {
		return fmt.Errorf("simulation.infection_duration must not be negative, got %d", c.Simulation.InfectionDuration)
	}
	for _, city := range c.Scenario.Cities {
		if err := city.Bounds.Validate(); err != nil {
			return fmt.Errorf("scenario city %q: %w", city.Name, err)
		}
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
