package scenario

import (
	"fmt"
	"sort"

	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/config"
)

// presets are built-in population layouts selectable by name.
var presets = map[string]func(sim config.SimulationConfig) config.ScenarioConfig{
	"cities": citiesPreset,
	"simple": simplePreset,
}

// Presets lists the built-in scenario names.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset replaces cfg.Scenario with the named built-in layout.
func ApplyPreset(cfg *config.Config, name string) error {
	preset, ok := presets[name]
	if !ok {
		return fmt.Errorf("unknown scenario %q (have %v)", name, Presets())
	}
	cfg.Scenario = preset(cfg.Simulation)
	return nil
}

// citiesPreset: three towns, a few travellers, one case arriving from the west.
func citiesPreset(sim config.SimulationConfig) config.ScenarioConfig {
	group := func(n int) []config.GroupConfig {
		return []config.GroupConfig{{Count: n, Behavior: "standard"}}
	}
	return config.ScenarioConfig{
		Name: "cities",
		PatientZeros: []config.PatientZeroConfig{
			{X: 3, Y: 3, VX: -sim.DefaultSpeed, Behavior: "standard"},
		},
		Cities: []config.CityConfig{
			{Name: "Utrecht", Bounds: components.Boundary{Left: 1, Right: 5, Top: 5, Bottom: 1}, Groups: group(50)},
			{Name: "Bilthoven", Bounds: components.Boundary{Left: 6, Right: 7, Top: 5.5, Bottom: 4.5}, Groups: group(5)},
			{Name: "Amersfoort", Bounds: components.Boundary{Left: 7, Right: 9, Top: 9, Bottom: 7}, Groups: group(20)},
		},
		Roaming: group(10),
	}
}

// simplePreset: one infected ball among 25 random ones.
func simplePreset(sim config.SimulationConfig) config.ScenarioConfig {
	return config.ScenarioConfig{
		Name: "simple",
		PatientZeros: []config.PatientZeroConfig{
			{X: 3, Y: 3, VX: -sim.DefaultSpeed, VY: -2 * sim.DefaultSpeed, Behavior: "standard"},
		},
		Roaming: []config.GroupConfig{{Count: 25, Behavior: "standard"}},
	}
}
