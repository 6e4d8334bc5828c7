package renderer

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/telemetry"
)

// ErrNotEnoughSamples is returned when charting fewer than two samples.
var ErrNotEnoughSamples = errors.New("need at least two samples to chart")

// stackOrder lists the chart layers from the bottom up.
var stackOrder = [components.NumHealthStates]components.Health{
	components.Infected,
	components.Healthy,
	components.Recovered,
}

// ChartOptions configures the population health chart.
type ChartOptions struct {
	Title   string
	Width   int
	Height  int
	Palette components.Palette
}

func (o ChartOptions) withDefaults() ChartOptions {
	if o.Title == "" {
		o.Title = "population health"
	}
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 400
	}
	if o.Palette == (components.Palette{}) {
		o.Palette = components.DefaultPalette
	}
	return o
}

// HealthChart builds a stacked-area chart of the health shares per frame:
// infected at the bottom, then healthy, then recovered on top.
func HealthChart(p *telemetry.PopulationHealth, opts ChartOptions) (*chart.Chart, error) {
	n := p.Len()
	if n < 2 {
		return nil, fmt.Errorf("%w: have %d", ErrNotEnoughSamples, n)
	}
	opts = opts.withDefaults()

	frames := make([]float64, n)
	for i := range frames {
		frames[i] = float64(i)
	}

	// go-chart fills each line down to the axis, so the layers are drawn as
	// cumulative sums from the top layer down.
	cumulative := make([][]float64, len(stackOrder))
	running := make([]float64, n)
	for layer, h := range stackOrder {
		for i, v := range p.Series(h) {
			running[i] += v
		}
		cumulative[layer] = append([]float64(nil), running...)
	}

	series := make([]chart.Series, 0, len(stackOrder))
	for layer := len(stackOrder) - 1; layer >= 0; layer-- {
		h := stackOrder[layer]
		c := toDrawingColor(opts.Palette.Color(h))
		series = append(series, chart.ContinuousSeries{
			Name:    h.String(),
			XValues: frames,
			YValues: cumulative[layer],
			Style: chart.Style{
				StrokeColor: c,
				FillColor:   c,
				StrokeWidth: 1,
			},
		})
	}

	graph := &chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name: "frame",
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  "% of population",
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(graph)}
	return graph, nil
}

// RenderHealthChart writes the chart as PNG to w.
func RenderHealthChart(w io.Writer, p *telemetry.PopulationHealth, opts ChartOptions) error {
	graph, err := HealthChart(p, opts)
	if err != nil {
		return err
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}

// SaveHealthChart writes the chart as a PNG file.
func SaveHealthChart(path string, p *telemetry.PopulationHealth, opts ChartOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}
	if err := RenderHealthChart(f, p, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func toDrawingColor(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
