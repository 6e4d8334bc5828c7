// Package renderer draws simulation frames and charts to images and files,
// without a window.
package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/pthm-cable/outbreak/camera"
	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/systems"
)

// Frame colours that are not health states.
var (
	backgroundColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	wallColor       = color.RGBA{A: 0xff}
	regionColor     = color.RGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff}
	textColor       = color.RGBA{A: 0xff}
)

// Region is a labelled rectangle outlined on every frame, e.g. a city.
type Region struct {
	Name   string
	Bounds components.Boundary
}

// FrameRenderer rasterises a World into RGBA images of a fixed size.
type FrameRenderer struct {
	width, height int
	cam           *camera.Camera
	palette       components.Palette
	regions       []Region
}

// NewFrameRenderer creates a renderer that fits world into a width x height image.
func NewFrameRenderer(width, height int, world components.Boundary, palette components.Palette) (*FrameRenderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("frame size %dx%d must be positive", width, height)
	}
	return &FrameRenderer{
		width:   width,
		height:  height,
		cam:     camera.New(float32(width), float32(height), world),
		palette: palette,
	}, nil
}

// SetRegions sets the rectangles outlined under the balls.
func (r *FrameRenderer) SetRegions(regions []Region) { r.regions = regions }

// Size returns the image dimensions.
func (r *FrameRenderer) Size() (int, int) { return r.width, r.height }

// Render draws the world walls, regions, balls and a caption line.
func (r *FrameRenderer) Render(w *systems.World, caption string) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: backgroundColor}, image.Point{}, draw.Src)

	gc, err := drawing.NewRasterGraphicContext(img)
	if err != nil {
		return nil, fmt.Errorf("creating graphic context: %w", err)
	}

	for _, reg := range r.regions {
		r.strokeRect(gc, reg.Bounds, regionColor, 1)
	}
	r.strokeRect(gc, w.Bounds(), wallColor, 2)

	scale := float64(r.cam.Scale())
	for _, b := range w.Balls() {
		p := b.Position()
		sx, sy := r.cam.WorldToScreen(float32(p.X), float32(p.Y))
		rad := math.Max(b.Radius()*scale, 1)

		gc.SetFillColor(r.palette.Color(b.Health()))
		gc.BeginPath()
		gc.ArcTo(float64(sx), float64(sy), rad, rad, 0, 2*math.Pi)
		gc.Close()
		gc.Fill()
	}

	for _, reg := range r.regions {
		if reg.Name == "" {
			continue
		}
		x, y := r.cam.WorldToScreen(float32(reg.Bounds.Left), float32(reg.Bounds.Top))
		drawLabel(img, int(x)+2, int(y)-3, reg.Name, regionColor)
	}
	if caption != "" {
		drawLabel(img, 4, basicfont.Face7x13.Height, caption, textColor)
	}
	return img, nil
}

func (r *FrameRenderer) strokeRect(gc *drawing.RasterGraphicContext, b components.Boundary, c color.Color, width float64) {
	x0, y0 := r.cam.WorldToScreen(float32(b.Left), float32(b.Top))
	x1, y1 := r.cam.WorldToScreen(float32(b.Right), float32(b.Bottom))

	gc.SetStrokeColor(c)
	gc.SetLineWidth(width)
	gc.BeginPath()
	gc.MoveTo(float64(x0), float64(y0))
	gc.LineTo(float64(x1), float64(y0))
	gc.LineTo(float64(x1), float64(y1))
	gc.LineTo(float64(x0), float64(y1))
	gc.Close()
	gc.Stroke()
}

// drawLabel writes text with its baseline at y.
func drawLabel(img *image.RGBA, x, y int, label string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(label)
}

// Caption formats the per-frame overlay: frame number and health shares.
func Caption(frame int, pct map[components.Health]float64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "frame %d", frame)
	for _, h := range components.AllHealth {
		v, ok := pct[h]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "  %s %.1f%%", h, v)
	}
	return sb.String()
}
