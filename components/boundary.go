package components

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Boundary is an axis-aligned rectangle in world coordinates.
// The y axis points up, so Top is greater than Bottom.
type Boundary struct {
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`
}

// Width returns Right - Left.
func (b Boundary) Width() float64 { return b.Right - b.Left }

// Height returns Top - Bottom.
func (b Boundary) Height() float64 { return b.Top - b.Bottom }

// Center returns the midpoint of the rectangle.
func (b Boundary) Center() r2.Vec {
	return r2.Vec{X: (b.Left + b.Right) / 2, Y: (b.Bottom + b.Top) / 2}
}

// Contains reports whether p lies inside the rectangle, edges included.
func (b Boundary) Contains(p r2.Vec) bool {
	return p.X >= b.Left && p.X <= b.Right && p.Y >= b.Bottom && p.Y <= b.Top
}

// Validate checks that all edges are finite and the rectangle is not inverted.
// A zero-width or zero-height rectangle is allowed (balls confined to a line).
func (b Boundary) Validate() error {
	for _, v := range [...]float64{b.Left, b.Right, b.Top, b.Bottom} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("boundary %v has non-finite edge", b)
		}
	}
	if b.Right < b.Left {
		return fmt.Errorf("boundary right %g < left %g", b.Right, b.Left)
	}
	if b.Top < b.Bottom {
		return fmt.Errorf("boundary top %g < bottom %g", b.Top, b.Bottom)
	}
	return nil
}

func (b Boundary) String() string {
	return fmt.Sprintf("[%g..%g]x[%g..%g]", b.Left, b.Right, b.Bottom, b.Top)
}
