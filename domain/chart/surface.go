package chart

import (
	"image/color"
)

// Point is a position in surface pixels, origin top-left.
type Point struct{ X, Y float64 }

// Align is the horizontal anchor of a text label relative to its x position.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// Baseline is the vertical anchor of a text label relative to its y position.
type Baseline int

const (
	BaselineMiddle Baseline = iota
	BaselineBottom
)

// Surface is the drawing target of a Renderer: a fixed-size pixel rectangle
// accepting fills, strokes and text. Implementations are created once at
// setup and reused for every redraw.
type Surface interface {
	Size() (width, height int)
	Clear(c color.Color)
	FillRect(x, y, w, h float64, c color.Color)
	Text(s string, x, y float64, align Align, baseline Baseline, c color.Color)
	Polyline(points []Point, width float64, c color.Color)
}

// Style holds the colors and stroke width used by a Renderer.
type Style struct {
	Background color.Color
	DangerFill color.Color
	DangerText color.Color
	SafeFill   color.Color
	SafeText   color.Color
	AxisText   color.Color
	Line       color.Color
	LineWidth  float64
}

// DefaultStyle is the dark strip-chart look: black backdrop, red tint below
// the danger rate, green tint above the safe rate, cyan rate line.
func DefaultStyle() Style {
	return Style{
		Background: color.RGBA{A: 0xff},
		DangerFill: color.RGBA{R: 0x40, A: 0xff},
		DangerText: color.RGBA{R: 0xff, A: 0xff},
		SafeFill:   color.RGBA{G: 0x40, A: 0xff},
		SafeText:   color.RGBA{G: 0xff, A: 0xff},
		AxisText:   color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Line:       color.RGBA{G: 0xb4, B: 0xff, A: 0xff},
		LineWidth:  3,
	}
}
