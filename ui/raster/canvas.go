// Package raster implements the chart drawing surface on an in-memory RGBA
// image using the gg 2D context.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/soocke/fps-meter-go/domain/chart"
)

// ErrInvalidSurface reports a drawing surface that cannot be created.
var ErrInvalidSurface = errors.New("raster: invalid surface")

// MaxSide bounds each canvas dimension.
const MaxSide = 16384

// Canvas is a fixed-size chart.Surface backed by an *image.RGBA.
type Canvas struct {
	img *image.RGBA
	dc  *gg.Context
}

var _ chart.Surface = (*Canvas)(nil)

// NewCanvas allocates a width x height canvas. It fails once, at setup, for
// sizes that cannot back a chart.
func NewCanvas(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 || width > MaxSide || height > MaxSide {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSurface, width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	dc := gg.NewContextForRGBA(img)
	dc.SetFontFace(Face())
	return &Canvas{img: img, dc: dc}, nil
}

// Face is the label font used on every canvas.
func Face() font.Face { return basicfont.Face7x13 }

func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the backing image. It is overwritten by the next redraw.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Snapshot returns a copy of the current pixels.
func (c *Canvas) Snapshot() *image.RGBA {
	out := image.NewRGBA(c.img.Rect)
	copy(out.Pix, c.img.Pix)
	return out
}

func (c *Canvas) Clear(col color.Color) {
	c.dc.SetColor(col)
	c.dc.Clear()
}

func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	c.dc.SetColor(col)
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Fill()
}

func (c *Canvas) Text(s string, x, y float64, align chart.Align, baseline chart.Baseline, col color.Color) {
	ax, ay := 0.0, 0.0
	if align == chart.AlignCenter {
		ax = 0.5
	}
	if baseline == chart.BaselineMiddle {
		ay = 0.5
	}
	c.dc.SetColor(col)
	c.dc.DrawStringAnchored(s, x, y, ax, ay)
}

func (c *Canvas) Polyline(points []chart.Point, width float64, col color.Color) {
	if len(points) == 0 {
		return
	}
	c.dc.SetColor(col)
	c.dc.SetLineWidth(width)
	c.dc.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		c.dc.LineTo(p.X, p.Y)
	}
	c.dc.Stroke()
}
