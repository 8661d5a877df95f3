package presenter

import (
	"image"
	"time"

	"github.com/soocke/fps-meter-go/domain/chart"
)

// Redrawer paints the current chart onto a surface.
type Redrawer interface {
	Redraw(s chart.Surface) chart.Frame
}

// ChartSurface is a drawing surface whose pixels can be shown by a view.
type ChartSurface interface {
	chart.Surface
	Image() *image.RGBA
}

// ChartView shows a rendered chart frame.
type ChartView interface {
	UpdateChart(img image.Image)
}

// ChartPresenter redraws the chart on every tick and hands the pixels to the
// view.
type ChartPresenter struct {
	meter   Redrawer
	surface ChartSurface
	view    ChartView
	last    chart.Frame
	ticks   uint64
}

// NewChartPresenter returns a new ChartPresenter.
func NewChartPresenter(meter Redrawer, surface ChartSurface, view ChartView) *ChartPresenter {
	return &ChartPresenter{meter: meter, surface: surface, view: view}
}

// Tick redraws the chart. The time argument is unused; the meter reads its
// own clock so the chart and the samples agree.
func (p *ChartPresenter) Tick(_ time.Time) {
	if p == nil || p.meter == nil || p.surface == nil {
		return
	}
	p.last = p.meter.Redraw(p.surface)
	p.ticks++
	if p.view != nil {
		p.view.UpdateChart(p.surface.Image())
	}
}

// LastFrame returns the summary of the most recent redraw.
func (p *ChartPresenter) LastFrame() chart.Frame {
	if p == nil {
		return chart.Frame{}
	}
	return p.last
}

// Redraws counts redraws since construction.
func (p *ChartPresenter) Redraws() uint64 {
	if p == nil {
		return 0
	}
	return p.ticks
}
