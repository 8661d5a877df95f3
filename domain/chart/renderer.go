package chart

import (
	"fmt"

	"github.com/soocke/fps-meter-go/domain/frames"
)

// Series is the buffer contract a Renderer draws from and prunes.
type Series interface {
	RateSource
	Each(fn func(frames.Sample) bool)
	Prune(windowStart int64) int
}

// Options fixes the scaling rules of a Renderer. Times are milliseconds.
type Options struct {
	MinX        int64   // negative offset of the left chart edge from now
	Lookback    int64   // window of the recent average driving the Y scale
	TickStep    int64   // width of one labelled X bucket
	Headroom    float64 // multiplier applied to the scaling rate
	DefaultRate float64 // scaling rate when no data is available
	MinMaxY     float64 // floor for the top of the Y axis
	SafeRate    float64
	DangerRate  float64
}

// DefaultOptions returns a ten second trailing window scaled from the last
// three seconds, with 25/50 fps bands.
func DefaultOptions() Options {
	return Options{
		MinX:        -10_000,
		Lookback:    3_000,
		TickStep:    1_000,
		Headroom:    1.7,
		DefaultRate: 50,
		MinMaxY:     27,
		SafeRate:    50,
		DangerRate:  25,
	}
}

// Bucket is one labelled gridline interval (Start, End] with its mean rate.
type Bucket struct {
	Start, End int64
	Rate       float64
}

// Frame summarises one redraw.
type Frame struct {
	Now         int64
	WindowStart int64
	MaxY        float64
	DangerBand  bool
	SafeBand    bool
	Buckets     []Bucket
	Points      int
	Pruned      int
}

// Renderer paints the scrolling frame-rate strip chart. It keeps no state
// between redraws; everything is derived from the series and the clock.
type Renderer struct {
	opts  Options
	style Style
}

// NewRenderer returns a renderer. Zero-valued option fields fall back to
// DefaultOptions.
func NewRenderer(opts Options, style Style) *Renderer {
	def := DefaultOptions()
	if opts.MinX >= 0 {
		opts.MinX = def.MinX
	}
	if opts.Lookback <= 0 {
		opts.Lookback = def.Lookback
	}
	if opts.TickStep <= 0 {
		opts.TickStep = def.TickStep
	}
	if opts.Headroom <= 0 {
		opts.Headroom = def.Headroom
	}
	if opts.DefaultRate <= 0 {
		opts.DefaultRate = def.DefaultRate
	}
	if opts.MinMaxY <= 0 {
		opts.MinMaxY = def.MinMaxY
	}
	if opts.SafeRate <= 0 {
		opts.SafeRate = def.SafeRate
	}
	if opts.DangerRate <= 0 {
		opts.DangerRate = def.DangerRate
	}
	return &Renderer{opts: opts, style: style}
}

// Options returns the effective options.
func (r *Renderer) Options() Options { return r.opts }

// Render redraws the whole chart onto s for time now and then prunes the
// samples that scrolled past the left edge.
func (r *Renderer) Render(s Surface, series Series, now int64) Frame {
	width, height := s.Size()
	w, h := float64(width), float64(height)
	windowStart := now + r.opts.MinX

	f := Frame{Now: now, WindowStart: windowStart}
	f.MaxY = MaxY(series, now, r.opts)

	x := Linear{D0: float64(windowStart), D1: float64(now), R0: 0, R1: w}
	y := Linear{D0: 0, D1: f.MaxY, R0: h, R1: 0}

	s.Clear(r.style.Background)

	if dangerY := y.Map(r.opts.DangerRate); dangerY < h {
		f.DangerBand = true
		s.FillRect(0, dangerY, w+1, h-dangerY+1, r.style.DangerFill)
		s.Text(fmt.Sprintf("--- %.0f FPS ---", r.opts.DangerRate), 0, dangerY, AlignLeft, BaselineMiddle, r.style.DangerText)
	}
	if safeY := y.Map(r.opts.SafeRate); safeY > 0 {
		f.SafeBand = true
		s.FillRect(0, 0, w+1, safeY, r.style.SafeFill)
		s.Text(fmt.Sprintf("--- %.0f FPS ---", r.opts.SafeRate), 0, safeY, AlignLeft, BaselineMiddle, r.style.SafeText)
	}

	for left := now; left > windowStart; left -= r.opts.TickStep {
		right := left + r.opts.TickStep
		rate := series.AverageRate(left, right)
		f.Buckets = append(f.Buckets, Bucket{Start: left, End: right, Rate: rate})
		s.Text("|", x.Map(float64(left))-4, h, AlignLeft, BaselineBottom, r.style.AxisText)
		mid := (x.Map(float64(left)) + x.Map(float64(right))) / 2
		s.Text(fmt.Sprintf("%.2f FPS", rate), mid, h, AlignCenter, BaselineBottom, r.style.AxisText)
	}

	var points []Point
	series.Each(func(sample frames.Sample) bool {
		rate, ok := sample.Rate()
		if !ok {
			return true
		}
		points = append(points, Point{X: x.Map(float64(sample.Timestamp)), Y: y.Map(rate)})
		return true
	})
	f.Points = len(points)
	if len(points) > 0 {
		s.Polyline(points, r.style.LineWidth, r.style.Line)
	}

	f.Pruned = series.Prune(windowStart)
	return f
}
