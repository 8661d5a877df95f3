// Package report exports the retained frame history as a PNG chart and a
// numeric summary. It is used by the Export button and by headless runs.
package report

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/soocke/fps-meter-go/domain/frames"
)

// ErrNoSamples is returned when there is nothing to export.
var ErrNoSamples = errors.New("report: no samples")

// Options sizes the exported chart and places the reference lines.
type Options struct {
	Width      int
	Height     int
	SafeRate   float64
	DangerRate float64
	BucketMs   int64
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 1280
	}
	if o.Height <= 0 {
		o.Height = 480
	}
	if o.SafeRate <= 0 {
		o.SafeRate = 50
	}
	if o.DangerRate <= 0 {
		o.DangerRate = 25
	}
	if o.BucketMs <= 0 {
		o.BucketMs = 1000
	}
	return o
}

// Summary describes a sample history.
type Summary struct {
	Samples int
	Span    time.Duration
	Mean    float64 // frames divided by total frame time
	Min     float64
	Max     float64
	P1Low   float64 // rate of the slowest 1% of frames
}

func (s Summary) String() string {
	return fmt.Sprintf("%s samples over %s: avg %.2f FPS, min %.2f, max %.2f, 1%% low %.2f",
		humanize.Comma(int64(s.Samples)), s.Span.Round(time.Millisecond), s.Mean, s.Min, s.Max, s.P1Low)
}

// Summarize computes a Summary. Zero-duration samples count toward Samples
// but not toward the rates.
func Summarize(samples []frames.Sample) (Summary, error) {
	if len(samples) == 0 {
		return Summary{}, ErrNoSamples
	}
	sum := Summary{
		Samples: len(samples),
		Span:    time.Duration(samples[len(samples)-1].Timestamp-samples[0].Timestamp) * time.Millisecond,
		Min:     math.Inf(1),
	}
	var total float64
	durations := make([]float64, 0, len(samples))
	for _, s := range samples {
		total += s.Duration
		rate, ok := s.Rate()
		if !ok {
			continue
		}
		durations = append(durations, s.Duration)
		sum.Min = math.Min(sum.Min, rate)
		sum.Max = math.Max(sum.Max, rate)
	}
	if len(durations) == 0 {
		sum.Min = 0
		return sum, nil
	}
	if total > 0 {
		sum.Mean = float64(len(samples)) * 1000 / total
	}
	sort.Float64s(durations)
	idx := len(durations) * 99 / 100
	if idx >= len(durations) {
		idx = len(durations) - 1
	}
	sum.P1Low = 1000 / durations[idx]
	return sum, nil
}

// Buckets averages samples over fixed intervals aligned to step. The rate of
// a bucket is its sample count divided by its summed frame time.
// A non-positive step uses the one second default of Options.
func Buckets(samples []frames.Sample, step int64) (starts []time.Time, rates []float64) {
	if step <= 0 {
		step = Options{}.withDefaults().BucketMs
	}
	type acc struct {
		n   int
		sum float64
	}
	var keys []int64
	byKey := map[int64]*acc{}
	for _, s := range samples {
		k := floorDiv(s.Timestamp, step) * step
		a, ok := byKey[k]
		if !ok {
			a = &acc{}
			byKey[k] = a
			keys = append(keys, k)
		}
		a.n++
		a.sum += s.Duration
	}
	for _, k := range keys {
		a := byKey[k]
		if a.sum <= 0 {
			continue
		}
		starts = append(starts, time.UnixMilli(k+step/2))
		rates = append(rates, float64(a.n)*1000/a.sum)
	}
	return starts, rates
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// WritePNG renders the instantaneous rate of every sample together with the
// bucketed averages and the safe and danger reference lines.
func WritePNG(w io.Writer, samples []frames.Sample, opts Options) error {
	if len(samples) == 0 {
		return ErrNoSamples
	}
	opts = opts.withDefaults()

	var xs []time.Time
	var ys []float64
	for _, s := range samples {
		rate, ok := s.Rate()
		if !ok {
			continue
		}
		xs = append(xs, time.UnixMilli(s.Timestamp))
		ys = append(ys, rate)
	}
	if len(xs) == 0 {
		return ErrNoSamples
	}
	// go-chart needs two X values for a range
	if len(xs) == 1 {
		xs = append(xs, xs[0].Add(time.Second))
		ys = append(ys, ys[0])
	}
	first, last := xs[0], xs[len(xs)-1]

	series := []chart.Series{
		chart.TimeSeries{
			Name:    "FPS",
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: drawing.Color{R: 0, G: 180, B: 255, A: 255}, StrokeWidth: 1.5},
		},
	}
	if bx, by := Buckets(samples, opts.BucketMs); len(bx) > 1 {
		series = append(series, chart.TimeSeries{
			Name:    fmt.Sprintf("avg / %s", time.Duration(opts.BucketMs)*time.Millisecond),
			XValues: bx,
			YValues: by,
			Style:   chart.Style{StrokeColor: chart.ColorBlack, StrokeWidth: 2, DotWidth: 3, DotColor: chart.ColorBlack},
		})
	}
	series = append(series,
		referenceLine(fmt.Sprintf("%.0f FPS", opts.SafeRate), first, last, opts.SafeRate, drawing.Color{G: 160, A: 255}),
		referenceLine(fmt.Sprintf("%.0f FPS", opts.DangerRate), first, last, opts.DangerRate, chart.ColorRed),
	)

	ch := chart.Chart{
		Title:      fmt.Sprintf("Frame rate (%s samples)", humanize.Comma(int64(len(samples)))),
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "time", ValueFormatter: chart.TimeValueFormatterWithFormat("15:04:05")},
		YAxis:      chart.YAxis{Name: "FPS", Range: &chart.ContinuousRange{Min: 0, Max: yMax(ys, opts.SafeRate)}},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("report: render: %w", err)
	}
	return nil
}

func referenceLine(name string, from, to time.Time, rate float64, col drawing.Color) chart.TimeSeries {
	return chart.TimeSeries{
		Name:    name,
		XValues: []time.Time{from, to},
		YValues: []float64{rate, rate},
		Style:   chart.Style{StrokeColor: col, StrokeWidth: 1, StrokeDashArray: []float64{5, 5}},
	}
}

func yMax(ys []float64, floor float64) float64 {
	m := floor
	for _, y := range ys {
		m = math.Max(m, y)
	}
	return math.Ceil(m*1.1/10) * 10
}
