package report

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/soocke/fps-meter-go/domain/frames"
)

func steady(start int64, n int, d float64) []frames.Sample {
	out := make([]frames.Sample, 0, n)
	ts := start
	for i := 0; i < n; i++ {
		ts += int64(d)
		out = append(out, frames.Sample{Timestamp: ts, Duration: d})
	}
	return out
}

func TestWritePNG_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, nil, Options{}); !errors.Is(err, ErrNoSamples) {
		t.Fatalf("expected ErrNoSamples, got %v", err)
	}
	zero := []frames.Sample{{Timestamp: 1, Duration: 0}}
	if err := WritePNG(&buf, zero, Options{}); !errors.Is(err, ErrNoSamples) {
		t.Fatalf("zero-duration only history should have nothing to plot, got %v", err)
	}
}

func TestWritePNG_Decodes(t *testing.T) {
	samples := append(steady(10_000, 150, 20), steady(13_000, 60, 40)...)
	var buf bytes.Buffer
	if err := WritePNG(&buf, samples, Options{Width: 640, Height: 240}); err != nil {
		t.Fatalf("write: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 240 {
		t.Fatalf("unexpected size %v", b)
	}
}

func TestWritePNG_SingleSample(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, []frames.Sample{{Timestamp: 5_000, Duration: 16}}, Options{}); err != nil {
		t.Fatalf("single sample should still render: %v", err)
	}
}

func TestSummarize(t *testing.T) {
	if _, err := Summarize(nil); !errors.Is(err, ErrNoSamples) {
		t.Fatalf("expected ErrNoSamples, got %v", err)
	}
	samples := steady(0, 99, 10)
	samples = append(samples, frames.Sample{Timestamp: 1_090, Duration: 100})
	s, err := Summarize(samples)
	if err != nil {
		t.Fatal(err)
	}
	if s.Samples != 100 || s.Max != 100 || s.Min != 10 {
		t.Fatalf("unexpected summary %+v", s)
	}
	// 100 frames over 1090 ms
	if math.Abs(s.Mean-100*1000/1090.0) > 1e-9 {
		t.Fatalf("unexpected mean %v", s.Mean)
	}
	if s.P1Low != 10 {
		t.Fatalf("expected 1%% low of 10 fps, got %v", s.P1Low)
	}
	if !strings.Contains(s.String(), "100 samples") {
		t.Fatalf("unexpected string %q", s.String())
	}
}

func TestBuckets(t *testing.T) {
	samples := []frames.Sample{
		{Timestamp: 100, Duration: 10},
		{Timestamp: 900, Duration: 30},
		{Timestamp: 1_500, Duration: 0},
		{Timestamp: 2_100, Duration: 50},
	}
	xs, ys := Buckets(samples, 1000)
	if len(xs) != 2 || len(ys) != 2 {
		t.Fatalf("expected two non-empty buckets, got %v %v", xs, ys)
	}
	if ys[0] != 50 || ys[1] != 20 {
		t.Fatalf("unexpected bucket rates %v", ys)
	}
	if xs[0].UnixMilli() != 500 || xs[1].UnixMilli() != 2_500 {
		t.Fatalf("buckets should be centred, got %v", xs)
	}

	for _, step := range []int64{0, -250} {
		zx, zy := Buckets(samples, step)
		if len(zx) != len(xs) || zy[0] != ys[0] || zy[1] != ys[1] {
			t.Fatalf("step %d should fall back to one second buckets, got %v %v", step, zx, zy)
		}
	}
}
