package meter

import (
	"context"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"testing"
	"time"

	"github.com/soocke/fps-meter-go/config"
	"github.com/soocke/fps-meter-go/domain/capture"
	"github.com/soocke/fps-meter-go/domain/chart"
	"github.com/soocke/fps-meter-go/domain/frames"
	"github.com/soocke/fps-meter-go/domain/source"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// fakeClock is advanced manually by tests.
type fakeClock struct{ t time.Time }

func newFakeClock(ms int64) *fakeClock { return &fakeClock{t: time.UnixMilli(ms)} }

func (c *fakeClock) now() time.Time   { return c.t }
func (c *fakeClock) millis() int64    { return c.t.UnixMilli() }
func (c *fakeClock) set(ms int64)     { c.t = time.UnixMilli(ms) }
func (c *fakeClock) advance(ms int64) { c.t = c.t.Add(time.Duration(ms) * time.Millisecond) }

type nopSurface struct{}

func (nopSurface) Size() (int, int)                             { return 1280, 72 }
func (nopSurface) Clear(color.Color)                            {}
func (nopSurface) FillRect(_, _, _, _ float64, _ color.Color)   {}
func (nopSurface) Polyline([]chart.Point, float64, color.Color) {}
func (nopSurface) Text(string, float64, float64, chart.Align, chart.Baseline, color.Color) {
}

type stubSource struct {
	name    string
	err     error
	sink    source.Sink
	started int
	stopped int
}

func (s *stubSource) Name() string { return s.name }
func (s *stubSource) Start(_ context.Context, sink source.Sink) error {
	if s.err != nil {
		return s.err
	}
	s.sink = sink
	s.started++
	return nil
}
func (s *stubSource) Stop() { s.stopped++ }

func TestMeter_BoundaryMarksAt60Hz(t *testing.T) {
	clk := newFakeClock(0)
	m := New(nil, discardLogger, WithClock(clk.now))
	for _, ts := range []int64{0, 16, 33, 50} {
		clk.set(ts)
		m.MarkFrameBoundary()
	}
	st := m.Stats()
	if st.Samples != 3 || st.State != frames.StateTiming {
		t.Fatalf("expected 3 samples in timing state, got %+v", st)
	}
	if st.Rate < 58.8 || st.Rate > 60.01 {
		t.Fatalf("expected ~60 fps, got %v", st.Rate)
	}
}

func TestMeter_ReportFrameZeroIsNoop(t *testing.T) {
	clk := newFakeClock(1_000)
	m := New(nil, nil, WithClock(clk.now))
	before := m.Stats()
	m.ReportFrame(0, 500)
	after := m.Stats()
	if before != after {
		t.Fatalf("ReportFrame(0, 500) changed state: %+v -> %+v", before, after)
	}
	m.ReportFrame(25, 1000)
	if got := m.Stats(); got.Samples != 1 || got.Rate != 25 {
		t.Fatalf("expected one 25 fps sample, got %+v", got)
	}
}

func TestMeter_RedrawPrunesOldSamples(t *testing.T) {
	clk := newFakeClock(100_000)
	m := New(config.DefaultConfig(), discardLogger, WithClock(clk.now))
	now := clk.millis()
	m.buf.Append(now-15_000, 20)
	m.buf.Append(now-5_000, 20)

	f := m.Redraw(nopSurface{})
	if f.WindowStart != now-10_000 {
		t.Fatalf("expected window start %d, got %d", now-10_000, f.WindowStart)
	}
	got := m.Snapshot()
	if len(got) != 1 || got[0].Timestamp != now-5_000 {
		t.Fatalf("expected only now-5000 retained, got %+v", got)
	}
	if f.MaxY < 27 {
		t.Fatalf("maxY below floor: %v", f.MaxY)
	}
}

func TestMeter_StartStopReset(t *testing.T) {
	clk := newFakeClock(0)
	m := New(nil, discardLogger, WithClock(clk.now))
	src := &stubSource{name: "stub"}
	if err := m.Start(context.Background(), src); err != nil {
		t.Fatalf("start: %v", err)
	}
	st := m.Stats()
	if !st.Running || st.RunID == "" || st.Source != "stub" {
		t.Fatalf("unexpected stats after start: %+v", st)
	}
	firstRun := st.RunID

	for i := 0; i < 5; i++ {
		src.sink.MarkFrameBoundary()
		clk.advance(20)
	}
	m.Stop()
	m.Stop()
	if src.stopped != 1 || m.Running() {
		t.Fatalf("expected one stop, got %d running=%v", src.stopped, m.Running())
	}
	st = m.Stats()
	if st.Samples != 4 || st.State != frames.StateIdle {
		t.Fatalf("stop must keep samples and close the interval: %+v", st)
	}

	// a late boundary after a long pause starts a new interval instead of a 10s frame
	clk.advance(10_000)
	m.MarkFrameBoundary()
	if m.Stats().Samples != 4 {
		t.Fatalf("pause recorded as a frame")
	}

	if err := m.Start(context.Background(), src); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if m.Stats().RunID == firstRun {
		t.Fatalf("each run needs its own id")
	}
	m.Reset()
	m.Reset()
	st = m.Stats()
	if st.Samples != 0 || st.State != frames.StateIdle || !st.Running {
		t.Fatalf("reset should clear samples only: %+v", st)
	}
	m.Stop()
}

func TestMeter_StartError(t *testing.T) {
	m := New(nil, discardLogger)
	boom := errors.New("boom")
	err := m.Start(context.Background(), &stubSource{name: "bad", err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if m.Running() {
		t.Fatalf("failed start must not attach the source")
	}
}

func TestMeter_WithTickerSource(t *testing.T) {
	m := New(nil, discardLogger)
	if err := m.Start(context.Background(), source.NewTicker(200)); err != nil {
		t.Fatalf("start: %v", err)
	}
	time.Sleep(80 * time.Millisecond)
	m.Stop()
	st := m.Stats()
	if st.Samples < 3 || st.Rate <= 0 {
		t.Fatalf("expected samples from the ticker, got %+v", st)
	}
}

func TestMeter_CaptureStopAfterCancel(t *testing.T) {
	slowGrab := func(region image.Rectangle) (*image.RGBA, error) {
		time.Sleep(3 * time.Millisecond)
		return image.NewRGBA(region), nil
	}
	for i := 0; i < 20; i++ {
		m := New(nil, discardLogger)
		svc := capture.NewCaptureService(discardLogger, slowGrab, image.Rect(0, 0, 4, 4))
		ctx, cancel := context.WithCancel(context.Background())
		if err := m.Start(ctx, source.NewCapture(svc)); err != nil {
			t.Fatalf("start: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
		cancel()
		m.Stop()
		before := m.Stats()
		time.Sleep(8 * time.Millisecond)
		after := m.Stats()
		if after.Samples != before.Samples || after.State != frames.StateIdle {
			t.Fatalf("run %d: frames arrived after stop: before %+v after %+v", i, before, after)
		}
	}
}
