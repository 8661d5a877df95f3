package app

import (
	"context"
	"errors"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/soocke/fps-meter-go/config"
	"github.com/soocke/fps-meter-go/domain/chart"
	"github.com/soocke/fps-meter-go/domain/source"
	"github.com/soocke/fps-meter-go/report"
	"github.com/soocke/fps-meter-go/ui/raster"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func fakeGrab(region image.Rectangle) (*image.RGBA, error) {
	if region.Empty() {
		region = image.Rect(0, 0, 8, 8)
	}
	time.Sleep(2 * time.Millisecond)
	return image.NewRGBA(region), nil
}

func testConfig(src string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Source = src
	cfg.ChartWidth = 320
	cfg.RedrawIntervalMs = 20
	cfg.TickerHz = 200
	return cfg
}

func TestBuildContainer_RejectsOversizedChart(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ChartWidth = raster.MaxSide + 1
	if _, err := BuildContainer(cfg, discardLogger, chart.DefaultStyle()); !errors.Is(err, raster.ErrInvalidSurface) {
		t.Fatalf("expected ErrInvalidSurface, got %v", err)
	}
	c, err := BuildContainer(nil, nil, chart.DefaultStyle())
	if err != nil {
		t.Fatalf("defaults should build: %v", err)
	}
	if w, h := c.Canvas.Size(); w != 1280 || h != 72 {
		t.Fatalf("unexpected canvas %dx%d", w, h)
	}
}

func TestContainer_NewSource(t *testing.T) {
	c, err := BuildContainer(testConfig(config.SourceAnimation), discardLogger, chart.DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.NewSource(); err == nil {
		t.Fatalf("animation source without GUI should fail")
	}

	anim := source.NewTicker(30)
	c, _ = BuildContainer(testConfig(config.SourceAnimation), discardLogger, chart.DefaultStyle(), WithAnimation(anim))
	if src, err := c.NewSource(); err != nil || src != source.Source(anim) {
		t.Fatalf("expected the registered animation source, got %v %v", src, err)
	}

	cases := []struct {
		src   string
		batch bool
		name  string
	}{
		{config.SourceTicker, false, "ticker"},
		{config.SourceTicker, true, "batch/ticker"},
		{config.SourceCapture, false, "capture"},
		{config.SourceCapture, true, "batch/capture"},
	}
	for _, tc := range cases {
		cfg := testConfig(tc.src)
		cfg.Batch = tc.batch
		c, err := BuildContainer(cfg, discardLogger, chart.DefaultStyle(), WithGrabber(fakeGrab))
		if err != nil {
			t.Fatal(err)
		}
		src, err := c.NewSource()
		if err != nil || src.Name() != tc.name {
			t.Fatalf("%s batch=%v: got %v %v", tc.src, tc.batch, src, err)
		}
	}

	c.Config.Source = "bogus"
	if _, err := c.NewSource(); err == nil {
		t.Fatalf("unknown source should fail")
	}
}

func TestContainer_Region(t *testing.T) {
	cfg := testConfig(config.SourceCapture)
	c, _ := BuildContainer(cfg, discardLogger, chart.DefaultStyle())
	if !c.region().Empty() {
		t.Fatalf("zero size region means full screen")
	}
	cfg.RegionX, cfg.RegionY, cfg.RegionW, cfg.RegionH = 10, 20, 300, 200
	if got := c.region(); got != image.Rect(10, 20, 310, 220) {
		t.Fatalf("unexpected region %v", got)
	}
}

func TestContainer_ExportWithoutSamples(t *testing.T) {
	c, _ := BuildContainer(testConfig(config.SourceTicker), discardLogger, chart.DefaultStyle())
	path := filepath.Join(t.TempDir(), "out.png")
	if _, err := c.ExportTo(path); !errors.Is(err, report.ErrNoSamples) {
		t.Fatalf("expected ErrNoSamples, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("no file should be written")
	}
}

func TestRunHeadless_TickerWithExport(t *testing.T) {
	cfg := testConfig(config.SourceTicker)
	cfg.ExportPath = filepath.Join(t.TempDir(), "nested", "fps.png")
	c, err := BuildContainer(cfg, discardLogger, chart.DefaultStyle())
	if err != nil {
		t.Fatal(err)
	}
	if err := RunHeadless(context.Background(), c, HeadlessOptions{Duration: 200 * time.Millisecond, Export: true}); err != nil {
		t.Fatalf("headless: %v", err)
	}
	if c.Meter.Running() {
		t.Fatalf("meter should be stopped after the run")
	}
	if run, _ := c.Run.Values(); run <= 0 {
		t.Fatalf("run time not tracked")
	}
	f, err := os.Open(cfg.ExportPath)
	if err != nil {
		t.Fatalf("export missing: %v", err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Fatalf("export is not a PNG: %v", err)
	}
}

func TestRunHeadless_CaptureStopsOnCancel(t *testing.T) {
	c, err := BuildContainer(testConfig(config.SourceCapture), discardLogger, chart.DefaultStyle(), WithGrabber(fakeGrab))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunHeadless(ctx, c, HeadlessOptions{}) }()
	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("headless: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("headless run did not stop on cancel")
	}
	if st := c.Meter.Stats(); st.Samples == 0 || st.Running {
		t.Fatalf("expected measured capture frames and a stopped meter, got %+v", st)
	}
}
