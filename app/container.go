package app

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/soocke/fps-meter-go/config"
	"github.com/soocke/fps-meter-go/domain/capture"
	"github.com/soocke/fps-meter-go/domain/chart"
	"github.com/soocke/fps-meter-go/domain/meter"
	"github.com/soocke/fps-meter-go/domain/source"
	"github.com/soocke/fps-meter-go/report"
	"github.com/soocke/fps-meter-go/ui/model"
	"github.com/soocke/fps-meter-go/ui/raster"
)

// Container assembles the meter, the off-screen chart canvas and the shared
// models. Front ends add their own views and presenters on top.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Meter  *meter.Meter
	Canvas *raster.Canvas
	Run    *model.RunModel

	// Animation is the frame source driven by the GUI event loop. Nil in
	// headless runs.
	Animation source.Source

	grab capture.Grabber
}

// Option customises BuildContainer.
type Option func(*Container)

// WithGrabber replaces the screen grabber used by the capture source.
func WithGrabber(g capture.Grabber) Option { return func(c *Container) { c.grab = g } }

// WithAnimation registers the GUI animation source.
func WithAnimation(src source.Source) Option { return func(c *Container) { c.Animation = src } }

// BuildContainer validates cfg and constructs all components. An invalid
// chart size is reported here, once.
func BuildContainer(cfg *config.Config, logger *slog.Logger, style chart.Style, opts ...Option) (*Container, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("app: config: %w", err)
	}
	canvas, err := raster.NewCanvas(cfg.ChartWidth, cfg.ChartHeight)
	if err != nil {
		return nil, fmt.Errorf("app: chart surface: %w", err)
	}
	c := &Container{
		Config: cfg,
		Logger: logger,
		Meter:  meter.New(cfg, logger, meter.WithStyle(style)),
		Canvas: canvas,
		Run:    model.NewRunModel(),
		grab:   capture.Grab,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// NewSource builds the frame source selected by the configuration,
// optionally wrapped in batch measurement.
func (c *Container) NewSource() (source.Source, error) {
	var src source.Source
	switch c.Config.Source {
	case config.SourceAnimation:
		if c.Animation == nil {
			return nil, fmt.Errorf("app: source %q needs the GUI", c.Config.Source)
		}
		src = c.Animation
	case config.SourceTicker:
		src = source.NewTicker(c.Config.TickerHz)
	case config.SourceCapture:
		svc := capture.NewCaptureService(c.Logger, c.grab, c.region())
		src = source.NewCapture(svc)
	default:
		return nil, fmt.Errorf("app: unknown source %q", c.Config.Source)
	}
	if c.Config.Batch {
		src = source.NewBatch(src, c.Config.BatchPeriod())
	}
	return src, nil
}

func (c *Container) region() image.Rectangle {
	cfg := c.Config
	if cfg.RegionW <= 0 || cfg.RegionH <= 0 {
		return image.Rectangle{}
	}
	return image.Rect(cfg.RegionX, cfg.RegionY, cfg.RegionX+cfg.RegionW, cfg.RegionY+cfg.RegionH)
}

// StartMeter starts the meter with a freshly built source.
func (c *Container) StartMeter(ctx context.Context) error {
	src, err := c.NewSource()
	if err != nil {
		return err
	}
	return c.Meter.Start(ctx, src)
}

// Export writes the retained history as a PNG chart to the configured path.
func (c *Container) Export() (string, error) {
	return c.ExportTo(c.Config.ExportPath)
}

// ExportTo writes the retained history as a PNG chart to path.
func (c *Container) ExportTo(path string) (string, error) {
	samples := c.Meter.Snapshot()
	if len(samples) == 0 {
		return "", report.ErrNoSamples
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("app: export dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("app: export: %w", err)
	}
	werr := report.WritePNG(f, samples, report.Options{
		Width:      c.Config.ChartWidth,
		SafeRate:   c.Config.SafeRate,
		DangerRate: c.Config.DangerRate,
	})
	cerr := f.Close()
	if werr != nil {
		_ = os.Remove(path)
		return "", werr
	}
	if cerr != nil {
		return "", fmt.Errorf("app: export: %w", cerr)
	}
	return path, nil
}
