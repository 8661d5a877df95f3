package meter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/soocke/fps-meter-go/config"
	"github.com/soocke/fps-meter-go/domain/chart"
	"github.com/soocke/fps-meter-go/domain/frames"
	"github.com/soocke/fps-meter-go/domain/source"
)

// Stats is a point-in-time view of the meter for status lines and logging.
type Stats struct {
	Samples    int
	Cap        int
	Rate       float64 // whole retained history
	RecentRate float64 // lookback window
	State      frames.State
	Dropped    uint64
	Running    bool
	RunID      string
	Source     string
	Started    time.Time
}

// Meter owns one frame sample buffer, the chart renderer drawing it and the
// frame source feeding it. Producers and the redraw trigger may call it from
// different goroutines; all access to the buffer is serialised.
type Meter struct {
	mu       sync.Mutex
	buf      *frames.Buffer
	renderer *chart.Renderer
	lookback int64
	now      func() time.Time
	base     *slog.Logger
	logger   *slog.Logger

	src     source.Source
	runID   string
	started time.Time
}

// Option customises a Meter.
type Option func(*Meter)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Meter) { m.now = now }
}

// WithStyle sets the chart colors.
func WithStyle(style chart.Style) Option {
	return func(m *Meter) {
		m.renderer = chart.NewRenderer(m.renderer.Options(), style)
	}
}

// New builds a meter from cfg. A nil cfg uses config.DefaultConfig.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Meter {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	m := &Meter{
		buf: frames.NewBuffer(cfg.SampleCap),
		renderer: chart.NewRenderer(chart.Options{
			MinX:        cfg.MinX(),
			Lookback:    cfg.LookbackMillis,
			Headroom:    cfg.Headroom,
			DefaultRate: cfg.DefaultRate,
			MinMaxY:     cfg.MinMaxY,
			SafeRate:    cfg.SafeRate,
			DangerRate:  cfg.DangerRate,
		}, chart.DefaultStyle()),
		now:    time.Now,
		base:   logger,
		logger: logger,
	}
	for _, o := range opts {
		o(m)
	}
	m.lookback = m.renderer.Options().Lookback
	return m
}

func (m *Meter) nowMillis() int64 { return m.now().UnixMilli() }

// MarkFrameBoundary records the end of one frame and the start of the next.
func (m *Meter) MarkFrameBoundary() {
	m.mu.Lock()
	m.buf.MarkFrameBoundary(m.nowMillis())
	m.mu.Unlock()
}

// ReportFrame records frameCount frames measured over elapsedMs. Batches
// without frames are ignored.
func (m *Meter) ReportFrame(frameCount int, elapsedMs float64) {
	if frameCount <= 0 {
		return
	}
	m.mu.Lock()
	m.buf.ReportFrame(frameCount, elapsedMs, m.nowMillis())
	m.mu.Unlock()
}

// EndFrames closes the open frame interval, e.g. when the producer pauses.
func (m *Meter) EndFrames() {
	m.mu.Lock()
	m.buf.EndFrames()
	m.mu.Unlock()
}

// Redraw paints the chart for the current time onto s and prunes samples
// that left the window.
func (m *Meter) Redraw(s chart.Surface) chart.Frame {
	m.mu.Lock()
	f := m.renderer.Render(s, m.buf, m.nowMillis())
	samples := m.buf.Len()
	logger := m.logger
	m.mu.Unlock()
	if logger != nil {
		logger.Debug("redraw",
			"max_y", f.MaxY,
			"points", f.Points,
			"pruned", f.Pruned,
			"samples", samples,
		)
	}
	return f
}

// Reset clears the buffer. A running source keeps feeding the cleared buffer.
func (m *Meter) Reset() {
	m.mu.Lock()
	m.buf.Reset()
	logger := m.logger
	m.mu.Unlock()
	if logger != nil {
		logger.Info("meter reset")
	}
}

// Snapshot returns a copy of the retained samples, oldest first.
func (m *Meter) Snapshot() []frames.Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buf.Samples()
}

func (m *Meter) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.nowMillis()
	st := Stats{
		Samples:    m.buf.Len(),
		Cap:        m.buf.Cap(),
		Rate:       m.buf.CurrentRate(now),
		RecentRate: m.buf.AverageRate(now-m.lookback, now),
		State:      m.buf.State(),
		Dropped:    m.buf.Dropped(),
		Running:    m.src != nil,
		RunID:      m.runID,
		Started:    m.started,
	}
	if m.src != nil {
		st.Source = m.src.Name()
	}
	return st
}

// Running reports whether a frame source is attached.
func (m *Meter) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.src != nil
}

// Start attaches src and starts it. A running source is stopped first. The
// buffer is kept; call Reset for a clean chart.
func (m *Meter) Start(ctx context.Context, src source.Source) error {
	m.Stop()

	runID := uuid.NewString()
	if err := src.Start(ctx, m); err != nil {
		return fmt.Errorf("meter: start %s: %w", src.Name(), err)
	}

	m.mu.Lock()
	m.src = src
	m.runID = runID
	m.started = m.now()
	if m.base != nil {
		m.logger = m.base.With("run_id", runID)
	}
	logger := m.logger
	m.mu.Unlock()

	if logger != nil {
		logger.Info("meter started", "source", src.Name())
	}
	return nil
}

// Stop detaches and stops the running source, leaving the samples in place.
// Idempotent.
func (m *Meter) Stop() {
	m.mu.Lock()
	src := m.src
	m.src = nil
	logger := m.logger
	m.mu.Unlock()
	if src == nil {
		return
	}
	src.Stop()
	m.EndFrames()
	if logger != nil {
		logger.Info("meter stopped", "source", src.Name(), "samples", m.Stats().Samples)
	}
}
