package app

import (
	"context"
	"errors"
	"time"

	"github.com/soocke/fps-meter-go/debug"
	"github.com/soocke/fps-meter-go/report"
)

// HeadlessOptions controls RunHeadless.
type HeadlessOptions struct {
	// Duration stops the run after this long; zero runs until ctx ends.
	Duration time.Duration
	// Export writes the history to Config.ExportPath on exit.
	Export bool
}

// RunHeadless measures without a window: the selected source feeds the
// meter, the chart is redrawn into the off-screen canvas on every redraw
// interval and the statistics are logged. It returns when ctx is done or
// the duration elapses. Signal handling is left to the caller's ctx.
func RunHeadless(ctx context.Context, c *Container, opts HeadlessOptions) error {
	if opts.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Duration)
		defer cancel()
	}
	if c.Config.Debug && c.Logger != nil {
		debug.Start(ctx, 2*time.Second, c.Logger, c.Meter)
	}
	if err := c.StartMeter(ctx); err != nil {
		return err
	}
	ticker := time.NewTicker(c.Config.RedrawInterval())
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			c.Meter.Redraw(c.Canvas)
			st := c.Meter.Stats()
			c.Run.OnTick(st.Running, time.Now())
			if c.Logger != nil {
				c.Logger.Info("fps",
					"rate", st.Rate,
					"recent_rate", st.RecentRate,
					"samples", st.Samples,
					"dropped", st.Dropped,
				)
			}
		}
	}

	samples := c.Meter.Snapshot()
	c.Meter.Stop()
	c.Run.OnTick(false, time.Now())
	if sum, err := report.Summarize(samples); err == nil && c.Logger != nil {
		_, total := c.Run.Values()
		c.Logger.Info("run finished", "summary", sum.String(), "measured", total.String())
	}
	if !opts.Export {
		return nil
	}
	path, err := c.Export()
	if errors.Is(err, report.ErrNoSamples) {
		if c.Logger != nil {
			c.Logger.Warn("nothing to export")
		}
		return nil
	}
	if err != nil {
		return err
	}
	if c.Logger != nil {
		c.Logger.Info("history exported", "path", path)
	}
	return nil
}
