package source

import (
	"context"
	"time"
)

// Ticker is a synthetic animation loop: it marks a frame boundary at a fixed
// rate on its own goroutine. It stands in for a render loop when no real one
// is being measured.
type Ticker struct {
	hz int
	w  worker
}

// NewTicker returns a loop targeting hz frames per second.
func NewTicker(hz int) *Ticker {
	if hz <= 0 {
		hz = 60
	}
	return &Ticker{hz: hz}
}

func (t *Ticker) Name() string { return "ticker" }

// Running reports whether the loop goroutine is active.
func (t *Ticker) Running() bool { return t.w.running() }

func (t *Ticker) Start(ctx context.Context, sink Sink) error {
	period := time.Second / time.Duration(t.hz)
	return t.w.start(ctx, func(ctx context.Context) {
		tk := time.NewTicker(period)
		defer tk.Stop()
		sink.MarkFrameBoundary()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
				sink.MarkFrameBoundary()
			}
		}
	})
}

func (t *Ticker) Stop() { t.w.stop() }
