package source

import (
	"context"
	"sync/atomic"
	"time"
)

// Batch turns a per-frame source into a batch measurement: it counts the
// inner source's frames for a fixed period and pushes one
// ReportFrame(count, elapsed) per period to the sink.
type Batch struct {
	inner  Source
	period time.Duration
	now    func() time.Time

	frames atomic.Int64
	last   time.Time
	w      worker
}

// NewBatch wraps inner, reporting every period.
func NewBatch(inner Source, period time.Duration) *Batch {
	if period <= 0 {
		period = time.Second
	}
	return &Batch{inner: inner, period: period, now: time.Now}
}

func (b *Batch) Name() string { return "batch/" + b.inner.Name() }

// MarkFrameBoundary counts one frame of the inner source.
func (b *Batch) MarkFrameBoundary() { b.frames.Add(1) }

// ReportFrame folds a nested batch into the running count.
func (b *Batch) ReportFrame(frameCount int, _ float64) {
	if frameCount > 0 {
		b.frames.Add(int64(frameCount))
	}
}

func (b *Batch) Start(ctx context.Context, sink Sink) error {
	b.frames.Store(0)
	b.last = b.now()
	if err := b.inner.Start(ctx, b); err != nil {
		return err
	}
	err := b.w.start(ctx, func(ctx context.Context) {
		tk := time.NewTicker(b.period)
		defer tk.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
				b.flush(sink)
			}
		}
	})
	if err != nil {
		b.inner.Stop()
	}
	return err
}

func (b *Batch) Stop() {
	b.w.stop()
	b.inner.Stop()
}

// flush reports the frames counted since the previous flush.
func (b *Batch) flush(sink Sink) {
	n := b.frames.Swap(0)
	now := b.now()
	elapsed := now.Sub(b.last)
	b.last = now
	sink.ReportFrame(int(n), float64(elapsed)/float64(time.Millisecond))
}
