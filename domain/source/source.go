package source

import (
	"context"
	"errors"
	"sync"
)

// ErrRunning is returned by Start on a source that is already running.
var ErrRunning = errors.New("source: already running")

// Sink receives frame measurements. MarkFrameBoundary reports one rendered
// frame as it happens; ReportFrame reports a batch measured elsewhere.
type Sink interface {
	MarkFrameBoundary()
	ReportFrame(frameCount int, elapsedMs float64)
}

// Source is a capability provider producing frame events. Start must not
// block; events are delivered to sink until ctx is done or Stop is called.
type Source interface {
	Name() string
	Start(ctx context.Context, sink Sink) error
	Stop()
}

// worker runs one background goroutine at a time and joins it on stop.
type worker struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func (w *worker) start(ctx context.Context, run func(ctx context.Context)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return ErrRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	w.cancel, w.done = cancel, done
	go func() {
		defer close(done)
		run(ctx)
	}()
	return nil
}

func (w *worker) stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (w *worker) running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cancel != nil
}
