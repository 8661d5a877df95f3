package source

import (
	"context"
	"sync"

	"github.com/soocke/fps-meter-go/domain/capture"
)

// Capture measures a screen-capture loop: every grabbed frame is one frame
// boundary.
type Capture struct {
	svc capture.Service

	mu   sync.Mutex
	stop context.CancelFunc
}

// NewCapture measures svc.
func NewCapture(svc capture.Service) *Capture {
	return &Capture{svc: svc}
}

func (c *Capture) Name() string { return "capture" }

// Service exposes the measured capture service for stats reporting.
func (c *Capture) Service() capture.Service { return c.svc }

func (c *Capture) Start(ctx context.Context, sink Sink) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		return ErrRunning
	}
	c.svc.SetFrameListener(func(capture.FrameSnapshot) { sink.MarkFrameBoundary() })
	c.svc.Start()
	ctx, cancel := context.WithCancel(ctx)
	c.stop = cancel
	go func() {
		<-ctx.Done()
		c.svc.Stop()
	}()
	return nil
}

func (c *Capture) Stop() {
	c.mu.Lock()
	cancel := c.stop
	c.stop = nil
	c.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	c.svc.Stop()
	c.svc.SetFrameListener(nil)
}
