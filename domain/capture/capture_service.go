package capture

import (
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const captureStatsLogInterval = 5 * time.Second

type captureService struct {
	running      atomic.Bool
	latest       atomic.Pointer[FrameSnapshot]
	grab         Grabber
	logger       *slog.Logger
	captures     atomic.Uint64
	skipped      atomic.Uint64
	captureNanos atomic.Uint64
	sequence     atomic.Uint64

	lifecycle sync.Mutex // serialises Start

	mu       sync.Mutex
	region   image.Rectangle
	listener FrameListener
	done     chan struct{} // closed when the current loop exits
}

// NewCaptureService constructs a capture service grabbing region with grab.
// A nil grab uses the screenshot-backed Grab.
func NewCaptureService(logger *slog.Logger, grab Grabber, region image.Rectangle) Service {
	if grab == nil {
		grab = Grab
	}
	return &captureService{grab: grab, logger: logger, region: region}
}

func (s *captureService) SetRegion(r image.Rectangle) {
	s.mu.Lock()
	s.region = r
	s.mu.Unlock()
}

func (s *captureService) SetFrameListener(fn FrameListener) {
	s.mu.Lock()
	s.listener = fn
	s.mu.Unlock()
}

func (s *captureService) LatestFrame() FrameSnapshot {
	snap := s.latest.Load()
	if snap == nil {
		return FrameSnapshot{}
	}
	return *snap
}

func (s *captureService) Running() bool { return s.running.Load() }

func (s *captureService) Stats() Stats {
	captures := s.captures.Load()
	total := s.captureNanos.Load()
	var avg time.Duration
	if captures > 0 && total > 0 {
		avg = time.Duration(total / captures)
	}
	snapshot := s.LatestFrame()
	age := time.Duration(0)
	if !snapshot.CapturedAt.IsZero() {
		age = time.Since(snapshot.CapturedAt)
	}
	s.mu.Lock()
	region := s.region
	s.mu.Unlock()
	return Stats{
		Captures:       captures,
		Skipped:        s.skipped.Load(),
		AvgCapture:     avg,
		LastCapture:    snapshot.CapturedAt,
		LatestFrameAge: age,
		Sequence:       snapshot.Sequence,
		Region:         region,
	}
}

// Start launches the capture goroutine. Idempotent.
func (s *captureService) Start() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	if s.running.Load() {
		return
	}
	s.mu.Lock()
	prev := s.done
	s.mu.Unlock()
	// a loop told to stop may still be finishing its last grab
	if prev != nil {
		<-prev
	}
	done := make(chan struct{})
	s.mu.Lock()
	s.done = done
	s.mu.Unlock()
	s.running.Store(true)
	go func() {
		defer close(done)
		s.loop()
	}()
}

// Stop ends the capture loop and waits for the in-flight grab to finish, so
// no listener call happens after Stop returns. Every caller waits, including
// concurrent ones. Idempotent.
func (s *captureService) Stop() {
	s.running.Store(false)
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (s *captureService) loop() {
	logTicker := time.NewTicker(captureStatsLogInterval)
	defer logTicker.Stop()
	for s.running.Load() {
		s.mu.Lock()
		region, listener := s.region, s.listener
		s.mu.Unlock()

		start := time.Now()
		img, err := s.grab(region)
		if err != nil || img == nil {
			if err != nil && s.logger != nil {
				s.logger.Error("capture grab", "error", err)
			}
			s.skipped.Add(1)
			time.Sleep(1 * time.Millisecond)
			continue
		}

		frame := copyFrame(img)
		elapsed := time.Since(start)
		s.captureNanos.Add(uint64(elapsed.Nanoseconds()))
		s.captures.Add(1)
		seq := s.sequence.Add(1)
		snap := &FrameSnapshot{Image: frame, CapturedAt: time.Now(), Sequence: seq}
		if prev := s.latest.Swap(snap); prev != nil {
			recycleFrame(prev.Image)
		}
		if listener != nil {
			listener(*snap)
		}

		select {
		case <-logTicker.C:
			s.logStats()
		default:
		}
	}
}

func (s *captureService) logStats() {
	if s.logger == nil {
		return
	}
	stats := s.Stats()
	s.logger.Debug("capture.stats",
		"captures", stats.Captures,
		"skipped", stats.Skipped,
		"avg_capture", stats.AvgCapture,
		"age", stats.LatestFrameAge,
	)
}
