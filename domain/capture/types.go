package capture

import (
	"image"
	"time"
)

// FrameSnapshot carries the latest captured frame and metadata.
// Image is backed by a pooled buffer and is only valid until the next capture.
type FrameSnapshot struct {
	Image      *image.RGBA
	CapturedAt time.Time
	Sequence   uint64
}

// FrameListener is notified after every successful capture, on the capture goroutine.
type FrameListener func(FrameSnapshot)

// Service acquires screen frames in a loop and exposes the latest capture
// alongside instrumentation data.
type Service interface {
	Start()
	Stop()
	Running() bool
	LatestFrame() FrameSnapshot
	SetRegion(image.Rectangle)
	SetFrameListener(FrameListener)
	Stats() Stats
}
