package capture

import (
	"image"
	"time"
)

// Stats summarises capture loop behaviour for instrumentation.
type Stats struct {
	Captures       uint64
	Skipped        uint64
	AvgCapture     time.Duration
	LastCapture    time.Time
	LatestFrameAge time.Duration
	Sequence       uint64
	Region         image.Rectangle
}

// CapturesPerSecond derives the mean capture throughput from the average grab time.
func (s Stats) CapturesPerSecond() float64 {
	if s.AvgCapture <= 0 {
		return 0
	}
	return float64(time.Second) / float64(s.AvgCapture)
}
