package frames

import (
	"math"
	"sort"
)

// Buffer is a bounded, timestamp-ordered series of frame samples backed by a
// ring. Appends past the cap evict the oldest sample; Prune releases samples
// that scrolled out of the visible window. Callers must append samples in
// non-decreasing timestamp order: queries rely on it and never sort.
//
// A Buffer is not safe for concurrent use. The zero value is not usable; use
// NewBuffer.
type Buffer struct {
	ring []Sample
	head int
	size int

	state         State
	intervalStart int64
	dropped       uint64
}

// NewBuffer returns an empty buffer holding at most capacity samples.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	return &Buffer{ring: make([]Sample, capacity)}
}

// Len reports the number of retained samples.
func (b *Buffer) Len() int { return b.size }

// Cap reports the maximum number of retained samples.
func (b *Buffer) Cap() int { return len(b.ring) }

// State reports whether a boundary-timed interval is currently open.
func (b *Buffer) State() State { return b.state }

// Dropped reports how many malformed samples were rejected since the last Reset.
func (b *Buffer) Dropped() uint64 { return b.dropped }

// Reset clears all samples and closes any open interval.
func (b *Buffer) Reset() {
	b.head = 0
	b.size = 0
	b.state = StateIdle
	b.intervalStart = 0
	b.dropped = 0
}

// Append adds a sample at the tail. Negative, NaN and infinite durations are
// dropped and Append reports false.
func (b *Buffer) Append(timestamp int64, duration float64) bool {
	if duration < 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		b.dropped++
		return false
	}
	if b.size == len(b.ring) {
		b.head = (b.head + 1) % len(b.ring)
		b.size--
	}
	b.ring[(b.head+b.size)%len(b.ring)] = Sample{Timestamp: timestamp, Duration: duration}
	b.size++
	return true
}

// MarkFrameBoundary ends the open interval, if any, recording its length as a
// sample at now, and starts the next interval at now.
func (b *Buffer) MarkFrameBoundary(now int64) {
	if b.state == StateTiming {
		b.Append(now, float64(now-b.intervalStart))
	}
	b.intervalStart = now
	b.state = StateTiming
}

// EndFrames closes the open interval without recording it, so an idle gap
// before the next MarkFrameBoundary is not counted as a frame.
func (b *Buffer) EndFrames() {
	b.state = StateIdle
}

// ReportFrame records a batch measurement: frameCount frames rendered over
// elapsedMs. The batch becomes one sample at now carrying the mean frame
// duration. Batches with no frames are ignored; a dropped batch leaves the
// timing state as it was.
func (b *Buffer) ReportFrame(frameCount int, elapsedMs float64, now int64) {
	if frameCount <= 0 {
		return
	}
	if !b.Append(now, elapsedMs/float64(frameCount)) {
		return
	}
	b.intervalStart = now
	b.state = StateTiming
}

// AverageRate returns 1000 divided by the mean duration of the samples with
// start < Timestamp <= end. It returns 0 when no sample qualifies or the mean
// duration is zero.
func (b *Buffer) AverageRate(start, end int64) float64 {
	if b.size == 0 || start >= end {
		return 0
	}
	i := sort.Search(b.size, func(i int) bool { return b.at(i).Timestamp > start })
	var sum float64
	count := 0
	for ; i < b.size; i++ {
		s := b.at(i)
		if s.Timestamp > end {
			break
		}
		sum += s.Duration
		count++
	}
	if count == 0 || sum <= 0 {
		return 0
	}
	return 1000 / (sum / float64(count))
}

// CurrentRate averages over the whole retained history up to now.
func (b *Buffer) CurrentRate(now int64) float64 {
	return b.AverageRate(0, now)
}

// Prune drops samples from the head while Timestamp <= windowStart and
// returns how many were removed.
func (b *Buffer) Prune(windowStart int64) int {
	removed := 0
	for b.size > 0 && b.ring[b.head].Timestamp <= windowStart {
		b.head = (b.head + 1) % len(b.ring)
		b.size--
		removed++
	}
	if b.size == 0 {
		b.head = 0
	}
	return removed
}

// Each calls fn for every sample, oldest first, until fn returns false.
func (b *Buffer) Each(fn func(Sample) bool) {
	for i := 0; i < b.size; i++ {
		if !fn(b.at(i)) {
			return
		}
	}
}

// Samples returns a copy of the retained samples, oldest first.
func (b *Buffer) Samples() []Sample {
	if b.size == 0 {
		return nil
	}
	out := make([]Sample, b.size)
	for i := range out {
		out[i] = b.at(i)
	}
	return out
}

func (b *Buffer) at(i int) Sample {
	return b.ring[(b.head+i)%len(b.ring)]
}
