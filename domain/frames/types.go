package frames

// Sample is one measured frame: the wall-clock millisecond at which the frame
// ended and how long it took. Samples are values and never mutated.
type Sample struct {
	Timestamp int64   // milliseconds since the Unix epoch
	Duration  float64 // milliseconds
}

// Rate returns the instantaneous frame rate of the sample. ok is false for a
// zero duration, which has no finite rate.
func (s Sample) Rate() (rate float64, ok bool) {
	if s.Duration <= 0 {
		return 0, false
	}
	return 1000 / s.Duration, true
}

// State enumerates the boundary-timing states of a Buffer.
type State int

const (
	StateIdle State = iota
	StateTiming
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTiming:
		return "timing"
	default:
		return "unknown"
	}
}

// DefaultCap is the sample capacity used when a Buffer is built with a
// non-positive cap.
const DefaultCap = 1000
