package chart

// Linear maps the domain [D0, D1] onto the range [R0, R1]. Ranges may be
// inverted (R0 > R1), which is how the Y axis puts larger rates higher.
type Linear struct {
	D0, D1 float64
	R0, R1 float64
}

// Map projects v from the domain into the range. A zero-width domain maps
// everything to R0.
func (l Linear) Map(v float64) float64 {
	if l.D1 == l.D0 {
		return l.R0
	}
	return l.R0 + (v-l.D0)*(l.R1-l.R0)/(l.D1-l.D0)
}

// RateSource is the read side of a frame sample buffer used for scaling.
type RateSource interface {
	AverageRate(start, end int64) float64
	CurrentRate(now int64) float64
}

// MaxY picks the top of the Y axis from live data: headroom over the recent
// average rate, else over the whole-history rate, else over the default
// rate, and never below the configured floor.
func MaxY(src RateSource, now int64, opts Options) float64 {
	var maxY float64
	if recent := src.AverageRate(now-opts.Lookback, now); recent >= 1 {
		maxY = recent * opts.Headroom
	} else if overall := src.CurrentRate(now); overall >= 1 {
		maxY = overall * opts.Headroom
	} else {
		maxY = opts.DefaultRate * opts.Headroom
	}
	if maxY < opts.MinMaxY {
		maxY = opts.MinMaxY
	}
	return maxY
}
