package model

import (
	"time"
)

// RunModel tracks how long the meter has been measuring: the current run and
// the accumulated time over all runs. It is decoupled from the UI; presenters
// poll Values() and update views. The zero value is ready to use.
type RunModel struct {
	active      bool
	runStart    time.Time
	lastRun     time.Duration
	accumulated time.Duration
	runs        int
}

// NewRunModel returns a pointer to a ready-to-use RunModel.
func NewRunModel() *RunModel { return &RunModel{} }

// OnTick advances the model from the meter running flag at now.
func (m *RunModel) OnTick(running bool, now time.Time) {
	if m == nil {
		return
	}
	if running {
		if !m.active { // stopped -> running
			m.active = true
			m.runStart = now
			m.lastRun = 0
			m.runs++
		}
		m.lastRun = now.Sub(m.runStart)
	} else if m.active { // running -> stopped
		m.lastRun = now.Sub(m.runStart)
		m.accumulated += m.lastRun
		m.active = false
	}
}

// Values returns the current (or last) run duration and the total measured
// time, including the ongoing run.
func (m *RunModel) Values() (run, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	run = m.lastRun
	total = m.accumulated
	if m.active {
		total += run
	}
	return
}

// Runs counts started runs.
func (m *RunModel) Runs() int {
	if m == nil {
		return 0
	}
	return m.runs
}
