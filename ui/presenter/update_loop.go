package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It calls Tick on the sub-presenters and invokes a scheduler callback. The
// zero value is usable (methods are nil-safe).
type Loop struct {
	Chart    *ChartPresenter
	Status   *StatusPresenter
	Schedule func()
	Now      func() time.Time
}

func NewLoop(chart *ChartPresenter, status *StatusPresenter, schedule func()) *Loop {
	return &Loop{Chart: chart, Status: status, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.Now != nil {
		now = l.Now()
	}
	if l.Chart != nil {
		l.Chart.Tick(now)
	}
	if l.Status != nil {
		l.Status.Tick(now)
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
