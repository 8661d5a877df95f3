package presenter

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/soocke/fps-meter-go/domain/meter"
	"github.com/soocke/fps-meter-go/ui/model"
)

// StatsProvider exposes meter statistics.
type StatsProvider interface {
	Stats() meter.Stats
}

// StatusView displays a one-line meter summary.
type StatusView interface {
	SetStatus(text string)
}

// StatusPresenter formats meter statistics and run durations for the view.
type StatusPresenter struct {
	run   *model.RunModel
	meter StatsProvider
	view  StatusView
}

// NewStatusPresenter returns a new StatusPresenter.
func NewStatusPresenter(run *model.RunModel, meter StatsProvider, view StatusView) *StatusPresenter {
	return &StatusPresenter{run: run, meter: meter, view: view}
}

// Tick advances the run model and pushes a fresh status line to the view.
func (p *StatusPresenter) Tick(now time.Time) {
	if p == nil || p.run == nil || p.meter == nil || p.view == nil {
		return
	}
	st := p.meter.Stats()
	p.run.OnTick(st.Running, now)
	run, total := p.run.Values()
	p.view.SetStatus(FormatStatus(st, run, total))
}

// FormatStatus renders st and the run durations as a single line.
func FormatStatus(st meter.Stats, run, total time.Duration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%.2f FPS (recent %.2f)", st.Rate, st.RecentRate)
	fmt.Fprintf(&b, " | %s/%s samples", humanize.Comma(int64(st.Samples)), humanize.Comma(int64(st.Cap)))
	if st.Dropped > 0 {
		fmt.Fprintf(&b, " | %s dropped", humanize.Comma(int64(st.Dropped)))
	}
	fmt.Fprintf(&b, " | run %s | total %s", clock(run), clock(total))
	if st.Running {
		fmt.Fprintf(&b, " | %s", st.Source)
		if !st.Started.IsZero() {
			fmt.Fprintf(&b, " since %s", humanize.Time(st.Started))
		}
	} else {
		b.WriteString(" | stopped")
	}
	return b.String()
}

func clock(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
