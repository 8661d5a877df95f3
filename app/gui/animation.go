package gui

import (
	"context"
	"time"

	"github.com/soocke/fps-meter-go/domain/source"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// animationPeriod asks Tk for a callback roughly every display refresh.
const animationPeriod = 16 * time.Millisecond

// animation is the frame source measured in the GUI: a TclAfter callback
// that advances the spinner and marks a frame boundary each time the Tk
// event loop gets to it. A busy event loop shows up as a lower rate.
// All methods run on the Tk thread.
type animation struct {
	spin    func()
	sink    source.Sink
	afterID string
}

func newAnimation(spin func()) *animation { return &animation{spin: spin} }

func (a *animation) Name() string { return "animation" }

func (a *animation) Start(_ context.Context, sink source.Sink) error {
	if a.sink != nil {
		return source.ErrRunning
	}
	a.sink = sink
	a.frame()
	return nil
}

func (a *animation) frame() {
	if a.sink == nil {
		return
	}
	if a.spin != nil {
		a.spin()
	}
	a.sink.MarkFrameBoundary()
	a.afterID = TclAfter(animationPeriod, a.frame)
}

func (a *animation) Stop() {
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
		a.afterID = ""
	}
	a.sink = nil
}
