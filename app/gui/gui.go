// Package gui is the Tk front end: a window with the live strip chart, a
// status line and the meter controls.
package gui

import (
	"context"
	"fmt"
	"time"

	"github.com/soocke/fps-meter-go/app"
	"github.com/soocke/fps-meter-go/debug"
	"github.com/soocke/fps-meter-go/ui/presenter"
	"github.com/soocke/fps-meter-go/ui/theme"
	"github.com/soocke/fps-meter-go/ui/view"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

type gui struct {
	c       *app.Container
	ctx     context.Context
	cancel  context.CancelFunc
	root    *view.RootView
	loop    *presenter.Loop
	control *presenter.ControlPresenter
	afterID string
	anim    *animation
}

// New prepares the window for c. The animation source is registered on the
// container so Config.Source "animation" resolves to it.
func New(ctx context.Context, title string, c *app.Container) *gui {
	g := &gui{c: c}
	g.ctx, g.cancel = context.WithCancel(ctx)
	g.root = view.NewRootView(c.Config, c.Logger)
	g.anim = newAnimation(g.root.Spin)
	c.Animation = g.anim

	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", g.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", min(c.Config.ChartWidth, 1600)+16, c.Config.ChartHeight+110))
	return g
}

// Run builds the widgets, starts measuring and blocks in the Tk event loop
// until the window closes.
func (g *gui) Run() {
	theme.InitStyles()
	g.root.Build(g.toggle, g.reset, g.export, g.exitHandler)

	chartP := presenter.NewChartPresenter(g.c.Meter, g.c.Canvas, g.root)
	statusP := presenter.NewStatusPresenter(g.c.Run, g.c.Meter, g.root)
	g.control = presenter.NewControlPresenter(g.ctx, g.c.Meter, g.c.NewSource, g.c.Export, g.root, g.c.Logger)
	g.loop = presenter.NewLoop(chartP, statusP, g.scheduleRedraw)

	if g.c.Config.Debug && g.c.Logger != nil {
		debug.Start(g.ctx, 2*time.Second, g.c.Logger, g.c.Meter)
	}

	g.control.Enable()
	g.loop.Tick()
	App.Wait()
}

func (g *gui) toggle() { g.control.Toggle() }

func (g *gui) reset() {
	g.control.Reset()
	g.root.ResetChart()
}

func (g *gui) export() { g.control.Export() }

func (g *gui) scheduleRedraw() {
	// TclAfter keeps redraws on Tk's event loop thread.
	g.afterID = TclAfter(g.c.Config.RedrawInterval(), g.loop.Tick)
}

func (g *gui) exitHandler() {
	if g.afterID != "" {
		TclAfterCancel(g.afterID)
	}
	g.c.Meter.Stop()
	g.cancel()
	Destroy(App)
}
