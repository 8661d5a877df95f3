package presenter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/soocke/fps-meter-go/domain/source"
	"github.com/soocke/fps-meter-go/report"
)

// MeterControl narrows what the presenter needs from the meter.
type MeterControl interface {
	Start(ctx context.Context, src source.Source) error
	Stop()
	Running() bool
	Reset()
}

// SourceFactory builds the frame source for a new run.
type SourceFactory func() (source.Source, error)

// ExportFunc writes the retained history somewhere and returns where.
type ExportFunc func() (string, error)

// ControlView updates UI elements affected by the meter controls.
type ControlView interface {
	SetRunning(running bool)
	ShowMessage(text string)
}

// ControlPresenter owns the Start/Stop, Reset and Export actions.
type ControlPresenter struct {
	ctx       context.Context
	meter     MeterControl
	newSource SourceFactory
	export    ExportFunc
	view      ControlView
	logger    *slog.Logger
}

func NewControlPresenter(ctx context.Context, meter MeterControl, newSource SourceFactory, export ExportFunc, view ControlView, logger *slog.Logger) *ControlPresenter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &ControlPresenter{ctx: ctx, meter: meter, newSource: newSource, export: export, view: view, logger: logger}
}

func (c *ControlPresenter) ready() bool {
	return c != nil && c.meter != nil && c.view != nil
}

// Enable starts a new run with a fresh source. Idempotent.
func (c *ControlPresenter) Enable() {
	if !c.ready() || c.newSource == nil {
		return
	}
	if c.meter.Running() {
		return
	}
	src, err := c.newSource()
	if err == nil {
		err = c.meter.Start(c.ctx, src)
	}
	if err != nil {
		c.fail("start", err)
		c.view.SetRunning(false)
		return
	}
	c.view.SetRunning(true)
	c.view.ShowMessage("measuring " + src.Name())
}

// Disable stops the running source and keeps the history. Idempotent.
func (c *ControlPresenter) Disable() {
	if !c.ready() || !c.meter.Running() {
		return
	}
	c.meter.Stop()
	c.view.SetRunning(false)
	c.view.ShowMessage("stopped")
}

// Toggle flips the running state delegating to Enable/Disable.
func (c *ControlPresenter) Toggle() {
	if !c.ready() {
		return
	}
	if c.meter.Running() {
		c.Disable()
		return
	}
	c.Enable()
}

// Reset clears the history; a running source keeps measuring.
func (c *ControlPresenter) Reset() {
	if !c.ready() {
		return
	}
	c.meter.Reset()
	c.view.ShowMessage("history cleared")
}

// Export writes the history and reports the outcome in the view.
func (c *ControlPresenter) Export() {
	if !c.ready() || c.export == nil {
		return
	}
	path, err := c.export()
	switch {
	case errors.Is(err, report.ErrNoSamples):
		c.view.ShowMessage("nothing to export yet")
	case err != nil:
		c.fail("export", err)
	default:
		c.view.ShowMessage("exported " + path)
		if c.logger != nil {
			c.logger.Info("history exported", "path", path)
		}
	}
}

func (c *ControlPresenter) fail(action string, err error) {
	c.view.ShowMessage(fmt.Sprintf("%s failed: %v", action, err))
	if c.logger != nil {
		c.logger.Error(action+" failed", "error", err)
	}
}
