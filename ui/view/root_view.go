package view

import (
	"image"
	"log/slog"

	"github.com/soocke/fps-meter-go/config"
	"github.com/soocke/fps-meter-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// maxChartWidth keeps the window on common screens; wider charts are scaled.
const maxChartWidth = 1600

// RootView composes the top-level application layout and wires UI callbacks.
// It owns the subviews and satisfies the presenter view contracts.
type RootView struct {
	cfg    *config.Config
	logger *slog.Logger

	// Subviews
	Status StatusBar
	Chart  ChartView

	// Widgets
	ToggleButton *TButtonWidget
}

// UI is the subset of view operations used by presenters.
type UI interface {
	UpdateChart(img image.Image)
	SetStatus(text string)
	SetRunning(running bool)
	ShowMessage(text string)
}

var _ UI = (*RootView)(nil)

func NewRootView(cfg *config.Config, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, logger: logger}
}

// Build constructs the layout. Handlers are invoked on user actions.
func (rv *RootView) Build(onToggle, onReset, onExport, onExit func()) {
	if rv == nil {
		return
	}
	// Row 0-1: spinner, status and message; buttons on the right
	rv.Status = NewStatusBar(0, 0)

	btnFrame := Frame()
	Grid(btnFrame, Row(0), Column(2), Rowspan(2), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))
	rv.ToggleButton = TButton(Style(theme.StylePrimaryButton), Txt("Start"), Command(onToggle))
	Grid(rv.ToggleButton, In(btnFrame), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	resetBtn := TButton(Txt("Reset"), Command(onReset))
	Grid(resetBtn, In(btnFrame), Row(0), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	exportBtn := TButton(Txt("Export"), Command(onExport))
	Grid(exportBtn, In(btnFrame), Row(0), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	exitBtn := TButton(Style(theme.StyleDangerButton), Txt("Exit"), Command(onExit))
	Grid(exitBtn, In(btnFrame), Row(0), Column(3), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	GridColumnConfigure(App, 1, Weight(1))

	// Row 2: chart
	rv.Chart = NewChartView(2, 3, rv.cfg.ChartWidth, rv.cfg.ChartHeight, maxChartWidth)
}

// UpdateChart proxies to the chart view.
func (rv *RootView) UpdateChart(img image.Image) {
	if rv != nil && rv.Chart != nil {
		rv.Chart.UpdateChart(img)
	}
}

// SetStatus updates the summary line.
func (rv *RootView) SetStatus(text string) {
	if rv != nil && rv.Status != nil {
		rv.Status.SetStatus(text)
	}
}

// ShowMessage shows the outcome of the last user action.
func (rv *RootView) ShowMessage(text string) {
	if rv == nil {
		return
	}
	if rv.Status != nil {
		rv.Status.SetMessage(text)
	}
	if rv.logger != nil {
		rv.logger.Debug("ui message", "text", text)
	}
}

// SetRunning flips the toggle button caption.
func (rv *RootView) SetRunning(running bool) {
	if rv == nil || rv.ToggleButton == nil {
		return
	}
	if running {
		rv.ToggleButton.Configure(Txt("Stop"), Style(theme.StyleDangerButton))
		return
	}
	rv.ToggleButton.Configure(Txt("Start"), Style(theme.StylePrimaryButton))
}

// Spin advances the animation spinner.
func (rv *RootView) Spin() {
	if rv != nil && rv.Status != nil {
		rv.Status.Spin()
	}
}

// ResetChart shows an empty chart.
func (rv *RootView) ResetChart() {
	if rv != nil && rv.Chart != nil {
		rv.Chart.Reset()
	}
}
