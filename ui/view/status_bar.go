package view

import (
	"github.com/soocke/fps-meter-go/ui/theme"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

var spinnerGlyphs = []string{"|", "/", "-", "\\"}

// StatusBar shows the meter summary, the last action message and the
// spinner animated by the measured frame loop.
type StatusBar interface {
	SetStatus(text string)
	SetMessage(text string)
	Spin()
}

type statusBar struct {
	statusLbl  *TLabelWidget
	messageLbl *TLabelWidget
	spinnerLbl *TLabelWidget
	spin       int
}

// NewStatusBar grids the spinner at (row, startCol), the status line next to
// it and the message label below the status line.
func NewStatusBar(row, startCol int) StatusBar {
	s := &statusBar{
		spinnerLbl: TLabel(Style(theme.StyleSpinnerLabel), Txt(spinnerGlyphs[0]), Width(2)),
		statusLbl:  TLabel(Style(theme.StyleStatusLabel), Txt("0.00 FPS"), Anchor("w")),
		messageLbl: TLabel(Txt(""), Anchor("w")),
	}
	Grid(s.spinnerLbl, Row(row), Column(startCol), Sticky("w"), Padx("0.4m"))
	Grid(s.statusLbl, Row(row), Column(startCol+1), Sticky("we"), Padx("0.2m"), Pady("0.3m"))
	Grid(s.messageLbl, Row(row+1), Column(startCol+1), Sticky("we"), Padx("0.2m"))
	return s
}

func (s *statusBar) SetStatus(text string) {
	if s == nil || s.statusLbl == nil {
		return
	}
	s.statusLbl.Configure(Txt(text))
}

func (s *statusBar) SetMessage(text string) {
	if s == nil || s.messageLbl == nil {
		return
	}
	s.messageLbl.Configure(Txt(text))
}

// Spin advances the spinner by one glyph.
func (s *statusBar) Spin() {
	if s == nil || s.spinnerLbl == nil {
		return
	}
	s.spin = (s.spin + 1) % len(spinnerGlyphs)
	s.spinnerLbl.Configure(Txt(spinnerGlyphs[s.spin]))
}
