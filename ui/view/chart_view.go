package view

import (
	"image"

	"github.com/soocke/fps-meter-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ChartView shows the rendered strip chart in a photo label.
type ChartView interface {
	UpdateChart(img image.Image)
	Reset()
}

type chartView struct {
	label     *LabelWidget
	width     int
	height    int
	maxWidth  int
	prevPhoto *Img // disposed before each replacement
}

// NewChartView creates the chart label spanning all columns of row.
// maxWidth bounds the displayed width; wider charts are scaled down.
func NewChartView(row, columns, width, height, maxWidth int) ChartView {
	v := &chartView{width: width, height: height, maxWidth: maxWidth}
	v.prevPhoto = NewPhoto(Data(v.placeholder()))
	v.label = Label(Image(v.prevPhoto), Borderwidth(1), Relief("sunken"))
	Grid(v.label, Row(row), Column(0), Columnspan(columns), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	return v
}

func (v *chartView) placeholder() []byte {
	w, h := v.width, v.height
	if v.maxWidth > 0 && w > v.maxWidth {
		h = max(h*v.maxWidth/w, 1)
		w = v.maxWidth
	}
	return images.EncodePNG(image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1))))
}

func (v *chartView) show(png []byte) {
	if v.prevPhoto != nil {
		v.prevPhoto.Delete()
	}
	v.prevPhoto = NewPhoto(Data(png))
	v.label.Configure(Image(v.prevPhoto))
}

func (v *chartView) UpdateChart(img image.Image) {
	if v == nil || v.label == nil || img == nil {
		return
	}
	if v.maxWidth > 0 {
		img = images.ScaleToFit(img, v.maxWidth, img.Bounds().Dy())
	}
	v.show(images.EncodePNG(img))
}

func (v *chartView) Reset() {
	if v == nil || v.label == nil {
		return
	}
	v.show(v.placeholder())
}
