package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/KennethOlivas/zen-draw-sub000/element"
	"github.com/KennethOlivas/zen-draw-sub000/geometry"
	"github.com/KennethOlivas/zen-draw-sub000/rough"
)

// PDF writes a single page sized to the drawing, one point per canvas unit.
func PDF(w io.Writer, elements []*element.Element, opts Options) error {
	items := prepare(elements)
	if len(items) == 0 {
		return ErrEmpty
	}
	f := frame(items, opts.Padding)

	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: f.Width, Ht: f.Height},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()
	if bg, ok := parseColor(opts.Background); ok {
		r, g, b := bg.RGB255()
		p.SetFillColor(int(r), int(g), int(b))
		p.Rect(0, 0, f.Width, f.Height, "F")
	}

	pg := &pdfPage{pdf: p, origin: geometry.Pt(f.X, f.Y), tr: p.UnicodeTranslatorFromDescriptor("")}
	for _, it := range items {
		pg.draw(it)
	}
	if err := p.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

type pdfPage struct {
	pdf    *gofpdf.Fpdf
	origin geometry.Point
	tr     func(string) string
}

func (pg *pdfPage) at(pt geometry.Point) (float64, float64) {
	return pt.X - pg.origin.X, pt.Y - pg.origin.Y
}

func (pg *pdfPage) draw(it item) {
	p := pg.pdf
	st := it.el.Style
	if st.Rotation != 0 {
		cx, cy := pg.at(element.Bounds(it.el).Center())
		p.TransformBegin()
		p.TransformRotate(-degrees(st.Rotation), cx, cy)
		defer p.TransformEnd()
	}
	p.SetAlpha(st.Opacity, "Normal")
	defer p.SetAlpha(1, "Normal")

	if fill, ok := parseColor(st.FillColor); ok && !it.d.Fill.Empty() {
		r, g, b := fill.RGB255()
		p.SetFillColor(int(r), int(g), int(b))
		pg.trace(it.d.Fill)
		p.DrawPath("F")
	}
	if stroke, ok := strokeColor(st); ok && !it.d.Stroke.Empty() {
		r, g, b := stroke.RGB255()
		p.SetDrawColor(int(r), int(g), int(b))
		p.SetLineWidth(st.StrokeWidth)
		p.SetLineCapStyle("round")
		p.SetLineJoinStyle("round")
		if d := dashes(st); d != nil {
			p.SetDashPattern(d, 0)
		} else {
			p.SetDashPattern([]float64{}, 0)
		}
		pg.trace(it.d.Stroke)
		p.DrawPath("D")
	}

	lines := layoutText(it.el)
	if len(lines) == 0 {
		return
	}
	ink, ok := inkColor(st)
	if !ok {
		return
	}
	t := it.el.Shape.(*element.Text)
	r, g, b := ink.RGB255()
	p.SetTextColor(int(r), int(g), int(b))
	p.SetFont("Courier", "", t.FontSize)
	for _, l := range lines {
		text := pg.tr(l.Text)
		x, y := pg.at(geometry.Pt(l.X, l.Y))
		x -= p.GetStringWidth(text) * l.Anchor
		p.Text(x, y, text)
	}
}

func (pg *pdfPage) trace(path rough.Path) {
	p := pg.pdf
	for _, c := range path.Commands {
		switch c.Op {
		case rough.MoveTo:
			p.MoveTo(pg.at(c.P))
		case rough.LineTo:
			p.LineTo(pg.at(c.P))
		case rough.QuadTo:
			cx, cy := pg.at(c.C)
			x, y := pg.at(c.P)
			p.CurveTo(cx, cy, x, y)
		case rough.Close:
			p.ClosePath()
		}
	}
}
