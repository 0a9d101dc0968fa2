package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/KennethOlivas/zen-draw-sub000/element"
)

// errWriter keeps the first write error; svgo discards them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// SVG writes a standalone SVG document. Paths keep canvas coordinates inside
// a group translated to the padded frame.
func SVG(w io.Writer, elements []*element.Element, opts Options) error {
	items := prepare(elements)
	if len(items) == 0 {
		return ErrEmpty
	}
	f := frame(items, opts.Padding)
	width, height := int(math.Ceil(f.Width)), int(math.Ceil(f.Height))

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, height, fmt.Sprintf(`viewBox="0 0 %d %d"`, width, height))
	if bg, ok := parseColor(opts.Background); ok {
		canvas.Rect(0, 0, width, height, "fill:"+bg.Hex())
	}
	canvas.Gtransform(fmt.Sprintf("translate(%s,%s)", fnum(-f.X), fnum(-f.Y)))
	for _, it := range items {
		svgItem(canvas, it)
	}
	canvas.Gend()
	canvas.End()
	if ew.err != nil {
		return fmt.Errorf("failed to write svg: %w", ew.err)
	}
	return nil
}

func svgItem(canvas *svg.SVG, it item) {
	st := it.el.Style
	if st.Rotation != 0 {
		c := element.Bounds(it.el).Center()
		canvas.Gtransform(fmt.Sprintf("rotate(%s %s %s)", fnum(degrees(st.Rotation)), fnum(c.X), fnum(c.Y)))
		defer canvas.Gend()
	}
	opacity := "opacity:" + fnum(st.Opacity)

	if fill, ok := parseColor(st.FillColor); ok && !it.d.Fill.Empty() {
		canvas.Path(it.d.Fill.String(), "fill:"+fill.Hex()+";stroke:none;"+opacity)
	}
	if stroke, ok := strokeColor(st); ok && !it.d.Stroke.Empty() {
		style := []string{
			"fill:none",
			"stroke:" + stroke.Hex(),
			"stroke-width:" + fnum(st.StrokeWidth),
			"stroke-linecap:round",
			"stroke-linejoin:round",
			opacity,
		}
		if d := dashes(st); d != nil {
			style = append(style, "stroke-dasharray:"+fnum(d[0])+","+fnum(d[1]))
		}
		canvas.Path(it.d.Stroke.String(), strings.Join(style, ";"))
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
	for _, l := range lines {
		anchor := "start"
		switch l.Anchor {
		case 0.5:
			anchor = "middle"
		case 1:
			anchor = "end"
		}
		canvas.Gtransform(fmt.Sprintf("translate(%s,%s)", fnum(l.X), fnum(l.Y)))
		canvas.Text(0, 0, l.Text, fmt.Sprintf(
			"font-family:monospace;font-size:%spx;fill:%s;text-anchor:%s;white-space:pre;%s",
			fnum(t.FontSize), ink.Hex(), anchor, opacity))
		canvas.Gend()
	}
}
