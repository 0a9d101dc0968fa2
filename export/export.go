// Package export writes drawings to SVG, PNG and PDF, and rasterises small
// PNG thumbnails. Every format paints the strokes produced by package rough
// for the bound-resolved scene, so exports match what the editor shows.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/flanksource/commons/logger"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/KennethOlivas/zen-draw-sub000/element"
	"github.com/KennethOlivas/zen-draw-sub000/geometry"
	"github.com/KennethOlivas/zen-draw-sub000/rough"
	"github.com/KennethOlivas/zen-draw-sub000/scene"
)

var log = logger.GetLogger("export")

const (
	DefaultPadding = 20.0
	flattenSteps   = 8
	ascentRatio    = 0.8
)

var ErrEmpty = errors.New("nothing to export")

type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// FormatFromPath picks the export format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))); f {
	case FormatSVG, FormatPNG, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", filepath.Ext(path))
	}
}

type Options struct {
	// Padding is added around the drawing on every side, in canvas units.
	Padding float64
	// Background fills the page; empty or "transparent" leaves it clear.
	Background string
	// Scale multiplies the raster size of PNG output.
	Scale float64
}

func DefaultOptions() Options {
	return Options{Padding: DefaultPadding, Background: "#ffffff", Scale: 1}
}

func (o Options) scale() float64 {
	if o.Scale <= 0 || !geometry.Finite(o.Scale) {
		return 1
	}
	return o.Scale
}

// Write renders elements to w in the given format.
func Write(w io.Writer, format Format, elements []*element.Element, opts Options) error {
	switch format {
	case FormatSVG:
		return SVG(w, elements, opts)
	case FormatPNG:
		return PNG(w, elements, opts)
	case FormatPDF:
		return PDF(w, elements, opts)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteFile exports to path, choosing the format from its extension.
func WriteFile(path string, elements []*element.Element, opts Options) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Write(f, format, elements, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Infof("exported %d elements to %s", len(elements), path)
	return nil
}

// item is one element ready to paint: resolved geometry plus its strokes.
type item struct {
	el *element.Element
	d  rough.Drawable
}

func prepare(elements []*element.Element) []item {
	s := scene.New(elements...)
	items := make([]item, 0, len(elements))
	for _, e := range s.Resolved() {
		items = append(items, item{el: e, d: rough.Render(e)})
	}
	return items
}

// frame is the padded canvas region covering every item.
func frame(items []item, padding float64) geometry.Rect {
	var out geometry.Rect
	for i, it := range items {
		b := itemBounds(it)
		if i == 0 {
			out = b
		} else {
			out = out.Union(b)
		}
	}
	if padding < 0 {
		padding = 0
	}
	return out.Inflate(padding)
}

func itemBounds(it item) geometry.Rect {
	var pts []geometry.Point
	for _, line := range it.d.Stroke.Flatten(flattenSteps) {
		pts = append(pts, line...)
	}
	b := element.Bounds(it.el)
	if len(pts) > 0 {
		b = geometry.RectFromPoints(pts)
	}
	if r := it.el.Style.Rotation; r != 0 {
		c := element.Bounds(it.el).Center()
		b = geometry.RectFromPoints([]geometry.Point{
			rotateAbout(geometry.Pt(b.X, b.Y), c, r),
			rotateAbout(geometry.Pt(b.MaxX(), b.Y), c, r),
			rotateAbout(geometry.Pt(b.MaxX(), b.MaxY()), c, r),
			rotateAbout(geometry.Pt(b.X, b.MaxY()), c, r),
		})
	}
	return b.Inflate(it.el.Style.StrokeWidth / 2)
}

func rotateAbout(p, c geometry.Point, angle float64) geometry.Point {
	sin, cos := math.Sincos(angle)
	d := p.Sub(c)
	return geometry.Pt(c.X+d.X*cos-d.Y*sin, c.Y+d.X*sin+d.Y*cos)
}

// parseColor reads a hex color. Transparent, empty and unparseable values
// report false and are not painted.
func parseColor(s string) (colorful.Color, bool) {
	if s == "" || s == element.Transparent {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex(s)
	if err != nil {
		log.Debugf("ignoring color %q: %v", s, err)
		return colorful.Color{}, false
	}
	return c, true
}

// inkColor is the stroke color, falling back to black when it cannot be
// parsed.
func inkColor(s element.Style) (colorful.Color, bool) {
	if s.StrokeColor == element.Transparent {
		return colorful.Color{}, false
	}
	c, ok := parseColor(s.StrokeColor)
	if !ok {
		return colorful.Color{}, true
	}
	return c, true
}

func strokeColor(s element.Style) (colorful.Color, bool) {
	if s.StrokeWidth <= 0 {
		return colorful.Color{}, false
	}
	return inkColor(s)
}

func nrgba(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(geometry.Clamp(alpha, 0, 1) * 255))}
}

// dashes is the on/off pattern for a stroke style; nil means solid.
func dashes(s element.Style) []float64 {
	switch s.StrokeStyle {
	case element.StrokeDashed:
		return []float64{8, 8 + s.StrokeWidth}
	case element.StrokeDotted:
		return []float64{1.5, 6 + s.StrokeWidth}
	default:
		return nil
	}
}

// textLine is one laid out line of a text element. Y is the baseline and
// Anchor the horizontal alignment: 0 left, 0.5 center, 1 right.
type textLine struct {
	Text   string
	X, Y   float64
	Anchor float64
}

func layoutText(e *element.Element) []textLine {
	t, ok := e.Shape.(*element.Text)
	if !ok || t.Content == "" {
		return nil
	}
	b := element.Bounds(e)
	x, anchor := b.X, 0.0
	switch e.Style.TextAlign {
	case element.AlignCenter:
		x, anchor = b.X+b.Width/2, 0.5
	case element.AlignRight:
		x, anchor = b.MaxX(), 1
	}
	lh := element.LineHeight(t.FontSize)
	var out []textLine
	for i, line := range strings.Split(t.Content, "\n") {
		out = append(out, textLine{
			Text:   line,
			X:      x,
			Y:      b.Y + float64(i)*lh + t.FontSize*ascentRatio,
			Anchor: anchor,
		})
	}
	return out
}

func fnum(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
