package export

import (
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/KennethOlivas/zen-draw-sub000/element"
	"github.com/KennethOlivas/zen-draw-sub000/rough"
)

var monoFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(gomono.TTF)
})

// faces caches one font face per pixel size for a single export.
type faces struct {
	font  *truetype.Font
	sizes map[float64]font.Face
}

func (f *faces) get(size float64) font.Face {
	if face, ok := f.sizes[size]; ok {
		return face
	}
	face := truetype.NewFace(f.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	f.sizes[size] = face
	return face
}

// MaxPNGSide bounds both sides of a PNG export. Larger drawings are scaled down.
const MaxPNGSide = 8192

// PNG rasterises the drawing. Opts.Scale multiplies the pixel size.
func PNG(w io.Writer, elements []*element.Element, opts Options) error {
	items := prepare(elements)
	if len(items) == 0 {
		return ErrEmpty
	}
	ttf, err := monoFont()
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}

	scale := opts.scale()
	f := frame(items, opts.Padding)
	if side := math.Max(f.Width, f.Height) * scale; side > MaxPNGSide {
		log.Warnf("png side of %.0fpx exceeds %dpx, scaling down", side, MaxPNGSide)
		scale *= MaxPNGSide / side
	}
	width := min(MaxPNGSide, max(1, int(math.Ceil(f.Width*scale))))
	height := min(MaxPNGSide, max(1, int(math.Ceil(f.Height*scale))))

	dc := gg.NewContext(width, height)
	if bg, ok := parseColor(opts.Background); ok {
		dc.SetColor(nrgba(bg, 1))
		dc.Clear()
	}
	dc.Scale(scale, scale)
	dc.Translate(-f.X, -f.Y)

	ff := &faces{font: ttf, sizes: map[float64]font.Face{}}
	for _, it := range items {
		drawPNG(dc, it, scale, ff)
	}
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

func drawPNG(dc *gg.Context, it item, scale float64, ff *faces) {
	st := it.el.Style
	dc.Push()
	defer dc.Pop()
	if st.Rotation != 0 {
		c := element.Bounds(it.el).Center()
		dc.RotateAbout(st.Rotation, c.X, c.Y)
	}

	if fill, ok := parseColor(st.FillColor); ok && !it.d.Fill.Empty() {
		tracePath(dc, it.d.Fill)
		dc.SetColor(nrgba(fill, st.Opacity))
		dc.Fill()
	}
	if stroke, ok := strokeColor(st); ok && !it.d.Stroke.Empty() {
		tracePath(dc, it.d.Stroke)
		dc.SetColor(nrgba(stroke, st.Opacity))
		// gg strokes in device space, so widths and dashes take the scale.
		dc.SetLineWidth(st.StrokeWidth * scale)
		d := dashes(st)
		for i := range d {
			d[i] *= scale
		}
		dc.SetDash(d...)
		dc.SetLineCap(gg.LineCapRound)
		dc.SetLineJoin(gg.LineJoinRound)
		dc.Stroke()
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
	dc.SetFontFace(ff.get(t.FontSize * scale))
	dc.SetColor(nrgba(ink, st.Opacity))
	for _, l := range lines {
		dc.DrawStringAnchored(l.Text, l.X, l.Y, l.Anchor, 0)
	}
}

func tracePath(dc *gg.Context, p rough.Path) {
	dc.NewSubPath()
	for _, c := range p.Commands {
		switch c.Op {
		case rough.MoveTo:
			dc.MoveTo(c.P.X, c.P.Y)
		case rough.LineTo:
			dc.LineTo(c.P.X, c.P.Y)
		case rough.QuadTo:
			dc.QuadraticTo(c.C.X, c.C.Y, c.P.X, c.P.Y)
		case rough.Close:
			dc.ClosePath()
		}
	}
}
