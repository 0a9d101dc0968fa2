package export

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pdfreader "github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KennethOlivas/zen-draw-sub000/element"
	"github.com/KennethOlivas/zen-draw-sub000/geometry"
	"github.com/KennethOlivas/zen-draw-sub000/rough"
	"github.com/KennethOlivas/zen-draw-sub000/scene"
)

func rect(id string, x, y, w, h float64) *element.Element {
	style := element.DefaultStyle()
	style.Roughness = 0
	return &element.Element{ID: id, X: x, Y: y, Width: w, Height: h, Seed: 7, Style: style, Shape: &element.Rectangle{}}
}

func text(id, content string) *element.Element {
	w, h := element.MeasureText(content, element.DefaultFontSize)
	return &element.Element{ID: id, Width: w, Height: h, Seed: 7, Style: element.DefaultStyle(),
		Shape: &element.Text{Content: content, FontSize: element.DefaultFontSize}}
}

func svgString(t *testing.T, opts Options, elements ...*element.Element) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, elements, opts))
	return buf.String()
}

func TestEmptyDrawing(t *testing.T) {
	for _, f := range []Format{FormatSVG, FormatPNG, FormatPDF} {
		var buf bytes.Buffer
		assert.ErrorIs(t, Write(&buf, f, nil, DefaultOptions()), ErrEmpty, f)
	}
	assert.ErrorIs(t, Thumbnail(&bytes.Buffer{}, nil, 64, ""), ErrEmpty)
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		err  bool
	}{
		{"out.svg", FormatSVG, false},
		{"dir/Out.PNG", FormatPNG, false},
		{"a.b.pdf", FormatPDF, false},
		{"drawing.json", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if tt.err {
			assert.Error(t, err, tt.path)
			continue
		}
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestFrameCoversStrokesAndPadding(t *testing.T) {
	f := frame(prepare([]*element.Element{rect("r", 0, 0, 100, 50)}), DefaultPadding)
	assert.Equal(t, geometry.Rect{X: -21, Y: -21, Width: 142, Height: 92}, f)
}

func TestSVGDocument(t *testing.T) {
	r := rect("r", 0, 0, 100, 50)
	out := svgString(t, DefaultOptions(), r)

	assert.Contains(t, out, `viewBox="0 0 142 92"`)
	assert.Contains(t, out, "translate(21,21)")
	assert.Contains(t, out, rough.Render(r).Stroke.String())
	assert.Contains(t, out, "fill:#ffffff")
	assert.Equal(t, 1, strings.Count(out, "<path"), "transparent fill paints nothing")
	assert.Equal(t, out, svgString(t, DefaultOptions(), r), "export is deterministic")
}

func TestSVGStyles(t *testing.T) {
	r := rect("r", 0, 0, 100, 50)
	r.Style.FillColor = "#FF0000"
	r.Style.StrokeStyle = element.StrokeDashed
	r.Style.Opacity = 0.5
	r.Style.Rotation = math.Pi / 2
	out := svgString(t, Options{}, r)

	assert.Equal(t, 2, strings.Count(out, "<path"))
	assert.Contains(t, out, "fill:#ff0000")
	assert.Contains(t, out, "stroke-dasharray:8,10")
	assert.Contains(t, out, "opacity:0.5")
	assert.Contains(t, out, "rotate(90 50 25)")
	assert.NotContains(t, out, "<rect", "no background without a color")
}

func TestSVGUsesResolvedBindings(t *testing.T) {
	r := rect("r", 200, 0, 100, 50)
	a := &element.Element{ID: "a", Seed: 3, Style: element.DefaultStyle(), Shape: &element.Arrow{}}
	a.Style.Roughness = 0
	a.SetEndpoints(geometry.Pt(0, 0), geometry.Pt(190, 20))
	a.Connector().EndBinding = &element.Binding{ElementID: "r", Point: element.PointRight}

	out := svgString(t, DefaultOptions(), r, a)
	resolved := scene.New(r, a).Resolve(a)
	assert.Contains(t, out, rough.Render(resolved).Stroke.String())
	assert.NotContains(t, out, rough.Render(a).Stroke.String())
	assert.Equal(t, geometry.Pt(190, 20), a.End(), "stored coordinates untouched")
}

func TestSVGText(t *testing.T) {
	el := text("t", "a<b & c\nsecond")
	el.Style.TextAlign = element.AlignCenter
	out := svgString(t, DefaultOptions(), el)
	assert.Contains(t, out, "a&lt;b &amp; c")
	assert.Contains(t, out, "second")
	assert.Contains(t, out, "text-anchor:middle")
	assert.Contains(t, out, "font-size:20px")
}

func TestLayoutText(t *testing.T) {
	el := text("t", "ab\nc")
	el.X, el.Y = 10, 100
	lines := layoutText(el)
	require.Len(t, lines, 2)
	assert.Equal(t, textLine{Text: "ab", X: 10, Y: 116, Anchor: 0}, lines[0])
	assert.Equal(t, 141.0, lines[1].Y)

	el.Style.TextAlign = element.AlignRight
	assert.Equal(t, 10+el.Width, layoutText(el)[0].X)
	assert.Nil(t, layoutText(rect("r", 0, 0, 1, 1)))
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, []*element.Element{rect("r", 0, 0, 100, 50), text("t", "hi")}, DefaultOptions()))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 142, img.Bounds().Dx())
	assert.Equal(t, 92, img.Bounds().Dy())

	r, g, b, _ := img.At(5, 5).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b}, "background")
	r, _, _, a := img.At(21, 46).RGBA()
	assert.Less(t, r>>8, uint32(100), "left edge stroke")
	assert.Equal(t, uint32(0xffff), a)
}

func TestPNGScale(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Scale = 2
	require.NoError(t, PNG(&buf, []*element.Element{rect("r", 0, 0, 100, 50)}, opts))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 284, img.Bounds().Dx())
	assert.Equal(t, 184, img.Bounds().Dy())
}

func TestPNGSizeIsCapped(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Scale = 4
	require.NoError(t, PNG(&buf, []*element.Element{rect("r", 0, 0, 20000, 10)}, opts))
	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, MaxPNGSide, cfg.Width)
	assert.Less(t, cfg.Height, 50, "aspect ratio is kept")
}

func TestPDFReadsBack(t *testing.T) {
	var buf bytes.Buffer
	elements := []*element.Element{rect("r", 0, 0, 100, 50), text("t", "hello")}
	elements[0].Style.FillColor = "#a5d8ff"
	require.NoError(t, PDF(&buf, elements, DefaultOptions()))
	data := buf.Bytes()
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	r, err := pdfreader.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, 1, r.NumPage())
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	elements := []*element.Element{rect("r", 0, 0, 100, 50)}
	for _, name := range []string{"d.svg", "d.png", "d.pdf"} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteFile(path, elements, DefaultOptions()), name)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size(), name)
	}
	assert.Error(t, WriteFile(filepath.Join(dir, "d.gif"), elements, DefaultOptions()))
}

func TestThumbnail(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Thumbnail(&buf, []*element.Element{rect("r", 0, 0, 100, 50)}, 100, "#ffffff"))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 64, img.Bounds().Dy())
}

func TestFit(t *testing.T) {
	tests := []struct {
		w, h  float64
		wantW int
		wantH int
	}{
		{200, 100, 64, 32},
		{100, 200, 32, 64},
		{50, 50, 64, 64},
		{0, 10, 64, 64},
	}
	for _, tt := range tests {
		w, h := fit(tt.w, tt.h, 64)
		assert.Equal(t, []int{tt.wantW, tt.wantH}, []int{w, h})
	}
}

func TestParseColor(t *testing.T) {
	_, ok := parseColor(element.Transparent)
	assert.False(t, ok)
	_, ok = parseColor("not-a-color")
	assert.False(t, ok)
	c, ok := parseColor("#f00")
	require.True(t, ok)
	assert.Equal(t, "#ff0000", c.Hex())

	s := element.DefaultStyle()
	s.StrokeColor = "bogus"
	ink, ok := inkColor(s)
	assert.True(t, ok, "unparseable stroke falls back to black")
	assert.Equal(t, "#000000", ink.Hex())
	s.StrokeWidth = 0
	_, ok = strokeColor(s)
	assert.False(t, ok)
}
