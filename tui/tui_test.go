package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KennethOlivas/zen-draw-sub000/autosave"
	"github.com/KennethOlivas/zen-draw-sub000/document"
	"github.com/KennethOlivas/zen-draw-sub000/editor"
	"github.com/KennethOlivas/zen-draw-sub000/element"
	"github.com/KennethOlivas/zen-draw-sub000/geometry"
)

func rect(id string, x, y, w, h float64) *element.Element {
	style := element.DefaultStyle()
	style.Roughness = 0
	return &element.Element{ID: id, X: x, Y: y, Width: w, Height: h, Seed: 1, Style: style, Shape: &element.Rectangle{}}
}

func textElement(id string, x, y float64, content string) *element.Element {
	w, h := element.MeasureText(content, element.DefaultFontSize)
	return &element.Element{ID: id, X: x, Y: y, Width: w, Height: h, Seed: 1, Style: element.DefaultStyle(),
		Shape: &element.Text{Content: content, FontSize: element.DefaultFontSize}}
}

func newModel(t *testing.T, opts Options, elements ...*element.Element) (*Model, *editor.Editor) {
	t.Helper()
	ed := editor.New(elements, editor.DefaultOptions())
	m := New(ed, opts)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 25})
	return m, ed
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(typ tea.MouseEventType, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Type: typ}
}

func TestRasterizeRectangle(t *testing.T) {
	ed := editor.New([]*element.Element{rect("r", 0, 0, 80, 32)}, editor.DefaultOptions())
	g := rasterize(ed, 40, 10)

	assert.Equal(t, '─', g.at(5, 0))
	assert.Equal(t, '─', g.at(5, 2))
	assert.Equal(t, '│', g.at(0, 1))
	assert.Equal(t, '│', g.at(10, 1))
	assert.Equal(t, ' ', g.at(5, 1), "transparent fill leaves the inside blank")
	assert.Equal(t, ' ', g.at(20, 5))
}

func TestRasterizeFillAndSelection(t *testing.T) {
	r := rect("r", 0, 0, 80, 32)
	r.Style.FillColor = "#ff0000"
	ed := editor.New([]*element.Element{r}, editor.DefaultOptions())
	ed.Select("r")
	g := rasterize(ed, 40, 10)

	assert.Equal(t, '░', g.at(5, 1))
	assert.Equal(t, styleSelected, g.style[0][3])
	assert.Equal(t, '■', g.at(0, 0), "nw handle")
	assert.Equal(t, '■', g.at(10, 2), "se handle")
}

func TestRasterizeText(t *testing.T) {
	ed := editor.New([]*element.Element{textElement("t", 16, 48, "hi\nyo")}, editor.DefaultOptions())
	g := rasterize(ed, 40, 10)
	assert.Equal(t, 'h', g.at(2, 3))
	assert.Equal(t, 'i', g.at(3, 3))
	assert.Equal(t, 'y', g.at(2, 4))
}

func TestRasterizeOpenTextField(t *testing.T) {
	ed := editor.New(nil, editor.DefaultOptions())
	ed.SetTool(editor.ToolText)
	require.NoError(t, ed.PointerDown(geometry.Pt(16, 48), editor.Modifiers{}))
	ed.TextInput("ab")
	g := rasterize(ed, 40, 10)
	assert.Equal(t, 'a', g.at(2, 3))
	assert.Equal(t, 'b', g.at(3, 3))
	assert.Equal(t, '█', g.at(4, 3))
}

func TestRasterizeMarqueeAndGrid(t *testing.T) {
	ed := editor.New(nil, editor.DefaultOptions())
	ed.SetGrid(editor.GridConfig{Size: 40, Mode: editor.GridLines, Snap: true})
	g := rasterize(ed, 40, 10)
	assert.Equal(t, '·', g.at(0, 0))
	assert.Equal(t, '·', g.at(5, 2))

	ed.SetGrid(editor.DefaultGrid())
	require.NoError(t, ed.PointerDown(geometry.Pt(100, 20), editor.Modifiers{}))
	require.NoError(t, ed.PointerMove(geometry.Pt(200, 100), editor.Modifiers{}))
	g = rasterize(ed, 40, 10)
	assert.Equal(t, styleGuide, g.style[1][12])
	assert.Equal(t, styleGuide, g.style[6][25])
}

func TestGlyph(t *testing.T) {
	assert.Equal(t, '─', glyph(geometry.Pt(10, 1)))
	assert.Equal(t, '│', glyph(geometry.Pt(1, -10)))
	assert.Equal(t, '╲', glyph(geometry.Pt(10, 10)))
	assert.Equal(t, '╱', glyph(geometry.Pt(10, -10)))
}

func TestSegmentClipsToGrid(t *testing.T) {
	g := newGrid(10, 3)
	g.segment(geometry.Pt(-1e12, 24), geometry.Pt(1e12, 24), stylePlain)
	for x := 0; x < 10; x++ {
		assert.Equal(t, '─', g.at(x, 1))
	}
	assert.Equal(t, ' ', g.at(0, 0))

	g = newGrid(10, 3)
	g.segment(geometry.Pt(-1e12, -1e12), geometry.Pt(-1e12, 1e12), stylePlain)
	assert.NotContains(t, string(g.runes[1]), "│", "off-screen segments draw nothing")
}

func TestDrawRectangleWithMouse(t *testing.T) {
	m, ed := newModel(t, Options{})
	m.Update(runes("r"))
	assert.Equal(t, editor.ToolRectangle, ed.Tool())

	m.Update(mouse(tea.MouseLeft, 2, 2))
	m.Update(mouse(tea.MouseMotion, 12, 6))
	m.Update(mouse(tea.MouseRelease, 12, 6))

	require.Len(t, ed.Elements(), 1)
	assert.Equal(t, geometry.Rect{X: 20, Y: 40, Width: 80, Height: 64}, element.Bounds(ed.Elements()[0]))
	assert.True(t, m.dirty)
	assert.Contains(t, m.View(), "1 elements")
}

func TestDoubleClickEditsText(t *testing.T) {
	m, ed := newModel(t, Options{}, textElement("t", 16, 40, "hello"))
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	for i := 0; i < 2; i++ {
		m.Update(mouse(tea.MouseLeft, 3, 3))
		m.Update(mouse(tea.MouseRelease, 3, 3))
	}
	edit := ed.TextEdit()
	require.NotNil(t, edit)
	assert.Equal(t, "t", edit.ElementID)

	m.Update(runes("!"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, ed.TextEdit())
	assert.Equal(t, "hello!", ed.Elements()[0].Shape.(*element.Text).Content)
}

func TestSlowClicksAreNotDoubleClick(t *testing.T) {
	m, ed := newModel(t, Options{}, textElement("t", 16, 40, "hello"))
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	for i := 0; i < 2; i++ {
		m.Update(mouse(tea.MouseLeft, 3, 3))
		m.Update(mouse(tea.MouseRelease, 3, 3))
	}
	assert.Nil(t, ed.TextEdit())
}

func TestSaveToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drawing.json")
	m, _ := newModel(t, Options{Filename: path}, rect("r", 0, 0, 10, 10))
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	d, err := document.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, d.Elements, 1)
	assert.Equal(t, "saved "+path, m.message)
	assert.False(t, m.dirty)
}

func TestCustomSave(t *testing.T) {
	var saved int
	m, _ := newModel(t, Options{Save: func(ed *editor.Editor) error {
		saved = len(ed.Elements())
		return nil
	}}, rect("r", 0, 0, 10, 10))
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, 1, saved)
	assert.Equal(t, "saved", m.message)
}

func TestQuitConfirmation(t *testing.T) {
	m, ed := newModel(t, Options{Confirmations: true}, rect("r", 0, 0, 10, 10))
	_, cmd := m.Update(runes("q"))
	assert.NotNil(t, cmd, "clean session quits at once")

	ed.SelectAll()
	m.Update(tea.KeyMsg{Type: tea.KeyDelete})
	require.Empty(t, ed.Elements())

	_, cmd = m.Update(runes("q"))
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Quit with unsaved changes?")

	_, cmd = m.Update(runes("y"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestReadOnlyReportsError(t *testing.T) {
	m, ed := newModel(t, Options{}, rect("r", 0, 0, 10, 10))
	ed.SetCanEdit(false)
	ed.SelectAll()
	m.Update(tea.KeyMsg{Type: tea.KeyDelete})
	assert.Len(t, ed.Elements(), 1)
	assert.Equal(t, "view only", m.err)
	assert.Contains(t, m.View(), "VIEW ONLY")
}

func TestArrowKeysPan(t *testing.T) {
	m, ed := newModel(t, Options{})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyShiftDown})
	assert.Equal(t, geometry.Pt(CellWidth, -2*CellHeight), ed.Viewport().Pan)

	m.Update(runes("+"))
	assert.InDelta(t, 1.1, ed.Viewport().Zoom, 1e-9)
	m.Update(runes("0"))
	assert.Equal(t, 1.0, ed.Viewport().Zoom)
}

func TestHelpToggle(t *testing.T) {
	m, ed := newModel(t, Options{})
	m.Update(runes("?"))
	assert.Contains(t, m.View(), "Zen Draw Help")
	m.Update(runes("r"))
	assert.NotContains(t, m.View(), "Zen Draw Help")
	assert.Equal(t, editor.ToolSelect, ed.Tool(), "closing help swallows the key")
}

func TestAutosaveOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autosave.json")
	saver := autosave.New(path, time.Hour)
	m, ed := newModel(t, Options{Autosave: saver}, rect("r", 0, 0, 10, 10))
	ed.SelectAll()
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	require.Len(t, ed.Elements(), 2)

	require.NoError(t, saver.Flush())
	d, err := document.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, d.Elements, 2)
}

func TestEditorKey(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want editor.Key
	}{
		{runes("a"), editor.Key{Name: "a"}},
		{tea.KeyMsg{Type: tea.KeyCtrlZ}, editor.Key{Name: "z", Modifiers: editor.Modifiers{Ctrl: true}}},
		{tea.KeyMsg{Type: tea.KeyEsc}, editor.Key{Name: "escape"}},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, editor.Key{Name: "space"}},
		{tea.KeyMsg{Type: tea.KeyBackspace}, editor.Key{Name: "backspace"}},
		{tea.KeyMsg{Type: tea.KeyEnter, Alt: true}, editor.Key{Name: "enter", Modifiers: editor.Modifiers{Alt: true}}},
	}
	for _, tt := range tests {
		got, ok := editorKey(tt.msg)
		require.True(t, ok, tt.msg.String())
		assert.Equal(t, tt.want, got, tt.msg.String())
	}
	_, ok := editorKey(tea.KeyMsg{Type: tea.KeyF1})
	assert.False(t, ok)
}
