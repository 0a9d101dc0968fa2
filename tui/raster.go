package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/KennethOlivas/zen-draw-sub000/editor"
	"github.com/KennethOlivas/zen-draw-sub000/element"
	"github.com/KennethOlivas/zen-draw-sub000/geometry"
	"github.com/KennethOlivas/zen-draw-sub000/rough"
)

// Pixel size of one terminal cell.
const (
	CellWidth  = 8.0
	CellHeight = 16.0

	flattenSteps = 6
	minGridCells = 2
)

type cellStyle uint8

const (
	stylePlain cellStyle = iota
	styleFill
	styleSelected
	styleHandle
	styleGuide
)

var cellStyles = map[cellStyle]lipgloss.Style{
	styleFill:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	styleSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	styleHandle:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	styleGuide:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
}

type grid struct {
	w, h  int
	runes [][]rune
	style [][]cellStyle
}

func newGrid(w, h int) *grid {
	w, h = max(w, 1), max(h, 1)
	g := &grid{w: w, h: h, runes: make([][]rune, h), style: make([][]cellStyle, h)}
	for y := range g.runes {
		g.runes[y] = []rune(strings.Repeat(" ", w))
		g.style[y] = make([]cellStyle, w)
	}
	return g
}

func (g *grid) set(x, y int, r rune, s cellStyle) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.runes[y][x] = r
	g.style[y][x] = s
}

func (g *grid) at(x, y int) rune {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return 0
	}
	return g.runes[y][x]
}

func cellOf(p geometry.Point) (int, int) {
	return int(math.Floor(p.X / CellWidth)), int(math.Floor(p.Y / CellHeight))
}

func cellCenter(x, y int) geometry.Point {
	return geometry.Pt((float64(x)+0.5)*CellWidth, (float64(y)+0.5)*CellHeight)
}

// glyph picks a line character from the segment's screen-space direction.
func glyph(d geometry.Point) rune {
	angle := math.Atan2(math.Abs(d.Y), math.Abs(d.X)) * 180 / math.Pi
	switch {
	case angle < 22.5:
		return '─'
	case angle > 67.5:
		return '│'
	case d.X*d.Y > 0:
		return '╲'
	default:
		return '╱'
	}
}

// segment draws a to b (screen pixels) with Bresenham over cells, after
// clipping it to the grid.
func (g *grid) segment(a, b geometry.Point, s cellStyle) {
	r := glyph(b.Sub(a))
	a, b, ok := geometry.ClipSegment(a, b, geometry.Rect{Width: float64(g.w) * CellWidth, Height: float64(g.h) * CellHeight})
	if !ok {
		return
	}
	x0, y0 := cellOf(a)
	x1, y1 := cellOf(b)
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for {
		g.set(x0, y0, r, s)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (g *grid) polyline(pts []geometry.Point, s cellStyle) {
	if len(pts) == 1 {
		x, y := cellOf(pts[0])
		g.set(x, y, '·', s)
	}
	for i := 1; i < len(pts); i++ {
		g.segment(pts[i-1], pts[i], s)
	}
}

// fill shades blank cells whose centers fall inside the polygons (even-odd).
func (g *grid) fill(polys [][]geometry.Point, s cellStyle) {
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			if g.runes[y][x] == ' ' && insideEvenOdd(cellCenter(x, y), polys) {
				g.set(x, y, '░', s)
			}
		}
	}
}

func insideEvenOdd(p geometry.Point, polys [][]geometry.Point) bool {
	in := false
	for _, poly := range polys {
		for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
			a, b := poly[i], poly[j]
			if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
				in = !in
			}
		}
	}
	return in
}

func (g *grid) text(x, y int, s string, st cellStyle) {
	for i, r := range []rune(s) {
		g.set(x+i, y, r, st)
	}
}

func (g *grid) String() string {
	var b strings.Builder
	for y := 0; y < g.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		run, cur := []rune(nil), g.style[y][0]
		flush := func() {
			if st, ok := cellStyles[cur]; ok {
				b.WriteString(st.Render(string(run)))
			} else {
				b.WriteString(string(run))
			}
			run = run[:0]
		}
		for x, r := range g.runes[y] {
			if g.style[y][x] != cur {
				flush()
				cur = g.style[y][x]
			}
			run = append(run, r)
		}
		flush()
	}
	return b.String()
}

// rasterize draws the editor's current view into a width x height grid.
func rasterize(ed *editor.Editor, width, height int) *grid {
	g := newGrid(width, height)
	toScreen := ed.ToScreen
	screenPolys := func(p rough.Path) [][]geometry.Point {
		lines := p.Flatten(flattenSteps)
		for _, line := range lines {
			for i := range line {
				line[i] = toScreen(line[i])
			}
		}
		return lines
	}

	drawGrid(g, ed)

	editing := ed.TextEdit()
	var selected []*element.Element
	for _, el := range ed.Scene().Resolved() {
		st := stylePlain
		if ed.IsSelected(el.ID) {
			st = styleSelected
			selected = append(selected, el)
		}
		d := rough.Render(el)
		if el.Style.Filled() && !d.Fill.Empty() {
			g.fill(screenPolys(d.Fill), styleFill)
		}
		for _, line := range screenPolys(d.Stroke) {
			g.polyline(line, st)
		}
		if t, ok := el.Shape.(*element.Text); ok && (editing == nil || editing.ElementID != el.ID) {
			drawText(g, toScreen(el.Start()), t.Content, st)
		}
	}

	for _, el := range selected {
		for _, h := range element.ResizeHandles(el) {
			x, y := cellOf(toScreen(h.Point))
			g.set(x, y, '■', styleHandle)
		}
	}
	if r, ok := ed.Marquee(); ok {
		a, b := toScreen(geometry.Pt(r.X, r.Y)), toScreen(geometry.Pt(r.MaxX(), r.MaxY()))
		corners := []geometry.Point{a, geometry.Pt(b.X, a.Y), b, geometry.Pt(a.X, b.Y), a}
		for i := 1; i < len(corners); i++ {
			g.segment(corners[i-1], corners[i], styleGuide)
		}
	}
	if h := ed.Hover(); h != nil {
		x, y := cellOf(toScreen(h.Point))
		g.set(x, y, '◆', styleHandle)
	}
	if editing != nil {
		x, y := drawText(g, toScreen(editing.Anchor), editing.Content, styleSelected)
		g.set(x, y, '█', styleSelected)
	}
	return g
}

// drawText writes content from the cell under origin and returns the cell
// just past the last character.
func drawText(g *grid, origin geometry.Point, content string, st cellStyle) (int, int) {
	x, y := cellOf(origin)
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		g.text(x, y+i, line, st)
	}
	last := lines[len(lines)-1]
	return x + len([]rune(last)), y + len(lines) - 1
}

// drawGrid marks grid intersections while snapping is on and the grid is
// coarse enough to read.
func drawGrid(g *grid, ed *editor.Editor) {
	cfg := ed.Grid()
	if !cfg.Snap || cfg.Size <= 0 {
		return
	}
	step := cfg.Size * ed.Viewport().Zoom
	if step < CellWidth*minGridCells || step < CellHeight {
		return
	}
	origin := ed.ToScreen(geometry.Point{})
	startX := math.Mod(origin.X, step)
	startY := math.Mod(origin.Y, step)
	if startX < 0 {
		startX += step
	}
	if startY < 0 {
		startY += step
	}
	for py := startY; py < float64(g.h)*CellHeight; py += step {
		for px := startX; px < float64(g.w)*CellWidth; px += step {
			x, y := cellOf(geometry.Pt(px, py))
			g.set(x, y, '·', styleGuide)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
