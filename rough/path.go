package rough

import (
	"math"
	"strconv"
	"strings"

	"github.com/KennethOlivas/zen-draw-sub000/geometry"
)

type Op byte

const (
	MoveTo Op = 'M'
	LineTo Op = 'L'
	QuadTo Op = 'Q'
	Close  Op = 'Z'
)

// Command is one path instruction. C is only meaningful for QuadTo.
type Command struct {
	Op Op
	C  geometry.Point
	P  geometry.Point
}

// Path is an ordered list of drawing commands in canvas space.
type Path struct {
	Commands []Command
}

func (p *Path) MoveTo(pt geometry.Point) {
	p.Commands = append(p.Commands, Command{Op: MoveTo, P: pt})
}

func (p *Path) LineTo(pt geometry.Point) {
	p.Commands = append(p.Commands, Command{Op: LineTo, P: pt})
}

func (p *Path) QuadTo(c, pt geometry.Point) {
	p.Commands = append(p.Commands, Command{Op: QuadTo, C: c, P: pt})
}

func (p *Path) Close() {
	p.Commands = append(p.Commands, Command{Op: Close})
}

func (p *Path) Append(o Path) {
	p.Commands = append(p.Commands, o.Commands...)
}

func (p Path) Empty() bool {
	return len(p.Commands) == 0
}

// String renders the path as an SVG path data string with two-decimal coordinates.
func (p Path) String() string {
	var b strings.Builder
	for i, c := range p.Commands {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(byte(c.Op))
		switch c.Op {
		case MoveTo, LineTo:
			writePoint(&b, c.P)
		case QuadTo:
			writePoint(&b, c.C)
			writePoint(&b, c.P)
		}
	}
	return b.String()
}

func writePoint(b *strings.Builder, p geometry.Point) {
	b.WriteByte(' ')
	b.WriteString(num(p.X))
	b.WriteByte(' ')
	b.WriteString(num(p.Y))
}

func num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Flatten converts the path into polylines, one per subpath, sampling each
// quadratic segment with steps segments.
func (p Path) Flatten(steps int) [][]geometry.Point {
	var (
		out   [][]geometry.Point
		cur   []geometry.Point
		start geometry.Point
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, cur)
		}
		cur = nil
	}
	for _, c := range p.Commands {
		switch c.Op {
		case MoveTo:
			flush()
			start = c.P
			cur = []geometry.Point{c.P}
		case LineTo:
			cur = append(cur, c.P)
		case QuadTo:
			from := start
			if len(cur) > 0 {
				from = cur[len(cur)-1]
			}
			cur = append(cur, geometry.FlattenQuadratic(from, c.C, c.P, steps)[1:]...)
		case Close:
			if len(cur) > 0 {
				cur = append(cur, start)
			}
			flush()
		}
	}
	flush()
	return out
}
