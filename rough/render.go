// Package rough turns elements into hand-drawn looking paths. Output is a pure
// function of an element's type, geometry, roughness and seed, so the editor,
// thumbnails and every exporter draw exactly the same strokes.
package rough

import (
	"fmt"
	"math"

	"github.com/KennethOlivas/zen-draw-sub000/element"
	"github.com/KennethOlivas/zen-draw-sub000/geometry"
)

const (
	CornerRadius  = 16.0
	EllipseSides  = 32
	ArrowAngle    = math.Pi / 6
	arrowBaseSize = 10.0

	jitterScale   = 2.0
	segmentLength = 20.0
	maxSegments   = 16
)

// Drawable is what a renderer paints for one element. Fill is empty for
// shapes without an interior; both are empty for text.
type Drawable struct {
	Stroke Path
	Fill   Path
}

// Render builds the drawable for e. Connectors must already carry their
// resolved endpoints.
func Render(e *element.Element) Drawable {
	r := newRNG(e.Seed)
	rough := float64(e.Style.Roughness)
	switch s := e.Shape.(type) {
	case *element.Rectangle:
		segs := rectangleOutline(e)
		return Drawable{Stroke: strokeOutline(segs, rough, r), Fill: exactOutline(segs)}
	case *element.Diamond:
		segs := polygon(diamondVertices(element.Bounds(e)))
		return Drawable{Stroke: strokeOutline(segs, rough, r), Fill: exactOutline(segs)}
	case *element.Ellipse:
		return Drawable{Stroke: ellipseStroke(element.Bounds(e), rough, r), Fill: ellipseExact(element.Bounds(e))}
	case *element.Line:
		return Drawable{Stroke: connectorStroke(e, &s.Connector, false, rough, r)}
	case *element.Arrow:
		return Drawable{Stroke: connectorStroke(e, &s.Connector, true, rough, r)}
	case *element.Freehand:
		return Drawable{Stroke: Smooth(s.Points)}
	case *element.Text:
		return Drawable{}
	default:
		panic(fmt.Sprintf("rough: unhandled shape %T", s))
	}
}

// Outline is the exact, jitter-free stroke of e. Render with roughness 0 returns it.
func Outline(e *element.Element) Path {
	c := e.Clone()
	c.Style.Roughness = 0
	return Render(c).Stroke
}

// segment is a straight run (Curve == false) or an unjittered quadratic arc.
type segment struct {
	From, To geometry.Point
	Ctrl     geometry.Point
	Curve    bool
}

func rectangleOutline(e *element.Element) []segment {
	b := element.Bounds(e)
	radius := 0.0
	if e.Style.CornerStyle == element.CornerRound {
		radius = math.Min(CornerRadius, math.Min(b.Width, b.Height)/2)
	}
	if radius <= 0 {
		return polygon([]geometry.Point{
			geometry.Pt(b.X, b.Y), geometry.Pt(b.MaxX(), b.Y),
			geometry.Pt(b.MaxX(), b.MaxY()), geometry.Pt(b.X, b.MaxY()),
		})
	}
	x0, y0, x1, y1 := b.X, b.Y, b.MaxX(), b.MaxY()
	return []segment{
		{From: geometry.Pt(x0+radius, y0), To: geometry.Pt(x1-radius, y0)},
		{From: geometry.Pt(x1-radius, y0), Ctrl: geometry.Pt(x1, y0), To: geometry.Pt(x1, y0+radius), Curve: true},
		{From: geometry.Pt(x1, y0+radius), To: geometry.Pt(x1, y1-radius)},
		{From: geometry.Pt(x1, y1-radius), Ctrl: geometry.Pt(x1, y1), To: geometry.Pt(x1-radius, y1), Curve: true},
		{From: geometry.Pt(x1-radius, y1), To: geometry.Pt(x0+radius, y1)},
		{From: geometry.Pt(x0+radius, y1), Ctrl: geometry.Pt(x0, y1), To: geometry.Pt(x0, y1-radius), Curve: true},
		{From: geometry.Pt(x0, y1-radius), To: geometry.Pt(x0, y0+radius)},
		{From: geometry.Pt(x0, y0+radius), Ctrl: geometry.Pt(x0, y0), To: geometry.Pt(x0+radius, y0), Curve: true},
	}
}

func diamondVertices(b geometry.Rect) []geometry.Point {
	c := b.Center()
	return []geometry.Point{
		geometry.Pt(c.X, b.Y), geometry.Pt(b.MaxX(), c.Y),
		geometry.Pt(c.X, b.MaxY()), geometry.Pt(b.X, c.Y),
	}
}

func polygon(vs []geometry.Point) []segment {
	segs := make([]segment, len(vs))
	for i := range vs {
		segs[i] = segment{From: vs[i], To: vs[(i+1)%len(vs)]}
	}
	return segs
}

func exactOutline(segs []segment) Path {
	var p Path
	if len(segs) == 0 {
		return p
	}
	p.MoveTo(segs[0].From)
	for _, s := range segs {
		if s.Curve {
			p.QuadTo(s.Ctrl, s.To)
		} else {
			p.LineTo(s.To)
		}
	}
	p.Close()
	return p
}

func strokeOutline(segs []segment, roughness float64, r *rng) Path {
	if roughness == 0 {
		return exactOutline(segs)
	}
	var p Path
	for _, amp := range []float64{1, 0.5} {
		p.MoveTo(segs[0].From)
		for _, s := range segs {
			if s.Curve {
				p.QuadTo(s.Ctrl, s.To)
				continue
			}
			for _, pt := range jitterRun(s.From, s.To, roughness*amp, r) {
				p.LineTo(pt)
			}
		}
		p.Close()
	}
	return p
}

// jitterRun splits a→b into a polyline whose interior vertices are pushed
// along the normal. The returned points exclude a and end exactly at b.
func jitterRun(a, b geometry.Point, roughness float64, r *rng) []geometry.Point {
	length := geometry.Distance(a, b)
	normal, ok := geometry.Perpendicular(a, b)
	if !ok {
		return []geometry.Point{b}
	}
	n := int(math.Ceil(length / segmentLength))
	n = max(2, min(n, maxSegments))
	limit := length / 10
	pts := make([]geometry.Point, 0, n)
	for i := 1; i < n; i++ {
		off := geometry.Clamp(r.signed()*roughness*jitterScale, -limit, limit)
		pts = append(pts, a.Lerp(b, float64(i)/float64(n)).Add(normal.Scale(off)))
	}
	return append(pts, b)
}

func ellipseVertex(c geometry.Point, rx, ry float64, i int) geometry.Point {
	theta := 2 * math.Pi * float64(i) / EllipseSides
	return geometry.Pt(c.X+rx*math.Cos(theta), c.Y+ry*math.Sin(theta))
}

func ellipseExact(b geometry.Rect) Path {
	var p Path
	c, rx, ry := b.Center(), b.Width/2, b.Height/2
	p.MoveTo(ellipseVertex(c, rx, ry, 0))
	for i := 1; i < EllipseSides; i++ {
		p.LineTo(ellipseVertex(c, rx, ry, i))
	}
	p.Close()
	return p
}

func ellipseStroke(b geometry.Rect, roughness float64, r *rng) Path {
	if roughness == 0 {
		return ellipseExact(b)
	}
	var p Path
	c, rx, ry := b.Center(), b.Width/2, b.Height/2
	limit := math.Min(rx, ry) / 10
	for _, amp := range []float64{1, 0.5} {
		for i := 0; i < EllipseSides; i++ {
			d := geometry.Clamp(r.signed()*roughness*amp*jitterScale, -limit, limit)
			v := ellipseVertex(c, rx+d, ry+d, i)
			if i == 0 {
				p.MoveTo(v)
			} else {
				p.LineTo(v)
			}
		}
		p.Close()
	}
	return p
}

func connectorStroke(e *element.Element, c *element.Connector, head bool, roughness float64, r *rng) Path {
	start, end := e.Start(), e.End()
	var p Path
	tangentFrom := start
	if c.ControlPoint != nil {
		ctrl := *c.ControlPoint
		tangentFrom = ctrl
		if roughness == 0 {
			p.MoveTo(start)
			p.QuadTo(ctrl, end)
		} else {
			for _, amp := range []float64{1, 0.5} {
				jittered := ctrl.Add(geometry.Pt(r.signed(), r.signed()).Scale(roughness * amp * jitterScale))
				p.MoveTo(start)
				p.QuadTo(jittered, end)
			}
		}
	} else {
		if roughness == 0 {
			p.MoveTo(start)
			p.LineTo(end)
		} else {
			for _, amp := range []float64{1, 0.5} {
				p.MoveTo(start)
				for _, pt := range jitterRun(start, end, roughness*amp, r) {
					p.LineTo(pt)
				}
			}
		}
	}
	if head {
		p.Append(Arrowhead(tangentFrom, end, geometry.Distance(start, end), e.Style.StrokeWidth))
	}
	return p
}

// Arrowhead is the open chevron at tip for a stroke arriving from the
// direction of from. Its size grows with strokeWidth but never exceeds half
// the connector length.
func Arrowhead(from, tip geometry.Point, connectorLength, strokeWidth float64) Path {
	var p Path
	d := tip.Sub(from)
	if d.Len() == 0 || connectorLength == 0 {
		return p
	}
	size := math.Min(arrowBaseSize+2*strokeWidth, connectorLength/2)
	angle := math.Atan2(d.Y, d.X)
	wing := func(a float64) geometry.Point {
		return geometry.Pt(tip.X-size*math.Cos(a), tip.Y-size*math.Sin(a))
	}
	p.MoveTo(wing(angle - ArrowAngle))
	p.LineTo(tip)
	p.LineTo(wing(angle + ArrowAngle))
	return p
}

// Smooth chains quadratic segments through sampled points: each sample is a
// control point and the curve passes through the midpoint to the next one.
func Smooth(pts []geometry.Point) Path {
	var p Path
	switch len(pts) {
	case 0:
		return p
	case 1:
		p.MoveTo(pts[0])
		p.LineTo(pts[0])
		return p
	case 2:
		p.MoveTo(pts[0])
		p.LineTo(pts[1])
		return p
	}
	p.MoveTo(pts[0])
	for i := 1; i < len(pts)-1; i++ {
		p.QuadTo(pts[i], geometry.Mid(pts[i], pts[i+1]))
	}
	p.LineTo(pts[len(pts)-1])
	return p
}
