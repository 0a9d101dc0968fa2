// Package geometry holds the plain math the drawing engine is built on:
// points, axis-aligned rectangles, segment distances and grid snapping.
package geometry

import "math"

// Point is a coordinate in canvas space unless stated otherwise.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Lerp returns the point at t along p→q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

func Mid(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Rect is an axis-aligned box. Width and Height are non-negative once
// normalized; raw element extents may be negative.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Normalize builds a rect with non-negative extent from a possibly
// backwards origin/extent pair.
func Normalize(x, y, w, h float64) Rect {
	minX, maxX := math.Min(x, x+w), math.Max(x, x+w)
	minY, maxY := math.Min(y, y+h), math.Max(y, y+h)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// RectFromPoints is the smallest rect holding every point. Zero rect for no points.
func RectFromPoints(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func (r Rect) MaxX() float64 { return r.X + r.Width }
func (r Rect) MaxY() float64 { return r.Y + r.Height }

func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Inflate grows the rect by pad on every side.
func (r Rect) Inflate(pad float64) Rect {
	return Rect{X: r.X - pad, Y: r.Y - pad, Width: r.Width + 2*pad, Height: r.Height + 2*pad}
}

// Contains reports whether p lies inside r grown by padding. Edges count.
func (r Rect) Contains(p Point, padding float64) bool {
	return p.X >= r.X-padding && p.X <= r.MaxX()+padding &&
		p.Y >= r.Y-padding && p.Y <= r.MaxY()+padding
}

func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.MaxX() && o.X <= r.MaxX() && r.Y <= o.MaxY() && o.Y <= r.MaxY()
}

// Union returns the smallest rect holding both.
func (r Rect) Union(o Rect) Rect {
	minX, minY := math.Min(r.X, o.X), math.Min(r.Y, o.Y)
	maxX, maxY := math.Max(r.MaxX(), o.MaxX()), math.Max(r.MaxY(), o.MaxY())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// DistanceToSegment is the distance from p to the closest point of a→b,
// with the projection parameter clamped to [0,1].
func DistanceToSegment(p, a, b Point) float64 {
	return Distance(p, ClosestOnSegment(p, a, b))
}

func ClosestOnSegment(p, a, b Point) Point {
	d := b.Sub(a)
	lenSq := d.X*d.X + d.Y*d.Y
	if lenSq == 0 {
		return a
	}
	t := ((p.X-a.X)*d.X + (p.Y-a.Y)*d.Y) / lenSq
	t = math.Max(0, math.Min(1, t))
	return a.Lerp(b, t)
}

// SegmentIntersectsRect reports whether any part of a→b lies inside r.
func SegmentIntersectsRect(a, b Point, r Rect) bool {
	_, _, ok := ClipSegment(a, b, r)
	return ok
}

// ClipSegment clips a→b to r with the parametric slab (Liang-Barsky) test
// and returns the visible part.
func ClipSegment(a, b Point, r Rect) (Point, Point, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := b.X-a.X, b.Y-a.Y
	clip := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return false
			}
			if t < t1 {
				t1 = t
			}
		}
		return true
	}
	if !clip(-dx, a.X-r.X) ||
		!clip(dx, r.MaxX()-a.X) ||
		!clip(-dy, a.Y-r.Y) ||
		!clip(dy, r.MaxY()-a.Y) {
		return Point{}, Point{}, false
	}
	return a.Lerp(b, t0), a.Lerp(b, t1), true
}

// Perpendicular returns the unit normal of a→b, or false for a zero-length segment.
func Perpendicular(a, b Point) (Point, bool) {
	d := b.Sub(a)
	l := d.Len()
	if l == 0 {
		return Point{}, false
	}
	return Point{X: -d.Y / l, Y: d.X / l}, true
}

// QuadraticAt evaluates the quadratic bezier p0,c,p1 at t.
func QuadraticAt(p0, c, p1 Point, t float64) Point {
	mt := 1 - t
	return Point{
		X: mt*mt*p0.X + 2*mt*t*c.X + t*t*p1.X,
		Y: mt*mt*p0.Y + 2*mt*t*c.Y + t*t*p1.Y,
	}
}

// FlattenQuadratic samples the curve into steps+1 points.
func FlattenQuadratic(p0, c, p1 Point, steps int) []Point {
	if steps < 1 {
		steps = 1
	}
	pts := make([]Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		pts = append(pts, QuadraticAt(p0, c, p1, float64(i)/float64(steps)))
	}
	return pts
}

// SnapToGrid rounds each axis to the nearest multiple of size.
// A non-positive size leaves p untouched.
func SnapToGrid(p Point, size float64) Point {
	if size <= 0 {
		return p
	}
	return Point{X: math.Round(p.X/size) * size, Y: math.Round(p.Y/size) * size}
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Finite reports whether every value is a real number.
func Finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
