package element

import (
	"math"

	"github.com/KennethOlivas/zen-draw-sub000/geometry"
)

// ConnectionPoint names an anchor derived from an element's bounding box.
type ConnectionPoint string

const (
	PointTop    ConnectionPoint = "top"
	PointRight  ConnectionPoint = "right"
	PointBottom ConnectionPoint = "bottom"
	PointLeft   ConnectionPoint = "left"
	PointCenter ConnectionPoint = "center"
)

// ConnectionPointOrder fixes iteration order so ties resolve the same way every time.
var ConnectionPointOrder = []ConnectionPoint{PointTop, PointRight, PointBottom, PointLeft, PointCenter}

func (c ConnectionPoint) Valid() bool {
	switch c {
	case PointTop, PointRight, PointBottom, PointLeft, PointCenter:
		return true
	}
	return false
}

// ConnectionPoints computes the five anchors of e from its bounds.
func ConnectionPoints(e *Element) map[ConnectionPoint]geometry.Point {
	b := Bounds(e)
	c := b.Center()
	return map[ConnectionPoint]geometry.Point{
		PointTop:    {X: c.X, Y: b.Y},
		PointRight:  {X: b.MaxX(), Y: c.Y},
		PointBottom: {X: c.X, Y: b.MaxY()},
		PointLeft:   {X: b.X, Y: c.Y},
		PointCenter: c,
	}
}

// ConnectionPointAt returns a single named anchor of e.
func ConnectionPointAt(e *Element, name ConnectionPoint) (geometry.Point, bool) {
	p, ok := ConnectionPoints(e)[name]
	return p, ok
}

// Snap is the result of a connection point search.
type Snap struct {
	Point     geometry.Point
	Distance  float64
	Position  ConnectionPoint
	ElementID string
}

// Binding turns the snap into a binding reference.
func (s Snap) Binding() *Binding {
	return &Binding{ElementID: s.ElementID, Point: s.Position}
}

// NearestConnectionPoint returns the closest anchor of e strictly within
// threshold of p, or nil. threshold is in canvas units, already divided by zoom.
func NearestConnectionPoint(p geometry.Point, e *Element, threshold float64) *Snap {
	points := ConnectionPoints(e)
	var best *Snap
	bestDist := math.Inf(1)
	for _, name := range ConnectionPointOrder {
		pt := points[name]
		d := geometry.Distance(p, pt)
		if d < threshold && d < bestDist {
			bestDist = d
			best = &Snap{Point: pt, Distance: d, Position: name, ElementID: e.ID}
		}
	}
	return best
}
