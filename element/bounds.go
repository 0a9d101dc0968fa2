package element

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/KennethOlivas/zen-draw-sub000/geometry"
)

const (
	// curveHitSteps is how finely a bent connector is sampled for hit testing.
	curveHitSteps = 16

	charWidthRatio  = 0.6
	lineHeightRatio = 1.25
)

// Bounds returns the axis-aligned box of e with non-negative extent.
// Freehand bounds come from its points; every other type normalizes x/y/width/height.
func Bounds(e *Element) geometry.Rect {
	switch s := e.Shape.(type) {
	case *Freehand:
		if len(s.Points) == 0 {
			return geometry.Rect{X: e.X, Y: e.Y}
		}
		return geometry.RectFromPoints(s.Points)
	case *Rectangle, *Ellipse, *Diamond, *Line, *Arrow, *Text:
		return geometry.Normalize(e.X, e.Y, e.Width, e.Height)
	default:
		panic(fmt.Sprintf("element: unhandled shape %T", s))
	}
}

// Contains is the shape-aware hit test. Connectors and freehand strokes accept
// points closer than padding+strokeWidth to the stroke; everything else uses
// the padded bounding box. Rotation is ignored, so rotated shapes are
// approximated by their unrotated box.
func Contains(e *Element, p geometry.Point, padding float64) bool {
	tolerance := padding + e.Style.StrokeWidth
	switch s := e.Shape.(type) {
	case *Line:
		return nearConnector(e, &s.Connector, p, tolerance)
	case *Arrow:
		return nearConnector(e, &s.Connector, p, tolerance)
	case *Freehand:
		return nearPolyline(s.Points, p, tolerance)
	case *Rectangle, *Ellipse, *Diamond, *Text:
		return Bounds(e).Contains(p, padding)
	default:
		panic(fmt.Sprintf("element: unhandled shape %T", s))
	}
}

func nearConnector(e *Element, c *Connector, p geometry.Point, tolerance float64) bool {
	if c.ControlPoint != nil {
		return nearPolyline(geometry.FlattenQuadratic(e.Start(), *c.ControlPoint, e.End(), curveHitSteps), p, tolerance)
	}
	return geometry.DistanceToSegment(p, e.Start(), e.End()) < tolerance
}

func nearPolyline(pts []geometry.Point, p geometry.Point, tolerance float64) bool {
	if len(pts) == 1 {
		return geometry.Distance(p, pts[0]) < tolerance
	}
	for i := 1; i < len(pts); i++ {
		if geometry.DistanceToSegment(p, pts[i-1], pts[i]) < tolerance {
			return true
		}
	}
	return false
}

// MeasureText estimates the box a text block occupies at fontSize.
func MeasureText(content string, fontSize float64) (width, height float64) {
	lines := strings.Split(content, "\n")
	longest := 0
	for _, l := range lines {
		if n := utf8.RuneCountInString(l); n > longest {
			longest = n
		}
	}
	return float64(longest) * fontSize * charWidthRatio, float64(len(lines)) * fontSize * lineHeightRatio
}

// LineHeight is the vertical advance between text lines.
func LineHeight(fontSize float64) float64 {
	return fontSize * lineHeightRatio
}
