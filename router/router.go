// Package router bends connectors around shapes that sit on their straight
// path. It is a greedy local search over a handful of candidate control
// points, run once when a connector gesture finishes.
package router

import (
	"math"

	"github.com/KennethOlivas/zen-draw-sub000/element"
	"github.com/KennethOlivas/zen-draw-sub000/geometry"
	"github.com/KennethOlivas/zen-draw-sub000/scene"
)

const (
	ObstaclePadding = 10.0
	MinOffset       = 50.0
	MaxOffset       = 200.0
	OffsetStep      = 25.0
	FallbackOffset  = 80.0
)

// Obstacles returns the area shapes whose padded bounds the segment
// start→end crosses. The connector itself and the elements bound at either
// of its endpoints never count.
func Obstacles(s *scene.Scene, conn *element.Element, start, end geometry.Point) []*element.Element {
	skip := map[string]bool{conn.ID: true}
	if c := conn.Connector(); c != nil {
		if c.StartBinding != nil {
			skip[c.StartBinding.ElementID] = true
		}
		if c.EndBinding != nil {
			skip[c.EndBinding.ElementID] = true
		}
	}
	var out []*element.Element
	for _, e := range s.Elements {
		if skip[e.ID] || !e.IsArea() {
			continue
		}
		if geometry.SegmentIntersectsRect(start, end, element.Bounds(e).Inflate(ObstaclePadding)) {
			out = append(out, e)
		}
	}
	return out
}

// ControlPoint picks the candidate off the segment midpoint that stays
// furthest from the nearest obstacle. No obstacles, or a zero-length
// segment, means a straight connector and a nil result.
func ControlPoint(start, end geometry.Point, obstacles []*element.Element) *geometry.Point {
	if len(obstacles) == 0 {
		return nil
	}
	normal, ok := geometry.Perpendicular(start, end)
	if !ok {
		return nil
	}
	mid := geometry.Mid(start, end)

	var best geometry.Point
	bestClearance := math.Inf(-1)
	for off := MinOffset; off <= MaxOffset; off += OffsetStep {
		for _, dir := range []float64{1, -1} {
			candidate := mid.Add(normal.Scale(off * dir))
			if c := clearance(candidate, obstacles); c > bestClearance {
				best, bestClearance = candidate, c
			}
		}
	}
	if bestClearance <= 0 {
		best = mid.Add(normal.Scale(FallbackOffset))
	}
	return &best
}

// clearance is the smallest gap between p and any obstacle, each obstacle
// approximated by a circle of half its larger side around its center.
func clearance(p geometry.Point, obstacles []*element.Element) float64 {
	least := math.Inf(1)
	for _, o := range obstacles {
		b := element.Bounds(o)
		gap := geometry.Distance(p, b.Center()) - math.Max(b.Width, b.Height)/2
		least = math.Min(least, gap)
	}
	return least
}

// Route recomputes conn's control point from its resolved endpoints and
// stores it. Lines and arrows only; other elements are left alone.
func Route(s *scene.Scene, conn *element.Element) *geometry.Point {
	c := conn.Connector()
	if c == nil {
		return nil
	}
	start, end := s.Endpoints(conn)
	c.ControlPoint = ControlPoint(start, end, Obstacles(s, conn, start, end))
	return c.ControlPoint
}
