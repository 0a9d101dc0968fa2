package element

import (
	"strings"

	"github.com/KennethOlivas/zen-draw-sub000/geometry"
)

type HandleID string

const (
	HandleStart     HandleID = "start"
	HandleEnd       HandleID = "end"
	HandleNorthWest HandleID = "nw"
	HandleNorth     HandleID = "n"
	HandleNorthEast HandleID = "ne"
	HandleEast      HandleID = "e"
	HandleSouthEast HandleID = "se"
	HandleSouth     HandleID = "s"
	HandleSouthWest HandleID = "sw"
	HandleWest      HandleID = "w"
)

// Handle is a grab point for resizing.
type Handle struct {
	ID     HandleID
	Point  geometry.Point
	Cursor string
}

// Moves reports which box edges a corner/edge handle drags.
func (h HandleID) Moves() (left, right, top, bottom bool) {
	s := string(h)
	if h == HandleStart || h == HandleEnd {
		return
	}
	return strings.Contains(s, "w"), strings.Contains(s, "e"), strings.HasPrefix(s, "n"), strings.HasPrefix(s, "s")
}

// ResizeHandles lists the handles of e: the two endpoints for connectors,
// four corners and four edge midpoints otherwise.
func ResizeHandles(e *Element) []Handle {
	if e.IsConnector() {
		return []Handle{
			{ID: HandleStart, Point: e.Start(), Cursor: "move"},
			{ID: HandleEnd, Point: e.End(), Cursor: "move"},
		}
	}
	b := Bounds(e)
	c := b.Center()
	return []Handle{
		{ID: HandleNorthWest, Point: geometry.Pt(b.X, b.Y), Cursor: "nwse-resize"},
		{ID: HandleNorth, Point: geometry.Pt(c.X, b.Y), Cursor: "ns-resize"},
		{ID: HandleNorthEast, Point: geometry.Pt(b.MaxX(), b.Y), Cursor: "nesw-resize"},
		{ID: HandleEast, Point: geometry.Pt(b.MaxX(), c.Y), Cursor: "ew-resize"},
		{ID: HandleSouthEast, Point: geometry.Pt(b.MaxX(), b.MaxY()), Cursor: "nwse-resize"},
		{ID: HandleSouth, Point: geometry.Pt(c.X, b.MaxY()), Cursor: "ns-resize"},
		{ID: HandleSouthWest, Point: geometry.Pt(b.X, b.MaxY()), Cursor: "nesw-resize"},
		{ID: HandleWest, Point: geometry.Pt(b.X, c.Y), Cursor: "ew-resize"},
	}
}

// HandleAt returns the handle of e within radius of p, if any.
func HandleAt(e *Element, p geometry.Point, radius float64) (Handle, bool) {
	for _, h := range ResizeHandles(e) {
		if geometry.Distance(p, h.Point) <= radius {
			return h, true
		}
	}
	return Handle{}, false
}
