package geometry

const (
	MinZoom = 0.1
	MaxZoom = 5.0
)

// Viewport maps canvas space to screen space: screen = canvas*Zoom + Pan + origin.
type Viewport struct {
	Zoom float64 `json:"zoom"`
	Pan  Point   `json:"panOffset"`
}

func DefaultViewport() Viewport {
	return Viewport{Zoom: 1}
}

// ScreenToCanvas converts a screen point given the container origin.
func (v Viewport) ScreenToCanvas(screen, origin Point) Point {
	z := v.zoom()
	return Point{
		X: (screen.X - origin.X - v.Pan.X) / z,
		Y: (screen.Y - origin.Y - v.Pan.Y) / z,
	}
}

func (v Viewport) CanvasToScreen(p, origin Point) Point {
	z := v.zoom()
	return Point{
		X: p.X*z + v.Pan.X + origin.X,
		Y: p.Y*z + v.Pan.Y + origin.Y,
	}
}

// ZoomAt sets the zoom (clamped) keeping the canvas point under screen fixed.
func (v Viewport) ZoomAt(zoom float64, screen, origin Point) Viewport {
	anchor := v.ScreenToCanvas(screen, origin)
	zoom = Clamp(zoom, MinZoom, MaxZoom)
	return Viewport{
		Zoom: zoom,
		Pan: Point{
			X: screen.X - origin.X - anchor.X*zoom,
			Y: screen.Y - origin.Y - anchor.Y*zoom,
		},
	}
}

func (v Viewport) zoom() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}
