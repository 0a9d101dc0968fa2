package element

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KennethOlivas/zen-draw-sub000/geometry"
)

// wireElement is the flat on-disk form: one object per element, a type tag and
// the union of every variant's fields.
type wireElement struct {
	ID     string  `json:"id"`
	Type   Kind    `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Seed   int64   `json:"seed"`
	Style

	Points       []geometry.Point `json:"points,omitempty"`
	Text         string           `json:"text,omitempty"`
	FontSize     float64          `json:"fontSize,omitempty"`
	StartBinding *Binding         `json:"startBinding,omitempty"`
	EndBinding   *Binding         `json:"endBinding,omitempty"`
	ControlPoint *geometry.Point  `json:"controlPoint,omitempty"`
}

func (e Element) MarshalJSON() ([]byte, error) {
	w := wireElement{
		ID:     e.ID,
		Type:   e.Kind(),
		X:      e.X,
		Y:      e.Y,
		Width:  e.Width,
		Height: e.Height,
		Seed:   e.Seed,
		Style:  e.Style,
	}
	switch s := e.Shape.(type) {
	case *Rectangle, *Ellipse, *Diamond:
	case *Line:
		w.StartBinding, w.EndBinding, w.ControlPoint = s.StartBinding, s.EndBinding, s.ControlPoint
	case *Arrow:
		w.StartBinding, w.EndBinding, w.ControlPoint = s.StartBinding, s.EndBinding, s.ControlPoint
	case *Freehand:
		w.Points = s.Points
	case *Text:
		w.Text, w.FontSize = s.Content, s.FontSize
	default:
		panic(fmt.Sprintf("element: unhandled shape %T", s))
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the flat form. Style fields absent from the input keep
// their defaults.
func (e *Element) UnmarshalJSON(data []byte) error {
	w := wireElement{Style: DefaultStyle()}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	shape, err := NewShape(w.Type)
	if err != nil {
		return err
	}
	switch s := shape.(type) {
	case *Rectangle, *Ellipse, *Diamond:
	case *Line:
		s.Connector = Connector{StartBinding: w.StartBinding, EndBinding: w.EndBinding, ControlPoint: w.ControlPoint}
	case *Arrow:
		s.Connector = Connector{StartBinding: w.StartBinding, EndBinding: w.EndBinding, ControlPoint: w.ControlPoint}
	case *Freehand:
		s.Points = w.Points
	case *Text:
		s.Content = w.Text
		if w.FontSize > 0 {
			s.FontSize = w.FontSize
		}
	default:
		panic(fmt.Sprintf("element: unhandled shape %T", s))
	}
	*e = Element{
		ID:     w.ID,
		X:      w.X,
		Y:      w.Y,
		Width:  w.Width,
		Height: w.Height,
		Seed:   w.Seed,
		Style:  w.Style,
		Shape:  shape,
	}
	return nil
}

// Validate checks an element decoded from outside the process.
func (e *Element) Validate() error {
	if e.ID == "" {
		return errors.New("missing id")
	}
	if e.Shape == nil {
		return fmt.Errorf("element %s: missing shape", e.ID)
	}
	if !geometry.Finite(e.X, e.Y, e.Width, e.Height, e.Style.StrokeWidth, e.Style.Rotation) {
		return fmt.Errorf("element %s: non-finite geometry", e.ID)
	}
	if err := e.Style.Validate(); err != nil {
		return fmt.Errorf("element %s: %w", e.ID, err)
	}
	if c := e.Connector(); c != nil {
		for _, b := range []*Binding{c.StartBinding, c.EndBinding} {
			if b != nil && !b.Point.Valid() {
				return fmt.Errorf("element %s: unknown connection point %q", e.ID, b.Point)
			}
		}
		if c.ControlPoint != nil && !geometry.Finite(c.ControlPoint.X, c.ControlPoint.Y) {
			return fmt.Errorf("element %s: non-finite control point", e.ID)
		}
	}
	if f, ok := e.Shape.(*Freehand); ok {
		for _, p := range f.Points {
			if !geometry.Finite(p.X, p.Y) {
				return fmt.Errorf("element %s: non-finite point", e.ID)
			}
		}
	}
	return nil
}
