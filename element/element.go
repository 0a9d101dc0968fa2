// Package element defines the drawing element model: a closed set of shape
// variants sharing position, extent, seed and style, plus the shape-aware
// geometry (bounds, hit testing, connection points, resize handles).
package element

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/KennethOlivas/zen-draw-sub000/geometry"
)

type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindEllipse   Kind = "ellipse"
	KindDiamond   Kind = "diamond"
	KindLine      Kind = "line"
	KindArrow     Kind = "arrow"
	KindFreehand  Kind = "freehand"
	KindText      Kind = "text"
)

var Kinds = []Kind{KindRectangle, KindEllipse, KindDiamond, KindLine, KindArrow, KindFreehand, KindText}

// Shape carries the variant-specific data of an element. The set of
// implementations is closed: only this package can add one.
type Shape interface {
	Kind() Kind
	clone() Shape
}

type Rectangle struct{}

type Ellipse struct{}

type Diamond struct{}

// Connector is shared by lines and arrows.
type Connector struct {
	StartBinding *Binding
	EndBinding   *Binding
	// ControlPoint bends the connector into a quadratic curve. Canvas space.
	ControlPoint *geometry.Point
}

type Line struct {
	Connector
}

type Arrow struct {
	Connector
}

// Freehand points are absolute canvas coordinates; its bounds are derived from them.
type Freehand struct {
	Points []geometry.Point
}

type Text struct {
	Content  string
	FontSize float64
}

func (*Rectangle) Kind() Kind { return KindRectangle }
func (*Ellipse) Kind() Kind   { return KindEllipse }
func (*Diamond) Kind() Kind   { return KindDiamond }
func (*Line) Kind() Kind      { return KindLine }
func (*Arrow) Kind() Kind     { return KindArrow }
func (*Freehand) Kind() Kind  { return KindFreehand }
func (*Text) Kind() Kind      { return KindText }

func (*Rectangle) clone() Shape { return &Rectangle{} }
func (*Ellipse) clone() Shape   { return &Ellipse{} }
func (*Diamond) clone() Shape   { return &Diamond{} }
func (l *Line) clone() Shape    { return &Line{Connector: l.Connector.clone()} }
func (a *Arrow) clone() Shape   { return &Arrow{Connector: a.Connector.clone()} }
func (t *Text) clone() Shape    { c := *t; return &c }

func (f *Freehand) clone() Shape {
	return &Freehand{Points: append([]geometry.Point(nil), f.Points...)}
}

func (c Connector) clone() Connector {
	out := Connector{}
	if c.StartBinding != nil {
		b := *c.StartBinding
		out.StartBinding = &b
	}
	if c.EndBinding != nil {
		b := *c.EndBinding
		out.EndBinding = &b
	}
	if c.ControlPoint != nil {
		p := *c.ControlPoint
		out.ControlPoint = &p
	}
	return out
}

// Binding is a weak reference from a connector endpoint to a named
// connection point of another element.
type Binding struct {
	ElementID string          `json:"elementId"`
	Point     ConnectionPoint `json:"connectionPoint"`
}

// Element is one drawable item. Z-order is its index in the owning sequence.
type Element struct {
	ID     string
	X      float64
	Y      float64
	Width  float64
	Height float64
	Seed   int64
	Style  Style
	Shape  Shape
}

// NewShape returns the zero variant for kind.
func NewShape(kind Kind) (Shape, error) {
	switch kind {
	case KindRectangle:
		return &Rectangle{}, nil
	case KindEllipse:
		return &Ellipse{}, nil
	case KindDiamond:
		return &Diamond{}, nil
	case KindLine:
		return &Line{}, nil
	case KindArrow:
		return &Arrow{}, nil
	case KindFreehand:
		return &Freehand{}, nil
	case KindText:
		return &Text{FontSize: DefaultFontSize}, nil
	}
	return nil, fmt.Errorf("unknown element type %q", kind)
}

// New creates a zero-extent element of kind at p with a fresh id and seed.
func New(kind Kind, p geometry.Point, style Style) (*Element, error) {
	shape, err := NewShape(kind)
	if err != nil {
		return nil, err
	}
	e := &Element{
		ID:    NewID(),
		X:     p.X,
		Y:     p.Y,
		Seed:  NewSeed(),
		Style: style,
		Shape: shape,
	}
	if f, ok := shape.(*Freehand); ok {
		f.Points = []geometry.Point{p}
	}
	return e, nil
}

func NewID() string {
	return uuid.NewString()
}

// NewSeed returns a seed in the valid range of the renderer's generator.
func NewSeed() int64 {
	return rand.Int64N(2147483646) + 1
}

func (e *Element) Kind() Kind {
	return e.Shape.Kind()
}

// Connector returns the connector data of a line or arrow, nil otherwise.
func (e *Element) Connector() *Connector {
	switch s := e.Shape.(type) {
	case *Line:
		return &s.Connector
	case *Arrow:
		return &s.Connector
	}
	return nil
}

func (e *Element) IsConnector() bool {
	return e.Connector() != nil
}

// IsArea reports whether the element encloses a fillable area.
func (e *Element) IsArea() bool {
	switch e.Shape.(type) {
	case *Rectangle, *Ellipse, *Diamond:
		return true
	}
	return false
}

// Start and End are the stored endpoints of a connector.
func (e *Element) Start() geometry.Point {
	return geometry.Pt(e.X, e.Y)
}

func (e *Element) End() geometry.Point {
	return geometry.Pt(e.X+e.Width, e.Y+e.Height)
}

// SetEndpoints stores a connector's endpoints in its x/y/width/height.
func (e *Element) SetEndpoints(start, end geometry.Point) {
	e.X, e.Y = start.X, start.Y
	e.Width, e.Height = end.X-start.X, end.Y-start.Y
}

// Translate moves every canvas-space coordinate the element owns.
func (e *Element) Translate(dx, dy float64) {
	e.X += dx
	e.Y += dy
	switch s := e.Shape.(type) {
	case *Freehand:
		for i := range s.Points {
			s.Points[i].X += dx
			s.Points[i].Y += dy
		}
	case *Line:
		s.ControlPoint = shift(s.ControlPoint, dx, dy)
	case *Arrow:
		s.ControlPoint = shift(s.ControlPoint, dx, dy)
	}
}

func shift(p *geometry.Point, dx, dy float64) *geometry.Point {
	if p == nil {
		return nil
	}
	return &geometry.Point{X: p.X + dx, Y: p.Y + dy}
}

// Clone deep-copies the element; the copy shares nothing with e.
func (e *Element) Clone() *Element {
	c := *e
	c.Shape = e.Shape.clone()
	return &c
}

func CloneAll(elements []*Element) []*Element {
	out := make([]*Element, len(elements))
	for i, e := range elements {
		out[i] = e.Clone()
	}
	return out
}
