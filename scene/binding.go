package scene

import (
	"github.com/KennethOlivas/zen-draw-sub000/element"
	"github.com/KennethOlivas/zen-draw-sub000/geometry"
)

// BindingPoint looks up the live position a binding refers to. A dangling
// binding reports false.
func (s *Scene) BindingPoint(b *element.Binding) (geometry.Point, bool) {
	if b == nil {
		return geometry.Point{}, false
	}
	target := s.Find(b.ElementID)
	if target == nil {
		return geometry.Point{}, false
	}
	return element.ConnectionPointAt(target, b.Point)
}

// Endpoints returns a connector's start and end, taking bound endpoints from
// their targets and falling back to the stored coordinates otherwise.
func (s *Scene) Endpoints(e *element.Element) (start, end geometry.Point) {
	start, end = e.Start(), e.End()
	c := e.Connector()
	if c == nil {
		return start, end
	}
	if p, ok := s.BindingPoint(c.StartBinding); ok {
		start = p
	}
	if p, ok := s.BindingPoint(c.EndBinding); ok {
		end = p
	}
	return start, end
}

// Resolve returns e ready to draw. Connectors with live bindings come back as
// a shallow copy carrying the resolved endpoints; the stored element is never
// modified. Everything else is returned as is.
func (s *Scene) Resolve(e *element.Element) *element.Element {
	c := e.Connector()
	if c == nil || (c.StartBinding == nil && c.EndBinding == nil) {
		return e
	}
	start, end := s.Endpoints(e)
	if start == e.Start() && end == e.End() {
		return e
	}
	r := *e
	r.SetEndpoints(start, end)
	return &r
}

// Resolved returns every element in z-order, connectors resolved.
func (s *Scene) Resolved() []*element.Element {
	out := make([]*element.Element, len(s.Elements))
	for i, e := range s.Elements {
		out[i] = s.Resolve(e)
	}
	return out
}

// BoundTo lists connectors with at least one endpoint bound to id.
func (s *Scene) BoundTo(id string) []*element.Element {
	var out []*element.Element
	for _, e := range s.Elements {
		c := e.Connector()
		if c == nil {
			continue
		}
		if (c.StartBinding != nil && c.StartBinding.ElementID == id) ||
			(c.EndBinding != nil && c.EndBinding.ElementID == id) {
			out = append(out, e)
		}
	}
	return out
}
