// Package scene owns the ordered element sequence. Index 0 is the bottom of
// the z-order. It resolves connector bindings against live element geometry
// and answers the picking queries the editor needs.
package scene

import (
	"github.com/samber/lo"

	"github.com/KennethOlivas/zen-draw-sub000/element"
	"github.com/KennethOlivas/zen-draw-sub000/geometry"
)

type Scene struct {
	Elements []*element.Element
}

func New(elements ...*element.Element) *Scene {
	return &Scene{Elements: elements}
}

func (s *Scene) Len() int {
	return len(s.Elements)
}

func (s *Scene) IndexOf(id string) int {
	for i, e := range s.Elements {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the element with id, or nil.
func (s *Scene) Find(id string) *element.Element {
	if i := s.IndexOf(id); i >= 0 {
		return s.Elements[i]
	}
	return nil
}

// Add appends elements on top of the z-order.
func (s *Scene) Add(elements ...*element.Element) {
	s.Elements = append(s.Elements, elements...)
}

// Remove deletes every element whose id is listed and returns how many went.
func (s *Scene) Remove(ids ...string) int {
	set := toSet(ids)
	before := len(s.Elements)
	s.Elements = lo.Filter(s.Elements, func(e *element.Element, _ int) bool {
		_, gone := set[e.ID]
		return !gone
	})
	return before - len(s.Elements)
}

// Clone deep-copies the scene.
func (s *Scene) Clone() *Scene {
	return &Scene{Elements: element.CloneAll(s.Elements)}
}

func (s *Scene) IDs() []string {
	return lo.Map(s.Elements, func(e *element.Element, _ int) string { return e.ID })
}

// Pick returns the listed elements in z-order, skipping unknown ids.
func (s *Scene) Pick(ids []string) []*element.Element {
	set := toSet(ids)
	return lo.Filter(s.Elements, func(e *element.Element, _ int) bool {
		_, ok := set[e.ID]
		return ok
	})
}

// ElementAt hit-tests back to front and returns the topmost element under p.
func (s *Scene) ElementAt(p geometry.Point, padding float64) *element.Element {
	for i := len(s.Elements) - 1; i >= 0; i-- {
		if element.Contains(s.Resolve(s.Elements[i]), p, padding) {
			return s.Elements[i]
		}
	}
	return nil
}

// Intersecting lists, in z-order, the ids of elements whose bounds touch r.
func (s *Scene) Intersecting(r geometry.Rect) []string {
	var ids []string
	for _, e := range s.Elements {
		if element.Bounds(s.Resolve(e)).Intersects(r) {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
