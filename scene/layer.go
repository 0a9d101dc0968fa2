package scene

import (
	"github.com/samber/lo"

	"github.com/KennethOlivas/zen-draw-sub000/element"
)

// The layering operations reorder the listed ids and keep their relative
// order. Each reports whether anything moved.

func (s *Scene) SendToBack(ids []string) bool {
	set := toSet(ids)
	picked, rest := lo.FilterReject(s.Elements, func(e *element.Element, _ int) bool {
		_, ok := set[e.ID]
		return ok
	})
	return s.reorder(append(picked, rest...))
}

func (s *Scene) BringToFront(ids []string) bool {
	set := toSet(ids)
	picked, rest := lo.FilterReject(s.Elements, func(e *element.Element, _ int) bool {
		_, ok := set[e.ID]
		return ok
	})
	return s.reorder(append(rest, picked...))
}

func (s *Scene) SendBackward(ids []string) bool {
	set := toSet(ids)
	moved := false
	for i := 1; i < len(s.Elements); i++ {
		_, cur := set[s.Elements[i].ID]
		_, prev := set[s.Elements[i-1].ID]
		if cur && !prev {
			s.Elements[i], s.Elements[i-1] = s.Elements[i-1], s.Elements[i]
			moved = true
		}
	}
	return moved
}

func (s *Scene) BringForward(ids []string) bool {
	set := toSet(ids)
	moved := false
	for i := len(s.Elements) - 2; i >= 0; i-- {
		_, cur := set[s.Elements[i].ID]
		_, next := set[s.Elements[i+1].ID]
		if cur && !next {
			s.Elements[i], s.Elements[i+1] = s.Elements[i+1], s.Elements[i]
			moved = true
		}
	}
	return moved
}

func (s *Scene) reorder(next []*element.Element) bool {
	changed := false
	for i := range next {
		if next[i] != s.Elements[i] {
			changed = true
			break
		}
	}
	s.Elements = next
	return changed
}
