package editor

import (
	"github.com/samber/lo"

	"github.com/KennethOlivas/zen-draw-sub000/element"
)

// Delete removes the selection in one history entry.
func (e *Editor) Delete() error {
	if !e.canEdit {
		return ErrReadOnly
	}
	if len(e.selected) == 0 {
		return nil
	}
	n := e.scene.Remove(e.selected...)
	e.selected = nil
	if n > 0 {
		e.commit("delete")
	}
	return nil
}

// Duplicate copies the selection next to itself and selects the copies.
func (e *Editor) Duplicate() error {
	if !e.canEdit {
		return ErrReadOnly
	}
	picked := e.resolvedSelection()
	if len(picked) == 0 {
		return nil
	}
	e.insertCopies(picked, "duplicate")
	return nil
}

func (e *Editor) resolvedSelection() []*element.Element {
	picked := e.scene.Pick(e.selected)
	for i, el := range picked {
		picked[i] = e.scene.Resolve(el)
	}
	return picked
}

func (e *Editor) insertCopies(elements []*element.Element, reason string) {
	copies := element.Duplicate(elements, PasteOffset, PasteOffset)
	e.scene.Add(copies...)
	e.selected = lo.Map(copies, func(c *element.Element, _ int) string { return c.ID })
	e.commit(reason)
}

func (e *Editor) SendToBack() error   { return e.layer("send to back", e.scene.SendToBack) }
func (e *Editor) SendBackward() error { return e.layer("send backward", e.scene.SendBackward) }
func (e *Editor) BringForward() error { return e.layer("bring forward", e.scene.BringForward) }
func (e *Editor) BringToFront() error { return e.layer("bring to front", e.scene.BringToFront) }

func (e *Editor) layer(reason string, op func([]string) bool) error {
	if !e.canEdit {
		return ErrReadOnly
	}
	if len(e.selected) > 0 && op(e.selected) {
		e.commit(reason)
	}
	return nil
}

// ApplyStyle updates the default style for new elements and, when something
// is selected, restyles the selection in one history entry.
func (e *Editor) ApplyStyle(patch element.StylePatch) error {
	next := patch.Apply(e.style)
	if err := next.Validate(); err != nil {
		return err
	}
	picked := e.scene.Pick(e.selected)
	if len(picked) > 0 && !e.canEdit {
		return ErrReadOnly
	}
	e.style = next
	if len(picked) == 0 {
		return nil
	}
	for _, el := range picked {
		el.Style = patch.Apply(el.Style)
	}
	e.commit("style")
	return nil
}
