package editor

import (
	"github.com/KennethOlivas/zen-draw-sub000/document"
	"github.com/KennethOlivas/zen-draw-sub000/element"
)

// Document snapshots the drawing for saving.
func (e *Editor) Document() document.Document {
	return document.New(element.CloneAll(e.scene.Elements), e.background)
}

// LoadDocument replaces every element, clears the selection and commits
// once. The document is validated first; on error nothing changes.
func (e *Editor) LoadDocument(d document.Document) error {
	if !e.canEdit {
		return ErrReadOnly
	}
	if err := document.ValidateElements(d.Elements); err != nil {
		return err
	}
	e.text = nil
	e.resetGesture()
	e.scene.Elements = element.CloneAll(d.Elements)
	e.selected = nil
	if d.BackgroundColor != "" {
		e.background = d.BackgroundColor
	}
	e.commit("load document")
	return nil
}

// Load decodes and loads a saved drawing.
func (e *Editor) Load(data []byte) error {
	d, err := document.Decode(data)
	if err != nil {
		return err
	}
	return e.LoadDocument(d)
}

// Bundle is the project payload for the persistence layer.
func (e *Editor) Bundle() document.Bundle {
	return document.Bundle{
		Elements:        element.CloneAll(e.scene.Elements),
		Viewport:        e.viewport,
		BackgroundColor: e.background,
	}
}

// LoadBundle opens a project: elements, viewport and background are
// replaced and history restarts from the loaded state.
func (e *Editor) LoadBundle(b document.Bundle) error {
	if err := document.ValidateElements(b.Elements); err != nil {
		return err
	}
	e.text = nil
	e.resetGesture()
	e.scene.Elements = element.CloneAll(b.Elements)
	e.selected = nil
	e.SetViewport(b.Viewport)
	if b.BackgroundColor != "" {
		e.background = b.BackgroundColor
	}
	e.history.Rebase(e.scene.Elements)
	e.notify()
	return nil
}

// Clear empties the canvas as one undoable step.
func (e *Editor) Clear() error {
	if !e.canEdit {
		return ErrReadOnly
	}
	if e.scene.Len() == 0 {
		return nil
	}
	e.scene.Elements = nil
	e.selected = nil
	e.commit("clear")
	return nil
}
