package editor

import (
	"github.com/KennethOlivas/zen-draw-sub000/document"
)

// Clipboard is the system clipboard as seen by the editor.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// Copy puts the selection on the clipboard with bound endpoints baked in.
// Clipboard failures are logged and otherwise ignored.
func (e *Editor) Copy() {
	picked := e.resolvedSelection()
	if len(picked) == 0 || e.clipboard == nil {
		return
	}
	data, err := document.EncodeClipboard(picked)
	if err != nil {
		log.Debugf("copy: %v", err)
		return
	}
	if err := e.clipboard.WriteText(string(data)); err != nil {
		log.Debugf("copy: clipboard unavailable: %v", err)
	}
}

func (e *Editor) Cut() error {
	if !e.canEdit {
		return ErrReadOnly
	}
	e.Copy()
	return e.Delete()
}

// Paste inserts clipboard elements offset from their source with fresh ids
// and seeds. Anything that is not an element envelope is ignored.
func (e *Editor) Paste() error {
	if !e.canEdit {
		return ErrReadOnly
	}
	if e.clipboard == nil {
		return nil
	}
	text, err := e.clipboard.ReadText()
	if err != nil {
		log.Debugf("paste: clipboard unavailable: %v", err)
		return nil
	}
	elements, err := document.DecodeClipboard(text)
	if err != nil {
		log.Debugf("paste: %v", err)
		return nil
	}
	if len(elements) == 0 {
		return nil
	}
	e.insertCopies(elements, "paste")
	return nil
}
