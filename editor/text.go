package editor

import (
	"strings"
	"unicode/utf8"

	"github.com/KennethOlivas/zen-draw-sub000/element"
	"github.com/KennethOlivas/zen-draw-sub000/geometry"
)

// TextEdit is an open in-place text field. ElementID is empty for new text.
type TextEdit struct {
	ElementID string
	Anchor    geometry.Point
	Content   string
}

// TextEdit returns the open text field, or nil.
func (e *Editor) TextEdit() *TextEdit {
	if e.text == nil {
		return nil
	}
	t := *e.text
	return &t
}

func (e *Editor) openText(t *TextEdit) {
	e.text = t
	e.mode = ModeTextEdit
}

// TextInput appends typed text to the open field.
func (e *Editor) TextInput(s string) {
	if e.text != nil {
		e.text.Content += s
	}
}

// TextBackspace removes the last rune of the open field.
func (e *Editor) TextBackspace() {
	if e.text == nil || e.text.Content == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(e.text.Content)
	e.text.Content = e.text.Content[:len(e.text.Content)-size]
}

// CommitText closes the field. Blank content creates nothing, or deletes the
// element being edited.
func (e *Editor) CommitText() error {
	t := e.text
	if t == nil {
		return nil
	}
	e.text = nil
	e.mode = ModeIdle
	if !e.canEdit {
		return ErrReadOnly
	}
	blank := strings.TrimSpace(t.Content) == ""

	if t.ElementID == "" {
		if blank {
			return nil
		}
		el, err := element.New(element.KindText, t.Anchor, e.style)
		if err != nil {
			return err
		}
		setText(el, t.Content)
		e.scene.Add(el)
		e.commit("add text")
		return nil
	}

	el := e.scene.Find(t.ElementID)
	if el == nil {
		return nil
	}
	if blank {
		e.scene.Remove(el.ID)
		e.dropFromSelection(el.ID)
		e.commit("delete text")
		return nil
	}
	if el.Shape.(*element.Text).Content == t.Content {
		return nil
	}
	setText(el, t.Content)
	e.commit("edit text")
	return nil
}

// CancelText closes the field without touching any element.
func (e *Editor) CancelText() {
	e.text = nil
	if e.mode == ModeTextEdit {
		e.mode = ModeIdle
	}
}

// Blur commits the open field, as losing focus does.
func (e *Editor) Blur() error {
	return e.CommitText()
}

func setText(el *element.Element, content string) {
	t := el.Shape.(*element.Text)
	t.Content = content
	el.Width, el.Height = element.MeasureText(content, t.FontSize)
}
