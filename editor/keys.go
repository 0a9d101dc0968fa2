package editor

import "unicode/utf8"

// Key is a key press. Name is a lower-case key name ("a", "delete",
// "escape", "enter", "[") or a single printable character.
type Key struct {
	Name string
	Modifiers
}

// KeyDown dispatches a key press. While a text field is open, keys edit the
// text; otherwise they run shortcuts.
func (e *Editor) KeyDown(k Key) error {
	if e.text != nil {
		return e.textKey(k)
	}

	if k.Command() {
		switch k.Name {
		case "z":
			if k.Shift {
				return e.Redo()
			}
			return e.Undo()
		case "y":
			return e.Redo()
		case "d":
			return e.Duplicate()
		case "a":
			e.SelectAll()
			return nil
		case "c":
			e.Copy()
			return nil
		case "x":
			return e.Cut()
		case "v":
			return e.Paste()
		case "[":
			if k.Shift {
				return e.SendToBack()
			}
			return e.SendBackward()
		case "]":
			if k.Shift {
				return e.BringToFront()
			}
			return e.BringForward()
		case "0":
			e.SetViewport(e.viewport.ZoomAt(1, e.origin, e.origin))
			return nil
		}
		return nil
	}

	switch k.Name {
	case "delete", "backspace":
		return e.Delete()
	case "escape":
		e.ClearSelection()
		return nil
	}
	if t, ok := toolKeys[k.Name]; ok {
		e.SetTool(t)
	}
	return nil
}

func (e *Editor) textKey(k Key) error {
	switch k.Name {
	case "escape":
		e.CancelText()
	case "enter":
		if k.Shift {
			e.TextInput("\n")
			return nil
		}
		return e.CommitText()
	case "backspace":
		e.TextBackspace()
	case "space":
		e.TextInput(" ")
	default:
		if !k.Command() && utf8.RuneCountInString(k.Name) == 1 {
			e.TextInput(k.Name)
		}
	}
	return nil
}
