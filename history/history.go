// Package history keeps deep snapshots of the element list and selection
// for undo and redo.
package history

import (
	"github.com/flanksource/commons/logger"

	"github.com/KennethOlivas/zen-draw-sub000/element"
)

const DefaultDepth = 100

var log = logger.GetLogger("history")

// Snapshot is one committed instant. It never aliases live elements.
type Snapshot struct {
	Reason   string
	Elements []*element.Element
	Selected []string
}

func NewSnapshot(reason string, elements []*element.Element, selected []string) Snapshot {
	return Snapshot{
		Reason:   reason,
		Elements: element.CloneAll(elements),
		Selected: append([]string(nil), selected...),
	}
}

func (s Snapshot) Clone() Snapshot {
	return NewSnapshot(s.Reason, s.Elements, s.Selected)
}

// ApplyFunc installs a restored snapshot into the live document. It receives
// a private copy it may keep.
type ApplyFunc func(Snapshot)

// History is a bounded snapshot stack with a cursor. Committing after an
// undo drops the redo future; committing past the bound drops the oldest.
// Undo and Redo hand the target snapshot to the ApplyFunc, and commits
// made from inside it are ignored.
type History struct {
	states   []Snapshot
	current  int
	max      int
	apply    ApplyFunc
	applying bool
}

func New(max int, apply ApplyFunc) *History {
	if max <= 0 {
		max = DefaultDepth
	}
	return &History{
		states:  make([]Snapshot, 0, max),
		current: -1,
		max:     max,
		apply:   apply,
	}
}

// Commit stores a deep copy of elements and selected and reports whether
// an entry was recorded.
func (h *History) Commit(reason string, elements []*element.Element, selected []string) bool {
	if h.applying {
		return false
	}
	if h.current < len(h.states)-1 {
		h.states = h.states[:h.current+1]
	}
	h.states = append(h.states, NewSnapshot(reason, elements, selected))
	if len(h.states) > h.max {
		h.states = h.states[1:]
	} else {
		h.current++
	}
	log.Debugf("%s: commit %d/%d (%d elements)", reason, h.current+1, len(h.states), len(elements))
	return true
}

// Rebase forgets every entry and makes elements the new baseline.
func (h *History) Rebase(elements []*element.Element) {
	h.states = h.states[:0]
	h.current = -1
	h.Commit("load", elements, nil)
}

func (h *History) CanUndo() bool {
	return h.current > 0
}

func (h *History) CanRedo() bool {
	return h.current < len(h.states)-1
}

// Undo steps back and applies the earlier state.
func (h *History) Undo() bool {
	if !h.CanUndo() {
		return false
	}
	log.Debugf("undo %s", h.states[h.current].Reason)
	h.current--
	h.restore()
	return true
}

// Redo steps forward and applies the later state.
func (h *History) Redo() bool {
	if !h.CanRedo() {
		return false
	}
	h.current++
	log.Debugf("redo %s", h.states[h.current].Reason)
	h.restore()
	return true
}

func (h *History) restore() {
	if h.apply == nil {
		return
	}
	h.applying = true
	defer func() { h.applying = false }()
	h.apply(h.states[h.current].Clone())
}

// UndoReason names the change Undo would revert.
func (h *History) UndoReason() (string, bool) {
	if !h.CanUndo() {
		return "", false
	}
	return h.states[h.current].Reason, true
}

// RedoReason names the change Redo would reapply.
func (h *History) RedoReason() (string, bool) {
	if !h.CanRedo() {
		return "", false
	}
	return h.states[h.current+1].Reason, true
}

func (h *History) Len() int {
	return len(h.states)
}

// Position returns the 1-based cursor and the number of stored states.
func (h *History) Position() (current, total int) {
	return h.current + 1, len(h.states)
}
