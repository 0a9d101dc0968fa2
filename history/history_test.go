package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KennethOlivas/zen-draw-sub000/element"
)

func rect(id string) *element.Element {
	return &element.Element{ID: id, Width: 10, Height: 10, Seed: 1, Style: element.DefaultStyle(), Shape: &element.Rectangle{}}
}

// recorder is an ApplyFunc target that remembers the last applied snapshot.
type recorder struct {
	last    Snapshot
	applied int
}

func (r *recorder) apply(s Snapshot) {
	r.last = s
	r.applied++
}

func TestUndoRedoRoundTrip(t *testing.T) {
	var r recorder
	h := New(0, r.apply)
	h.Rebase(nil)

	a, b := rect("a"), rect("b")
	live := []*element.Element{a}
	h.Commit("draw", live, []string{"a"})
	live = append(live, b)
	h.Commit("draw", live, nil)
	want := element.CloneAll(live)

	require.True(t, h.Undo())
	assert.Len(t, r.last.Elements, 1)
	require.True(t, h.Undo())
	assert.Empty(t, r.last.Elements)
	assert.False(t, h.Undo(), "baseline is the floor")
	assert.Equal(t, 2, r.applied)

	h.Redo()
	require.True(t, h.Redo())
	assert.Equal(t, want, r.last.Elements)
	assert.False(t, h.CanRedo())
}

func TestSnapshotsDoNotAlias(t *testing.T) {
	var r recorder
	h := New(10, r.apply)
	a := rect("a")
	h.Commit("draw", []*element.Element{a}, []string{"a"})
	h.Commit("clear", nil, nil)
	a.X = 500

	require.True(t, h.Undo())
	assert.Equal(t, 0.0, r.last.Elements[0].X)

	r.last.Elements[0].X = 42
	h.Redo()
	h.Undo()
	assert.Equal(t, 0.0, r.last.Elements[0].X, "restored copies are independent of history")
	assert.Equal(t, []string{"a"}, r.last.Selected)
}

func TestCommitsWhileApplyingAreIgnored(t *testing.T) {
	var h *History
	h = New(10, func(s Snapshot) {
		assert.False(t, h.Commit("echo", s.Elements, s.Selected))
	})
	h.Rebase(nil)
	h.Commit("draw", []*element.Element{rect("a")}, nil)

	require.True(t, h.Undo())
	_, total := h.Position()
	assert.Equal(t, 2, total)
	assert.True(t, h.CanRedo())
	assert.True(t, h.Commit("draw", nil, nil), "commits resume after the restore")
}

func TestReasons(t *testing.T) {
	h := New(10, nil)
	h.Rebase(nil)
	_, ok := h.UndoReason()
	assert.False(t, ok)

	h.Commit("move", nil, nil)
	reason, ok := h.UndoReason()
	require.True(t, ok)
	assert.Equal(t, "move", reason)

	h.Undo()
	reason, ok = h.RedoReason()
	require.True(t, ok)
	assert.Equal(t, "move", reason)
}

func TestCommitTruncatesRedo(t *testing.T) {
	h := New(10, nil)
	h.Rebase(nil)
	h.Commit("draw", []*element.Element{rect("a")}, nil)
	h.Undo()
	require.True(t, h.CanRedo())

	h.Commit("draw", []*element.Element{rect("b")}, nil)
	assert.False(t, h.CanRedo())
	cur, total := h.Position()
	assert.Equal(t, 2, cur)
	assert.Equal(t, 2, total)
}

func TestDepthIsBounded(t *testing.T) {
	h := New(5, nil)
	for i := 0; i < 20; i++ {
		h.Commit("draw", []*element.Element{rect("x")}, nil)
		assert.LessOrEqual(t, h.Len(), 5)
	}
	undos := 0
	for h.CanUndo() {
		h.Undo()
		undos++
	}
	assert.Equal(t, 4, undos)
}

func TestRebase(t *testing.T) {
	h := New(3, nil)
	h.Commit("draw", nil, nil)
	h.Commit("draw", nil, nil)
	h.Rebase([]*element.Element{rect("a")})
	assert.Equal(t, 1, h.Len())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}
