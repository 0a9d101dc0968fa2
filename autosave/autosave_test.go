package autosave

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KennethOlivas/zen-draw-sub000/document"
	"github.com/KennethOlivas/zen-draw-sub000/element"
)

func drawing(ids ...string) document.Document {
	var elements []*element.Element
	for i, id := range ids {
		elements = append(elements, &element.Element{ID: id, X: float64(i * 10), Width: 5, Height: 5, Seed: 1,
			Style: element.DefaultStyle(), Shape: &element.Ellipse{}})
	}
	return document.New(elements, "")
}

func savedIDs(t *testing.T, path string) []string {
	t.Helper()
	d, err := document.ReadFile(path)
	require.NoError(t, err)
	var ids []string
	for _, e := range d.Elements {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestLoadMissingGivesEmptyDrawing(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "autosave.json"), 0)
	d, found, err := s.Load()
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, d.Elements)
	assert.Equal(t, document.DefaultBackground, d.BackgroundColor)
}

func TestLoadCorruptGivesEmptyDrawingAndError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autosave.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	d, found, err := New(path, 0).Load()
	assert.ErrorIs(t, err, document.ErrInvalid)
	assert.False(t, found)
	assert.Empty(t, d.Elements)
}

func TestDebouncedWriteKeepsLatest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "autosave.json")
	s := New(path, 20*time.Millisecond)

	require.NoError(t, s.Schedule(drawing("a")))
	require.NoError(t, s.Schedule(drawing("a", "b")))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "nothing written before the delay")

	require.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, savedIDs(t, path))

	d, found, err := s.Load()
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, d.Elements, 2)
}

func TestScheduleCapturesBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autosave.json")
	s := New(path, time.Hour)
	d := drawing("a")
	require.NoError(t, s.Schedule(d))
	d.Elements[0].ID = "changed"
	require.NoError(t, s.Flush())
	assert.Equal(t, []string{"a"}, savedIDs(t, path))
}

func TestFlushWithoutPendingIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autosave.json")
	require.NoError(t, New(path, 0).Flush())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autosave.json")
	s := New(path, 20*time.Millisecond)
	require.NoError(t, s.Schedule(drawing("a")))
	require.NoError(t, s.Flush())
	require.FileExists(t, path)

	require.NoError(t, s.Schedule(drawing("a", "b")))
	require.NoError(t, s.Clear())
	time.Sleep(60 * time.Millisecond)
	assert.NoFileExists(t, path, "pending write dropped")
	require.NoError(t, s.Clear(), "clearing twice is fine")
}
