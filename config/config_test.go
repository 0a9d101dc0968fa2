package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KennethOlivas/zen-draw-sub000/editor"
	"github.com/KennethOlivas/zen-draw-sub000/element"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestMissingFileGivesDefaults(t *testing.T) {
	c, err := LoadFile(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Equal(t, editor.DefaultGrid(), c.Grid)
	assert.Equal(t, element.DefaultStyle(), c.Style)
	assert.True(t, c.Autosave.Enabled)
	assert.True(t, filepath.IsAbs(c.Autosave.Path))
	assert.Equal(t, time.Second, c.Autosave.Delay)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
saveDirectory: drawings
historyDepth: 50
background: "#101010"
grid:
  size: 40
  snap: true
  mode: mesh
style:
  strokeColor: "#e03131"
  roughness: 2
autosave:
  delay: 250ms
store:
  user: alice
`)
	c, err := LoadFile(path)
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(c.SaveDirectory))
	assert.Equal(t, "drawings", filepath.Base(c.SaveDirectory))
	assert.Equal(t, 50, c.HistoryDepth)
	assert.Equal(t, editor.GridConfig{Size: 40, Snap: true, Mode: editor.GridMesh}, c.Grid)
	assert.Equal(t, "#e03131", c.Style.StrokeColor)
	assert.Equal(t, 2, c.Style.Roughness)
	assert.Equal(t, 2.0, c.Style.StrokeWidth, "unset style keys keep defaults")
	assert.Equal(t, 250*time.Millisecond, c.Autosave.Delay)
	assert.Equal(t, "alice", c.Store.User)

	opts := c.EditorOptions()
	assert.Equal(t, c.Grid, opts.Grid)
	assert.Equal(t, c.Style, opts.Style)
	assert.Equal(t, 50, opts.HistoryDepth)
	assert.Equal(t, "#101010", opts.Background)
}

func TestInvalidConfigFallsBack(t *testing.T) {
	tests := map[string]string{
		"syntax":    "grid: [",
		"grid mode": "grid:\n  mode: hex\n",
		"grid size": "grid:\n  size: 0\n",
		"roughness": "style:\n  roughness: 7\n",
		"history":   "historyDepth: 0\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			c, err := LoadFile(writeConfig(t, body))
			assert.Error(t, err)
			assert.Equal(t, editor.DefaultGrid(), c.Grid)
			assert.Equal(t, element.DefaultStyle(), c.Style)
		})
	}
}

func TestExpandPath(t *testing.T) {
	assert.Equal(t, "/home/me/x", expandPath("~/x", "/home/me"))
	assert.Equal(t, "/home/me", expandPath("~", "/home/me"))
	assert.Equal(t, "/abs", expandPath("/abs", "/home/me"))
	assert.Equal(t, "", expandPath("", "/home/me"))
}

func TestGetSavePath(t *testing.T) {
	c := Default()
	assert.Equal(t, "a.json", c.GetSavePath("a.json"))

	dir := filepath.Join(t.TempDir(), "saves")
	c.SaveDirectory = dir
	assert.Equal(t, filepath.Join(dir, "a.json"), c.GetSavePath("a.json"))
	assert.DirExists(t, dir)
	assert.Equal(t, "/tmp/b.json", c.GetSavePath("/tmp/b.json"))
}
