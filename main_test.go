package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KennethOlivas/zen-draw-sub000/document"
	"github.com/KennethOlivas/zen-draw-sub000/element"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeDrawing(t *testing.T, dir string) string {
	t.Helper()
	style := element.DefaultStyle()
	style.Roughness = 0
	el := &element.Element{ID: "r", X: 0, Y: 0, Width: 100, Height: 50, Seed: 1, Style: style, Shape: &element.Rectangle{}}
	path := filepath.Join(dir, "drawing.json")
	require.NoError(t, document.WriteFile(path, document.New([]*element.Element{el}, "#fafafa")))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "zendraw dev")
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeDrawing(t, dir)

	svgPath := filepath.Join(dir, "out.svg")
	_, err := execute(t, "export", in, svgPath)
	require.NoError(t, err)
	data, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
	assert.Contains(t, string(data), "fill:#fafafa", "uses the drawing background by default")

	pngPath := filepath.Join(dir, "out.png")
	_, err = execute(t, "export", in, pngPath, "--scale", "2", "--padding", "0")
	require.NoError(t, err)
	f, err := os.Open(pngPath)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 204, cfg.Width)
	assert.Equal(t, 104, cfg.Height)

	_, err = execute(t, "export", in, filepath.Join(dir, "out.gif"))
	assert.Error(t, err)
}

func TestThumbnailCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeDrawing(t, dir)
	out := filepath.Join(dir, "thumb.png")
	_, err := execute(t, "thumbnail", in, out, "--size", "64")
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
}

func TestProjectCommands(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "projects.db")
	project := func(user string, args ...string) (string, error) {
		return execute(t, append([]string{"project", "--db", db, "--user", user}, args...)...)
	}

	out, err := project("alice", "create", "Sketch")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	_, err = project("alice", "import", id, writeDrawing(t, dir))
	require.NoError(t, err)

	out, err = project("alice", "list")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "Sketch")

	copyPath := filepath.Join(dir, "copy.json")
	_, err = project("bob", "export", id, copyPath)
	assert.Error(t, err, "private projects are hidden from others")

	_, err = project("alice", "share", id, "view")
	require.NoError(t, err)
	_, err = project("bob", "export", id, copyPath)
	require.NoError(t, err)
	d, err := document.ReadFile(copyPath)
	require.NoError(t, err)
	assert.Len(t, d.Elements, 1)
	assert.Equal(t, "#fafafa", d.BackgroundColor)

	_, err = project("bob", "import", id, copyPath)
	assert.Error(t, err, "view-only projects reject saves")
	_, err = project("alice", "share", id, "public")
	assert.Error(t, err)

	_, err = project("alice", "rename", id, "Renamed")
	require.NoError(t, err)
	_, err = project("alice", "delete", id)
	require.NoError(t, err)
	out, err = project("alice", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, id)
}
