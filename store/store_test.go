package store

import (
	"bytes"
	"context"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KennethOlivas/zen-draw-sub000/document"
	"github.com/KennethOlivas/zen-draw-sub000/element"
	"github.com/KennethOlivas/zen-draw-sub000/geometry"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "projects.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleBundle() Bundle {
	r := &element.Element{ID: "r1", X: 10, Y: 20, Width: 100, Height: 50, Seed: 9,
		Style: element.DefaultStyle(), Shape: &element.Rectangle{}}
	return Bundle{
		Elements:        []*element.Element{r},
		Viewport:        geometry.Viewport{Zoom: 1.5, Pan: geometry.Pt(30, -40)},
		BackgroundColor: "#fafafa",
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	p, err := s.Create(ctx, "alice", "plan")
	require.NoError(t, err)

	b, access, err := s.Load(ctx, "alice", p.ID)
	require.NoError(t, err)
	assert.Empty(t, b.Elements)
	assert.Equal(t, geometry.DefaultViewport(), b.Viewport)
	assert.True(t, access.CanEdit())

	require.NoError(t, s.Save(ctx, "alice", p.ID, sampleBundle()))
	b, _, err = s.Load(ctx, "alice", p.ID)
	require.NoError(t, err)
	require.Len(t, b.Elements, 1)
	assert.Equal(t, "r1", b.Elements[0].ID)
	assert.Equal(t, geometry.Rect{X: 10, Y: 20, Width: 100, Height: 50}, element.Bounds(b.Elements[0]))
	assert.Equal(t, sampleBundle().Viewport, b.Viewport)
	assert.Equal(t, "#fafafa", b.BackgroundColor)
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	p, err := s.Create(ctx, "alice", "scratch")
	require.NoError(t, err)
	_, _, err = s.Get(ctx, "alice", p.ID)
	assert.NoError(t, err)
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	_, _, err := s.Load(ctx, "alice", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Save(ctx, "alice", "missing", sampleBundle()), ErrNotFound)
}

func TestVisibility(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	p, err := s.Create(ctx, "alice", "plan")
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "alice", p.ID, sampleBundle()))

	_, _, err = s.Load(ctx, "bob", p.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied, "private")
	_, _, err = s.Load(ctx, "", p.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied, "anonymous")

	require.NoError(t, s.Share(ctx, "alice", p.ID, PublicView))
	b, access, err := s.Load(ctx, "bob", p.ID)
	require.NoError(t, err)
	assert.False(t, access.CanEdit())
	assert.Len(t, b.Elements, 1)

	denied := sampleBundle()
	denied.Elements = nil
	assert.ErrorIs(t, s.Save(ctx, "bob", p.ID, denied), ErrPermissionDenied)
	b, _, err = s.Load(ctx, "alice", p.ID)
	require.NoError(t, err)
	assert.Len(t, b.Elements, 1, "denied save leaves the project untouched")

	require.NoError(t, s.Share(ctx, "alice", p.ID, PublicEdit))
	_, access, err = s.Load(ctx, "bob", p.ID)
	require.NoError(t, err)
	assert.True(t, access.CanEdit())
	assert.False(t, access.Owner)
	require.NoError(t, s.Save(ctx, "bob", p.ID, denied))

	assert.ErrorIs(t, s.Rename(ctx, "bob", p.ID, "mine"), ErrPermissionDenied)
	assert.ErrorIs(t, s.Share(ctx, "bob", p.ID, Private), ErrPermissionDenied)
	assert.ErrorIs(t, s.Delete(ctx, "bob", p.ID), ErrPermissionDenied)
	assert.Error(t, s.Share(ctx, "alice", p.ID, Visibility("world")))
}

func TestAccess(t *testing.T) {
	tests := []struct {
		access  Access
		canView bool
		canEdit bool
	}{
		{Access{Owner: true, Visibility: Private}, true, true},
		{Access{Visibility: Private}, false, false},
		{Access{Visibility: PublicView}, true, false},
		{Access{Visibility: PublicEdit}, true, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.canView, tt.access.CanView(), "%+v", tt.access)
		assert.Equal(t, tt.canEdit, tt.access.CanEdit(), "%+v", tt.access)
	}
}

func TestCreateRequiresOwner(t *testing.T) {
	_, err := openStore(t).Create(context.Background(), "", "x")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestSaveRejectsInvalidElements(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	p, err := s.Create(ctx, "alice", "plan")
	require.NoError(t, err)

	b := sampleBundle()
	b.Elements = append(b.Elements, b.Elements[0])
	assert.ErrorIs(t, s.Save(ctx, "alice", p.ID, b), document.ErrInvalid)
}

func TestListRenameDelete(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	first, err := s.Create(ctx, "alice", "first")
	require.NoError(t, err)
	second, err := s.Create(ctx, "alice", "second")
	require.NoError(t, err)
	_, err = s.Create(ctx, "bob", "other")
	require.NoError(t, err)

	require.NoError(t, s.Rename(ctx, "alice", first.ID, "renamed"))
	projects, err := s.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "renamed", projects[0].Name, "most recently updated first")
	assert.Equal(t, second.ID, projects[1].ID)

	require.NoError(t, s.Delete(ctx, "alice", second.ID))
	_, _, err = s.Get(ctx, "alice", second.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestThumbnail(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	p, err := s.Create(ctx, "alice", "plan")
	require.NoError(t, err)

	thumb, err := s.Thumbnail(ctx, "alice", p.ID)
	require.NoError(t, err)
	assert.Nil(t, thumb)

	require.NoError(t, s.Save(ctx, "alice", p.ID, sampleBundle()))
	thumb, err = s.Thumbnail(ctx, "alice", p.ID)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
}

func TestParseVisibility(t *testing.T) {
	v, err := ParseVisibility("view")
	require.NoError(t, err)
	assert.Equal(t, PublicView, v)
	_, err = ParseVisibility("everyone")
	assert.Error(t, err)
}
