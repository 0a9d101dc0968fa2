// Package store persists project bundles in SQLite. Each project has an
// owner and a visibility; the owner can always edit, everyone else gets
// what the visibility grants.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/flanksource/commons/logger"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/KennethOlivas/zen-draw-sub000/document"
	"github.com/KennethOlivas/zen-draw-sub000/export"
	"github.com/KennethOlivas/zen-draw-sub000/geometry"
)

var log = logger.GetLogger("store")

var (
	ErrNotFound         = errors.New("project not found")
	ErrPermissionDenied = errors.New("permission denied")
)

type Bundle = document.Bundle

type Visibility string

const (
	Private    Visibility = "private"
	PublicView Visibility = "view"
	PublicEdit Visibility = "edit"
)

func ParseVisibility(s string) (Visibility, error) {
	switch v := Visibility(s); v {
	case Private, PublicView, PublicEdit:
		return v, nil
	default:
		return "", fmt.Errorf("unknown visibility %q (want private, view or edit)", s)
	}
}

// Access is what one user may do with one project.
type Access struct {
	Owner      bool
	Visibility Visibility
}

func (a Access) CanView() bool {
	return a.Owner || a.Visibility == PublicView || a.Visibility == PublicEdit
}

func (a Access) CanEdit() bool {
	return a.Owner || a.Visibility == PublicEdit
}

type Project struct {
	ID         string
	Name       string
	Owner      string
	Visibility Visibility
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (p Project) AccessFor(user string) Access {
	return Access{Owner: user != "" && user == p.Owner, Visibility: p.Visibility}
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path. ":memory:" gives a private
// in-memory store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// Create adds an empty private project owned by owner.
func (s *Store) Create(ctx context.Context, owner, name string) (Project, error) {
	if owner == "" {
		return Project{}, fmt.Errorf("%w: anonymous users cannot create projects", ErrPermissionDenied)
	}
	empty, err := Bundle{Viewport: geometry.DefaultViewport(), BackgroundColor: document.DefaultBackground}.Encode()
	if err != nil {
		return Project{}, err
	}
	now := s.now().UTC()
	p := Project{ID: uuid.NewString(), Name: name, Owner: owner, Visibility: Private, CreatedAt: now, UpdatedAt: now}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, owner, visibility, bundle, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Owner, p.Visibility, string(empty), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return Project{}, fmt.Errorf("failed to create project: %w", err)
	}
	log.Debugf("created project %s (%s) for %s", p.ID, p.Name, owner)
	return p, nil
}

// Get returns project metadata if user may view it.
func (s *Store) Get(ctx context.Context, user, id string) (Project, Access, error) {
	var p Project
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, owner, visibility, created_at, updated_at FROM projects WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Owner, &p.Visibility, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, Access{}, ErrNotFound
	}
	if err != nil {
		return Project{}, Access{}, fmt.Errorf("failed to get project: %w", err)
	}
	access := p.AccessFor(user)
	if !access.CanView() {
		return Project{}, Access{}, ErrPermissionDenied
	}
	return p, access, nil
}

// Load returns the stored bundle with the caller's access, so an editor can
// be opened read-only when the caller may only view.
func (s *Store) Load(ctx context.Context, user, id string) (Bundle, Access, error) {
	_, access, err := s.Get(ctx, user, id)
	if err != nil {
		return Bundle{}, Access{}, err
	}
	var data string
	if err := s.db.QueryRowContext(ctx, `SELECT bundle FROM projects WHERE id = ?`, id).Scan(&data); err != nil {
		return Bundle{}, Access{}, fmt.Errorf("failed to load project: %w", err)
	}
	b, err := document.DecodeBundle([]byte(data))
	if err != nil {
		return Bundle{}, Access{}, fmt.Errorf("project %s: %w", id, err)
	}
	return b, access, nil
}

// Save replaces the stored bundle and refreshes the thumbnail. Nothing is
// written unless user can edit.
func (s *Store) Save(ctx context.Context, user, id string, b Bundle) error {
	_, access, err := s.Get(ctx, user, id)
	if err != nil {
		return err
	}
	if !access.CanEdit() {
		return ErrPermissionDenied
	}
	if err := document.ValidateElements(b.Elements); err != nil {
		return err
	}
	data, err := b.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}

	var thumb []byte
	var buf bytes.Buffer
	switch err := export.Thumbnail(&buf, b.Elements, export.DefaultThumbnailSize, b.BackgroundColor); {
	case err == nil:
		thumb = buf.Bytes()
	case errors.Is(err, export.ErrEmpty):
	default:
		log.Warnf("thumbnail for %s: %v", id, err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE projects SET bundle = ?, thumbnail = ?, updated_at = ? WHERE id = ?`,
		string(data), thumb, s.now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	log.Debugf("saved project %s (%d elements)", id, len(b.Elements))
	return nil
}

// Thumbnail returns the PNG stored at the last save, or nil for an empty
// drawing.
func (s *Store) Thumbnail(ctx context.Context, user, id string) ([]byte, error) {
	if _, _, err := s.Get(ctx, user, id); err != nil {
		return nil, err
	}
	var thumb []byte
	if err := s.db.QueryRowContext(ctx, `SELECT thumbnail FROM projects WHERE id = ?`, id).Scan(&thumb); err != nil {
		return nil, fmt.Errorf("failed to read thumbnail: %w", err)
	}
	return thumb, nil
}

// List returns the projects owned by owner, most recently updated first.
func (s *Store) List(ctx context.Context, owner string) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, owner, visibility, created_at, updated_at FROM projects WHERE owner = ? ORDER BY updated_at DESC, name`,
		owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Owner, &p.Visibility, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Store) Rename(ctx context.Context, user, id, name string) error {
	return s.ownerUpdate(ctx, user, id, `UPDATE projects SET name = ?, updated_at = ? WHERE id = ?`, name, s.now().UTC(), id)
}

// Share changes who besides the owner may open the project.
func (s *Store) Share(ctx context.Context, user, id string, v Visibility) error {
	if _, err := ParseVisibility(string(v)); err != nil {
		return err
	}
	return s.ownerUpdate(ctx, user, id, `UPDATE projects SET visibility = ? WHERE id = ?`, v, id)
}

func (s *Store) Delete(ctx context.Context, user, id string) error {
	return s.ownerUpdate(ctx, user, id, `DELETE FROM projects WHERE id = ?`, id)
}

func (s *Store) ownerUpdate(ctx context.Context, user, id, query string, args ...any) error {
	p, _, err := s.Get(ctx, user, id)
	if err != nil {
		return err
	}
	if p.Owner != user {
		return ErrPermissionDenied
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update project %s: %w", id, err)
	}
	return nil
}
