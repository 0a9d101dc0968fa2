// Package editor is the interaction state machine: it turns pointer, wheel
// and key events into element mutations, snapping and history commits.
// An Editor is driven from a single event loop and is not safe for
// concurrent use.
package editor

import (
	"errors"

	"github.com/flanksource/commons/logger"
	"github.com/samber/lo"

	"github.com/KennethOlivas/zen-draw-sub000/document"
	"github.com/KennethOlivas/zen-draw-sub000/element"
	"github.com/KennethOlivas/zen-draw-sub000/geometry"
	"github.com/KennethOlivas/zen-draw-sub000/history"
	"github.com/KennethOlivas/zen-draw-sub000/scene"
)

// Screen-space tolerances. They are divided by zoom before use so they stay
// constant on screen.
const (
	SnapDistance = 15.0
	HitPadding   = 5.0
	HandleRadius = 8.0
	PasteOffset  = 20.0
	ZoomStep     = 0.001
)

// ErrReadOnly is returned by every mutating call on a session without edit rights.
var ErrReadOnly = errors.New("drawing is read-only")

var log = logger.GetLogger("editor")

type Options struct {
	CanEdit      bool
	Grid         GridConfig
	Style        element.Style
	HistoryDepth int
	Background   string
	Clipboard    Clipboard
	// Origin is the screen position of the canvas container.
	Origin geometry.Point
}

func DefaultOptions() Options {
	return Options{
		CanEdit:      true,
		Grid:         DefaultGrid(),
		Style:        element.DefaultStyle(),
		HistoryDepth: history.DefaultDepth,
		Background:   document.DefaultBackground,
	}
}

type Editor struct {
	scene      *scene.Scene
	selected   []string
	viewport   geometry.Viewport
	origin     geometry.Point
	tool       Tool
	mode       Mode
	style      element.Style
	grid       GridConfig
	background string
	canEdit    bool

	history   *history.History
	clipboard Clipboard
	listeners []func()

	drag   drag
	hover  *element.Snap
	cursor geometry.Point
	text   *TextEdit
}

// drag is the transient state of the gesture in progress.
type drag struct {
	start      geometry.Point
	lastScreen geometry.Point
	elementID  string
	handle     element.HandleID
	box        geometry.Rect
	original   *element.Element
	originals  map[string]*element.Element
	marquee    geometry.Rect
	// base is the selection a shift+marquee adds to.
	base    []string
	changed bool
}

// New starts an editor on elements and commits them as the history baseline.
func New(elements []*element.Element, opts Options) *Editor {
	if opts.Grid.Size <= 0 {
		opts.Grid = DefaultGrid()
	}
	if opts.Style.StrokeColor == "" {
		opts.Style = element.DefaultStyle()
	}
	if opts.Background == "" {
		opts.Background = document.DefaultBackground
	}
	e := &Editor{
		scene:      scene.New(element.CloneAll(elements)...),
		viewport:   geometry.DefaultViewport(),
		origin:     opts.Origin,
		style:      opts.Style,
		grid:       opts.Grid,
		background: opts.Background,
		canEdit:    opts.CanEdit,
		clipboard:  opts.Clipboard,
	}
	e.history = history.New(opts.HistoryDepth, e.restore)
	e.history.Rebase(e.scene.Elements)
	return e
}

// OnChange registers fn to run after every committed mutation, undo, redo and load.
func (e *Editor) OnChange(fn func()) {
	e.listeners = append(e.listeners, fn)
}

func (e *Editor) notify() {
	for _, fn := range e.listeners {
		fn()
	}
}

// commit records the current elements and selection as one history entry.
func (e *Editor) commit(reason string) {
	if e.history.Commit(reason, e.scene.Elements, e.selected) {
		e.notify()
	}
}

// restore installs an undo or redo target.
func (e *Editor) restore(s history.Snapshot) {
	e.scene.Elements = s.Elements
	e.selected = lo.Filter(s.Selected, func(id string, _ int) bool { return e.scene.Find(id) != nil })
	e.resetGesture()
	e.notify()
}

func (e *Editor) Undo() error {
	if !e.canEdit {
		return ErrReadOnly
	}
	e.text = nil
	e.history.Undo()
	return nil
}

func (e *Editor) Redo() error {
	if !e.canEdit {
		return ErrReadOnly
	}
	e.text = nil
	e.history.Redo()
	return nil
}

func (e *Editor) CanUndo() bool { return e.history.CanUndo() }
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// HistoryPosition returns the 1-based history cursor and the number of entries.
func (e *Editor) HistoryPosition() (int, int) {
	return e.history.Position()
}

// Elements returns the live element sequence in z-order. Callers must not mutate it.
func (e *Editor) Elements() []*element.Element { return e.scene.Elements }

// Scene exposes the live scene for rendering and binding resolution.
func (e *Editor) Scene() *scene.Scene { return e.scene }

func (e *Editor) Selected() []string { return append([]string(nil), e.selected...) }

func (e *Editor) IsSelected(id string) bool { return lo.Contains(e.selected, id) }

func (e *Editor) Viewport() geometry.Viewport { return e.viewport }

func (e *Editor) SetViewport(v geometry.Viewport) {
	v.Zoom = geometry.Clamp(v.Zoom, geometry.MinZoom, geometry.MaxZoom)
	e.viewport = v
}

func (e *Editor) SetOrigin(p geometry.Point) { e.origin = p }

func (e *Editor) Tool() Tool { return e.tool }

func (e *Editor) Mode() Mode { return e.mode }

func (e *Editor) Style() element.Style { return e.style }

func (e *Editor) Grid() GridConfig { return e.grid }

func (e *Editor) SetGrid(g GridConfig) { e.grid = g }

func (e *Editor) CanEdit() bool { return e.canEdit }

// SetCanEdit switches the session between editing and view-only. A
// gesture in progress is finalized first.
func (e *Editor) SetCanEdit(v bool) {
	e.canEdit = v
	if !v {
		e.text = nil
		e.finishGesture()
	}
}

func (e *Editor) Background() string { return e.background }

func (e *Editor) SetBackground(color string) error {
	if !e.canEdit {
		return ErrReadOnly
	}
	if color == e.background {
		return nil
	}
	e.background = color
	e.notify()
	return nil
}

// Hover is the connection point a connector endpoint would snap to, if any.
func (e *Editor) Hover() *element.Snap { return e.hover }

// Cursor is the last pointer position in canvas space.
func (e *Editor) Cursor() geometry.Point { return e.cursor }

// Marquee returns the rubber band rectangle while a marquee selection is active.
func (e *Editor) Marquee() (geometry.Rect, bool) {
	return e.drag.marquee, e.mode == ModeMarquee
}

// SetTool finalizes any gesture in progress and switches tools. Drawing
// tools start with an empty selection.
func (e *Editor) SetTool(t Tool) {
	if e.text != nil {
		_ = e.CommitText()
	}
	e.finishGesture()
	e.tool = t
	if t.draws() {
		e.selected = nil
	}
	log.Debugf("tool %s", t)
}

func (e *Editor) Select(ids ...string) {
	e.selected = lo.Uniq(lo.Filter(ids, func(id string, _ int) bool { return e.scene.Find(id) != nil }))
}

func (e *Editor) ClearSelection() {
	e.selected = nil
}

func (e *Editor) SelectAll() {
	e.selected = e.scene.IDs()
}

func (e *Editor) resetGesture() {
	e.drag = drag{}
	e.hover = nil
	if e.text != nil {
		e.mode = ModeTextEdit
	} else {
		e.mode = ModeIdle
	}
}

// toCanvas converts a screen point to canvas space.
func (e *Editor) toCanvas(screen geometry.Point) geometry.Point {
	return e.viewport.ScreenToCanvas(screen, e.origin)
}

// ToScreen converts a canvas point to screen space.
func (e *Editor) ToScreen(p geometry.Point) geometry.Point {
	return e.viewport.CanvasToScreen(p, e.origin)
}

// snap applies grid snapping when enabled.
func (e *Editor) snap(p geometry.Point) geometry.Point {
	if !e.grid.Snap {
		return p
	}
	return geometry.SnapToGrid(p, e.grid.Effective())
}

func (e *Editor) scaled(screenDistance float64) float64 {
	z := e.viewport.Zoom
	if z <= 0 {
		z = 1
	}
	return screenDistance / z
}

// nearestSnap finds the closest connection point of any non-connector
// element within the zoom-adjusted snap distance, skipping exclude.
func (e *Editor) nearestSnap(p geometry.Point, exclude ...string) *element.Snap {
	threshold := e.scaled(SnapDistance)
	var best *element.Snap
	for i := len(e.scene.Elements) - 1; i >= 0; i-- {
		el := e.scene.Elements[i]
		if el.IsConnector() || lo.Contains(exclude, el.ID) {
			continue
		}
		if s := element.NearestConnectionPoint(p, el, threshold); s != nil && (best == nil || s.Distance < best.Distance) {
			best = s
		}
	}
	return best
}
