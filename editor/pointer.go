package editor

import (
	"math"

	"github.com/samber/lo"

	"github.com/KennethOlivas/zen-draw-sub000/element"
	"github.com/KennethOlivas/zen-draw-sub000/geometry"
	"github.com/KennethOlivas/zen-draw-sub000/router"
)

// Modifiers are the keys held during an input event.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
}

// Command reports the platform shortcut modifier.
func (m Modifiers) Command() bool {
	return m.Ctrl || m.Meta
}

// PointerDown starts a gesture at a screen position.
func (e *Editor) PointerDown(screen geometry.Point, mods Modifiers) error {
	if e.text != nil {
		if err := e.CommitText(); err != nil {
			return err
		}
	}
	e.finishGesture()
	p := e.toCanvas(screen)
	e.cursor = p
	e.drag.lastScreen = screen

	switch e.tool {
	case ToolHand:
		e.mode = ModePan
		return nil
	case ToolSelect:
		return e.beginSelect(p, mods)
	case ToolEraser:
		if !e.canEdit {
			return ErrReadOnly
		}
		e.mode = ModeErase
		e.eraseAt(p)
		return nil
	case ToolText:
		if !e.canEdit {
			return ErrReadOnly
		}
		e.openText(&TextEdit{Anchor: e.snap(p)})
		return nil
	}

	kind, ok := e.tool.shapeKind()
	if !ok {
		return nil
	}
	if !e.canEdit {
		return ErrReadOnly
	}
	start := p
	var binding *element.Binding
	switch {
	case kind == element.KindFreehand:
	case e.tool.connects():
		if s := e.nearestSnap(p); s != nil {
			start, binding = s.Point, s.Binding()
		} else {
			start = e.snap(p)
		}
	default:
		start = e.snap(p)
	}
	el, err := element.New(kind, start, e.style)
	if err != nil {
		return err
	}
	if c := el.Connector(); c != nil {
		c.StartBinding = binding
	}
	e.scene.Add(el)
	e.mode = ModeDraw
	e.drag.start = start
	e.drag.elementID = el.ID
	log.Debugf("draw %s at %.1f,%.1f", kind, start.X, start.Y)
	return nil
}

func (e *Editor) beginSelect(p geometry.Point, mods Modifiers) error {
	if e.canEdit && len(e.selected) == 1 {
		if el := e.scene.Find(e.selected[0]); el != nil {
			resolved := e.scene.Resolve(el)
			if h, ok := element.HandleAt(resolved, p, e.scaled(HandleRadius)); ok {
				e.mode = ModeResize
				e.drag.handle = h.ID
				e.drag.elementID = el.ID
				e.drag.original = resolved.Clone()
				e.drag.box = element.Bounds(resolved)
				e.drag.start = p
				e.detachEnd(el, resolved, h.ID)
				return nil
			}
		}
	}

	if hit := e.scene.ElementAt(p, e.scaled(HitPadding)); hit != nil {
		switch {
		case mods.Shift && e.IsSelected(hit.ID):
		case mods.Shift:
			e.selected = append(e.selected, hit.ID)
		case !e.IsSelected(hit.ID):
			e.selected = []string{hit.ID}
		}
		if !e.canEdit {
			return nil
		}
		e.mode = ModeMove
		e.drag.start = p
		e.drag.originals = make(map[string]*element.Element, len(e.selected))
		for _, el := range e.scene.Pick(e.selected) {
			e.drag.originals[el.ID] = e.scene.Resolve(el).Clone()
		}
		return nil
	}

	if mods.Shift {
		e.drag.base = append([]string(nil), e.selected...)
	}
	e.selected = e.drag.base
	e.mode = ModeMarquee
	e.drag.start = p
	e.drag.marquee = geometry.Rect{X: p.X, Y: p.Y}
	return nil
}

// PointerMove advances the active gesture. Events are applied in arrival order.
func (e *Editor) PointerMove(screen geometry.Point, mods Modifiers) error {
	p := e.toCanvas(screen)
	e.cursor = p

	switch e.mode {
	case ModePan:
		delta := screen.Sub(e.drag.lastScreen)
		e.viewport.Pan = e.viewport.Pan.Add(delta)
	case ModeMarquee:
		e.drag.marquee = geometry.RectFromPoints([]geometry.Point{e.drag.start, p})
		e.selected = lo.Union(e.drag.base, e.scene.Intersecting(e.drag.marquee))
	case ModeMove:
		e.moveSelection(p)
	case ModeResize:
		e.resize(p)
	case ModeDraw:
		e.extendDraw(p)
	case ModeErase:
		e.eraseAt(p)
	case ModeIdle:
		if e.tool.connects() && e.canEdit {
			e.hover = e.nearestSnap(p)
		} else {
			e.hover = nil
		}
	}
	e.drag.lastScreen = screen
	return nil
}

// PointerUp finishes the active gesture: routes connectors and commits one
// history entry when something changed.
func (e *Editor) PointerUp(screen geometry.Point, mods Modifiers) error {
	switch e.mode {
	case ModeDraw, ModeMove, ModeResize, ModeMarquee:
		if screen != e.drag.lastScreen {
			if err := e.PointerMove(screen, mods); err != nil {
				return err
			}
		}
	}
	e.finishGesture()
	return nil
}

// finishGesture finalizes the drag in progress where the pointer last was.
func (e *Editor) finishGesture() {
	switch e.mode {
	case ModeDraw:
		e.finishDraw()
	case ModeMove:
		if e.drag.changed {
			e.rerouteAround(e.selected)
			e.commit("move")
		}
	case ModeResize:
		e.finishResize()
	}
	e.resetGesture()
}

// PointerLeave ends the gesture exactly as a release at the last position would.
func (e *Editor) PointerLeave() error {
	return e.PointerUp(e.drag.lastScreen, Modifiers{})
}

// Wheel zooms toward the pointer when the command modifier is held and pans otherwise.
func (e *Editor) Wheel(screen geometry.Point, dx, dy float64, mods Modifiers) {
	if mods.Command() {
		zoom := e.viewport.Zoom * (1 - dy*ZoomStep)
		e.viewport = e.viewport.ZoomAt(zoom, screen, e.origin)
		return
	}
	e.viewport.Pan = e.viewport.Pan.Sub(geometry.Pt(dx, dy))
}

// ZoomAt sets an absolute zoom keeping the point under screen fixed.
func (e *Editor) ZoomAt(zoom float64, screen geometry.Point) {
	e.viewport = e.viewport.ZoomAt(zoom, screen, e.origin)
}

func (e *Editor) extendDraw(p geometry.Point) {
	el := e.scene.Find(e.drag.elementID)
	if el == nil {
		return
	}
	switch s := el.Shape.(type) {
	case *element.Freehand:
		s.Points = append(s.Points, p)
	case *element.Line, *element.Arrow:
		end := e.snap(p)
		e.hover = e.nearestSnap(p, e.connectorExclusions(el, false)...)
		if e.hover != nil {
			end = e.hover.Point
		}
		el.SetEndpoints(e.drag.start, end)
	default:
		end := e.snap(p)
		el.Width, el.Height = end.X-e.drag.start.X, end.Y-e.drag.start.Y
	}
}

func (e *Editor) finishDraw() {
	el := e.scene.Find(e.drag.elementID)
	if el == nil {
		return
	}
	if b := element.Bounds(el); b.Width == 0 && b.Height == 0 {
		e.scene.Remove(el.ID)
		log.Debugf("discarded empty %s", el.Kind())
		return
	}
	if c := el.Connector(); c != nil {
		c.EndBinding = nil
		if e.hover != nil {
			c.EndBinding = e.hover.Binding()
		}
		router.Route(e.scene, el)
	}
	e.commit("draw " + string(el.Kind()))
}

// connectorExclusions lists the elements an endpoint of conn may not bind
// to: the connector itself and whatever the opposite endpoint is bound to.
func (e *Editor) connectorExclusions(conn *element.Element, start bool) []string {
	out := []string{conn.ID}
	c := conn.Connector()
	if c == nil {
		return out
	}
	other := c.StartBinding
	if start {
		other = c.EndBinding
	}
	if other != nil {
		out = append(out, other.ElementID)
	}
	return out
}

func (e *Editor) moveSelection(p geometry.Point) {
	delta := e.snap(p).Sub(e.snap(e.drag.start))
	moved := delta.X != 0 || delta.Y != 0
	if !moved && !e.drag.changed {
		return
	}
	for id, orig := range e.drag.originals {
		el := e.scene.Find(id)
		if el == nil {
			continue
		}
		next := orig.Clone()
		next.Translate(delta.X, delta.Y)
		if c := next.Connector(); c != nil && moved {
			if c.StartBinding != nil && e.drag.originals[c.StartBinding.ElementID] == nil {
				c.StartBinding = nil
			}
			if c.EndBinding != nil && e.drag.originals[c.EndBinding.ElementID] == nil {
				c.EndBinding = nil
			}
		}
		*el = *next
	}
	e.drag.changed = moved
}

func (e *Editor) resize(p geometry.Point) {
	el := e.scene.Find(e.drag.elementID)
	if el == nil {
		return
	}
	orig := e.drag.original

	if el.IsConnector() {
		start, end := orig.Start(), orig.End()
		isStart := e.drag.handle == element.HandleStart
		e.hover = e.nearestSnap(p, e.connectorExclusions(orig, isStart)...)
		target := e.snap(p)
		if e.hover != nil {
			target = e.hover.Point
		}
		if isStart {
			start = target
		} else {
			end = target
		}
		el.SetEndpoints(start, end)
		e.drag.changed = true
		return
	}

	q := e.snap(p)
	b := e.drag.box
	x0, y0, x1, y1 := b.X, b.Y, b.MaxX(), b.MaxY()
	left, right, top, bottom := e.drag.handle.Moves()
	if left {
		x0 = q.X
	}
	if right {
		x1 = q.X
	}
	if top {
		y0 = q.Y
	}
	if bottom {
		y1 = q.Y
	}

	next := orig.Clone()
	next.X, next.Y, next.Width, next.Height = x0, y0, x1-x0, y1-y0
	switch s := next.Shape.(type) {
	case *element.Freehand:
		for i, pt := range s.Points {
			s.Points[i] = geometry.Pt(rescale(pt.X, b.X, b.Width, x0, x1), rescale(pt.Y, b.Y, b.Height, y0, y1))
		}
	case *element.Text:
		if b.Height > 0 {
			s.FontSize = math.Max(1, orig.Shape.(*element.Text).FontSize*math.Abs(y1-y0)/b.Height)
		}
	}
	*el = *next
	e.drag.changed = true
}

func rescale(v, from, span, to0, to1 float64) float64 {
	if span == 0 {
		return to0
	}
	return to0 + (v-from)/span*(to1-to0)
}

// detachEnd unbinds the endpoint under handle so the drawn connector follows
// the pointer during the drag. finishResize binds it again on release.
func (e *Editor) detachEnd(el, resolved *element.Element, handle element.HandleID) {
	c := el.Connector()
	if c == nil {
		return
	}
	switch handle {
	case element.HandleStart:
		c.StartBinding = nil
	case element.HandleEnd:
		c.EndBinding = nil
	default:
		return
	}
	el.SetEndpoints(resolved.Start(), resolved.End())
}

func (e *Editor) finishResize() {
	el := e.scene.Find(e.drag.elementID)
	if el == nil {
		return
	}
	if !e.drag.changed {
		if e.drag.original != nil {
			*el = *e.drag.original
		}
		return
	}
	if c := el.Connector(); c != nil {
		var b *element.Binding
		if e.hover != nil {
			b = e.hover.Binding()
		}
		if e.drag.handle == element.HandleStart {
			c.StartBinding = b
		} else {
			c.EndBinding = b
		}
	}
	e.rerouteAround([]string{el.ID})
	e.commit("resize")
}

// rerouteAround recomputes control points for connectors in ids and for
// connectors bound to any element in ids.
func (e *Editor) rerouteAround(ids []string) {
	seen := map[string]bool{}
	route := func(c *element.Element) {
		if !seen[c.ID] {
			seen[c.ID] = true
			router.Route(e.scene, c)
		}
	}
	for _, el := range e.scene.Pick(ids) {
		if el.IsConnector() {
			route(el)
		}
		for _, c := range e.scene.BoundTo(el.ID) {
			route(c)
		}
	}
}

func (e *Editor) eraseAt(p geometry.Point) {
	hit := e.scene.ElementAt(p, e.scaled(HitPadding))
	if hit == nil {
		return
	}
	e.scene.Remove(hit.ID)
	e.dropFromSelection(hit.ID)
	e.commit("erase")
}

func (e *Editor) dropFromSelection(ids ...string) {
	e.selected = lo.Without(e.selected, ids...)
}

// DoubleClick reopens a text element for editing.
func (e *Editor) DoubleClick(screen geometry.Point) error {
	p := e.toCanvas(screen)
	hit := e.scene.ElementAt(p, e.scaled(HitPadding))
	if hit == nil {
		return nil
	}
	t, ok := hit.Shape.(*element.Text)
	if !ok {
		return nil
	}
	if !e.canEdit {
		return ErrReadOnly
	}
	e.finishGesture()
	e.selected = []string{hit.ID}
	e.openText(&TextEdit{ElementID: hit.ID, Anchor: hit.Start(), Content: t.Content})
	return nil
}
