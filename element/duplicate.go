package element

// Duplicate copies elements offset by (dx, dy) with fresh ids and seeds.
// Bindings between members of the set are remapped to the copies; bindings to
// anything outside the set are dropped, so callers that want the copy to keep
// its visual endpoints should pass resolved elements.
func Duplicate(elements []*Element, dx, dy float64) []*Element {
	ids := make(map[string]string, len(elements))
	out := make([]*Element, len(elements))
	for i, e := range elements {
		c := e.Clone()
		c.ID = NewID()
		c.Seed = NewSeed()
		c.Translate(dx, dy)
		ids[e.ID] = c.ID
		out[i] = c
	}
	for _, c := range out {
		conn := c.Connector()
		if conn == nil {
			continue
		}
		conn.StartBinding = remap(conn.StartBinding, ids)
		conn.EndBinding = remap(conn.EndBinding, ids)
	}
	return out
}

func remap(b *Binding, ids map[string]string) *Binding {
	if b == nil {
		return nil
	}
	id, ok := ids[b.ElementID]
	if !ok {
		return nil
	}
	return &Binding{ElementID: id, Point: b.Point}
}
