package ecs

// Query selects chunks by archetype composition: With requires every named
// component, Without forbids all of them (spec §4.4). The REDESIGN FLAG in
// SPEC_FULL.md §9 resolves the source's ambiguous Without handling in favor
// of always honoring it, rather than treating it as a no-op when the
// archetype already happens to be a With superset.
type Query struct {
	include archetypeMask
	exclude archetypeMask
}

// NewQuery returns an empty query (matches every chunk until With/Without
// narrow it).
func NewQuery() *Query {
	return &Query{}
}

// With requires every given component to be present.
func (q *Query) With(components ...Component) *Query {
	for _, c := range components {
		q.include = q.include.mark(c.componentType().TypeID)
	}
	return q
}

// Without forbids every given component from being present.
func (q *Query) Without(components ...Component) *Query {
	for _, c := range components {
		q.exclude = q.exclude.mark(c.componentType().TypeID)
	}
	return q
}

// Matches reports whether an archetype mask satisfies q.
func (q *Query) Matches(m archetypeMask) bool {
	return m.containsAll(q.include) && m.containsNone(q.exclude)
}

// Chunks returns every chunk in w currently matching q.
func (q *Query) Chunks(w *World) []*ArchetypeChunk {
	return w.GetChunks(q.include, q.exclude)
}

// Count returns the total number of live entities across every matching
// chunk.
func (q *Query) Count(w *World) int {
	n := 0
	for _, c := range q.Chunks(w) {
		n += c.Count()
	}
	return n
}
