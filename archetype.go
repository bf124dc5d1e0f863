package ecs

import "unsafe"

// EntityArchetype is the exact, ordered set of component types an entity
// carries, plus its derived mask and per-row byte size (spec §3). Archetypes
// are value-typed and compared by (mask, row_size) equality, never by
// pointer identity or an accidental `!=` on the member slice (spec §9 flags
// the source's chunk-equality operator as buggy for exactly this reason).
type EntityArchetype struct {
	ComponentTypes []*ComponentType
	Mask           archetypeMask
	RowSize        int // component bytes only; the inline Entity slot is tracked separately
}

func newEntityArchetype(types []*ComponentType) *EntityArchetype {
	a := &EntityArchetype{ComponentTypes: append([]*ComponentType(nil), types...)}
	for _, ct := range a.ComponentTypes {
		a.Mask = a.Mask.mark(ct.TypeID)
		a.RowSize += int(ct.Size)
	}
	return a
}

// componentRowSize returns the per-row byte footprint used to size a chunk,
// including the inline Entity slot (spec §3: "row_size equals the sum of
// component sizes plus the fixed Entity slot").
func (a *EntityArchetype) componentRowSize() int {
	return a.RowSize + int(unsafe.Sizeof(Entity{}))
}

// contains reports whether a carries the given component type.
func (a *EntityArchetype) contains(ct *ComponentType) bool {
	return a.Mask.contains(ct.TypeID)
}

// equal implements the spec's full (mask,row_size) archetype equality.
func (a *EntityArchetype) equal(other *EntityArchetype) bool {
	return a.Mask == other.Mask && a.RowSize == other.RowSize
}

// withAdded returns the ordered type list for adding ct to a (ct appended,
// archetypes are otherwise addressed by mask so insertion order only matters
// for newly created archetypes, not lookups).
func (a *EntityArchetype) withAdded(ct *ComponentType) []*ComponentType {
	return append(append([]*ComponentType(nil), a.ComponentTypes...), ct)
}

// withRemoved returns the ordered type list for removing ct from a, honoring
// the spec's stated-correct "disable" behavior rather than the source's
// probing bug (spec §9 Open Questions).
func (a *EntityArchetype) withRemoved(ct *ComponentType) []*ComponentType {
	out := make([]*ComponentType, 0, len(a.ComponentTypes))
	for _, existing := range a.ComponentTypes {
		if existing.TypeID != ct.TypeID {
			out = append(out, existing)
		}
	}
	return out
}
