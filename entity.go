package ecs

// Entity is a versioned handle to a row in the World. Two Entities are equal
// iff both fields are equal (spec §3). It carries no methods of its own —
// all operations take an Entity and a *World, matching the spec's explicit
// rejection of per-entity virtual dispatch.
type Entity struct {
	Index   uint32
	Version uint32
}

// entitySlot is the EntityIndexer's per-index record: where the entity
// currently lives, and the version that must match an Entity handle for it
// to be considered live. Grounded on the teacher's entity.go relationships
// struct, which already tracked a "Recycled" counter playing the same role
// as Version here; generalized into the spec's explicit (chunk,row,version)
// triple (spec §3 EntityIndexer).
type entitySlot struct {
	chunkIdx uint32
	row      uint32
	version  uint32
	// used marks a slot that currently backs a live entity, as opposed to one
	// sitting in the free-list (version alone cannot distinguish "never
	// allocated" from "destroyed" at version 0, so the zero value of a
	// freshly grown slot must not look live).
	used bool
}

// entityIndexer maps Entity.Index to its current (chunk, row) and tracks
// version for liveness, with a LIFO free-list so recently destroyed indices
// are reused first, keeping Index values dense (spec §4.3).
type entityIndexer struct {
	slots []entitySlot
	free  []uint32 // LIFO stack of recycled indices
}

func newEntityIndexer() *entityIndexer {
	return &entityIndexer{}
}

// create allocates a fresh Entity backed by (chunkIdx, row), reusing the most
// recently freed index if one is available.
func (ix *entityIndexer) create(chunkIdx, row uint32) Entity {
	if n := len(ix.free); n > 0 {
		idx := ix.free[n-1]
		ix.free = ix.free[:n-1]
		slot := &ix.slots[idx]
		slot.chunkIdx = chunkIdx
		slot.row = row
		slot.used = true
		return Entity{Index: idx, Version: slot.version}
	}
	idx := uint32(len(ix.slots))
	ix.slots = append(ix.slots, entitySlot{chunkIdx: chunkIdx, row: row, version: 1, used: true})
	return Entity{Index: idx, Version: 1}
}

// isLive reports whether e still refers to a currently occupied slot.
func (ix *entityIndexer) isLive(e Entity) bool {
	if int(e.Index) >= len(ix.slots) {
		return false
	}
	slot := &ix.slots[e.Index]
	return slot.used && slot.version == e.Version
}

// locate returns the (chunk, row) an Entity currently occupies. The second
// return is false if e is stale.
func (ix *entityIndexer) locate(e Entity) (chunkIdx, row uint32, ok bool) {
	if !ix.isLive(e) {
		return 0, 0, false
	}
	slot := &ix.slots[e.Index]
	return slot.chunkIdx, slot.row, true
}

// destroy bumps e's slot version (so all outstanding handles go stale) and
// returns its index to the free-list. No-op on an already-stale handle.
func (ix *entityIndexer) destroy(e Entity) {
	if !ix.isLive(e) {
		return
	}
	slot := &ix.slots[e.Index]
	slot.version++
	slot.used = false
	ix.free = append(ix.free, e.Index)
}

// setRow updates the row component of e's slot without touching version or
// chunk. Used when a swap-back moves the *other* entity occupying the
// destination row.
func (ix *entityIndexer) setRow(e Entity, row uint32) {
	if !ix.isLive(e) {
		return
	}
	ix.slots[e.Index].row = row
}

// setChunk updates both chunk and row, used when an entity migrates to a
// different archetype's chunk.
func (ix *entityIndexer) setChunk(e Entity, chunkIdx, row uint32) {
	if !ix.isLive(e) {
		return
	}
	slot := &ix.slots[e.Index]
	slot.chunkIdx = chunkIdx
	slot.row = row
}
