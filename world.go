package ecs

import (
	"unsafe"

	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/mask"
)

// iterationLock is the single lock bit a running ForEach holds (spec §4.7:
// "structural mutation must not happen underneath a live scan"). The World
// reuses mask.Mask256 for this exactly the way the teacher's storage.go uses
// it for its own Locked()/AddLock()/RemoveLock() trio, even though here
// there is only ever one bit in play.
const iterationLock = uint32(0)

// World is the entity store: the type registry, the archetype/chunk table,
// the entity indexer, the job graph, and the blob store all live here (spec
// §2 "Entity Store"). One World owns one ComponentType registry, so
// RegisterComponent calls from two different Worlds never collide.
type World struct {
	types   *typeRegistry
	indexer *entityIndexer

	chunks []*ArchetypeChunk
	byMask map[archetypeMask]uint32

	locks mask.Mask256

	jobs  *JobGraph
	blobs *BlobStore
}

// NewWorld constructs an empty World with its own type registry, job graph
// and blob store.
func NewWorld() *World {
	return &World{
		types:   newTypeRegistry(),
		indexer: newEntityIndexer(),
		byMask:  make(map[archetypeMask]uint32),
		jobs:    NewJobGraph(),
		blobs:   NewBlobStore(),
	}
}

// Jobs returns the World's JobGraph (spec §5), used by ScheduleForEach dispatch
// and by callers that want to enqueue their own jobs alongside simulation
// systems.
func (w *World) Jobs() *JobGraph { return w.jobs }

// Blobs returns the World's BlobStore (spec §6).
func (w *World) Blobs() *BlobStore { return w.blobs }

// Locked reports whether a ForEach call currently holds the iteration lock.
func (w *World) Locked() bool { return !w.locks.IsEmpty() }

func (w *World) lock()   { w.locks.Mark(iterationLock) }
func (w *World) unlock() { w.locks.Unmark(iterationLock) }

// guardStructural returns LockedStorageError if a live scan forbids
// structural mutation right now. Every entity-creating, entity-destroying,
// or archetype-migrating method starts with this check (spec §9 "structural
// changes are forbidden during iteration").
func (w *World) guardStructural() error {
	if w.Locked() {
		return bark.AddTrace(LockedStorageError{})
	}
	return nil
}

func (w *World) chunkByIndex(idx uint32) *ArchetypeChunk { return w.chunks[idx] }

// archetypeFor returns the archetype for exactly this component type set,
// creating its backing chunk on first use. Types are addressed by mask, so
// requesting the same set in a different order returns the same archetype
// (spec §3: "archetypes are identified by composition, not by insertion
// order").
func (w *World) archetypeFor(types []*ComponentType) (*EntityArchetype, uint32) {
	probe := newEntityArchetype(types)
	if idx, ok := w.byMask[probe.Mask]; ok {
		return w.chunks[idx].archetype, idx
	}
	idx := uint32(len(w.chunks))
	w.chunks = append(w.chunks, newArchetypeChunk(probe))
	w.byMask[probe.Mask] = idx
	return probe, idx
}

// CreateArchetype returns (creating if necessary) the archetype for exactly
// the given component set (spec §4.1 "create_archetype").
func (w *World) CreateArchetype(components ...Component) *EntityArchetype {
	arch, _ := w.archetypeFor(typesOf(components))
	return arch
}

func typesOf(components []Component) []*ComponentType {
	types := make([]*ComponentType, len(components))
	for i, c := range components {
		types[i] = c.componentType()
	}
	return types
}

// CreateEntity allocates one zero-initialized row in arch's chunk and binds
// a fresh Entity handle to it (spec §4.1 "create_entity").
func (w *World) CreateEntity(arch *EntityArchetype) (Entity, error) {
	if err := w.guardStructural(); err != nil {
		return Entity{}, err
	}
	idx, ok := w.byMask[arch.Mask]
	if !ok {
		idx = uint32(len(w.chunks))
		w.chunks = append(w.chunks, newArchetypeChunk(arch))
		w.byMask[arch.Mask] = idx
	}
	chunk := w.chunks[idx]
	row := chunk.pushBack()
	e := w.indexer.create(idx, uint32(row))
	chunk.entities[row] = e
	return e, nil
}

// CreateEntities is the bulk convenience form (spec §4.1 "create_entities"):
// build (or reuse) the archetype for components, then allocate n rows in it.
func (w *World) CreateEntities(n int, components ...Component) ([]Entity, error) {
	if err := w.guardStructural(); err != nil {
		return nil, err
	}
	arch := w.CreateArchetype(components...)
	idx := w.byMask[arch.Mask]
	chunk := w.chunks[idx]

	out := make([]Entity, n)
	for i := 0; i < n; i++ {
		row := chunk.pushBack()
		e := w.indexer.create(idx, uint32(row))
		chunk.entities[row] = e
		out[i] = e
	}
	return out, nil
}

// DestroyEntity removes e's row via swap-back and recycles its indexer slot
// (spec §4.1 "destroy_entity", §9 "swap-back must fix up the moved row's
// indexer entry before anything reads it").
func (w *World) DestroyEntity(e Entity) error {
	if err := w.guardStructural(); err != nil {
		return err
	}
	chunkIdx, row, ok := w.indexer.locate(e)
	if !ok {
		return bark.AddTrace(StaleEntityError{Entity: e})
	}
	chunk := w.chunks[chunkIdx]
	last := chunk.count - 1
	var moved Entity
	movedExists := row != last
	if movedExists {
		moved = chunk.entities[last]
	}

	w.blobs.withScope(func() {
		w.disposeRow(chunk, row)
	})

	if movedExists {
		w.indexer.setRow(moved, uint32(row))
	}
	w.indexer.destroy(e)
	return nil
}

// disposeRow runs BlobReference accounting for every column of row, then
// performs the swap-back itself (chunk.removeSwapBack already runs
// Disposer.Dispose, but has no notion of blobs, so the accounting happens
// here, one layer up, where the World's BlobStore is in scope).
func (w *World) disposeRow(chunk *ArchetypeChunk, row int) {
	for i, col := range chunk.columns {
		size := int(col.componentType.Size)
		if size == 0 {
			continue
		}
		buf := chunk.column(i)
		w.blobs.accountDispose(unsafe.Pointer(&buf[row*size]), col.componentType.goType)
	}
	chunk.removeSwapBack(row)
}

// setRawComponent byte-copies payload into e's column for ct, used by
// CommandBuffer replay after a structural add/set op (spec §4.9
// "CommandBuffer.Execute applies queued ops against the store").
func (w *World) setRawComponent(e Entity, ct *ComponentType, payload []byte) error {
	chunkIdx, row, ok := w.indexer.locate(e)
	if !ok {
		return bark.AddTrace(StaleEntityError{Entity: e})
	}
	chunk := w.chunks[chunkIdx]
	if len(payload) == 0 {
		return nil
	}
	w.blobs.withScope(func() {
		chunk.setRaw(ct, row, unsafe.Pointer(&payload[0]))
		i := chunk.slotIndex(ct)
		size := int(ct.Size)
		buf := chunk.column(i)
		w.blobs.accountCopy(unsafe.Pointer(&buf[row*size]), ct.goType)
	})
	return nil
}

// GetChunks returns every chunk whose archetype matches include (all bits
// present) and excludes none of exclude's bits (spec §4.3 "get_chunks").
func (w *World) GetChunks(include, exclude archetypeMask) []*ArchetypeChunk {
	var out []*ArchetypeChunk
	for _, c := range w.chunks {
		m := c.archetype.Mask
		if m.containsAll(include) && m.containsNone(exclude) {
			out = append(out, c)
		}
	}
	return out
}

// Archetypes returns every archetype the World has ever created a chunk for.
func (w *World) Archetypes() []*EntityArchetype {
	out := make([]*EntityArchetype, len(w.chunks))
	for i, c := range w.chunks {
		out[i] = c.archetype
	}
	return out
}

// addComponent migrates e from its current archetype into one extended with
// ct, preserving overlapping column data (spec §4.1 "add_component").
func addComponent(w *World, e Entity, ct *ComponentType) error {
	if err := w.guardStructural(); err != nil {
		return err
	}
	chunkIdx, row, ok := w.indexer.locate(e)
	if !ok {
		return bark.AddTrace(StaleEntityError{Entity: e})
	}
	src := w.chunks[chunkIdx]
	if src.archetype.contains(ct) {
		return nil
	}
	dstArch, dstIdx := w.archetypeFor(src.archetype.withAdded(ct))
	_ = dstArch
	return w.migrateRow(chunkIdx, row, dstIdx)
}

// removeComponent migrates e from its current archetype into one with ct's
// bit disabled (spec §4.1 "remove_component"; REDESIGN FLAG: this disables,
// rather than the source's enable-on-remove bug — see SPEC_FULL.md §9).
func removeComponent(w *World, e Entity, ct *ComponentType) error {
	if err := w.guardStructural(); err != nil {
		return err
	}
	chunkIdx, row, ok := w.indexer.locate(e)
	if !ok {
		return bark.AddTrace(StaleEntityError{Entity: e})
	}
	src := w.chunks[chunkIdx]
	if !src.archetype.contains(ct) {
		return nil
	}
	dstArch, dstIdx := w.archetypeFor(src.archetype.withRemoved(ct))
	_ = dstArch
	return w.migrateRow(chunkIdx, row, dstIdx)
}

// migrateRow moves the entity at (srcChunkIdx,srcRow) into a new row of
// w.chunks[dstIdx], byte-copying every column both archetypes share, then
// swap-back removes the row from the source chunk (without disposing the
// shared columns, which now belong to the destination row).
func (w *World) migrateRow(srcChunkIdx uint32, srcRow int, dstIdx uint32) error {
	src := w.chunks[srcChunkIdx]
	dst := w.chunks[dstIdx]

	dstRow := dst.pushBack()
	e := src.entities[srcRow]
	dst.entities[dstRow] = e

	w.blobs.withScope(func() {
		for i, col := range dst.columns {
			if si := src.slotIndex(col.componentType); si >= 0 {
				size := int(col.componentType.Size)
				srcBuf := src.column(si)
				dstBuf := dst.column(i)
				copy(dstBuf[dstRow*size:dstRow*size+size], srcBuf[srcRow*size:srcRow*size+size])
			}
		}

		// Any src column not carried into dst is being dropped, not
		// transferred: account its BlobReferences here, one layer above
		// removeRowSharedWith, which only runs the column's Disposer thunk
		// and has no notion of blobs (mirrors disposeRow, spec §4.9).
		for i, col := range src.columns {
			size := int(col.componentType.Size)
			if size == 0 {
				continue
			}
			if dst.slotIndex(col.componentType) >= 0 {
				continue
			}
			buf := src.column(i)
			w.blobs.accountDispose(unsafe.Pointer(&buf[srcRow*size]), col.componentType.goType)
		}
	})

	w.indexer.setChunk(e, dstIdx, uint32(dstRow))

	last := src.count - 1
	movedExists := srcRow != last
	var moved Entity
	if movedExists {
		moved = src.entities[last]
	}
	src.removeRowSharedWith(srcRow, dst)
	if movedExists {
		w.indexer.setRow(moved, uint32(srcRow))
	}
	return nil
}
