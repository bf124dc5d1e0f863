package ecs

import "github.com/TheBitDrifter/bark"

// Stream marks which direction a transfer body is running in, mirroring
// NodeVision.Serialization.hpp's Stream::IsRead() so the same transfer code
// could in principle serve both directions. Go's reflection-driven
// yaml.Marshal/Unmarshal already gives WorldSnapshot that property for free
// (one struct definition, no hand-written symmetric read/write pair), so
// Stream here only gates the TypeTree compatibility check, not the byte
// encoding itself.
type Stream interface {
	IsRead() bool
}

// entitySlotSnapshot is the serializable form of entitySlot.
type entitySlotSnapshot struct {
	ChunkIdx uint32
	Row      uint32
	Version  uint32
	Used     bool
}

// chunkSnapshot is the serializable form of one ArchetypeChunk: the ordered
// persistent-GUID list identifying its archetype, its live entities, and a
// raw byte column per component (keyed by GUID so type-id renumbering
// across runs doesn't corrupt the load, spec §4.1b).
type chunkSnapshot struct {
	ComponentGuids []Guid
	Entities       []Entity
	Columns        [][]byte
}

// WorldSnapshot is the full serializable state of a World (spec §6: "World
// save/load round-trip covers the EntityIndexer and every chunk").
type WorldSnapshot struct {
	Slots  []entitySlotSnapshot
	Free   []uint32
	Chunks []chunkSnapshot
	Schema map[Guid]TypeTree
}

// Snapshot captures w's full state. Only components registered with
// Persistent(guid) have an identity that survives a process restart (spec
// §4.1b); Snapshot refuses to serialize a chunk carrying a non-persistent
// component rather than inventing an identity that the next run's registry
// could never reproduce.
func (w *World) Snapshot() (WorldSnapshot, error) {
	snap := WorldSnapshot{
		Free:   append([]uint32(nil), w.indexer.free...),
		Schema: make(map[Guid]TypeTree),
	}
	for _, s := range w.indexer.slots {
		snap.Slots = append(snap.Slots, entitySlotSnapshot{
			ChunkIdx: s.chunkIdx, Row: s.row, Version: s.version, Used: s.used,
		})
	}
	for _, chunk := range w.chunks {
		cs := chunkSnapshot{Entities: append([]Entity(nil), chunk.Entities()...)}
		for i, col := range chunk.columns {
			ct := col.componentType
			if !ct.Persistent || ct.Guid.IsNil() {
				return WorldSnapshot{}, bark.AddTrace(NonPersistentComponentError{TypeID: ct.TypeID})
			}
			cs.ComponentGuids = append(cs.ComponentGuids, ct.Guid)
			size := int(ct.Size)
			raw := chunk.column(i)[:chunk.count*size]
			cs.Columns = append(cs.Columns, append([]byte(nil), raw...))
			snap.Schema[ct.Guid] = buildTypeTree(ct)
		}
		snap.Chunks = append(snap.Chunks, cs)
	}
	return snap, nil
}

// NonPersistentComponentError reports an attempt to snapshot a chunk
// carrying a component that was never registered with Persistent(guid).
type NonPersistentComponentError struct{ TypeID uint32 }

func (e NonPersistentComponentError) Error() string {
	return "component type is not Persistent and cannot be serialized"
}

// Restore replaces w's entity/chunk state with snap's, after validating
// every component's TypeTree against the type currently registered under
// its GUID (spec §6 "refuse a load whose schema drifted").
func (w *World) Restore(snap WorldSnapshot) error {
	for guid, tree := range snap.Schema {
		ct, ok := w.types.byGuid[guid]
		if !ok {
			continue // type not registered in this process; a chunk referencing it fails below with ComponentNotFoundError
		}
		if !tree.equal(buildTypeTree(ct)) {
			return bark.AddTrace(SchemaMismatchError{Guid: guid})
		}
	}

	w.indexer = newEntityIndexer()
	for _, s := range snap.Slots {
		w.indexer.slots = append(w.indexer.slots, entitySlot{
			chunkIdx: s.ChunkIdx, row: s.Row, version: s.Version, used: s.Used,
		})
	}
	w.indexer.free = append([]uint32(nil), snap.Free...)

	w.chunks = nil
	w.byMask = make(map[archetypeMask]uint32)

	for _, cs := range snap.Chunks {
		types := make([]*ComponentType, 0, len(cs.ComponentGuids))
		for _, guid := range cs.ComponentGuids {
			ct, ok := w.types.byGuid[guid]
			if !ok {
				return bark.AddTrace(ComponentNotFoundError{})
			}
			types = append(types, ct)
		}
		arch, idx := w.archetypeFor(types)
		chunk := w.chunks[idx]
		for _, e := range cs.Entities {
			row := chunk.pushBack()
			chunk.entities[row] = e
		}
		for i, raw := range cs.Columns {
			ct := arch.ComponentTypes[i]
			size := int(ct.Size)
			if size == 0 {
				continue
			}
			dst := chunk.column(i)
			copy(dst, raw)
		}
	}
	return nil
}
