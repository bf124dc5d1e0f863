package ecs

import (
	"reflect"
	"unsafe"

	"github.com/TheBitDrifter/bark"
)

// chunkColumn describes one component column's placement inside a chunk's
// byte buffer and carries the two job-handle slots the spec assigns per
// column rather than per chunk (spec §3/§4.2): a write_handle (most recent
// writer) and a read_handle (most recent reader batch). Binding a query to
// {A: read, B: write} can then run concurrently with one bound to {C:
// write}, since their column handles never interact.
type chunkColumn struct {
	componentType *ComponentType
	offset        int
	writeHandle   JobHandle
	readHandle    JobHandle
}

// ArchetypeChunk is the columnar storage for one archetype's rows, laid out
// column-major in a single byte buffer that doubles in capacity when a
// pushBack finds it full (spec §3): column k
// starts at capacity*Σ_{i<k}size_i from the buffer base. The entity column
// (an inline Entity per row) is tracked separately from the component
// columns since it has no job handle of its own.
type ArchetypeChunk struct {
	archetype *EntityArchetype
	buf       []byte
	entities  []Entity
	columns   []chunkColumn
	count     int
	capacity  int
}

func newArchetypeChunk(arch *EntityArchetype) *ArchetypeChunk {
	c := &ArchetypeChunk{archetype: arch}
	c.allocate(chunkCapacityFor(arch.componentRowSize()))
	return c
}

func chunkCapacityFor(componentRowSize int) int {
	if componentRowSize == 0 {
		// Tag archetypes (no components) still need a row count so entities
		// carrying no data can exist; size capacity off the entity slot alone.
		componentRowSize = int(unsafe.Sizeof(Entity{}))
	}
	cap := Config.ChunkBytes / componentRowSize
	if cap < 1 {
		cap = 1
	}
	return cap
}

// allocate (re)sizes the chunk's backing buffer to hold capacity rows,
// copying any live rows into their new column positions. Used both for the
// initial allocation and for growth (the spec's "spec version allocates one
// chunk per archetype and grows via resize", §4.5 note (b)).
func (c *ArchetypeChunk) allocate(capacity int) {
	offsets := make([]int, len(c.archetype.ComponentTypes))
	offset := 0
	for i, ct := range c.archetype.ComponentTypes {
		offsets[i] = offset
		offset += capacity * int(ct.Size)
	}
	newBuf := make([]byte, offset)
	newEntities := make([]Entity, capacity)

	if c.count > 0 {
		copy(newEntities, c.entities[:c.count])
		for i, ct := range c.archetype.ComponentTypes {
			oldOff := c.columns[i].offset
			n := c.count * int(ct.Size)
			copy(newBuf[offsets[i]:], c.buf[oldOff:oldOff+n])
		}
	}

	columns := make([]chunkColumn, len(c.archetype.ComponentTypes))
	for i, ct := range c.archetype.ComponentTypes {
		wh, rh := JobHandle{}, JobHandle{}
		if i < len(c.columns) {
			wh, rh = c.columns[i].writeHandle, c.columns[i].readHandle
		}
		columns[i] = chunkColumn{componentType: ct, offset: offsets[i], writeHandle: wh, readHandle: rh}
	}

	c.buf = newBuf
	c.entities = newEntities
	c.columns = columns
	c.capacity = capacity
}

// Count returns the number of live rows.
func (c *ArchetypeChunk) Count() int { return c.count }

// Capacity returns the maximum number of rows the chunk currently holds
// before it must grow.
func (c *ArchetypeChunk) Capacity() int { return c.capacity }

// Full reports whether the chunk has no room for another row without growing.
func (c *ArchetypeChunk) Full() bool { return c.count >= c.capacity }

// PushBack reserves a new row, growing the chunk first if it is full.
// Every column of the row and its entity slot are zeroed (a row reused after
// a swap-back would otherwise keep the bytes left in it); the caller must set
// the entity slot immediately after (spec §4.2).
func (c *ArchetypeChunk) pushBack() int {
	if c.Full() {
		c.allocate(c.capacity * 2)
	}
	row := c.count
	c.count++
	for i, col := range c.columns {
		size := int(col.componentType.Size)
		clear(c.column(i)[row*size : row*size+size])
	}
	c.entities[row] = Entity{}
	return row
}

func (c *ArchetypeChunk) column(i int) []byte {
	col := &c.columns[i]
	size := int(col.componentType.Size)
	return c.buf[col.offset : col.offset+c.capacity*size]
}

func (c *ArchetypeChunk) slotIndex(ct *ComponentType) int {
	for i, col := range c.columns {
		if col.componentType.TypeID == ct.TypeID {
			return i
		}
	}
	return -1
}

// setRaw byte-copies size(type) bytes from src into row's slot in the named
// column. Precondition: the archetype contains ct (fatal otherwise).
func (c *ArchetypeChunk) setRaw(ct *ComponentType, row int, src unsafe.Pointer) {
	i := c.slotIndex(ct)
	if i < 0 {
		panic(bark.AddTrace(ComponentNotFoundError{}))
	}
	size := int(ct.Size)
	if size == 0 {
		return
	}
	dst := unsafe.Pointer(&c.column(i)[row*size])
	copy(unsafe.Slice((*byte)(dst), size), unsafe.Slice((*byte)(src), size))
}

// removeSwapBack disposes row (if its columns carry destructors) and
// byte-copies the last live row into its place for every column, then
// shrinks count by one. The caller is responsible for updating the
// EntityIndexer entry of whichever entity occupied the last row (spec §4.2,
// §4.5, §9 "Swap-back and external indices").
func (c *ArchetypeChunk) removeSwapBack(row int) {
	last := c.count - 1
	for i, col := range c.columns {
		size := int(col.componentType.Size)
		if size == 0 {
			continue
		}
		buf := c.column(i)
		if col.componentType.dispose != nil {
			ptr := reflect.NewAt(col.componentType.goType, unsafe.Pointer(&buf[row*size])).Interface()
			col.componentType.dispose(ptr)
		}
		if row != last {
			copy(buf[row*size:row*size+size], buf[last*size:last*size+size])
		}
	}
	if row != last {
		c.entities[row] = c.entities[last]
	}
	c.count--
}

// removeRowSharedWith performs the same swap-back as removeSwapBack, except
// it skips the destructor for any column also present in dst — those
// columns' data has already been copied into dst and still lives on
// (spec §4.1 "add/remove_component transfers, rather than destroys, shared
// columns").
func (c *ArchetypeChunk) removeRowSharedWith(row int, dst *ArchetypeChunk) {
	last := c.count - 1
	for i, col := range c.columns {
		size := int(col.componentType.Size)
		if size == 0 {
			continue
		}
		buf := c.column(i)
		if col.componentType.dispose != nil && dst.slotIndex(col.componentType) < 0 {
			ptr := reflect.NewAt(col.componentType.goType, unsafe.Pointer(&buf[row*size])).Interface()
			col.componentType.dispose(ptr)
		}
		if row != last {
			copy(buf[row*size:row*size+size], buf[last*size:last*size+size])
		}
	}
	if row != last {
		c.entities[row] = c.entities[last]
	}
	c.count--
}

// Entities returns the live entity slice (zero-copy view, spec §4.2).
func (c *ArchetypeChunk) Entities() []Entity {
	return c.entities[:c.count]
}

// equal implements the spec's full (mask,row_size) archetype equality plus
// per-column byte equality for live rows (spec §4.2 "Equality").
func (c *ArchetypeChunk) equal(other *ArchetypeChunk) bool {
	if !c.archetype.equal(other.archetype) || c.count != other.count {
		return false
	}
	for i, col := range c.columns {
		size := int(col.componentType.Size)
		a := c.column(i)[:c.count*size]
		b := other.column(i)[:other.count*size]
		if string(a) != string(b) {
			return false
		}
	}
	for i := 0; i < c.count; i++ {
		if c.entities[i] != other.entities[i] {
			return false
		}
	}
	return true
}

// columnSlice returns a typed, zero-copy view over column i's live rows.
func columnSlice[T any](c *ArchetypeChunk, i int) []T {
	col := &c.columns[i]
	ptr := unsafe.Pointer(&c.buf[col.offset])
	return unsafe.Slice((*T)(ptr), c.capacity)[:c.count]
}
