package ecs

import (
	"reflect"
	"unsafe"

	"github.com/TheBitDrifter/bark"
)

// AccessibleComponent extends a registered Component with typed access
// helpers and the read/write binding methods ForEach dispatch needs. It is
// kept nearly verbatim from the teacher's componentaccessible.go
// (warehouse.AccessibleComponent[T]), re-aimed at chunk columns instead of
// table rows and extended with Read()/Write() since the spec's scheduling
// discipline is "read vs write per parameter" (spec §4.6/§9).
type AccessibleComponent[T any] struct {
	ct *ComponentType
}

func (c AccessibleComponent[T]) componentType() *ComponentType { return c.ct }

// Read returns the Component's read binding: for-each dispatch will treat
// the bound column as read-only (it will wait on, but not replace, the
// column's write_handle, and will advance the read_handle).
func (c AccessibleComponent[T]) Read() Binding {
	return Binding{ct: c.ct, write: false, goType: reflect.TypeOf((*T)(nil)).Elem()}
}

// Write returns the Component's write binding: for-each dispatch will wait
// on both of the bound column's handles and replace its write_handle.
func (c AccessibleComponent[T]) Write() Binding {
	return Binding{ct: c.ct, write: true, goType: reflect.TypeOf((*T)(nil)).Elem()}
}

// Get returns a pointer to T on entity e's current row, or an error if e is
// stale or does not carry T (spec §7: get_component is an explicit
// precondition-fail on stale entities, never a silent no-op).
func (c AccessibleComponent[T]) Get(w *World, e Entity) (*T, error) {
	chunkIdx, row, ok := w.indexer.locate(e)
	if !ok {
		return nil, bark.AddTrace(StaleEntityError{Entity: e})
	}
	chunk := w.chunkByIndex(chunkIdx)
	i := chunk.slotIndex(c.ct)
	if i < 0 {
		return nil, bark.AddTrace(ComponentNotFoundError{})
	}
	col := columnSlice[T](chunk, i)
	return &col[row], nil
}

// MustGet panics (after wrapping with bark.AddTrace) instead of returning an
// error; convenient inside ForEach bodies and tests where staleness has
// already been ruled out by the query that produced e.
func (c AccessibleComponent[T]) MustGet(w *World, e Entity) *T {
	v, err := c.Get(w, e)
	if err != nil {
		panic(err)
	}
	return v
}

// Set overwrites T on entity e's current row with value, under the blob
// ref-counting scope (spec §4.9: set_component is one of the operations that
// may duplicate a component payload containing BlobReferences).
func (c AccessibleComponent[T]) Set(w *World, e Entity, value T) error {
	ptr, err := c.Get(w, e)
	if err != nil {
		return err
	}
	w.blobs.withScope(func() {
		w.blobs.accountDispose(unsafe.Pointer(ptr), reflect.TypeOf(value))
		*ptr = value
		w.blobs.accountCopy(unsafe.Pointer(ptr), reflect.TypeOf(value))
	})
	return nil
}

// columnFor returns the typed column slice of c within chunk, and the
// underlying slot index (-1 if chunk's archetype does not carry T).
func (c AccessibleComponent[T]) columnFor(chunk *ArchetypeChunk) ([]T, int) {
	i := chunk.slotIndex(c.ct)
	if i < 0 {
		return nil, -1
	}
	return columnSlice[T](chunk, i), i
}
