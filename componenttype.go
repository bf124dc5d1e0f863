package ecs

import (
	"reflect"

	"github.com/TheBitDrifter/bark"
)

// Component is the marker interface a registered component type's
// AccessibleComponent implements; it exists so Query/ForEach signatures can
// accept "any registered component handle" without reflection.
type Component interface {
	componentType() *ComponentType
}

// Disposer is implemented by components that own a resource (typically a
// BlobReference) that must be released when the component's row is
// destroyed or the component is removed from its entity; overwriting a value
// with Set does not call Dispose. Registering a type implementing Disposer
// records a destructor thunk, mirroring the source's IDisposable tag
// (spec §4.1).
type Disposer interface {
	Dispose()
}

// ComponentType is the type registry's record for one registered component
// type: a dense type-id, its size, an optional persistent Guid, and an
// optional destructor thunk. Grounded on edwinsyarief-lazyecs's
// reflect.Type-keyed registration (types.go: RegisterComponent[T]).
type ComponentType struct {
	TypeID     uint32
	Size       uintptr
	Guid       Guid
	Persistent bool
	dispose    func(ptr any)
	goType     reflect.Type
}

func (ct *ComponentType) componentType() *ComponentType { return ct }

// typeRegistry assigns dense type-ids in registration order, scoped to a
// single World so concurrent/parallel tests (and multiple simulations in one
// process) never contend over a shared global id space. The spec's "stable
// for process lifetime" invariant then reads as "stable for the World's
// lifetime", which is the only scope a standalone library can actually
// promise its caller.
type typeRegistry struct {
	byGoType map[reflect.Type]*ComponentType
	byGuid   map[Guid]*ComponentType
	byID     map[uint32]*ComponentType
	next     uint32
}

func newTypeRegistry() *typeRegistry {
	return &typeRegistry{
		byGoType: make(map[reflect.Type]*ComponentType),
		byGuid:   make(map[Guid]*ComponentType),
		byID:     make(map[uint32]*ComponentType),
	}
}

// registerOpt configures RegisterComponent.
type registerOpt func(*ComponentType)

// Persistent marks a component type as persistent: its type-id is looked up
// (or assigned and recorded) under guid in the World's GUID side table, so
// every type registered under the same guid in one World shares one type-id
// (spec §4.1b). The side table is not saved: a fresh World assigns ids in
// registration order, and snapshots identify columns by guid instead.
func Persistent(guid Guid) registerOpt {
	return func(ct *ComponentType) {
		ct.Persistent = true
		ct.Guid = guid
	}
}

// RegisterComponent assigns (or reuses) a dense type-id for T and returns an
// AccessibleComponent bound to it. Calling it twice for the same T on the
// same World returns the same underlying ComponentType.
func RegisterComponent[T any](w *World, opts ...registerOpt) AccessibleComponent[T] {
	var zero T
	goType := reflect.TypeOf(zero)

	reg := w.types
	if ct, ok := reg.byGoType[goType]; ok {
		return AccessibleComponent[T]{ct: ct}
	}

	ct := &ComponentType{
		Size:   goType.Size(),
		goType: goType,
	}
	for _, opt := range opts {
		opt(ct)
	}

	if ct.Persistent && !ct.Guid.IsNil() {
		if existing, ok := reg.byGuid[ct.Guid]; ok {
			ct.TypeID = existing.TypeID
		} else {
			ct.TypeID = reg.allocate()
			reg.byGuid[ct.Guid] = ct
		}
	} else {
		ct.TypeID = reg.allocate()
	}

	if reflect.PointerTo(goType).Implements(reflect.TypeOf((*Disposer)(nil)).Elem()) {
		ct.dispose = func(ptr any) { ptr.(Disposer).Dispose() }
	}

	reg.byGoType[goType] = ct
	reg.byID[ct.TypeID] = ct
	return AccessibleComponent[T]{ct: ct}
}

// byTypeID looks up a previously-registered type by its dense id, used by
// CommandBuffer replay to resolve the type a recorded op refers to.
func (w *World) byTypeID(id uint32) (*ComponentType, bool) {
	ct, ok := w.types.byID[id]
	return ct, ok
}

func (r *typeRegistry) allocate() uint32 {
	id := r.next
	if id > maxTypeBit() {
		panic(bark.AddTrace(MaskOverflowError{TypeID: id}))
	}
	r.next++
	return id
}
