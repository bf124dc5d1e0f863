package ecs

import "fmt"

// LockedStorageError is returned when a structural operation is attempted
// while the World holds its single-writer lock (e.g. from within a ForEach body).
type LockedStorageError struct{}

func (e LockedStorageError) Error() string {
	return "world is locked for structural mutation"
}

// ComponentNotFoundError reports a typed access to a component the target
// archetype does not carry.
type ComponentNotFoundError struct {
	Component Component
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component does not exist on entity: %T", e.Component)
}

// ComponentExistsError reports AddComponent on an archetype that already has it.
type ComponentExistsError struct {
	Component Component
}

func (e ComponentExistsError) Error() string {
	return fmt.Sprintf("component already exists on entity: %T", e.Component)
}

// StaleEntityError reports an operation against an Entity handle that no
// longer refers to a live row. Accessors return it, and so do the mutations
// (DestroyEntity, AddComponent, RemoveComponent and command-buffer replay):
// a stale handle is reported to the caller rather than ignored silently, and
// the World is left unchanged.
type StaleEntityError struct {
	Entity Entity
}

func (e StaleEntityError) Error() string {
	return fmt.Sprintf("entity %v is not live", e.Entity)
}

// MaskOverflowError reports registration of more component types than the
// archetype mask's fixed bit capacity allows. Fatal: it indicates the
// World registered more distinct component types than maskLanes*32 (2048).
type MaskOverflowError struct {
	TypeID uint32
}

func (e MaskOverflowError) Error() string {
	return fmt.Sprintf("component type id %d exceeds archetype mask capacity", e.TypeID)
}

