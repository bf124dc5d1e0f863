package ecs

// AddComponent migrates e into the archetype extended with T, preserving
// every column both archetypes share (spec §4.1 "add_component").
func AddComponent[T any](w *World, e Entity, c AccessibleComponent[T]) error {
	return addComponent(w, e, c.ct)
}

// RemoveComponent migrates e into the archetype with T's bit disabled (spec
// §4.1 "remove_component").
func RemoveComponent[T any](w *World, e Entity, c AccessibleComponent[T]) error {
	return removeComponent(w, e, c.ct)
}

// HasComponent reports whether e's current archetype carries T.
func HasComponent[T any](w *World, e Entity, c AccessibleComponent[T]) (bool, error) {
	chunkIdx, _, ok := w.indexer.locate(e)
	if !ok {
		return false, StaleEntityError{Entity: e}
	}
	return w.chunks[chunkIdx].archetype.contains(c.ct), nil
}
