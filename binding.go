package ecs

import "reflect"

// Binding names one component a ForEach call touches and whether it touches
// it for reading or writing. AccessibleComponent[T].Read()/Write() produce
// Bindings; Go has no way to inspect a closure's parameter list at compile
// time the way the source's template-deduced `Read<A>, Write<B>` signature
// does, so the spec's own suggested adaptation — an explicit per-parameter
// builder — is what ForEach1..ForEach8 consume (spec §4.6 "Go notes").
type Binding struct {
	ct     *ComponentType
	write  bool
	goType reflect.Type
}

// Type returns the bound component's registered type descriptor.
func (b Binding) Type() *ComponentType { return b.ct }

// IsWrite reports whether the binding requests write access.
func (b Binding) IsWrite() bool { return b.write }
