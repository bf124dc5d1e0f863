package ecs

// factory implements the factory pattern for runtime construction, grounded
// on the teacher's package-level `Factory` value (factory.go): a single
// zero-size value exposing every top-level constructor, so a caller that
// wants to swap in a test double only needs to satisfy this method set
// rather than know which free functions exist.
type factory struct{}

// Factory is the package's single factory instance.
var Factory factory

// NewWorld constructs an empty World.
func (f factory) NewWorld() *World { return NewWorld() }

// NewQuery returns an empty Query (matches every archetype until narrowed).
func (f factory) NewQuery() *Query { return NewQuery() }

// NewCommandBuffer returns an empty CommandBuffer.
func (f factory) NewCommandBuffer() *CommandBuffer { return NewCommandBuffer() }

// NewBlobStore returns an empty BlobStore.
func (f factory) NewBlobStore() *BlobStore { return NewBlobStore() }
