/*
Package ecs provides an archetype/chunk Entity-Component-System runtime.

Simulation code declares components as plain data, entities are grouped
by their exact component composition into column-major chunks, and
user-written systems run queries over those chunks with high memory
locality and optional parallel dispatch across a worker pool.

Core Concepts:

  - Entity: a versioned handle into the World.
  - Component: a plain data type registered once via RegisterComponent.
  - Archetype: the exact set of component types attached to an entity.
  - Chunk: a column-major byte buffer holding one archetype's rows,
    grown by doubling when full, with a read/write JobHandle per column.
  - Query: an include/exclude mask matched against chunk archetypes.
  - JobGraph: a dependency-tracked job queue backed by a worker pool;
    queries scheduled through it derive their dependencies from the
    read/write handles of the columns they touch.

Basic Usage:

	world := ecs.NewWorld()
	position := ecs.RegisterComponent[Position](world)
	velocity := ecs.RegisterComponent[Velocity](world)

	entities, _ := world.CreateEntities(100, position, velocity)

	query := ecs.NewQuery().With(position, velocity)
	ecs.ForEach2(world, query, position.Write(), velocity.Read(),
		func(e ecs.Entity, pos *Position, vel *Velocity) {
			pos.X += vel.X
			pos.Y += vel.Y
		},
	)

ecs is the underlying runtime for the NodeVision simulation stack but
also works as a standalone library.
*/
package ecs
