package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandBufferCreateEntity(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[posT](w)

	cb := NewCommandBuffer()
	cb.CreateEntity(pos.ct)
	require.NoError(t, cb.Execute(w))

	assert.Equal(t, 1, NewQuery().With(pos).Count(w))
}

func TestCommandBufferAddAndSetComponent(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[posT](w)
	vel := RegisterComponent[velT](w)

	entities, err := w.CreateEntities(1, pos)
	require.NoError(t, err)
	e := entities[0]

	cb := NewCommandBuffer()
	AddComponentCmd(cb, e, vel, velT{X: 3, Y: 4})
	SetComponentCmd(cb, e, pos, posT{X: 1, Y: 2})
	require.NoError(t, cb.Execute(w))

	gotPos, err := pos.Get(w, e)
	require.NoError(t, err)
	assert.Equal(t, posT{X: 1, Y: 2}, *gotPos)

	gotVel, err := vel.Get(w, e)
	require.NoError(t, err)
	assert.Equal(t, velT{X: 3, Y: 4}, *gotVel)
}

func TestCommandBufferRemoveComponent(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[posT](w)
	vel := RegisterComponent[velT](w)
	entities, err := w.CreateEntities(1, pos, vel)
	require.NoError(t, err)
	e := entities[0]

	cb := NewCommandBuffer()
	RemoveComponentCmd(cb, e, vel)
	require.NoError(t, cb.Execute(w))

	has, err := HasComponent(w, e, vel)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCommandBufferResetAfterExecute(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[posT](w)
	cb := NewCommandBuffer()
	cb.CreateEntity(pos.ct)
	require.NoError(t, cb.Execute(w))
	assert.Equal(t, 0, cb.buf.Len())
}

func TestEndSimulationCommandBufferSystemDrains(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[posT](w)

	ecb := NewEndSimulationCommandBufferSystem(w)
	buf := ecb.GetBuffer(JobHandle{})
	buf.CreateEntity(pos.ct)

	require.NoError(t, ecb.OnUpdate())
	assert.Equal(t, 1, NewQuery().With(pos).Count(w))
}
