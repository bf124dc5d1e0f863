package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldCreateEntitiesAndDestroy(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[posT](w)

	entities, err := w.CreateEntities(3, pos)
	require.NoError(t, err)
	require.Len(t, entities, 3)

	err = w.DestroyEntity(entities[1])
	require.NoError(t, err)
	assert.False(t, w.indexer.isLive(entities[1]))
	assert.True(t, w.indexer.isLive(entities[0]))
	assert.True(t, w.indexer.isLive(entities[2]))
}

func TestWorldDestroySwapBackFixesIndexer(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[posT](w)
	entities, err := w.CreateEntities(3, pos)
	require.NoError(t, err)

	require.NoError(t, w.DestroyEntity(entities[0]))

	// entities[2] should have been swapped into row 0 and the indexer updated.
	chunkIdx, row, ok := w.indexer.locate(entities[2])
	require.True(t, ok)
	assert.Equal(t, uint32(0), row)

	chunk := w.chunkByIndex(chunkIdx)
	assert.Equal(t, entities[2], chunk.entities[0])
}

func TestWorldDestroyStaleEntityErrors(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[posT](w)
	entities, _ := w.CreateEntities(1, pos)
	require.NoError(t, w.DestroyEntity(entities[0]))

	err := w.DestroyEntity(entities[0])
	assert.Error(t, err)
}

func TestWorldAddComponentMigratesPreservingData(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[posT](w)
	vel := RegisterComponent[velT](w)

	entities, err := w.CreateEntities(1, pos)
	require.NoError(t, err)
	e := entities[0]

	require.NoError(t, pos.Set(w, e, posT{X: 1, Y: 2}))
	require.NoError(t, AddComponent(w, e, vel))

	has, err := HasComponent(w, e, vel)
	require.NoError(t, err)
	assert.True(t, has)

	got, err := pos.Get(w, e)
	require.NoError(t, err)
	assert.Equal(t, posT{X: 1, Y: 2}, *got)
}

func TestWorldRemoveComponentDisablesBit(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[posT](w)
	vel := RegisterComponent[velT](w)

	entities, err := w.CreateEntities(1, pos, vel)
	require.NoError(t, err)
	e := entities[0]

	require.NoError(t, RemoveComponent(w, e, vel))
	has, err := HasComponent(w, e, vel)
	require.NoError(t, err)
	assert.False(t, has)

	stillHas, err := HasComponent(w, e, pos)
	require.NoError(t, err)
	assert.True(t, stillHas)
}

func TestWorldStructuralOpsBlockedWhileLocked(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[posT](w)
	w.lock()
	defer w.unlock()

	_, err := w.CreateEntities(1, pos)
	assert.Error(t, err)
}
