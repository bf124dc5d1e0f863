package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryConstructsUsableCollaborators(t *testing.T) {
	w := Factory.NewWorld()
	pos := RegisterComponent[posT](w)

	entities, err := w.CreateEntities(1, pos)
	require.NoError(t, err)

	q := Factory.NewQuery().With(pos)
	assert.Equal(t, 1, q.Count(w))

	cb := Factory.NewCommandBuffer()
	cb.DestroyEntity(entities[0])
	require.NoError(t, cb.Execute(w))
	assert.Equal(t, 0, q.Count(w))

	store := Factory.NewBlobStore()
	guid := NewGuid()
	CreateBlob[[]byte](store, guid, []byte("x"))
	_, ok := store.Get(guid)
	assert.True(t, ok)
}
