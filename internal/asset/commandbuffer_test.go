package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ecs "github.com/lukaschod/EntityComponentSystem"
)

func TestCommandBufferSaveThenLoad(t *testing.T) {
	blobs := ecs.NewBlobStore()
	a := Asset{Guid: ecs.NewGuid(), Path: "a.bin", MetaPath: "a.meta"}

	cb := NewCommandBuffer()
	cb.Save(a, []byte("v1"))
	cb.Load(a)
	require.NoError(t, cb.Execute(blobs))

	data, ok := blobs.Get(a.Guid)
	require.True(t, ok)
	assert.Equal(t, []byte("v1"), data)
}

func TestCommandBufferUpdateOverwrites(t *testing.T) {
	blobs := ecs.NewBlobStore()
	a := Asset{Guid: ecs.NewGuid(), Path: "a.bin", MetaPath: "a.meta"}
	ecs.CreateBlob[[]byte](blobs, a.Guid, []byte("v1"))

	cb := NewCommandBuffer()
	cb.Update(a, []byte("v2"))
	require.NoError(t, cb.Execute(blobs))

	data, ok := blobs.Get(a.Guid)
	require.True(t, ok)
	assert.Equal(t, []byte("v2"), data)
}

func TestCommandBufferLoadMissingBlobErrors(t *testing.T) {
	blobs := ecs.NewBlobStore()
	a := Asset{Guid: ecs.NewGuid()}

	cb := NewCommandBuffer()
	cb.Load(a)
	err := cb.Execute(blobs)
	require.Error(t, err)
}

func TestCommandBufferResetsAfterExecute(t *testing.T) {
	blobs := ecs.NewBlobStore()
	a := Asset{Guid: ecs.NewGuid()}

	cb := NewCommandBuffer()
	cb.Save(a, []byte("v1"))
	require.NoError(t, cb.Execute(blobs))
	assert.Len(t, cb.intents, 0)
}
