package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ecs "github.com/lukaschod/EntityComponentSystem"
)

func TestMetaFileEncodeDecodeRoundTrip(t *testing.T) {
	mf := MetaFile{Guid: ecs.NewGuid(), Importer: "texture"}

	data, err := EncodeMetaFile(mf)
	require.NoError(t, err)

	got, err := DecodeMetaFile(data)
	require.NoError(t, err)
	assert.Equal(t, mf, got)
}

func TestDecodeMetaFileAcceptsJWCCComments(t *testing.T) {
	data := []byte(`{
		// imported by the texture pipeline
		"guid": [1, 2, 3, 4],
		"importer": "texture",
	}`)

	got, err := DecodeMetaFile(data)
	require.NoError(t, err)
	assert.Equal(t, "texture", got.Importer)
}
