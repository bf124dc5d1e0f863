package asset

import (
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ecs "github.com/lukaschod/EntityComponentSystem"
)

func noDelayBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Microsecond
	b.MaxInterval = time.Microsecond
	b.MaxElapsedTime = time.Second
	return b
}

func TestImportSystemImportsOnFirstSuccess(t *testing.T) {
	blobs := ecs.NewBlobStore()
	guid := ecs.NewGuid()
	metaData, err := EncodeMetaFile(MetaFile{Guid: guid, Importer: "raw"})
	require.NoError(t, err)

	read := func(path string) ([]byte, error) {
		if path == "a.meta" {
			return metaData, nil
		}
		return []byte("payload"), nil
	}

	sys := NewImportSystem(blobs, read)
	sys.NewBackoff = noDelayBackoff

	a, err := sys.ImportFile("a.bin", "a.meta")
	require.NoError(t, err)
	assert.Equal(t, guid, a.Guid)

	data, ok := blobs.Get(guid)
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), data)
}

func TestImportSystemRetriesTransientFailures(t *testing.T) {
	blobs := ecs.NewBlobStore()
	guid := ecs.NewGuid()
	metaData, err := EncodeMetaFile(MetaFile{Guid: guid, Importer: "raw"})
	require.NoError(t, err)

	attempts := 0
	read := func(path string) ([]byte, error) {
		if path != "a.bin" {
			return metaData, nil
		}
		attempts++
		if attempts < 3 {
			return nil, errors.New("transient read failure")
		}
		return []byte("payload"), nil
	}

	sys := NewImportSystem(blobs, read)
	sys.NewBackoff = noDelayBackoff

	a, err := sys.ImportFile("a.bin", "a.meta")
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, guid, a.Guid)
}

func TestImportSystemCachesDecodedSidecar(t *testing.T) {
	blobs := ecs.NewBlobStore()
	guid := ecs.NewGuid()
	metaData, err := EncodeMetaFile(MetaFile{Guid: guid, Importer: "raw"})
	require.NoError(t, err)

	metaReads := 0
	read := func(path string) ([]byte, error) {
		if path == "a.meta" {
			metaReads++
			return metaData, nil
		}
		return []byte("payload"), nil
	}

	sys := NewImportSystem(blobs, read)
	sys.NewBackoff = noDelayBackoff

	_, err = sys.ImportFile("a.bin", "a.meta")
	require.NoError(t, err)
	_, err = sys.ImportFile("a2.bin", "a.meta")
	require.NoError(t, err)

	assert.Equal(t, 1, metaReads, "second import should reuse the cached sidecar decode")
}

func TestImportSystemFailsAfterBackoffExhausted(t *testing.T) {
	blobs := ecs.NewBlobStore()
	read := func(path string) ([]byte, error) {
		return nil, errors.New("permanent failure")
	}

	sys := NewImportSystem(blobs, read)
	sys.NewBackoff = func() backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Microsecond), 2)
	}

	_, err := sys.ImportFile("a.bin", "a.meta")
	require.Error(t, err)
}
