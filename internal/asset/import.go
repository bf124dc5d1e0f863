package asset

import (
	"github.com/cenkalti/backoff/v4"

	ecs "github.com/lukaschod/EntityComponentSystem"
)

// ReadFile abstracts the actual byte source (os.ReadFile in production,
// an in-memory fake in tests) so ImportSystem never touches the filesystem
// directly.
type ReadFile func(path string) ([]byte, error)

// ImportSystem turns a file+sidecar pair into an Asset and its blob,
// retrying the read with backoff since asset imports commonly race a
// still-writing editor or a network filesystem. Decoded sidecars are kept
// in a bounded Cache keyed by metaPath, so re-importing a file already seen
// this run skips the read+decode of its .meta.
type ImportSystem struct {
	Blobs      *ecs.BlobStore
	NewBackoff func() backoff.BackOff
	Read       ReadFile
	MetaCache  Cache[MetaFile]
}

// NewImportSystem returns an ImportSystem using an exponential backoff with
// cenkalti/backoff/v4's defaults for each retried read, and a MetaCache
// bounded to 4096 distinct sidecars.
func NewImportSystem(blobs *ecs.BlobStore, read ReadFile) *ImportSystem {
	return &ImportSystem{
		Blobs:      blobs,
		Read:       read,
		NewBackoff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
		MetaCache:  NewCache[MetaFile](4096),
	}
}

// ImportFile reads path and metaPath (retrying transient read failures),
// decodes the sidecar (or reuses a cached decode for the same metaPath),
// stores the asset payload in Blobs under the sidecar's guid, and returns
// the resulting Asset component.
func (s *ImportSystem) ImportFile(path, metaPath string) (Asset, error) {
	mf, err := s.metaFile(metaPath)
	if err != nil {
		return Asset{}, err
	}

	payload, err := s.readWithRetry(path)
	if err != nil {
		return Asset{}, err
	}

	ecs.CreateBlob[[]byte](s.Blobs, mf.Guid, payload)
	return Asset{Guid: mf.Guid, Path: path, MetaPath: metaPath}, nil
}

func (s *ImportSystem) metaFile(metaPath string) (MetaFile, error) {
	if s.MetaCache != nil {
		if idx, ok := s.MetaCache.GetIndex(metaPath); ok {
			return *s.MetaCache.GetItem(idx), nil
		}
	}

	metaData, err := s.readWithRetry(metaPath)
	if err != nil {
		return MetaFile{}, err
	}
	mf, err := DecodeMetaFile(metaData)
	if err != nil {
		return MetaFile{}, err
	}

	if s.MetaCache != nil {
		if _, err := s.MetaCache.Register(metaPath, mf); err != nil {
			return MetaFile{}, err
		}
	}
	return mf, nil
}

func (s *ImportSystem) readWithRetry(path string) ([]byte, error) {
	var data []byte
	op := func() error {
		d, err := s.Read(path)
		if err != nil {
			return err
		}
		data = d
		return nil
	}
	if err := backoff.Retry(op, s.NewBackoff()); err != nil {
		return nil, err
	}
	return data, nil
}
