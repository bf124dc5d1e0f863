// Package asset is the import-pipeline seam the spec names but does not
// specify (spec §12 "asset/meta importer"): a component identifying an
// on-disk asset, a JWCC-flavored (JSON-with-comments) sidecar format for its
// metadata, and a retry-guarded importer that lands both into a World's
// BlobStore. Directory traversal itself stays behind the DirWalker
// interface — the spec explicitly excludes filesystem traversal from scope.
package asset

import (
	"encoding/json"

	"github.com/tailscale/hujson"

	ecs "github.com/lukaschod/EntityComponentSystem"
)

// Asset is the component an imported file is represented by once it has an
// entity: its content identity, and where it (and its sidecar) live on
// disk.
type Asset struct {
	Guid     ecs.Guid
	Path     string
	MetaPath string
}

// Dispose implements ecs.Disposer and does nothing: Asset holds its blob's
// Guid directly rather than a BlobReference, so destroying the owning entity
// leaves the blob's refcount unchanged.
func (a Asset) Dispose() {}

// MetaFile is the sidecar payload describing how an asset was imported,
// authored in JWCC (JSON With Commas and Comments) so hand-edited .meta
// files can carry comments the way Unity-style .meta files conventionally
// do; tailscale/hujson standardizes it to strict JSON before decoding.
type MetaFile struct {
	Guid     ecs.Guid `json:"guid"`
	Importer string   `json:"importer"`
}

// DecodeMetaFile parses a JWCC-flavored sidecar.
func DecodeMetaFile(data []byte) (MetaFile, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return MetaFile{}, err
	}
	var mf MetaFile
	if err := json.Unmarshal(std, &mf); err != nil {
		return MetaFile{}, err
	}
	return mf, nil
}

// EncodeMetaFile serializes a sidecar back to JSON (plain, not JWCC — hujson
// is a relaxed-input decoder, not an encoder with comment round-tripping).
func EncodeMetaFile(mf MetaFile) ([]byte, error) {
	return json.MarshalIndent(mf, "", "  ")
}

// DirWalker enumerates candidate asset files under a root. Left unimplemented
// here: walking a real filesystem tree is explicitly out of scope (spec
// Non-goals), but the importer is still written against this seam so a host
// can plug one in.
type DirWalker interface {
	Walk(root string, fn func(path string) error) error
}
