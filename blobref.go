package ecs

// BlobReference is an opaque, ref-counted payload handle a component can
// embed instead of the payload itself (spec §6 "Blob store"). T is a
// phantom type parameter: it documents what the blob decodes to without the
// store itself needing to know, mirroring the source's BlobReference<T>.
type BlobReference[T any] struct {
	Guid Guid
}

// blobGuid lets BlobStore.accountCopy/accountDispose find BlobReference
// fields inside an arbitrary component struct via reflection, without the
// store needing a generic parameter of its own.
func (r BlobReference[T]) blobGuid() Guid { return r.Guid }

type blobHolder interface {
	blobGuid() Guid
}
