package ecs

import "github.com/lukaschod/EntityComponentSystem/internal/profiling"

// Config holds process-wide tunables for the runtime. Values that the
// original C++ source baked in as compile-time constants are exposed here
// so hosts can tune them once at startup, following the teacher's own
// package-level Config singleton (warehouse.Config).
var Config = defaultConfig()

type config struct {
	// ChunkBytes is the byte budget B for a freshly allocated chunk (spec §3).
	ChunkBytes int
	// JobInlinePayload is the max size in bytes of a job value; enqueueing a
	// larger job panics with JobPayloadTooLargeError (spec §4.8).
	JobInlinePayload int
	// MaskLanes records N of the N×32-bit archetype mask (spec §4.4). It is
	// not read: the mask width is the compile-time maskLanes constant in
	// mask.go, so changing this field does not change the mask.
	MaskLanes int
	// WorkerCount is how many workers JobGraph.Start spins up when called
	// with n<=0.
	WorkerCount int
}

func defaultConfig() config {
	return config{
		ChunkBytes:       64 * 1024,
		JobInlinePayload: 2560,
		MaskLanes:        64,
		WorkerCount:      0, // 0 means "use runtime.GOMAXPROCS(0)" at Start time
	}
}

// currentBlobStore and currentProfiler are process-wide singletons with
// init-then-use discipline (spec §5/§9: "Global current-manager pointers").
// New code should prefer explicit plumbing (BlobStore is also reachable
// from World.Blobs()); these exist for collaborators (asset pipeline,
// command buffer appliers) that do not carry a World reference.
var (
	currentBlobStore *BlobStore
	currentProfiler  = profiling.Default()
)

// SetBlobManager installs the process-wide BlobStore used by collaborators
// that don't have direct access to a World.
func SetBlobManager(store *BlobStore) {
	currentBlobStore = store
}

// CurrentBlobManager returns the process-wide BlobStore, or nil if none has
// been installed.
func CurrentBlobManager() *BlobStore {
	return currentBlobStore
}

// SetProfileManager installs the process-wide profiler sink.
func SetProfileManager(p *profiling.Profiler) {
	currentProfiler = p
}

// CurrentProfileManager returns the process-wide profiler sink.
func CurrentProfileManager() *profiling.Profiler {
	return currentProfiler
}
