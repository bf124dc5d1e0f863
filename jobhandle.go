package ecs

// JobHandle is a versioned index into the JobGraph's slot table. A handle is
// active iff the slot at Index still carries Version; once the job
// completes, the slot's version is incremented, making every outstanding
// handle for it stale (and therefore "complete") without needing to track
// waiters (spec §3/§4.8).
type JobHandle struct {
	index   uint32
	version uint32
}

// Zero reports whether h is the unset handle (never scheduled).
func (h JobHandle) Zero() bool {
	return h == JobHandle{}
}
