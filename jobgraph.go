package ecs

import (
	"reflect"
	"runtime"
	"sync"

	"github.com/TheBitDrifter/bark"
)

// Job is a unit of work the JobGraph can run on a worker. Execute runs on
// whichever worker goroutine dequeues the job; it must only touch the chunk
// columns it declared as dependencies when it was scheduled (spec §5).
type Job interface {
	Execute()
}

// jobData is the JobGraph's per-slot bookkeeping, grounded directly on
// NodeVision.Jobs.hpp's JobData: a handle, an inline payload, a completion
// signal, a dependency chain, and an execute flag. Go's GC makes the
// fixed-size inline byte buffer unnecessary for correctness, but the size
// check against Config.JobInlinePayload is preserved so a job type that
// would have blown the source's budget is still flagged.
type jobData struct {
	handle         JobHandle
	job            Job
	execute        bool
	chain          []JobHandle
	dependencyLeft int32
	cond           *sync.Cond
}

// JobGraph is a dependency-tracked job queue backed by a worker pool.
// Dependencies are JobHandles; the queue itself has no notion of which
// columns a job touches — that association lives in ArchetypeChunk's
// per-column write_handle/read_handle slots (spec §4.2/§4.8).
type JobGraph struct {
	mu    sync.Mutex
	slots []*jobData
	free  []uint32

	ready      []*jobData
	readyCond  *sync.Cond
	running    bool
	workerDone sync.WaitGroup
}

// NewJobGraph constructs an empty, unstarted JobGraph.
func NewJobGraph() *JobGraph {
	g := &JobGraph{}
	g.readyCond = sync.NewCond(&g.mu)
	return g
}

// Start launches n worker goroutines (n<=0 means Config.WorkerCount, and
// runtime.GOMAXPROCS(0) if that is also <=0).
func (g *JobGraph) Start(n int) {
	g.mu.Lock()
	if g.running {
		g.mu.Unlock()
		panic(bark.AddTrace(errAlreadyRunning{}))
	}
	if n <= 0 {
		n = Config.WorkerCount
	}
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	g.running = true
	g.mu.Unlock()

	for i := 0; i < n; i++ {
		g.workerDone.Add(1)
		go g.workerLoop()
	}
}

type errAlreadyRunning struct{}

func (errAlreadyRunning) Error() string { return "job graph already started" }

// Stop waits for the ready queue to drain, then shuts workers down. Mirrors
// WorkerManager::Stop's spin-then-join in Go idiom (condvar instead of a
// busy spin).
func (g *JobGraph) Stop() {
	g.mu.Lock()
	g.running = false
	g.readyCond.Broadcast()
	g.mu.Unlock()
	g.workerDone.Wait()
}

func (g *JobGraph) workerLoop() {
	defer g.workerDone.Done()
	for {
		g.mu.Lock()
		for len(g.ready) == 0 && g.running {
			g.readyCond.Wait()
		}
		if len(g.ready) == 0 && !g.running {
			g.mu.Unlock()
			return
		}
		jd := g.ready[0]
		g.ready = g.ready[1:]
		g.mu.Unlock()

		if jd.execute && jd.job != nil {
			jd.job.Execute()
		}
		g.setCompleted(jd)
	}
}

// allocate returns a slot for a new job, reusing a freed index (bumping its
// version) or growing the slot table.
func (g *JobGraph) allocate() *jobData {
	if n := len(g.free); n > 0 {
		idx := g.free[n-1]
		g.free = g.free[:n-1]
		jd := g.slots[idx]
		jd.handle.version++
		jd.dependencyLeft = 0
		jd.execute = false
		jd.job = nil
		jd.chain = jd.chain[:0]
		return jd
	}
	jd := &jobData{
		handle: JobHandle{index: uint32(len(g.slots)), version: 1},
		cond:   sync.NewCond(&g.mu),
	}
	g.slots = append(g.slots, jd)
	return jd
}

// chainDependencies wires jd behind every still-active handle in deps,
// adding one to jd.dependencyLeft for each dependency that was still active.
func (g *JobGraph) chainDependencies(jd *jobData, deps []JobHandle) {
	for _, dep := range deps {
		if dep.Zero() || int(dep.index) >= len(g.slots) {
			continue
		}
		depData := g.slots[dep.index]
		if depData.handle.version == dep.version {
			depData.chain = append(depData.chain, jd.handle)
			jd.dependencyLeft++
		}
	}
}

// Enqueue schedules job with no dependencies; it becomes ready immediately.
func (g *JobGraph) Enqueue(job Job) JobHandle {
	checkPayloadSize(job)
	g.mu.Lock()
	jd := g.allocate()
	jd.job = job
	jd.execute = true
	g.ready = append(g.ready, jd)
	handle := jd.handle
	g.readyCond.Signal()
	g.mu.Unlock()
	return handle
}

// EnqueueAfter schedules job to run once every handle in deps has completed.
func (g *JobGraph) EnqueueAfter(job Job, deps ...JobHandle) JobHandle {
	checkPayloadSize(job)
	g.mu.Lock()
	jd := g.allocate()
	jd.job = job
	jd.execute = true
	g.chainDependencies(jd, deps)
	handle := jd.handle
	if jd.dependencyLeft == 0 {
		g.ready = append(g.ready, jd)
		g.readyCond.Signal()
	}
	g.mu.Unlock()
	return handle
}

// Combine returns a handle that becomes complete once every handle in deps
// has completed, without running an executor of its own (spec §4.8).
func (g *JobGraph) Combine(deps ...JobHandle) JobHandle {
	g.mu.Lock()
	jd := g.allocate()
	jd.execute = false
	g.chainDependencies(jd, deps)
	handle := jd.handle
	if jd.dependencyLeft == 0 {
		// No active dependency: nothing to wait for and nothing to execute,
		// so complete synchronously rather than round-tripping a worker.
		g.completeLocked(jd)
	}
	g.mu.Unlock()
	return handle
}

func checkPayloadSize(job Job) {
	if job == nil {
		return
	}
	v := reflect.ValueOf(job)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.IsValid() && int(v.Type().Size()) > Config.JobInlinePayload {
		panic(bark.AddTrace(JobPayloadTooLargeError{Size: int(v.Type().Size())}))
	}
}

// JobPayloadTooLargeError reports a job struct larger than
// Config.JobInlinePayload, preserved from the source's inline-buffer budget
// even though Go's GC does not require it for correctness.
type JobPayloadTooLargeError struct{ Size int }

func (e JobPayloadTooLargeError) Error() string {
	return "job payload exceeds configured inline budget"
}

// Complete blocks until handle's job has finished, or returns immediately if
// it already has (version mismatch => already recycled => already done).
func (g *JobGraph) Complete(handle JobHandle) {
	if handle.Zero() {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if int(handle.index) >= len(g.slots) {
		return
	}
	jd := g.slots[handle.index]
	for jd.handle.version == handle.version {
		jd.cond.Wait()
	}
}

// setCompleted is called by a worker after running (or skipping, for
// combine-only jobs) a job's body.
func (g *JobGraph) setCompleted(jd *jobData) {
	g.mu.Lock()
	g.completeLocked(jd)
	g.mu.Unlock()
}

func (g *JobGraph) completeLocked(jd *jobData) {
	jd.handle.version++
	g.free = append(g.free, jd.handle.index)

	chain := jd.chain
	jd.chain = nil
	for _, next := range chain {
		nd := g.slots[next.index]
		nd.dependencyLeft--
		if nd.dependencyLeft == 0 {
			g.ready = append(g.ready, nd)
			g.readyCond.Signal()
		}
	}
	jd.cond.Broadcast()
}
