package ecs

import (
	"sync/atomic"
	"testing"
	"time"
)

type countingJob struct {
	counter *int32
}

func (j countingJob) Execute() { atomic.AddInt32(j.counter, 1) }

type bigJob struct {
	payload [4096]byte
}

func (bigJob) Execute() {}

func TestJobGraphEnqueueAndComplete(t *testing.T) {
	g := NewJobGraph()
	g.Start(2)
	defer g.Stop()

	var counter int32
	handle := g.Enqueue(countingJob{counter: &counter})
	g.Complete(handle)

	if atomic.LoadInt32(&counter) != 1 {
		t.Fatalf("expected job to have run exactly once, counter=%d", counter)
	}
}

func TestJobGraphEnqueueAfterRunsInOrder(t *testing.T) {
	g := NewJobGraph()
	g.Start(1)
	defer g.Stop()

	var order []int32
	var counter int32

	first := g.Enqueue(countingJob{counter: &counter})
	second := g.EnqueueAfter(countingJob{counter: &counter}, first)
	g.Complete(second)

	order = append(order, atomic.LoadInt32(&counter))
	if order[0] != 2 {
		t.Fatalf("expected both jobs to have run by the time the dependent completed, counter=%d", order[0])
	}
}

func TestJobGraphCombineWithNoDepsCompletesImmediately(t *testing.T) {
	g := NewJobGraph()
	handle := g.Combine()
	done := make(chan struct{})
	go func() {
		g.Complete(handle)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Combine() with no dependencies should already be complete")
	}
}

func TestJobGraphCompleteOnZeroHandleReturnsImmediately(t *testing.T) {
	g := NewJobGraph()
	g.Complete(JobHandle{}) // must not block or panic
}

func TestJobGraphPayloadTooLargePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for oversized job payload")
		}
	}()
	g := NewJobGraph()
	g.Enqueue(bigJob{})
}
