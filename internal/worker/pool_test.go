// SPDX-License-Identifier: EPL-2.0

package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

func TestPool_RunsJobs(t *testing.T) {
	t.Parallel()

	p := NewPool(16)
	p.Start(3)

	var ran atomic.Int32
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		ok := p.Submit(Job{Name: "count", Run: func(context.Context) {
			defer wg.Done()
			ran.Add(1)
		}})
		if !ok {
			t.Fatal("Submit() = false with room in the queue")
		}
	}

	wg.Wait()
	p.Stop()

	if ran.Load() != 10 {
		t.Errorf("ran %d jobs, want 10", ran.Load())
	}
}

func TestPool_QueueFull(t *testing.T) {
	t.Parallel()

	// not started, so nothing drains the queue
	p := NewPool(1)

	if !p.Submit(Job{Name: "first", Run: func(context.Context) {}}) {
		t.Fatal("first Submit() = false")
	}
	if p.Submit(Job{Name: "second", Run: func(context.Context) {}}) {
		t.Error("Submit() on a full queue = true")
	}

	p.Start(1)
	p.Stop()
}

func TestPool_SkipsCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPool(1)
	var ran atomic.Bool
	p.Submit(Job{Name: "late", Ctx: ctx, Run: func(context.Context) { ran.Store(true) }})
	p.Start(1)
	p.Stop()

	if ran.Load() {
		t.Error("cancelled job ran")
	}
}

func TestPool_SubmitAfterStop(t *testing.T) {
	t.Parallel()

	p := NewPool(4)
	p.Start(1)
	p.Stop()
	p.Stop()

	if p.Submit(Job{Name: "after", Run: func(context.Context) {}}) {
		t.Error("Submit() after Stop = true")
	}
}
